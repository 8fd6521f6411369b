package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kiranalabs/bazaari-backend/pkg/db"
	"github.com/kiranalabs/bazaari-backend/pkg/enums"
	pkgerrors "github.com/kiranalabs/bazaari-backend/pkg/errors"
	"github.com/kiranalabs/bazaari-backend/pkg/types"
)

func newCatalogService(t *testing.T) (Service, *Repository) {
	t.Helper()

	conn := setupCatalogTestDB(t)
	repo := NewRepository(conn)
	svc, err := NewService(repo, db.NewFromConn(conn))
	require.NoError(t, err)
	return svc, repo
}

func TestServiceCreateProductAndDetail(t *testing.T) {
	svc, _ := newCatalogService(t)

	created, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Title: "Masala Chai 250g",
		Slug:  "masala-chai-" + uuid.NewString(),
		Variants: []VariantInput{
			{
				SKU:         "CHAI-" + uuid.NewString(),
				Label:       "250g",
				ActualPrice: decimal.NewFromInt(1000),
				DiscountPercents: types.RolePercents{
					enums.RoleStockist: decimal.NewFromInt(10),
				},
				GSTPercents: types.RolePercents{
					enums.RoleCustomer: decimal.NewFromInt(18),
				},
				AvailableQty: 25,
				IsActive:     true,
			},
		},
	})
	require.NoError(t, err)
	require.Len(t, created.Variants, 1)

	detail, err := svc.GetProductDetail(context.Background(), enums.RoleStockist, created.Slug)
	require.NoError(t, err)
	require.Len(t, detail.Variants, 1)

	// 1000 - 10% = 900, GST falls back to the customer rate: 18% of 900 = 162
	breakdown := detail.Variants[0].Breakdown
	assert.True(t, breakdown.DiscountAmount.Equal(decimal.NewFromInt(100)), "discount=%s", breakdown.DiscountAmount)
	assert.True(t, breakdown.GSTAmount.Equal(decimal.NewFromInt(162)), "gst=%s", breakdown.GSTAmount)
	assert.True(t, breakdown.FinalPrice.Equal(decimal.NewFromInt(1062)), "final=%s", breakdown.FinalPrice)
}

func TestServiceCreateProductValidation(t *testing.T) {
	svc, _ := newCatalogService(t)

	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Title: "No Variants",
		Slug:  "no-variants",
	})
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestServiceGetVariantBreakdownRoleFallback(t *testing.T) {
	svc, _ := newCatalogService(t)

	created, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Title: "Fallback Product",
		Slug:  "fallback-" + uuid.NewString(),
		Variants: []VariantInput{
			{
				SKU:         "FB-" + uuid.NewString(),
				Label:       "unit",
				ActualPrice: decimal.NewFromInt(500),
				GSTPercents: types.RolePercents{
					enums.RoleCustomer: decimal.NewFromInt(12),
				},
				IsActive: true,
			},
		},
	})
	require.NoError(t, err)

	// unknown role prices as customer
	breakdown, err := svc.GetVariantBreakdown(context.Background(), enums.Role("wholesaler"), created.Variants[0].ID)
	require.NoError(t, err)
	assert.True(t, breakdown.FinalPrice.Equal(decimal.NewFromInt(560)), "final=%s", breakdown.FinalPrice)

	_, err = svc.GetVariantBreakdown(context.Background(), enums.RoleCustomer, uuid.New())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceUpdateProductReplacesVariants(t *testing.T) {
	svc, _ := newCatalogService(t)

	created, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Title: "Update Target",
		Slug:  "update-" + uuid.NewString(),
		Variants: []VariantInput{
			{
				SKU:         "OLD-" + uuid.NewString(),
				Label:       "old",
				ActualPrice: decimal.NewFromInt(100),
				IsActive:    true,
			},
		},
	})
	require.NoError(t, err)

	newTitle := "Updated Title"
	archived := enums.ProductStatusArchived
	updated, err := svc.UpdateProduct(context.Background(), created.ID, UpdateProductInput{
		Title:  &newTitle,
		Status: &archived,
		Variants: &[]VariantInput{
			{
				SKU:         "NEWER-" + uuid.NewString(),
				Label:       "newer",
				ActualPrice: decimal.NewFromInt(250),
				IsActive:    true,
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, newTitle, updated.Title)
	assert.Equal(t, enums.ProductStatusArchived, updated.Status)
	require.Len(t, updated.Variants, 1)
	assert.Equal(t, "newer", updated.Variants[0].Label)
}

func TestServiceListProductsPricesFromCheapestVariant(t *testing.T) {
	svc, _ := newCatalogService(t)

	categoryID := uuid.New()
	slug := "multi-" + uuid.NewString()
	_, err := svc.CreateProduct(context.Background(), CreateProductInput{
		Title:      "Multi Variant",
		Slug:       slug,
		CategoryID: &categoryID,
		Variants: []VariantInput{
			{
				SKU:         "MV-A-" + uuid.NewString(),
				Label:       "small",
				ActualPrice: decimal.NewFromInt(200),
				IsActive:    true,
			},
			{
				SKU:         "MV-B-" + uuid.NewString(),
				Label:       "large",
				ActualPrice: decimal.NewFromInt(900),
				IsActive:    true,
			},
		},
	})
	require.NoError(t, err)

	page, err := svc.ListProducts(context.Background(), enums.RoleCustomer, ListProductsInput{
		Limit:      10,
		CategoryID: &categoryID,
	})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	require.NotNil(t, page.Items[0].FromPrice)
	assert.True(t, page.Items[0].FromPrice.Equal(decimal.NewFromInt(200)))
	assert.Equal(t, 2, page.Items[0].VariantCount)
	assert.Nil(t, page.NextCursor)
}

func TestServiceGetProductDetailNotFound(t *testing.T) {
	svc, _ := newCatalogService(t)

	_, err := svc.GetProductDetail(context.Background(), enums.RoleCustomer, "nope-"+uuid.NewString())
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}
