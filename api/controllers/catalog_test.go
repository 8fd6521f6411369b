package controllers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kiranalabs/bazaari-backend/internal/catalog"
	"github.com/kiranalabs/bazaari-backend/internal/pricing"
	"github.com/kiranalabs/bazaari-backend/pkg/db/models"
	"github.com/kiranalabs/bazaari-backend/pkg/enums"
	"github.com/kiranalabs/bazaari-backend/pkg/pagination"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

type stubCatalogService struct {
	createFn func(ctx context.Context, input catalog.CreateProductInput) (*models.Product, error)
}

func (s stubCatalogService) ListProducts(context.Context, enums.Role, catalog.ListProductsInput) (pagination.Page[catalog.ProductSummary], error) {
	return pagination.Page[catalog.ProductSummary]{}, nil
}

func (s stubCatalogService) GetProductDetail(context.Context, enums.Role, string) (*catalog.ProductDetail, error) {
	return &catalog.ProductDetail{}, nil
}

func (s stubCatalogService) GetVariantBreakdown(context.Context, enums.Role, uuid.UUID) (*pricing.Breakdown, error) {
	return &pricing.Breakdown{}, nil
}

func (s stubCatalogService) ListBrands(context.Context) ([]models.Brand, error) {
	return nil, nil
}

func (s stubCatalogService) ListCategories(context.Context) ([]models.Category, error) {
	return nil, nil
}

func (s stubCatalogService) CreateProduct(ctx context.Context, input catalog.CreateProductInput) (*models.Product, error) {
	if s.createFn != nil {
		return s.createFn(ctx, input)
	}
	return &models.Product{}, nil
}

func (s stubCatalogService) UpdateProduct(context.Context, uuid.UUID, catalog.UpdateProductInput) (*models.Product, error) {
	return &models.Product{}, nil
}

func TestAdminCreateProductAcceptsSnakeCaseBody(t *testing.T) {
	var captured catalog.CreateProductInput
	svc := stubCatalogService{
		createFn: func(_ context.Context, input catalog.CreateProductInput) (*models.Product, error) {
			captured = input
			return &models.Product{ID: uuid.New()}, nil
		},
	}

	body := `{
		"title": "Masala Chai",
		"slug": "masala-chai",
		"variants": [{
			"sku": "CHAI-250",
			"label": "250g",
			"actual_price": "1000",
			"discount_percents": {"stockist": "10"},
			"gst_percents": {"customer": "18"},
			"available_qty": 5,
			"is_active": true
		}]
	}`
	req := authedRequest(http.MethodPost, "/api/admin/v1/catalog/products", body, uuid.New(), enums.RoleAdmin)
	rec := httptest.NewRecorder()

	AdminCreateProduct(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.Title != "Masala Chai" || captured.Slug != "masala-chai" {
		t.Errorf("product fields not decoded: %+v", captured)
	}
	if len(captured.Variants) != 1 {
		t.Fatalf("expected 1 variant, got %d", len(captured.Variants))
	}
	v := captured.Variants[0]
	if v.SKU != "CHAI-250" || v.AvailableQty != 5 || !v.IsActive {
		t.Errorf("variant fields not decoded: %+v", v)
	}
	if !v.ActualPrice.Equal(dec("1000")) {
		t.Errorf("actual price not decoded: %s", v.ActualPrice)
	}
	if pct, ok := v.DiscountPercents.Get(enums.RoleStockist); !ok || !pct.Equal(dec("10")) {
		t.Errorf("discount percents not decoded: %+v", v.DiscountPercents)
	}
	if pct, ok := v.GSTPercents.Get(enums.RoleCustomer); !ok || !pct.Equal(dec("18")) {
		t.Errorf("gst percents not decoded: %+v", v.GSTPercents)
	}
}

func TestAdminCreateProductRequiresVariants(t *testing.T) {
	body := `{"title": "Masala Chai", "slug": "masala-chai", "variants": []}`
	req := authedRequest(http.MethodPost, "/api/admin/v1/catalog/products", body, uuid.New(), enums.RoleAdmin)
	rec := httptest.NewRecorder()

	AdminCreateProduct(stubCatalogService{}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for empty variants, got %d", rec.Code)
	}
}
