package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/kiranalabs/bazaari-backend/internal/pricing"
	"github.com/kiranalabs/bazaari-backend/pkg/db"
	"github.com/kiranalabs/bazaari-backend/pkg/db/models"
	"github.com/kiranalabs/bazaari-backend/pkg/enums"
	pkgerrors "github.com/kiranalabs/bazaari-backend/pkg/errors"
	"github.com/kiranalabs/bazaari-backend/pkg/pagination"
)

// catalogRepository is the persistence surface the service depends on.
type catalogRepository interface {
	WithTx(tx *gorm.DB) *Repository
	CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error)
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindProductBySlug(ctx context.Context, slug string) (*models.Product, error)
	ReplaceVariants(ctx context.Context, productID uuid.UUID, variants []models.ProductVariant) error
	GetVariantForPurchase(ctx context.Context, variantID uuid.UUID) (*models.ProductVariant, *models.Product, error)
	ListProducts(ctx context.Context, input ListProductsInput) ([]models.Product, error)
	ListBrands(ctx context.Context) ([]models.Brand, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
}

// Service exposes catalog reads priced per role plus admin product management.
type Service interface {
	ListProducts(ctx context.Context, role enums.Role, input ListProductsInput) (pagination.Page[ProductSummary], error)
	GetProductDetail(ctx context.Context, role enums.Role, slug string) (*ProductDetail, error)
	GetVariantBreakdown(ctx context.Context, role enums.Role, variantID uuid.UUID) (*pricing.Breakdown, error)
	ListBrands(ctx context.Context) ([]models.Brand, error)
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*models.Product, error)
}

type service struct {
	repo     catalogRepository
	dbClient *db.Client
}

// NewService constructs a catalog service instance.
func NewService(repo catalogRepository, dbClient *db.Client) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	return &service{repo: repo, dbClient: dbClient}, nil
}

// ListProducts returns active products priced for the role.
func (s *service) ListProducts(ctx context.Context, role enums.Role, input ListProductsInput) (pagination.Page[ProductSummary], error) {
	role = role.Normalize()

	rows, err := s.repo.ListProducts(ctx, input)
	if err != nil {
		return pagination.Page[ProductSummary]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	summaries := make([]ProductSummary, 0, len(rows))
	for _, product := range rows {
		summaries = append(summaries, summarize(product, role))
	}

	page := pagination.NewPage(summaries, input.Limit, func(p ProductSummary) pagination.Cursor {
		return pagination.Cursor{CreatedAt: p.CreatedAt, ID: p.ID}
	})
	return page, nil
}

// GetProductDetail loads an active product by slug with every variant
// priced for the role.
func (s *service) GetProductDetail(ctx context.Context, role enums.Role, slug string) (*ProductDetail, error) {
	if strings.TrimSpace(slug) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	role = role.Normalize()

	product, err := s.repo.FindProductBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product")
	}

	views := make([]VariantView, 0, len(product.Variants))
	for _, variant := range product.Variants {
		views = append(views, VariantView{
			ID:           variant.ID,
			SKU:          variant.SKU,
			Label:        variant.Label,
			AvailableQty: variant.AvailableQty,
			IsActive:     variant.IsActive,
			Breakdown:    breakdownForVariant(variant, role),
		})
	}

	return &ProductDetail{Product: *product, Variants: views}, nil
}

// GetVariantBreakdown prices a single variant for the role. A variant
// with no pricing data yields an all-zero breakdown, not an error.
func (s *service) GetVariantBreakdown(ctx context.Context, role enums.Role, variantID uuid.UUID) (*pricing.Breakdown, error) {
	if variantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant id is required")
	}

	variant, _, err := s.repo.GetVariantForPurchase(ctx, variantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}

	breakdown := breakdownForVariant(*variant, role.Normalize())
	return &breakdown, nil
}

// ListBrands returns the brand lookup table.
func (s *service) ListBrands(ctx context.Context) ([]models.Brand, error) {
	rows, err := s.repo.ListBrands(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list brands")
	}
	return rows, nil
}

// ListCategories returns the category lookup table.
func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return rows, nil
}

// CreateProduct inserts a product with its variants atomically.
func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if err := validateCreateProduct(input); err != nil {
		return nil, err
	}

	product := &models.Product{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(input.Title),
		Slug:        strings.TrimSpace(input.Slug),
		Description: input.Description,
		BrandID:     input.BrandID,
		CategoryID:  input.CategoryID,
		Status:      enums.ProductStatusActive,
		Images:      pq.StringArray(input.Images),
		Tags:        pq.StringArray(input.Tags),
		Variants:    buildVariants(input.Variants),
	}

	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		_, err := s.repo.WithTx(tx).CreateProduct(ctx, product)
		return err
	}); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "product slug or variant sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return product, nil
}

// UpdateProduct applies the provided mutations; a variant set replaces
// the existing variants wholesale.
func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	var updated *models.Product
	if err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		product, err := txRepo.FindProductByID(ctx, productID)
		if err != nil {
			return err
		}

		applyProductUpdate(product, input)
		product.Variants = nil
		if _, err := txRepo.UpdateProduct(ctx, product); err != nil {
			return err
		}

		if input.Variants != nil {
			if err := txRepo.ReplaceVariants(ctx, productID, buildVariants(*input.Variants)); err != nil {
				return err
			}
		}

		updated, err = txRepo.FindProductByID(ctx, productID)
		return err
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "variant sku already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return updated, nil
}

func validateCreateProduct(input CreateProductInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(input.Slug) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	if len(input.Variants) == 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "at least one variant is required")
	}
	for _, variant := range input.Variants {
		if strings.TrimSpace(variant.SKU) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant sku is required")
		}
		if variant.ActualPrice.IsNegative() {
			return pkgerrors.New(pkgerrors.CodeValidation, "variant price cannot be negative")
		}
	}
	return nil
}

func applyProductUpdate(product *models.Product, input UpdateProductInput) {
	if input.Title != nil {
		product.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.BrandID != nil {
		product.BrandID = input.BrandID
	}
	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.Status != nil && input.Status.IsValid() {
		product.Status = *input.Status
	}
	if input.Images != nil {
		product.Images = pq.StringArray(*input.Images)
	}
	if input.Tags != nil {
		product.Tags = pq.StringArray(*input.Tags)
	}
}

func buildVariants(inputs []VariantInput) []models.ProductVariant {
	variants := make([]models.ProductVariant, 0, len(inputs))
	for _, input := range inputs {
		variants = append(variants, models.ProductVariant{
			ID:               uuid.New(),
			SKU:              strings.TrimSpace(input.SKU),
			Label:            strings.TrimSpace(input.Label),
			ActualPrice:      input.ActualPrice,
			RolePrices:       input.RolePrices,
			DiscountPercents: input.DiscountPercents,
			GSTPercents:      input.GSTPercents,
			AvailableQty:     input.AvailableQty,
			IsActive:         input.IsActive,
		})
	}
	return variants
}

func breakdownForVariant(variant models.ProductVariant, role enums.Role) pricing.Breakdown {
	return pricing.ComputeBreakdown(pricing.VariantPrice{
		ActualPrice:      variant.ActualPrice,
		RolePrices:       variant.RolePrices,
		DiscountPercents: variant.DiscountPercents,
		GSTPercents:      variant.GSTPercents,
		AvailableQty:     variant.AvailableQty,
	}, role)
}

func summarize(product models.Product, role enums.Role) ProductSummary {
	summary := ProductSummary{
		ID:           product.ID,
		Title:        product.Title,
		Slug:         product.Slug,
		BrandID:      product.BrandID,
		CategoryID:   product.CategoryID,
		Images:       product.Images,
		Tags:         product.Tags,
		VariantCount: len(product.Variants),
		CreatedAt:    product.CreatedAt,
	}

	for _, variant := range product.Variants {
		if !variant.IsActive {
			continue
		}
		final := breakdownForVariant(variant, role).FinalPrice
		if summary.FromPrice == nil || final.LessThan(*summary.FromPrice) {
			summary.FromPrice = &final
		}
	}
	return summary
}
