package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kiranalabs/bazaari-backend/pkg/db/models"
	"github.com/kiranalabs/bazaari-backend/pkg/enums"
	"github.com/kiranalabs/bazaari-backend/pkg/pagination"
)

// Repository wires together catalog persistence helpers.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// CreateProduct inserts a product with its variants.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct saves an existing product row.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// FindProductByID loads the product with all variants.
func (r *Repository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&product, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// FindProductBySlug loads an active product with all variants.
func (r *Repository) FindProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("slug = ? AND status = ?", slug, enums.ProductStatusActive).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ReplaceVariants replaces all variants for the product.
func (r *Repository) ReplaceVariants(ctx context.Context, productID uuid.UUID, variants []models.ProductVariant) error {
	tx := r.db.WithContext(ctx)
	if err := tx.Where("product_id = ?", productID).Delete(&models.ProductVariant{}).Error; err != nil {
		return err
	}
	if len(variants) == 0 {
		return nil
	}
	for i := range variants {
		variants[i].ProductID = productID
	}
	return tx.Create(&variants).Error
}

// GetVariantForPurchase loads an active variant with its parent product.
// The cart service depends on this to snapshot pricing.
func (r *Repository) GetVariantForPurchase(ctx context.Context, variantID uuid.UUID) (*models.ProductVariant, *models.Product, error) {
	var variant models.ProductVariant
	if err := r.db.WithContext(ctx).First(&variant, "id = ?", variantID).Error; err != nil {
		return nil, nil, err
	}

	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", variant.ProductID).Error; err != nil {
		return nil, nil, err
	}
	return &variant, &product, nil
}

// ListProducts returns active products newest-first with cursor pagination.
// One extra row is fetched to detect the next page.
func (r *Repository) ListProducts(ctx context.Context, input ListProductsInput) ([]models.Product, error) {
	cursor, err := pagination.ParseCursor(input.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Where("status = ?", enums.ProductStatusActive)

	if input.CategoryID != nil {
		qb = qb.Where("category_id = ?", *input.CategoryID)
	}
	if input.BrandID != nil {
		qb = qb.Where("brand_id = ?", *input.BrandID)
	}
	if search := strings.TrimSpace(input.Query); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		qb = qb.Where("LOWER(title) LIKE ?", pattern)
	}
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Product
	err = qb.Order("created_at DESC").Order("id DESC").
		Limit(pagination.LimitWithBuffer(input.Limit)).
		Find(&rows).Error
	return rows, err
}

// DecrementStock atomically reduces a variant's available quantity.
// It fails when the variant no longer has qty units in stock.
func (r *Repository) DecrementStock(ctx context.Context, variantID uuid.UUID, qty int) error {
	result := r.db.WithContext(ctx).
		Model(&models.ProductVariant{}).
		Where("id = ? AND available_qty >= ?", variantID, qty).
		UpdateColumn("available_qty", gorm.Expr("available_qty - ?", qty))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// ListBrands returns every brand ordered by name.
func (r *Repository) ListBrands(ctx context.Context) ([]models.Brand, error) {
	var rows []models.Brand
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}

// ListCategories returns every category ordered by name.
func (r *Repository) ListCategories(ctx context.Context) ([]models.Category, error) {
	var rows []models.Category
	err := r.db.WithContext(ctx).Order("name ASC").Find(&rows).Error
	return rows, err
}
