package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kiranalabs/bazaari-backend/internal/pricing"
	"github.com/kiranalabs/bazaari-backend/pkg/db/models"
	"github.com/kiranalabs/bazaari-backend/pkg/enums"
	"github.com/kiranalabs/bazaari-backend/pkg/types"
)

// ProductSummary is the storefront listing row. FromPrice carries the
// cheapest variant's final price for the requesting role.
type ProductSummary struct {
	ID           uuid.UUID        `json:"id"`
	Title        string           `json:"title"`
	Slug         string           `json:"slug"`
	BrandID      *uuid.UUID       `json:"brand_id,omitempty"`
	CategoryID   *uuid.UUID       `json:"category_id,omitempty"`
	Images       []string         `json:"images,omitempty"`
	Tags         []string         `json:"tags,omitempty"`
	VariantCount int              `json:"variant_count"`
	FromPrice    *decimal.Decimal `json:"from_price,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// VariantView is a purchasable variant priced for the requesting role.
type VariantView struct {
	ID           uuid.UUID         `json:"id"`
	SKU          string            `json:"sku"`
	Label        string            `json:"label"`
	AvailableQty int               `json:"available_qty"`
	IsActive     bool              `json:"is_active"`
	Breakdown    pricing.Breakdown `json:"breakdown"`
}

// ProductDetail is the product page payload: the product plus every
// variant priced for the requesting role.
type ProductDetail struct {
	Product  models.Product `json:"product"`
	Variants []VariantView  `json:"variants"`
}

// ListProductsInput captures storefront listing filters.
type ListProductsInput struct {
	Limit      int
	Cursor     string
	CategoryID *uuid.UUID
	BrandID    *uuid.UUID
	Query      string
}

// VariantInput carries the pricing surface for one variant.
type VariantInput struct {
	SKU              string             `json:"sku" validate:"required"`
	Label            string             `json:"label" validate:"required"`
	ActualPrice      decimal.Decimal    `json:"actual_price"`
	RolePrices       types.RoleAmounts  `json:"role_prices,omitempty"`
	DiscountPercents types.RolePercents `json:"discount_percents,omitempty"`
	GSTPercents      types.RolePercents `json:"gst_percents,omitempty"`
	AvailableQty     int                `json:"available_qty" validate:"min=0"`
	IsActive         bool               `json:"is_active"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Title       string         `json:"title" validate:"required"`
	Slug        string         `json:"slug" validate:"required"`
	Description *string        `json:"description,omitempty"`
	BrandID     *uuid.UUID     `json:"brand_id,omitempty"`
	CategoryID  *uuid.UUID     `json:"category_id,omitempty"`
	Images      []string       `json:"images,omitempty"`
	Tags        []string       `json:"tags,omitempty"`
	Variants    []VariantInput `json:"variants" validate:"required,min=1,dive"`
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Title       *string              `json:"title,omitempty"`
	Description *string              `json:"description,omitempty"`
	BrandID     *uuid.UUID           `json:"brand_id,omitempty"`
	CategoryID  *uuid.UUID           `json:"category_id,omitempty"`
	Status      *enums.ProductStatus `json:"status,omitempty"`
	Images      *[]string            `json:"images,omitempty"`
	Tags        *[]string            `json:"tags,omitempty"`
	Variants    *[]VariantInput      `json:"variants,omitempty" validate:"omitempty,min=1,dive"`
}
