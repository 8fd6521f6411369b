package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/kiranalabs/bazaari-backend/pkg/enums"
	"github.com/kiranalabs/bazaari-backend/pkg/types"
)

// Brand is a storefront brand lookup entity.
type Brand struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name;not null;uniqueIndex"`
	Slug      string    `gorm:"column:slug;not null;uniqueIndex"`
	LogoURL   *string   `gorm:"column:logo_url"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// Category is a storefront category lookup entity.
type Category struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string     `gorm:"column:name;not null"`
	Slug      string     `gorm:"column:slug;not null;uniqueIndex"`
	ParentID  *uuid.UUID `gorm:"column:parent_id;type:uuid"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

// Product is a storefront listing; pricing lives on its variants.
type Product struct {
	ID          uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Title       string              `gorm:"column:title;not null"`
	Slug        string              `gorm:"column:slug;not null;uniqueIndex"`
	Description *string             `gorm:"column:description"`
	BrandID     *uuid.UUID          `gorm:"column:brand_id;type:uuid"`
	CategoryID  *uuid.UUID          `gorm:"column:category_id;type:uuid;index"`
	Status      enums.ProductStatus `gorm:"column:status;type:text;not null;default:'active'"`
	Images      pq.StringArray      `gorm:"column:images;type:text[]"`
	Tags        pq.StringArray      `gorm:"column:tags;type:text[]"`
	Variants    []ProductVariant    `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductVariant is a purchasable SKU-level configuration carrying its
// own role-tiered pricing and stock.
type ProductVariant struct {
	ID               uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID        uuid.UUID          `gorm:"column:product_id;type:uuid;not null;index"`
	SKU              string             `gorm:"column:sku;not null;uniqueIndex"`
	Label            string             `gorm:"column:label;not null"`
	ActualPrice      decimal.Decimal    `gorm:"column:actual_price;type:numeric(16,4);not null"`
	RolePrices       types.RoleAmounts  `gorm:"column:role_prices;type:jsonb"`
	DiscountPercents types.RolePercents `gorm:"column:discount_percents;type:jsonb"`
	GSTPercents      types.RolePercents `gorm:"column:gst_percents;type:jsonb"`
	AvailableQty     int                `gorm:"column:available_qty;not null;default:0"`
	IsActive         bool               `gorm:"column:is_active;not null;default:true"`
	CreatedAt        time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
