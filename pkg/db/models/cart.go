package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kiranalabs/bazaari-backend/pkg/enums"
	"github.com/kiranalabs/bazaari-backend/pkg/types"
)

// CartRecord is a user's server-side cart. One active cart per user.
type CartRecord struct {
	ID        uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index"`
	Status    enums.CartStatus `gorm:"column:status;type:text;not null;default:'active'"`
	Items     []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// VariantSnapshot is the pricing captured when an item enters the cart.
// It is stored as JSONB and never refreshed from the catalog; a NULL
// snapshot marks an item that had no pricing data when it was added.
type VariantSnapshot struct {
	ActualPrice      decimal.Decimal    `json:"actual_price"`
	RolePrices       types.RoleAmounts  `json:"role_prices,omitempty"`
	DiscountPercents types.RolePercents `json:"discount_percents,omitempty"`
	GSTPercents      types.RolePercents `json:"gst_percents,omitempty"`
	AvailableQty     int                `json:"available_qty"`
}

// CartItem is one line in a cart. ItemKey follows the
// "{product_id}_{variant_id}" convention and is unique within a cart.
type CartItem struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID        uuid.UUID        `gorm:"column:cart_id;type:uuid;not null;index:idx_cart_items_cart_key,unique"`
	ItemKey       string           `gorm:"column:item_key;not null;index:idx_cart_items_cart_key,unique"`
	ProductID     uuid.UUID        `gorm:"column:product_id;type:uuid;not null"`
	VariantID     uuid.UUID        `gorm:"column:variant_id;type:uuid;not null"`
	Title         string           `gorm:"column:title;not null"`
	SKU           string           `gorm:"column:sku;not null"`
	Quantity      int              `gorm:"column:quantity;not null"`
	PriceSnapshot *VariantSnapshot `gorm:"column:price_snapshot;type:jsonb;serializer:json"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
