package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kiranalabs/bazaari-backend/pkg/enums"
)

// Order is an immutable snapshot produced at checkout. Totals are
// recomputed from the line items at creation time and never derived
// again afterwards.
type Order struct {
	ID          uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderNumber int64             `gorm:"column:order_number;not null;uniqueIndex"`
	UserID      uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	PricingRole enums.Role        `gorm:"column:pricing_role;type:text;not null"`
	Status      enums.OrderStatus `gorm:"column:status;type:text;not null;default:'placed'"`
	Currency    string            `gorm:"column:currency;not null;default:'INR'"`

	Subtotal           decimal.Decimal `gorm:"column:subtotal;type:numeric(16,4);not null"`
	TotalDiscount      decimal.Decimal `gorm:"column:total_discount;type:numeric(16,4);not null"`
	TotalAfterDiscount decimal.Decimal `gorm:"column:total_after_discount;type:numeric(16,4);not null"`
	TotalGST           decimal.Decimal `gorm:"column:total_gst;type:numeric(16,4);not null"`
	TotalFinal         decimal.Decimal `gorm:"column:total_final;type:numeric(16,4);not null"`

	LineItems []OrderLineItem `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// OrderLineItem freezes one cart line at checkout, including the
// per-unit breakdown it was priced with.
type OrderLineItem struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID   uuid.UUID `gorm:"column:order_id;type:uuid;not null;index"`
	ProductID uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	VariantID uuid.UUID `gorm:"column:variant_id;type:uuid;not null"`
	Title     string    `gorm:"column:title;not null"`
	SKU       string    `gorm:"column:sku;not null"`
	Quantity  int       `gorm:"column:quantity;not null"`

	UnitBasePrice          decimal.Decimal `gorm:"column:unit_base_price;type:numeric(16,4);not null"`
	UnitDiscountAmount     decimal.Decimal `gorm:"column:unit_discount_amount;type:numeric(16,4);not null"`
	UnitPriceAfterDiscount decimal.Decimal `gorm:"column:unit_price_after_discount;type:numeric(16,4);not null"`
	UnitGSTAmount          decimal.Decimal `gorm:"column:unit_gst_amount;type:numeric(16,4);not null"`
	UnitFinalPrice         decimal.Decimal `gorm:"column:unit_final_price;type:numeric(16,4);not null"`
	LineSubtotal           decimal.Decimal `gorm:"column:line_subtotal;type:numeric(16,4);not null"`
	LineTotal              decimal.Decimal `gorm:"column:line_total;type:numeric(16,4);not null"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
