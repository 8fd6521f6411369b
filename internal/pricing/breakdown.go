package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/kiranalabs/bazaari-backend/pkg/enums"
	"github.com/kiranalabs/bazaari-backend/pkg/types"
)

var hundred = decimal.NewFromInt(100)

// VariantPrice is the pricing snapshot carried by a purchasable variant.
// A zero-filled VariantPrice is valid input and produces an all-zero
// Breakdown; callers translate "no pricing data" into the zero value
// instead of raising an error.
type VariantPrice struct {
	ActualPrice      decimal.Decimal    `json:"actual_price"`
	RolePrices       types.RoleAmounts  `json:"role_prices,omitempty"`
	DiscountPercents types.RolePercents `json:"discount_percents,omitempty"`
	GSTPercents      types.RolePercents `json:"gst_percents,omitempty"`
	AvailableQty     int                `json:"available_qty"`
}

// BasePriceFor resolves the unit base price for the role: the role
// override when present, the canonical actual price otherwise.
func (v VariantPrice) BasePriceFor(role enums.Role) decimal.Decimal {
	if price, ok := v.RolePrices.Get(role.Normalize()); ok {
		return price
	}
	return v.ActualPrice
}

// Breakdown decomposes one unit price into its displayed components.
// Values keep full decimal precision; rounding happens at the
// presentation boundary only.
type Breakdown struct {
	BasePrice          decimal.Decimal `json:"base_price"`
	DiscountAmount     decimal.Decimal `json:"discount_amount"`
	PriceAfterDiscount decimal.Decimal `json:"price_after_discount"`
	GSTAmount          decimal.Decimal `json:"gst_amount"`
	FinalPrice         decimal.Decimal `json:"final_price"`
}

// ComputeBreakdown prices a single unit for the given role. The order is
// fixed: resolve base price, apply the role discount, then apply GST on
// the discounted price. Unknown roles resolve as customer. Percentages
// are applied as provided; out-of-range values are a data-integrity
// problem owned by the catalog layer, not clamped here.
func ComputeBreakdown(vp VariantPrice, role enums.Role) Breakdown {
	role = role.Normalize()

	basePrice := vp.BasePriceFor(role)

	discountPct, _ := vp.DiscountPercents.Get(role)
	discountAmount := basePrice.Mul(discountPct).Div(hundred)
	priceAfterDiscount := basePrice.Sub(discountAmount)

	gstPct, ok := vp.GSTPercents.Get(role)
	if !ok {
		gstPct, _ = vp.GSTPercents.Get(enums.RoleCustomer)
	}
	gstAmount := priceAfterDiscount.Mul(gstPct).Div(hundred)

	return Breakdown{
		BasePrice:          basePrice,
		DiscountAmount:     discountAmount,
		PriceAfterDiscount: priceAfterDiscount,
		GSTAmount:          gstAmount,
		FinalPrice:         priceAfterDiscount.Add(gstAmount),
	}
}
