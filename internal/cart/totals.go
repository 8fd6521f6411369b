package cart

import (
	"github.com/shopspring/decimal"

	"github.com/kiranalabs/bazaari-backend/internal/pricing"
	"github.com/kiranalabs/bazaari-backend/pkg/enums"
)

// LineItem is the aggregation view of one cart entry: the quantity and
// the pricing snapshot captured when the item was added. A nil snapshot
// means the variant had no pricing data and contributes zero to every
// total.
type LineItem struct {
	CartItemID   string
	Quantity     int
	VariantPrice *pricing.VariantPrice
}

// Totals holds the cart-level aggregation of per-unit breakdowns.
type Totals struct {
	Subtotal           decimal.Decimal `json:"subtotal"`
	TotalDiscount      decimal.Decimal `json:"total_discount"`
	TotalAfterDiscount decimal.Decimal `json:"total_after_discount"`
	TotalGST           decimal.Decimal `json:"total_gst"`
	TotalFinal         decimal.Decimal `json:"total_final"`
}

// ComputeTotals folds per-unit breakdowns multiplied by quantity across
// the given items. It is a pure function: no I/O, no shared state, and
// the result is independent of item order. Quantities are trusted as
// given; the service layer guarantees quantity >= 1 before items reach
// this point.
func ComputeTotals(items []LineItem, role enums.Role) Totals {
	var totals Totals

	for _, item := range items {
		var vp pricing.VariantPrice
		if item.VariantPrice != nil {
			vp = *item.VariantPrice
		}

		breakdown := pricing.ComputeBreakdown(vp, role)
		qty := decimal.NewFromInt(int64(item.Quantity))

		totals.Subtotal = totals.Subtotal.Add(breakdown.BasePrice.Mul(qty))
		totals.TotalDiscount = totals.TotalDiscount.Add(breakdown.DiscountAmount.Mul(qty))
		totals.TotalAfterDiscount = totals.TotalAfterDiscount.Add(breakdown.PriceAfterDiscount.Mul(qty))
		totals.TotalGST = totals.TotalGST.Add(breakdown.GSTAmount.Mul(qty))
		totals.TotalFinal = totals.TotalFinal.Add(breakdown.FinalPrice.Mul(qty))
	}

	return totals
}
