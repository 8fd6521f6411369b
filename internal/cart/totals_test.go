package cart

import (
	"math/rand"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kiranalabs/bazaari-backend/internal/pricing"
	"github.com/kiranalabs/bazaari-backend/pkg/enums"
	"github.com/kiranalabs/bazaari-backend/pkg/types"
)

func TestComputeTotalsEmptyCart(t *testing.T) {
	t.Parallel()

	totals := ComputeTotals(nil, enums.RoleCustomer)

	if !totals.Subtotal.IsZero() || !totals.TotalDiscount.IsZero() ||
		!totals.TotalAfterDiscount.IsZero() || !totals.TotalGST.IsZero() ||
		!totals.TotalFinal.IsZero() {
		t.Fatalf("empty cart must total zero, got %+v", totals)
	}
}

func TestComputeTotalsTwoItemCart(t *testing.T) {
	t.Parallel()

	items := []LineItem{
		{
			CartItemID: "p1_v1",
			Quantity:   2,
			VariantPrice: &pricing.VariantPrice{
				ActualPrice: decimal.NewFromInt(500),
				GSTPercents: types.RolePercents{enums.RoleCustomer: decimal.NewFromInt(5)},
			},
		},
		{
			CartItemID: "p2_v1",
			Quantity:   3,
			VariantPrice: &pricing.VariantPrice{
				ActualPrice:      decimal.NewFromInt(200),
				DiscountPercents: types.RolePercents{enums.RoleCustomer: decimal.NewFromInt(50)},
			},
		},
	}

	totals := ComputeTotals(items, enums.RoleCustomer)

	assertTotal(t, "subtotal", totals.Subtotal, "1600")
	assertTotal(t, "total_discount", totals.TotalDiscount, "300")
	assertTotal(t, "total_after_discount", totals.TotalAfterDiscount, "1300")
	assertTotal(t, "total_gst", totals.TotalGST, "50")
	assertTotal(t, "total_final", totals.TotalFinal, "1350")
}

func TestComputeTotalsMissingSnapshotContributesZero(t *testing.T) {
	t.Parallel()

	items := []LineItem{
		{CartItemID: "ghost_v1", Quantity: 4, VariantPrice: nil},
		{
			CartItemID: "p1_v1",
			Quantity:   1,
			VariantPrice: &pricing.VariantPrice{
				ActualPrice: decimal.NewFromInt(100),
			},
		},
	}

	totals := ComputeTotals(items, enums.RoleCustomer)

	assertTotal(t, "subtotal", totals.Subtotal, "100")
	assertTotal(t, "total_final", totals.TotalFinal, "100")
}

func TestComputeTotalsOrderIndependent(t *testing.T) {
	t.Parallel()

	items := make([]LineItem, 0, 8)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 8; i++ {
		items = append(items, LineItem{
			CartItemID: string(rune('a' + i)),
			Quantity:   1 + rng.Intn(9),
			VariantPrice: &pricing.VariantPrice{
				ActualPrice: decimal.NewFromInt(int64(50 + rng.Intn(950))),
				DiscountPercents: types.RolePercents{
					enums.RoleReseller: decimal.NewFromInt(int64(rng.Intn(60))),
				},
				GSTPercents: types.RolePercents{
					enums.RoleCustomer: decimal.NewFromInt(int64(rng.Intn(28))),
				},
			},
		})
	}

	want := ComputeTotals(items, enums.RoleReseller)

	for trial := 0; trial < 5; trial++ {
		shuffled := make([]LineItem, len(items))
		copy(shuffled, items)
		rng.Shuffle(len(shuffled), func(i, j int) {
			shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
		})

		got := ComputeTotals(shuffled, enums.RoleReseller)
		if !got.Subtotal.Equal(want.Subtotal) || !got.TotalFinal.Equal(want.TotalFinal) ||
			!got.TotalDiscount.Equal(want.TotalDiscount) || !got.TotalGST.Equal(want.TotalGST) {
			t.Fatalf("totals changed under permutation: got %+v want %+v", got, want)
		}
	}
}

func TestComputeTotalsScalesWithQuantity(t *testing.T) {
	t.Parallel()

	vp := pricing.VariantPrice{
		ActualPrice:      decimal.RequireFromString("149.50"),
		DiscountPercents: types.RolePercents{enums.RoleStockist: decimal.NewFromInt(15)},
		GSTPercents:      types.RolePercents{enums.RoleStockist: decimal.NewFromInt(18)},
	}
	unit := pricing.ComputeBreakdown(vp, enums.RoleStockist)

	const qty = 7
	totals := ComputeTotals([]LineItem{{CartItemID: "p_v", Quantity: qty, VariantPrice: &vp}}, enums.RoleStockist)

	q := decimal.NewFromInt(qty)
	if !totals.Subtotal.Equal(unit.BasePrice.Mul(q)) {
		t.Fatalf("subtotal %s, want %s", totals.Subtotal, unit.BasePrice.Mul(q))
	}
	if !totals.TotalDiscount.Equal(unit.DiscountAmount.Mul(q)) {
		t.Fatalf("total_discount %s, want %s", totals.TotalDiscount, unit.DiscountAmount.Mul(q))
	}
	if !totals.TotalGST.Equal(unit.GSTAmount.Mul(q)) {
		t.Fatalf("total_gst %s, want %s", totals.TotalGST, unit.GSTAmount.Mul(q))
	}
	if !totals.TotalFinal.Equal(unit.FinalPrice.Mul(q)) {
		t.Fatalf("total_final %s, want %s", totals.TotalFinal, unit.FinalPrice.Mul(q))
	}
}

func assertTotal(t *testing.T, field string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("%s = %s, want %s", field, got, want)
	}
}
