package cart

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/kiranalabs/bazaari-backend/internal/pricing"
	"github.com/kiranalabs/bazaari-backend/pkg/db/models"
)

// ItemKey builds the per-cart line identity "{product_id}_{variant_id}".
func ItemKey(productID, variantID uuid.UUID) string {
	return fmt.Sprintf("%s_%s", productID, variantID)
}

func snapshotFromVariant(variant *models.ProductVariant) *models.VariantSnapshot {
	if variant == nil {
		return nil
	}
	return &models.VariantSnapshot{
		ActualPrice:      variant.ActualPrice,
		RolePrices:       variant.RolePrices,
		DiscountPercents: variant.DiscountPercents,
		GSTPercents:      variant.GSTPercents,
		AvailableQty:     variant.AvailableQty,
	}
}

// priceFromSnapshot converts a stored snapshot into the pricing input.
// A nil snapshot stays nil so aggregation applies the zero-fill policy.
func priceFromSnapshot(snapshot *models.VariantSnapshot) *pricing.VariantPrice {
	if snapshot == nil {
		return nil
	}
	return &pricing.VariantPrice{
		ActualPrice:      snapshot.ActualPrice,
		RolePrices:       snapshot.RolePrices,
		DiscountPercents: snapshot.DiscountPercents,
		GSTPercents:      snapshot.GSTPercents,
		AvailableQty:     snapshot.AvailableQty,
	}
}
