package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/kiranalabs/bazaari-backend/pkg/db/models"
	"github.com/kiranalabs/bazaari-backend/pkg/enums"
)

// CartRepository defines the persistence surface required by the cart service.
type CartRepository interface {
	WithTx(tx *gorm.DB) CartRepository
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error)
	Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error)
	FindItem(ctx context.Context, cartID uuid.UUID, itemKey string) (*models.CartItem, error)
	SaveItem(ctx context.Context, item *models.CartItem) error
	DeleteItem(ctx context.Context, cartID uuid.UUID, itemKey string) error
	DeleteItems(ctx context.Context, cartID uuid.UUID) error
	UpdateStatus(ctx context.Context, id, userID uuid.UUID, status enums.CartStatus) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// variantLoader resolves a purchasable variant together with its product;
// the catalog repository satisfies this.
type variantLoader interface {
	GetVariantForPurchase(ctx context.Context, variantID uuid.UUID) (*models.ProductVariant, *models.Product, error)
}
