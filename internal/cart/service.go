package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kiranalabs/bazaari-backend/internal/pricing"
	"github.com/kiranalabs/bazaari-backend/pkg/db/models"
	"github.com/kiranalabs/bazaari-backend/pkg/enums"
	pkgerrors "github.com/kiranalabs/bazaari-backend/pkg/errors"
)

// Service exposes cart persistence and aggregation operations. Every
// read prices the cart for the caller's role at request time; the only
// frozen values are the per-item snapshots captured at add time.
type Service interface {
	GetCart(ctx context.Context, userID uuid.UUID, role enums.Role) (*View, error)
	AddItem(ctx context.Context, userID uuid.UUID, role enums.Role, input AddItemInput) (*View, error)
	UpdateItemQuantity(ctx context.Context, userID uuid.UUID, role enums.Role, itemKey string, quantity int) (*View, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, role enums.Role, itemKey string) (*View, error)
	Clear(ctx context.Context, userID uuid.UUID) error
	MarkCheckedOut(ctx context.Context, cartID, userID uuid.UUID) error
}

type service struct {
	repo     CartRepository
	tx       txRunner
	variants variantLoader
}

// NewService builds a cart service backed by the provided stack.
func NewService(repo CartRepository, tx txRunner, variants variantLoader) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if variants == nil {
		return nil, fmt.Errorf("variant loader required")
	}
	return &service{repo: repo, tx: tx, variants: variants}, nil
}

// AddItemInput captures the payload required to add a line to the cart.
type AddItemInput struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	VariantID uuid.UUID `json:"variant_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// LineView is one cart line priced for the requesting role.
type LineView struct {
	Item          models.CartItem   `json:"item"`
	UnitBreakdown pricing.Breakdown `json:"unit_breakdown"`
	LineSubtotal  decimal.Decimal   `json:"line_subtotal"`
	LineTotal     decimal.Decimal   `json:"line_total"`
}

// View is the cart with per-line breakdowns and aggregated totals.
type View struct {
	Cart   *models.CartRecord `json:"cart"`
	Lines  []LineView         `json:"lines"`
	Totals Totals             `json:"totals"`
}

// GetCart returns the user's active cart priced for the role. A user
// without an active cart gets an empty view, not an error.
func (s *service) GetCart(ctx context.Context, userID uuid.UUID, role enums.Role) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	record, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return emptyView(role), nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return buildView(record, role), nil
}

// AddItem appends a line to the active cart, creating the cart when
// needed. Adding an item that is already present increments its
// quantity. The requested quantity is clamped to the stock captured in
// the pricing snapshot.
func (s *service) AddItem(ctx context.Context, userID uuid.UUID, role enums.Role, input AddItemInput) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if input.ProductID == uuid.Nil || input.VariantID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product and variant ids are required")
	}
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	variant, product, err := s.variants.GetVariantForPurchase(ctx, input.VariantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "variant not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load variant")
	}
	if variant.ProductID != input.ProductID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "variant does not belong to product")
	}
	if !variant.IsActive || product.Status != enums.ProductStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "variant is not available")
	}

	itemKey := ItemKey(input.ProductID, input.VariantID)

	var saved *models.CartRecord
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		record, err := txRepo.FindActiveByUser(ctx, userID)
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			record, err = txRepo.Create(ctx, &models.CartRecord{UserID: userID})
			if err != nil {
				return err
			}
		}

		item, err := txRepo.FindItem(ctx, record.ID, itemKey)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if item == nil {
			item = &models.CartItem{
				CartID:        record.ID,
				ItemKey:       itemKey,
				ProductID:     input.ProductID,
				VariantID:     input.VariantID,
				Title:         product.Title,
				SKU:           variant.SKU,
				Quantity:      clampQuantity(input.Quantity, variant.AvailableQty),
				PriceSnapshot: snapshotFromVariant(variant),
			}
		} else {
			item.Quantity = clampQuantity(item.Quantity+input.Quantity, variant.AvailableQty)
		}

		if err := txRepo.SaveItem(ctx, item); err != nil {
			return err
		}

		saved, err = txRepo.FindActiveByUser(ctx, userID)
		return err
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist cart item")
	}

	return buildView(saved, role), nil
}

// UpdateItemQuantity sets the quantity of an existing line, clamped to
// the stock captured in the line's snapshot.
func (s *service) UpdateItemQuantity(ctx context.Context, userID uuid.UUID, role enums.Role, itemKey string, quantity int) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if itemKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item key is required")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	var saved *models.CartRecord
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		record, err := txRepo.FindActiveByUser(ctx, userID)
		if err != nil {
			return err
		}

		item, err := txRepo.FindItem(ctx, record.ID, itemKey)
		if err != nil {
			return err
		}

		available := 0
		if item.PriceSnapshot != nil {
			available = item.PriceSnapshot.AvailableQty
		}
		item.Quantity = clampQuantity(quantity, available)

		if err := txRepo.SaveItem(ctx, item); err != nil {
			return err
		}

		saved, err = txRepo.FindActiveByUser(ctx, userID)
		return err
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart item")
	}

	return buildView(saved, role), nil
}

// RemoveItem deletes one line from the active cart.
func (s *service) RemoveItem(ctx context.Context, userID uuid.UUID, role enums.Role, itemKey string) (*View, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if itemKey == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "item key is required")
	}

	var saved *models.CartRecord
	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		record, err := txRepo.FindActiveByUser(ctx, userID)
		if err != nil {
			return err
		}

		if err := txRepo.DeleteItem(ctx, record.ID, itemKey); err != nil {
			return err
		}

		saved, err = txRepo.FindActiveByUser(ctx, userID)
		return err
	}); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "active cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart item")
	}

	return buildView(saved, role), nil
}

// Clear removes every line from the user's active cart. Clearing a user
// without a cart is a no-op.
func (s *service) Clear(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	record, err := s.repo.FindActiveByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	if err := s.repo.DeleteItems(ctx, record.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

// MarkCheckedOut flips the cart status after an order is created from it.
func (s *service) MarkCheckedOut(ctx context.Context, cartID, userID uuid.UUID) error {
	if cartID == uuid.Nil || userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "cart and user ids are required")
	}
	if err := s.repo.UpdateStatus(ctx, cartID, userID, enums.CartStatusCheckedOut); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update cart status")
	}
	return nil
}

// clampQuantity keeps the line within available stock when stock is
// known. Unknown stock (zero) passes the request through untouched.
func clampQuantity(requested, available int) int {
	if available > 0 && requested > available {
		return available
	}
	return requested
}

func emptyView(role enums.Role) *View {
	return &View{
		Lines:  []LineView{},
		Totals: ComputeTotals(nil, role),
	}
}

func buildView(record *models.CartRecord, role enums.Role) *View {
	if record == nil {
		return emptyView(role)
	}

	lines := make([]LineView, 0, len(record.Items))
	aggregate := make([]LineItem, 0, len(record.Items))

	for _, item := range record.Items {
		vp := priceFromSnapshot(item.PriceSnapshot)

		var unit pricing.VariantPrice
		if vp != nil {
			unit = *vp
		}
		breakdown := pricing.ComputeBreakdown(unit, role)
		qty := decimal.NewFromInt(int64(item.Quantity))

		lines = append(lines, LineView{
			Item:          item,
			UnitBreakdown: breakdown,
			LineSubtotal:  breakdown.BasePrice.Mul(qty),
			LineTotal:     breakdown.FinalPrice.Mul(qty),
		})
		aggregate = append(aggregate, LineItem{
			CartItemID:   item.ID.String(),
			Quantity:     item.Quantity,
			VariantPrice: vp,
		})
	}

	return &View{
		Cart:   record,
		Lines:  lines,
		Totals: ComputeTotals(aggregate, role),
	}
}
