package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kiranalabs/bazaari-backend/internal/cart"
	"github.com/kiranalabs/bazaari-backend/internal/catalog"
	"github.com/kiranalabs/bazaari-backend/internal/pricing"
	"github.com/kiranalabs/bazaari-backend/pkg/db/models"
	"github.com/kiranalabs/bazaari-backend/pkg/enums"
	pkgerrors "github.com/kiranalabs/bazaari-backend/pkg/errors"
	"github.com/kiranalabs/bazaari-backend/pkg/pagination"
)

// statusTransitions fixes the admin-driven order lifecycle.
var statusTransitions = map[enums.OrderStatus][]enums.OrderStatus{
	enums.OrderStatusPlaced:    {enums.OrderStatusConfirmed, enums.OrderStatusCanceled},
	enums.OrderStatusConfirmed: {enums.OrderStatusShipped, enums.OrderStatusCanceled},
	enums.OrderStatusShipped:   {enums.OrderStatusDelivered},
}

// Service exposes checkout and order reads.
type Service interface {
	Checkout(ctx context.Context, userID uuid.UUID, role enums.Role) (*models.Order, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[models.Order], error)
	ListAllOrders(ctx context.Context, params pagination.Params, filters AdminOrderFilters) (pagination.Page[models.Order], error)
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	carts    cart.CartRepository
	catalog  *catalog.Repository
	currency string
}

// NewService constructs an orders service instance.
func NewService(repo Repository, tx txRunner, carts cart.CartRepository, catalogRepo *catalog.Repository, currency string) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if catalogRepo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if currency == "" {
		currency = "INR"
	}
	return &service{repo: repo, tx: tx, carts: carts, catalog: catalogRepo, currency: currency}, nil
}

// Checkout turns the user's active cart into an immutable order. Every
// line is re-priced at the caller's current role from its stored
// snapshot, stock is decremented, and the cart is marked checked out,
// all in one transaction.
func (s *service) Checkout(ctx context.Context, userID uuid.UUID, role enums.Role) (*models.Order, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	role = role.Normalize()

	var order *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txCarts := s.carts.WithTx(tx)
		txCatalog := s.catalog.WithTx(tx)
		txRepo := s.repo.WithTx(tx)

		record, err := txCarts.FindActiveByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeConflict, "no active cart to check out")
			}
			return err
		}
		if len(record.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "cart is empty")
		}

		number, err := txRepo.NextOrderNumber(ctx)
		if err != nil {
			return err
		}

		lineItems := make([]models.OrderLineItem, 0, len(record.Items))
		aggregate := make([]cart.LineItem, 0, len(record.Items))

		for _, item := range record.Items {
			var unit pricing.VariantPrice
			var vp *pricing.VariantPrice
			if item.PriceSnapshot != nil {
				unit = pricing.VariantPrice{
					ActualPrice:      item.PriceSnapshot.ActualPrice,
					RolePrices:       item.PriceSnapshot.RolePrices,
					DiscountPercents: item.PriceSnapshot.DiscountPercents,
					GSTPercents:      item.PriceSnapshot.GSTPercents,
					AvailableQty:     item.PriceSnapshot.AvailableQty,
				}
				vp = &unit
			}

			breakdown := pricing.ComputeBreakdown(unit, role)
			qty := decimal.NewFromInt(int64(item.Quantity))

			lineItems = append(lineItems, models.OrderLineItem{
				ID:                     uuid.New(),
				ProductID:              item.ProductID,
				VariantID:              item.VariantID,
				Title:                  item.Title,
				SKU:                    item.SKU,
				Quantity:               item.Quantity,
				UnitBasePrice:          breakdown.BasePrice,
				UnitDiscountAmount:     breakdown.DiscountAmount,
				UnitPriceAfterDiscount: breakdown.PriceAfterDiscount,
				UnitGSTAmount:          breakdown.GSTAmount,
				UnitFinalPrice:         breakdown.FinalPrice,
				LineSubtotal:           breakdown.BasePrice.Mul(qty),
				LineTotal:              breakdown.FinalPrice.Mul(qty),
			})
			aggregate = append(aggregate, cart.LineItem{
				CartItemID:   item.ID.String(),
				Quantity:     item.Quantity,
				VariantPrice: vp,
			})

			if err := txCatalog.DecrementStock(ctx, item.VariantID, item.Quantity); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeConflict,
						fmt.Sprintf("insufficient stock for %s", item.SKU))
				}
				return err
			}
		}

		totals := cart.ComputeTotals(aggregate, role)

		order = &models.Order{
			ID:                 uuid.New(),
			OrderNumber:        number,
			UserID:             userID,
			PricingRole:        role,
			Status:             enums.OrderStatusPlaced,
			Currency:           s.currency,
			Subtotal:           totals.Subtotal,
			TotalDiscount:      totals.TotalDiscount,
			TotalAfterDiscount: totals.TotalAfterDiscount,
			TotalGST:           totals.TotalGST,
			TotalFinal:         totals.TotalFinal,
			LineItems:          lineItems,
		}
		if _, err := txRepo.CreateOrder(ctx, order); err != nil {
			return err
		}

		return txCarts.UpdateStatus(ctx, record.ID, userID, enums.CartStatusCheckedOut)
	})
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil {
			return nil, typed
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout")
	}
	return order, nil
}

// GetOrder loads an order owned by the user.
func (s *service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	if userID == uuid.Nil || orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user and order ids are required")
	}

	order, err := s.repo.FindByIDAndUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	return order, nil
}

// ListOrders returns the user's orders newest-first.
func (s *service) ListOrders(ctx context.Context, userID uuid.UUID, params pagination.Params) (pagination.Page[models.Order], error) {
	if userID == uuid.Nil {
		return pagination.Page[models.Order]{}, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}

	rows, err := s.repo.ListByUser(ctx, userID, params)
	if err != nil {
		return pagination.Page[models.Order]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orderPage(rows, params.Limit), nil
}

// ListAllOrders returns every order for the admin console.
func (s *service) ListAllOrders(ctx context.Context, params pagination.Params, filters AdminOrderFilters) (pagination.Page[models.Order], error) {
	rows, err := s.repo.ListAll(ctx, params, filters)
	if err != nil {
		return pagination.Page[models.Order]{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return orderPage(rows, params.Limit), nil
}

// UpdateOrderStatus moves an order along its lifecycle, rejecting
// transitions the lifecycle does not allow.
func (s *service) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status enums.OrderStatus) (*models.Order, error) {
	if orderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	if !status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}

	if !transitionAllowed(order.Status, status) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move order from %s to %s", order.Status, status))
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = status
	return order, nil
}

func transitionAllowed(from, to enums.OrderStatus) bool {
	for _, allowed := range statusTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

func orderPage(rows []models.Order, limit int) pagination.Page[models.Order] {
	return pagination.NewPage(rows, limit, func(o models.Order) pagination.Cursor {
		return pagination.Cursor{CreatedAt: o.CreatedAt, ID: o.ID}
	})
}
