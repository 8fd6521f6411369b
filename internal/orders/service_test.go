package orders

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/kiranalabs/bazaari-backend/internal/cart"
	"github.com/kiranalabs/bazaari-backend/internal/catalog"
	"github.com/kiranalabs/bazaari-backend/pkg/db"
	"github.com/kiranalabs/bazaari-backend/pkg/db/models"
	"github.com/kiranalabs/bazaari-backend/pkg/enums"
	pkgerrors "github.com/kiranalabs/bazaari-backend/pkg/errors"
	"github.com/kiranalabs/bazaari-backend/pkg/types"
)

func setupCheckoutTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn := setupOrdersTestDB(t)

	cartTables := []string{`
CREATE TABLE IF NOT EXISTS cart_records (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'active',
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS cart_items (
  id TEXT PRIMARY KEY,
  cart_id TEXT NOT NULL,
  item_key TEXT NOT NULL,
  product_id TEXT NOT NULL,
  variant_id TEXT NOT NULL,
  title TEXT NOT NULL,
  sku TEXT NOT NULL,
  quantity INTEGER NOT NULL,
  price_snapshot TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`, `
CREATE TABLE IF NOT EXISTS product_variants (
  id TEXT PRIMARY KEY,
  product_id TEXT NOT NULL,
  sku TEXT NOT NULL,
  label TEXT NOT NULL,
  actual_price TEXT NOT NULL,
  role_prices TEXT,
  discount_percents TEXT,
  gst_percents TEXT,
  available_qty INTEGER NOT NULL DEFAULT 0,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`}
	for _, stmt := range cartTables {
		require.NoError(t, conn.Exec(stmt).Error)
	}
	return conn
}

func newCheckoutService(t *testing.T, conn *gorm.DB) Service {
	t.Helper()

	svc, err := NewService(
		NewRepository(conn),
		db.NewFromConn(conn),
		cart.NewRepository(conn),
		catalog.NewRepository(conn),
		"INR",
	)
	require.NoError(t, err)
	return svc
}

func seedCheckoutCart(t *testing.T, conn *gorm.DB, userID uuid.UUID, quantity, stock int) (*models.CartRecord, uuid.UUID) {
	t.Helper()

	productID := uuid.New()
	variantID := uuid.New()

	variant := &models.ProductVariant{
		ID:          variantID,
		ProductID:   productID,
		SKU:         "SKU-" + uuid.NewString(),
		Label:       "500g",
		ActualPrice: decimal.NewFromInt(1000),
		DiscountPercents: types.RolePercents{
			enums.RoleStockist: decimal.NewFromInt(10),
		},
		GSTPercents: types.RolePercents{
			enums.RoleCustomer: decimal.NewFromInt(18),
		},
		AvailableQty: stock,
		IsActive:     true,
	}
	require.NoError(t, conn.Create(variant).Error)

	record := &models.CartRecord{
		ID:     uuid.New(),
		UserID: userID,
		Status: enums.CartStatusActive,
		Items: []models.CartItem{
			{
				ID:        uuid.New(),
				ItemKey:   cart.ItemKey(productID, variantID),
				ProductID: productID,
				VariantID: variantID,
				Title:     "Masala Chai",
				SKU:       variant.SKU,
				Quantity:  quantity,
				PriceSnapshot: &models.VariantSnapshot{
					ActualPrice: decimal.NewFromInt(1000),
					DiscountPercents: types.RolePercents{
						enums.RoleStockist: decimal.NewFromInt(10),
					},
					GSTPercents: types.RolePercents{
						enums.RoleCustomer: decimal.NewFromInt(18),
					},
					AvailableQty: stock,
				},
			},
		},
	}
	require.NoError(t, conn.Create(record).Error)
	return record, variantID
}

func TestServiceCheckout_stockist(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, conn)
	userID := uuid.New()

	record, variantID := seedCheckoutCart(t, conn, userID, 2, 5)

	order, err := svc.Checkout(context.Background(), userID, enums.RoleStockist)
	require.NoError(t, err)

	assert.Equal(t, enums.OrderStatusPlaced, order.Status)
	assert.Equal(t, enums.RoleStockist, order.PricingRole)
	assert.Equal(t, "INR", order.Currency)
	assert.GreaterOrEqual(t, order.OrderNumber, int64(firstOrderNumber))

	// 1000 -> 10% stockist discount -> 900 -> 18% GST (customer
	// fallback) -> 1062 per unit, times two units.
	assert.True(t, order.Subtotal.Equal(decimal.NewFromInt(2000)), order.Subtotal.String())
	assert.True(t, order.TotalDiscount.Equal(decimal.NewFromInt(200)))
	assert.True(t, order.TotalAfterDiscount.Equal(decimal.NewFromInt(1800)))
	assert.True(t, order.TotalGST.Equal(decimal.NewFromInt(324)))
	assert.True(t, order.TotalFinal.Equal(decimal.NewFromInt(2124)), order.TotalFinal.String())

	require.Len(t, order.LineItems, 1)
	line := order.LineItems[0]
	assert.True(t, line.UnitFinalPrice.Equal(decimal.NewFromInt(1062)))
	assert.True(t, line.LineTotal.Equal(decimal.NewFromInt(2124)))

	// Stock was decremented and the cart closed.
	var variant models.ProductVariant
	require.NoError(t, conn.First(&variant, "id = ?", variantID).Error)
	assert.Equal(t, 3, variant.AvailableQty)

	var closed models.CartRecord
	require.NoError(t, conn.First(&closed, "id = ?", record.ID).Error)
	assert.Equal(t, enums.CartStatusCheckedOut, closed.Status)
}

func TestServiceCheckout_noActiveCart(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, conn)

	_, err := svc.Checkout(context.Background(), uuid.New(), enums.RoleCustomer)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestServiceCheckout_emptyCart(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, conn)
	userID := uuid.New()

	require.NoError(t, conn.Create(&models.CartRecord{
		ID:     uuid.New(),
		UserID: userID,
		Status: enums.CartStatusActive,
	}).Error)

	_, err := svc.Checkout(context.Background(), userID, enums.RoleCustomer)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())
}

func TestServiceCheckout_insufficientStock(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, conn)
	userID := uuid.New()

	_, variantID := seedCheckoutCart(t, conn, userID, 4, 1)

	_, err := svc.Checkout(context.Background(), userID, enums.RoleCustomer)
	require.Error(t, err)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	// The transaction rolled back: stock untouched, cart still open.
	var variant models.ProductVariant
	require.NoError(t, conn.First(&variant, "id = ?", variantID).Error)
	assert.Equal(t, 1, variant.AvailableQty)

	var record models.CartRecord
	require.NoError(t, conn.First(&record, "user_id = ? AND status = ?", userID, enums.CartStatusActive).Error)
}

func TestServiceCheckout_unknownRoleFallsBackToCustomer(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, conn)
	userID := uuid.New()

	seedCheckoutCart(t, conn, userID, 1, 5)

	order, err := svc.Checkout(context.Background(), userID, enums.Role("wholesaler"))
	require.NoError(t, err)

	// Customer pricing: no discount, 18% GST on 1000.
	assert.Equal(t, enums.RoleCustomer, order.PricingRole)
	assert.True(t, order.TotalFinal.Equal(decimal.NewFromInt(1180)), order.TotalFinal.String())
}

func TestServiceGetOrder_scopedToUser(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, conn)
	userID := uuid.New()

	seedCheckoutCart(t, conn, userID, 1, 5)
	placed, err := svc.Checkout(context.Background(), userID, enums.RoleCustomer)
	require.NoError(t, err)

	found, err := svc.GetOrder(context.Background(), userID, placed.ID)
	require.NoError(t, err)
	assert.Equal(t, placed.OrderNumber, found.OrderNumber)
	require.Len(t, found.LineItems, 1)

	_, err = svc.GetOrder(context.Background(), uuid.New(), placed.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceUpdateOrderStatus_transitions(t *testing.T) {
	conn := setupCheckoutTestDB(t)
	svc := newCheckoutService(t, conn)
	userID := uuid.New()

	seedCheckoutCart(t, conn, userID, 1, 5)
	order, err := svc.Checkout(context.Background(), userID, enums.RoleCustomer)
	require.NoError(t, err)

	// placed -> delivered skips the lifecycle and is rejected.
	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, enums.OrderStatusDelivered)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	for _, status := range []enums.OrderStatus{
		enums.OrderStatusConfirmed,
		enums.OrderStatusShipped,
		enums.OrderStatusDelivered,
	} {
		updated, err := svc.UpdateOrderStatus(context.Background(), order.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}

	// delivered is terminal.
	_, err = svc.UpdateOrderStatus(context.Background(), order.ID, enums.OrderStatusCanceled)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}
