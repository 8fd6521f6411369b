package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/kiranalabs/bazaari-backend/pkg/db/models"
	"github.com/kiranalabs/bazaari-backend/pkg/enums"
	pkgerrors "github.com/kiranalabs/bazaari-backend/pkg/errors"
	"github.com/kiranalabs/bazaari-backend/pkg/types"
)

type stubRepo struct {
	record *models.CartRecord
	items  map[string]*models.CartItem
}

func newStubRepo() *stubRepo {
	return &stubRepo{items: map[string]*models.CartItem{}}
}

func (s *stubRepo) WithTx(tx *gorm.DB) CartRepository { return s }

func (s *stubRepo) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*models.CartRecord, error) {
	if s.record == nil || s.record.UserID != userID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *s.record
	copied.Items = nil
	for _, item := range s.items {
		copied.Items = append(copied.Items, *item)
	}
	return &copied, nil
}

func (s *stubRepo) Create(ctx context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	record.ID = uuid.New()
	record.Status = enums.CartStatusActive
	s.record = record
	return record, nil
}

func (s *stubRepo) FindItem(ctx context.Context, cartID uuid.UUID, itemKey string) (*models.CartItem, error) {
	item, ok := s.items[itemKey]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *item
	return &copied, nil
}

func (s *stubRepo) SaveItem(ctx context.Context, item *models.CartItem) error {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	copied := *item
	s.items[item.ItemKey] = &copied
	return nil
}

func (s *stubRepo) DeleteItem(ctx context.Context, cartID uuid.UUID, itemKey string) error {
	delete(s.items, itemKey)
	return nil
}

func (s *stubRepo) DeleteItems(ctx context.Context, cartID uuid.UUID) error {
	s.items = map[string]*models.CartItem{}
	return nil
}

func (s *stubRepo) UpdateStatus(ctx context.Context, id, userID uuid.UUID, status enums.CartStatus) error {
	if s.record != nil && s.record.ID == id {
		s.record.Status = status
	}
	return nil
}

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubVariants struct {
	variant *models.ProductVariant
	product *models.Product
}

func (s *stubVariants) GetVariantForPurchase(ctx context.Context, variantID uuid.UUID) (*models.ProductVariant, *models.Product, error) {
	if s.variant == nil || s.variant.ID != variantID {
		return nil, nil, gorm.ErrRecordNotFound
	}
	return s.variant, s.product, nil
}

func fixtureVariant(t *testing.T) (*stubVariants, *models.ProductVariant, *models.Product) {
	t.Helper()

	product := &models.Product{
		ID:     uuid.New(),
		Title:  "Basmati Rice 5kg",
		Status: enums.ProductStatusActive,
	}
	variant := &models.ProductVariant{
		ID:          uuid.New(),
		ProductID:   product.ID,
		SKU:         "RICE-5KG",
		ActualPrice: decimal.NewFromInt(1000),
		DiscountPercents: types.RolePercents{
			enums.RoleStockist: decimal.NewFromInt(10),
		},
		GSTPercents: types.RolePercents{
			enums.RoleCustomer: decimal.NewFromInt(18),
		},
		AvailableQty: 5,
		IsActive:     true,
	}
	return &stubVariants{variant: variant, product: product}, variant, product
}

func newTestService(t *testing.T, repo *stubRepo, variants *stubVariants) Service {
	t.Helper()

	svc, err := NewService(repo, stubTx{}, variants)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestAddItemCreatesCartAndPricesView(t *testing.T) {
	t.Parallel()

	variants, variant, product := fixtureVariant(t)
	repo := newStubRepo()
	svc := newTestService(t, repo, variants)
	userID := uuid.New()

	view, err := svc.AddItem(context.Background(), userID, enums.RoleStockist, AddItemInput{
		ProductID: product.ID,
		VariantID: variant.ID,
		Quantity:  2,
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	if len(view.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(view.Lines))
	}
	line := view.Lines[0]
	if line.Item.Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", line.Item.Quantity)
	}
	if line.Item.ItemKey != ItemKey(product.ID, variant.ID) {
		t.Fatalf("unexpected item key %s", line.Item.ItemKey)
	}

	// stockist: 1000 - 10% = 900, + 18% customer-fallback GST = 1062
	if !line.UnitBreakdown.FinalPrice.Equal(decimal.NewFromInt(1062)) {
		t.Fatalf("expected unit final 1062, got %s", line.UnitBreakdown.FinalPrice)
	}
	if !view.Totals.TotalFinal.Equal(decimal.NewFromInt(2124)) {
		t.Fatalf("expected cart final 2124, got %s", view.Totals.TotalFinal)
	}
}

func TestAddItemIncrementsExistingLineAndClampsToStock(t *testing.T) {
	t.Parallel()

	variants, variant, product := fixtureVariant(t)
	repo := newStubRepo()
	svc := newTestService(t, repo, variants)
	userID := uuid.New()
	input := AddItemInput{ProductID: product.ID, VariantID: variant.ID, Quantity: 3}

	if _, err := svc.AddItem(context.Background(), userID, enums.RoleCustomer, input); err != nil {
		t.Fatalf("first AddItem: %v", err)
	}
	view, err := svc.AddItem(context.Background(), userID, enums.RoleCustomer, input)
	if err != nil {
		t.Fatalf("second AddItem: %v", err)
	}

	// 3 + 3 clamped to the 5 in stock
	if got := view.Lines[0].Item.Quantity; got != 5 {
		t.Fatalf("expected clamped quantity 5, got %d", got)
	}
}

func TestAddItemRejectsInactiveVariant(t *testing.T) {
	t.Parallel()

	variants, variant, product := fixtureVariant(t)
	variant.IsActive = false
	repo := newStubRepo()
	svc := newTestService(t, repo, variants)

	_, err := svc.AddItem(context.Background(), uuid.New(), enums.RoleCustomer, AddItemInput{
		ProductID: product.ID,
		VariantID: variant.ID,
		Quantity:  1,
	})
	if err == nil {
		t.Fatal("expected conflict error")
	}
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict code, got %v", err)
	}
}

func TestUpdateItemQuantityValidatesAndClamps(t *testing.T) {
	t.Parallel()

	variants, variant, product := fixtureVariant(t)
	repo := newStubRepo()
	svc := newTestService(t, repo, variants)
	userID := uuid.New()

	view, err := svc.AddItem(context.Background(), userID, enums.RoleCustomer, AddItemInput{
		ProductID: product.ID,
		VariantID: variant.ID,
		Quantity:  1,
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	itemKey := view.Lines[0].Item.ItemKey

	if _, err := svc.UpdateItemQuantity(context.Background(), userID, enums.RoleCustomer, itemKey, 0); err == nil {
		t.Fatal("expected validation error for zero quantity")
	}

	view, err = svc.UpdateItemQuantity(context.Background(), userID, enums.RoleCustomer, itemKey, 50)
	if err != nil {
		t.Fatalf("UpdateItemQuantity: %v", err)
	}
	if got := view.Lines[0].Item.Quantity; got != 5 {
		t.Fatalf("expected clamped quantity 5, got %d", got)
	}
}

func TestRemoveItemAndClear(t *testing.T) {
	t.Parallel()

	variants, variant, product := fixtureVariant(t)
	repo := newStubRepo()
	svc := newTestService(t, repo, variants)
	userID := uuid.New()

	view, err := svc.AddItem(context.Background(), userID, enums.RoleCustomer, AddItemInput{
		ProductID: product.ID,
		VariantID: variant.ID,
		Quantity:  1,
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}

	view, err = svc.RemoveItem(context.Background(), userID, enums.RoleCustomer, view.Lines[0].Item.ItemKey)
	if err != nil {
		t.Fatalf("RemoveItem: %v", err)
	}
	if len(view.Lines) != 0 {
		t.Fatalf("expected empty cart, got %d lines", len(view.Lines))
	}
	if !view.Totals.TotalFinal.IsZero() {
		t.Fatalf("expected zero totals, got %s", view.Totals.TotalFinal)
	}

	if err := svc.Clear(context.Background(), userID); err != nil {
		t.Fatalf("Clear: %v", err)
	}
}

func TestClearWithoutCartIsNoOp(t *testing.T) {
	t.Parallel()

	variants, _, _ := fixtureVariant(t)
	svc := newTestService(t, newStubRepo(), variants)

	if err := svc.Clear(context.Background(), uuid.New()); err != nil {
		t.Fatalf("Clear without cart: %v", err)
	}
}

func TestGetCartWithoutCartReturnsEmptyView(t *testing.T) {
	t.Parallel()

	variants, _, _ := fixtureVariant(t)
	svc := newTestService(t, newStubRepo(), variants)

	view, err := svc.GetCart(context.Background(), uuid.New(), enums.RoleReseller)
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if view.Cart != nil {
		t.Fatal("expected nil cart record")
	}
	if len(view.Lines) != 0 || !view.Totals.TotalFinal.IsZero() {
		t.Fatal("expected empty totals")
	}
}
