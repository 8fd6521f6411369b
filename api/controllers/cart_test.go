package controllers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/kiranalabs/bazaari-backend/api/middleware"
	cartsvc "github.com/kiranalabs/bazaari-backend/internal/cart"
	"github.com/kiranalabs/bazaari-backend/pkg/enums"
	"github.com/kiranalabs/bazaari-backend/pkg/logger"
)

type stubCartService struct {
	addFn func(ctx context.Context, userID uuid.UUID, role enums.Role, input cartsvc.AddItemInput) (*cartsvc.View, error)
}

func (s stubCartService) GetCart(context.Context, uuid.UUID, enums.Role) (*cartsvc.View, error) {
	return &cartsvc.View{}, nil
}

func (s stubCartService) AddItem(ctx context.Context, userID uuid.UUID, role enums.Role, input cartsvc.AddItemInput) (*cartsvc.View, error) {
	if s.addFn != nil {
		return s.addFn(ctx, userID, role, input)
	}
	return &cartsvc.View{}, nil
}

func (s stubCartService) UpdateItemQuantity(context.Context, uuid.UUID, enums.Role, string, int) (*cartsvc.View, error) {
	return &cartsvc.View{}, nil
}

func (s stubCartService) RemoveItem(context.Context, uuid.UUID, enums.Role, string) (*cartsvc.View, error) {
	return &cartsvc.View{}, nil
}

func (s stubCartService) Clear(context.Context, uuid.UUID) error {
	return nil
}

func (s stubCartService) MarkCheckedOut(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "controllers-test", Output: io.Discard})
}

func authedRequest(method, target, body string, userID uuid.UUID, role enums.Role) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	ctx := middleware.WithUserID(req.Context(), userID.String())
	ctx = middleware.WithRole(ctx, string(role))
	return req.WithContext(ctx)
}

func TestCartAddItemAcceptsSnakeCaseBody(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()
	variantID := uuid.New()

	var captured cartsvc.AddItemInput
	svc := stubCartService{
		addFn: func(_ context.Context, gotUser uuid.UUID, role enums.Role, input cartsvc.AddItemInput) (*cartsvc.View, error) {
			if gotUser != userID {
				t.Fatalf("unexpected user id %s", gotUser)
			}
			if role != enums.RoleStockist {
				t.Fatalf("unexpected role %s", role)
			}
			captured = input
			return &cartsvc.View{}, nil
		},
	}

	body := `{"product_id":"` + productID.String() + `","variant_id":"` + variantID.String() + `","quantity":2}`
	req := authedRequest(http.MethodPost, "/api/v1/cart/items", body, userID, enums.RoleStockist)
	rec := httptest.NewRecorder()

	CartAddItem(svc, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if captured.ProductID != productID {
		t.Errorf("product id not decoded: got %s", captured.ProductID)
	}
	if captured.VariantID != variantID {
		t.Errorf("variant id not decoded: got %s", captured.VariantID)
	}
	if captured.Quantity != 2 {
		t.Errorf("quantity not decoded: got %d", captured.Quantity)
	}
}

func TestCartAddItemRejectsUnknownKeys(t *testing.T) {
	body := `{"ProductID":"` + uuid.NewString() + `","VariantID":"` + uuid.NewString() + `","Quantity":2}`
	req := authedRequest(http.MethodPost, "/api/v1/cart/items", body, uuid.New(), enums.RoleCustomer)
	rec := httptest.NewRecorder()

	CartAddItem(stubCartService{}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for unknown keys, got %d", rec.Code)
	}
}

func TestCartAddItemRequiresPositiveQuantity(t *testing.T) {
	body := `{"product_id":"` + uuid.NewString() + `","variant_id":"` + uuid.NewString() + `","quantity":0}`
	req := authedRequest(http.MethodPost, "/api/v1/cart/items", body, uuid.New(), enums.RoleCustomer)
	rec := httptest.NewRecorder()

	CartAddItem(stubCartService{}, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for zero quantity, got %d", rec.Code)
	}
}
