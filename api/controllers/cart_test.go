package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/berrythread/storefront-api/internal/cart"
	pkgerrors "github.com/berrythread/storefront-api/pkg/errors"
)

type stubCartService struct {
	cart    cart.Cart
	err     error
	cleared []string
	adds    []string
}

func (s *stubCartService) Get(_ context.Context, scope string) (cart.Cart, error) {
	if s.err != nil {
		return cart.Cart{}, s.err
	}
	return s.cart, nil
}

func (s *stubCartService) AddItem(_ context.Context, scope, productSlug string, variantID int64, qty int) (cart.Cart, error) {
	s.adds = append(s.adds, productSlug)
	if s.err != nil {
		return cart.Cart{}, s.err
	}
	return s.cart, nil
}

func (s *stubCartService) UpdateQuantity(_ context.Context, scope string, variantID int64, qty int) (cart.Cart, error) {
	if s.err != nil {
		return cart.Cart{}, s.err
	}
	return s.cart, nil
}

func (s *stubCartService) RemoveItem(_ context.Context, scope string, variantID int64) (cart.Cart, error) {
	if s.err != nil {
		return cart.Cart{}, s.err
	}
	return s.cart, nil
}

func (s *stubCartService) Clear(_ context.Context, scope string) error {
	s.cleared = append(s.cleared, scope)
	return s.err
}

func cartRequest(method, target string, params map[string]string, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	routeCtx := chi.NewRouteContext()
	for key, value := range params {
		routeCtx.URLParams.Add(key, value)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx))
}

func storeCart() cart.Cart {
	return cart.Cart{
		Scope: cart.ScopeStore,
		Items: []cart.LineItem{
			{ProductSlug: "classic-tee", VariantID: 1, Quantity: 2, UnitPriceCents: 2500, Title: "Classic Tee", SKU: "TEE-S-BLK"},
		},
	}
}

func TestCartFetch(t *testing.T) {
	stub := &stubCartService{cart: storeCart()}
	rec := httptest.NewRecorder()
	req := cartRequest(http.MethodGet, "/api/v1/carts/store", map[string]string{"scope": "store"}, "")
	CartFetch(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var envelope struct {
		Data cartResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.SubtotalCents != 5000 || envelope.Data.ItemCount != 2 {
		t.Fatalf("unexpected totals: %+v", envelope.Data)
	}
}

func TestCartFetchInvalidScope(t *testing.T) {
	stub := &stubCartService{cart: storeCart()}
	for _, scope := range []string{"", "fundraiser:", "fundraiser:Not Valid", "other"} {
		rec := httptest.NewRecorder()
		req := cartRequest(http.MethodGet, "/api/v1/carts/x", map[string]string{"scope": scope}, "")
		CartFetch(stub, testLogger()).ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("scope %q: expected 400, got %d", scope, rec.Code)
		}
	}
}

func TestCartAddItem(t *testing.T) {
	t.Run("valid body", func(t *testing.T) {
		stub := &stubCartService{cart: storeCart()}
		rec := httptest.NewRecorder()
		req := cartRequest(http.MethodPost, "/api/v1/carts/store/items", map[string]string{"scope": "store"},
			`{"product_slug":"classic-tee","variant_id":1,"quantity":2}`)
		CartAddItem(stub, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if len(stub.adds) != 1 || stub.adds[0] != "classic-tee" {
			t.Fatalf("expected add for classic-tee, got %v", stub.adds)
		}
	})

	t.Run("missing quantity rejected", func(t *testing.T) {
		stub := &stubCartService{cart: storeCart()}
		rec := httptest.NewRecorder()
		req := cartRequest(http.MethodPost, "/api/v1/carts/store/items", map[string]string{"scope": "store"},
			`{"product_slug":"classic-tee"}`)
		CartAddItem(stub, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		if len(stub.adds) != 0 {
			t.Fatalf("service must not be called on invalid body")
		}
	})

	t.Run("stock rejection passes through", func(t *testing.T) {
		stub := &stubCartService{err: pkgerrors.New(pkgerrors.CodeValidation, "quantity exceeds available stock")}
		rec := httptest.NewRecorder()
		req := cartRequest(http.MethodPost, "/api/v1/carts/store/items", map[string]string{"scope": "store"},
			`{"product_slug":"classic-tee","variant_id":1,"quantity":99}`)
		CartAddItem(stub, testLogger()).ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCartUpdateItem(t *testing.T) {
	stub := &stubCartService{cart: storeCart()}
	rec := httptest.NewRecorder()
	req := cartRequest(http.MethodPatch, "/api/v1/carts/store/items/1",
		map[string]string{"scope": "store", "variantID": "1"}, `{"quantity":3}`)
	CartUpdateItem(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestCartUpdateItemInvalidVariantID(t *testing.T) {
	stub := &stubCartService{cart: storeCart()}
	rec := httptest.NewRecorder()
	req := cartRequest(http.MethodPatch, "/api/v1/carts/store/items/abc",
		map[string]string{"scope": "store", "variantID": "abc"}, `{"quantity":3}`)
	CartUpdateItem(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestCartRemoveItem(t *testing.T) {
	stub := &stubCartService{cart: cart.Cart{Scope: cart.ScopeStore, Items: []cart.LineItem{}}}
	rec := httptest.NewRecorder()
	req := cartRequest(http.MethodDelete, "/api/v1/carts/store/items/1",
		map[string]string{"scope": "store", "variantID": "1"}, "")
	CartRemoveItem(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCartClear(t *testing.T) {
	stub := &stubCartService{}
	rec := httptest.NewRecorder()
	req := cartRequest(http.MethodDelete, "/api/v1/carts/fundraiser:spring-gala",
		map[string]string{"scope": "fundraiser:spring-gala"}, "")
	CartClear(stub, testLogger()).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(stub.cleared) != 1 || stub.cleared[0] != "fundraiser:spring-gala" {
		t.Fatalf("expected clear for fundraiser scope, got %v", stub.cleared)
	}
	var envelope struct {
		Data cartResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Cart.Items) != 0 || envelope.Data.ItemCount != 0 {
		t.Fatalf("expected empty cart response, got %+v", envelope.Data)
	}
}
