package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/berrythread/storefront-api/internal/cart"
	"github.com/berrythread/storefront-api/internal/catalog"
	"github.com/berrythread/storefront-api/internal/checkout"
	"github.com/berrythread/storefront-api/internal/variants"
	"github.com/berrythread/storefront-api/pkg/config"
	"github.com/berrythread/storefront-api/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error { return nil }

type stubCatalog struct{}

func (stubCatalog) GetProduct(_ context.Context, slug string) (*variants.Product, error) {
	return &variants.Product{
		ID:        1,
		Slug:      slug,
		Title:     "Classic Tee",
		Available: true,
		Variants:  []variants.Variant{{ID: 1, SKU: "TEE", PriceCents: 2500, StockQuantity: 3}},
	}, nil
}

func (stubCatalog) ListProducts(context.Context) ([]variants.Product, error) {
	return []variants.Product{}, nil
}

type stubStorefront struct{}

func (stubStorefront) StorefrontConfig(context.Context) (*catalog.StorefrontConfig, error) {
	return &catalog.StorefrontConfig{StoreName: "Berry Thread", CurrencyCode: "USD"}, nil
}

func (stubStorefront) GetFundraiser(_ context.Context, slug string) (*catalog.Fundraiser, error) {
	return &catalog.Fundraiser{Slug: slug}, nil
}

type stubCarts struct{}

func (stubCarts) Get(_ context.Context, scope string) (cart.Cart, error) {
	return cart.Cart{Scope: scope, Items: []cart.LineItem{}}, nil
}

func (stubCarts) AddItem(_ context.Context, scope, productSlug string, variantID int64, qty int) (cart.Cart, error) {
	return cart.Cart{Scope: scope, Items: []cart.LineItem{{ProductSlug: productSlug, VariantID: variantID, Quantity: qty}}}, nil
}

func (stubCarts) UpdateQuantity(_ context.Context, scope string, variantID int64, qty int) (cart.Cart, error) {
	return cart.Cart{Scope: scope, Items: []cart.LineItem{}}, nil
}

func (stubCarts) RemoveItem(_ context.Context, scope string, variantID int64) (cart.Cart, error) {
	return cart.Cart{Scope: scope, Items: []cart.LineItem{}}, nil
}

func (stubCarts) Clear(context.Context, string) error { return nil }

type stubCheckout struct{}

func (stubCheckout) Checkout(_ context.Context, input checkout.Input) (*checkout.Summary, error) {
	return &checkout.Summary{OrderID: 1, Status: "pending", DisplayTotal: "0.00"}, nil
}

func (stubCheckout) PaymentIntent(_ context.Context, orderID int64) (*catalog.PaymentIntent, error) {
	return &catalog.PaymentIntent{OrderID: orderID, ClientSecret: "sec"}, nil
}

func newTestRouter() http.Handler {
	cfg := &config.Config{App: config.AppConfig{Env: "test", Port: "8080"}}
	logg := logger.New(logger.Options{ServiceName: "router-test", Level: zerolog.ErrorLevel, Output: io.Discard})
	return NewRouter(cfg, logg, stubPinger{}, stubPinger{}, stubCatalog{}, stubStorefront{}, stubCarts{}, stubCheckout{})
}

func TestRouterRoutes(t *testing.T) {
	router := newTestRouter()

	cases := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{"health live", http.MethodGet, "/health/live", "", http.StatusOK},
		{"health ready", http.MethodGet, "/health/ready", "", http.StatusOK},
		{"storefront config", http.MethodGet, "/api/v1/config", "", http.StatusOK},
		{"fundraiser detail", http.MethodGet, "/api/v1/fundraisers/spring-gala", "", http.StatusOK},
		{"product list", http.MethodGet, "/api/v1/products", "", http.StatusOK},
		{"product detail", http.MethodGet, "/api/v1/products/classic-tee", "", http.StatusOK},
		{"product resolve", http.MethodPost, "/api/v1/products/classic-tee/resolve", `{"selection":{}}`, http.StatusOK},
		{"cart fetch", http.MethodGet, "/api/v1/carts/store", "", http.StatusOK},
		{"cart fetch bad scope", http.MethodGet, "/api/v1/carts/nope", "", http.StatusBadRequest},
		{"cart add", http.MethodPost, "/api/v1/carts/store/items", `{"product_slug":"classic-tee","variant_id":1,"quantity":1}`, http.StatusOK},
		{"cart update", http.MethodPatch, "/api/v1/carts/store/items/1", `{"quantity":2}`, http.StatusOK},
		{"cart remove", http.MethodDelete, "/api/v1/carts/store/items/1", "", http.StatusOK},
		{"cart clear", http.MethodDelete, "/api/v1/carts/store", "", http.StatusOK},
		{"checkout", http.MethodPost, "/api/v1/carts/store/checkout", `{"email":"jo@example.com","name":"Jo"}`, http.StatusCreated},
		{"payment intent", http.MethodPost, "/api/v1/orders/1/payment-intent", "", http.StatusCreated},
		{"unknown route", http.MethodGet, "/api/v1/nope", "", http.StatusNotFound},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var body io.Reader
			if tc.body != "" {
				body = strings.NewReader(tc.body)
			}
			req := httptest.NewRequest(tc.method, tc.path, body)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("%s %s: expected %d, got %d: %s", tc.method, tc.path, tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestRouterAttachesRequestID(t *testing.T) {
	router := newTestRouter()
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected a request id header")
	}
}
