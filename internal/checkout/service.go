package checkout

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/berrythread/storefront-api/internal/cart"
	"github.com/berrythread/storefront-api/internal/catalog"
	"github.com/berrythread/storefront-api/internal/variants"
	pkgerrors "github.com/berrythread/storefront-api/pkg/errors"
	"github.com/berrythread/storefront-api/pkg/logger"
)

type orderPlacer interface {
	CreateOrder(ctx context.Context, req catalog.OrderRequest) (*catalog.OrderResponse, error)
	CreatePaymentIntent(ctx context.Context, orderID int64) (*catalog.PaymentIntent, error)
}

type cartAccess interface {
	Get(ctx context.Context, scope string) (cart.Cart, error)
	Clear(ctx context.Context, scope string) error
}

type productGetter interface {
	GetProduct(ctx context.Context, slug string) (*variants.Product, error)
}

// Input carries the buyer details needed to submit an order.
type Input struct {
	Scope string
	Email string
	Name  string
}

// Summary is the local view of a placed order. Display amounts are formatted
// server-side so every client renders the same string.
type Summary struct {
	OrderID       int64  `json:"order_id"`
	Status        string `json:"status"`
	TotalCents    int    `json:"total_cents"`
	CurrencyCode  string `json:"currency_code"`
	DisplayTotal  string `json:"display_total"`
	SubtotalCents int    `json:"subtotal_cents"`
}

// Service turns a cart into an upstream order. It owns no payment logic; the
// upstream acknowledges the order and hands back payment state separately.
type Service struct {
	orders   orderPlacer
	carts    cartAccess
	catalog  productGetter
	logg     *logger.Logger
	newToken func() string
}

// NewService wires the checkout service.
func NewService(orders orderPlacer, carts cartAccess, catalogSvc productGetter, logg *logger.Logger) (*Service, error) {
	if orders == nil {
		return nil, fmt.Errorf("order client required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart service required")
	}
	if catalogSvc == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{
		orders:   orders,
		carts:    carts,
		catalog:  catalogSvc,
		logg:     logg,
		newToken: uuid.NewString,
	}, nil
}

// Checkout re-validates the cart against the live catalog, posts the order
// upstream with a fresh idempotency token, and clears the cart on success.
func (s *Service) Checkout(ctx context.Context, input Input) (*Summary, error) {
	ctx = s.logg.WithCartScope(ctx, input.Scope)

	if input.Email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email required")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name required")
	}

	current, err := s.carts.Get(ctx, input.Scope)
	if err != nil {
		return nil, err
	}
	if len(current.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	if err := s.revalidate(ctx, current); err != nil {
		return nil, err
	}

	req := catalog.OrderRequest{
		ClientToken:    s.newToken(),
		FundraiserSlug: cart.FundraiserSlug(input.Scope),
		Email:          input.Email,
		Name:           input.Name,
	}
	for _, item := range current.Items {
		req.Items = append(req.Items, catalog.OrderLineItem{
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
		})
	}

	resp, err := s.orders.CreateOrder(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.carts.Clear(ctx, input.Scope); err != nil {
		// The order exists upstream; a stale cart is recoverable, losing the
		// order is not.
		s.logg.Warn(s.logg.WithField(ctx, "order_id", resp.ID), "failed to clear cart after checkout")
	}

	return &Summary{
		OrderID:       resp.ID,
		Status:        resp.Status,
		TotalCents:    resp.TotalCents,
		CurrencyCode:  resp.CurrencyCode,
		DisplayTotal:  formatCents(resp.TotalCents),
		SubtotalCents: current.SubtotalCents(),
	}, nil
}

// PaymentIntent proxies payment-intent creation for a placed order.
func (s *Service) PaymentIntent(ctx context.Context, orderID int64) (*catalog.PaymentIntent, error) {
	return s.orders.CreatePaymentIntent(ctx, orderID)
}

// revalidate re-runs the stock gate on every line so an order is never posted
// for quantities the catalog no longer supports.
func (s *Service) revalidate(ctx context.Context, current cart.Cart) error {
	for _, item := range current.Items {
		product, err := s.catalog.GetProduct(ctx, item.ProductSlug)
		if err != nil {
			return err
		}

		var variant *variants.Variant
		if len(product.Variants) > 0 {
			variant = product.VariantByID(item.VariantID)
			if variant == nil {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "cart item no longer exists").
					WithDetails(map[string]any{"variant_id": item.VariantID})
			}
		}
		if !variants.CanAddToCart(*product, variant, item.Quantity) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "cart item no longer available at requested quantity").
				WithDetails(map[string]any{"variant_id": item.VariantID, "quantity": item.Quantity})
		}
	}
	return nil
}

func formatCents(cents int) string {
	return decimal.NewFromInt(int64(cents)).Div(decimal.NewFromInt(100)).StringFixed(2)
}
