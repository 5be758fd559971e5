package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/berrythread/storefront-api/api/responses"
	"github.com/berrythread/storefront-api/api/validators"
	"github.com/berrythread/storefront-api/internal/cart"
	pkgerrors "github.com/berrythread/storefront-api/pkg/errors"
	"github.com/berrythread/storefront-api/pkg/logger"
)

// CartService is the cart surface the cart controllers consume.
type CartService interface {
	Get(ctx context.Context, scope string) (cart.Cart, error)
	AddItem(ctx context.Context, scope, productSlug string, variantID int64, qty int) (cart.Cart, error)
	UpdateQuantity(ctx context.Context, scope string, variantID int64, qty int) (cart.Cart, error)
	RemoveItem(ctx context.Context, scope string, variantID int64) (cart.Cart, error)
	Clear(ctx context.Context, scope string) error
}

type addItemRequest struct {
	ProductSlug string `json:"product_slug" validate:"required"`
	VariantID   int64  `json:"variant_id" validate:"omitempty,min=0"`
	Quantity    int    `json:"quantity" validate:"required,min=1"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

type cartResponse struct {
	Cart          cart.Cart `json:"cart"`
	SubtotalCents int       `json:"subtotal_cents"`
	ItemCount     int       `json:"item_count"`
}

func cartScope(r *http.Request) (string, error) {
	scope := chi.URLParam(r, "scope")
	if !cart.ValidScope(scope) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid cart scope")
	}
	return scope, nil
}

func cartVariantID(r *http.Request) (int64, error) {
	raw := chi.URLParam(r, "variantID")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 0 {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "invalid variant id")
	}
	return id, nil
}

func writeCart(w http.ResponseWriter, c cart.Cart) {
	responses.WriteSuccess(w, cartResponse{
		Cart:          c,
		SubtotalCents: c.SubtotalCents(),
		ItemCount:     c.ItemCount(),
	})
}

func CartFetch(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := cartScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		c, err := svc.Get(r.Context(), scope)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(w, c)
	}
}

func CartAddItem(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := cartScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req addItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := svc.AddItem(r.Context(), scope, req.ProductSlug, req.VariantID, req.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(w, c)
	}
}

func CartUpdateItem(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := cartScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variantID, err := cartVariantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req updateItemRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := svc.UpdateQuantity(r.Context(), scope, variantID, req.Quantity)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(w, c)
	}
}

func CartRemoveItem(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := cartScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		variantID, err := cartVariantID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		c, err := svc.RemoveItem(r.Context(), scope, variantID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(w, c)
	}
}

func CartClear(svc CartService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := cartScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.Clear(r.Context(), scope); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writeCart(w, cart.Cart{Scope: scope, Items: []cart.LineItem{}})
	}
}
