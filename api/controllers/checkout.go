package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/berrythread/storefront-api/api/responses"
	"github.com/berrythread/storefront-api/api/validators"
	"github.com/berrythread/storefront-api/internal/catalog"
	"github.com/berrythread/storefront-api/internal/checkout"
	pkgerrors "github.com/berrythread/storefront-api/pkg/errors"
	"github.com/berrythread/storefront-api/pkg/logger"
)

// CheckoutService is the checkout surface the order controllers consume.
type CheckoutService interface {
	Checkout(ctx context.Context, input checkout.Input) (*checkout.Summary, error)
	PaymentIntent(ctx context.Context, orderID int64) (*catalog.PaymentIntent, error)
}

type checkoutRequest struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name" validate:"required,min=1,max=200"`
}

// Checkout turns the scope's cart into an upstream order.
func Checkout(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := cartScope(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req checkoutRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summary, err := svc.Checkout(r.Context(), checkout.Input{
			Scope: scope,
			Email: validators.SanitizeString(req.Email, 320),
			Name:  validators.SanitizeString(req.Name, 200),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, summary)
	}
}

// OrderPaymentIntent proxies payment-intent creation for a placed order.
func OrderPaymentIntent(svc CheckoutService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := strconv.ParseInt(chi.URLParam(r, "orderID"), 10, 64)
		if err != nil || orderID <= 0 {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid order id"))
			return
		}

		intent, err := svc.PaymentIntent(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, intent)
	}
}
