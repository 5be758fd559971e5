package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/berrythread/storefront-api/api/responses"
	"github.com/berrythread/storefront-api/api/validators"
	"github.com/berrythread/storefront-api/internal/catalog"
	"github.com/berrythread/storefront-api/pkg/logger"
)

// StorefrontReader serves store-wide settings and fundraiser campaigns.
type StorefrontReader interface {
	StorefrontConfig(ctx context.Context) (*catalog.StorefrontConfig, error)
	GetFundraiser(ctx context.Context, slug string) (*catalog.Fundraiser, error)
}

func StorefrontConfig(svc StorefrontReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cfg, err := svc.StorefrontConfig(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, cfg)
	}
}

func FundraiserDetail(svc StorefrontReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug, err := validators.SanitizeSlug(chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		fundraiser, err := svc.GetFundraiser(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, fundraiser)
	}
}
