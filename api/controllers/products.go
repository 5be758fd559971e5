package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/berrythread/storefront-api/api/responses"
	"github.com/berrythread/storefront-api/api/validators"
	"github.com/berrythread/storefront-api/internal/variants"
	"github.com/berrythread/storefront-api/pkg/logger"
)

// CatalogReader is the catalog surface the product controllers consume.
type CatalogReader interface {
	GetProduct(ctx context.Context, slug string) (*variants.Product, error)
	ListProducts(ctx context.Context) ([]variants.Product, error)
}

type productSummary struct {
	ID             int64    `json:"id"`
	Slug           string   `json:"slug"`
	Title          string   `json:"title"`
	BasePriceCents int      `json:"base_price_cents"`
	Available      bool     `json:"available"`
	Tags           []string `json:"tags,omitempty"`
	VariantCount   int      `json:"variant_count"`
}

type productDetail struct {
	Product  variants.Product           `json:"product"`
	Swatches map[string]variants.Swatch `json:"swatches,omitempty"`
	Resolver variants.View              `json:"resolver"`
}

type resolveRequest struct {
	Selection map[string]string `json:"selection"`
	VariantID int64             `json:"variant_id"`
	Quantity  int               `json:"quantity" validate:"omitempty,min=1"`
}

// ProductList returns summaries for the published catalog, optionally
// filtered by tag and truncated by limit.
func ProductList(catalogSvc CatalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, 500)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		tag := validators.SanitizeString(r.URL.Query().Get("tag"), 64)

		products, err := catalogSvc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		summaries := make([]productSummary, 0, len(products))
		for _, p := range products {
			if tag != "" && !hasTag(p.Tags, tag) {
				continue
			}
			if limit > 0 && len(summaries) == limit {
				break
			}
			summaries = append(summaries, productSummary{
				ID:             p.ID,
				Slug:           p.Slug,
				Title:          p.Title,
				BasePriceCents: p.BasePriceCents,
				Available:      p.Available,
				Tags:           p.Tags,
				VariantCount:   len(p.Variants),
			})
		}
		responses.WriteSuccess(w, summaries)
	}
}

// ProductDetail returns the product with derived dimensions and the seeded
// resolver view, so the first render needs no second round trip.
func ProductDetail(catalogSvc CatalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug, err := validators.SanitizeSlug(chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		product, err := catalogSvc.GetProduct(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		controller := variants.NewController(*product)
		view := controller.View()
		logDuplicateOptions(r.Context(), logg, slug, view)

		responses.WriteSuccess(w, productDetail{
			Product:  *product,
			Swatches: swatchesFor(view.Dimensions),
			Resolver: view,
		})
	}
}

// ProductResolve replays a selection against the product and returns the full
// resolver state: availability flags per value, matched variant, phase,
// quantity bounds and the add-to-cart gate.
func ProductResolve(catalogSvc CatalogReader, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug, err := validators.SanitizeSlug(chi.URLParam(r, "slug"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var req resolveRequest
		if err := validators.DecodeJSONBody(r, &req); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := catalogSvc.GetProduct(r.Context(), slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		controller := variants.NewController(*product)
		if req.VariantID != 0 {
			if err := controller.SelectVariantID(req.VariantID); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		if len(req.Selection) > 0 {
			if err := controller.Apply(variants.Selection(req.Selection)); err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}
		}
		if req.Quantity > 0 {
			controller.SetQuantity(req.Quantity)
		}

		view := controller.View()
		logDuplicateOptions(r.Context(), logg, slug, view)

		responses.WriteSuccess(w, productDetail{
			Product:  *product,
			Swatches: swatchesFor(view.Dimensions),
			Resolver: view,
		})
	}
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// swatchesFor builds presentation swatches for the color dimension values.
func swatchesFor(dims variants.Dimensions) map[string]variants.Swatch {
	for _, dim := range dims {
		if dim.Name != "color" && dim.Name != "colour" {
			continue
		}
		swatches := make(map[string]variants.Swatch, len(dim.Values))
		for _, value := range dim.Values {
			swatches[value] = variants.SwatchFor(value)
		}
		return swatches
	}
	return nil
}

// Duplicate option maps are a data-integrity problem on the upstream side;
// they resolve deterministically here but deserve a log line, not an error.
func logDuplicateOptions(ctx context.Context, logg *logger.Logger, slug string, view variants.View) {
	if !view.DuplicateOptions || logg == nil {
		return
	}
	logg.Warn(logg.WithProductSlug(ctx, slug), "product has variants with duplicate option maps")
}
