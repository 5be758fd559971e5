package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/berrythread/storefront-api/api/controllers"
	"github.com/berrythread/storefront-api/api/middleware"
	"github.com/berrythread/storefront-api/pkg/config"
	"github.com/berrythread/storefront-api/pkg/logger"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP controllers.Pinger,
	redisP controllers.Pinger,
	catalogService controllers.CatalogReader,
	storefrontService controllers.StorefrontReader,
	cartService controllers.CartService,
	checkoutService controllers.CheckoutService,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisP))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/config", controllers.StorefrontConfig(storefrontService, logg))
		r.Get("/fundraisers/{slug}", controllers.FundraiserDetail(storefrontService, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(catalogService, logg))
			r.Get("/{slug}", controllers.ProductDetail(catalogService, logg))
			r.Post("/{slug}/resolve", controllers.ProductResolve(catalogService, logg))
		})

		r.Route("/carts/{scope}", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, logg))
			r.Patch("/items/{variantID}", controllers.CartUpdateItem(cartService, logg))
			r.Delete("/items/{variantID}", controllers.CartRemoveItem(cartService, logg))
			r.Post("/checkout", controllers.Checkout(checkoutService, logg))
		})

		r.Post("/orders/{orderID}/payment-intent", controllers.OrderPaymentIntent(checkoutService, logg))
	})

	return r
}
