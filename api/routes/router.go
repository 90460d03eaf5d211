package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yaodigital/storefront-backend/api/controllers"
	"github.com/yaodigital/storefront-backend/api/middleware"
	"github.com/yaodigital/storefront-backend/internal/storefront"
	"github.com/yaodigital/storefront-backend/pkg/config"
	"github.com/yaodigital/storefront-backend/pkg/db"
	"github.com/yaodigital/storefront-backend/pkg/logger"
	"github.com/yaodigital/storefront-backend/pkg/metrics"
	"github.com/yaodigital/storefront-backend/pkg/redis"
)

// Deps carries everything the router needs. Pingers and the registry may be
// nil depending on the active mode.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Backend     storefront.Backend
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry
	DBPinger    db.Pinger
	RedisPinger redis.Pinger

	// Auth guards the user-scoped routes. Database mode validates tokens
	// locally, REST mode forwards the bearer upstream.
	Auth func(http.Handler) http.Handler
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger
	backend := deps.Backend

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.Metrics(deps.HTTPMetrics),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DBPinger, deps.RedisPinger))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/catalog", func(r chi.Router) {
			r.Get("/categories", controllers.ListCategories(backend, logg))
			r.Get("/categories/{slug}", controllers.GetCategory(backend, logg))
			r.Get("/products", controllers.ListProducts(backend, logg))
			r.Get("/products/featured", controllers.ListFeaturedProducts(backend, logg))
			r.Get("/products/by-category", controllers.ListProductsByCategory(backend, logg))
			r.Get("/products/{slug}", controllers.GetProduct(backend, logg))
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", controllers.AuthRegister(backend, logg))
			r.Post("/login", controllers.AuthLogin(backend, logg))
			r.With(deps.Auth).Post("/logout", controllers.AuthLogout(backend, logg))
			r.With(deps.Auth).Get("/me", controllers.CurrentUser(backend, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Use(deps.Auth)
			r.Get("/default", controllers.GetDefaultWishlist(backend, logg))
			r.Get("/product-ids", controllers.ListWishlistProductIDs(backend, logg))
			r.Post("/items", controllers.AddWishlistItem(backend, logg))
			r.Delete("/items/{productID}", controllers.RemoveWishlistItem(backend, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Use(deps.Auth)
			r.Get("/", controllers.GetCurrentCart(backend, logg))
			r.Post("/items", controllers.AddCartItem(backend, logg))
			r.Patch("/items/{itemID}", controllers.UpdateCartItem(backend, logg))
			r.Delete("/items/{itemID}", controllers.RemoveCartItem(backend, logg))
			r.Post("/clear", controllers.ClearCart(backend, logg))
		})

		r.Route("/reviews", func(r chi.Router) {
			r.Get("/", controllers.ListProductReviews(backend, logg))
			r.With(deps.Auth).Post("/", controllers.CreateReview(backend, logg))
		})
	})

	return r
}
