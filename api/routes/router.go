package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kiranalabs/bazaari-backend/api/controllers"
	"github.com/kiranalabs/bazaari-backend/api/middleware"
	"github.com/kiranalabs/bazaari-backend/internal/accounts"
	"github.com/kiranalabs/bazaari-backend/internal/cart"
	"github.com/kiranalabs/bazaari-backend/internal/catalog"
	"github.com/kiranalabs/bazaari-backend/internal/orders"
	"github.com/kiranalabs/bazaari-backend/pkg/config"
	"github.com/kiranalabs/bazaari-backend/pkg/db"
	"github.com/kiranalabs/bazaari-backend/pkg/enums"
	"github.com/kiranalabs/bazaari-backend/pkg/logger"
	"github.com/kiranalabs/bazaari-backend/pkg/metrics"
	"github.com/kiranalabs/bazaari-backend/pkg/redis"
)

// Deps bundles everything the router wires into handlers.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    redis.Pinger
	Sessions middleware.SessionChecker

	Accounts accounts.Service
	Catalog  catalog.Service
	Cart     cart.Service
	Orders   orders.Service

	Metrics  *metrics.HTTPMetrics
	Registry *prometheus.Registry
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.DB, deps.Redis))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", controllers.AuthRegister(deps.Accounts, logg))
		r.Post("/login", controllers.AuthLogin(deps.Accounts, logg))
		r.With(middleware.Auth(cfg.JWT, deps.Sessions, logg)).
			Post("/logout", controllers.AuthLogout(deps.Accounts, logg))
	})

	// Catalog is public; a bearer token upgrades prices to the caller's tier.
	r.Route("/api/v1/catalog", func(r chi.Router) {
		r.Use(middleware.OptionalAuth(cfg.JWT, deps.Sessions, logg))
		r.Get("/products", controllers.CatalogListProducts(deps.Catalog, logg))
		r.Get("/products/{slug}", controllers.CatalogGetProduct(deps.Catalog, logg))
		r.Get("/brands", controllers.CatalogListBrands(deps.Catalog, logg))
		r.Get("/categories", controllers.CatalogListCategories(deps.Catalog, logg))
	})

	r.With(middleware.OptionalAuth(cfg.JWT, deps.Sessions, logg)).
		Get("/api/v1/pricing/breakdown", controllers.PricingBreakdown(deps.Catalog, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))

		r.Route("/account", func(r chi.Router) {
			r.Get("/profile", controllers.AccountProfile(deps.Accounts, logg))
			r.Post("/upgrade", controllers.AccountUpgrade(deps.Accounts, logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(deps.Cart, logg))
			r.Delete("/", controllers.CartClear(deps.Cart, logg))
			r.Post("/items", controllers.CartAddItem(deps.Cart, logg))
			r.Patch("/items/{itemKey}", controllers.CartUpdateItem(deps.Cart, logg))
			r.Delete("/items/{itemKey}", controllers.CartRemoveItem(deps.Cart, logg))
		})

		r.Post("/checkout", controllers.Checkout(deps.Orders, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrdersList(deps.Orders, logg))
			r.Get("/{orderId}", controllers.OrdersGet(deps.Orders, logg))
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		r.Use(middleware.RequireRole(enums.RoleAdmin, logg))

		r.Route("/approvals", func(r chi.Router) {
			r.Get("/", controllers.AdminApprovalsList(deps.Accounts, logg))
			r.Post("/{requestId}/decision", controllers.AdminApprovalDecide(deps.Accounts, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrdersList(deps.Orders, logg))
			r.Patch("/{orderId}/status", controllers.AdminOrderUpdateStatus(deps.Orders, logg))
		})

		r.Route("/catalog", func(r chi.Router) {
			r.Post("/products", controllers.AdminCreateProduct(deps.Catalog, logg))
			r.Patch("/products/{productId}", controllers.AdminUpdateProduct(deps.Catalog, logg))
		})
	})

	return r
}
