package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/acuellar/tiendita-backend/api/controllers"
	"github.com/acuellar/tiendita-backend/api/middleware"
	authsvc "github.com/acuellar/tiendita-backend/internal/auth"
	cartsvc "github.com/acuellar/tiendita-backend/internal/cart"
	"github.com/acuellar/tiendita-backend/internal/catalog"
	checkoutsvc "github.com/acuellar/tiendita-backend/internal/checkout"
	"github.com/acuellar/tiendita-backend/internal/dashboard"
	ordersvc "github.com/acuellar/tiendita-backend/internal/orders"
	paymentsvc "github.com/acuellar/tiendita-backend/internal/payments"
	"github.com/acuellar/tiendita-backend/pkg/config"
	"github.com/acuellar/tiendita-backend/pkg/db"
	"github.com/acuellar/tiendita-backend/pkg/enums"
	"github.com/acuellar/tiendita-backend/pkg/logger"
	"github.com/acuellar/tiendita-backend/pkg/metrics"
	"github.com/acuellar/tiendita-backend/pkg/redis"
	"github.com/acuellar/tiendita-backend/pkg/session"
)

// RouterParams bundles everything the HTTP surface depends on.
type RouterParams struct {
	Config       *config.Config
	Logger       *logger.Logger
	DBPinger     db.Pinger
	Redis        *redis.Client
	Sessions     *session.Store
	Admins       middleware.AdminDirectory
	AuthService  authsvc.Service
	Catalog      catalog.Service
	Cart         cartsvc.Service
	Checkout     checkoutsvc.Service
	Payments     paymentsvc.Service
	Orders       ordersvc.Service
	Dashboard    dashboard.Service
	HTTPMetrics  *metrics.HTTPMetrics
	PromRegistry *prometheus.Registry
}

// NewRouter assembles the storefront and back-office HTTP surface.
func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.HTTPMetrics),
		middleware.CORS(cfg.CORS.AllowedOrigins),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, p.DBPinger, p.Redis))
	})

	if p.PromRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.PromRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(registerPolicy, p.Redis, logg)).Post("/register", controllers.AuthRegister(p.AuthService, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
			r.With(middleware.Auth(cfg.JWT, logg)).Get("/profile", controllers.AuthProfile(p.AuthService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(p.Catalog, logg))
			r.Get("/search", controllers.ProductSearch(p.Catalog, logg))
			r.Get("/{id}", controllers.ProductDetail(p.Catalog, logg))
		})
		r.Get("/categories", controllers.CategoryList(p.Catalog, logg))

		// cart, checkout and payments ride on the X-Session-Token session;
		// a bearer token additionally binds the session to the account
		r.Group(func(r chi.Router) {
			r.Use(middleware.OptionalAuth(cfg.JWT, logg))
			r.Use(middleware.Session(p.Sessions, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartView(p.Cart, logg))
				r.Post("/items", controllers.CartAddItem(p.Cart, p.Sessions, logg))
				r.Put("/items/{productId}", controllers.CartUpdateItem(p.Cart, p.Sessions, logg))
				r.Delete("/items/{productId}", controllers.CartRemoveItem(p.Cart, p.Sessions, logg))
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Get("/", controllers.CheckoutSummary(p.Checkout, p.Sessions, logg))
				r.Post("/", controllers.CheckoutGuestInfo(p.Checkout, p.Sessions, logg))
			})

			r.Route("/payments", func(r chi.Router) {
				r.Post("/stripe/initiate", controllers.PaymentInitiate(p.Payments, enums.PaymentMethodStripe, logg))
				r.Post("/paypal/initiate", controllers.PaymentInitiate(p.Payments, enums.PaymentMethodPayPal, logg))
				r.Get("/capture", controllers.PaymentCapture(p.Payments, logg))
			})
		})
	})

	r.Route("/api/admin/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, logg))
		r.Use(middleware.RequireAdmin(p.Admins, logg))
		r.Use(middleware.CSRF(p.Redis, logg))

		r.Get("/dashboard", controllers.AdminDashboard(p.Dashboard, logg))
		r.Get("/csrf", controllers.AdminCSRFToken(p.Redis, cfg.Session.TTL, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(p.Catalog, logg))
			r.Post("/", controllers.AdminCreateProduct(p.Catalog, logg))
			r.Put("/{id}", controllers.AdminUpdateProduct(p.Catalog, logg))
			r.Delete("/{id}", controllers.AdminDeleteProduct(p.Catalog, logg))
		})
		r.Get("/categories", controllers.CategoryList(p.Catalog, logg))

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(p.Orders, logg))
			r.Get("/{id}", controllers.AdminOrderDetail(p.Orders, logg))
			r.Post("/{id}/status", controllers.AdminOrderStatus(p.Orders, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUserList(p.AuthService, logg))
			r.Post("/{id}/role", controllers.AdminUserRole(p.AuthService, logg))
		})
	})

	return r
}
