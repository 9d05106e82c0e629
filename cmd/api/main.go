package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/acuellar/tiendita-backend/api/routes"
	authsvc "github.com/acuellar/tiendita-backend/internal/auth"
	cartsvc "github.com/acuellar/tiendita-backend/internal/cart"
	"github.com/acuellar/tiendita-backend/internal/catalog"
	checkoutsvc "github.com/acuellar/tiendita-backend/internal/checkout"
	"github.com/acuellar/tiendita-backend/internal/dashboard"
	ordersvc "github.com/acuellar/tiendita-backend/internal/orders"
	paymentsvc "github.com/acuellar/tiendita-backend/internal/payments"
	"github.com/acuellar/tiendita-backend/internal/users"
	"github.com/acuellar/tiendita-backend/pkg/config"
	"github.com/acuellar/tiendita-backend/pkg/db"
	"github.com/acuellar/tiendita-backend/pkg/enums"
	"github.com/acuellar/tiendita-backend/pkg/logger"
	"github.com/acuellar/tiendita-backend/pkg/metrics"
	"github.com/acuellar/tiendita-backend/pkg/migrate"
	"github.com/acuellar/tiendita-backend/pkg/paypal"
	"github.com/acuellar/tiendita-backend/pkg/redis"
	"github.com/acuellar/tiendita-backend/pkg/session"
	"github.com/acuellar/tiendita-backend/pkg/stripe"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessionStore, err := session.NewStore(redisClient, cfg.Session)
	if err != nil {
		logg.Error(context.Background(), "failed to create session store", err)
		os.Exit(1)
	}

	catalogRepo := catalog.NewRepository(dbClient.DB())
	ordersRepo := ordersvc.NewRepository(dbClient.DB())
	usersRepo := users.NewRepository(dbClient.DB())

	catalogService, err := catalog.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartService, err := cartsvc.NewService(catalogRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	cartReader := cartsvc.NewReader(catalogRepo)

	checkoutService, err := checkoutsvc.NewService(cartReader)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	authService, err := authsvc.NewService(authsvc.ServiceParams{
		DB:          dbClient,
		Users:       usersRepo,
		JWTConfig:   cfg.JWT,
		PasswordCfg: cfg.Password,
		Logger:      logg,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create auth service", err)
		os.Exit(1)
	}

	ordersService, err := ordersvc.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	dashboardService, err := dashboard.NewService(dashboard.ServiceParams{
		Catalog: catalogRepo,
		Users:   usersRepo,
		Orders:  ordersRepo,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create dashboard service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := metrics.NewHTTPMetrics(registry)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	providers := map[enums.PaymentMethod]paymentsvc.Provider{}
	if cfg.Stripe.SecretKey != "" {
		stripeClient, err := stripe.NewClient(context.Background(), cfg.Stripe, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap stripe", err)
			os.Exit(1)
		}
		providers[enums.PaymentMethodStripe] = paymentsvc.NewStripeProvider(
			paymentsvc.NewStripeAPI(stripeClient), cfg.Checkout, cfg.App.BaseURL)
	}
	if cfg.PayPal.ClientID != "" && cfg.PayPal.Secret != "" {
		paypalClient, err := paypal.NewClient(context.Background(), cfg.PayPal, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap paypal", err)
			os.Exit(1)
		}
		providers[enums.PaymentMethodPayPal] = paymentsvc.NewPayPalProvider(
			paymentsvc.NewPayPalAPI(paypalClient), cfg.Checkout, cfg.App.BaseURL)
	}
	if len(providers) == 0 {
		logg.Error(context.Background(), "no payment provider configured", nil)
		os.Exit(1)
	}

	paymentsService, err := paymentsvc.NewService(paymentsvc.ServiceParams{
		DBClient:  dbClient,
		Orders:    ordersRepo,
		Catalog:   catalogRepo,
		Reader:    cartReader,
		Sessions:  sessionStore,
		Guard:     paymentsvc.NewRedisCaptureGuard(redisClient),
		Providers: providers,
		Logger:    logg,
		Metrics:   checkoutMetrics,
		Checkout:  cfg.Checkout,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create payments service", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.RouterParams{
			Config:       cfg,
			Logger:       logg,
			DBPinger:     dbClient,
			Redis:        redisClient,
			Sessions:     sessionStore,
			Admins:       usersRepo,
			AuthService:  authService,
			Catalog:      catalogService,
			Cart:         cartService,
			Checkout:     checkoutService,
			Payments:     paymentsService,
			Orders:       ordersService,
			Dashboard:    dashboardService,
			HTTPMetrics:  httpMetrics,
			PromRegistry: registry,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
