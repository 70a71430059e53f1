package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bayuwidodo/belanja-backend/api/routes"
	"github.com/bayuwidodo/belanja-backend/internal/cart"
	"github.com/bayuwidodo/belanja-backend/internal/checkout"
	"github.com/bayuwidodo/belanja-backend/internal/orders"
	midtranswebhook "github.com/bayuwidodo/belanja-backend/internal/webhooks/midtrans"
	"github.com/bayuwidodo/belanja-backend/pkg/config"
	"github.com/bayuwidodo/belanja-backend/pkg/db"
	"github.com/bayuwidodo/belanja-backend/pkg/logger"
	"github.com/bayuwidodo/belanja-backend/pkg/metrics"
	"github.com/bayuwidodo/belanja-backend/pkg/midtrans"
	"github.com/bayuwidodo/belanja-backend/pkg/migrate"
	"github.com/bayuwidodo/belanja-backend/pkg/redis"
)

const webhookDedupeTTL = 48 * time.Hour

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

	redisClient, err := redis.New(context.Background(), cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	midtransClient, err := midtrans.NewClient(cfg.Midtrans)
	if err != nil {
		logg.Error(context.Background(), "failed to create midtrans client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	cartRepo := cart.NewRepository(dbClient.DB())
	checkoutRepo := checkout.NewRepository(dbClient.DB())
	ordersRepo := orders.NewRepository(dbClient.DB())

	cartService, err := cart.NewService(cartRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	policy, err := checkout.PolicyFromConfig(cfg.Checkout)
	if err != nil {
		logg.Error(context.Background(), "invalid checkout pricing policy", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(
		dbClient,
		cartRepo,
		checkoutRepo,
		midtransClient,
		policy,
		cfg.Checkout.OrderNumberAttempts,
		logg,
		checkoutMetrics,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	ordersService, err := orders.NewService(ordersRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create orders service", err)
		os.Exit(1)
	}

	webhookService, err := midtranswebhook.NewService(midtranswebhook.ServiceParams{
		OrdersRepo:        ordersRepo,
		TransactionRunner: dbClient,
		ServerKey:         cfg.Midtrans.ServerKey,
		Logger:            logg,
		Metrics:           checkoutMetrics,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook reconciler", err)
		os.Exit(1)
	}

	webhookGuard, err := midtranswebhook.NewIdempotencyGuard(redisClient, webhookDedupeTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create webhook guard", err)
		os.Exit(1)
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"midtrans_env": cfg.Midtrans.Environment(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(
			cfg,
			logg,
			dbClient,
			redisClient,
			cartService,
			checkoutService,
			ordersService,
			webhookService,
			webhookGuard,
			registry,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
