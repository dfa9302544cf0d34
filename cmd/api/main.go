package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/feriavirtual/marketplace-backend/api/routes"
	"github.com/feriavirtual/marketplace-backend/internal/audit"
	"github.com/feriavirtual/marketplace-backend/internal/checkout"
	"github.com/feriavirtual/marketplace-backend/internal/commission"
	"github.com/feriavirtual/marketplace-backend/internal/coupons"
	"github.com/feriavirtual/marketplace-backend/internal/notifications"
	"github.com/feriavirtual/marketplace-backend/internal/purchases"
	"github.com/feriavirtual/marketplace-backend/internal/shipping"
	"github.com/feriavirtual/marketplace-backend/pkg/config"
	"github.com/feriavirtual/marketplace-backend/pkg/db"
	"github.com/feriavirtual/marketplace-backend/pkg/idempotency"
	"github.com/feriavirtual/marketplace-backend/pkg/logger"
	"github.com/feriavirtual/marketplace-backend/pkg/metrics"
	"github.com/feriavirtual/marketplace-backend/pkg/migrate"
	"github.com/feriavirtual/marketplace-backend/pkg/redis"
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

	registry := prometheus.NewRegistry()
	marketMetrics := metrics.NewMarketplaceMetrics(registry)

	guard, err := idempotency.NewGuard(redisClient, cfg.Checkout.IdempotencyTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create idempotency guard", err)
		os.Exit(1)
	}

	purchasesRepo := purchases.NewRepository(dbClient.DB())
	couponsRepo := coupons.NewRepository(dbClient.DB())

	calculator, err := commission.NewCalculator(cfg.Commission)
	if err != nil {
		logg.Error(context.Background(), "failed to create commission calculator", err)
		os.Exit(1)
	}
	commissionService, err := commission.NewService(
		commission.NewRepository(dbClient.DB()), calculator, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create commission service", err)
		os.Exit(1)
	}

	notificationsService, err := notifications.NewService(
		notifications.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(context.Background(), "failed to create notifications service", err)
		os.Exit(1)
	}

	checkoutService, err := checkout.NewService(
		checkout.NewProductReader(dbClient.DB()),
		couponsRepo,
		purchasesRepo,
		checkout.NewInventoryReserver(dbClient.DB()),
		checkout.NewHTTPGateway(cfg.Payment),
		guard,
		dbClient,
		logg,
		marketMetrics,
		cfg.Payment.Currency,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create checkout service", err)
		os.Exit(1)
	}

	shippingService, err := shipping.NewService(purchasesRepo, notificationsService, logg, marketMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create shipping service", err)
		os.Exit(1)
	}

	auditor, err := audit.NewAuditor(purchasesRepo, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create auditor", err)
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
		Handler: routes.NewRouter(
			cfg, logg, dbClient, redisClient,
			checkoutService, shippingService, commissionService,
			notificationsService, purchasesRepo, auditor, registry,
		),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
