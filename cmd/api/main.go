package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/avoronov/catalog-backend/api/routes"
	discountpolicy "github.com/avoronov/catalog-backend/internal/discountpolicies"
	"github.com/avoronov/catalog-backend/internal/discountprocessing"
	productsvc "github.com/avoronov/catalog-backend/internal/products"
	"github.com/avoronov/catalog-backend/pkg/config"
	"github.com/avoronov/catalog-backend/pkg/db"
	"github.com/avoronov/catalog-backend/pkg/logger"
	"github.com/avoronov/catalog-backend/pkg/metrics"
	"github.com/avoronov/catalog-backend/pkg/migrate"
	"github.com/avoronov/catalog-backend/pkg/redis"
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

	var redisPinger redis.Pinger
	var idempotencyStore redis.IdempotencyStore
	if cfg.Redis.Enabled() {
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
		redisPinger = redisClient
		idempotencyStore = redisClient
	} else {
		logg.Warn(context.Background(), "redis not configured, idempotency replay disabled")
	}

	policyRepo := discountpolicy.NewRepository(dbClient.DB())
	productRepo := productsvc.NewRepository(dbClient.DB())

	policyService, err := discountpolicy.NewService(policyRepo, dbClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create discount policy service", err)
		os.Exit(1)
	}

	productService, err := productsvc.NewService(productRepo, dbClient, policyRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create product service", err)
		os.Exit(1)
	}

	processingService, err := discountprocessing.NewService(productRepo)
	if err != nil {
		logg.Error(context.Background(), "failed to create discount processing service", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	httpMetrics := metrics.NewHTTPMetrics(registry)

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
		Handler: routes.NewRouter(routes.Dependencies{
			Config:            cfg,
			Logger:            logg,
			DBPinger:          dbClient,
			RedisPinger:       redisPinger,
			IdempotencyStore:  idempotencyStore,
			HTTPMetrics:       httpMetrics,
			MetricsGatherer:   registry,
			ProductService:    productService,
			PolicyService:     policyService,
			ProcessingService: processingService,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
