package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/berrythread/storefront-api/internal/catalog"
	"github.com/berrythread/storefront-api/internal/sync"
	"github.com/berrythread/storefront-api/pkg/config"
	"github.com/berrythread/storefront-api/pkg/db"
	"github.com/berrythread/storefront-api/pkg/logger"
	"github.com/berrythread/storefront-api/pkg/metrics"
	"github.com/berrythread/storefront-api/pkg/migrate"
	"github.com/berrythread/storefront-api/pkg/redis"
)

const lockKeyFormat = "sf:catalog-sync:lock:%s"

func main() {
	logg := logger.New(logger.Options{ServiceName: "catalog-sync"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "catalog-sync",
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

	upstreamClient, err := catalog.NewClient(cfg.Upstream)
	if err != nil {
		logg.Error(context.Background(), "failed to create upstream client", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(upstreamClient, catalog.NewRepository(dbClient.DB()), redisClient, logg, cfg.Catalog.ConfigTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	metricsCollector := metrics.NewSyncJobMetrics(prometheus.DefaultRegisterer)

	refreshJob, err := sync.NewCatalogRefreshJob(sync.CatalogRefreshJobParams{
		Logger:  logg,
		Catalog: catalogService,
		Metrics: metricsCollector,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog refresh job", err)
		os.Exit(1)
	}

	lock, err := sync.NewRedisLock(redisClient, lockKey(cfg.App.Env), 0)
	if err != nil {
		logg.Error(context.Background(), "failed to create sync lock", err)
		os.Exit(1)
	}

	service, err := sync.NewService(sync.ServiceParams{
		Logger:   logg,
		Registry: sync.NewRegistry(refreshJob),
		Lock:     lock,
		Metrics:  metricsCollector,
		Interval: cfg.Catalog.SyncInterval,
	})
	if err != nil {
		logg.Error(context.Background(), "failed to create sync service", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	ctx = logg.WithField(ctx, "env", cfg.App.Env)
	logg.Info(ctx, "starting catalog sync worker")

	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "catalog sync worker stopped unexpectedly", err)
		os.Exit(1)
	}

	logg.Info(ctx, "catalog sync worker shutting down gracefully")
}

func lockKey(env string) string {
	if env == "" {
		env = "local"
	}
	return fmt.Sprintf(lockKeyFormat, env)
}
