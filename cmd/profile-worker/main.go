package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leanchem/leanchem-backend/internal/crm"
	"github.com/leanchem/leanchem-backend/internal/pms"
	"github.com/leanchem/leanchem-backend/internal/profiles"
	"github.com/leanchem/leanchem-backend/internal/websearch"
	"github.com/leanchem/leanchem-backend/pkg/ai"
	"github.com/leanchem/leanchem-backend/pkg/config"
	"github.com/leanchem/leanchem-backend/pkg/db"
	"github.com/leanchem/leanchem-backend/pkg/logger"
	"github.com/leanchem/leanchem-backend/pkg/metrics"
	"github.com/leanchem/leanchem-backend/pkg/migrate"
	"github.com/leanchem/leanchem-backend/pkg/redis"
)

const workerLockName = "profile-worker"

func main() {
	logg := logger.New(logger.Options{ServiceName: "profile-worker"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "profile-worker",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(cfg.DB)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), logg, cfg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	aiClient := ai.NewClient(cfg.Gemini)
	searcher := websearch.NewSearcher(cfg.WebSearch, logg)
	pmsService := pms.NewService(pms.NewRepository(dbClient.DB()), logg)
	crmRepo := crm.NewRepository(dbClient.DB())

	builder := profiles.NewBuilder(crmRepo, searcher, aiClient, pmsService, logg)

	registry := prometheus.NewRegistry()
	workerMetrics := metrics.NewWorkerMetrics(registry)

	worker := profiles.NewWorker(profiles.WorkerParams{
		Config:  cfg.Worker,
		DB:      dbClient,
		Repo:    profiles.NewRepository(dbClient.DB()),
		Builder: builder,
		Lock:    redis.NewLock(redisClient, workerLockName, cfg.Worker.LockTTL),
		Metrics: workerMetrics,
		Logger:  logg,
	})

	metricsServer := &http.Server{
		Addr:              ":" + cfg.Worker.MetricsPort,
		Handler:           promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Error(context.Background(), "metrics server stopped unexpectedly", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":          cfg.App.Env,
		"metrics_port": cfg.Worker.MetricsPort,
	})
	logg.Info(ctx, "starting profile worker")

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logg.Error(ctx, "profile worker stopped unexpectedly", err)
		os.Exit(1)
	}

	drainCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := metricsServer.Shutdown(drainCtx); err != nil {
		logg.Error(context.Background(), "metrics server shutdown failed", err)
	}

	logg.Info(ctx, "profile worker stopped")
}
