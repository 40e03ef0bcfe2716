package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/leanchem/leanchem-backend/api/routes"
	"github.com/leanchem/leanchem-backend/internal/crm"
	"github.com/leanchem/leanchem-backend/internal/pipeline"
	"github.com/leanchem/leanchem-backend/internal/pms"
	"github.com/leanchem/leanchem-backend/internal/profiles"
	"github.com/leanchem/leanchem-backend/internal/quotes"
	"github.com/leanchem/leanchem-backend/internal/stock"
	"github.com/leanchem/leanchem-backend/pkg/ai"
	"github.com/leanchem/leanchem-backend/pkg/config"
	"github.com/leanchem/leanchem-backend/pkg/db"
	"github.com/leanchem/leanchem-backend/pkg/logger"
	"github.com/leanchem/leanchem-backend/pkg/metrics"
	"github.com/leanchem/leanchem-backend/pkg/migrate"
	"github.com/leanchem/leanchem-backend/pkg/redis"
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

	pmsService := pms.NewService(pms.NewRepository(dbClient.DB()), logg)
	crmService := crm.NewService(crm.NewRepository(dbClient.DB()), aiClient, logg)
	stockService := stock.NewService(
		stock.NewRepository(dbClient.DB()),
		dbClient,
		pmsService,
		pmsService,
		crmService,
		stock.NewCache(redisClient, cfg.FeatureFlags.StockCacheTTL),
		logg,
	)
	pipelineService := pipeline.NewService(pipeline.NewRepository(dbClient.DB()), crmService, pmsService, logg)
	quotesService := quotes.NewService(quotes.NewRedisSequence(redisClient), logg)
	profileQueue := profiles.NewRepository(dbClient.DB())

	httpMetrics := metrics.NewHTTPMetrics(prometheus.DefaultRegisterer)

	router := routes.NewRouter(routes.Deps{
		Config:       cfg,
		Logger:       logg,
		DBPinger:     dbClient,
		RedisPinger:  redisClient,
		HTTPMetrics:  httpMetrics,
		Stock:        stockService,
		PMS:          pmsService,
		CRM:          crmService,
		Pipeline:     pipelineService,
		Quotes:       quotesService,
		ProfileQueue: profileQueue,
	})

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
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-shutdownCtx.Done():
		logg.Info(ctx, "shutdown signal received")
		drainCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(drainCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
		}
	}

	logg.Info(ctx, "api server stopped")
}
