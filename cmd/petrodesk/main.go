package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/petrodesk/petrodesk/internal/analytics"
	analytichttp "github.com/petrodesk/petrodesk/internal/analytics/http"
	"github.com/petrodesk/petrodesk/internal/app"
	"github.com/petrodesk/petrodesk/internal/commission"
	"github.com/petrodesk/petrodesk/internal/observability"
	"github.com/petrodesk/petrodesk/internal/platform/cache"
	"github.com/petrodesk/petrodesk/internal/platform/db"
	"github.com/petrodesk/petrodesk/internal/shared"
	"github.com/petrodesk/petrodesk/internal/stations"
	"github.com/petrodesk/petrodesk/internal/stockrecords"
	"github.com/petrodesk/petrodesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Warn("redis connect", slog.Any("error", err))
	}
	defer func() {
		if redisClient != nil {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
	}()

	dashboards := cache.NewVersioned(redisClient, "dashboards", cfg.CacheTTL)
	thresholds := cfg.Thresholds()
	metrics := observability.NewMetrics()
	auditLogger := shared.NewAuditLogger(pool)

	recordsRepo := stockrecords.NewRepository(pool)
	recordsService := stockrecords.NewService(recordsRepo, dashboards, thresholds, logger)
	recordsHandler := stockrecords.NewHandler(logger, recordsService)

	analyticsRepo := analytics.NewRepository(pool)
	analyticsService := analytics.NewService(analyticsRepo, dashboards, thresholds)
	analyticsHandler := analytichttp.NewHandler(logger, analyticsService)

	commissionRepo := commission.NewRepository(pool)
	commissionService := commission.NewService(commissionRepo, dashboards)
	commissionHandler := commission.NewHandler(logger, commissionService)

	stationsRepo := stations.NewRepository(pool)
	stationsService := stations.NewService(stationsRepo, auditLogger, logger)
	stationsHandler := stations.NewHandler(logger, stationsService)

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	inspector := asynq.NewInspector(redisOpts)
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:              logger,
		Config:              cfg,
		StockRecordsHandler: recordsHandler,
		AnalyticsHandler:    analyticsHandler,
		CommissionHandler:   commissionHandler,
		StationsHandler:     stationsHandler,
		JobHandler:          jobHandler,
		Metrics:             metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("http server listening", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown", slog.Any("error", err))
	}
}
