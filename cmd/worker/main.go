package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/petrodesk/petrodesk/internal/analytics"
	"github.com/petrodesk/petrodesk/internal/app"
	jobmetrics "github.com/petrodesk/petrodesk/internal/jobs"
	"github.com/petrodesk/petrodesk/internal/platform/cache"
	"github.com/petrodesk/petrodesk/internal/platform/db"
	"github.com/petrodesk/petrodesk/internal/stockrecords"
	"github.com/petrodesk/petrodesk/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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
		logger.Error("connect database", slog.Any("error", err))
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
	if err := dashboards.ListenForInvalidation(ctx); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}

	thresholds := cfg.Thresholds()
	metrics := jobmetrics.NewMetrics(nil)

	recordsRepo := stockrecords.NewRepository(pool)
	scanJob := stockrecords.NewVarianceScanJob(recordsRepo, dashboards, thresholds, logger, metrics)

	analyticsRepo := analytics.NewRepository(pool)
	analyticsService := analytics.NewService(analyticsRepo, dashboards, thresholds)
	warmupJob := analytics.NewWarmupJob(analyticsService, logger, metrics)

	nightlyScan, err := jobs.NewVarianceScanTask(jobs.VarianceScanPayload{})
	if err != nil {
		logger.Error("build variance scan task", slog.Any("error", err))
		os.Exit(1)
	}
	morningWarmup, err := jobs.NewDashboardWarmupTask(jobs.DashboardWarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskVarianceScan, Handler: scanJob.Handle},
			{Type: jobs.TaskDashboardWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			// Scan yesterday's records shortly after midnight UTC.
			{Spec: "15 0 * * *", Task: nightlyScan, Options: []asynq.Option{asynq.Queue(jobs.QueueDefault)}},
			// Warm dashboards before the first office hour.
			{Spec: "0 5 * * *", Task: morningWarmup, Options: []asynq.Option{asynq.Queue(jobs.QueueDefault)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("worker started")
	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
