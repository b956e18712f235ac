package stockrecords

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/petrodesk/petrodesk/internal/jobs"
	"github.com/petrodesk/petrodesk/internal/reconcile"
	"github.com/petrodesk/petrodesk/jobs"
)

// ScanRepository is the read surface the nightly scan needs.
type ScanRepository interface {
	ListByDate(ctx context.Context, stockDate time.Time) ([]Record, error)
}

// ScanCacheBumper invalidates dashboard caches once the scan rolls the day
// over, so month summaries stop serving yesterday's version.
type ScanCacheBumper interface {
	Bump(ctx context.Context) error
}

// VarianceScanJob walks one day's stock records and flags shortages. It is
// scheduled nightly for the previous day; operators can also enqueue it for
// an arbitrary date after bulk corrections.
type VarianceScanJob struct {
	repo       ScanRepository
	cache      ScanCacheBumper
	thresholds reconcile.Thresholds
	logger     *slog.Logger
	metrics    *jobmetrics.Metrics
	clock      func() time.Time
}

// NewVarianceScanJob constructs the scan handler.
func NewVarianceScanJob(repo ScanRepository, cache ScanCacheBumper, thresholds reconcile.Thresholds, logger *slog.Logger, metrics *jobmetrics.Metrics) *VarianceScanJob {
	return &VarianceScanJob{
		repo:       repo,
		cache:      cache,
		thresholds: thresholds,
		logger:     logger,
		metrics:    metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle fulfils the asynq.HandlerFunc contract.
func (j *VarianceScanJob) Handle(ctx context.Context, task *asynq.Task) error {
	var payload jobs.VarianceScanPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	scanDate := j.clock().AddDate(0, 0, -1).Truncate(24 * time.Hour)
	if payload.Date != "" {
		parsed, err := time.ParseInLocation(reconcile.DateLayout, payload.Date, time.UTC)
		if err != nil {
			return asynq.SkipRetry
		}
		scanDate = parsed
	}

	tracker := j.metrics.Track(jobs.TaskVarianceScan)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger.With(slog.String("date", scanDate.Format(reconcile.DateLayout)))
	logger.Info("starting variance scan")

	records, err := j.repo.ListByDate(ctx, scanDate)
	if err != nil {
		resultErr = err
		logger.Error("scan failed", slog.Any("error", err))
		return resultErr
	}

	var flagged int
	for _, rec := range records {
		derived := reconcile.Derive(rec.StockRecord, j.thresholds)
		if derived.Severity != reconcile.SeverityMajor || derived.Variance >= 0 {
			continue
		}
		flagged++
		logger.Warn("major stock shortage",
			slog.Int64("station_id", rec.StationID),
			slog.Int64("product_id", rec.ProductID),
			slog.Float64("expected", derived.Expected),
			slog.Float64("variance", derived.Variance),
		)
		j.metrics.AddShortages(string(derived.Severity), rec.StationID, 1)
	}

	if j.cache != nil {
		if err := j.cache.Bump(ctx); err != nil {
			logger.Warn("bump dashboard cache", slog.Any("error", err))
		}
	}

	logger.Info("completed variance scan",
		slog.Int("records", len(records)),
		slog.Int("shortages", flagged),
	)
	return nil
}
