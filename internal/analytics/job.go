package analytics

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/petrodesk/petrodesk/internal/jobs"
	"github.com/petrodesk/petrodesk/jobs"
)

// WarmupJob precomputes the current month's loss summaries so the first
// dashboard hit after the nightly cache churn is served warm.
type WarmupJob struct {
	service *Service
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewWarmupJob constructs the warmup handler.
func NewWarmupJob(service *Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *WarmupJob {
	return &WarmupJob{
		service: service,
		logger:  logger,
		metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle fulfils the asynq.HandlerFunc contract.
func (j *WarmupJob) Handle(ctx context.Context, task *asynq.Task) error {
	var payload jobs.DashboardWarmupPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics.Track(jobs.TaskDashboardWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	month := j.clock()
	stations := payload.StationIDs
	if len(stations) == 0 {
		var err error
		stations, err = j.service.ActiveStations(ctx, month)
		if err != nil {
			resultErr = err
			j.logger.Error("warmup station listing failed", slog.Any("error", err))
			return resultErr
		}
	}

	var warmed int
	for _, stationID := range stations {
		if err := j.service.WarmStation(ctx, stationID, month); err != nil {
			j.logger.Warn("dashboard warmup failed",
				slog.Int64("station_id", stationID),
				slog.Any("error", err),
			)
			continue
		}
		warmed++
	}

	j.logger.Info("completed dashboard warmup",
		slog.Int("stations", len(stations)),
		slog.Int("warmed", warmed),
	)
	return nil
}
