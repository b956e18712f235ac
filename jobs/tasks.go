// Package jobs defines the background task types shared between the API
// process (which enqueues) and the worker (which handles).
package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskVarianceScan is the nightly scan over the previous day's stock
	// records, flagging major shortages.
	TaskVarianceScan = "reconcile:variance_scan"
	// TaskDashboardWarmup precomputes the current month's loss summaries so
	// the first dashboard hit of the day is served from cache.
	TaskDashboardWarmup = "analytics:warmup"
)

// VarianceScanPayload configures one scan run. Date is YYYY-MM-DD; empty
// means yesterday relative to the worker clock.
type VarianceScanPayload struct {
	Date string `json:"date,omitempty"`
}

// NewVarianceScanTask constructs an Asynq task.
func NewVarianceScanTask(payload VarianceScanPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskVarianceScan, data), nil
}

// DashboardWarmupPayload scopes the warmup run. An empty StationIDs slice
// warms every active station.
type DashboardWarmupPayload struct {
	StationIDs []int64 `json:"station_ids,omitempty"`
}

// NewDashboardWarmupTask constructs an Asynq task.
func NewDashboardWarmupTask(payload DashboardWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardWarmup, data), nil
}
