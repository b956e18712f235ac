// Package stockrecords owns the daily tank stock record store: one record
// per station, product and calendar date, corrected in place on
// resubmission, never duplicated.
package stockrecords

import (
	"fmt"
	"time"

	"github.com/petrodesk/petrodesk/internal/platform/httpx"
	"github.com/petrodesk/petrodesk/internal/reconcile"
)

// Record is a persisted stock observation together with its derived
// variance figures. Derived values are recomputed on every read from the
// stored inputs so they can never drift.
type Record struct {
	ID int64 `json:"id"`
	reconcile.StockRecord
	Derived   reconcile.VarianceResult `json:"derived"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// ListFilter bounds a record query. ProductID of zero means all products.
type ListFilter struct {
	StationID int64
	ProductID int64
	From      time.Time
	To        time.Time
}

var (
	// ErrNotFound indicates no record exists for the requested key.
	ErrNotFound = fmt.Errorf("stockrecords: not found: %w", httpx.ErrNotFound)
	// ErrValidation indicates the candidate was rejected by the validator;
	// the accompanying []reconcile.ValidationError carries the detail.
	ErrValidation = fmt.Errorf("stockrecords: validation failed: %w", httpx.ErrValidation)
	// ErrUnknownReference indicates the station or product does not exist.
	ErrUnknownReference = fmt.Errorf("stockrecords: unknown station or product: %w", httpx.ErrNotFound)
)
