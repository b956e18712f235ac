// Package analytics serves the loss dashboards: period loss summaries and
// per-day variance series derived from the stock record store. All
// arithmetic lives in the reconcile package; this layer fetches, caches and
// shapes.
package analytics

import (
	"time"

	"github.com/petrodesk/petrodesk/internal/reconcile"
)

// LossFilter scopes a period loss summary to one station, one product and
// one calendar month. Single-product scoping is a hard requirement: liters
// of different fuels must never be summed together.
type LossFilter struct {
	StationID int64
	ProductID int64
	Month     time.Time
}

// SeriesFilter scopes the per-day variance series.
type SeriesFilter struct {
	StationID int64
	ProductID int64
	From      time.Time
	To        time.Time
}

// SeriesPoint is one day's reconciliation outcome for charting.
type SeriesPoint struct {
	Date         time.Time          `json:"date"`
	OpeningStock float64            `json:"opening_stock"`
	Received     float64            `json:"received"`
	Sold         float64            `json:"sold"`
	ClosingStock float64            `json:"closing_stock"`
	Expected     float64            `json:"expected_closing_stock"`
	Variance     float64            `json:"variance"`
	Severity     reconcile.Severity `json:"severity"`
}

// ProductLoss pairs a product with its monthly summary for the station
// dashboard.
type ProductLoss struct {
	ProductID int64                       `json:"product_id"`
	Summary   reconcile.PeriodLossSummary `json:"summary"`
}

// Dashboard is the combined station view for one month.
type Dashboard struct {
	StationID int64         `json:"station_id"`
	Month     string        `json:"month"`
	Products  []ProductLoss `json:"products"`
	Series    []SeriesPoint `json:"series"`
}
