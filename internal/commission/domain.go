package commission

import (
	"fmt"
	"time"

	"github.com/petrodesk/petrodesk/internal/platform/httpx"
)

// Trend compares one day's earned commission against the previous day.
type Trend string

const (
	// TrendUp indicates strictly higher earnings than the previous day.
	TrendUp Trend = "UP"
	// TrendDown indicates strictly lower earnings than the previous day.
	TrendDown Trend = "DOWN"
	// TrendNeutral indicates equal earnings or no previous day.
	TrendNeutral Trend = "NEUTRAL"
)

// ProjectionMethod labels how EstimatedFinal was derived. There is exactly
// one method today; clients must present it as a linear estimate, not a
// forecast model.
const ProjectionMethod = "linear-run-rate"

// DailyVolume is one day's total sold volume at a station, summed across
// products.
type DailyVolume struct {
	Date   time.Time `json:"date"`
	Volume float64   `json:"volume"`
}

// Day is one calendar day's contribution to a dealer's monthly commission.
type Day struct {
	Date                 time.Time `json:"date"`
	Volume               float64   `json:"volume"`
	CommissionEarned     float64   `json:"commission_earned"`
	CumulativeVolume     float64   `json:"cumulative_volume"`
	CumulativeCommission float64   `json:"cumulative_commission"`
	IsToday              bool      `json:"is_today"`
	Trend                Trend     `json:"trend"`
}

// Projection is the day-by-day accrual series plus the month-end estimate.
type Projection struct {
	Days           []Day   `json:"days"`
	EstimatedFinal float64 `json:"estimated_final"`
	Method         string  `json:"method"`
}

// ErrRateNotConfigured indicates the station has no dealer commission rate.
var ErrRateNotConfigured = fmt.Errorf("commission: dealer rate not configured: %w", httpx.ErrNotFound)
