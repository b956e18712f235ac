package reconcile

import "time"

// Severity classifies the size of a daily stock variance.
type Severity string

const (
	// SeverityExact indicates measured stock matched the book figure.
	SeverityExact Severity = "EXACT"
	// SeverityMinor indicates a variance within the minor band.
	SeverityMinor Severity = "MINOR"
	// SeverityMajor indicates a variance beyond the minor band.
	SeverityMajor Severity = "MAJOR"
)

// Thresholds carries the tunable reconciliation bands. The defaults mirror
// the values used operationally; deployments with larger tanks should widen
// them via configuration rather than editing call sites.
type Thresholds struct {
	// MinorBand is the absolute volume (liters) up to which a non-zero
	// variance is still classified as minor.
	MinorBand float64
	// TolerancePct is the fraction of expected closing stock beyond which
	// a submission earns a non-blocking large-variance warning.
	TolerancePct float64
}

// DefaultThresholds returns the stock reconciliation bands used when no
// deployment override is configured.
func DefaultThresholds() Thresholds {
	return Thresholds{MinorBand: 100, TolerancePct: 0.15}
}

// StockRecord is one observation of a single fuel product at a single
// station on a single calendar date. Volumes are liters. ExpectedClosing and
// Variance are derived and recomputed on read; they are never authoritative
// on their own.
type StockRecord struct {
	StationID    int64     `json:"station_id"`
	ProductID    int64     `json:"product_id"`
	StockDate    time.Time `json:"stock_date"`
	OpeningStock float64   `json:"opening_stock"`
	Received     float64   `json:"received"`
	Sold         float64   `json:"sold"`
	ClosingStock float64   `json:"closing_stock"`
	Notes        string    `json:"notes,omitempty"`
	RecordedBy   int64     `json:"recorded_by,omitempty"`
}

// VarianceResult holds the derived figures for one stock record.
type VarianceResult struct {
	Expected float64  `json:"expected_closing_stock"`
	Variance float64  `json:"variance"`
	Severity Severity `json:"severity"`
}

// PeriodLossSummary aggregates an ordered sequence of stock records for one
// station and product over a calendar period. Loss is one-directional: a
// surplus never reports as negative loss. Field names are part of the export
// contract and must stay stable.
type PeriodLossSummary struct {
	HasData              bool    `json:"has_data"`
	TotalVolumeSold      float64 `json:"total_volume_sold"`
	TotalVolumeReceived  float64 `json:"total_volume_received"`
	OpeningStockAtStart  float64 `json:"opening_stock_at_period_start"`
	ClosingStockAtEnd    float64 `json:"closing_stock_at_period_end"`
	ExpectedClosingStock float64 `json:"expected_closing_stock"`
	VolumeLoss           float64 `json:"volume_loss"`
	LossPercentage       float64 `json:"loss_percentage"`
}

// ErrorKind identifies a validation failure class. Blocking kinds must
// prevent persistence; warnings surface a confirmation prompt only.
type ErrorKind string

const (
	// KindMissingStation indicates no station reference was supplied.
	KindMissingStation ErrorKind = "MISSING_STATION"
	// KindMissingProduct indicates no product reference was supplied.
	KindMissingProduct ErrorKind = "MISSING_PRODUCT"
	// KindMissingOrInvalidDate indicates the stock date is absent or unparseable.
	KindMissingOrInvalidDate ErrorKind = "MISSING_OR_INVALID_DATE"
	// KindMissingStockValue indicates opening or closing stock is absent or non-numeric.
	KindMissingStockValue ErrorKind = "MISSING_STOCK_VALUE"
	// KindNegativeStockValue indicates a negative opening or closing stock.
	KindNegativeStockValue ErrorKind = "NEGATIVE_STOCK_VALUE"
	// KindNegativeFlowValue indicates a negative received or sold volume.
	KindNegativeFlowValue ErrorKind = "NEGATIVE_FLOW_VALUE"
	// KindLargeVarianceWarning indicates measured stock deviates from the
	// book figure beyond the tolerance. Non-blocking.
	KindLargeVarianceWarning ErrorKind = "LARGE_VARIANCE_WARNING"
)

// ValidationError describes one problem with a candidate stock record.
type ValidationError struct {
	Kind    ErrorKind `json:"kind"`
	Field   string    `json:"field,omitempty"`
	Message string    `json:"message"`
}

// Blocking reports whether this error must prevent persistence.
func (e ValidationError) Blocking() bool {
	return e.Kind != KindLargeVarianceWarning
}

// HasBlocking reports whether any error in the list is blocking.
func HasBlocking(errs []ValidationError) bool {
	for _, e := range errs {
		if e.Blocking() {
			return true
		}
	}
	return false
}
