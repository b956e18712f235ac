package reconcile

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the calendar-date wire format for stock records.
const DateLayout = "2006-01-02"

// Candidate is a stock record submission before the parse boundary. All
// numeric fields arrive as text because the entry points are form inputs;
// this package is the single place where coercion and domain checks happen
// so the calculators never see unparsed input.
type Candidate struct {
	StationID    string
	ProductID    string
	StockDate    string
	OpeningStock string
	ClosingStock string
	Received     string
	Sold         string
	Notes        string
	RecordedBy   int64
}

// Validate checks a candidate and returns every problem found. An empty
// result means the record may proceed to storage. Pure and idempotent.
func Validate(c Candidate, th Thresholds) []ValidationError {
	_, errs := Parse(c, th)
	return errs
}

// Parse validates a candidate and, when no blocking error is present,
// returns the well-typed record. Warnings may accompany a usable record.
func Parse(c Candidate, th Thresholds) (StockRecord, []ValidationError) {
	var errs []ValidationError
	rec := StockRecord{Notes: strings.TrimSpace(c.Notes), RecordedBy: c.RecordedBy}

	if id, ok := parseID(c.StationID); ok {
		rec.StationID = id
	} else {
		errs = append(errs, newError(KindMissingStation, "station_id"))
	}
	if id, ok := parseID(c.ProductID); ok {
		rec.ProductID = id
	} else {
		errs = append(errs, newError(KindMissingProduct, "product_id"))
	}

	if strings.TrimSpace(c.StockDate) == "" {
		errs = append(errs, newError(KindMissingOrInvalidDate, "stock_date"))
	} else if day, err := time.ParseInLocation(DateLayout, strings.TrimSpace(c.StockDate), time.UTC); err != nil {
		errs = append(errs, newError(KindMissingOrInvalidDate, "stock_date"))
	} else {
		rec.StockDate = day
	}

	opening, openingErrs := parseStock(c.OpeningStock, "opening_stock")
	errs = append(errs, openingErrs...)
	rec.OpeningStock = opening

	closing, closingErrs := parseStock(c.ClosingStock, "closing_stock")
	errs = append(errs, closingErrs...)
	rec.ClosingStock = closing

	received, receivedErrs := parseFlow(c.Received, "received")
	errs = append(errs, receivedErrs...)
	rec.Received = received

	sold, soldErrs := parseFlow(c.Sold, "sold")
	errs = append(errs, soldErrs...)
	rec.Sold = sold

	if !HasBlocking(errs) {
		expected := rec.OpeningStock + rec.Received - rec.Sold
		if expected > 0 && math.Abs(rec.ClosingStock-expected) > th.TolerancePct*expected {
			errs = append(errs, varianceWarning(expected, rec.ClosingStock, th))
		}
	}
	return rec, errs
}

func parseID(raw string) (int64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// parseStock handles opening/closing dip readings, which are mandatory.
func parseStock(raw, field string) (float64, []ValidationError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, []ValidationError{newError(KindMissingStockValue, field)}
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, []ValidationError{newError(KindMissingStockValue, field)}
	}
	if v < 0 {
		return 0, []ValidationError{newError(KindNegativeStockValue, field)}
	}
	return v, nil
}

// parseFlow handles received/sold volumes, which default to zero when absent.
func parseFlow(raw, field string) (float64, []ValidationError) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, []ValidationError{newError(KindNegativeFlowValue, field)}
	}
	if v < 0 {
		return 0, []ValidationError{newError(KindNegativeFlowValue, field)}
	}
	return v, nil
}
