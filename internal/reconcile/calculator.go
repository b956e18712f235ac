package reconcile

import "math"

// ComputeVariance derives the expected closing stock and its deviation from
// the measured figure. Expected stock is deliberately not clamped at zero: a
// negative book figure usually means sales were mis-recorded, which is the
// validator's concern, not the calculator's. No rounding happens here;
// rounding for display is a presentation concern.
func ComputeVariance(opening, received, sold, closing float64, th Thresholds) VarianceResult {
	expected := opening + received - sold
	variance := closing - expected
	return VarianceResult{
		Expected: expected,
		Variance: variance,
		Severity: classify(variance, th),
	}
}

// Derive recomputes the variance figures for a stored record.
func Derive(rec StockRecord, th Thresholds) VarianceResult {
	return ComputeVariance(rec.OpeningStock, rec.Received, rec.Sold, rec.ClosingStock, th)
}

func classify(variance float64, th Thresholds) Severity {
	abs := math.Abs(variance)
	switch {
	case abs == 0:
		return SeverityExact
	case abs <= th.MinorBand:
		return SeverityMinor
	default:
		return SeverityMajor
	}
}
