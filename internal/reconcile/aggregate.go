package reconcile

import "time"

// AggregateLoss reduces a date-ordered sequence of stock records for one
// station and one product into period loss figures.
//
// Preconditions, deliberately not enforced here to keep this an O(n) pure
// reduction: records must arrive sorted ascending by StockDate, and must
// cover a single product - summing liters across different products is a
// caller error. Records outside [periodStart, periodEnd] are skipped.
//
// A period with no records reports HasData=false and zeroes; callers must
// check the flag before presenting 0% loss, because a station with no data
// is unknown, not lossless.
func AggregateLoss(records []StockRecord, periodStart, periodEnd time.Time) PeriodLossSummary {
	var summary PeriodLossSummary
	for _, rec := range records {
		if rec.StockDate.Before(periodStart) || rec.StockDate.After(periodEnd) {
			continue
		}
		if !summary.HasData {
			summary.HasData = true
			summary.OpeningStockAtStart = rec.OpeningStock
		}
		summary.TotalVolumeSold += rec.Sold
		summary.TotalVolumeReceived += rec.Received
		summary.ClosingStockAtEnd = rec.ClosingStock
	}
	if !summary.HasData {
		return summary
	}
	summary.ExpectedClosingStock = summary.OpeningStockAtStart + summary.TotalVolumeReceived - summary.TotalVolumeSold
	if loss := summary.ExpectedClosingStock - summary.ClosingStockAtEnd; loss > 0 {
		summary.VolumeLoss = loss
	}
	if summary.TotalVolumeReceived > 0 {
		summary.LossPercentage = summary.VolumeLoss / summary.TotalVolumeReceived * 100
	}
	return summary
}
