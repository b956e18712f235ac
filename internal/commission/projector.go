package commission

import "time"

// Project builds the cumulative commission series for one month of daily
// volumes and a per-liter rate, plus a straight-line run-rate estimate of
// the month-end total.
//
// dailyVolumes must arrive sorted ascending by date; the projector is a
// pure reduction and does not sort. An empty input is a valid state (a new
// month) and yields an empty projection rather than an error.
func Project(dailyVolumes []DailyVolume, rate float64, today time.Time) Projection {
	proj := Projection{Days: make([]Day, 0, len(dailyVolumes)), Method: ProjectionMethod}

	var cumVolume, cumCommission float64
	var prevEarned float64
	var daysElapsed int
	var cumAtToday float64
	for i, dv := range dailyVolumes {
		earned := dv.Volume * rate
		cumVolume += dv.Volume
		cumCommission += earned
		day := Day{
			Date:                 dv.Date,
			Volume:               dv.Volume,
			CommissionEarned:     earned,
			CumulativeVolume:     cumVolume,
			CumulativeCommission: cumCommission,
			IsToday:              sameDate(dv.Date, today),
			Trend:                trendOf(i, earned, prevEarned),
		}
		proj.Days = append(proj.Days, day)
		if !dv.Date.After(today) {
			daysElapsed++
			cumAtToday = cumCommission
		}
		prevEarned = earned
	}

	if daysElapsed > 0 {
		proj.EstimatedFinal = cumAtToday / float64(daysElapsed) * float64(daysInMonth(today))
	}
	return proj
}

func trendOf(index int, earned, prevEarned float64) Trend {
	if index == 0 {
		return TrendNeutral
	}
	switch {
	case earned > prevEarned:
		return TrendUp
	case earned < prevEarned:
		return TrendDown
	default:
		return TrendNeutral
	}
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func daysInMonth(t time.Time) int {
	firstOfNext := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1).Day()
}
