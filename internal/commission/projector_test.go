package commission

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func june(d int) time.Time {
	return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
}

func TestProjectRunRate(t *testing.T) {
	days := []DailyVolume{
		{Date: june(1), Volume: 1000},
		{Date: june(2), Volume: 1000},
	}
	proj := Project(days, 0.05, june(2))
	require.Len(t, proj.Days, 2)

	assert.Equal(t, 50.0, proj.Days[0].CommissionEarned)
	assert.Equal(t, 100.0, proj.Days[1].CumulativeCommission)
	assert.Equal(t, 2000.0, proj.Days[1].CumulativeVolume)
	assert.True(t, proj.Days[1].IsToday)
	assert.False(t, proj.Days[0].IsToday)

	// 100 accrued over 2 of June's 30 days.
	assert.InDelta(t, 1500.0, proj.EstimatedFinal, 1e-9)
	assert.Equal(t, ProjectionMethod, proj.Method)
}

func TestProjectEmptyMonth(t *testing.T) {
	proj := Project(nil, 0.05, june(10))
	assert.Empty(t, proj.Days)
	assert.Zero(t, proj.EstimatedFinal)
}

func TestProjectTrend(t *testing.T) {
	days := []DailyVolume{
		{Date: june(1), Volume: 500},
		{Date: june(2), Volume: 700},
		{Date: june(3), Volume: 700},
		{Date: june(4), Volume: 200},
	}
	proj := Project(days, 0.1, june(4))
	require.Len(t, proj.Days, 4)
	assert.Equal(t, TrendNeutral, proj.Days[0].Trend)
	assert.Equal(t, TrendUp, proj.Days[1].Trend)
	assert.Equal(t, TrendNeutral, proj.Days[2].Trend)
	assert.Equal(t, TrendDown, proj.Days[3].Trend)
}

func TestProjectCumulativeMonotonic(t *testing.T) {
	days := []DailyVolume{
		{Date: june(1), Volume: 300},
		{Date: june(2), Volume: 0},
		{Date: june(3), Volume: 900},
	}
	proj := Project(days, 0.07, june(3))
	for i := 1; i < len(proj.Days); i++ {
		assert.GreaterOrEqual(t, proj.Days[i].CumulativeVolume, proj.Days[i-1].CumulativeVolume)
		assert.GreaterOrEqual(t, proj.Days[i].CumulativeCommission, proj.Days[i-1].CumulativeCommission)
	}
}

// On the last day of the month the run-rate projection collapses onto the
// actual accrued total.
func TestProjectLastDayEqualsActual(t *testing.T) {
	days := make([]DailyVolume, 0, 30)
	for d := 1; d <= 30; d++ {
		days = append(days, DailyVolume{Date: june(d), Volume: 100})
	}
	proj := Project(days, 0.05, june(30))
	require.Len(t, proj.Days, 30)
	assert.InDelta(t, proj.Days[29].CumulativeCommission, proj.EstimatedFinal, 1e-9)
}

// Future days in the series contribute to the chart but not to the run rate.
func TestProjectIgnoresFutureDaysForEstimate(t *testing.T) {
	days := []DailyVolume{
		{Date: june(1), Volume: 1000},
		{Date: june(2), Volume: 1000},
		{Date: june(25), Volume: 99999},
	}
	proj := Project(days, 0.05, june(2))
	assert.InDelta(t, 1500.0, proj.EstimatedFinal, 1e-9)
}
