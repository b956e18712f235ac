package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2025, time.June, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregateLoss(t *testing.T) {
	records := []StockRecord{
		{StockDate: day(1), OpeningStock: 1000, Received: 0, Sold: 200, ClosingStock: 800},
		{StockDate: day(2), OpeningStock: 800, Received: 500, Sold: 300, ClosingStock: 900},
	}
	sum := AggregateLoss(records, day(1), day(2))
	require.True(t, sum.HasData)
	assert.Equal(t, 500.0, sum.TotalVolumeSold)
	assert.Equal(t, 500.0, sum.TotalVolumeReceived)
	assert.Equal(t, 1000.0, sum.OpeningStockAtStart)
	assert.Equal(t, 900.0, sum.ClosingStockAtEnd)
	assert.Equal(t, 1000.0, sum.ExpectedClosingStock)
	assert.Equal(t, 100.0, sum.VolumeLoss)
	assert.Equal(t, 20.0, sum.LossPercentage)
}

func TestAggregateLossEmptyPeriod(t *testing.T) {
	sum := AggregateLoss(nil, day(1), day(30))
	assert.False(t, sum.HasData)
	assert.Zero(t, sum.TotalVolumeSold)
	assert.Zero(t, sum.TotalVolumeReceived)
	assert.Zero(t, sum.VolumeLoss)
	assert.Zero(t, sum.LossPercentage)
}

func TestAggregateLossSurplusIsNotNegativeLoss(t *testing.T) {
	records := []StockRecord{
		{StockDate: day(1), OpeningStock: 1000, Received: 100, Sold: 200, ClosingStock: 950},
	}
	// expected 900, measured 950: surplus.
	sum := AggregateLoss(records, day(1), day(1))
	require.True(t, sum.HasData)
	assert.Zero(t, sum.VolumeLoss)
	assert.Zero(t, sum.LossPercentage)
}

func TestAggregateLossFiltersRange(t *testing.T) {
	records := []StockRecord{
		{StockDate: day(1), OpeningStock: 5000, Sold: 100, ClosingStock: 4900},
		{StockDate: day(10), OpeningStock: 4900, Sold: 150, ClosingStock: 4750},
		{StockDate: day(20), OpeningStock: 4750, Sold: 50, ClosingStock: 4700},
	}
	sum := AggregateLoss(records, day(5), day(15))
	require.True(t, sum.HasData)
	assert.Equal(t, 150.0, sum.TotalVolumeSold)
	assert.Equal(t, 4900.0, sum.OpeningStockAtStart)
	assert.Equal(t, 4750.0, sum.ClosingStockAtEnd)
}

func TestAggregateLossNoReceiptsReportsZeroPct(t *testing.T) {
	records := []StockRecord{
		{StockDate: day(1), OpeningStock: 1000, Sold: 100, ClosingStock: 850},
	}
	sum := AggregateLoss(records, day(1), day(1))
	require.True(t, sum.HasData)
	assert.Equal(t, 50.0, sum.VolumeLoss)
	assert.Zero(t, sum.LossPercentage)
}
