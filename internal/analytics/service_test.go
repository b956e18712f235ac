package analytics

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrodesk/petrodesk/internal/platform/cache"
	"github.com/petrodesk/petrodesk/internal/reconcile"
)

type mockRepo struct {
	records     []reconcile.StockRecord
	products    []int64
	stations    []int64
	recordCalls int
}

func (m *mockRepo) RecordsForPeriod(ctx context.Context, stationID, productID int64, from, to time.Time) ([]reconcile.StockRecord, error) {
	m.recordCalls++
	var out []reconcile.StockRecord
	for _, rec := range m.records {
		if rec.StationID == stationID && rec.ProductID == productID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *mockRepo) StationProducts(ctx context.Context, stationID int64, from, to time.Time) ([]int64, error) {
	return m.products, nil
}

func (m *mockRepo) ActiveStations(ctx context.Context, from, to time.Time) ([]int64, error) {
	return m.stations, nil
}

func newTestService(t *testing.T, repo RepositoryPort) (*Service, *cache.Versioned, func()) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	versioned := cache.NewVersioned(client, "dashboards", time.Minute)
	svc := NewService(repo, versioned, reconcile.DefaultThresholds())
	return svc, versioned, func() {
		_ = client.Close()
		mr.Close()
	}
}

func june(day int) time.Time {
	return time.Date(2025, time.June, day, 0, 0, 0, 0, time.UTC)
}

func record(day int, opening, received, sold, closing float64) reconcile.StockRecord {
	return reconcile.StockRecord{
		StationID:    3,
		ProductID:    7,
		StockDate:    june(day),
		OpeningStock: opening,
		Received:     received,
		Sold:         sold,
		ClosingStock: closing,
	}
}

func TestLossSummaryComputesAndCaches(t *testing.T) {
	repo := &mockRepo{
		records: []reconcile.StockRecord{
			record(1, 5000, 10000, 4000, 10950),
			record(2, 10950, 0, 3000, 7940),
		},
	}
	svc, versioned, cleanup := newTestService(t, repo)
	defer cleanup()

	ctx := context.Background()
	filter := LossFilter{StationID: 3, ProductID: 7, Month: june(1)}
	summary, err := svc.LossSummary(ctx, filter)
	require.NoError(t, err)
	assert.True(t, summary.HasData)
	assert.InDelta(t, 7000.0, summary.TotalVolumeSold, 1e-9)
	assert.InDelta(t, 5000.0, summary.OpeningStockAtStart, 1e-9)
	assert.InDelta(t, 7940.0, summary.ClosingStockAtEnd, 1e-9)
	assert.InDelta(t, 60.0, summary.VolumeLoss, 1e-9)
	assert.Equal(t, 1, repo.recordCalls)

	// Second call served from cache.
	_, err = svc.LossSummary(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.recordCalls)

	// A stock record write bumps the version and forces a reload.
	require.NoError(t, versioned.Bump(ctx))
	_, err = svc.LossSummary(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.recordCalls)
}

func TestLossSummaryEmptyMonth(t *testing.T) {
	svc, _, cleanup := newTestService(t, &mockRepo{})
	defer cleanup()

	summary, err := svc.LossSummary(context.Background(), LossFilter{StationID: 3, ProductID: 7, Month: june(1)})
	require.NoError(t, err)
	assert.False(t, summary.HasData)
	assert.Zero(t, summary.VolumeLoss)
}

func TestVarianceSeriesDerivesPerDay(t *testing.T) {
	repo := &mockRepo{
		records: []reconcile.StockRecord{
			record(1, 5000, 10000, 4000, 10950),
			record(2, 10950, 0, 3000, 7950),
		},
	}
	svc, _, cleanup := newTestService(t, repo)
	defer cleanup()

	points, err := svc.VarianceSeries(context.Background(), SeriesFilter{StationID: 3, ProductID: 7, From: june(1), To: june(30)})
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.InDelta(t, 11000.0, points[0].Expected, 1e-9)
	assert.InDelta(t, -50.0, points[0].Variance, 1e-9)
	assert.Equal(t, reconcile.SeverityMinor, points[0].Severity)

	assert.InDelta(t, 7950.0, points[1].Expected, 1e-9)
	assert.Zero(t, points[1].Variance)
	assert.Equal(t, reconcile.SeverityExact, points[1].Severity)
}

func TestStationDashboardFansOutPerProduct(t *testing.T) {
	repo := &mockRepo{
		products: []int64{7},
		records: []reconcile.StockRecord{
			record(1, 5000, 10000, 4000, 10950),
		},
	}
	svc, _, cleanup := newTestService(t, repo)
	defer cleanup()

	dash, err := svc.StationDashboard(context.Background(), 3, june(1))
	require.NoError(t, err)
	assert.Equal(t, "2025-06", dash.Month)
	require.Len(t, dash.Products, 1)
	assert.Equal(t, int64(7), dash.Products[0].ProductID)
	assert.True(t, dash.Products[0].Summary.HasData)
	require.Len(t, dash.Series, 1)
	assert.InDelta(t, -50.0, dash.Series[0].Variance, 1e-9)
}

func TestWarmStationPopulatesCache(t *testing.T) {
	repo := &mockRepo{
		products: []int64{7},
		records: []reconcile.StockRecord{
			record(1, 5000, 10000, 4000, 10950),
		},
	}
	svc, _, cleanup := newTestService(t, repo)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, svc.WarmStation(ctx, 3, june(1)))
	require.Equal(t, 1, repo.recordCalls)

	// Warmed entry is reused by the read path.
	_, err := svc.LossSummary(ctx, LossFilter{StationID: 3, ProductID: 7, Month: june(1)})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.recordCalls)
}
