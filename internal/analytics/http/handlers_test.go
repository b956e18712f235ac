package analytichttp

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrodesk/petrodesk/internal/analytics"
	"github.com/petrodesk/petrodesk/internal/reconcile"
)

type serviceStub struct {
	summary    reconcile.PeriodLossSummary
	lastFilter analytics.LossFilter
}

func (s *serviceStub) LossSummary(ctx context.Context, f analytics.LossFilter) (reconcile.PeriodLossSummary, error) {
	s.lastFilter = f
	return s.summary, nil
}

func (s *serviceStub) VarianceSeries(ctx context.Context, f analytics.SeriesFilter) ([]analytics.SeriesPoint, error) {
	return []analytics.SeriesPoint{{Date: f.From, Variance: -50, Severity: reconcile.SeverityMinor}}, nil
}

func (s *serviceStub) StationDashboard(ctx context.Context, stationID int64, month time.Time) (analytics.Dashboard, error) {
	return analytics.Dashboard{StationID: stationID, Month: month.Format("2006-01")}, nil
}

func newTestRouter(svc AnalyticsService) chi.Router {
	logger := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
	handler := NewHandler(logger, svc)
	r := chi.NewRouter()
	r.Route("/analytics", handler.MountRoutes)
	return r
}

func get(router http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestHandleLossSummary(t *testing.T) {
	stub := &serviceStub{summary: reconcile.PeriodLossSummary{HasData: true, VolumeLoss: 60}}
	router := newTestRouter(stub)

	rec := get(router, "/analytics/loss?station_id=3&product_id=7&month=2025-06")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"volume_loss":60`)
	assert.Equal(t, int64(3), stub.lastFilter.StationID)
	assert.Equal(t, "2025-06", stub.lastFilter.Month.Format("2006-01"))
}

func TestHandleLossSummaryBadParams(t *testing.T) {
	router := newTestRouter(&serviceStub{})

	assert.Equal(t, http.StatusBadRequest, get(router, "/analytics/loss?product_id=7").Code)
	assert.Equal(t, http.StatusBadRequest, get(router, "/analytics/loss?station_id=3&product_id=7&month=June").Code)
}

func TestHandleVarianceSeries(t *testing.T) {
	router := newTestRouter(&serviceStub{})

	rec := get(router, "/analytics/variance-series?station_id=3&product_id=7&from=2025-06-01&to=2025-06-30")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"variance":-50`)

	// Inverted range is rejected up front.
	bad := get(router, "/analytics/variance-series?station_id=3&product_id=7&from=2025-06-30&to=2025-06-01")
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestHandleDashboardDefaultsToCurrentMonth(t *testing.T) {
	router := newTestRouter(&serviceStub{})

	rec := get(router, "/analytics/dashboard?station_id=3")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"station_id":3`)
}
