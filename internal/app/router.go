package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	analytichttp "github.com/petrodesk/petrodesk/internal/analytics/http"
	"github.com/petrodesk/petrodesk/internal/commission"
	"github.com/petrodesk/petrodesk/internal/observability"
	"github.com/petrodesk/petrodesk/internal/stations"
	"github.com/petrodesk/petrodesk/internal/stockrecords"
	"github.com/petrodesk/petrodesk/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger              *slog.Logger
	Config              *Config
	StockRecordsHandler *stockrecords.Handler
	AnalyticsHandler    *analytichttp.Handler
	CommissionHandler   *commission.Handler
	StationsHandler     *stations.Handler
	JobHandler          *jobs.Handler
	Metrics             *observability.Metrics
}

// NewRouter constructs the chi.Router with PetroDesk defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.StockRecordsHandler != nil {
		r.Route("/stock-records", params.StockRecordsHandler.MountRoutes)
	}
	if params.AnalyticsHandler != nil {
		r.Route("/analytics", params.AnalyticsHandler.MountRoutes)
	}
	if params.CommissionHandler != nil {
		r.Route("/commissions", params.CommissionHandler.MountRoutes)
	}
	if params.StationsHandler != nil {
		r.Route("/stations", params.StationsHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
