package analytichttp

import (
	"context"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/petrodesk/petrodesk/internal/analytics"
	"github.com/petrodesk/petrodesk/internal/platform/httpx"
	"github.com/petrodesk/petrodesk/internal/reconcile"
)

var monthRegex = regexp.MustCompile(`^\d{4}-\d{2}$`)

const requestTimeout = 5 * time.Second

// AnalyticsService defines the dashboard data contract used by the handler.
type AnalyticsService interface {
	LossSummary(ctx context.Context, f analytics.LossFilter) (reconcile.PeriodLossSummary, error)
	VarianceSeries(ctx context.Context, f analytics.SeriesFilter) ([]analytics.SeriesPoint, error)
	StationDashboard(ctx context.Context, stationID int64, month time.Time) (analytics.Dashboard, error)
}

// Handler coordinates HTTP requests for the loss dashboards.
type Handler struct {
	logger  *slog.Logger
	service AnalyticsService
	now     func() time.Time
}

// NewHandler constructs the analytics HTTP handler.
func NewHandler(logger *slog.Logger, service AnalyticsService) *Handler {
	return &Handler{logger: logger, service: service, now: time.Now}
}

// WithNow overrides the handler clock for testing.
func (h *Handler) WithNow(fn func() time.Time) {
	if fn != nil {
		h.now = fn
	}
}

func (h *Handler) handleLossSummary(w http.ResponseWriter, r *http.Request) {
	stationID, productID, err := parseStationProduct(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	month, err := h.parseMonth(r.URL.Query().Get("month"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "month must be YYYY-MM")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	summary, err := h.service.LossSummary(ctx, analytics.LossFilter{StationID: stationID, ProductID: productID, Month: month})
	if err != nil {
		h.serverError(w, "loss summary", err)
		return
	}
	httpx.JSON(w, http.StatusOK, summary)
}

func (h *Handler) handleVarianceSeries(w http.ResponseWriter, r *http.Request) {
	stationID, productID, err := parseStationProduct(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	from, err := time.Parse(reconcile.DateLayout, r.URL.Query().Get("from"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "from must be YYYY-MM-DD")
		return
	}
	to, err := time.Parse(reconcile.DateLayout, r.URL.Query().Get("to"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "to must be YYYY-MM-DD")
		return
	}
	if to.Before(from) {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "to must not precede from")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	points, err := h.service.VarianceSeries(ctx, analytics.SeriesFilter{StationID: stationID, ProductID: productID, From: from, To: to})
	if err != nil {
		h.serverError(w, "variance series", err)
		return
	}
	if points == nil {
		points = []analytics.SeriesPoint{}
	}
	httpx.JSON(w, http.StatusOK, points)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stationID, err := parsePositiveInt(r.URL.Query().Get("station_id"), "station_id")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	month, err := h.parseMonth(r.URL.Query().Get("month"))
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "month must be YYYY-MM")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	dash, err := h.service.StationDashboard(ctx, stationID, month)
	if err != nil {
		h.serverError(w, "station dashboard", err)
		return
	}
	httpx.JSON(w, http.StatusOK, dash)
}

func (h *Handler) parseMonth(raw string) (time.Time, error) {
	if raw == "" {
		now := h.now().UTC()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC), nil
	}
	if !monthRegex.MatchString(raw) {
		return time.Time{}, errInvalidMonth
	}
	return time.Parse("2006-01", raw)
}

var errInvalidMonth = &badParamError{name: "month"}

type badParamError struct{ name string }

func (e *badParamError) Error() string { return e.name + " is invalid" }

func parseStationProduct(r *http.Request) (int64, int64, error) {
	stationID, err := parsePositiveInt(r.URL.Query().Get("station_id"), "station_id")
	if err != nil {
		return 0, 0, err
	}
	productID, err := parsePositiveInt(r.URL.Query().Get("product_id"), "product_id")
	if err != nil {
		return 0, 0, err
	}
	return stationID, productID, nil
}

func parsePositiveInt(raw, name string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v <= 0 {
		return 0, &badParamError{name: name}
	}
	return v, nil
}

func (h *Handler) serverError(w http.ResponseWriter, op string, err error) {
	h.logger.Error("analytics request failed", "op", op, "error", err)
	httpx.Problem(w, http.StatusInternalServerError, "Internal Server Error", "dashboard data unavailable")
}
