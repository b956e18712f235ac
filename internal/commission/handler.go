package commission

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/petrodesk/petrodesk/internal/platform/httpx"
)

// Handler wires HTTP endpoints for dealer commission projections.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the commission handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers commission endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/projection", h.handleProjection)
}

func (h *Handler) handleProjection(w http.ResponseWriter, r *http.Request) {
	stationID, err := strconv.ParseInt(r.URL.Query().Get("station_id"), 10, 64)
	if err != nil || stationID <= 0 {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "station_id is required")
		return
	}
	month := h.service.now().UTC()
	if raw := r.URL.Query().Get("month"); raw != "" {
		parsed, err := time.ParseInLocation("2006-01", raw, time.UTC)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Bad Request", "month must be YYYY-MM")
			return
		}
		month = parsed
	}

	proj, err := h.service.MonthProjection(r.Context(), stationID, month)
	if err != nil {
		if errors.Is(err, ErrRateNotConfigured) {
			httpx.Problem(w, http.StatusNotFound, "Not Found", ErrRateNotConfigured.Error())
			return
		}
		h.logger.Error("commission projection", slog.Int64("station_id", stationID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, proj)
}
