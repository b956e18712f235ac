package stockrecords

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/petrodesk/petrodesk/internal/platform/httpx"
	"github.com/petrodesk/petrodesk/internal/reconcile"
	"github.com/petrodesk/petrodesk/internal/shared"
)

// Handler wires HTTP endpoints for the stock record store.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs the stock records handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers stock record endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.handleSubmit)
	r.Get("/", h.handleList)
	r.Get("/{stationID}/{productID}/{date}", h.handleGet)
}

// submitRequest mirrors the form payload: numeric fields arrive as text and
// cross the parse boundary inside the reconcile validator, not here.
type submitRequest struct {
	StationID    string `json:"station_id"`
	ProductID    string `json:"product_id"`
	StockDate    string `json:"stock_date"`
	OpeningStock string `json:"opening_stock"`
	ClosingStock string `json:"closing_stock"`
	Received     string `json:"received"`
	Sold         string `json:"sold"`
	Notes        string `json:"notes"`
	RecordedBy   int64  `json:"recorded_by"`
}

type submitResponse struct {
	Record   Record                      `json:"record"`
	Warnings []reconcile.ValidationError `json:"warnings,omitempty"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	candidate := reconcile.Candidate{
		StationID:    req.StationID,
		ProductID:    req.ProductID,
		StockDate:    req.StockDate,
		OpeningStock: req.OpeningStock,
		ClosingStock: req.ClosingStock,
		Received:     req.Received,
		Sold:         req.Sold,
		Notes:        req.Notes,
		RecordedBy:   req.RecordedBy,
	}

	stored, verrs, err := h.service.Submit(r.Context(), candidate)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			httpx.ValidationProblem(w, "stock record rejected", verrs)
			return
		}
		if !errors.Is(err, ErrUnknownReference) {
			h.logger.Error("submit stock record", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, submitResponse{Record: stored, Warnings: verrs})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", err.Error())
		return
	}
	records, err := h.service.List(r.Context(), filter)
	if err != nil {
		if !errors.Is(err, ErrValidation) {
			h.logger.Error("list stock records", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	page, perPage := parsePaging(r)
	meta := shared.NewPagination(page, perPage, len(records))
	httpx.JSON(w, http.StatusOK, map[string]any{
		"records":    pageSlice(records, meta),
		"pagination": meta,
	})
}

func parsePaging(r *http.Request) (int, int) {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	return page, perPage
}

func pageSlice(records []Record, meta shared.Pagination) []Record {
	start := (meta.Page - 1) * meta.PerPage
	if start >= len(records) {
		return []Record{}
	}
	end := start + meta.PerPage
	if end > len(records) {
		end = len(records)
	}
	return records[start:end]
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	stationID, err1 := strconv.ParseInt(chi.URLParam(r, "stationID"), 10, 64)
	productID, err2 := strconv.ParseInt(chi.URLParam(r, "productID"), 10, 64)
	date, err3 := time.ParseInLocation(reconcile.DateLayout, chi.URLParam(r, "date"), time.UTC)
	if err1 != nil || err2 != nil || err3 != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "path must be /{stationID}/{productID}/{YYYY-MM-DD}")
		return
	}
	rec, err := h.service.Get(r.Context(), stationID, productID, date)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			h.logger.Error("get stock record", slog.Any("error", err))
		}
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, rec)
}

func parseListFilter(r *http.Request) (ListFilter, error) {
	q := r.URL.Query()
	stationID, err := strconv.ParseInt(q.Get("station_id"), 10, 64)
	if err != nil || stationID <= 0 {
		return ListFilter{}, errors.New("station_id is required")
	}
	filter := ListFilter{StationID: stationID}
	if raw := q.Get("product_id"); raw != "" {
		productID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || productID <= 0 {
			return ListFilter{}, errors.New("product_id must be a positive integer")
		}
		filter.ProductID = productID
	}
	from, err := time.ParseInLocation(reconcile.DateLayout, q.Get("from"), time.UTC)
	if err != nil {
		return ListFilter{}, errors.New("from must be YYYY-MM-DD")
	}
	to, err := time.ParseInLocation(reconcile.DateLayout, q.Get("to"), time.UTC)
	if err != nil {
		return ListFilter{}, errors.New("to must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return ListFilter{}, errors.New("to must not precede from")
	}
	filter.From = from
	filter.To = to
	return filter, nil
}
