package stations

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/petrodesk/petrodesk/internal/platform/httpx"
)

// Handler wires HTTP endpoints for station and product master data.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs the stations handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
	}
}

// MountRoutes registers master data endpoints onto the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{stationID}", h.handleGet)
	r.Put("/{stationID}", h.handleUpdate)
	r.Put("/{stationID}/commission-rate", h.handleSetRate)
	r.Get("/products", h.handleListProducts)
	r.Post("/products", h.handleCreateProduct)
}

type stationForm struct {
	Code           string  `json:"code" validate:"required,alphanum,max=16"`
	Name           string  `json:"name" validate:"required,max=120"`
	Address        string  `json:"address" validate:"max=255"`
	CommissionRate float64 `json:"commission_rate" validate:"gte=0"`
	ActorID        int64   `json:"actor_id" validate:"required,gt=0"`
}

type rateForm struct {
	CommissionRate float64 `json:"commission_rate" validate:"required,gt=0"`
	ActorID        int64   `json:"actor_id" validate:"required,gt=0"`
}

type productForm struct {
	Code    string `json:"code" validate:"required,alphanum,max=16"`
	Name    string `json:"name" validate:"required,max=120"`
	ActorID int64  `json:"actor_id" validate:"required,gt=0"`
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListStations(r.Context())
	if err != nil {
		h.serverError(w, "list stations", err)
		return
	}
	if list == nil {
		list = []Station{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "stationID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "station id must be a positive integer")
		return
	}
	station, err := h.service.GetStation(r.Context(), id)
	if errors.Is(err, ErrNotFound) {
		httpx.Problem(w, http.StatusNotFound, "Not Found", "station does not exist")
		return
	}
	if err != nil {
		h.serverError(w, "get station", err)
		return
	}
	httpx.JSON(w, http.StatusOK, station)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var form stationForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if errs := h.validate(form); len(errs) > 0 {
		httpx.ValidationProblem(w, "station payload is invalid", errs)
		return
	}
	station := Station{
		Code:           form.Code,
		Name:           form.Name,
		Address:        form.Address,
		CommissionRate: form.CommissionRate,
	}
	created, err := h.service.CreateStation(r.Context(), form.ActorID, station)
	if errors.Is(err, ErrDuplicateCode) {
		httpx.Problem(w, http.StatusConflict, "Conflict", "station code already in use")
		return
	}
	if err != nil {
		h.serverError(w, "create station", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "stationID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "station id must be a positive integer")
		return
	}
	var form stationForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if errs := h.validate(form); len(errs) > 0 {
		httpx.ValidationProblem(w, "station payload is invalid", errs)
		return
	}
	station := Station{Code: form.Code, Name: form.Name, Address: form.Address}
	err = h.service.UpdateStation(r.Context(), form.ActorID, id, station)
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "station does not exist")
	case errors.Is(err, ErrDuplicateCode):
		httpx.Problem(w, http.StatusConflict, "Conflict", "station code already in use")
	case err != nil:
		h.serverError(w, "update station", err)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) handleSetRate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "stationID")
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "station id must be a positive integer")
		return
	}
	var form rateForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if errs := h.validate(form); len(errs) > 0 {
		httpx.ValidationProblem(w, "commission rate payload is invalid", errs)
		return
	}
	err = h.service.SetCommissionRate(r.Context(), form.ActorID, id, form.CommissionRate)
	switch {
	case errors.Is(err, ErrNotFound):
		httpx.Problem(w, http.StatusNotFound, "Not Found", "station does not exist")
	case err != nil:
		h.serverError(w, "set commission rate", err)
	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.ListProducts(r.Context())
	if err != nil {
		h.serverError(w, "list products", err)
		return
	}
	if list == nil {
		list = []Product{}
	}
	httpx.JSON(w, http.StatusOK, list)
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var form productForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return
	}
	if errs := h.validate(form); len(errs) > 0 {
		httpx.ValidationProblem(w, "product payload is invalid", errs)
		return
	}
	created, err := h.service.CreateProduct(r.Context(), form.ActorID, Product{Code: form.Code, Name: form.Name})
	if errors.Is(err, ErrDuplicateCode) {
		httpx.Problem(w, http.StatusConflict, "Conflict", "product code already in use")
		return
	}
	if err != nil {
		h.serverError(w, "create product", err)
		return
	}
	httpx.JSON(w, http.StatusCreated, created)
}

func (h *Handler) validate(form any) map[string]string {
	errs := make(map[string]string)
	if err := h.validator.Struct(form); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			for _, fieldErr := range fieldErrs {
				errs[fieldErr.Field()] = fieldErr.Tag()
			}
		} else {
			errs["_"] = err.Error()
		}
	}
	return errs
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

func (h *Handler) serverError(w http.ResponseWriter, op string, err error) {
	h.logger.Error("stations request failed", "op", op, "error", err)
	httpx.Problem(w, http.StatusInternalServerError, "Internal Server Error", "master data unavailable")
}
