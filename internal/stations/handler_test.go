package stations

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/petrodesk/petrodesk/internal/shared"
)

type memoryRepo struct {
	stations map[int64]Station
	nextID   int64
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{stations: make(map[int64]Station), nextID: 1}
}

func (m *memoryRepo) ListStations(ctx context.Context) ([]Station, error) {
	out := make([]Station, 0, len(m.stations))
	for _, s := range m.stations {
		out = append(out, s)
	}
	return out, nil
}

func (m *memoryRepo) GetStation(ctx context.Context, id int64) (Station, error) {
	s, ok := m.stations[id]
	if !ok {
		return Station{}, ErrNotFound
	}
	return s, nil
}

func (m *memoryRepo) CreateStation(ctx context.Context, station Station) (Station, error) {
	for _, existing := range m.stations {
		if existing.Code == station.Code {
			return Station{}, ErrDuplicateCode
		}
	}
	station.ID = m.nextID
	m.nextID++
	m.stations[station.ID] = station
	return station, nil
}

func (m *memoryRepo) UpdateStation(ctx context.Context, id int64, station Station) error {
	current, ok := m.stations[id]
	if !ok {
		return ErrNotFound
	}
	current.Code = station.Code
	current.Name = station.Name
	current.Address = station.Address
	m.stations[id] = current
	return nil
}

func (m *memoryRepo) SetCommissionRate(ctx context.Context, id int64, rate float64) error {
	current, ok := m.stations[id]
	if !ok {
		return ErrNotFound
	}
	current.CommissionRate = rate
	m.stations[id] = current
	return nil
}

func (m *memoryRepo) ListProducts(ctx context.Context) ([]Product, error) { return nil, nil }

func (m *memoryRepo) CreateProduct(ctx context.Context, product Product) (Product, error) {
	product.ID = 1
	return product, nil
}

type noopAudit struct{ records []shared.AuditLog }

func (a *noopAudit) Record(ctx context.Context, log shared.AuditLog) error {
	a.records = append(a.records, log)
	return nil
}

func newTestRouter(repo RepositoryPort, audit AuditPort) chi.Router {
	logger := slog.New(slog.NewTextHandler(bytes.NewBuffer(nil), nil))
	handler := NewHandler(logger, NewService(repo, audit, logger))
	r := chi.NewRouter()
	r.Route("/stations", handler.MountRoutes)
	return r
}

func postJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateStationOK(t *testing.T) {
	repo := newMemoryRepo()
	audit := &noopAudit{}
	router := newTestRouter(repo, audit)

	rec := postJSON(t, router, http.MethodPost, "/stations", map[string]any{
		"code":            "ST01",
		"name":            "North Ring Road",
		"address":         "Plot 12",
		"commission_rate": 0.05,
		"actor_id":        9,
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created Station
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, "ST01", created.Code)
	assert.NotZero(t, created.ID)
	require.Len(t, audit.records, 1)
	assert.Equal(t, "station.created", audit.records[0].Action)
}

func TestCreateStationValidationFailure(t *testing.T) {
	router := newTestRouter(newMemoryRepo(), &noopAudit{})

	rec := postJSON(t, router, http.MethodPost, "/stations", map[string]any{
		"code":     "",
		"name":     "Missing Code",
		"actor_id": 9,
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Code")
}

func TestCreateStationDuplicateCode(t *testing.T) {
	repo := newMemoryRepo()
	router := newTestRouter(repo, &noopAudit{})

	payload := map[string]any{"code": "ST01", "name": "First", "actor_id": 9}
	require.Equal(t, http.StatusCreated, postJSON(t, router, http.MethodPost, "/stations", payload).Code)

	payload["name"] = "Second"
	rec := postJSON(t, router, http.MethodPost, "/stations", payload)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSetCommissionRate(t *testing.T) {
	repo := newMemoryRepo()
	audit := &noopAudit{}
	router := newTestRouter(repo, audit)

	created := postJSON(t, router, http.MethodPost, "/stations", map[string]any{
		"code": "ST01", "name": "North", "actor_id": 9,
	})
	require.Equal(t, http.StatusCreated, created.Code)

	rec := postJSON(t, router, http.MethodPut, "/stations/1/commission-rate", map[string]any{
		"commission_rate": 0.07,
		"actor_id":        9,
	})
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.InDelta(t, 0.07, repo.stations[1].CommissionRate, 1e-9)

	// Rate changes carry old and new values into the audit trail.
	last := audit.records[len(audit.records)-1]
	assert.Equal(t, "station.commission_rate_changed", last.Action)
	assert.InDelta(t, 0.07, last.Meta["new_rate"].(float64), 1e-9)

	missing := postJSON(t, router, http.MethodPut, "/stations/99/commission-rate", map[string]any{
		"commission_rate": 0.07,
		"actor_id":        9,
	})
	assert.Equal(t, http.StatusNotFound, missing.Code)
}
