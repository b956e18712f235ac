package stations

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/petrodesk/petrodesk/internal/shared"
)

// RepositoryPort is the persistence surface the service needs.
type RepositoryPort interface {
	ListStations(ctx context.Context) ([]Station, error)
	GetStation(ctx context.Context, id int64) (Station, error)
	CreateStation(ctx context.Context, station Station) (Station, error)
	UpdateStation(ctx context.Context, id int64, station Station) error
	SetCommissionRate(ctx context.Context, id int64, rate float64) error
	ListProducts(ctx context.Context) ([]Product, error)
	CreateProduct(ctx context.Context, product Product) (Product, error)
}

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

type Service struct {
	repo   RepositoryPort
	audit  AuditPort
	logger *slog.Logger
}

func NewService(repo RepositoryPort, audit AuditPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, audit: audit, logger: logger}
}

func (s *Service) ListStations(ctx context.Context) ([]Station, error) {
	return s.repo.ListStations(ctx)
}

func (s *Service) GetStation(ctx context.Context, id int64) (Station, error) {
	return s.repo.GetStation(ctx, id)
}

func (s *Service) CreateStation(ctx context.Context, actorID int64, station Station) (Station, error) {
	created, err := s.repo.CreateStation(ctx, station)
	if err != nil {
		return Station{}, fmt.Errorf("stations: create: %w", err)
	}
	s.recordAudit(ctx, actorID, "station.created", created.ID, map[string]any{"code": created.Code})
	return created, nil
}

func (s *Service) UpdateStation(ctx context.Context, actorID, id int64, station Station) error {
	if err := s.repo.UpdateStation(ctx, id, station); err != nil {
		return fmt.Errorf("stations: update: %w", err)
	}
	s.recordAudit(ctx, actorID, "station.updated", id, map[string]any{"code": station.Code})
	return nil
}

// SetCommissionRate changes the dealer rate the monthly projection runs on.
// The old and new rates land in the audit trail.
func (s *Service) SetCommissionRate(ctx context.Context, actorID, id int64, rate float64) error {
	current, err := s.repo.GetStation(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.SetCommissionRate(ctx, id, rate); err != nil {
		return fmt.Errorf("stations: set commission rate: %w", err)
	}
	s.recordAudit(ctx, actorID, "station.commission_rate_changed", id, map[string]any{
		"old_rate": current.CommissionRate,
		"new_rate": rate,
	})
	return nil
}

func (s *Service) ListProducts(ctx context.Context) ([]Product, error) {
	return s.repo.ListProducts(ctx)
}

func (s *Service) CreateProduct(ctx context.Context, actorID int64, product Product) (Product, error) {
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return Product{}, fmt.Errorf("stations: create product: %w", err)
	}
	s.recordAudit(ctx, actorID, "product.created", created.ID, map[string]any{"code": created.Code})
	return created, nil
}

func (s *Service) recordAudit(ctx context.Context, actorID int64, action string, entityID int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	log := shared.AuditLog{
		ActorID:  actorID,
		Action:   action,
		Entity:   "station",
		EntityID: strconv.FormatInt(entityID, 10),
		Meta:     meta,
	}
	if err := s.audit.Record(ctx, log); err != nil {
		s.logger.Warn("audit station change", slog.String("action", action), slog.Any("error", err))
	}
}
