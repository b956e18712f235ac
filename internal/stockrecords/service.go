package stockrecords

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/petrodesk/petrodesk/internal/reconcile"
	"github.com/petrodesk/petrodesk/internal/shared"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	Upsert(ctx context.Context, rec reconcile.StockRecord) (Record, bool, error)
	Get(ctx context.Context, stationID, productID int64, stockDate time.Time) (Record, error)
	ListByStationAndRange(ctx context.Context, filter ListFilter) ([]Record, error)
	WithTx(ctx context.Context, fn func(RepositoryPort, AuditPort) error) error
}

// AuditPort abstracts audit logging functionality.
type AuditPort interface {
	Record(ctx context.Context, log shared.AuditLog) error
}

// CacheBumper invalidates derived dashboard caches after a write.
type CacheBumper interface {
	Bump(ctx context.Context) error
}

// Service coordinates stock record submission and retrieval. Validation and
// variance arithmetic live in the reconcile package; this layer gates
// persistence on the blocking errors and recomputes derived figures on read.
type Service struct {
	repo       RepositoryPort
	cache      CacheBumper
	thresholds reconcile.Thresholds
	logger     *slog.Logger
}

// NewService builds the service.
func NewService(repo RepositoryPort, cache CacheBumper, thresholds reconcile.Thresholds, logger *slog.Logger) *Service {
	return &Service{repo: repo, cache: cache, thresholds: thresholds, logger: logger}
}

// Submit validates a candidate and upserts it. Blocking validation errors
// abort persistence and come back with ErrValidation; non-blocking warnings
// accompany the stored record so the caller can surface a confirmation
// toast after the fact.
func (s *Service) Submit(ctx context.Context, candidate reconcile.Candidate) (Record, []reconcile.ValidationError, error) {
	rec, verrs := reconcile.Parse(candidate, s.thresholds)
	if reconcile.HasBlocking(verrs) {
		return Record{}, verrs, ErrValidation
	}

	// The upsert and its audit entry commit or roll back together; a
	// correction without a trail is worse than a rejected request.
	var stored Record
	err := s.repo.WithTx(ctx, func(repo RepositoryPort, audit AuditPort) error {
		var created bool
		var err error
		stored, created, err = repo.Upsert(ctx, rec)
		if err != nil {
			return err
		}
		stored.Derived = reconcile.Derive(stored.StockRecord, s.thresholds)

		action := "stock_record.corrected"
		if created {
			action = "stock_record.submitted"
		}
		return audit.Record(ctx, shared.AuditLog{
			ActorID:  rec.RecordedBy,
			Action:   action,
			Entity:   "stock_record",
			EntityID: recordKey(rec),
			Meta: map[string]any{
				// entry_ref ties support tickets to one specific submission
				// even after the row is corrected in place.
				"entry_ref": uuid.NewString(),
				"variance":  stored.Derived.Variance,
				"severity":  string(stored.Derived.Severity),
			},
		})
	})
	if err != nil {
		return Record{}, verrs, err
	}
	if s.cache != nil {
		if err := s.cache.Bump(ctx); err != nil {
			s.logger.Warn("bump dashboard cache", slog.Any("error", err))
		}
	}
	return stored, verrs, nil
}

// Get returns one record with freshly derived variance figures.
func (s *Service) Get(ctx context.Context, stationID, productID int64, stockDate time.Time) (Record, error) {
	rec, err := s.repo.Get(ctx, stationID, productID, stockDate)
	if err != nil {
		return Record{}, err
	}
	rec.Derived = reconcile.Derive(rec.StockRecord, s.thresholds)
	return rec, nil
}

// List returns records in a date range, ordered ascending, with derived
// figures attached.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Record, error) {
	if filter.StationID == 0 {
		return nil, fmt.Errorf("stockrecords: station required: %w", ErrValidation)
	}
	records, err := s.repo.ListByStationAndRange(ctx, filter)
	if err != nil {
		return nil, err
	}
	for i := range records {
		records[i].Derived = reconcile.Derive(records[i].StockRecord, s.thresholds)
	}
	return records, nil
}

func recordKey(rec reconcile.StockRecord) string {
	return fmt.Sprintf("%d:%d:%s", rec.StationID, rec.ProductID, rec.StockDate.Format(reconcile.DateLayout))
}
