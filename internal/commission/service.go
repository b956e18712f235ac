package commission

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/petrodesk/petrodesk/internal/platform/cache"
)

// RepositoryPort abstracts repository usage for the service.
type RepositoryPort interface {
	DealerRate(ctx context.Context, stationID int64) (float64, error)
	DailyVolumes(ctx context.Context, stationID int64, from, to time.Time) ([]DailyVolume, error)
}

// Service builds dealer commission projections from stored daily volumes.
type Service struct {
	repo  RepositoryPort
	cache *cache.Versioned
	now   func() time.Time
}

// NewService builds the service.
func NewService(repo RepositoryPort, c *cache.Versioned) *Service {
	return &Service{repo: repo, cache: c, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// MonthProjection returns the accrual series for the month containing the
// evaluation date. Projections for the current month are cached under the
// day-scoped key: the series changes whenever a stock record lands (cache
// version bump) or the day rolls over.
func (s *Service) MonthProjection(ctx context.Context, stationID int64, month time.Time) (Projection, error) {
	today := s.now().UTC()
	monthStart := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	loader := func(ctx context.Context) (interface{}, error) {
		rate, err := s.repo.DealerRate(ctx, stationID)
		if err != nil {
			return Projection{}, err
		}
		volumes, err := s.repo.DailyVolumes(ctx, stationID, monthStart, monthEnd)
		if err != nil {
			return Projection{}, err
		}
		return Project(volumes, rate, today), nil
	}

	if s.cache == nil {
		value, err := loader(ctx)
		if err != nil {
			return Projection{}, err
		}
		return value.(Projection), nil
	}

	keyBase := []string{
		"commission", "projection",
		strconv.FormatInt(stationID, 10),
		monthStart.Format("2006-01"),
		today.Format("2006-01-02"),
	}
	key, err := s.cache.BuildKey(ctx, keyBase...)
	if err != nil {
		return Projection{}, err
	}
	var proj Projection
	if err := s.cache.FetchJSON(ctx, key, &proj, loader); err != nil {
		return Projection{}, fmt.Errorf("commission: projection: %w", err)
	}
	return proj, nil
}
