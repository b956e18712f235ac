package analytics

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/petrodesk/petrodesk/internal/platform/cache"
	"github.com/petrodesk/petrodesk/internal/reconcile"
)

// RepositoryPort is the read surface the service needs.
type RepositoryPort interface {
	RecordsForPeriod(ctx context.Context, stationID, productID int64, from, to time.Time) ([]reconcile.StockRecord, error)
	StationProducts(ctx context.Context, stationID int64, from, to time.Time) ([]int64, error)
	ActiveStations(ctx context.Context, from, to time.Time) ([]int64, error)
}

type Service struct {
	repo       RepositoryPort
	cache      *cache.Versioned
	thresholds reconcile.Thresholds
}

func NewService(repo RepositoryPort, c *cache.Versioned, th reconcile.Thresholds) *Service {
	return &Service{repo: repo, cache: c, thresholds: th}
}

// LossSummary returns the one-month loss summary for one station/product.
// Served from the versioned cache; any stock record write bumps the version
// and invalidates every dashboard key at once.
func (s *Service) LossSummary(ctx context.Context, f LossFilter) (reconcile.PeriodLossSummary, error) {
	from, to := monthBounds(f.Month)
	key, err := s.lossKey(ctx, f)
	if err != nil {
		return reconcile.PeriodLossSummary{}, err
	}
	loader := func(ctx context.Context) (interface{}, error) {
		records, err := s.repo.RecordsForPeriod(ctx, f.StationID, f.ProductID, from, to)
		if err != nil {
			return nil, err
		}
		return reconcile.AggregateLoss(records, from, to), nil
	}
	var summary reconcile.PeriodLossSummary
	if err := s.cache.FetchJSON(ctx, key, &summary, loader); err != nil {
		return reconcile.PeriodLossSummary{}, fmt.Errorf("analytics: loss summary: %w", err)
	}
	return summary, nil
}

// VarianceSeries derives the per-day variance points for charting. Not
// cached: the range is caller-chosen and the derivation is arithmetic over
// one indexed query.
func (s *Service) VarianceSeries(ctx context.Context, f SeriesFilter) ([]SeriesPoint, error) {
	records, err := s.repo.RecordsForPeriod(ctx, f.StationID, f.ProductID, f.From, f.To)
	if err != nil {
		return nil, fmt.Errorf("analytics: variance series: %w", err)
	}
	points := make([]SeriesPoint, 0, len(records))
	for _, rec := range records {
		res := reconcile.Derive(rec, s.thresholds)
		points = append(points, SeriesPoint{
			Date:         rec.StockDate,
			OpeningStock: rec.OpeningStock,
			Received:     rec.Received,
			Sold:         rec.Sold,
			ClosingStock: rec.ClosingStock,
			Expected:     res.Expected,
			Variance:     res.Variance,
			Severity:     res.Severity,
		})
	}
	return points, nil
}

// StationDashboard assembles the combined month view: a loss summary per
// recorded product, plus the variance series for the busiest product.
// Product summaries load concurrently.
func (s *Service) StationDashboard(ctx context.Context, stationID int64, month time.Time) (Dashboard, error) {
	from, to := monthBounds(month)
	products, err := s.repo.StationProducts(ctx, stationID, from, to)
	if err != nil {
		return Dashboard{}, fmt.Errorf("analytics: station dashboard: %w", err)
	}

	dash := Dashboard{
		StationID: stationID,
		Month:     month.Format("2006-01"),
		Products:  make([]ProductLoss, len(products)),
		Series:    []SeriesPoint{},
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, productID := range products {
		g.Go(func() error {
			summary, err := s.LossSummary(gctx, LossFilter{StationID: stationID, ProductID: productID, Month: month})
			if err != nil {
				return err
			}
			dash.Products[i] = ProductLoss{ProductID: productID, Summary: summary}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	if len(products) > 0 {
		lead := dash.Products[0]
		for _, pl := range dash.Products[1:] {
			if pl.Summary.TotalVolumeSold > lead.Summary.TotalVolumeSold {
				lead = pl
			}
		}
		series, err := s.VarianceSeries(ctx, SeriesFilter{StationID: stationID, ProductID: lead.ProductID, From: from, To: to})
		if err != nil {
			return Dashboard{}, err
		}
		dash.Series = series
	}
	return dash, nil
}

// WarmStation precomputes the month's loss summaries for every product the
// station has recorded. Called by the dashboard warmup job.
func (s *Service) WarmStation(ctx context.Context, stationID int64, month time.Time) error {
	from, to := monthBounds(month)
	products, err := s.repo.StationProducts(ctx, stationID, from, to)
	if err != nil {
		return err
	}
	for _, productID := range products {
		if _, err := s.LossSummary(ctx, LossFilter{StationID: stationID, ProductID: productID, Month: month}); err != nil {
			return err
		}
	}
	return nil
}

// ActiveStations exposes the repository listing for the warmup job.
func (s *Service) ActiveStations(ctx context.Context, month time.Time) ([]int64, error) {
	from, to := monthBounds(month)
	return s.repo.ActiveStations(ctx, from, to)
}

func (s *Service) lossKey(ctx context.Context, f LossFilter) (string, error) {
	return s.cache.BuildKey(ctx, "analytics", "loss",
		strconv.FormatInt(f.StationID, 10),
		strconv.FormatInt(f.ProductID, 10),
		f.Month.Format("2006-01"))
}

func monthBounds(month time.Time) (time.Time, time.Time) {
	from := time.Date(month.Year(), month.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, -1)
	return from, to
}
