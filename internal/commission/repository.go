package commission

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repository reads commission inputs from PostgreSQL.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// DealerRate returns the per-liter commission rate configured for a station.
func (r *Repository) DealerRate(ctx context.Context, stationID int64) (float64, error) {
	var rate float64
	err := r.pool.QueryRow(ctx,
		`SELECT commission_rate FROM stations WHERE id = $1`, stationID,
	).Scan(&rate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, ErrRateNotConfigured
		}
		return 0, err
	}
	if rate <= 0 {
		return 0, ErrRateNotConfigured
	}
	return rate, nil
}

// DailyVolumes sums sold liters across products per stock date, ordered
// ascending, which is the precondition the projector relies on.
func (r *Repository) DailyVolumes(ctx context.Context, stationID int64, from, to time.Time) ([]DailyVolume, error) {
	rows, err := r.pool.Query(ctx, `
SELECT stock_date, COALESCE(SUM(sold), 0)
FROM stock_records
WHERE station_id = $1 AND stock_date BETWEEN $2 AND $3
GROUP BY stock_date
ORDER BY stock_date`, stationID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var volumes []DailyVolume
	for rows.Next() {
		var dv DailyVolume
		if err := rows.Scan(&dv.Date, &dv.Volume); err != nil {
			return nil, err
		}
		volumes = append(volumes, dv)
	}
	return volumes, rows.Err()
}
