package analytics

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petrodesk/petrodesk/internal/reconcile"
)

// Repository reads stock records for dashboard queries. Writes go through
// the stockrecords module; this side is read-only.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// RecordsForPeriod returns the station/product records with stock dates in
// [from, to], ordered by date ascending.
func (r *Repository) RecordsForPeriod(ctx context.Context, stationID, productID int64, from, to time.Time) ([]reconcile.StockRecord, error) {
	const q = `
		SELECT station_id, product_id, stock_date, opening_stock, received, sold, closing_stock
		FROM stock_records
		WHERE station_id = $1 AND product_id = $2 AND stock_date BETWEEN $3 AND $4
		ORDER BY stock_date`
	rows, err := r.pool.Query(ctx, q, stationID, productID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []reconcile.StockRecord
	for rows.Next() {
		var rec reconcile.StockRecord
		if err := rows.Scan(&rec.StationID, &rec.ProductID, &rec.StockDate, &rec.OpeningStock, &rec.Received, &rec.Sold, &rec.ClosingStock); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// StationProducts lists the distinct products a station has recorded stock
// for in the given period. Drives the dashboard product list and warmup.
func (r *Repository) StationProducts(ctx context.Context, stationID int64, from, to time.Time) ([]int64, error) {
	const q = `
		SELECT DISTINCT product_id
		FROM stock_records
		WHERE station_id = $1 AND stock_date BETWEEN $2 AND $3
		ORDER BY product_id`
	rows, err := r.pool.Query(ctx, q, stationID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ActiveStations lists stations with at least one record in the period.
// Used by the warmup job to decide which dashboards to precompute.
func (r *Repository) ActiveStations(ctx context.Context, from, to time.Time) ([]int64, error) {
	const q = `
		SELECT DISTINCT station_id
		FROM stock_records
		WHERE stock_date BETWEEN $1 AND $2
		ORDER BY station_id`
	rows, err := r.pool.Query(ctx, q, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
