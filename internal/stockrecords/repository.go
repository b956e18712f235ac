package stockrecords

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/petrodesk/petrodesk/internal/platform/db"
	"github.com/petrodesk/petrodesk/internal/reconcile"
	"github.com/petrodesk/petrodesk/internal/shared"
)

// querier is satisfied by both *pgxpool.Pool and pgx.Tx, so every query
// method works inside or outside a transaction.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Repository persists stock records in PostgreSQL.
type Repository struct {
	db   querier
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{db: pool, pool: pool}
}

// WithTx runs fn against a transaction-bound repository and audit logger.
// The data change and its audit entry commit or roll back together.
func (r *Repository) WithTx(ctx context.Context, fn func(RepositoryPort, AuditPort) error) error {
	if r.pool == nil {
		return errors.New("stockrecords: nested transaction")
	}
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		return fn(&Repository{db: tx}, shared.NewAuditLogger(tx))
	})
}

const foreignKeyViolation = "23503"

// Upsert inserts the record or, when the (station, product, date) key
// already exists, overwrites the previous observation. The unique
// constraint serializes racing submissions; last write wins. Returns the
// stored row and whether it was newly created.
func (r *Repository) Upsert(ctx context.Context, rec reconcile.StockRecord) (Record, bool, error) {
	row := r.db.QueryRow(ctx, `
INSERT INTO stock_records
	(station_id, product_id, stock_date, opening_stock, received, sold, closing_stock, notes, recorded_by, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
ON CONFLICT (station_id, product_id, stock_date) DO UPDATE SET
	opening_stock = EXCLUDED.opening_stock,
	received      = EXCLUDED.received,
	sold          = EXCLUDED.sold,
	closing_stock = EXCLUDED.closing_stock,
	notes         = EXCLUDED.notes,
	recorded_by   = EXCLUDED.recorded_by,
	updated_at    = NOW()
RETURNING id, created_at, updated_at, (xmax = 0) AS inserted`,
		rec.StationID, rec.ProductID, rec.StockDate,
		rec.OpeningStock, rec.Received, rec.Sold, rec.ClosingStock,
		rec.Notes, rec.RecordedBy)

	stored := Record{StockRecord: rec}
	var inserted bool
	if err := row.Scan(&stored.ID, &stored.CreatedAt, &stored.UpdatedAt, &inserted); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation {
			return Record{}, false, ErrUnknownReference
		}
		return Record{}, false, err
	}
	return stored, inserted, nil
}

// Get fetches one record by its natural key.
func (r *Repository) Get(ctx context.Context, stationID, productID int64, stockDate time.Time) (Record, error) {
	row := r.db.QueryRow(ctx, selectColumns+`
WHERE station_id = $1 AND product_id = $2 AND stock_date = $3`,
		stationID, productID, stockDate)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Record{}, ErrNotFound
		}
		return Record{}, err
	}
	return rec, nil
}

// ListByStationAndRange returns records ordered ascending by stock date,
// which downstream aggregation relies on.
func (r *Repository) ListByStationAndRange(ctx context.Context, filter ListFilter) ([]Record, error) {
	query := selectColumns + `
WHERE station_id = $1 AND stock_date BETWEEN $2 AND $3`
	args := []any{filter.StationID, filter.From, filter.To}
	if filter.ProductID != 0 {
		query += ` AND product_id = $4`
		args = append(args, filter.ProductID)
	}
	query += `
ORDER BY stock_date, product_id`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// ListByDate returns every station's records for one calendar date, used by
// the nightly variance scan.
func (r *Repository) ListByDate(ctx context.Context, stockDate time.Time) ([]Record, error) {
	rows, err := r.db.Query(ctx, selectColumns+`
WHERE stock_date = $1
ORDER BY station_id, product_id`, stockDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

const selectColumns = `
SELECT id, station_id, product_id, stock_date, opening_stock, received, sold, closing_stock, notes, recorded_by, created_at, updated_at
FROM stock_records`

func scanRecord(row pgx.Row) (Record, error) {
	var rec Record
	err := row.Scan(
		&rec.ID, &rec.StationID, &rec.ProductID, &rec.StockDate,
		&rec.OpeningStock, &rec.Received, &rec.Sold, &rec.ClosingStock,
		&rec.Notes, &rec.RecordedBy, &rec.CreatedAt, &rec.UpdatedAt,
	)
	return rec, err
}
