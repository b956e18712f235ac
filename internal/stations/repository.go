package stations

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const uniqueViolation = "23505"

// Repository persists station and product master data in Postgres.
type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) ListStations(ctx context.Context) ([]Station, error) {
	const q = `SELECT id, code, name, address, commission_rate, created_at, updated_at FROM stations ORDER BY name`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Station
	for rows.Next() {
		var s Station
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.Address, &s.CommissionRate, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *Repository) GetStation(ctx context.Context, id int64) (Station, error) {
	const q = `SELECT id, code, name, address, commission_rate, created_at, updated_at FROM stations WHERE id = $1`
	var s Station
	err := r.pool.QueryRow(ctx, q, id).Scan(&s.ID, &s.Code, &s.Name, &s.Address, &s.CommissionRate, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Station{}, ErrNotFound
	}
	return s, err
}

func (r *Repository) CreateStation(ctx context.Context, station Station) (Station, error) {
	const q = `INSERT INTO stations (code, name, address, commission_rate, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $5) RETURNING id`
	now := time.Now().UTC()
	err := r.pool.QueryRow(ctx, q, station.Code, station.Name, station.Address, station.CommissionRate, now).Scan(&station.ID)
	if err != nil {
		return Station{}, mapUnique(err)
	}
	station.CreatedAt = now
	station.UpdatedAt = now
	return station, nil
}

func (r *Repository) UpdateStation(ctx context.Context, id int64, station Station) error {
	const q = `UPDATE stations SET code = $1, name = $2, address = $3, updated_at = $4 WHERE id = $5`
	tag, err := r.pool.Exec(ctx, q, station.Code, station.Name, station.Address, time.Now().UTC(), id)
	if err != nil {
		return mapUnique(err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SetCommissionRate updates only the dealer rate. Kept separate from the
// master data update so the rate change can be audited on its own.
func (r *Repository) SetCommissionRate(ctx context.Context, id int64, rate float64) error {
	const q = `UPDATE stations SET commission_rate = $1, updated_at = $2 WHERE id = $3`
	tag, err := r.pool.Exec(ctx, q, rate, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Repository) ListProducts(ctx context.Context) ([]Product, error) {
	const q = `SELECT id, code, name, created_at FROM products ORDER BY name`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Code, &p.Name, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repository) CreateProduct(ctx context.Context, product Product) (Product, error) {
	const q = `INSERT INTO products (code, name, created_at) VALUES ($1, $2, $3) RETURNING id`
	now := time.Now().UTC()
	err := r.pool.QueryRow(ctx, q, product.Code, product.Name, now).Scan(&product.ID)
	if err != nil {
		return Product{}, mapUnique(err)
	}
	product.CreatedAt = now
	return product, nil
}

func mapUnique(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicateCode
	}
	return err
}
