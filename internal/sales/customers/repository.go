package customers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("record not found")

type Repository interface {
	Get(ctx context.Context, id int64) (*Customer, error)
	List(ctx context.Context, limit, offset int) ([]Customer, int, error)
	Create(ctx context.Context, c Customer) (int64, error)
	CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context, id int64) (*Customer, error) {
	var (
		c     Customer
		phone pgtype.Text
	)
	err := r.pool.QueryRow(ctx, `SELECT id, name, phone, created_at FROM customers WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &phone, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("customers: get %d: %w", id, err)
	}
	if phone.Valid {
		c.Phone = &phone.String
	}
	return &c, nil
}

func (r *repository) List(ctx context.Context, limit, offset int) ([]Customer, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("customers: count: %w", err)
	}

	rows, err := r.pool.Query(ctx, `SELECT id, name, phone, created_at FROM customers ORDER BY name ASC, id ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("customers: list: %w", err)
	}
	defer rows.Close()

	var result []Customer
	for rows.Next() {
		var (
			c     Customer
			phone pgtype.Text
		)
		if err := rows.Scan(&c.ID, &c.Name, &phone, &c.CreatedAt); err != nil {
			return nil, 0, err
		}
		if phone.Valid {
			c.Phone = &phone.String
		}
		result = append(result, c)
	}
	return result, total, rows.Err()
}

func (r *repository) Create(ctx context.Context, c Customer) (int64, error) {
	var phone pgtype.Text
	if c.Phone != nil {
		phone = pgtype.Text{String: *c.Phone, Valid: true}
	}
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO customers (name, phone, created_at) VALUES ($1, $2, NOW()) RETURNING id`,
		c.Name, phone).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("customers: create: %w", err)
	}
	return id, nil
}

// CountCreatedBetween counts customers registered inside the inclusive
// [from, to] window. Feeds the new-customers KPI.
func (r *repository) CountCreatedBetween(ctx context.Context, from, to time.Time) (int, error) {
	var total int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers WHERE created_at >= $1 AND created_at <= $2`, from, to).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("customers: count window: %w", err)
	}
	return total, nil
}
