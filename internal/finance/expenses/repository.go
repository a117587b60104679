package expenses

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("record not found")

type Repository interface {
	Get(ctx context.Context, id int64) (*Expense, error)
	ListRange(ctx context.Context, from, to time.Time) ([]Expense, error)
	SumRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
	Create(ctx context.Context, e Expense) (int64, error)
}

type repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return &repository{pool: pool}
}

func (r *repository) Get(ctx context.Context, id int64) (*Expense, error) {
	row := r.pool.QueryRow(ctx, `SELECT id, name, amount::text, spent_at, notes, created_at FROM expenses WHERE id = $1`, id)
	e, err := scanExpense(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("expenses: get %d: %w", id, err)
	}
	return &e, nil
}

// ListRange returns expenses with spent_at inside the inclusive window,
// oldest first.
func (r *repository) ListRange(ctx context.Context, from, to time.Time) ([]Expense, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, amount::text, spent_at, notes, created_at
FROM expenses
WHERE spent_at >= $1 AND spent_at <= $2
ORDER BY spent_at ASC, id ASC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("expenses: list range: %w", err)
	}
	defer rows.Close()

	result := []Expense{}
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// SumRange totals expense amounts inside the inclusive window.
func (r *repository) SumRange(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	var raw string
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(amount), 0)::text FROM expenses WHERE spent_at >= $1 AND spent_at <= $2`, from, to).Scan(&raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("expenses: sum range: %w", err)
	}
	total, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("expenses: sum range parse: %w", err)
	}
	return total, nil
}

func (r *repository) Create(ctx context.Context, e Expense) (int64, error) {
	var notes pgtype.Text
	if e.Notes != nil {
		notes = pgtype.Text{String: *e.Notes, Valid: true}
	}
	var id int64
	err := r.pool.QueryRow(ctx, `INSERT INTO expenses (name, amount, spent_at, notes, created_at)
VALUES ($1, $2, $3, $4, NOW()) RETURNING id`,
		e.Name, e.Amount.String(), e.SpentAt, notes).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("expenses: create: %w", err)
	}
	return id, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanExpense(row rowScanner) (Expense, error) {
	var (
		e      Expense
		amount string
		notes  pgtype.Text
	)
	if err := row.Scan(&e.ID, &e.Name, &amount, &e.SpentAt, &notes, &e.CreatedAt); err != nil {
		return Expense{}, err
	}
	var err error
	if e.Amount, err = decimal.NewFromString(amount); err != nil {
		return Expense{}, fmt.Errorf("expenses: expense %d amount: %w", e.ID, err)
	}
	if notes.Valid {
		e.Notes = &notes.String
	}
	return e, nil
}
