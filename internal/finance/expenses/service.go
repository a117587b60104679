package expenses

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id int64) (*Expense, error) {
	e, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("expenses: get %d: %w", id, err)
	}
	return e, nil
}

func (s *Service) ListRange(ctx context.Context, from, to time.Time) ([]Expense, error) {
	return s.repo.ListRange(ctx, from, to)
}

// TotalInWindow sums expenses inside the inclusive window.
func (s *Service) TotalInWindow(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return s.repo.SumRange(ctx, from, to)
}
