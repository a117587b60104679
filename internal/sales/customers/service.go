package customers

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const defaultListLimit = 50

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id int64) (*Customer, error) {
	c, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("customers: get %d: %w", id, err)
	}
	return c, nil
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]Customer, int, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return s.repo.List(ctx, limit, offset)
}

// NewInWindow counts customers registered inside the inclusive window.
func (s *Service) NewInWindow(ctx context.Context, from, to time.Time) (int, error) {
	return s.repo.CountCreatedBetween(ctx, from, to)
}
