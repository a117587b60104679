package orders

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var ErrInvalidStatus = errors.New("orders: unknown order status")

const defaultListLimit = 50

// Service exposes order reads to HTTP handlers and the reporting engine.
type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Get(ctx context.Context, id int64) (*Order, error) {
	order, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("orders: get %d: %w", id, err)
	}
	return order, nil
}

func (s *Service) List(ctx context.Context, req ListOrdersRequest) ([]Order, int, error) {
	if req.Status != nil && !ValidStatuses[*req.Status] {
		return nil, 0, ErrInvalidStatus
	}
	if req.Limit <= 0 {
		req.Limit = defaultListLimit
	}
	result, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, 0, fmt.Errorf("orders: list: %w", err)
	}
	return result, total, nil
}

// OrdersInWindow returns every order with order_date inside the inclusive
// [from, to] window, optionally filtered by status, line items included.
func (s *Service) OrdersInWindow(ctx context.Context, from, to time.Time, status *OrderStatus) ([]Order, error) {
	if status != nil && !ValidStatuses[*status] {
		return nil, ErrInvalidStatus
	}
	return s.repo.ListWithItems(ctx, from, to, status)
}
