package catalog

import (
	"context"
	"fmt"
)

// Service exposes catalog read operations to the HTTP layer.
type Service struct {
	repo *Repository
}

// NewService constructs a Service.
func NewService(repo *Repository) *Service {
	return &Service{repo: repo}
}

// GroupSummary describes one shard for listing endpoints.
type GroupSummary struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// ListGroups returns the fixed group enumeration.
func (s *Service) ListGroups() []GroupSummary {
	summaries := make([]GroupSummary, 0, len(Groups))
	for _, g := range Groups {
		summaries = append(summaries, GroupSummary{Key: g.Key(), Label: g.Label()})
	}
	return summaries
}

// ListProducts returns the products of one group by key.
func (s *Service) ListProducts(ctx context.Context, key string) ([]Product, error) {
	group, ok := GroupByKey(key)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownGroup, key)
	}
	return s.repo.ListProducts(ctx, group)
}
