package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"
)

var (
	ErrInvalidPeriod = errors.New("reporting: period must be a positive number of days")
	ErrInvalidRange  = errors.New("reporting: range end must not precede range start")
)

// Service fronts the engine with a versioned cache and request collapsing.
// Concurrent identical requests share one engine build via singleflight.
type Service struct {
	engine *Engine
	cache  *Cache
	group  singleflight.Group
}

func NewService(engine *Engine, cache *Cache) *Service {
	return &Service{engine: engine, cache: cache}
}

// Dashboard returns the dashboard summary for the trailing periodDays
// window. Results are cached per period and anchor day.
func (s *Service) Dashboard(ctx context.Context, periodDays int) (*DashboardSummary, error) {
	if periodDays <= 0 {
		return nil, ErrInvalidPeriod
	}

	anchorDay := DayKey(s.engine.now()).Format(dayFormat)
	key, err := s.cache.BuildKey(ctx, keyDashboard(periodDays, anchorDay))
	if err != nil {
		return nil, fmt.Errorf("reporting: dashboard cache key: %w", err)
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		var summary DashboardSummary
		err := s.cache.FetchJSON(ctx, key, &summary, func(ctx context.Context) (interface{}, error) {
			return s.engine.Dashboard(ctx, periodDays)
		})
		if err != nil {
			return nil, err
		}
		return &summary, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*DashboardSummary), nil
}

// Report returns the profitability report for the inclusive [from, to]
// range.
func (s *Service) Report(ctx context.Context, from, to time.Time) (*Report, error) {
	fromDay, toDay := DayKey(from), DayKey(to)
	if toDay.Before(fromDay) {
		return nil, ErrInvalidRange
	}

	key, err := s.cache.BuildKey(ctx, keyReport(fromDay.Format(dayFormat), toDay.Format(dayFormat)))
	if err != nil {
		return nil, fmt.Errorf("reporting: report cache key: %w", err)
	}

	result, err, _ := s.group.Do(key, func() (interface{}, error) {
		var report Report
		err := s.cache.FetchJSON(ctx, key, &report, func(ctx context.Context) (interface{}, error) {
			return s.engine.BuildReport(ctx, fromDay, toDay)
		})
		if err != nil {
			return nil, err
		}
		return &report, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(*Report), nil
}

// Invalidate bumps the cache version after order or expense writes.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

// WarmupPeriods are the dashboard windows the background warmer pre-builds.
var WarmupPeriods = []int{7, 30, 90}

// Warm pre-populates the dashboard cache for the standard period lengths.
func (s *Service) Warm(ctx context.Context) error {
	var firstErr error
	for _, days := range WarmupPeriods {
		if _, err := s.Dashboard(ctx, days); err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("reporting: warm %d-day dashboard: %w", days, err)
			}
		}
	}
	return firstErr
}
