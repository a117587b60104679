package reporting

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora-beauty/velora/internal/sales/orders"
)

type countingOrders struct {
	inner stubOrders
	calls int64
}

func (c *countingOrders) OrdersInWindow(ctx context.Context, from, to time.Time, status *orders.OrderStatus) ([]orders.Order, error) {
	atomic.AddInt64(&c.calls, 1)
	return c.inner.OrdersInWindow(ctx, from, to, status)
}

func newCachedService(t *testing.T, orderSrc OrderSource) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	anchor := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	engine := newTestEngine(t, orderSrc, &stubCustomers{counts: map[string]int{}}, &stubExpenses{}, &stubShards{}, anchor)
	return NewService(engine, NewCache(client, time.Minute))
}

func TestDashboardCachesSecondRequest(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	src := &countingOrders{inner: stubOrders{all: []orders.Order{
		order(1, 10, "Alice", day, orders.StatusReceived, item(ptr(7), "Rose Cream", 100, 1, 0)),
	}}}
	svc := newCachedService(t, src)

	first, err := svc.Dashboard(context.Background(), 30)
	require.NoError(t, err)
	callsAfterFirst := atomic.LoadInt64(&src.calls)

	second, err := svc.Dashboard(context.Background(), 30)
	require.NoError(t, err)

	assert.Equal(t, callsAfterFirst, atomic.LoadInt64(&src.calls), "second request must hit the cache")
	assert.Equal(t, first.Revenue.Value.String(), second.Revenue.Value.String())
	assert.Equal(t, first.Series, second.Series)
}

func TestDashboardRejectsInvalidPeriod(t *testing.T) {
	svc := newCachedService(t, &stubOrders{})
	_, err := svc.Dashboard(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestReportRejectsInvertedRange(t *testing.T) {
	svc := newCachedService(t, &stubOrders{})
	from := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	_, err := svc.Report(context.Background(), from, from.AddDate(0, 0, -1))
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestInvalidateBumpsVersion(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	src := &countingOrders{inner: stubOrders{all: []orders.Order{
		order(1, 10, "Alice", day, orders.StatusReceived, item(ptr(7), "Rose Cream", 100, 1, 0)),
	}}}
	svc := newCachedService(t, src)

	_, err := svc.Dashboard(context.Background(), 30)
	require.NoError(t, err)
	callsAfterFirst := atomic.LoadInt64(&src.calls)

	require.NoError(t, svc.Invalidate(context.Background()))

	_, err = svc.Dashboard(context.Background(), 30)
	require.NoError(t, err)
	assert.Greater(t, atomic.LoadInt64(&src.calls), callsAfterFirst, "bump must force a rebuild")
}

func TestReportRoundTripsThroughCache(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	src := &countingOrders{inner: stubOrders{all: []orders.Order{
		order(1, 10, "Alice", day, orders.StatusReceived,
			item(ptr(7), "Rose Cream", 120, 2, 0)),
	}}}
	svc := newCachedService(t, src)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	first, err := svc.Report(context.Background(), from, to)
	require.NoError(t, err)
	second, err := svc.Report(context.Background(), from, to)
	require.NoError(t, err)

	assert.True(t, second.TotalRevenue.Equal(decimal.NewFromInt(240)))
	assert.Equal(t, first.Series, second.Series)
	assert.Equal(t, first.TopProducts, second.TopProducts)
}
