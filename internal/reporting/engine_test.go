package reporting

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora-beauty/velora/internal/catalog"
	"github.com/velora-beauty/velora/internal/finance/expenses"
	"github.com/velora-beauty/velora/internal/sales/orders"
)

type stubOrders struct {
	all []orders.Order
	err error
}

func (s *stubOrders) OrdersInWindow(_ context.Context, from, to time.Time, status *orders.OrderStatus) ([]orders.Order, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []orders.Order
	for _, o := range s.all {
		if o.OrderDate.Before(from) || o.OrderDate.After(to) {
			continue
		}
		if status != nil && o.Status != *status {
			continue
		}
		out = append(out, o)
	}
	return out, nil
}

type stubCustomers struct {
	counts map[string]int
}

func (s *stubCustomers) NewInWindow(_ context.Context, from, _ time.Time) (int, error) {
	return s.counts[from.Format("2006-01-02")], nil
}

type stubExpenses struct {
	rows []expenses.Expense
}

func (s *stubExpenses) ListRange(_ context.Context, from, to time.Time) ([]expenses.Expense, error) {
	var out []expenses.Expense
	for _, e := range s.rows {
		if e.SpentAt.Before(from) || e.SpentAt.After(to) {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *stubExpenses) TotalInWindow(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	rows, _ := s.ListRange(ctx, from, to)
	total := decimal.Zero
	for _, e := range rows {
		total = total.Add(e.Amount)
	}
	return total, nil
}

type stubShards struct {
	ids map[string][]int64
}

func (s *stubShards) ShardIDs(_ context.Context, group catalog.Group) ([]int64, error) {
	return s.ids[group.Key()], nil
}

func newTestEngine(t *testing.T, orderSrc OrderSource, customerSrc CustomerSource, expenseSrc ExpenseSource, shards catalog.ShardReader, anchor time.Time) *Engine {
	t.Helper()
	engine := NewEngine(
		slog.Default(),
		orderSrc,
		customerSrc,
		expenseSrc,
		shards,
		nil,
		nil,
		DefaultConfig(),
	)
	engine.now = func() time.Time { return anchor }
	return engine
}

func ptr(v int64) *int64 { return &v }

func item(productID *int64, name string, price, qty, discount int64) orders.OrderItem {
	return orders.OrderItem{
		ProductID:       productID,
		ProductName:     name,
		UnitPrice:       decimal.NewFromInt(price),
		Quantity:        int(qty),
		DiscountPercent: decimal.NewFromInt(discount),
	}
}

func order(id, customerID int64, customerName string, date time.Time, status orders.OrderStatus, items ...orders.OrderItem) orders.Order {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(orders.LineRevenue(it))
	}
	return orders.Order{
		ID:           id,
		CustomerID:   customerID,
		CustomerName: customerName,
		OrderDate:    date,
		Status:       status,
		TotalAmount:  total,
		Items:        items,
	}
}

func TestDashboardConfirmedKPIVersusAllStatusChart(t *testing.T) {
	anchor := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	day := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	orderSrc := &stubOrders{all: []orders.Order{
		order(1, 10, "Alice", day, orders.StatusReceived, item(ptr(7), "Rose Cream", 100, 2, 0)),
		// pending order must stay out of KPI revenue but on the chart
		order(2, 11, "Bob", day, orders.StatusOrdered, item(ptr(8), "Night Serum", 1000, 1, 0)),
	}}
	shards := &stubShards{ids: map[string][]int64{"creams": {7}, "serums": {8}}}

	engine := newTestEngine(t, orderSrc, &stubCustomers{counts: map[string]int{}}, &stubExpenses{}, shards, anchor)

	summary, err := engine.Dashboard(context.Background(), 30)
	require.NoError(t, err)

	assert.Equal(t, "200", summary.Revenue.Value.String())
	assert.Equal(t, 1, summary.Orders.Value)

	var chartDay SeriesPoint
	for _, p := range summary.Series {
		if p.Date == "2026-03-10" {
			chartDay = p
		}
	}
	assert.Equal(t, "1200", chartDay.Sales.String(), "chart must include non-confirmed activity")

	// 30-day window, inclusive bounds
	require.Len(t, summary.Series, 31)
}

func TestDashboardChangePercents(t *testing.T) {
	anchor := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	currentDay := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	previousDay := time.Date(2026, 2, 15, 0, 0, 0, 0, time.UTC)

	orderSrc := &stubOrders{all: []orders.Order{
		order(1, 10, "Alice", currentDay, orders.StatusReceived, item(ptr(7), "Rose Cream", 150, 1, 0)),
		order(2, 11, "Bob", previousDay, orders.StatusReceived, item(ptr(7), "Rose Cream", 100, 1, 0)),
	}}
	current, previous := ResolvePeriod(30, anchor)
	customerSrc := &stubCustomers{counts: map[string]int{
		current.From.Format("2006-01-02"):  3,
		previous.From.Format("2006-01-02"): 0,
	}}

	engine := newTestEngine(t, orderSrc, customerSrc, &stubExpenses{}, &stubShards{}, anchor)

	summary, err := engine.Dashboard(context.Background(), 30)
	require.NoError(t, err)

	assert.InDelta(t, 50, summary.Revenue.ChangePercent, 1e-9)
	assert.Equal(t, 3, summary.NewCustomers.Value)
	assert.InDelta(t, 100, summary.NewCustomers.ChangePercent, 1e-9, "appearing from nothing reads as +100%")
}

func TestDashboardRecentOrdersAndTopProductsCapped(t *testing.T) {
	anchor := time.Date(2026, 5, 31, 0, 0, 0, 0, time.UTC)
	orderSrc := &stubOrders{}
	for i := int64(1); i <= 8; i++ {
		day := time.Date(2026, 5, int(i), 0, 0, 0, 0, time.UTC)
		orderSrc.all = append(orderSrc.all, order(i, 100+i, "Customer", day, orders.StatusReceived,
			item(ptr(i), "Product", 100*i, 1, 0)))
	}

	engine := newTestEngine(t, orderSrc, &stubCustomers{counts: map[string]int{}}, &stubExpenses{}, &stubShards{}, anchor)

	summary, err := engine.Dashboard(context.Background(), 30)
	require.NoError(t, err)

	require.Len(t, summary.RecentOrders, 5)
	assert.Equal(t, int64(8), summary.RecentOrders[0].ID, "newest order first")

	require.Len(t, summary.TopProducts, 5)
	assert.Equal(t, "800", summary.TopProducts[0].Amount.String())
	for i := 1; i < len(summary.TopProducts); i++ {
		assert.True(t, summary.TopProducts[i].Amount.LessThanOrEqual(summary.TopProducts[i-1].Amount))
	}
}

func TestBuildReportGroupBreakdownSumsToTotalRevenue(t *testing.T) {
	anchor := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	day := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)

	orderSrc := &stubOrders{all: []orders.Order{
		order(1, 10, "Alice", day, orders.StatusReceived,
			item(ptr(7), "Rose Cream", 100, 2, 10),
			item(ptr(8), "Night Serum", 250, 1, 0),
			item(nil, "Discontinued Mask", 40, 1, 0), // deleted product → Other
		),
	}}
	shards := &stubShards{ids: map[string][]int64{"creams": {7}, "serums": {8}}}

	engine := newTestEngine(t, orderSrc, &stubCustomers{counts: map[string]int{}}, &stubExpenses{}, shards, anchor)

	rep, err := engine.BuildReport(context.Background(), time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	groupSum := decimal.Zero
	var hasOther bool
	for _, g := range rep.RevenueByGroup {
		groupSum = groupSum.Add(g.Amount)
		if g.Label == "Other" {
			hasOther = true
			assert.Equal(t, "40", g.Amount.String())
		}
	}
	assert.True(t, hasOther)
	assert.True(t, groupSum.Equal(rep.TotalRevenue), "group breakdown must sum to total revenue")
}

func TestBuildReportNetProfitSubtractsExpenses(t *testing.T) {
	anchor := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	day := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)

	orderSrc := &stubOrders{all: []orders.Order{
		order(1, 10, "Alice", day, orders.StatusReceived, item(ptr(7), "Rose Cream", 500, 1, 0)),
	}}
	expenseSrc := &stubExpenses{rows: []expenses.Expense{
		{ID: 1, Name: "Rent", Amount: decimal.NewFromInt(120), SpentAt: day},
		{ID: 2, Name: "Ads", Amount: decimal.NewFromInt(30), SpentAt: day.AddDate(0, 0, 3)},
	}}

	engine := newTestEngine(t, orderSrc, &stubCustomers{counts: map[string]int{}}, expenseSrc, &stubShards{}, anchor)

	rep, err := engine.BuildReport(context.Background(), time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	assert.Equal(t, "150", rep.TotalExpenses.String())
	assert.Equal(t, "350", rep.NetProfit.String())
	require.Len(t, rep.Expenses, 2)
}

func TestBuildReportDistinctBuyersCountsConfirmedOnly(t *testing.T) {
	anchor := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	day := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)

	orderSrc := &stubOrders{all: []orders.Order{
		order(1, 10, "Alice", day, orders.StatusReceived, item(ptr(7), "Rose Cream", 100, 1, 0)),
		order(2, 10, "Alice", day.AddDate(0, 0, 2), orders.StatusReceived, item(ptr(7), "Rose Cream", 100, 1, 0)),
		order(3, 11, "Bohdana", day.AddDate(0, 0, 4), orders.StatusReceived, item(ptr(8), "Night Serum", 250, 1, 0)),
		order(4, 12, "Chrystyna", day.AddDate(0, 0, 5), orders.StatusOrdered, item(ptr(8), "Night Serum", 250, 1, 0)),
	}}

	engine := newTestEngine(t, orderSrc, &stubCustomers{counts: map[string]int{}}, &stubExpenses{}, &stubShards{}, anchor)

	rep, err := engine.BuildReport(context.Background(), time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// Alice ordered twice; the pending buyer does not count.
	assert.Equal(t, 2, rep.DistinctBuyers)
	assert.Equal(t, 3, rep.TotalOrders)
}

func TestBuildReportEmptyRange(t *testing.T) {
	anchor := time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)
	engine := newTestEngine(t, &stubOrders{}, &stubCustomers{counts: map[string]int{}}, &stubExpenses{}, &stubShards{}, anchor)

	from := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	rep, err := engine.BuildReport(context.Background(), from, to)
	require.NoError(t, err)

	assert.True(t, rep.TotalRevenue.IsZero())
	assert.True(t, rep.NetProfit.IsZero())
	assert.Zero(t, rep.TotalOrders)
	assert.Zero(t, rep.DistinctBuyers)
	assert.Empty(t, rep.TopProducts)
	assert.Empty(t, rep.TopCustomers)
	require.Len(t, rep.Series, 10)
	for _, p := range rep.Series {
		assert.True(t, p.Sales.IsZero())
	}
}

func TestTopNStableOnTies(t *testing.T) {
	entries := []RankEntry{
		{Key: "a", Label: "A", Amount: decimal.NewFromInt(100)},
		{Key: "b", Label: "B", Amount: decimal.NewFromInt(300)},
		{Key: "c", Label: "C", Amount: decimal.NewFromInt(100)},
		{Key: "d", Label: "D", Amount: decimal.NewFromInt(200)},
	}

	top := TopN(entries, 3)
	require.Len(t, top, 3)
	assert.Equal(t, "B", top[0].Label)
	assert.Equal(t, "D", top[1].Label)
	assert.Equal(t, "A", top[2].Label, "tie resolves to first-seen entry")

	again := TopN(entries, 3)
	assert.Equal(t, top, again)
}
