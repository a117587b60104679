package reporting

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/velora-beauty/velora/internal/catalog"
	"github.com/velora-beauty/velora/internal/finance/expenses"
	"github.com/velora-beauty/velora/internal/sales/orders"
)

// OrderSource fetches every order in the inclusive window, line items and
// customer display names included. A nil status means all statuses.
type OrderSource interface {
	OrdersInWindow(ctx context.Context, from, to time.Time, status *orders.OrderStatus) ([]orders.Order, error)
}

// CustomerSource counts customers registered inside the inclusive window.
type CustomerSource interface {
	NewInWindow(ctx context.Context, from, to time.Time) (int, error)
}

// ExpenseSource reads the flat expense ledger for the inclusive window.
type ExpenseSource interface {
	ListRange(ctx context.Context, from, to time.Time) ([]expenses.Expense, error)
	TotalInWindow(ctx context.Context, from, to time.Time) (decimal.Decimal, error)
}

// BuildObserver records how long a full report build took.
type BuildObserver interface {
	ObserveReportBuild(kind string, elapsed time.Duration)
}

// Config names the aggregation policy constants so the confirmed-versus-all
// asymmetry is explicit instead of buried in literals.
type Config struct {
	// ConfirmedStatus gates which orders count toward recognized revenue
	// and profit. Orders of every status still feed the activity chart.
	ConfirmedStatus orders.OrderStatus
	DashboardTopN   int
	ReportTopN      int
}

// DefaultConfig is the production aggregation policy.
func DefaultConfig() Config {
	return Config{
		ConfirmedStatus: orders.StatusReceived,
		DashboardTopN:   5,
		ReportTopN:      10,
	}
}

// Engine builds dashboard summaries and range reports. It holds no state
// across invocations; the shard index, windows, and aggregates are all
// rebuilt per call.
type Engine struct {
	logger    *slog.Logger
	orderSrc  OrderSource
	customers CustomerSource
	expenses  ExpenseSource
	shards    catalog.ShardReader
	namer     catalog.ProductNamer
	observer  BuildObserver
	cfg       Config
	now       func() time.Time
}

func NewEngine(
	logger *slog.Logger,
	orderSrc OrderSource,
	customers CustomerSource,
	expenseSrc ExpenseSource,
	shards catalog.ShardReader,
	namer catalog.ProductNamer,
	observer BuildObserver,
	cfg Config,
) *Engine {
	return &Engine{
		logger:    logger,
		orderSrc:  orderSrc,
		customers: customers,
		expenses:  expenseSrc,
		shards:    shards,
		namer:     namer,
		observer:  observer,
		cfg:       cfg,
		now:       time.Now,
	}
}

// KPI is a monetary metric with its period-over-period delta.
type KPI struct {
	Value         decimal.Decimal `json:"value"`
	ChangePercent float64         `json:"change_percent"`
}

// CountKPI is a counter metric with its period-over-period delta.
type CountKPI struct {
	Value         int     `json:"value"`
	ChangePercent float64 `json:"change_percent"`
}

// RecentOrder is one row of the dashboard's latest-orders list.
type RecentOrder struct {
	ID           int64              `json:"id"`
	CustomerName string             `json:"customer_name"`
	OrderDate    time.Time          `json:"order_date"`
	Status       orders.OrderStatus `json:"status"`
	TotalAmount  decimal.Decimal    `json:"total_amount"`
}

// DashboardSummary is the dashboard payload for one period length.
type DashboardSummary struct {
	PeriodDays   int           `json:"period_days"`
	Window       Window        `json:"window"`
	Revenue      KPI           `json:"revenue"`
	Profit       KPI           `json:"profit"`
	Orders       CountKPI      `json:"orders"`
	NewCustomers CountKPI      `json:"new_customers"`
	Series       []SeriesPoint `json:"series"`
	RecentOrders []RecentOrder `json:"recent_orders"`
	TopProducts  []RankEntry   `json:"top_products"`
}

// Report is the explicit-range profitability report.
type Report struct {
	Window         Window             `json:"window"`
	TotalRevenue   decimal.Decimal    `json:"total_revenue"`
	GrossProfit    decimal.Decimal    `json:"gross_profit"`
	TotalExpenses  decimal.Decimal    `json:"total_expenses"`
	NetProfit      decimal.Decimal    `json:"net_profit"`
	TotalOrders    int                `json:"total_orders"`
	DistinctBuyers int                `json:"distinct_buyers"`
	Series         []SeriesPoint      `json:"series"`
	TopProducts    []RankEntry        `json:"top_products"`
	TopCustomers   []RankEntry        `json:"top_customers"`
	RevenueByGroup []RankEntry        `json:"revenue_by_group"`
	Expenses       []expenses.Expense `json:"expenses"`
}

// Dashboard builds the KPI dashboard for the last periodDays days. KPI
// scalars cover confirmed orders only; the daily series covers every status
// so the chart reflects overall pipeline activity. Both behaviors are
// intentional product policy.
func (e *Engine) Dashboard(ctx context.Context, periodDays int) (*DashboardSummary, error) {
	started := e.now()
	current, previous := ResolvePeriod(periodDays, e.now())

	var (
		curOrders, prevOrders []orders.Order
		curNew, prevNew       int
		index                 catalog.ShardIndex
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		curOrders, err = e.orderSrc.OrdersInWindow(gctx, current.From, EndOfDay(current.To), nil)
		if err != nil {
			return fmt.Errorf("reporting: fetch current orders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		prevOrders, err = e.orderSrc.OrdersInWindow(gctx, previous.From, EndOfDay(previous.To), nil)
		if err != nil {
			return fmt.Errorf("reporting: fetch previous orders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		curNew, err = e.customers.NewInWindow(gctx, current.From, EndOfDay(current.To))
		if err != nil {
			return fmt.Errorf("reporting: count current customers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		prevNew, err = e.customers.NewInWindow(gctx, previous.From, EndOfDay(previous.To))
		if err != nil {
			return fmt.Errorf("reporting: count previous customers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		index = catalog.BuildShardIndex(gctx, e.shards, e.logger)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	curConfirmed := e.filterConfirmed(curOrders)
	prevConfirmed := e.filterConfirmed(prevOrders)

	curAgg := Accumulate(curConfirmed, index)
	prevAgg := Accumulate(prevConfirmed, index)
	chartAgg := Accumulate(curOrders, index)

	topProducts := TopN(curAgg.Products, e.cfg.DashboardTopN)
	e.resolveProductNames(ctx, topProducts)

	summary := &DashboardSummary{
		PeriodDays: periodDays,
		Window:     current,
		Revenue: KPI{
			Value:         curAgg.Revenue,
			ChangePercent: ChangePercent(curAgg.Revenue.InexactFloat64(), prevAgg.Revenue.InexactFloat64()),
		},
		Profit: KPI{
			Value:         curAgg.Profit,
			ChangePercent: ChangePercent(curAgg.Profit.InexactFloat64(), prevAgg.Profit.InexactFloat64()),
		},
		Orders: CountKPI{
			Value:         curAgg.OrderCount,
			ChangePercent: ChangePercent(float64(curAgg.OrderCount), float64(prevAgg.OrderCount)),
		},
		NewCustomers: CountKPI{
			Value:         curNew,
			ChangePercent: ChangePercent(float64(curNew), float64(prevNew)),
		},
		Series:       Densify(chartAgg.Daily, current.From, current.To),
		RecentOrders: recentOrders(curOrders, e.cfg.DashboardTopN),
		TopProducts:  topProducts,
	}

	e.observe("dashboard", started)
	return summary, nil
}

// BuildReport builds the profitability report for the inclusive [from, to]
// range. Totals and rankings cover confirmed orders; the series covers all
// statuses; expenses are summed independently over the same range.
func (e *Engine) BuildReport(ctx context.Context, from, to time.Time) (*Report, error) {
	started := e.now()
	window := Window{From: DayKey(from), To: DayKey(to)}

	var (
		windowOrders []orders.Order
		expenseRows  []expenses.Expense
		expenseTotal decimal.Decimal
		index        catalog.ShardIndex
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		windowOrders, err = e.orderSrc.OrdersInWindow(gctx, window.From, EndOfDay(window.To), nil)
		if err != nil {
			return fmt.Errorf("reporting: fetch orders: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		expenseRows, err = e.expenses.ListRange(gctx, window.From, EndOfDay(window.To))
		if err != nil {
			return fmt.Errorf("reporting: fetch expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		expenseTotal, err = e.expenses.TotalInWindow(gctx, window.From, EndOfDay(window.To))
		if err != nil {
			return fmt.Errorf("reporting: sum expenses: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		index = catalog.BuildShardIndex(gctx, e.shards, e.logger)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	confirmed := e.filterConfirmed(windowOrders)
	agg := Accumulate(confirmed, index)
	chartAgg := Accumulate(windowOrders, index)

	topProducts := TopN(agg.Products, e.cfg.ReportTopN)
	e.resolveProductNames(ctx, topProducts)

	report := &Report{
		Window:         window,
		TotalRevenue:   agg.Revenue,
		GrossProfit:    agg.Profit,
		TotalExpenses:  expenseTotal,
		NetProfit:      agg.Profit.Sub(expenseTotal),
		TotalOrders:    agg.OrderCount,
		DistinctBuyers: agg.DistinctBuyers,
		Series:         Densify(chartAgg.Daily, window.From, window.To),
		TopProducts:    topProducts,
		TopCustomers:   TopN(agg.Customers, e.cfg.ReportTopN),
		RevenueByGroup: TopN(agg.Groups, len(agg.Groups)),
		Expenses:       expenseRows,
	}

	e.observe("report", started)
	return report, nil
}

func (e *Engine) filterConfirmed(set []orders.Order) []orders.Order {
	confirmed := make([]orders.Order, 0, len(set))
	for _, o := range set {
		if o.Status == e.cfg.ConfirmedStatus {
			confirmed = append(confirmed, o)
		}
	}
	return confirmed
}

// resolveProductNames swaps snapshot names for current catalog names where
// the product still exists. Snapshot names stay for deleted products. A
// lookup failure is non-fatal: rankings fall back to snapshot names.
func (e *Engine) resolveProductNames(ctx context.Context, entries []RankEntry) {
	if e.namer == nil {
		return
	}
	ids := make([]int64, 0, len(entries))
	for _, entry := range entries {
		if entry.ProductID != nil {
			ids = append(ids, *entry.ProductID)
		}
	}
	if len(ids) == 0 {
		return
	}
	names, err := e.namer.ProductNames(ctx, ids)
	if err != nil {
		e.logger.Warn("product name lookup failed", "error", err)
		return
	}
	for i := range entries {
		if entries[i].ProductID == nil {
			continue
		}
		if name, ok := names[*entries[i].ProductID]; ok {
			entries[i].Label = name
		}
	}
}

func recentOrders(set []orders.Order, n int) []RecentOrder {
	sorted := make([]orders.Order, len(set))
	copy(sorted, set)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].OrderDate.Equal(sorted[j].OrderDate) {
			return sorted[i].ID > sorted[j].ID
		}
		return sorted[i].OrderDate.After(sorted[j].OrderDate)
	})
	if len(sorted) > n {
		sorted = sorted[:n]
	}
	out := make([]RecentOrder, 0, len(sorted))
	for _, o := range sorted {
		out = append(out, RecentOrder{
			ID:           o.ID,
			CustomerName: o.CustomerName,
			OrderDate:    o.OrderDate,
			Status:       o.Status,
			TotalAmount:  o.TotalAmount,
		})
	}
	return out
}

func (e *Engine) observe(kind string, started time.Time) {
	if e.observer != nil {
		e.observer.ObserveReportBuild(kind, e.now().Sub(started))
	}
}
