package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velora-beauty/velora/internal/catalog"
	"github.com/velora-beauty/velora/internal/finance/expenses"
	"github.com/velora-beauty/velora/internal/reporting"
	"github.com/velora-beauty/velora/internal/sales/orders"
	_ "github.com/velora-beauty/velora/testing"
)

type fixedOrders struct {
	all []orders.Order
}

func (s *fixedOrders) OrdersInWindow(_ context.Context, from, to time.Time, status *orders.OrderStatus) ([]orders.Order, error) {
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

type fixedCustomers struct{}

func (fixedCustomers) NewInWindow(context.Context, time.Time, time.Time) (int, error) { return 2, nil }

type fixedExpenses struct{}

func (fixedExpenses) ListRange(context.Context, time.Time, time.Time) ([]expenses.Expense, error) {
	return nil, nil
}

func (fixedExpenses) TotalInWindow(context.Context, time.Time, time.Time) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type emptyShards struct{}

func (emptyShards) ShardIDs(context.Context, catalog.Group) ([]int64, error) { return nil, nil }

func newTestRouter(t *testing.T) chi.Router {
	t.Helper()
	now := time.Now().UTC()
	src := &fixedOrders{all: []orders.Order{{
		ID:           1,
		CustomerID:   10,
		CustomerName: "Alice",
		OrderDate:    now.AddDate(0, 0, -2),
		Status:       orders.StatusReceived,
		TotalAmount:  decimal.NewFromInt(200),
		Items: []orders.OrderItem{{
			ProductName: "Rose Cream",
			UnitPrice:   decimal.NewFromInt(100),
			Quantity:    2,
		}},
	}}}

	engine := reporting.NewEngine(slog.Default(), src, fixedCustomers{}, fixedExpenses{}, emptyShards{}, nil, nil, reporting.DefaultConfig())
	service := reporting.NewService(engine, nil)
	handler := NewHandler(slog.Default(), service, nil)

	r := chi.NewRouter()
	r.Route("/reports", handler.MountRoutes)
	return r
}

func TestDashboardEndpoint(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/reports/dashboard?period_days=7", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	var payload struct {
		PeriodDays int `json:"period_days"`
		Revenue    struct {
			Value string `json:"value"`
		} `json:"revenue"`
		Series []struct {
			Date string `json:"date"`
		} `json:"series"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, 7, payload.PeriodDays)
	assert.Equal(t, "200", payload.Revenue.Value)
	assert.Len(t, payload.Series, 8)
}

func TestDashboardRejectsBadPeriod(t *testing.T) {
	router := newTestRouter(t)

	for _, q := range []string{"period_days=abc", "period_days=0", "period_days=9999"} {
		req := httptest.NewRequest("GET", "/reports/dashboard?"+q, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, 400, rec.Code, q)
	}
}

func TestSummaryEndpointValidatesRange(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/reports/summary?from=2026-03-10&to=2026-03-01", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, 400, rec.Code)

	req = httptest.NewRequest("GET", "/reports/summary?from=bogus&to=2026-03-01", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, 400, rec.Code)
}

func TestSummaryEndpoint(t *testing.T) {
	router := newTestRouter(t)
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -5).Format("2006-01-02")
	to := now.Format("2006-01-02")

	req := httptest.NewRequest("GET", "/reports/summary?from="+from+"&to="+to, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	var payload struct {
		TotalRevenue string `json:"total_revenue"`
		NetProfit    string `json:"net_profit"`
		TotalOrders  int    `json:"total_orders"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.Equal(t, "200", payload.TotalRevenue)
	assert.Equal(t, 1, payload.TotalOrders)
}

func TestExportCSVEndpoint(t *testing.T) {
	router := newTestRouter(t)
	now := time.Now().UTC()
	from := now.AddDate(0, 0, -5).Format("2006-01-02")
	to := now.Format("2006-01-02")

	req := httptest.NewRequest("GET", "/reports/summary/export.csv?from="+from+"&to="+to, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "attachment")

	body := rec.Body.String()
	assert.True(t, strings.HasPrefix(body, "# Report: Profitability"))
	assert.Contains(t, body, "Total Revenue,200.00")
	assert.Contains(t, body, "Net Profit,200.00")
}

func TestExportPDFWithoutRenderer(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest("GET", "/reports/summary/export.pdf?from=2026-03-01&to=2026-03-10", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, 503, rec.Code)
}
