package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/velora-beauty/velora/internal/catalog"
	"github.com/velora-beauty/velora/internal/finance/expenses"
	"github.com/velora-beauty/velora/internal/observability"
	reportinghttp "github.com/velora-beauty/velora/internal/reporting/http"
	"github.com/velora-beauty/velora/internal/sales/customers"
	"github.com/velora-beauty/velora/internal/sales/orders"
	"github.com/velora-beauty/velora/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger *slog.Logger
	Config *Config

	CatalogHandler   *catalog.Handler
	OrdersHandler    *orders.Handler
	CustomersHandler *customers.Handler
	ExpensesHandler  *expenses.Handler
	ReportingHandler *reportinghttp.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with Velora defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	if params.CatalogHandler != nil {
		r.Route("/catalog", params.CatalogHandler.MountRoutes)
	}
	if params.OrdersHandler != nil {
		r.Route("/orders", params.OrdersHandler.MountRoutes)
	}
	if params.CustomersHandler != nil {
		r.Route("/customers", params.CustomersHandler.MountRoutes)
	}
	if params.ExpensesHandler != nil {
		r.Route("/expenses", params.ExpensesHandler.MountRoutes)
	}
	if params.ReportingHandler != nil {
		r.Route("/reports", params.ReportingHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
