package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/velora-beauty/velora/internal/app"
	"github.com/velora-beauty/velora/internal/catalog"
	"github.com/velora-beauty/velora/internal/finance/expenses"
	"github.com/velora-beauty/velora/internal/observability"
	"github.com/velora-beauty/velora/internal/platform/cache"
	"github.com/velora-beauty/velora/internal/platform/db"
	"github.com/velora-beauty/velora/internal/reporting"
	reportinghttp "github.com/velora-beauty/velora/internal/reporting/http"
	"github.com/velora-beauty/velora/internal/sales/customers"
	"github.com/velora-beauty/velora/internal/sales/orders"
	"github.com/velora-beauty/velora/jobs"
	"github.com/velora-beauty/velora/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	metrics := observability.NewMetrics()

	catalogRepo := catalog.NewRepository(dbpool)
	catalogService := catalog.NewService(catalogRepo)
	catalogHandler := catalog.NewHandler(logger, catalogService)

	orderRepo := orders.NewRepository(dbpool)
	orderService := orders.NewService(orderRepo)
	orderHandler := orders.NewHandler(logger, orderService)

	customerRepo := customers.NewRepository(dbpool)
	customerService := customers.NewService(customerRepo)
	customerHandler := customers.NewHandler(logger, customerService)

	expenseRepo := expenses.NewRepository(dbpool)
	expenseService := expenses.NewService(expenseRepo)
	expenseHandler := expenses.NewHandler(logger, expenseService)

	engine := reporting.NewEngine(
		logger,
		orderService,
		customerService,
		expenseService,
		catalogRepo,
		catalogRepo,
		metrics,
		reporting.DefaultConfig(),
	)
	reportCache := reporting.NewCache(redisClient, cfg.ReportCacheTTL)
	reportingService := reporting.NewService(engine, reportCache)
	if err := reportCache.ListenForInvalidation(ctx, ""); err != nil {
		logger.Warn("cache invalidation listener", slog.Any("error", err))
	}

	pdfClient := report.NewClient(cfg.GotenbergURL)
	reportingHandler := reportinghttp.NewHandler(logger, reportingService, pdfClient)

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		CatalogHandler:   catalogHandler,
		OrdersHandler:    orderHandler,
		CustomersHandler: customerHandler,
		ExpensesHandler:  expenseHandler,
		ReportingHandler: reportingHandler,
		JobHandler:       jobHandler,
		Metrics:          metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
