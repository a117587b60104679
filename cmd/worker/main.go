package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/velora-beauty/velora/internal/app"
	"github.com/velora-beauty/velora/internal/catalog"
	"github.com/velora-beauty/velora/internal/finance/expenses"
	jobmetrics "github.com/velora-beauty/velora/internal/jobs"
	"github.com/velora-beauty/velora/internal/observability"
	"github.com/velora-beauty/velora/internal/platform/cache"
	"github.com/velora-beauty/velora/internal/platform/db"
	"github.com/velora-beauty/velora/internal/reporting"
	"github.com/velora-beauty/velora/internal/sales/customers"
	"github.com/velora-beauty/velora/internal/sales/orders"
	"github.com/velora-beauty/velora/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
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

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

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
	workerMetrics := jobmetrics.NewMetrics(metrics.Registerer())

	catalogRepo := catalog.NewRepository(pool)
	orderService := orders.NewService(orders.NewRepository(pool))
	customerService := customers.NewService(customers.NewRepository(pool))
	expenseService := expenses.NewService(expenses.NewRepository(pool))

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

	warmupJob := jobs.NewDashboardWarmupJob(reportingService, logger, workerMetrics)

	warmupTask, err := jobs.NewDashboardWarmupTask(jobs.DashboardWarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskDashboardWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "15 1 * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
