package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/velora-beauty/velora/internal/jobs"
	"github.com/velora-beauty/velora/internal/reporting"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// DashboardWarmupJob pre-populates the reporting caches so the first
// dashboard request of the day does not pay the full build cost.
type DashboardWarmupJob struct {
	Reports *reporting.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewDashboardWarmupJob wires dependencies for the warmup handler.
func NewDashboardWarmupJob(reports *reporting.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *DashboardWarmupJob {
	return &DashboardWarmupJob{
		Reports: reports,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes dashboard warmup tasks.
func (j *DashboardWarmupJob) Handle(ctx context.Context, t *asynq.Task) (resultErr error) {
	if j == nil || j.Reports == nil {
		return errors.New("dashboard warmup: handler not configured")
	}
	var payload DashboardWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	periods := payload.Periods
	if len(periods) == 0 {
		periods = reporting.WarmupPeriods
	}

	tracker := j.metrics().Track(TaskDashboardWarmup)
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger()
	logger.Info("starting dashboard warmup", slog.Any("periods", periods))

	started := j.now()
	for _, days := range periods {
		// One timeout per period so a slow build cannot hold the queue.
		periodCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		_, err := j.Reports.Dashboard(periodCtx, days)
		cancel()
		if err != nil {
			resultErr = err
			logger.Error("warm dashboard", slog.Int("period_days", days), slog.Any("error", err))
			return resultErr
		}
	}

	logger.Info("completed dashboard warmup", slog.Int("periods", len(periods)), slog.Duration("duration", j.now().Sub(started)))
	return resultErr
}

func (j *DashboardWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskDashboardWarmup))
	}
	return slog.Default().With(slog.String("job", TaskDashboardWarmup))
}

func (j *DashboardWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *DashboardWarmupJob) now() time.Time {
	if j.clock != nil {
		return j.clock()
	}
	return time.Now().UTC()
}
