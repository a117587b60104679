package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskDashboardWarmup pre-builds the dashboard caches for the standard
	// period lengths.
	TaskDashboardWarmup = "reports:dashboard_warmup"
)

// DashboardWarmupPayload parameterises a warmup run. An empty Periods slice
// means the standard period lengths.
type DashboardWarmupPayload struct {
	Periods []int `json:"periods,omitempty"`
}

// NewDashboardWarmupTask constructs an Asynq task.
func NewDashboardWarmupTask(payload DashboardWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDashboardWarmup, data), nil
}
