package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
	"udyokta.backend/pkg/logger"
)

const stateReloadJobName = "state_reload"

// StateLoader re-reads persisted application state
type StateLoader interface {
	Load(ctx context.Context) error
}

var newScheduler = func() (gocron.Scheduler, error) { return gocron.NewScheduler() }

// StateReloadJob periodically reloads the workspace so writes made by other
// instances sharing the state store become visible
type StateReloadJob struct {
	loader    StateLoader
	interval  time.Duration
	scheduler gocron.Scheduler
}

func NewStateReloadJob(loader StateLoader, interval time.Duration) *StateReloadJob {
	return &StateReloadJob{
		loader:   loader,
		interval: interval,
	}
}

// Start schedules the reload. A non-positive interval disables the job.
func (j *StateReloadJob) Start(ctx context.Context) error {
	if j.interval <= 0 {
		logger.Info(ctx, "State reload job disabled")
		return nil
	}

	s, err := newScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}
	_, err = s.NewJob(
		gocron.DurationJob(j.interval),
		gocron.NewTask(func() { j.Execute(ctx) }),
		gocron.WithName(stateReloadJobName),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		_ = s.Shutdown()
		return fmt.Errorf("failed to register job %s: %w", stateReloadJobName, err)
	}

	s.Start()
	j.scheduler = s
	logger.Info(ctx, "State reload job started", zap.Duration("interval", j.interval))
	return nil
}

// Execute runs one reload
func (j *StateReloadJob) Execute(ctx context.Context) {
	if err := j.loader.Load(ctx); err != nil {
		logger.Error(ctx, "State reload failed", zap.Error(err))
	}
}

// Stop shuts the scheduler down and waits for a running reload
func (j *StateReloadJob) Stop() {
	if j.scheduler == nil {
		return
	}
	if err := j.scheduler.Shutdown(); err != nil {
		logger.Error(context.Background(), "Failed to shutdown scheduler", zap.Error(err))
	}
	j.scheduler = nil
}
