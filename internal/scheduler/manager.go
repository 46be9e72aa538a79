// internal/scheduler/manager.go

package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"contentradar/internal/domain/content"
	"contentradar/internal/logging"
	"contentradar/internal/service/listening"
)

// Refresher runs refresh cycles
type Refresher interface {
	Refresh(ctx context.Context, reason content.SnapshotReason) (*listening.Result, error)
}

// RefreshJob is the cron job that triggers a scheduled refresh
type RefreshJob struct {
	refresher Refresher
	timeout   time.Duration
	logger    zerolog.Logger
}

// NewRefreshJob creates a refresh job. A zero timeout means no deadline.
func NewRefreshJob(refresher Refresher, timeout time.Duration) *RefreshJob {
	return &RefreshJob{
		refresher: refresher,
		timeout:   timeout,
		logger:    logging.With("scheduler"),
	}
}

// Run implements cron.Job
func (j *RefreshJob) Run() {
	ctx := context.Background()
	if j.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, j.timeout)
		defer cancel()
	}

	_, err := j.refresher.Refresh(ctx, content.ReasonCron)
	switch {
	case errors.Is(err, listening.ErrRefreshInProgress):
		j.logger.Info().Msg("refresh already running, skipping scheduled run")
	case err != nil:
		j.logger.Error().Err(err).Msg("scheduled refresh failed")
	}
}

// Manager owns the cron engine
type Manager struct {
	engine *cron.Cron
	job    cron.Job
	logger zerolog.Logger
}

// NewManager creates a new cron manager
func NewManager(job cron.Job) *Manager {
	return &Manager{
		engine: cron.New(),
		job:    job,
		logger: logging.With("scheduler"),
	}
}

// RegisterJobs schedules the job. An empty spec disables scheduling.
func (m *Manager) RegisterJobs(spec string) error {
	if spec == "" {
		m.logger.Info().Msg("scheduled refresh disabled")
		return nil
	}
	if _, err := m.engine.AddJob(spec, m.job); err != nil {
		return fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	m.logger.Info().Str("spec", spec).Msg("scheduled refresh registered")
	return nil
}

// Entries returns the number of registered jobs
func (m *Manager) Entries() int {
	return len(m.engine.Entries())
}

// Start starts the cron engine
func (m *Manager) Start() {
	m.engine.Start()
}

// Stop stops the engine and waits for running jobs until ctx is done
func (m *Manager) Stop(ctx context.Context) error {
	done := m.engine.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
