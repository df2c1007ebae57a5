package engine

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler triggers matching runs on a fixed interval using cron.
type Scheduler struct {
	runner   Runner
	log      *slog.Logger
	interval time.Duration
	cron     *cron.Cron
}

// NewScheduler creates a scheduler that invokes the runner every interval.
func NewScheduler(r Runner, interval time.Duration, log *slog.Logger) *Scheduler {
	return &Scheduler{
		runner:   r,
		log:      log,
		interval: interval,
		cron:     cron.New(),
	}
}

// Start registers the matching job and starts the cron loop. The first run
// fires one interval after Start, not immediately.
func (s *Scheduler) Start() error {
	spec := "@every " + s.interval.String()

	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return err
	}

	s.cron.Start()
	s.log.Info("scheduler started", "interval", s.interval)

	return nil
}

// Stop stops the cron loop and returns a context that is done when any
// in-flight run finishes.
func (s *Scheduler) Stop() context.Context {
	s.log.Info("scheduler stopping")
	return s.cron.Stop()
}

func (s *Scheduler) runOnce() {
	summary, err := s.runner.RunMatching(context.Background())
	if err != nil {
		s.log.Error("scheduled matching run failed", "error", err)
		return
	}
	if summary.Skipped {
		return
	}

	s.log.Info("scheduled matching run finished",
		"run_id", summary.RunID,
		"alerts_processed", summary.AlertsProcessed,
		"notifications_generated", summary.NotificationsGenerated,
	)
}
