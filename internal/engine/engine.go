// Package engine implements the matching pipeline: selecting candidate
// listings, evaluating alert filters against them, and dispatching push
// notifications for the alerts that matched.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/selhaddad/sakanalert/internal/config"
	"github.com/selhaddad/sakanalert/internal/metrics"
	"github.com/selhaddad/sakanalert/internal/notify"
	"github.com/selhaddad/sakanalert/internal/store"
	domain "github.com/selhaddad/sakanalert/pkg/types"
)

// runLockName is the shared lease name; any instance holding it owns the
// current matching run.
const runLockName = "matching"

// Runner triggers a matching run. Implemented by Engine; declared as an
// interface so the scheduler and the HTTP trigger handler can be tested
// without a real engine.
type Runner interface {
	RunMatching(ctx context.Context) (*RunSummary, error)
}

// RunSummary reports the outcome of one matching run.
type RunSummary struct {
	RunID                  string
	AlertsProcessed        int
	ListingsChecked        int
	NotificationsGenerated int
	StartedAt              time.Time

	// Skipped is true when another instance already holds the run lock.
	Skipped bool
}

// Engine orchestrates matching runs against a Store and pushes notifications
// through a Notifier.
type Engine struct {
	store    store.Store
	notifier notify.Notifier
	log      *slog.Logger

	window      time.Duration
	pushTimeout time.Duration
	lockTTL     time.Duration
	limiter     *rate.Limiter

	now func() time.Time
}

// New builds an Engine from the matching configuration.
func New(s store.Store, n notify.Notifier, log *slog.Logger, cfg config.MatchingConfig) *Engine {
	return &Engine{
		store:       s,
		notifier:    n,
		log:         log,
		window:      cfg.Window,
		pushTimeout: cfg.PushTimeout,
		lockTTL:     cfg.LockTTL,
		limiter:     rate.NewLimiter(rate.Limit(cfg.RateLimit.PerSecond), cfg.RateLimit.Burst),
		now:         time.Now,
	}
}

// RunMatching executes one matching run end to end: acquire the run lock,
// record the run, fetch active alerts and candidate listings, evaluate
// filters, dispatch notifications, and close out the run record.
//
// Data-fetch failures abort the run and mark it failed. Per-alert dispatch
// failures never abort the run; they are logged and counted, and the run
// still succeeds.
func (e *Engine) RunMatching(ctx context.Context) (*RunSummary, error) {
	holder := uuid.NewString()

	acquired, err := e.store.AcquireRunLock(ctx, runLockName, holder, e.lockTTL)
	if err != nil {
		return nil, fmt.Errorf("acquiring run lock: %w", err)
	}
	if !acquired {
		e.log.Info("matching run skipped, lock held by another instance")
		metrics.MatchRunsTotal.WithLabelValues("skipped").Inc()
		return &RunSummary{Skipped: true}, nil
	}
	defer func() {
		if err := e.store.ReleaseRunLock(ctx, runLockName, holder); err != nil {
			e.log.Error("releasing run lock failed", "error", err)
		}
	}()

	start := e.now()

	runID, err := e.store.InsertMatchRun(ctx)
	if err != nil {
		return nil, fmt.Errorf("recording run start: %w", err)
	}

	e.log.Info("matching run started", "run_id", runID, "window", e.window)

	summary, err := e.execute(ctx, runID, start)
	if err != nil {
		e.failRun(ctx, runID, start, err)
		return nil, err
	}

	if err := e.completeRun(ctx, runID, start, summary); err != nil {
		return nil, err
	}

	metrics.MatchRunsTotal.WithLabelValues(domain.RunStatusSucceeded).Inc()
	metrics.MatchRunDuration.Observe(e.now().Sub(start).Seconds())

	e.log.Info("matching run completed",
		"run_id", runID,
		"alerts_processed", summary.AlertsProcessed,
		"listings_checked", summary.ListingsChecked,
		"notifications_generated", summary.NotificationsGenerated,
		"duration", e.now().Sub(start),
	)

	return summary, nil
}

// execute performs the fetch/match/dispatch core of a run.
func (e *Engine) execute(ctx context.Context, runID string, start time.Time) (*RunSummary, error) {
	cutoff := e.cutoff(ctx, start)

	alerts, err := e.store.ListActiveAlerts(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching active alerts: %w", err)
	}

	listings, err := e.store.ListListingsSince(ctx, cutoff)
	if err != nil {
		return nil, fmt.Errorf("fetching candidate listings: %w", err)
	}

	matched := MatchAlerts(alerts, listings)

	pairs := 0
	for i := range alerts {
		a := &alerts[i]
		hits, ok := matched[a.ID]
		if !ok {
			continue
		}
		pairs += len(hits)
		e.dispatch(ctx, a, hits)
	}

	metrics.AlertsMatchedTotal.Add(float64(len(matched)))
	metrics.ListingsMatchedTotal.Add(float64(pairs))

	return &RunSummary{
		RunID:                  runID,
		AlertsProcessed:        len(alerts),
		ListingsChecked:        len(listings),
		NotificationsGenerated: len(matched),
		StartedAt:              start,
	}, nil
}

// cutoff computes the candidate-listing cutoff for a run starting at start.
// Normally that is start minus the configured window; when the last
// successful run started earlier than that, the cutoff extends back to it so
// listings ingested during an outage are not silently skipped.
func (e *Engine) cutoff(ctx context.Context, start time.Time) time.Time {
	cutoff := start.Add(-e.window)

	last, err := e.store.LastSuccessfulRunStart(ctx)
	if err != nil {
		e.log.Warn("looking up last successful run failed, using configured window",
			"error", err)
		return cutoff
	}
	if last != nil && last.Before(cutoff) {
		e.log.Info("extending candidate window to cover run gap",
			"window_cutoff", cutoff,
			"last_run_start", *last,
		)
		return *last
	}
	return cutoff
}

func (e *Engine) completeRun(ctx context.Context, runID string, start time.Time, s *RunSummary) error {
	done := e.now()
	run := &domain.MatchRun{
		ID:                     runID,
		StartedAt:              start,
		CompletedAt:            &done,
		Status:                 domain.RunStatusSucceeded,
		AlertsProcessed:        s.AlertsProcessed,
		ListingsChecked:        s.ListingsChecked,
		NotificationsGenerated: s.NotificationsGenerated,
	}
	if err := e.store.CompleteMatchRun(ctx, run); err != nil {
		return fmt.Errorf("recording run completion: %w", err)
	}
	return nil
}

func (e *Engine) failRun(ctx context.Context, runID string, start time.Time, cause error) {
	metrics.MatchRunsTotal.WithLabelValues(domain.RunStatusFailed).Inc()

	done := e.now()
	run := &domain.MatchRun{
		ID:          runID,
		StartedAt:   start,
		CompletedAt: &done,
		Status:      domain.RunStatusFailed,
		ErrorText:   cause.Error(),
	}
	if err := e.store.CompleteMatchRun(ctx, run); err != nil {
		e.log.Error("recording run failure failed", "run_id", runID, "error", err)
	}
}
