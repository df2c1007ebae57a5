package engine

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/selhaddad/sakanalert/internal/config"
	"github.com/selhaddad/sakanalert/pkg/logger"
	domain "github.com/selhaddad/sakanalert/pkg/types"
)

var testNow = time.Date(2026, 8, 29, 9, 0, 0, 0, time.UTC)

func newTestEngine(s *mockStore, n *mockNotifier) *Engine {
	e := New(s, n, logger.NewWithWriter(io.Discard, "error", "text"), config.MatchingConfig{
		Window:      24 * time.Hour,
		PushTimeout: time.Second,
		LockTTL:     time.Minute,
		RateLimit:   config.RateLimitConfig{PerSecond: 1000, Burst: 1000},
	})
	e.now = func() time.Time { return testNow }
	return e
}

func TestRunMatching_Success(t *testing.T) {
	t.Parallel()

	s := newMockStore()
	a1 := testAlert("a1", "casablanca", true)
	a1.PushToken = "tok-1"
	a2 := testAlert("a2", "agadir", true)
	a2.PushToken = "tok-2"
	s.activeAlerts = []domain.Alert{a1, a2}
	s.listings = []domain.Listing{
		testListing("l1", "Casablanca", 900_000),
		testListing("l2", "Casablanca", 1_100_000),
		testListing("l3", "Rabat", 400_000),
	}
	n := newMockNotifier()

	summary, err := newTestEngine(s, n).RunMatching(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "run-1", summary.RunID)
	assert.Equal(t, 2, summary.AlertsProcessed)
	assert.Equal(t, 3, summary.ListingsChecked)
	assert.Equal(t, 1, summary.NotificationsGenerated)
	assert.False(t, summary.Skipped)

	// One push for the casablanca alert, none for agadir.
	require.Len(t, n.sent, 1)
	assert.Equal(t, "tok-1", n.sent[0].Token)
	assert.Equal(t, "a1", n.sent[0].Data["alert_id"])
	assert.Equal(t, "2", n.sent[0].Data["match_count"])

	// Bookkeeping only for the alert that matched.
	require.Len(t, s.notifUpdates, 1)
	assert.Equal(t, "a1", s.notifUpdates[0].alertID)
	assert.Equal(t, 2, s.notifUpdates[0].count)

	require.Len(t, s.completedRuns, 1)
	assert.Equal(t, domain.RunStatusSucceeded, s.completedRuns[0].Status)
	assert.Equal(t, 2, s.completedRuns[0].AlertsProcessed)
	assert.Equal(t, 3, s.completedRuns[0].ListingsChecked)
	assert.Equal(t, 1, s.completedRuns[0].NotificationsGenerated)

	assert.Equal(t, []string{"matching"}, s.releasedLocks)
}

func TestRunMatching_LockHeldSkips(t *testing.T) {
	t.Parallel()

	s := newMockStore()
	s.lockHeld = true

	summary, err := newTestEngine(s, newMockNotifier()).RunMatching(context.Background())
	require.NoError(t, err)

	assert.True(t, summary.Skipped)
	assert.Zero(t, s.insertedRuns)
	assert.Empty(t, s.releasedLocks)
}

func TestRunMatching_AlertFetchFailureFailsRun(t *testing.T) {
	t.Parallel()

	s := newMockStore()
	s.alertsErr = errors.New("connection reset")

	_, err := newTestEngine(s, newMockNotifier()).RunMatching(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fetching active alerts")

	require.Len(t, s.completedRuns, 1)
	assert.Equal(t, domain.RunStatusFailed, s.completedRuns[0].Status)
	assert.Contains(t, s.completedRuns[0].ErrorText, "connection reset")

	// Lock is released even on failure.
	assert.Equal(t, []string{"matching"}, s.releasedLocks)
}

func TestRunMatching_ListingFetchFailureFailsRun(t *testing.T) {
	t.Parallel()

	s := newMockStore()
	s.listingsErr = errors.New("timeout")

	_, err := newTestEngine(s, newMockNotifier()).RunMatching(context.Background())
	require.Error(t, err)

	require.Len(t, s.completedRuns, 1)
	assert.Equal(t, domain.RunStatusFailed, s.completedRuns[0].Status)
}

func TestRunMatching_CutoffUsesConfiguredWindow(t *testing.T) {
	t.Parallel()

	s := newMockStore()

	_, err := newTestEngine(s, newMockNotifier()).RunMatching(context.Background())
	require.NoError(t, err)

	require.Len(t, s.sinceCutoffs, 1)
	assert.Equal(t, testNow.Add(-24*time.Hour), s.sinceCutoffs[0])
}

func TestRunMatching_CutoffExtendsOverRunGap(t *testing.T) {
	t.Parallel()

	s := newMockStore()
	lastRun := testNow.Add(-72 * time.Hour)
	s.lastSuccess = &lastRun

	_, err := newTestEngine(s, newMockNotifier()).RunMatching(context.Background())
	require.NoError(t, err)

	require.Len(t, s.sinceCutoffs, 1)
	assert.Equal(t, lastRun, s.sinceCutoffs[0])
}

func TestRunMatching_RecentRunDoesNotShrinkWindow(t *testing.T) {
	t.Parallel()

	s := newMockStore()
	lastRun := testNow.Add(-time.Hour)
	s.lastSuccess = &lastRun

	_, err := newTestEngine(s, newMockNotifier()).RunMatching(context.Background())
	require.NoError(t, err)

	require.Len(t, s.sinceCutoffs, 1)
	assert.Equal(t, testNow.Add(-24*time.Hour), s.sinceCutoffs[0])
}

func TestRunMatching_LockErrorAborts(t *testing.T) {
	t.Parallel()

	s := newMockStore()
	s.lockErr = errors.New("db down")

	_, err := newTestEngine(s, newMockNotifier()).RunMatching(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "acquiring run lock")
	assert.Zero(t, s.insertedRuns)
}
