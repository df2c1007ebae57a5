package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/selhaddad/sakanalert/pkg/types"
)

func TestDispatch_NoTokenStillUpdatesBookkeeping(t *testing.T) {
	t.Parallel()

	s := newMockStore()
	a := testAlert("a1", "casablanca", true)
	s.activeAlerts = []domain.Alert{a}
	s.listings = []domain.Listing{testListing("l1", "Casablanca", 900_000)}
	n := newMockNotifier()

	summary, err := newTestEngine(s, n).RunMatching(context.Background())
	require.NoError(t, err)

	// No send attempted without a token.
	assert.Empty(t, n.sent)

	// Notification state advances anyway.
	require.Len(t, s.notifUpdates, 1)
	assert.Equal(t, "a1", s.notifUpdates[0].alertID)
	assert.Equal(t, 1, s.notifUpdates[0].count)
	assert.Equal(t, testNow, s.notifUpdates[0].at)

	assert.Equal(t, 1, summary.NotificationsGenerated)
}

func TestDispatch_PushFailureIsolated(t *testing.T) {
	t.Parallel()

	s := newMockStore()
	a1 := testAlert("a1", "casablanca", true)
	a1.PushToken = "bad-token"
	a2 := testAlert("a2", "casablanca", true)
	a2.PushToken = "good-token"
	s.activeAlerts = []domain.Alert{a1, a2}
	s.listings = []domain.Listing{testListing("l1", "Casablanca", 900_000)}

	n := newMockNotifier()
	n.errFor["bad-token"] = errors.New("gateway unavailable")

	summary, err := newTestEngine(s, n).RunMatching(context.Background())
	require.NoError(t, err)

	// The failed send did not stop the second alert's push.
	require.Len(t, n.sent, 1)
	assert.Equal(t, "good-token", n.sent[0].Token)

	// Bookkeeping ran for both alerts, failed push included.
	require.Len(t, s.notifUpdates, 2)
	assert.Equal(t, "a1", s.notifUpdates[0].alertID)
	assert.Equal(t, "a2", s.notifUpdates[1].alertID)

	// The run still succeeds.
	assert.Equal(t, 2, summary.NotificationsGenerated)
	require.Len(t, s.completedRuns, 1)
	assert.Equal(t, domain.RunStatusSucceeded, s.completedRuns[0].Status)
}

func TestDispatch_BookkeepingFailureIsolated(t *testing.T) {
	t.Parallel()

	s := newMockStore()
	a1 := testAlert("a1", "casablanca", true)
	a2 := testAlert("a2", "casablanca", true)
	s.activeAlerts = []domain.Alert{a1, a2}
	s.listings = []domain.Listing{testListing("l1", "Casablanca", 900_000)}
	s.notifErrFor["a1"] = errors.New("deadlock detected")

	summary, err := newTestEngine(s, newMockNotifier()).RunMatching(context.Background())
	require.NoError(t, err)

	// a2's bookkeeping still ran and the run succeeded.
	require.Len(t, s.notifUpdates, 1)
	assert.Equal(t, "a2", s.notifUpdates[0].alertID)
	assert.Equal(t, domain.RunStatusSucceeded, s.completedRuns[0].Status)
	assert.Equal(t, 2, summary.NotificationsGenerated)
}

func TestBuildPush_SingleMatch(t *testing.T) {
	t.Parallel()

	a := testAlert("a1", "casablanca", true)
	a.PushToken = "tok"
	listings := []domain.Listing{testListing("l1", "Casablanca", 950_000)}

	p := buildPush(&a, listings)

	assert.Equal(t, "tok", p.Token)
	assert.Contains(t, p.Title, "New listing matches")
	assert.Contains(t, p.Body, "Listing l1")
	assert.NotContains(t, p.Body, "more")
	assert.Equal(t, "1", p.Data["match_count"])
}

func TestBuildPush_MultipleMatches(t *testing.T) {
	t.Parallel()

	a := testAlert("a1", "casablanca", true)
	a.PushToken = "tok"
	listings := []domain.Listing{
		testListing("l1", "Casablanca", 950_000),
		testListing("l2", "Casablanca", 800_000),
		testListing("l3", "Casablanca", 700_000),
	}

	p := buildPush(&a, listings)

	assert.Contains(t, p.Title, "3 new listings")
	assert.Contains(t, p.Body, "and 2 more")
	assert.Equal(t, "3", p.Data["match_count"])
}
