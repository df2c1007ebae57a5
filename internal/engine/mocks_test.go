package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/selhaddad/sakanalert/internal/notify"
	"github.com/selhaddad/sakanalert/internal/store"
	domain "github.com/selhaddad/sakanalert/pkg/types"
)

type notifUpdate struct {
	alertID string
	at      time.Time
	count   int
}

// mockStore implements store.Store in memory for engine tests. Only the
// methods the engine touches have real behavior; the CRUD surface returns
// errors so an unexpected call fails the test loudly.
type mockStore struct {
	mu sync.Mutex

	activeAlerts []domain.Alert
	listings     []domain.Listing
	lastSuccess  *time.Time

	alertsErr    error
	listingsErr  error
	lockErr      error
	insertErr    error
	completeErr  error
	lockHeld     bool
	notifErrFor  map[string]error
	lastRunErr   error

	insertedRuns  int
	completedRuns []domain.MatchRun
	notifUpdates  []notifUpdate
	releasedLocks []string
	sinceCutoffs  []time.Time
}

var _ store.Store = (*mockStore)(nil)

func newMockStore() *mockStore {
	return &mockStore{notifErrFor: map[string]error{}}
}

func (m *mockStore) ListActiveAlerts(_ context.Context) ([]domain.Alert, error) {
	if m.alertsErr != nil {
		return nil, m.alertsErr
	}
	return m.activeAlerts, nil
}

func (m *mockStore) ListListingsSince(_ context.Context, cutoff time.Time) ([]domain.Listing, error) {
	m.mu.Lock()
	m.sinceCutoffs = append(m.sinceCutoffs, cutoff)
	m.mu.Unlock()

	if m.listingsErr != nil {
		return nil, m.listingsErr
	}
	return m.listings, nil
}

func (m *mockStore) UpdateAlertNotification(_ context.Context, id string, at time.Time, count int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.notifErrFor[id]; ok {
		return err
	}
	m.notifUpdates = append(m.notifUpdates, notifUpdate{alertID: id, at: at, count: count})
	return nil
}

func (m *mockStore) InsertMatchRun(_ context.Context) (string, error) {
	if m.insertErr != nil {
		return "", m.insertErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.insertedRuns++
	return "run-1", nil
}

func (m *mockStore) CompleteMatchRun(_ context.Context, run *domain.MatchRun) error {
	if m.completeErr != nil {
		return m.completeErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completedRuns = append(m.completedRuns, *run)
	return nil
}

func (m *mockStore) LastSuccessfulRunStart(_ context.Context) (*time.Time, error) {
	if m.lastRunErr != nil {
		return nil, m.lastRunErr
	}
	return m.lastSuccess, nil
}

func (m *mockStore) AcquireRunLock(_ context.Context, _, _ string, _ time.Duration) (bool, error) {
	if m.lockErr != nil {
		return false, m.lockErr
	}
	return !m.lockHeld, nil
}

func (m *mockStore) ReleaseRunLock(_ context.Context, name, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.releasedLocks = append(m.releasedLocks, name)
	return nil
}

var errUnexpectedCall = errors.New("unexpected store call in engine test")

func (m *mockStore) UpsertListing(context.Context, *domain.Listing) error { return errUnexpectedCall }
func (m *mockStore) GetListing(context.Context, string) (*domain.Listing, error) {
	return nil, errUnexpectedCall
}
func (m *mockStore) ListListings(context.Context, *store.ListingQuery) ([]domain.Listing, int, error) {
	return nil, 0, errUnexpectedCall
}
func (m *mockStore) CreateAlert(context.Context, *domain.Alert) error { return errUnexpectedCall }
func (m *mockStore) GetAlert(context.Context, string) (*domain.Alert, error) {
	return nil, errUnexpectedCall
}
func (m *mockStore) ListAlerts(context.Context, string) ([]domain.Alert, error) {
	return nil, errUnexpectedCall
}
func (m *mockStore) UpdateAlert(context.Context, *domain.Alert) error { return errUnexpectedCall }
func (m *mockStore) DeleteAlert(context.Context, string) error        { return errUnexpectedCall }
func (m *mockStore) SetAlertActive(context.Context, string, bool) error {
	return errUnexpectedCall
}
func (m *mockStore) UpsertPushToken(context.Context, string, string) error {
	return errUnexpectedCall
}
func (m *mockStore) ListMatchRuns(context.Context, int) ([]domain.MatchRun, error) {
	return nil, errUnexpectedCall
}
func (m *mockStore) Migrate(context.Context) error { return errUnexpectedCall }
func (m *mockStore) Ping(context.Context) error    { return nil }

// mockNotifier records pushes and can fail selected tokens.
type mockNotifier struct {
	mu     sync.Mutex
	sent   []notify.Push
	errFor map[string]error
}

var _ notify.Notifier = (*mockNotifier)(nil)

func newMockNotifier() *mockNotifier {
	return &mockNotifier{errFor: map[string]error{}}
}

func (m *mockNotifier) SendPush(_ context.Context, p notify.Push) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err, ok := m.errFor[p.Token]; ok {
		return err
	}
	m.sent = append(m.sent, p)
	return nil
}
