package handlers_test

import (
	"context"
	"time"

	"github.com/selhaddad/sakanalert/internal/store"
	domain "github.com/selhaddad/sakanalert/pkg/types"
)

// mockStore implements store.Store with per-method function fields. The
// embedded interface is nil, so a call to a method a test did not stub
// panics, which surfaces unexpected store access immediately.
type mockStore struct {
	store.Store

	listAlertsFn      func(ctx context.Context, userID string) ([]domain.Alert, error)
	getAlertFn        func(ctx context.Context, id string) (*domain.Alert, error)
	createAlertFn     func(ctx context.Context, a *domain.Alert) error
	updateAlertFn     func(ctx context.Context, a *domain.Alert) error
	deleteAlertFn     func(ctx context.Context, id string) error
	setAlertActiveFn  func(ctx context.Context, id string, active bool) error
	upsertListingFn   func(ctx context.Context, l *domain.Listing) error
	getListingFn      func(ctx context.Context, id string) (*domain.Listing, error)
	listListingsFn    func(ctx context.Context, q *store.ListingQuery) ([]domain.Listing, int, error)
	listMatchRunsFn   func(ctx context.Context, limit int) ([]domain.MatchRun, error)
	upsertPushTokenFn func(ctx context.Context, userID, token string) error
	pingFn            func(ctx context.Context) error
}

func (m *mockStore) ListAlerts(ctx context.Context, userID string) ([]domain.Alert, error) {
	return m.listAlertsFn(ctx, userID)
}

func (m *mockStore) GetAlert(ctx context.Context, id string) (*domain.Alert, error) {
	return m.getAlertFn(ctx, id)
}

func (m *mockStore) CreateAlert(ctx context.Context, a *domain.Alert) error {
	return m.createAlertFn(ctx, a)
}

func (m *mockStore) UpdateAlert(ctx context.Context, a *domain.Alert) error {
	return m.updateAlertFn(ctx, a)
}

func (m *mockStore) DeleteAlert(ctx context.Context, id string) error {
	return m.deleteAlertFn(ctx, id)
}

func (m *mockStore) SetAlertActive(ctx context.Context, id string, active bool) error {
	return m.setAlertActiveFn(ctx, id, active)
}

func (m *mockStore) UpsertListing(ctx context.Context, l *domain.Listing) error {
	return m.upsertListingFn(ctx, l)
}

func (m *mockStore) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	return m.getListingFn(ctx, id)
}

func (m *mockStore) ListListings(ctx context.Context, q *store.ListingQuery) ([]domain.Listing, int, error) {
	return m.listListingsFn(ctx, q)
}

func (m *mockStore) ListMatchRuns(ctx context.Context, limit int) ([]domain.MatchRun, error) {
	return m.listMatchRunsFn(ctx, limit)
}

func (m *mockStore) UpsertPushToken(ctx context.Context, userID, token string) error {
	return m.upsertPushTokenFn(ctx, userID, token)
}

func (m *mockStore) Ping(ctx context.Context) error {
	return m.pingFn(ctx)
}

func intPtr(v int) *int { return &v }

func sampleAlert(id string) *domain.Alert {
	return &domain.Alert{
		ID:       id,
		UserID:   "user-1",
		Name:     "Casablanca apartments",
		Filters:  domain.DefaultFilters(),
		IsActive: true,
	}
}

func sampleListing(id string) *domain.Listing {
	return &domain.Listing{
		ID:        id,
		SourceRef: "src-" + id,
		Title:     "T3 apartment",
		Price:     950_000,
		Bedrooms:  intPtr(3),
		City:      "Casablanca",
		District:  "Maarif",
		Status:    domain.StatusForSale,
		Type:      domain.TypeApartment,
		CreatedAt: time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC),
	}
}
