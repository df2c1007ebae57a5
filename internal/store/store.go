// Package store defines the datastore abstraction for sakanalert.
// Business logic depends on the Store interface, never on concrete
// implementations, so the engine and handlers are testable without a
// running database.
package store

import (
	"context"
	"time"

	domain "github.com/selhaddad/sakanalert/pkg/types"
)

// ListingQuery defines optional filters for listing queries.
type ListingQuery struct {
	City     *string
	Status   *string
	Type     *string
	PriceMin *float64
	PriceMax *float64
	Limit    int // default 50
	Offset   int
}

// Store defines all data access operations for sakanalert.
type Store interface {
	// Listings
	UpsertListing(ctx context.Context, l *domain.Listing) error
	GetListing(ctx context.Context, id string) (*domain.Listing, error)
	ListListings(ctx context.Context, opts *ListingQuery) ([]domain.Listing, int, error)
	ListListingsSince(ctx context.Context, cutoff time.Time) ([]domain.Listing, error)

	// Alerts
	CreateAlert(ctx context.Context, a *domain.Alert) error
	GetAlert(ctx context.Context, id string) (*domain.Alert, error)
	ListAlerts(ctx context.Context, userID string) ([]domain.Alert, error)
	ListActiveAlerts(ctx context.Context) ([]domain.Alert, error)
	UpdateAlert(ctx context.Context, a *domain.Alert) error
	DeleteAlert(ctx context.Context, id string) error
	SetAlertActive(ctx context.Context, id string, active bool) error
	UpdateAlertNotification(ctx context.Context, id string, at time.Time, count int) error

	// Profiles
	UpsertPushToken(ctx context.Context, userID, token string) error

	// Match runs
	InsertMatchRun(ctx context.Context) (id string, err error)
	CompleteMatchRun(ctx context.Context, run *domain.MatchRun) error
	ListMatchRuns(ctx context.Context, limit int) ([]domain.MatchRun, error)
	LastSuccessfulRunStart(ctx context.Context) (*time.Time, error)
	AcquireRunLock(ctx context.Context, name, holder string, ttl time.Duration) (bool, error)
	ReleaseRunLock(ctx context.Context, name, holder string) error

	// Migrations
	Migrate(ctx context.Context) error

	// Health
	Ping(ctx context.Context) error
}
