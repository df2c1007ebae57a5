package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domain "github.com/selhaddad/sakanalert/pkg/types"
)

const defaultPoolSize = 10

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// PostgresStore implements Store using pgxpool (connection-pooled PostgreSQL).
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore with connection pooling.
func NewPostgresStore(ctx context.Context, connString string) (*PostgresStore, error) {
	cfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	cfg.MaxConns = defaultPoolSize

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close gracefully shuts down the connection pool.
func (s *PostgresStore) Close() {
	s.pool.Close()
}

// Ping verifies the database connection is alive.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Migrate applies pending SQL schema migrations.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	return RunMigrations(ctx, s.pool)
}

// UpsertListing inserts a listing keyed by source_ref. Listings are
// immutable: a conflicting insert keeps the existing row and fills the
// listing's ID and CreatedAt from it.
func (s *PostgresStore) UpsertListing(ctx context.Context, l *domain.Listing) error {
	args := pgx.NamedArgs{
		"source_ref": l.SourceRef,
		"title":      l.Title,
		"price":      l.Price,
		"bedrooms":   l.Bedrooms,
		"bathrooms":  l.Bathrooms,
		"area":       l.Area,
		"city":       l.City,
		"district":   l.District,
		"address":    l.Address,
		"status":     string(l.Status),
		"type":       string(l.Type),
		"created_at": nullableTime(l.CreatedAt),
	}

	err := s.pool.QueryRow(ctx, queryUpsertListing, args).Scan(&l.ID, &l.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		// Conflict on source_ref: row already exists, read it back.
		existing, getErr := s.getListingBySourceRef(ctx, l.SourceRef)
		if getErr != nil {
			return fmt.Errorf("reading existing listing %s: %w", l.SourceRef, getErr)
		}
		*l = *existing
		return nil
	}
	if err != nil {
		return fmt.Errorf("inserting listing: %w", err)
	}
	return nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}

func (s *PostgresStore) getListingBySourceRef(
	ctx context.Context,
	sourceRef string,
) (*domain.Listing, error) {
	l := &domain.Listing{}
	if err := scanListing(s.pool.QueryRow(ctx, queryGetListingBySourceRef, sourceRef), l); err != nil {
		return nil, err
	}
	return l, nil
}

// GetListing retrieves a listing by its internal UUID.
func (s *PostgresStore) GetListing(ctx context.Context, id string) (*domain.Listing, error) {
	l := &domain.Listing{}
	err := scanListing(s.pool.QueryRow(ctx, queryGetListingByID, id), l)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return l, nil
}

// ListListings queries listings with optional filters, returning results and
// total count.
func (s *PostgresStore) ListListings(
	ctx context.Context,
	opts *ListingQuery,
) ([]domain.Listing, int, error) {
	dataSQL, countSQL, args := opts.ToSQL()

	var total int
	if err := s.pool.QueryRow(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting listings: %w", err)
	}

	listings, err := s.queryListings(ctx, dataSQL, args...)
	if err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}

// ListListingsSince returns all listings created at or after the cutoff.
func (s *PostgresStore) ListListingsSince(
	ctx context.Context,
	cutoff time.Time,
) ([]domain.Listing, error) {
	return s.queryListings(ctx, queryListListingsSince, cutoff)
}

func (s *PostgresStore) queryListings(
	ctx context.Context,
	sql string,
	args ...any,
) ([]domain.Listing, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying listings: %w", err)
	}
	defer rows.Close()

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		if err := scanListing(rows, &l); err != nil {
			return nil, fmt.Errorf("scanning listing: %w", err)
		}
		listings = append(listings, l)
	}

	return listings, rows.Err()
}

// CreateAlert inserts a new alert.
func (s *PostgresStore) CreateAlert(ctx context.Context, a *domain.Alert) error {
	filtersJSON, err := json.Marshal(a.Filters)
	if err != nil {
		return fmt.Errorf("marshaling filters: %w", err)
	}

	args := pgx.NamedArgs{
		"user_id":   a.UserID,
		"name":      a.Name,
		"filters":   filtersJSON,
		"is_active": a.IsActive,
	}

	return s.pool.QueryRow(ctx, queryCreateAlert, args).Scan(
		&a.ID, &a.CreatedAt, &a.UpdatedAt,
	)
}

// GetAlert retrieves an alert by its ID, with the owner's push token joined.
func (s *PostgresStore) GetAlert(ctx context.Context, id string) (*domain.Alert, error) {
	a := &domain.Alert{}
	err := scanAlert(s.pool.QueryRow(ctx, queryGetAlert, id), a)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

// ListAlerts returns all alerts owned by a user.
func (s *PostgresStore) ListAlerts(ctx context.Context, userID string) ([]domain.Alert, error) {
	return s.queryAlerts(ctx, queryListAlertsByUser, userID)
}

// ListActiveAlerts returns all active alerts joined with the owning
// profile's push token.
func (s *PostgresStore) ListActiveAlerts(ctx context.Context) ([]domain.Alert, error) {
	return s.queryAlerts(ctx, queryListActiveAlerts)
}

func (s *PostgresStore) queryAlerts(
	ctx context.Context,
	sql string,
	args ...any,
) ([]domain.Alert, error) {
	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("querying alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.Alert
	for rows.Next() {
		var a domain.Alert
		if err := scanAlert(rows, &a); err != nil {
			return nil, fmt.Errorf("scanning alert: %w", err)
		}
		alerts = append(alerts, a)
	}

	return alerts, rows.Err()
}

// UpdateAlert updates an alert's name, filters, and active flag.
func (s *PostgresStore) UpdateAlert(ctx context.Context, a *domain.Alert) error {
	filtersJSON, err := json.Marshal(a.Filters)
	if err != nil {
		return fmt.Errorf("marshaling filters: %w", err)
	}

	args := pgx.NamedArgs{
		"id":        a.ID,
		"name":      a.Name,
		"filters":   filtersJSON,
		"is_active": a.IsActive,
	}

	if _, err := s.pool.Exec(ctx, queryUpdateAlert, args); err != nil {
		return fmt.Errorf("updating alert: %w", err)
	}
	return nil
}

// DeleteAlert removes an alert.
func (s *PostgresStore) DeleteAlert(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, queryDeleteAlert, id); err != nil {
		return fmt.Errorf("deleting alert: %w", err)
	}
	return nil
}

// SetAlertActive toggles an alert's active flag.
func (s *PostgresStore) SetAlertActive(ctx context.Context, id string, active bool) error {
	if _, err := s.pool.Exec(ctx, querySetAlertActive, id, active); err != nil {
		return fmt.Errorf("setting alert active: %w", err)
	}
	return nil
}

// UpdateAlertNotification records the outcome of a matching run on the alert.
func (s *PostgresStore) UpdateAlertNotification(
	ctx context.Context,
	id string,
	at time.Time,
	count int,
) error {
	if _, err := s.pool.Exec(ctx, queryUpdateAlertNotification, id, at, count); err != nil {
		return fmt.Errorf("updating alert notification state: %w", err)
	}
	return nil
}

// UpsertPushToken stores the push token for a user's profile.
func (s *PostgresStore) UpsertPushToken(ctx context.Context, userID, token string) error {
	if _, err := s.pool.Exec(ctx, queryUpsertPushToken, userID, token); err != nil {
		return fmt.Errorf("upserting push token: %w", err)
	}
	return nil
}

// InsertMatchRun records the start of a matching run.
func (s *PostgresStore) InsertMatchRun(ctx context.Context) (string, error) {
	var id string
	if err := s.pool.QueryRow(ctx, queryInsertMatchRun).Scan(&id); err != nil {
		return "", fmt.Errorf("inserting match run: %w", err)
	}
	return id, nil
}

// CompleteMatchRun records the outcome of a matching run.
func (s *PostgresStore) CompleteMatchRun(ctx context.Context, run *domain.MatchRun) error {
	_, err := s.pool.Exec(ctx, queryCompleteMatchRun,
		run.ID, run.Status, run.ErrorText,
		run.AlertsProcessed, run.ListingsChecked, run.NotificationsGenerated,
	)
	if err != nil {
		return fmt.Errorf("completing match run: %w", err)
	}
	return nil
}

// ListMatchRuns returns the most recent matching runs.
func (s *PostgresStore) ListMatchRuns(
	ctx context.Context,
	limit int,
) ([]domain.MatchRun, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.pool.Query(ctx, queryListMatchRuns, limit)
	if err != nil {
		return nil, fmt.Errorf("querying match runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.MatchRun
	for rows.Next() {
		var r domain.MatchRun
		if err := rows.Scan(
			&r.ID, &r.StartedAt, &r.CompletedAt, &r.Status, &r.ErrorText,
			&r.AlertsProcessed, &r.ListingsChecked, &r.NotificationsGenerated,
		); err != nil {
			return nil, fmt.Errorf("scanning match run: %w", err)
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// LastSuccessfulRunStart returns the start time of the most recent
// succeeded run, or nil when no run has succeeded yet.
func (s *PostgresStore) LastSuccessfulRunStart(ctx context.Context) (*time.Time, error) {
	var t time.Time
	err := s.pool.QueryRow(ctx, queryLastSuccessfulRunStart).Scan(&t)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying last successful run: %w", err)
	}
	return &t, nil
}

// AcquireRunLock attempts to acquire a lease-based lock for the named run.
// Returns true if the lock was acquired, false if another holder owns an
// unexpired lease.
func (s *PostgresStore) AcquireRunLock(
	ctx context.Context,
	name string,
	holder string,
	ttl time.Duration,
) (bool, error) {
	expiresAt := time.Now().Add(ttl)

	var gotName string
	err := s.pool.QueryRow(ctx, queryAcquireRunLock, name, holder, expiresAt).Scan(&gotName)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil // lease held by another; conflict not replaced
	}
	if err != nil {
		return false, fmt.Errorf("acquiring run lock: %w", err)
	}

	return true, nil
}

// ReleaseRunLock releases a lock if this holder still owns it.
func (s *PostgresStore) ReleaseRunLock(ctx context.Context, name, holder string) error {
	if _, err := s.pool.Exec(ctx, queryReleaseRunLock, name, holder); err != nil {
		return fmt.Errorf("releasing run lock: %w", err)
	}
	return nil
}

// scannable abstracts pgx.Row and pgx.Rows for reuse.
type scannable interface {
	Scan(dest ...any) error
}

func scanListing(row scannable, l *domain.Listing) error {
	return row.Scan(
		&l.ID, &l.SourceRef, &l.Title,
		&l.Price, &l.Bedrooms, &l.Bathrooms, &l.Area,
		&l.City, &l.District, &l.Address,
		&l.Status, &l.Type, &l.CreatedAt,
	)
}

func scanAlert(row scannable, a *domain.Alert) error {
	var filtersJSON []byte

	if err := row.Scan(
		&a.ID, &a.UserID, &a.Name, &filtersJSON, &a.IsActive,
		&a.LastNotificationAt, &a.LastNotificationCount,
		&a.PushToken, &a.CreatedAt, &a.UpdatedAt,
	); err != nil {
		return err
	}

	if err := json.Unmarshal(filtersJSON, &a.Filters); err != nil {
		return fmt.Errorf("unmarshaling alert filters: %w", err)
	}

	return nil
}
