// Package domain defines the core business types for sakanalert.
package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// ListingStatus represents the transaction type of a listing.
type ListingStatus string

// Listing status constants. StatusAny is the filter wildcard and never
// appears on a stored listing.
const (
	StatusAny     ListingStatus = "all"
	StatusForSale ListingStatus = "for_sale"
	StatusForRent ListingStatus = "for_rent"
)

// PropertyType represents the property category of a listing.
type PropertyType string

// Property type constants. TypeAny is the filter wildcard and never
// appears on a stored listing.
const (
	TypeAny        PropertyType = "all"
	TypeApartment  PropertyType = "apartment"
	TypeHouse      PropertyType = "house"
	TypeLand       PropertyType = "land"
	TypeCommercial PropertyType = "commercial"
)

// DefaultPriceMax is the sentinel upper price bound meaning "unbounded".
const DefaultPriceMax = 10_000_000

// Listing represents an ingested property listing. Listings are immutable
// once created; only the ingestion process writes them.
type Listing struct {
	ID        string `json:"id"         db:"id"`
	SourceRef string `json:"source_ref" db:"source_ref"`
	Title     string `json:"title"      db:"title"`

	Price     float64  `json:"price"               db:"price"`
	Bedrooms  *int     `json:"bedrooms,omitempty"  db:"bedrooms"`
	Bathrooms *int     `json:"bathrooms,omitempty" db:"bathrooms"`
	Area      *float64 `json:"area,omitempty"      db:"area"`

	City     string `json:"city"     db:"city"`
	District string `json:"district" db:"district"`
	Address  string `json:"address"  db:"address"`

	Status ListingStatus `json:"status" db:"status"`
	Type   PropertyType  `json:"type"   db:"type"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// LocationString returns the composed address text that location filters
// are matched against.
func (l *Listing) LocationString() string {
	return l.City + " " + l.District + " " + l.Address
}

// Alert represents a user's saved search with notification state.
type Alert struct {
	ID       string       `json:"id"        db:"id"`
	UserID   string       `json:"user_id"   db:"user_id"`
	Name     string       `json:"name"      db:"name"`
	Filters  AlertFilters `json:"filters"   db:"filters"`
	IsActive bool         `json:"is_active" db:"is_active"`

	LastNotificationAt    *time.Time `json:"last_notification_at,omitempty"    db:"last_notification_at"`
	LastNotificationCount *int       `json:"last_notification_count,omitempty" db:"last_notification_count"`

	// PushToken is joined from the owning user's profile when alerts are
	// fetched for a matching run. It is never stored on the alert row.
	PushToken string `json:"-" db:"push_token"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// AlertFilters defines the predicate an alert applies to listings.
// All clauses are AND-combined. Zero minimums and the Any enum values
// mean "no constraint".
type AlertFilters struct {
	Location     string        `json:"location"`
	Status       ListingStatus `json:"status"`
	Type         PropertyType  `json:"type"`
	PriceMin     float64       `json:"price_min"`
	PriceMax     float64       `json:"price_max"`
	BedroomsMin  int           `json:"bedrooms_min"`
	BathroomsMin int           `json:"bathrooms_min"`
	AreaMin      float64       `json:"area_min"`
}

// DefaultFilters returns the all-wildcard filter set.
func DefaultFilters() AlertFilters {
	return AlertFilters{
		Status:   StatusAny,
		Type:     TypeAny,
		PriceMax: DefaultPriceMax,
	}
}

// UnmarshalJSON decodes filters, normalizing missing or malformed fields to
// their wildcard defaults. Stored filter JSON predates some fields, so a
// partial document must never fail to decode.
func (f *AlertFilters) UnmarshalJSON(data []byte) error {
	type plain AlertFilters
	p := plain(DefaultFilters())
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*f = AlertFilters(p)
	f.Normalize()
	return nil
}

// Normalize replaces empty or out-of-range fields with wildcard defaults.
func (f *AlertFilters) Normalize() {
	if f.Status == "" {
		f.Status = StatusAny
	}
	if f.Type == "" {
		f.Type = TypeAny
	}
	if f.PriceMin < 0 {
		f.PriceMin = 0
	}
	if f.PriceMax <= 0 {
		f.PriceMax = DefaultPriceMax
	}
	if f.BedroomsMin < 0 {
		f.BedroomsMin = 0
	}
	if f.BathroomsMin < 0 {
		f.BathroomsMin = 0
	}
	if f.AreaMin < 0 {
		f.AreaMin = 0
	}
}

// Match reports whether a listing satisfies every filter clause.
// The first failing clause short-circuits; clause order does not affect
// the result.
func (f *AlertFilters) Match(l *Listing) bool {
	if !f.matchLocation(l) {
		return false
	}
	if f.Status != StatusAny && l.Status != f.Status {
		return false
	}
	if f.Type != TypeAny && l.Type != f.Type {
		return false
	}
	if !f.matchPrice(l) {
		return false
	}
	if f.BedroomsMin > 0 && (l.Bedrooms == nil || *l.Bedrooms < f.BedroomsMin) {
		return false
	}
	if f.BathroomsMin > 0 && (l.Bathrooms == nil || *l.Bathrooms < f.BathroomsMin) {
		return false
	}
	if f.AreaMin > 0 && (l.Area == nil || *l.Area < f.AreaMin) {
		return false
	}
	return true
}

func (f *AlertFilters) matchLocation(l *Listing) bool {
	if f.Location == "" {
		return true
	}
	return strings.Contains(
		strings.ToLower(l.LocationString()),
		strings.ToLower(f.Location),
	)
}

func (f *AlertFilters) matchPrice(l *Listing) bool {
	max := f.PriceMax
	if max <= 0 {
		max = DefaultPriceMax
	}
	return l.Price >= f.PriceMin && l.Price <= max
}

// Run status constants for MatchRun.Status.
const (
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// MatchRun records a single execution of the matching pipeline.
type MatchRun struct {
	ID          string     `json:"id"                     db:"id"`
	StartedAt   time.Time  `json:"started_at"             db:"started_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	Status      string     `json:"status"                 db:"status"`
	ErrorText   string     `json:"error_text,omitempty"   db:"error_text"`

	AlertsProcessed        int `json:"alerts_processed"        db:"alerts_processed"`
	ListingsChecked        int `json:"listings_checked"        db:"listings_checked"`
	NotificationsGenerated int `json:"notifications_generated" db:"notifications_generated"`
}
