package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string     { return &s }
func fltPtr(f float64) *float64   { return &f }

func TestListingQuery_ToSQL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		query        ListingQuery
		wantContains []string
		wantArgs     []any
	}{
		{
			name:         "no filters uses defaults",
			query:        ListingQuery{},
			wantContains: []string{"ORDER BY created_at DESC", "LIMIT 50", "OFFSET 0"},
			wantArgs:     nil,
		},
		{
			name:         "city filter is case-insensitive",
			query:        ListingQuery{City: strPtr("Casablanca")},
			wantContains: []string{"LOWER(city) = LOWER($1)"},
			wantArgs:     []any{"Casablanca"},
		},
		{
			name: "all filters numbered in order",
			query: ListingQuery{
				City:     strPtr("Rabat"),
				Status:   strPtr("for_sale"),
				Type:     strPtr("apartment"),
				PriceMin: fltPtr(100_000),
				PriceMax: fltPtr(900_000),
			},
			wantContains: []string{
				"LOWER(city) = LOWER($1)",
				"status = $2",
				"type = $3",
				"price >= $4",
				"price <= $5",
			},
			wantArgs: []any{"Rabat", "for_sale", "apartment", 100_000.0, 900_000.0},
		},
		{
			name:         "limit capped at max",
			query:        ListingQuery{Limit: 10_000},
			wantContains: []string{"LIMIT 500"},
		},
		{
			name:         "negative offset clamped",
			query:        ListingQuery{Offset: -5},
			wantContains: []string{"OFFSET 0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dataSQL, countSQL, args := tt.query.ToSQL()

			for _, want := range tt.wantContains {
				assert.Contains(t, dataSQL, want)
			}
			assert.Equal(t, tt.wantArgs, args)

			// The count query shares the WHERE clause but never pages.
			assert.NotContains(t, countSQL, "LIMIT")
			assert.NotContains(t, countSQL, "ORDER BY")
		})
	}
}
