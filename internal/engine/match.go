package engine

import (
	domain "github.com/selhaddad/sakanalert/pkg/types"
)

// MatchAlerts evaluates every alert against every candidate listing and
// returns the matched listings keyed by alert ID. Inactive alerts produce no
// entry, and alerts with zero matches are omitted so callers can range over
// the result to find exactly the alerts that need a notification.
//
// The evaluation is a plain nested loop. Candidate sets are bounded by the
// matching window, so the quadratic cost stays small in practice and keeps
// the matching logic trivially auditable.
func MatchAlerts(alerts []domain.Alert, listings []domain.Listing) map[string][]domain.Listing {
	matches := make(map[string][]domain.Listing)

	for i := range alerts {
		a := &alerts[i]
		if !a.IsActive {
			continue
		}

		for j := range listings {
			if a.Filters.Match(&listings[j]) {
				matches[a.ID] = append(matches[a.ID], listings[j])
			}
		}
	}

	return matches
}
