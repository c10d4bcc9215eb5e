// Package response implements the reaction ledger rules: per-user recency,
// 24-hour expiry, and activity summaries over menu item responses.
package response

import (
	"slices"
	"time"

	"github.com/jcalloway/larder/internal/model"
)

// Window is how long a response counts as current.
const Window = 24 * time.Hour

// MostRecentUserResponse returns the user's response with the greatest
// timestamp, or nil if the user has none. On equal timestamps the earliest
// entry wins.
func MostRecentUserResponse(responses []model.Response, userID int64) *model.Response {
	var latest *model.Response
	for i := range responses {
		r := &responses[i]
		if r.UserID != userID {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	return latest
}

// MostRecentResponse returns the globally newest response across all users,
// or nil for an empty list.
func MostRecentResponse(responses []model.Response) *model.Response {
	var latest *model.Response
	for i := range responses {
		r := &responses[i]
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	return latest
}

// IsExpired reports whether the response is more than Window old at the
// given evaluation time.
func IsExpired(r model.Response, now time.Time) bool {
	return now.Sub(r.CreatedAt) > Window
}

// CanRespond reports whether the user may add a new response under the
// cooldown policy: true when they have none, or their latest has expired.
func CanRespond(responses []model.Response, userID int64, now time.Time) bool {
	latest := MostRecentUserResponse(responses, userID)
	if latest == nil {
		return true
	}
	return IsExpired(*latest, now)
}

// SortByRecentResponse returns the items ordered by their most recent
// response, newest first. Items with no responses sort after all responded
// items; the sort is stable so their input order is preserved.
func SortByRecentResponse(items []model.MenuItem) []model.MenuItem {
	sorted := slices.Clone(items)
	slices.SortStableFunc(sorted, func(a, b model.MenuItem) int {
		ar := MostRecentResponse(a.Responses)
		br := MostRecentResponse(b.Responses)
		switch {
		case ar == nil && br == nil:
			return 0
		case ar == nil:
			return 1
		case br == nil:
			return -1
		}
		return br.CreatedAt.Compare(ar.CreatedAt)
	})
	return sorted
}
