package response

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jcalloway/larder/internal/model"
)

// Activity is one line of the recent-activity digest for a menu item.
type Activity struct {
	Type        string `json:"type"`
	Emoji       string `json:"emoji"`
	Description string `json:"description"`
}

// Emit order and phrasing per reaction type.
var activityOrder = []struct {
	respType string
	emoji    string
	verb     string
}{
	{model.ResponseCraving, "🤤", "craved this"},
	{model.ResponseInterested, "🤔", "interested in this"},
	{model.ResponseNah, "👎", "passed on this"},
}

// RecentActivityDescriptions summarizes responses inside the window into one
// line per reaction type:
//
//  1. Drop responses older than now-window.
//  2. Collapse to each user's single most recent in-window response.
//  3. Group by type and emit non-empty groups in fixed order: Craving,
//     Interested, Nah.
//
// Names within a line are ordered most recent first.
func RecentActivityDescriptions(responses []model.Response, now time.Time, window time.Duration) []Activity {
	cutoff := now.Add(-window)

	latestByUser := make(map[int64]model.Response)
	for _, r := range responses {
		if r.CreatedAt.Before(cutoff) {
			continue
		}
		if prev, ok := latestByUser[r.UserID]; !ok || r.CreatedAt.After(prev.CreatedAt) {
			latestByUser[r.UserID] = r
		}
	}

	byType := make(map[string][]model.Response)
	for _, r := range latestByUser {
		byType[r.Type] = append(byType[r.Type], r)
	}

	var activities []Activity
	for _, group := range activityOrder {
		members := byType[group.respType]
		if len(members) == 0 {
			continue
		}
		slices.SortFunc(members, func(a, b model.Response) int {
			if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
				return c
			}
			return cmp.Compare(a.UserID, b.UserID)
		})

		names := make([]string, len(members))
		for i, m := range members {
			names[i] = displayName(m)
		}

		activities = append(activities, Activity{
			Type:        group.respType,
			Emoji:       group.emoji,
			Description: fmt.Sprintf("%s %s", joinNames(names), group.verb),
		})
	}
	return activities
}

func displayName(r model.Response) string {
	if r.UserName != "" {
		return r.UserName
	}
	return "Someone"
}

// joinNames formats a name list: "X", "X and Y", "X, Y, Z".
func joinNames(names []string) string {
	if len(names) == 2 {
		return names[0] + " and " + names[1]
	}
	return strings.Join(names, ", ")
}
