package calendar

import (
	"strings"

	"github.com/jcalloway/larder/internal/model"
)

// Matcher links a calendar event to a catalog item. The interface exists so
// the substring heuristic can be replaced without touching callers.
type Matcher interface {
	Match(ev Event, items []model.MenuItem) *model.MenuItem
}

// URLSubstringMatcher links an event to the first item whose id appears
// inside the event's extracted URL. Best effort: events without a URL, or
// whose URL names no known item, stay unmatched.
type URLSubstringMatcher struct{}

func (URLSubstringMatcher) Match(ev Event, items []model.MenuItem) *model.MenuItem {
	if ev.URL == "" {
		return nil
	}
	for i := range items {
		if strings.Contains(ev.URL, items[i].ID) {
			return &items[i]
		}
	}
	return nil
}

// MatchEvents annotates each event with the id of its matched menu item,
// leaving unmatched events as bare schedule entries.
func MatchEvents(events []Event, items []model.MenuItem, m Matcher) []Event {
	out := make([]Event, len(events))
	for i, ev := range events {
		if item := m.Match(ev, items); item != nil {
			ev.MenuItemID = item.ID
		}
		out[i] = ev
	}
	return out
}
