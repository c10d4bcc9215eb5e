package calendar

import (
	"testing"
	"time"
)

func TestGroupByDay(t *testing.T) {
	day1 := time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)

	events := []Event{
		{ID: "a", Start: day1},
		{ID: "b", Start: day1.Add(time.Hour)},
		{ID: "c", Start: day2},
	}

	groups := GroupByDay(events)
	if len(groups) != 2 {
		t.Fatalf("groups = %d, want 2", len(groups))
	}
	if groups[0].Date != "2026-03-01" {
		t.Errorf("first group date = %q", groups[0].Date)
	}
	if len(groups[0].Events) != 2 {
		t.Errorf("first group events = %d, want 2", len(groups[0].Events))
	}
	if groups[1].Date != "2026-03-02" || len(groups[1].Events) != 1 {
		t.Errorf("second group = %+v", groups[1])
	}
}

func TestGroupByDayEmpty(t *testing.T) {
	if groups := GroupByDay(nil); len(groups) != 0 {
		t.Errorf("expected no groups, got %d", len(groups))
	}
}

func TestGroupByDayPreservesOrder(t *testing.T) {
	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	events := []Event{
		{ID: "first", Start: day.Add(8 * time.Hour)},
		{ID: "second", Start: day.Add(12 * time.Hour)},
		{ID: "third", Start: day.Add(18 * time.Hour)},
	}

	groups := GroupByDay(events)
	if len(groups) != 1 {
		t.Fatalf("groups = %d, want 1", len(groups))
	}
	for i, id := range []string{"first", "second", "third"} {
		if groups[0].Events[i].ID != id {
			t.Errorf("event %d = %q, want %q", i, groups[0].Events[i].ID, id)
		}
	}
}
