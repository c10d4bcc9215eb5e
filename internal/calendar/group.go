package calendar

// DayGroup buckets the events of one calendar day, keyed by the day in the
// event's own location.
type DayGroup struct {
	Date   string  `json:"date"` // YYYY-MM-DD
	Events []Event `json:"events"`
}

// GroupByDay buckets events into consecutive day groups, preserving the
// input (start-time) order both across and within groups.
func GroupByDay(events []Event) []DayGroup {
	var groups []DayGroup
	for _, ev := range events {
		day := ev.Start.Format("2006-01-02")
		if n := len(groups); n > 0 && groups[n-1].Date == day {
			groups[n-1].Events = append(groups[n-1].Events, ev)
			continue
		}
		groups = append(groups, DayGroup{Date: day, Events: []Event{ev}})
	}
	return groups
}
