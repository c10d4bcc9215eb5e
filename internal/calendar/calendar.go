// Package calendar projects events from an external Google Calendar into the
// family's upcoming meal schedule. Events are fetched on demand and never
// persisted.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const maxEvents = 50

// Status distinguishes the three schedule states: no calendar linked, linked
// and reachable, linked but failing.
type Status string

const (
	StatusNotLinked Status = "not_linked"
	StatusOK        Status = "ok"
	StatusFailed    Status = "failed"
)

// ErrInaccessible marks a linked calendar the API refuses to serve (HTTP
// 403, typically a calendar that is not public). Callers surface it with
// remediation instructions instead of treating the schedule as empty.
var ErrInaccessible = errors.New("calendar is not accessible")

// Event is a normalized calendar event. MenuItemID is filled in when the
// event's URL matches a catalog item.
type Event struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Start       time.Time `json:"start"`
	AllDay      bool      `json:"all_day"`
	Description string    `json:"description,omitempty"`
	Keywords    []string  `json:"keywords,omitempty"`
	URL         string    `json:"url,omitempty"`
	MenuItemID  string    `json:"menu_item_id,omitempty"`
}

type Service struct {
	apiKey string
	svc    *gcal.Service
	logger *slog.Logger
}

// NewService builds a calendar service around the Google Calendar API. An
// empty API key leaves the service unconfigured: fetches return empty
// results without error. Extra options are for tests.
func NewService(ctx context.Context, apiKey string, logger *slog.Logger, opts ...option.ClientOption) (*Service, error) {
	s := &Service{apiKey: apiKey, logger: logger}
	if apiKey == "" {
		return s, nil
	}

	clientOpts := append([]option.ClientOption{option.WithAPIKey(apiKey)}, opts...)
	svc, err := gcal.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create calendar client: %w", err)
	}
	s.svc = svc
	return s, nil
}

// Configured reports whether an API key is set.
func (s *Service) Configured() bool {
	return s.apiKey != ""
}

// FetchUpcoming returns up to 50 events starting at or after now, ordered by
// start time, with recurring events expanded to single instances. An empty
// calendarID (or an unconfigured service) yields an empty list with no
// error; a 403 from the API yields ErrInaccessible.
func (s *Service) FetchUpcoming(ctx context.Context, calendarID string, now time.Time) ([]Event, error) {
	if calendarID == "" || !s.Configured() {
		return nil, nil
	}

	res, err := s.svc.Events.List(calendarID).
		TimeMin(now.Format(time.RFC3339)).
		OrderBy("startTime").
		SingleEvents(true).
		MaxResults(maxEvents).
		Context(ctx).
		Do()
	if err != nil {
		var gerr *googleapi.Error
		if errors.As(err, &gerr) && gerr.Code == http.StatusForbidden {
			s.logger.Warn("calendar access forbidden", "calendar_id", calendarID)
			return nil, fmt.Errorf("%w: check that the calendar is public and the API key allows the Calendar API", ErrInaccessible)
		}
		return nil, fmt.Errorf("list calendar events: %w", err)
	}

	events := make([]Event, 0, len(res.Items))
	for _, item := range res.Items {
		ev, err := normalizeEvent(item)
		if err != nil {
			s.logger.Warn("skipping malformed event", "event_id", item.Id, "error", err)
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

func normalizeEvent(item *gcal.Event) (Event, error) {
	ev := Event{
		ID:          item.Id,
		Title:       item.Summary,
		Description: item.Description,
		Keywords:    ExtractKeywords(item.Description),
		URL:         ExtractURL(item.Description),
	}
	if ev.Title == "" {
		ev.Title = "Untitled Meal"
	}

	switch {
	case item.Start == nil:
		return Event{}, errors.New("event has no start")
	case item.Start.DateTime != "":
		start, err := time.Parse(time.RFC3339, item.Start.DateTime)
		if err != nil {
			return Event{}, fmt.Errorf("parse start time: %w", err)
		}
		ev.Start = start
	default:
		start, err := time.Parse("2006-01-02", item.Start.Date)
		if err != nil {
			return Event{}, fmt.Errorf("parse start date: %w", err)
		}
		ev.Start = start
		ev.AllDay = true
	}
	return ev, nil
}
