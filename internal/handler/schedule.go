package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/jcalloway/larder/internal/auth"
	"github.com/jcalloway/larder/internal/calendar"
	"github.com/jcalloway/larder/internal/store"
)

type ScheduleHandler struct {
	calendar *calendar.Service
	families *store.FamilyStore
	items    *store.MenuItemStore
	matcher  calendar.Matcher
	logger   *slog.Logger
}

func NewScheduleHandler(cal *calendar.Service, families *store.FamilyStore, items *store.MenuItemStore, logger *slog.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		calendar: cal,
		families: families,
		items:    items,
		matcher:  calendar.URLSubstringMatcher{},
		logger:   logger.With("component", "schedule_handler"),
	}
}

type scheduleResponse struct {
	Status calendar.Status     `json:"status"`
	Days   []calendar.DayGroup `json:"days"`
	Error  string              `json:"error,omitempty"`
}

// Get returns the family's upcoming meal schedule. The three calendar states
// are kept distinct: no calendar linked, linked and fetched, linked but
// inaccessible.
func (h *ScheduleHandler) Get(w http.ResponseWriter, r *http.Request) {
	familyID := auth.FamilyID(r.Context())
	if familyID == "" {
		writeError(w, http.StatusBadRequest, "no family selected")
		return
	}

	f, err := h.families.GetByID(familyID)
	if err != nil || f == nil {
		writeError(w, http.StatusInternalServerError, "failed to load family")
		return
	}

	if f.CalendarID == nil || !h.calendar.Configured() {
		writeJSON(w, http.StatusOK, scheduleResponse{
			Status: calendar.StatusNotLinked,
			Days:   []calendar.DayGroup{},
		})
		return
	}

	events, err := h.calendar.FetchUpcoming(r.Context(), *f.CalendarID, time.Now())
	if err != nil {
		status := http.StatusBadGateway
		msg := "failed to fetch the meal calendar"
		if errors.Is(err, calendar.ErrInaccessible) {
			msg = err.Error()
		} else {
			h.logger.Error("fetch schedule", "error", err, "family_id", familyID)
		}
		writeJSON(w, status, scheduleResponse{
			Status: calendar.StatusFailed,
			Days:   []calendar.DayGroup{},
			Error:  msg,
		})
		return
	}

	items, err := h.items.ListByFamily(familyID)
	if err != nil {
		h.logger.Error("list menu items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load menu items")
		return
	}

	matched := calendar.MatchEvents(events, items, h.matcher)
	days := calendar.GroupByDay(matched)
	if days == nil {
		days = []calendar.DayGroup{}
	}

	writeJSON(w, http.StatusOK, scheduleResponse{
		Status: calendar.StatusOK,
		Days:   days,
	})
}
