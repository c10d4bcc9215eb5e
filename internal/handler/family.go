package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/jcalloway/larder/internal/auth"
	"github.com/jcalloway/larder/internal/email"
	"github.com/jcalloway/larder/internal/family"
	"github.com/jcalloway/larder/internal/store"
	"github.com/jcalloway/larder/internal/websocket"
)

type FamilyHandler struct {
	service  *family.Service
	families *store.FamilyStore
	email    *email.Client
	hub      *websocket.Hub
	logger   *slog.Logger
}

func NewFamilyHandler(service *family.Service, families *store.FamilyStore, emailClient *email.Client, hub *websocket.Hub, logger *slog.Logger) *FamilyHandler {
	return &FamilyHandler{
		service:  service,
		families: families,
		email:    emailClient,
		hub:      hub,
		logger:   logger.With("component", "family_handler"),
	}
}

// writeFamilyError maps membership service errors onto HTTP statuses.
func (h *FamilyHandler) writeFamilyError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, family.ErrBlankName), errors.Is(err, family.ErrPinFormat):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, family.ErrFamilyNotFound), errors.Is(err, family.ErrNotMember):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, family.ErrInvalidPin), errors.Is(err, family.ErrNotAdmin), errors.Is(err, family.ErrCannotRemoveAdmin):
		writeError(w, http.StatusForbidden, err.Error())
	case errors.Is(err, family.ErrAlreadyMember):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, family.ErrCodeSpaceExhausted):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error("family operation failed", "error", err)
		writeError(w, http.StatusInternalServerError, "family operation failed")
	}
}

type createFamilyRequest struct {
	Name string `json:"name"`
	Pin  string `json:"pin"`
}

func (h *FamilyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	f, err := h.service.CreateFamily(r.Context(), auth.UserID(r.Context()), req.Name, req.Pin)
	if err != nil {
		h.writeFamilyError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

type joinFamilyRequest struct {
	FamilyID string `json:"family_id"`
	Pin      string `json:"pin"`
}

func (h *FamilyHandler) Join(w http.ResponseWriter, r *http.Request) {
	var req joinFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.FamilyID = strings.ToUpper(strings.TrimSpace(req.FamilyID))
	m, err := h.service.JoinFamily(auth.UserID(r.Context()), req.FamilyID, req.Pin)
	if err != nil {
		h.writeFamilyError(w, err)
		return
	}

	h.hub.Broadcast(req.FamilyID, websocket.NewMessage("member", "joined", strconv.FormatInt(m.UserID, 10), nil))
	writeJSON(w, http.StatusCreated, m)
}

type switchFamilyRequest struct {
	FamilyID string `json:"family_id"`
}

func (h *FamilyHandler) Switch(w http.ResponseWriter, r *http.Request) {
	var req switchFamilyRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.SwitchFamily(auth.UserID(r.Context()), req.FamilyID); err != nil {
		h.writeFamilyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"current_family_id": req.FamilyID})
}

// Current returns the user's current family with its full member list.
func (h *FamilyHandler) Current(w http.ResponseWriter, r *http.Request) {
	familyID := auth.FamilyID(r.Context())
	if familyID == "" {
		writeError(w, http.StatusNotFound, "no family selected")
		return
	}

	details, err := h.service.Details(familyID)
	if err != nil {
		h.writeFamilyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, details)
}

func (h *FamilyHandler) RemoveMember(w http.ResponseWriter, r *http.Request) {
	familyID := r.PathValue("id")
	memberID, err := strconv.ParseInt(r.PathValue("userId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid member id")
		return
	}

	if err := h.service.RemoveMember(auth.UserID(r.Context()), familyID, memberID); err != nil {
		h.writeFamilyError(w, err)
		return
	}

	h.hub.Broadcast(familyID, websocket.NewMessage("member", "removed", strconv.FormatInt(memberID, 10), nil))
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

type updatePinRequest struct {
	Pin string `json:"pin"`
}

func (h *FamilyHandler) UpdatePin(w http.ResponseWriter, r *http.Request) {
	var req updatePinRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	familyID := r.PathValue("id")
	if err := h.service.UpdatePin(auth.UserID(r.Context()), familyID, req.Pin); err != nil {
		h.writeFamilyError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type updateCalendarRequest struct {
	CalendarID string `json:"calendar_id"`
}

func (h *FamilyHandler) UpdateCalendar(w http.ResponseWriter, r *http.Request) {
	var req updateCalendarRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	familyID := r.PathValue("id")
	if err := h.service.UpdateCalendar(auth.UserID(r.Context()), familyID, req.CalendarID); err != nil {
		h.writeFamilyError(w, err)
		return
	}

	h.hub.Broadcast(familyID, websocket.NewMessage("family", "calendar_updated", familyID, nil))
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type inviteRequest struct {
	Email string `json:"email"`
}

// Invite emails a join invitation carrying the family code. The PIN is never
// included; it travels out of band.
func (h *FamilyHandler) Invite(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || !strings.Contains(req.Email, "@") {
		writeError(w, http.StatusBadRequest, "a valid email is required")
		return
	}

	if !h.email.Configured() {
		writeError(w, http.StatusServiceUnavailable, "email invitations are not configured")
		return
	}

	familyID := r.PathValue("id")
	userID := auth.UserID(r.Context())

	// Any member may invite, but they must belong to the family.
	member, err := h.families.GetMember(familyID, userID)
	if err != nil {
		h.writeFamilyError(w, err)
		return
	}
	if member == nil {
		writeError(w, http.StatusNotFound, "not a member of this family")
		return
	}

	f, err := h.families.GetByID(familyID)
	if err != nil || f == nil {
		writeError(w, http.StatusNotFound, "family not found")
		return
	}

	if err := h.email.SendFamilyInvite(req.Email, f.Name, f.ID); err != nil {
		h.logger.Error("send invite", "error", err, "family_id", familyID)
		writeError(w, http.StatusBadGateway, "failed to send invitation")
		return
	}

	h.logger.Info("invite sent", "family_id", familyID, "by", userID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "sent"})
}
