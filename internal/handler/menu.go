package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/jcalloway/larder/internal/auth"
	"github.com/jcalloway/larder/internal/config"
	"github.com/jcalloway/larder/internal/model"
	"github.com/jcalloway/larder/internal/response"
	"github.com/jcalloway/larder/internal/store"
	"github.com/jcalloway/larder/internal/websocket"
)

var validResponseTypes = map[string]bool{
	model.ResponseNah:        true,
	model.ResponseInterested: true,
	model.ResponseCraving:    true,
}

type MenuHandler struct {
	items  *store.MenuItemStore
	users  *store.UserStore
	hub    *websocket.Hub
	policy string
	logger *slog.Logger
}

func NewMenuHandler(items *store.MenuItemStore, users *store.UserStore, hub *websocket.Hub, policy string, logger *slog.Logger) *MenuHandler {
	return &MenuHandler{
		items:  items,
		users:  users,
		hub:    hub,
		policy: policy,
		logger: logger.With("component", "menu_handler"),
	}
}

// List returns the family's catalog ordered by most recent response, items
// nobody has reacted to last.
func (h *MenuHandler) List(w http.ResponseWriter, r *http.Request) {
	familyID, ok := h.requireFamily(w, r)
	if !ok {
		return
	}

	items, err := h.items.ListByFamily(familyID)
	if err != nil {
		h.logger.Error("list menu items", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list menu items")
		return
	}

	sorted := response.SortByRecentResponse(items)
	if sorted == nil {
		sorted = []model.MenuItem{}
	}
	writeJSON(w, http.StatusOK, sorted)
}

type createItemRequest struct {
	Title   string `json:"title"`
	Recipes []struct {
		Title      string `json:"title"`
		ImageURL   string `json:"image_url"`
		RecipeLink string `json:"recipe_link"`
		OrderLink  string `json:"order_link"`
	} `json:"recipes"`
}

// Create validates the item before anything is persisted. Recipe entries
// with blank titles are dropped; the request fails unless at least one named
// recipe remains, so an item always carries a recipe.
func (h *MenuHandler) Create(w http.ResponseWriter, r *http.Request) {
	familyID, ok := h.requireFamily(w, r)
	if !ok {
		return
	}

	var req createItemRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "menu item title is required")
		return
	}

	recipes := make([]model.Recipe, 0, len(req.Recipes))
	for _, rec := range req.Recipes {
		title := strings.TrimSpace(rec.Title)
		if title == "" {
			continue
		}
		recipes = append(recipes, model.Recipe{
			Position:   len(recipes),
			Title:      title,
			ImageURL:   rec.ImageURL,
			RecipeLink: rec.RecipeLink,
			OrderLink:  rec.OrderLink,
		})
	}
	if len(recipes) == 0 {
		writeError(w, http.StatusBadRequest, "at least one recipe with a title is required")
		return
	}

	item, err := h.items.Create(familyID, req.Title, recipes, auth.UserID(r.Context()))
	if err != nil {
		h.logger.Error("create menu item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create menu item")
		return
	}

	h.hub.Broadcast(familyID, websocket.NewMessage("menu_item", "created", item.ID, nil))
	writeJSON(w, http.StatusCreated, item)
}

func (h *MenuHandler) Get(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadItem(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type updateLinkRequest struct {
	Field string `json:"field"`
	URL   string `json:"url"`
}

// UpdateRecipeLink rewrites one link field on a recipe addressed by its
// position. A position that no longer exists is reported as a conflict so
// the client can reload the item.
func (h *MenuHandler) UpdateRecipeLink(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadItem(w, r)
	if !ok {
		return
	}

	position, err := strconv.Atoi(r.PathValue("index"))
	if err != nil || position < 0 {
		writeError(w, http.StatusBadRequest, "invalid recipe index")
		return
	}

	var req updateLinkRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	switch req.Field {
	case "image_url", "recipe_link", "order_link":
	default:
		writeError(w, http.StatusBadRequest, "unknown link field")
		return
	}

	updated, err := h.items.UpdateRecipeLink(item.ID, position, req.Field, req.URL)
	if err != nil {
		h.logger.Error("update recipe link", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update recipe link")
		return
	}
	if !updated {
		writeError(w, http.StatusConflict, "recipe no longer exists at that position")
		return
	}

	h.hub.Broadcast(item.FamilyID, websocket.NewMessage("menu_item", "updated", item.ID, nil))
	writeJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

type respondRequest struct {
	Type string `json:"type"`
}

// Respond records a reaction. Under the cooldown policy a user with a
// current (unexpired) response is rejected; under the clear policy they must
// clear explicitly but may respond again at any time.
func (h *MenuHandler) Respond(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadItem(w, r)
	if !ok {
		return
	}

	var req respondRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if !validResponseTypes[req.Type] {
		writeError(w, http.StatusBadRequest, "response type must be Nah, Interested, or Craving")
		return
	}

	userID := auth.UserID(r.Context())
	if h.policy == config.PolicyCooldown && !response.CanRespond(item.Responses, userID, time.Now()) {
		writeError(w, http.StatusConflict, "you already responded to this item in the last 24 hours")
		return
	}

	user, err := h.users.GetByID(userID)
	if err != nil || user == nil {
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return
	}

	resp, err := h.items.AddResponse(item.ID, userID, req.Type, user.Name, user.PhotoURL)
	if err != nil {
		h.logger.Error("add response", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record response")
		return
	}

	h.hub.Broadcast(item.FamilyID, websocket.NewMessage("response", "created", item.ID, map[string]any{
		"response_type": resp.Type,
	}))
	writeJSON(w, http.StatusCreated, resp)
}

// ClearResponse removes all of the user's responses on the item, not just
// the latest.
func (h *MenuHandler) ClearResponse(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadItem(w, r)
	if !ok {
		return
	}

	userID := auth.UserID(r.Context())
	if err := h.items.ClearResponses(item.ID, userID); err != nil {
		h.logger.Error("clear responses", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to clear responses")
		return
	}

	h.hub.Broadcast(item.FamilyID, websocket.NewMessage("response", "cleared", item.ID, nil))
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// Activity returns the recent-activity digest for one item: one line per
// reaction type covering the last 24 hours.
func (h *MenuHandler) Activity(w http.ResponseWriter, r *http.Request) {
	item, ok := h.loadItem(w, r)
	if !ok {
		return
	}

	activities := response.RecentActivityDescriptions(item.Responses, time.Now(), response.Window)
	if activities == nil {
		activities = []response.Activity{}
	}
	writeJSON(w, http.StatusOK, activities)
}

// loadItem fetches the item in the path and checks it belongs to the
// caller's current family. Cross-family items read as not found.
func (h *MenuHandler) loadItem(w http.ResponseWriter, r *http.Request) (*model.MenuItem, bool) {
	familyID, ok := h.requireFamily(w, r)
	if !ok {
		return nil, false
	}

	item, err := h.items.GetByID(r.PathValue("id"))
	if err != nil {
		h.logger.Error("get menu item", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load menu item")
		return nil, false
	}
	if item == nil || item.FamilyID != familyID {
		writeError(w, http.StatusNotFound, "menu item not found")
		return nil, false
	}
	return item, true
}

func (h *MenuHandler) requireFamily(w http.ResponseWriter, r *http.Request) (string, bool) {
	familyID := auth.FamilyID(r.Context())
	if familyID == "" {
		writeError(w, http.StatusBadRequest, "no family selected")
		return "", false
	}
	return familyID, true
}
