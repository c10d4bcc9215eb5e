package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/jcalloway/larder/internal/auth"
	"github.com/jcalloway/larder/internal/model"
	"github.com/jcalloway/larder/internal/store"
	"github.com/jcalloway/larder/internal/websocket"
)

type RestaurantHandler struct {
	restaurants *store.RestaurantStore
	items       *store.MenuItemStore
	hub         *websocket.Hub
	logger      *slog.Logger
}

func NewRestaurantHandler(restaurants *store.RestaurantStore, items *store.MenuItemStore, hub *websocket.Hub, logger *slog.Logger) *RestaurantHandler {
	return &RestaurantHandler{
		restaurants: restaurants,
		items:       items,
		hub:         hub,
		logger:      logger.With("component", "restaurant_handler"),
	}
}

func (h *RestaurantHandler) List(w http.ResponseWriter, r *http.Request) {
	familyID := auth.FamilyID(r.Context())
	if familyID == "" {
		writeError(w, http.StatusBadRequest, "no family selected")
		return
	}

	restaurants, err := h.restaurants.ListByFamily(familyID)
	if err != nil {
		h.logger.Error("list restaurants", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list restaurants")
		return
	}
	if restaurants == nil {
		restaurants = []model.Restaurant{}
	}
	writeJSON(w, http.StatusOK, restaurants)
}

type createRestaurantRequest struct {
	Name        string   `json:"name"`
	MenuItemIDs []string `json:"menu_item_ids"`
}

// Create groups existing menu items under a restaurant. Every referenced
// item must exist in the caller's family.
func (h *RestaurantHandler) Create(w http.ResponseWriter, r *http.Request) {
	familyID := auth.FamilyID(r.Context())
	if familyID == "" {
		writeError(w, http.StatusBadRequest, "no family selected")
		return
	}

	var req createRestaurantRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "restaurant name is required")
		return
	}

	for _, itemID := range req.MenuItemIDs {
		item, err := h.items.GetByID(itemID)
		if err != nil {
			h.logger.Error("check menu item", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to create restaurant")
			return
		}
		if item == nil || item.FamilyID != familyID {
			writeError(w, http.StatusBadRequest, "unknown menu item "+itemID)
			return
		}
	}

	rest, err := h.restaurants.Create(familyID, req.Name, req.MenuItemIDs)
	if err != nil {
		h.logger.Error("create restaurant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create restaurant")
		return
	}

	h.hub.Broadcast(familyID, websocket.NewMessage("restaurant", "created", rest.ID, nil))
	writeJSON(w, http.StatusCreated, rest)
}

func (h *RestaurantHandler) Delete(w http.ResponseWriter, r *http.Request) {
	familyID := auth.FamilyID(r.Context())
	if familyID == "" {
		writeError(w, http.StatusBadRequest, "no family selected")
		return
	}

	rest, err := h.restaurants.GetByID(r.PathValue("id"))
	if err != nil {
		h.logger.Error("get restaurant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete restaurant")
		return
	}
	if rest == nil || rest.FamilyID != familyID {
		writeError(w, http.StatusNotFound, "restaurant not found")
		return
	}

	if err := h.restaurants.Delete(rest.ID); err != nil {
		h.logger.Error("delete restaurant", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete restaurant")
		return
	}

	h.hub.Broadcast(familyID, websocket.NewMessage("restaurant", "deleted", rest.ID, nil))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
