// Package server wires the stores, services, and handlers into one HTTP
// server.
package server

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/jcalloway/larder/internal/calendar"
	"github.com/jcalloway/larder/internal/config"
	"github.com/jcalloway/larder/internal/email"
	"github.com/jcalloway/larder/internal/family"
	"github.com/jcalloway/larder/internal/handler"
	"github.com/jcalloway/larder/internal/middleware"
	"github.com/jcalloway/larder/internal/preview"
	"github.com/jcalloway/larder/internal/store"
	"github.com/jcalloway/larder/internal/websocket"
)

type Server struct {
	cfg    config.Config
	logger *slog.Logger
	hub    *websocket.Hub

	users    *store.UserStore
	sessions *store.SessionStore
	families *store.FamilyStore

	authHandler       *handler.AuthHandler
	familyHandler     *handler.FamilyHandler
	menuHandler       *handler.MenuHandler
	scheduleHandler   *handler.ScheduleHandler
	restaurantHandler *handler.RestaurantHandler
	previewHandler    *handler.PreviewHandler

	limiter *middleware.RateLimiter
}

func New(db *sql.DB, cfg config.Config, cal *calendar.Service, logger *slog.Logger) *Server {
	users := store.NewUserStore(db)
	sessions := store.NewSessionStore(db)
	families := store.NewFamilyStore(db)
	items := store.NewMenuItemStore(db)
	restaurants := store.NewRestaurantStore(db)

	hub := websocket.NewHub(logger.With("component", "websocket"))
	familyService := family.NewService(families, users, logger.With("component", "family_service"))
	emailClient := email.NewClient(cfg.PostmarkToken, cfg.FromEmail, cfg.BaseURL)
	fetcher := preview.NewFetcher()

	return &Server{
		cfg:      cfg,
		logger:   logger,
		hub:      hub,
		users:    users,
		sessions: sessions,
		families: families,

		authHandler:       handler.NewAuthHandler(users, sessions, familyService, logger),
		familyHandler:     handler.NewFamilyHandler(familyService, families, emailClient, hub, logger),
		menuHandler:       handler.NewMenuHandler(items, users, hub, cfg.ResponsePolicy, logger),
		scheduleHandler:   handler.NewScheduleHandler(cal, families, items, logger),
		restaurantHandler: handler.NewRestaurantHandler(restaurants, items, hub, logger),
		previewHandler:    handler.NewPreviewHandler(fetcher, logger),

		limiter: middleware.NewRateLimiter(),
	}
}

// Router builds the full route table. Auth endpoints are public and rate
// limited by client IP; everything else requires a valid session.
func (s *Server) Router() http.Handler {
	authLimit := middleware.RateLimit(s.limiter, middleware.RealIP, 10, time.Minute)
	requireAuth := middleware.RequireAuth(s.sessions, s.users, s.families)

	public := http.NewServeMux()
	public.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	public.Handle("POST /register", authLimit(http.HandlerFunc(s.authHandler.Register)))
	public.Handle("POST /login", authLimit(http.HandlerFunc(s.authHandler.Login)))

	protected := http.NewServeMux()
	protected.HandleFunc("POST /logout", s.authHandler.Logout)
	protected.HandleFunc("GET /api/me", s.authHandler.Me)
	protected.HandleFunc("PUT /api/me", s.authHandler.UpdateMe)
	protected.HandleFunc("DELETE /api/me", s.authHandler.DeleteMe)

	protected.HandleFunc("POST /api/families", s.familyHandler.Create)
	protected.HandleFunc("POST /api/families/join", s.familyHandler.Join)
	protected.HandleFunc("POST /api/families/switch", s.familyHandler.Switch)
	protected.HandleFunc("GET /api/families/current", s.familyHandler.Current)
	protected.HandleFunc("DELETE /api/families/{id}/members/{userId}", s.familyHandler.RemoveMember)
	protected.HandleFunc("PUT /api/families/{id}/pin", s.familyHandler.UpdatePin)
	protected.HandleFunc("PUT /api/families/{id}/calendar", s.familyHandler.UpdateCalendar)
	protected.HandleFunc("POST /api/families/{id}/invite", s.familyHandler.Invite)

	protected.HandleFunc("GET /api/menu-items", s.menuHandler.List)
	protected.HandleFunc("POST /api/menu-items", s.menuHandler.Create)
	protected.HandleFunc("GET /api/menu-items/{id}", s.menuHandler.Get)
	protected.HandleFunc("PUT /api/menu-items/{id}/recipes/{index}/links", s.menuHandler.UpdateRecipeLink)
	protected.HandleFunc("POST /api/menu-items/{id}/responses", s.menuHandler.Respond)
	protected.HandleFunc("DELETE /api/menu-items/{id}/responses", s.menuHandler.ClearResponse)
	protected.HandleFunc("GET /api/menu-items/{id}/activity", s.menuHandler.Activity)

	protected.HandleFunc("GET /api/schedule", s.scheduleHandler.Get)

	protected.HandleFunc("GET /api/restaurants", s.restaurantHandler.List)
	protected.HandleFunc("POST /api/restaurants", s.restaurantHandler.Create)
	protected.HandleFunc("DELETE /api/restaurants/{id}", s.restaurantHandler.Delete)

	protected.HandleFunc("GET /api/link-preview", s.previewHandler.Get)

	protected.Handle("GET /ws", websocket.HandleWebSocket(s.hub))

	root := http.NewServeMux()
	root.Handle("/", public)
	root.Handle("/api/", requireAuth(protected))
	root.Handle("POST /logout", requireAuth(protected))
	root.Handle("GET /ws", requireAuth(protected))

	return middleware.RequestLogger(s.logger)(root)
}

// StartBackgroundJobs launches the periodic cleanup loops. They stop when
// the context is canceled.
func (s *Server) StartBackgroundJobs(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				n, err := s.sessions.DeleteExpired()
				if err != nil {
					s.logger.Error("session cleanup", "error", err)
				} else if n > 0 {
					s.logger.Info("expired sessions removed", "count", n)
				}
				s.limiter.Cleanup()
			}
		}
	}()
}
