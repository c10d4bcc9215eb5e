package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/jcalloway/larder/internal/auth"
	"github.com/jcalloway/larder/internal/store"
)

const sessionCookieName = "larder_session"

// RequireAuth validates the session cookie and populates AuthContext with
// the user and their current family (when one is set and the membership
// still exists).
func RequireAuth(sessionStore *store.SessionStore, userStore *store.UserStore, familyStore *store.FamilyStore) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil || cookie.Value == "" {
				unauthorized(w)
				return
			}

			sess, err := sessionStore.GetByToken(cookie.Value)
			if err != nil || sess == nil {
				unauthorized(w)
				return
			}

			user, err := userStore.GetByID(sess.UserID)
			if err != nil || user == nil {
				unauthorized(w)
				return
			}

			ac := auth.AuthContext{
				UserID:    user.ID,
				SessionID: sess.ID,
			}

			if user.CurrentFamilyID != nil {
				member, err := familyStore.GetMember(*user.CurrentFamilyID, user.ID)
				if err == nil && member != nil {
					ac.FamilyID = member.FamilyID
					ac.IsAdmin = member.IsAdmin
				}
			}

			ctx := auth.WithAuth(r.Context(), ac)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin checks that the authenticated user is an admin of their
// current family.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !auth.IsAdmin(r.Context()) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"error": "admin access required"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
}
