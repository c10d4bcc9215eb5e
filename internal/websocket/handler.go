package websocket

import (
	"log"
	"net/http"

	ws "github.com/coder/websocket"

	"github.com/jcalloway/larder/internal/auth"
)

// HandleWebSocket returns an HTTP handler that upgrades connections to
// WebSocket and subscribes them to the requester's current family.
func HandleWebSocket(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		familyID := auth.FamilyID(r.Context())
		if familyID == "" {
			http.Error(w, "no family selected", http.StatusBadRequest)
			return
		}

		conn, err := ws.Accept(w, r, &ws.AcceptOptions{
			InsecureSkipVerify: true, // Allow connections from any origin (household LAN)
		})
		if err != nil {
			log.Printf("websocket: accept: %v", err)
			return
		}

		client := NewClient(hub, conn, familyID)
		client.Run(r.Context())
	}
}
