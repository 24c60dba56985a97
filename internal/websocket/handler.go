package websocket

import (
	"log"
	"net/http"
	"os"

	"dispatchly-backend/internal/middleware"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins; the mobile app connects from a webview
		return true
	},
}

// HandleWebSocket upgrades HTTP connection to WebSocket. The token arrives
// as a query parameter because the app's WebSocket client cannot set headers.
func HandleWebSocket(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tokenString := r.URL.Query().Get("token")
		if tokenString == "" {
			log.Println("❌ WebSocket connection without token")
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		jwtSecret := os.Getenv("APP_JWT_SECRET")
		if jwtSecret == "" {
			log.Println("❌ JWT secret not configured")
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		claims, err := middleware.ParseClaims(tokenString, jwtSecret)
		if err != nil {
			log.Printf("❌ Invalid token in query parameter: %v", err)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("❌ WebSocket upgrade failed: %v", err)
			return
		}

		client := NewClient(claims.UserID, claims.Role, claims.BusinessID, conn, hub)
		hub.register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}
