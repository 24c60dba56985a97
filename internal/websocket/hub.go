package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"dispatchly-backend/internal/metrics"
)

// Hub maintains active WebSocket connections and broadcasts messages
type Hub struct {
	// Registered clients (userID -> Client)
	clients map[string]*Client

	// Inbound messages from clients
	broadcast chan *Message

	// Register requests from clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Mutex for thread-safe client map access
	mu sync.RWMutex
}

// Message represents a message to broadcast to a specific user
type Message struct {
	UserID string
	Data   interface{}
}

// NewHub creates a new Hub instance
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run starts the hub's main loop
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.UserID] = client
			h.mu.Unlock()
			metrics.WebsocketConnections.Inc()
			log.Printf("✅ [WEBSOCKET] Client connected: %s (%s), total: %d",
				client.UserID, client.UserRole, h.clientCount())

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.UserID]; ok {
				delete(h.clients, client.UserID)
				close(client.send)
				metrics.WebsocketConnections.Dec()
				log.Printf("🔴 [WEBSOCKET] Client disconnected: %s, remaining: %d",
					client.UserID, len(h.clients))
			}
			h.mu.Unlock()

		case message := <-h.broadcast:
			data, err := json.Marshal(message.Data)
			if err != nil {
				log.Printf("❌ Failed to marshal message: %v", err)
				continue
			}

			// Full write lock: the slow-client path below mutates the map,
			// and BroadcastToBusiness iterates it concurrently under RLock
			h.mu.Lock()
			if client, ok := h.clients[message.UserID]; ok {
				select {
				case client.send <- data:
				default:
					// Client buffer full, disconnect
					close(client.send)
					delete(h.clients, message.UserID)
					metrics.WebsocketConnections.Dec()
					log.Printf("⚠️ Client buffer full, disconnecting: %s", message.UserID)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) clientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// BroadcastToUser sends a message to a specific user
func (h *Hub) BroadcastToUser(userID string, data interface{}) {
	h.broadcast <- &Message{
		UserID: userID,
		Data:   data,
	}
}

// BroadcastToBusiness sends a message to every connected user of a business.
// A merchant account may be signed in on several devices at once; all of
// them should see order and batch updates immediately.
func (h *Hub) BroadcastToBusiness(businessID int64, data interface{}) {
	h.mu.RLock()
	var userIDs []string
	for _, client := range h.clients {
		if client.BusinessID == businessID {
			userIDs = append(userIDs, client.UserID)
		}
	}
	h.mu.RUnlock()

	for _, userID := range userIDs {
		h.BroadcastToUser(userID, data)
	}
}
