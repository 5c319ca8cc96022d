package handlers

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/arnold/goalplan-api/internal/middleware"
)

// Event types sent over WebSocket
const (
	EventGoalCreated       = "goal_created"
	EventGoalUpdated       = "goal_updated"
	EventGoalDeleted       = "goal_deleted"
	EventAutoPlanCommitted = "auto_plan_committed"
)

// WSEvent is the JSON message sent to connected clients
type WSEvent struct {
	Type   string      `json:"type"`
	GoalID string      `json:"goalId"`
	Data   interface{} `json:"data,omitempty"`
}

// client is anything an event can be written to.
type client interface {
	WriteMessage(messageType int, data []byte) error
}

// Hub manages WebSocket connections per user. A user may be connected from
// several devices at once.
type Hub struct {
	mu    sync.RWMutex
	users map[uuid.UUID]map[client]bool
}

// Global hub instance
var WS = NewHub()

func NewHub() *Hub {
	return &Hub{users: make(map[uuid.UUID]map[client]bool)}
}

func (h *Hub) register(userID uuid.UUID, conn client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.users[userID] == nil {
		h.users[userID] = make(map[client]bool)
	}
	h.users[userID][conn] = true
	log.Printf("WS register: user %s connected (devices: %d)", userID, len(h.users[userID]))
}

func (h *Hub) unregister(userID uuid.UUID, conn client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.users[userID]; ok {
		delete(conns, conn)
		log.Printf("WS unregister: user %s disconnected (remaining: %d)", userID, len(conns))
		if len(conns) == 0 {
			delete(h.users, userID)
		}
	}
}

// Send writes an event to every connection of userID.
func (h *Hub) Send(userID uuid.UUID, event WSEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	conns, ok := h.users[userID]
	if !ok {
		return
	}

	msg, err := json.Marshal(event)
	if err != nil {
		log.Printf("WS send marshal error: %v", err)
		return
	}

	for c := range conns {
		if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
			log.Printf("WS write error: %v", err)
		}
	}
}

// WebSocketUpgrade is the middleware that checks the upgrade request and validates JWT
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		// Browsers cannot set headers on the upgrade, so ?token= is accepted too.
		tokenString := c.Query("token")
		if tokenString == "" {
			tokenString = middleware.BearerToken(c)
		}

		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authentication token",
			})
		}

		claims, err := middleware.ParseToken(tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("userId", claims.UserID)
		return c.Next()
	}
}

// HandleWebSocket streams the authenticated user's goal events
func HandleWebSocket(c *websocket.Conn) {
	userID, ok := c.Locals("userId").(uuid.UUID)
	if !ok {
		c.Close()
		return
	}

	WS.register(userID, c)
	defer WS.unregister(userID, c)

	// Reads only keep the connection alive
	for {
		if _, _, err := c.ReadMessage(); err != nil {
			break
		}
	}
}
