package handlers

import "github.com/google/uuid"

// RegisterDevice attaches conn to the hub as one of userID's devices.
func (h *Hub) RegisterDevice(userID uuid.UUID, conn interface {
	WriteMessage(messageType int, data []byte) error
}) {
	h.register(userID, conn)
}
