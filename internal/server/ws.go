package server

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/renderix/triggerhand/internal/gesture"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// EventHub broadcasts fired triggers and per-frame pose updates to
// WebSocket clients. The pipeline pushes into the hub; clients only
// listen.
type EventHub struct {
	clients map[*websocket.Conn]bool
	mu      sync.Mutex
}

// NewEventHub creates a new EventHub with no connected clients.
func NewEventHub() *EventHub {
	return &EventHub{
		clients: make(map[*websocket.Conn]bool),
	}
}

// triggerMessage is sent when a trigger fires.
type triggerMessage struct {
	Type      string  `json:"type"`
	Kind      string  `json:"kind"`
	Timestamp float64 `json:"timestamp"`
}

// poseMessage is sent on pose state updates.
type poseMessage struct {
	Type   string           `json:"type"`
	IsPose bool             `json:"is_pose"`
	Anchor *gesture.Point2D `json:"anchor,omitempty"`
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *EventHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade error: %v", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	// Keep connection alive by reading messages
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// BroadcastTrigger sends a fired trigger to all connected clients.
func (h *EventHub) BroadcastTrigger(event gesture.TriggerEvent) {
	h.broadcast(triggerMessage{
		Type:      "trigger",
		Kind:      string(event.Kind),
		Timestamp: event.Timestamp,
	})
}

// BroadcastPose sends the current pose state to all connected clients.
// The anchor is the smoothed aim point and is omitted while no pose is
// held.
func (h *EventHub) BroadcastPose(isPose bool, anchor *gesture.Point2D) {
	h.broadcast(poseMessage{
		Type:   "pose",
		IsPose: isPose,
		Anchor: anchor,
	})
}

// ClientCount returns the number of connected clients.
func (h *EventHub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// broadcast marshals msg and writes it to every connected client.
// Clients whose writes fail are dropped.
func (h *EventHub) broadcast(msg any) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(h.clients, conn)
		}
	}
}
