// Package realtime is the advisory notification layer: websocket clients join
// rooms keyed by brand id and the server broadcasts UI-refresh events into
// them.  Delivery is fire-and-forget; there is no ordering, acknowledgment or
// replay, and no business logic may depend on an event arriving.
package realtime

import (
	"encoding/json"
	"log"
	"sync"
)

// RoomPrefix namespaces brand rooms; clients join "brand_<id>".
const RoomPrefix = "brand_"

// BrandRoom returns the room name for a brand id.
func BrandRoom(brandID string) string { return RoomPrefix + brandID }

// envelope is the wire shape of every broadcast frame.
type envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub is the process-scoped room registry.  Membership is populated when a
// client sends a join frame and cleared on disconnect; a restart empties it
// and clients simply reconnect and rejoin.
type Hub struct {
	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
}

// NewHub returns an empty hub.  Run must be started on its own goroutine.
func NewHub() *Hub {
	return &Hub{
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes connect/disconnect traffic until the process exits.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			// Nothing to do until the client joins a room; registration
			// exists so unregister always has a matching entry.
			_ = c
		case c := <-h.unregister:
			h.mu.Lock()
			for room := range c.rooms {
				h.leaveLocked(room, c)
			}
			h.mu.Unlock()
			close(c.send)
		}
	}
}

// Join adds a client to a room.
func (h *Hub) Join(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	members, ok := h.rooms[room]
	if !ok {
		members = make(map[*Client]struct{})
		h.rooms[room] = members
	}
	members[c] = struct{}{}
	c.rooms[room] = struct{}{}
}

// Leave removes a client from a room.
func (h *Hub) Leave(room string, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(room, c)
}

func (h *Hub) leaveLocked(room string, c *Client) {
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	delete(c.rooms, room)
}

// Broadcast sends an event to every client in the room.  Slow clients whose
// send buffer is full just miss the frame; nothing blocks the caller.
func (h *Hub) Broadcast(room, event string, data interface{}) {
	payload, err := json.Marshal(envelope{Event: event, Data: data})
	if err != nil {
		log.Printf("realtime: marshal %s event failed: %v", event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		select {
		case c.send <- payload:
		default:
			// Buffer full; drop the frame for this client.
		}
	}
}

// RoomSize reports current membership, used by tests and the health surface.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}
