// Package realtime implements the room broadcaster: a mapping from list id
// to the set of live websocket sessions subscribed to it, with best-effort
// fan-out of item events. The hub is the ephemeral notification layer; the
// persisted state reachable through the read endpoints stays authoritative,
// and clients reconcile by re-fetching after a missed event.
package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/olomek/trolley/internal/metrics"
	"github.com/olomek/trolley/internal/service"
)

// Ensure the hub satisfies the fan-out capability the item service expects.
var _ service.Broadcaster = (*Hub)(nil)

// Hub holds the room map. All access goes through the mutex; join, leave and
// emit for different rooms still contend on it, which is fine at this scale.
type Hub struct {
	mu    sync.Mutex
	rooms map[string]map[*Session]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{rooms: make(map[string]map[*Session]struct{})}
}

// Join subscribes the session to the list's room. Idempotent. No membership
// check happens here: any authenticated connection may join any room id;
// the read endpoints remain the access gate for list state.
func (h *Hub) Join(s *Session, listID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	room := h.rooms[listID]
	if room == nil {
		room = make(map[*Session]struct{})
		h.rooms[listID] = room
	}
	if _, ok := room[s]; !ok {
		room[s] = struct{}{}
		metrics.RoomSubscribers.Inc()
	}
	slog.Debug("session joined room", "list_id", listID, "user_id", s.UserID)
}

// Leave unsubscribes the session from the list's room. Leaving a room that
// was never joined is a no-op.
func (h *Hub) Leave(s *Session, listID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.leaveLocked(s, listID)
	slog.Debug("session left room", "list_id", listID, "user_id", s.UserID)
}

// Disconnect removes the session from every room it was subscribed to.
// No further events are delivered to it.
func (h *Hub) Disconnect(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for listID, room := range h.rooms {
		if _, ok := room[s]; ok {
			h.leaveLocked(s, listID)
		}
	}
}

// Emit fans an event out to every session currently subscribed to the list's
// room. Delivery is best effort and unordered across sessions: a send failure
// is logged and dropped, never surfaced to the mutating caller.
func (h *Hub) Emit(listID, event string, payload any) {
	envelope, err := json.Marshal(struct {
		Event string `json:"event"`
		Data  any    `json:"data"`
	}{event, payload})
	if err != nil {
		slog.Error("failed to marshal event", "event", event, "error", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.rooms[listID] {
		s.write(envelope)
	}
	metrics.EventsEmitted.WithLabelValues(event).Inc()
	slog.Debug("event emitted", "event", event, "list_id", listID, "subscribers", len(h.rooms[listID]))
}

// Subscribers reports how many sessions are subscribed to the list's room.
func (h *Hub) Subscribers(listID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.rooms[listID])
}

func (h *Hub) leaveLocked(s *Session, listID string) {
	room := h.rooms[listID]
	if _, ok := room[s]; !ok {
		return
	}
	delete(room, s)
	metrics.RoomSubscribers.Dec()
	if len(room) == 0 {
		delete(h.rooms, listID)
	}
}
