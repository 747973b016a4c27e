package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/olomek/trolley/internal/auth"
	"github.com/olomek/trolley/internal/metrics"
)

// Control actions a connected client may send.
const (
	actionJoin  = "join"
	actionLeave = "leave"
)

// controlMessage is a join/leave frame from the client.
type controlMessage struct {
	Action string `json:"action"`
	ListID string `json:"listId"`
}

// Handler upgrades websocket connections, authenticates them and runs the
// per-session read loop.
type Handler struct {
	hub      *Hub
	tokens   *auth.JWTManager
	upgrader websocket.Upgrader
}

// NewHandler creates the websocket endpoint handler.
func NewHandler(hub *Hub, tokens *auth.JWTManager) *Handler {
	return &Handler{
		hub:    hub,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			// The bearer token is the access control; cross-origin
			// browser clients are expected.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP performs the handshake. The bearer token travels in the token
// query parameter since browsers cannot set headers on websocket dials.
// A missing or invalid token refuses the connection before any room
// operation is possible.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		slog.Warn("websocket connection without token", "remote_addr", r.RemoteAddr)
		http.Error(w, "token required", http.StatusUnauthorized)
		return
	}
	claims, err := h.tokens.Validate(token)
	if err != nil {
		slog.Warn("websocket connection with invalid token", "remote_addr", r.RemoteAddr)
		http.Error(w, "invalid token", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "error", err)
		return
	}

	sess := NewSession(claims.UserID, conn)
	metrics.WSConnections.Inc()
	slog.Info("websocket connected", "user_id", sess.UserID, "remote_addr", r.RemoteAddr)

	h.readLoop(sess, conn)

	h.hub.Disconnect(sess)
	conn.Close()
	metrics.WSConnections.Dec()
	slog.Info("websocket disconnected", "user_id", sess.UserID)
}

// readLoop consumes join/leave frames until the client goes away. Unknown
// actions and malformed frames are ignored; the connection stays up.
func (h *Handler) readLoop(sess *Session, conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				slog.Debug("websocket read ended", "user_id", sess.UserID, "error", err)
			}
			return
		}

		var msg controlMessage
		if err := json.Unmarshal(raw, &msg); err != nil || msg.ListID == "" {
			continue
		}

		switch msg.Action {
		case actionJoin:
			h.hub.Join(sess, msg.ListID)
			h.ack(sess, "joined-list", msg.ListID)
		case actionLeave:
			h.hub.Leave(sess, msg.ListID)
			h.ack(sess, "left-list", msg.ListID)
		}
	}
}

// ack confirms a control action back to the requesting session only.
func (h *Handler) ack(sess *Session, event, listID string) {
	payload, err := json.Marshal(struct {
		Event string `json:"event"`
		Data  struct {
			ListID string `json:"listId"`
		} `json:"data"`
	}{Event: event, Data: struct {
		ListID string `json:"listId"`
	}{listID}})
	if err != nil {
		return
	}
	sess.write(payload)
}
