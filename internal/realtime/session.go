package realtime

import (
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// messageWriter is the subset of *websocket.Conn the session needs.
// Tests substitute a capturing writer.
type messageWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// Session is one live, authenticated client connection. The account id is
// extracted from the bearer token during the handshake and fixed for the
// session's lifetime.
type Session struct {
	UserID string

	conn    messageWriter
	writeMu sync.Mutex
}

// NewSession wraps an established connection for the given account.
func NewSession(userID string, conn messageWriter) *Session {
	return &Session{UserID: userID, conn: conn}
}

// write sends one text frame. The mutex serializes writers: the hub's emit
// path and the read loop's acks may run concurrently, and the underlying
// connection does not allow concurrent writes. Errors are logged and
// dropped; a dead connection is reaped by its read loop.
func (s *Session) write(payload []byte) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
		slog.Warn("websocket write failed", "user_id", s.UserID, "error", err)
	}
}
