// Package http wires the relay's HTTP surface from spec.md §6: the health
// probe, the WebSocket upgrade endpoint and the webhook ingress endpoint,
// plus the admin /debug/stats endpoint added by SPEC_FULL.md §6.
package http

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bsteffaniak/chadreview-relay/internal/domain/event"
)

// closeFrameWriteWait bounds how long writing a close control frame may
// block before wsSocket gives up and closes the TCP connection anyway.
const closeFrameWriteWait = 5 * time.Second

// wsSocket adapts a *websocket.Conn to session.Socket, the narrow interface
// the session state machine depends on. Grounded on the teacher's
// internal/handler/ws/delivery.go pump loop, split into Read/Write/Close so
// session can own the select-based multiplexing instead of the handler.
type wsSocket struct {
	conn *websocket.Conn
}

func newWSSocket(conn *websocket.Conn) *wsSocket {
	return &wsSocket{conn: conn}
}

// ReadCommand blocks for the next text frame and decodes it as a
// ClientCommand. event.UnmarshalClientCommand distinguishes a
// well-formed-but-unrecognized tag (event.ErrUnknownCommand, ignored by the
// caller) from syntactically invalid JSON (event.ErrMalformedFrame, closed
// with code 1003 by the caller), per spec.md §6.
func (s *wsSocket) ReadCommand() (event.ClientCommand, error) {
	_, raw, err := s.conn.ReadMessage()
	if err != nil {
		return event.ClientCommand{}, err
	}
	return event.UnmarshalClientCommand(raw)
}

// WriteMessage marshals msg per its tagged-union JSON schema and writes it
// as a single text frame.
func (s *wsSocket) WriteMessage(msg event.ServerMessage) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return s.conn.WriteMessage(websocket.TextMessage, raw)
}

func (s *wsSocket) Close() error {
	return s.conn.Close()
}

// CloseWithCode writes a WebSocket close control frame carrying code and
// reason, then closes the underlying connection. Used for the malformed-
// JSON path, where spec.md §6 requires close code 1003 rather than a bare
// hang-up.
func (s *wsSocket) CloseWithCode(code int, reason string) error {
	deadline := time.Now().Add(closeFrameWriteWait)
	_ = s.conn.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(code, reason), deadline)
	return s.conn.Close()
}
