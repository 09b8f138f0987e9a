// Package session implements the Client Session from spec.md §4.E: one
// task per accepted WebSocket upgrade, running the state machine described
// in §4.E's table (Opening -> Registered -> Draining -> Closed).
package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/bsteffaniak/chadreview-relay/internal/domain/event"
	"github.com/bsteffaniak/chadreview-relay/internal/domain/registry"
	"github.com/bsteffaniak/chadreview-relay/internal/telemetry"
)

// closeCodeUnsupportedData is the WebSocket close code (1003, "unsupported
// data") spec.md §6 requires for malformed client frames. Defined here
// (rather than imported from gorilla/websocket) so session stays free of a
// direct transport dependency and testable against the plain Socket
// interface.
const closeCodeUnsupportedData = 1003

// Socket is the minimal transport the session needs from the WebSocket
// library: read one command frame, write one server-message frame, and
// close. Abstracting it lets session be tested without a real network
// connection, the way the teacher abstracts transport behind its
// Connector interface.
type Socket interface {
	ReadCommand() (event.ClientCommand, error)
	WriteMessage(event.ServerMessage) error
	Close() error

	// CloseWithCode closes the connection after sending a WebSocket close
	// frame carrying the given status code and reason, for the paths
	// (spec.md §6: malformed JSON) that must report a specific close code
	// rather than a bare transport hang-up.
	CloseWithCode(code int, reason string) error
}

// CloseReason records why a session transitioned to Draining, for the
// relay_session_closed_total metric (SPEC_FULL.md §7).
type CloseReason string

const (
	ReasonDisplaced      CloseReason = "displaced"
	ReasonIdleTimeout    CloseReason = "idle_timeout"
	ReasonTransportError CloseReason = "transport_error"
	ReasonPeerClose      CloseReason = "peer_close"
	ReasonShutdown       CloseReason = "shutdown"
	ReasonMalformedFrame CloseReason = "malformed_frame"
)

// Session drives one connection's lifecycle per spec.md §4.E.
type Session struct {
	iid      string
	sock     Socket
	conn     *registry.Connection
	registry *registry.Registry
	metrics  *telemetry.Metrics
	logger   *slog.Logger

	idleTimeout  time.Duration
	drainTimeout time.Duration

	// closeCode, when non-zero, is the WebSocket close code teardown sends
	// before closing the socket. Only the malformed-frame path sets it
	// (spec.md §6); every other teardown path closes without one.
	closeCode int
}

// New constructs a Session for an already-registered Connection. The
// caller (the HTTP transport layer) is responsible for the upgrade and for
// calling registry.Register before constructing the Session, matching the
// "Opening -> Registered (after register)" transition in spec.md §4.E.
func New(
	iid string,
	sock Socket,
	conn *registry.Connection,
	reg *registry.Registry,
	metrics *telemetry.Metrics,
	logger *slog.Logger,
	idleTimeout, drainTimeout time.Duration,
) *Session {
	return &Session{
		iid:          iid,
		sock:         sock,
		conn:         conn,
		registry:     reg,
		metrics:      metrics,
		logger:       logger.With("iid", iid, "conn_id", conn.Token()),
		idleTimeout:  idleTimeout,
		drainTimeout: drainTimeout,
	}
}

// Run blocks for the lifetime of the connection: it multiplexes inbound
// frames, outbound queue delivery, the heartbeat timer, and the
// displacement signal, and tears the session down on whichever fires
// first triggers a terminal transition (spec.md §4.E, §5).
//
// The ordering between inbound and outbound readiness within a single wake
// is intentionally left to Go's pseudo-random select-case choice, matching
// spec.md §4.E: "the first to fire wins; ordering... is unspecified and
// MUST NOT be relied on by clients."
func (s *Session) Run(ctx context.Context) {
	defer s.teardown()

	done := make(chan struct{})
	defer close(done)

	inbound := make(chan event.ClientCommand)
	readErr := make(chan error, 1)
	go s.readLoop(inbound, readErr, done)

	idle := time.NewTimer(s.idleTimeout)
	defer idle.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-s.conn.Displaced():
			s.metrics.SessionClosed(string(ReasonDisplaced))
			s.drain()
			return

		case <-s.conn.ShutdownSignal():
			s.metrics.SessionClosed(string(ReasonShutdown))
			s.drain()
			return

		case <-idle.C:
			s.metrics.SessionClosed(string(ReasonIdleTimeout))
			s.drain()
			return

		case err := <-readErr:
			switch {
			case err == errPeerClose:
				s.metrics.SessionClosed(string(ReasonPeerClose))
			case errors.Is(err, event.ErrMalformedFrame):
				s.logger.Warn("malformed client frame", "err", err)
				s.metrics.SessionClosed(string(ReasonMalformedFrame))
				s.closeCode = closeCodeUnsupportedData
			default:
				s.logger.Warn("transport read error", "err", err)
				s.metrics.SessionClosed(string(ReasonTransportError))
			}
			s.drain()
			return

		case cmd := <-inbound:
			s.conn.Touch()
			resetTimer(idle, s.idleTimeout)
			if err := s.handleCommand(cmd); err != nil {
				s.logger.Warn("transport write error", "err", err)
				s.metrics.SessionClosed(string(ReasonTransportError))
				s.drain()
				return
			}

		case msg, ok := <-s.conn.Outbound():
			if !ok {
				return
			}
			if err := s.sock.WriteMessage(msg); err != nil {
				s.logger.Warn("transport write error", "err", err)
				s.metrics.SessionClosed(string(ReasonTransportError))
				s.drain()
				return
			}
		}
	}
}

func resetTimer(t *time.Timer, d time.Duration) {
	if !t.Stop() {
		select {
		case <-t.C:
		default:
		}
	}
	t.Reset(d)
}

// handleCommand applies one client command to the subscription index and
// replies, per spec.md §4.E's "Command handling" table.
func (s *Session) handleCommand(cmd event.ClientCommand) error {
	switch cmd.Kind {
	case event.CommandSubscribe:
		s.conn.Subscriptions().Add(cmd.PRKey)
		return s.sock.WriteMessage(event.Subscribed(cmd.PRKey))

	case event.CommandUnsubscribe:
		s.conn.Subscriptions().Remove(cmd.PRKey)
		return s.sock.WriteMessage(event.Unsubscribed(cmd.PRKey))

	case event.CommandPing:
		return s.sock.WriteMessage(event.Pong())

	default:
		// Unknown tags are ignored (spec.md §6): no reply, no disconnect.
		return nil
	}
}

// teardown runs when Run returns, after any drain: it deregisters the
// connection (a no-op when drain already did) and closes the socket,
// sending the recorded close code first when one is set.
func (s *Session) teardown() {
	s.registry.Deregister(s.iid, s.conn.Token())
	if s.closeCode != 0 {
		_ = s.sock.CloseWithCode(s.closeCode, "malformed frame")
		return
	}
	_ = s.sock.Close()
}

// drain deregisters the connection immediately on entry to Draining, so
// concurrent webhooks for this iid see no_instance rather than enqueuing
// into a dying queue, then attempts to flush whatever is left in the
// outbound queue within the bounded drain deadline before teardown closes
// the socket (spec.md §4.E "Teardown", §5 "Cancellation and timeouts").
func (s *Session) drain() {
	s.registry.Deregister(s.iid, s.conn.Token())

	deadline := time.After(s.drainTimeout)
	for {
		select {
		case msg, ok := <-s.conn.Outbound():
			if !ok {
				return
			}
			if err := s.sock.WriteMessage(msg); err != nil {
				return
			}
		case <-deadline:
			return
		}
	}
}

var errPeerClose = errClosedByPeer{}

type errClosedByPeer struct{}

func (errClosedByPeer) Error() string { return "session: closed by peer" }

// readLoop pumps ReadCommand into inbound until it errors, forwarding the
// terminal error (or errPeerClose for a clean close) on readErr. It runs
// on its own goroutine because ReadCommand blocks on network I/O and must
// not hold up the select in Run. It also selects on done so that once Run
// has returned (and closed the socket in teardown), this goroutine exits
// instead of leaking on a blocked send to inbound.
func (s *Session) readLoop(inbound chan<- event.ClientCommand, readErr chan<- error, done <-chan struct{}) {
	for {
		cmd, err := s.sock.ReadCommand()
		if err != nil {
			if errors.Is(err, event.ErrUnknownCommand) {
				// Well-formed but unrecognized tag: ignored per spec.md §6,
				// not a terminal error. Keep reading.
				continue
			}
			select {
			case readErr <- err:
			case <-done:
			}
			return
		}
		select {
		case inbound <- cmd:
		case <-done:
			return
		}
	}
}
