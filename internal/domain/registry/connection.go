// Package registry implements the Connection Registry (spec.md §4.B) and
// the per-connection Subscription Index (spec.md §4.C): the instance-keyed
// map from iid to a live WebSocket connection handle, and that handle's set
// of subscribed PR keys.
package registry

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/bsteffaniak/chadreview-relay/internal/domain/event"
)

// Connection is the Connection Handle described in spec.md §3: it owns the
// send half of the socket (serialized through a bounded outbound queue),
// the subscription set, a creation timestamp, and a liveness marker.
//
// Modeled on the teacher's registry.connect, with the sync.Pool recycling
// and multi-session multiplexing removed: spec.md invariant I1 permits at
// most one live Connection per iid, so there is no per-user actor
// multiplexing several sockets to reuse a pooled object across.
type Connection struct {
	// token is the identity compared by Deregister to make removal
	// ABA-safe: a late-exiting superseded session must not evict its
	// successor (spec.md §4.B).
	token uuid.UUID

	instanceID string
	createdAt  time.Time

	outbound chan event.ServerMessage
	subs     *SubscriptionSet

	// displaced is closed exactly once, by Register, when this connection
	// is superseded by a newer one for the same iid (spec.md §3 Lifecycle).
	displaced     chan struct{}
	displacedOnce int32

	// shutdown is closed exactly once, by Registry.Shutdown, when the
	// process is exiting and every still-registered session must drain
	// (added for graceful shutdown).
	shutdown     chan struct{}
	shutdownOnce int32

	lastActivityUnixNano int64
}

// NewConnection allocates a Connection Handle with the given outbound queue
// capacity (spec.md §5, default 256).
func NewConnection(instanceID string, outboundCapacity int) *Connection {
	return &Connection{
		token:                uuid.New(),
		instanceID:           instanceID,
		createdAt:            time.Now(),
		outbound:             make(chan event.ServerMessage, outboundCapacity),
		subs:                 NewSubscriptionSet(),
		displaced:            make(chan struct{}),
		shutdown:             make(chan struct{}),
		lastActivityUnixNano: time.Now().UnixNano(),
	}
}

// Token returns the identity token used for ABA-safe deregistration.
func (c *Connection) Token() uuid.UUID { return c.token }

// InstanceID returns the iid this connection is registered under.
func (c *Connection) InstanceID() string { return c.instanceID }

// CreatedAt returns the connection's creation timestamp.
func (c *Connection) CreatedAt() time.Time { return c.createdAt }

// Subscriptions returns the per-connection Subscription Index (spec.md
// §4.C).
func (c *Connection) Subscriptions() *SubscriptionSet { return c.subs }

// Touch records inbound activity, as reported by IdleSince. The owning
// session's idle deadline is its own timer, which it resets separately.
func (c *Connection) Touch() {
	atomic.StoreInt64(&c.lastActivityUnixNano, time.Now().UnixNano())
}

// IdleSince returns how long it has been since the last recorded activity.
func (c *Connection) IdleSince() time.Duration {
	last := atomic.LoadInt64(&c.lastActivityUnixNano)
	return time.Since(time.Unix(0, last))
}

// Enqueue pushes a server message onto the outbound queue without
// blocking. It reports false — backpressure, spec.md §4.D step 6 — if the
// queue is full.
func (c *Connection) Enqueue(msg event.ServerMessage) bool {
	select {
	case c.outbound <- msg:
		return true
	default:
		return false
	}
}

// Outbound returns the receive side of the outbound queue; the owning
// session is its sole consumer (spec.md §5).
func (c *Connection) Outbound() <-chan event.ServerMessage { return c.outbound }

// Displaced returns a channel that is closed when a newer connection
// supersedes this one for the same iid (spec.md §4.E state machine:
// Registered -> Draining on "displacement signal").
func (c *Connection) Displaced() <-chan struct{} { return c.displaced }

// signalDisplaced closes the displaced channel exactly once. Called by the
// Registry when a Register call evicts this connection.
func (c *Connection) signalDisplaced() {
	if atomic.CompareAndSwapInt32(&c.displacedOnce, 0, 1) {
		close(c.displaced)
	}
}

// ShutdownSignal returns a channel that is closed when the process begins
// a graceful shutdown while this connection is still registered. A
// connection that was already displaced or deregistered is not signalled.
func (c *Connection) ShutdownSignal() <-chan struct{} { return c.shutdown }

// signalShutdown closes the shutdown channel exactly once. Called by
// Registry.Shutdown for every connection still registered at shutdown
// time.
func (c *Connection) signalShutdown() {
	if atomic.CompareAndSwapInt32(&c.shutdownOnce, 0, 1) {
		close(c.shutdown)
	}
}
