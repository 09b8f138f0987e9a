package registry

import (
	"sync"

	"github.com/google/uuid"
)

// Registry is the thread-safe iid -> Connection Handle map shared by
// ingress and all session tasks (spec.md §4.B).
//
// Grounded on the teacher's registry.Hub (sync.Map-backed lookup table with
// atomic registration), with the Hub/Cell actor-multiplexing layer removed:
// spec.md invariant I1 requires at most one Connection per iid, so
// registration is a single atomic swap rather than an attach into a set of
// sessions.
type Registry struct {
	mu          sync.Mutex
	connections map[string]*Connection

	// wg tracks sessions currently running, so a graceful shutdown can
	// wait for them to finish draining (within their own bounded drain
	// timeouts) instead of cutting them off mid-flush.
	wg sync.WaitGroup
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{connections: make(map[string]*Connection)}
}

// Register inserts conn under its instance ID, returning any previously
// registered connection for the same iid (the "displaced" handle). The
// displaced connection's termination signal is fired synchronously before
// Register returns, so that by the time a caller observes the new
// registration, the old session is already instructed to drain (spec.md
// §4.B: "Algorithm for displacement").
func (r *Registry) Register(conn *Connection) (displaced *Connection) {
	r.mu.Lock()
	prev, ok := r.connections[conn.InstanceID()]
	r.connections[conn.InstanceID()] = conn
	r.mu.Unlock()

	if ok {
		prev.signalDisplaced()
		return prev
	}
	return nil
}

// Lookup returns the live connection for iid, or (nil, false) if none is
// registered (spec.md §4.D step 4: route).
func (r *Registry) Lookup(iid string) (*Connection, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	conn, ok := r.connections[iid]
	return conn, ok
}

// Deregister removes the registered connection for iid only if its
// identity token matches tok — preventing a late-exiting superseded
// session from evicting its successor (spec.md §4.B). It is idempotent:
// calling it again, or calling it after the entry has already been
// replaced, is a no-op.
func (r *Registry) Deregister(iid string, tok uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.connections[iid]; ok && cur.Token() == tok {
		delete(r.connections, iid)
	}
}

// Count reports the number of currently registered connections, for the
// admin stats surface (SPEC_FULL.md §10).
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.connections)
}

// TrackSession registers one running session with the shutdown
// WaitGroup and returns a function the caller must invoke exactly once
// when that session's Run loop returns.
func (r *Registry) TrackSession() (done func()) {
	r.wg.Add(1)
	var once sync.Once
	return func() { once.Do(r.wg.Done) }
}

// Shutdown signals every currently registered connection to drain,
// regardless of iid (SPEC_FULL.md §2 "graceful shutdown").
func (r *Registry) Shutdown() {
	r.mu.Lock()
	conns := make([]*Connection, 0, len(r.connections))
	for _, c := range r.connections {
		conns = append(conns, c)
	}
	r.mu.Unlock()

	for _, c := range conns {
		c.signalShutdown()
	}
}

// Wait blocks until every tracked session has returned from Run.
func (r *Registry) Wait() {
	r.wg.Wait()
}
