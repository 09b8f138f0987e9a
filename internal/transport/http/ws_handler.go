package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/bsteffaniak/chadreview-relay/internal/domain/registry"
	"github.com/bsteffaniak/chadreview-relay/internal/session"
	"github.com/bsteffaniak/chadreview-relay/internal/telemetry"
)

// WSHandler upgrades /ws/{iid} requests and runs a Session for the
// connection's lifetime, per spec.md §4.E "Opening".
//
// Grounded on the teacher's internal/handler/ws/delivery.go: the upgrade,
// the deferred close, and "block until the pump loop exits" shape all
// carry over; the per-user Deliverer.Subscribe/Unsubscribe pair is replaced
// by registry.Register/session.Session, since this relay has no concept of
// a user identity, only an opaque iid.
type WSHandler struct {
	logger   *slog.Logger
	registry *registry.Registry
	metrics  *telemetry.Metrics
	upgrader websocket.Upgrader

	outboundQueueCapacity int
	idleTimeout           time.Duration
	drainTimeout          time.Duration
}

// NewWSHandler constructs a WSHandler. outboundQueueCapacity, idleTimeout
// and drainTimeout come from config (spec.md §6).
func NewWSHandler(
	logger *slog.Logger,
	reg *registry.Registry,
	metrics *telemetry.Metrics,
	outboundQueueCapacity int,
	idleTimeout, drainTimeout time.Duration,
) *WSHandler {
	return &WSHandler{
		logger:   logger,
		registry: reg,
		metrics:  metrics,
		upgrader: websocket.Upgrader{
			// The relay has no browser-facing origin to restrict: clients
			// are PR review tool instances, not same-origin web pages.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		outboundQueueCapacity: outboundQueueCapacity,
		idleTimeout:           idleTimeout,
		drainTimeout:          drainTimeout,
	}
}

func (h *WSHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	iid := chi.URLParam(r, "iid")
	if iid == "" {
		http.Error(w, "missing iid", http.StatusBadRequest)
		return
	}

	wsConn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("ws upgrade failed", "err", err, "iid", iid)
		return
	}

	conn := registry.NewConnection(iid, h.outboundQueueCapacity)
	h.registry.Register(conn)

	done := h.registry.TrackSession()
	defer done()

	h.logger.Info("ws opened", "iid", iid, "conn_id", conn.Token())

	sock := newWSSocket(wsConn)
	sess := session.New(iid, sock, conn, h.registry, h.metrics, h.logger, h.idleTimeout, h.drainTimeout)
	sess.Run(r.Context())
}
