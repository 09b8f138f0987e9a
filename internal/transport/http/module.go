package http

import (
	"log/slog"
	"net/http"

	"go.uber.org/fx"

	"github.com/bsteffaniak/chadreview-relay/config"
	"github.com/bsteffaniak/chadreview-relay/internal/domain/registry"
	"github.com/bsteffaniak/chadreview-relay/internal/telemetry"
)

// Module provides the relay's HTTP transport: the chi router, its four
// handlers, and the *http.Server whose lifetime fx manages. The fx.Invoke
// forces the server to be constructed (and its lifecycle hook registered)
// even though nothing else in the graph depends on it directly.
var Module = fx.Module("transport-http",
	fx.Provide(
		newWSHandler,
		NewWebhookHandler,
		NewStatsHandler,
		NewRouter,
		NewServer,
	),
	fx.Invoke(
		func(*http.Server) {},
		RegisterGracefulShutdown,
	),
)

// newWSHandler unpacks the queue-capacity and timeout settings WSHandler
// needs out of *config.Config, so WSHandler's constructor stays free of a
// config dependency and testable with explicit values.
func newWSHandler(logger *slog.Logger, reg *registry.Registry, metrics *telemetry.Metrics, cfg *config.Config) *WSHandler {
	return NewWSHandler(logger, reg, metrics, cfg.OutboundQueueCapacity, cfg.IdleTimeout, cfg.DrainTimeout)
}
