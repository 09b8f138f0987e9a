package http

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"golang.org/x/sync/errgroup"

	"github.com/bsteffaniak/chadreview-relay/internal/domain/registry"
)

// RegisterGracefulShutdown signals every live session to drain when the fx
// app stops, and waits (bounded by fx's own stop-timeout context) for them
// to finish — rather than letting http.Server.Shutdown, which does not
// track hijacked WebSocket connections, return while sessions are still
// flushing their outbound queues.
func RegisterGracefulShutdown(lc fx.Lifecycle, reg *registry.Registry, logger *slog.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			reg.Shutdown()

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error {
				waited := make(chan struct{})
				go func() {
					reg.Wait()
					close(waited)
				}()

				select {
				case <-waited:
					return nil
				case <-gctx.Done():
					logger.Warn("graceful shutdown deadline exceeded with sessions still draining")
					return gctx.Err()
				}
			})
			return g.Wait()
		},
	})
}
