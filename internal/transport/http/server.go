package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/fx"

	"github.com/bsteffaniak/chadreview-relay/config"
)

// NewServer constructs the HTTP server and ties its lifetime to the fx
// app's start/stop hooks, grounded on the teacher's
// internal/handler/amqp/router.go NewWatermillRouter: build the long-lived
// resource, start it on a background goroutine in OnStart, and tear it
// down in OnStop.
func NewServer(lc fx.Lifecycle, cfg *config.Config, router *chi.Mux, logger *slog.Logger) *http.Server {
	srv := &http.Server{
		Addr:    cfg.Addr(),
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server error", "err", err)
				}
			}()
			logger.Info("http server listening", "addr", srv.Addr)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return srv
}
