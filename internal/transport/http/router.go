package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the full HTTP surface from spec.md §6: /health,
// /ws/{iid}, /webhook/{iid}, plus the admin /debug/stats endpoint added by
// SPEC_FULL.md §6.
func NewRouter(ws *WSHandler, webhook *WebhookHandler, statsHandler *StatsHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/health", healthHandler)
	r.Get("/ws/{iid}", ws.ServeHTTP)
	r.Post("/webhook/{iid}", webhook.ServeHTTP)
	r.Get("/debug/stats", statsHandler.ServeHTTP)

	return r
}
