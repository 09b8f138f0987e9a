package http

import (
	"encoding/json"
	"net/http"

	"github.com/bsteffaniak/chadreview-relay/internal/stats"
)

// StatsHandler serves GET /debug/stats (SPEC_FULL.md §10), the admin
// surface the "relay stats" TUI polls.
type StatsHandler struct {
	collector *stats.Collector
}

func NewStatsHandler(collector *stats.Collector) *StatsHandler {
	return &StatsHandler{collector: collector}
}

func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.collector.Collect())
}
