package http

import (
	"log/slog"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsteffaniak/chadreview-relay/internal/domain/registry"
	"github.com/bsteffaniak/chadreview-relay/internal/ingress"
	"github.com/bsteffaniak/chadreview-relay/internal/stats"
	"github.com/bsteffaniak/chadreview-relay/internal/telemetry"
)

func TestNewRouter_WiresHealthAndStatsRoutes(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	reg := registry.NewRegistry()
	m, err := telemetry.New()
	require.NoError(t, err)

	ws := NewWSHandler(logger, reg, m, 8, 0, 0)
	webhook := NewWebhookHandler(logger, ingress.New("", reg, m, logger))
	statsHandler := NewStatsHandler(stats.NewCollector(reg))

	router := NewRouter(ws, webhook, statsHandler)

	req := httptest.NewRequest("GET", "/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, 200, rec.Code)

	req = httptest.NewRequest("GET", "/debug/stats", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, 200, rec.Code)

	req = httptest.NewRequest("GET", "/nonexistent", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, 404, rec.Code)
}
