package http

import (
	"log/slog"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bsteffaniak/chadreview-relay/internal/domain/registry"
	"github.com/bsteffaniak/chadreview-relay/internal/ingress"
	"github.com/bsteffaniak/chadreview-relay/internal/telemetry"
)

func newTestWebhookRouter(t *testing.T, secret string) chi.Router {
	t.Helper()
	m, err := telemetry.New()
	require.NoError(t, err)
	in := ingress.New(secret, registry.NewRegistry(), m, slog.New(slog.DiscardHandler))

	r := chi.NewRouter()
	r.Post("/webhook/{iid}", NewWebhookHandler(slog.New(slog.DiscardHandler), in).ServeHTTP)
	return r
}

const testWebhookBody = `{
  "action": "created",
  "repository": {"name": "hi", "owner": {"login": "octo"}},
  "issue": {"number": 7},
  "comment": {"id": 1, "user": {"login": "alice"}, "body": "lgtm"}
}`

// chi does not match an empty {iid} segment, so the router answers 404
// before the handler's own empty-iid check is reached.
func TestWebhookHandler_MissingIIDIsNotFound(t *testing.T) {
	router := newTestWebhookRouter(t, "")
	req := httptest.NewRequest("POST", "/webhook/", strings.NewReader(testWebhookBody))
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, 404, rec.Code)
}

func TestWebhookHandler_NoInstanceRegisteredDrops202(t *testing.T) {
	router := newTestWebhookRouter(t, "")
	req := httptest.NewRequest("POST", "/webhook/inst-unknown", strings.NewReader(testWebhookBody))
	req.Header.Set(forgeEventHeader, "issue_comment")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, 202, rec.Code)
}

func TestWebhookHandler_BadSignatureIsUnauthorized(t *testing.T) {
	router := newTestWebhookRouter(t, "shh")
	req := httptest.NewRequest("POST", "/webhook/inst-1", strings.NewReader(testWebhookBody))
	req.Header.Set(forgeEventHeader, "issue_comment")
	req.Header.Set(forgeSignatureHeader, "sha256=0000")
	rec := httptest.NewRecorder()

	router.ServeHTTP(rec, req)

	assert.Equal(t, 401, rec.Code)
}
