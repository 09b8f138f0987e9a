package http

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/bsteffaniak/chadreview-relay/internal/domain/event"
	"github.com/bsteffaniak/chadreview-relay/internal/ingress"
)

// forgeEventHeader and forgeSignatureHeader name the headers spec.md §6
// defines for webhook deliveries.
const (
	forgeEventHeader     = "X-Forge-Event"
	forgeSignatureHeader = "X-Forge-Signature-256"
)

// WebhookHandler implements the POST /webhook/{iid} surface from
// spec.md §6, translating an ingress.Outcome into the HTTP response the
// forge sees.
type WebhookHandler struct {
	logger  *slog.Logger
	ingress *ingress.Ingress
}

func NewWebhookHandler(logger *slog.Logger, in *ingress.Ingress) *WebhookHandler {
	return &WebhookHandler{logger: logger, ingress: in}
}

func (h *WebhookHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	iid := chi.URLParam(r, "iid")
	if iid == "" {
		http.Error(w, "missing iid", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "unreadable body", http.StatusBadRequest)
		return
	}

	outcome := h.ingress.Handle(ingress.Request{
		InstanceID: iid,
		HeaderType: event.HeaderEventType(r.Header.Get(forgeEventHeader)),
		Signature:  r.Header.Get(forgeSignatureHeader),
		Body:       body,
	})

	w.WriteHeader(outcome.Status)
}
