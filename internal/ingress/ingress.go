package ingress

import (
	"log/slog"

	"github.com/bsteffaniak/chadreview-relay/internal/domain/event"
	"github.com/bsteffaniak/chadreview-relay/internal/domain/registry"
	"github.com/bsteffaniak/chadreview-relay/internal/telemetry"
)

// Reason enumerates why a webhook was dropped or rejected, matching the
// rows of spec.md §7.
type Reason string

const (
	ReasonUnsupportedEvent  Reason = "unsupported_event"
	ReasonUnsupportedAction Reason = "unsupported_action"
	ReasonNoInstance        Reason = "no_instance"
	ReasonNotSubscribed     Reason = "not_subscribed"
	ReasonBackpressure      Reason = "backpressure"
	ReasonBadSignature      Reason = "bad_signature"
	ReasonMalformedPayload  Reason = "malformed_payload"
)

// Outcome is the public contract of spec.md §4.D: given (iid, headers,
// raw_body), ingress produces exactly one of Delivered, Dropped(reason), or
// Rejected(status).
type Outcome struct {
	Status    int
	Delivered bool
	Dropped   bool
	Reason    Reason
}

func rejected(status int, reason Reason) Outcome {
	return Outcome{Status: status, Reason: reason}
}

func dropped(reason Reason) Outcome {
	return Outcome{Status: 202, Dropped: true, Reason: reason}
}

var delivered = Outcome{Status: 202, Delivered: true}

// Request bundles the inputs ingress needs from the transport layer, so the
// core pipeline stays free of net/http.
type Request struct {
	InstanceID string
	HeaderType event.HeaderEventType
	Signature  string
	Body       []byte
}

// Ingress implements spec.md §4.D's ordered algorithm.
type Ingress struct {
	secret   []byte
	registry *registry.Registry
	metrics  *telemetry.Metrics
	logger   *slog.Logger
}

// New constructs an Ingress. secret may be empty, in which case signature
// verification is skipped entirely (spec.md §4.D step 1 — a deployment
// choice, not a per-request option).
func New(secret string, reg *registry.Registry, metrics *telemetry.Metrics, logger *slog.Logger) *Ingress {
	return &Ingress{secret: []byte(secret), registry: reg, metrics: metrics, logger: logger}
}

// SetSecret swaps the configured webhook secret, supporting the live
// rotation described in SPEC_FULL.md §2 (config.WatchSecretRotation).
func (in *Ingress) SetSecret(secret string) {
	in.secret = []byte(secret)
}

// Handle runs the full ingress pipeline and returns the outcome to report
// to the forge over HTTP.
func (in *Ingress) Handle(req Request) Outcome {
	// Step 1: signature verification.
	if len(in.secret) > 0 {
		if !VerifySignature(in.secret, req.Signature, req.Body) {
			in.metrics.WebhookRejected(string(ReasonBadSignature))
			return rejected(401, ReasonBadSignature)
		}
	}

	// Step 2: event-type gate.
	if !event.SupportedHeaderEventTypes[req.HeaderType] {
		in.metrics.WebhookDropped(string(ReasonUnsupportedEvent))
		return dropped(ReasonUnsupportedEvent)
	}

	// Step 3: payload decode.
	ev, err := event.Decode(req.HeaderType, req.Body)
	if err != nil {
		in.logger.Warn("webhook decode failed", "err", err, "iid", req.InstanceID)
		in.metrics.WebhookRejected(string(ReasonMalformedPayload))
		return rejected(400, ReasonMalformedPayload)
	}
	if ev.Kind() == 0 {
		// Recognized family, unforwarded action.
		in.metrics.WebhookDropped(string(ReasonUnsupportedAction))
		return dropped(ReasonUnsupportedAction)
	}

	// Step 4: route.
	conn, ok := in.registry.Lookup(req.InstanceID)
	if !ok {
		in.metrics.WebhookDropped(string(ReasonNoInstance))
		return dropped(ReasonNoInstance)
	}

	// Step 5: filter.
	key := ev.PRKey()
	if !conn.Subscriptions().Contains(key) {
		in.metrics.WebhookDropped(string(ReasonNotSubscribed))
		return dropped(ReasonNotSubscribed)
	}

	// Step 6: enqueue.
	msg := event.Webhook(req.InstanceID, key, ev)
	if !conn.Enqueue(msg) {
		in.metrics.WebhookDropped(string(ReasonBackpressure))
		return dropped(ReasonBackpressure)
	}

	in.metrics.WebhookDelivered()
	return delivered
}
