// Package telemetry wires OpenTelemetry counters for the outcomes in
// spec.md §7, grounded on the pack's go-core/telemetry meter-provider
// bootstrap pattern.
package telemetry

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "github.com/bsteffaniak/chadreview-relay"

// Metrics holds the counters incremented by the ingress and session
// packages. A nil *Metrics is not valid; tests that don't care about
// telemetry call New without InitMeterProvider, which records against
// otel's default no-op provider.
type Metrics struct {
	webhookRejected  metric.Int64Counter
	webhookDropped   metric.Int64Counter
	webhookDelivered metric.Int64Counter
	sessionClosed    metric.Int64Counter
}

// New builds counters against the process-wide MeterProvider (set by
// InitMeterProvider, or the otel default no-op provider if telemetry export
// was never configured).
func New() (*Metrics, error) {
	meter := otel.Meter(meterName)

	webhookRejected, err := meter.Int64Counter("relay_webhook_rejected_total")
	if err != nil {
		return nil, err
	}
	webhookDropped, err := meter.Int64Counter("relay_webhook_dropped_total")
	if err != nil {
		return nil, err
	}
	webhookDelivered, err := meter.Int64Counter("relay_webhook_delivered_total")
	if err != nil {
		return nil, err
	}
	sessionClosed, err := meter.Int64Counter("relay_session_closed_total")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		webhookRejected:  webhookRejected,
		webhookDropped:   webhookDropped,
		webhookDelivered: webhookDelivered,
		sessionClosed:    sessionClosed,
	}, nil
}

func (m *Metrics) WebhookRejected(reason string) {
	m.webhookRejected.Add(context.Background(), 1, metric.WithAttributes(reasonAttr(reason)))
}

func (m *Metrics) WebhookDropped(reason string) {
	m.webhookDropped.Add(context.Background(), 1, metric.WithAttributes(reasonAttr(reason)))
}

func (m *Metrics) WebhookDelivered() {
	m.webhookDelivered.Add(context.Background(), 1)
}

func (m *Metrics) SessionClosed(reason string) {
	m.sessionClosed.Add(context.Background(), 1, metric.WithAttributes(reasonAttr(reason)))
}

// InitMeterProvider bootstraps an SDK MeterProvider and installs it as the
// process-wide default. No reader or exporter is attached, so the counters
// exist but are neither collected nor exported; export wiring (OTLP
// endpoint, etc.) is left to the caller.
func InitMeterProvider(logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	mp := sdkmetric.NewMeterProvider()
	otel.SetMeterProvider(mp)
	logger.Debug("meter provider initialized")
	return mp, nil
}
