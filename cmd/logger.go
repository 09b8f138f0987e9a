package cmd

import (
	"log/slog"

	"go.opentelemetry.io/contrib/bridges/otelslog"
)

// ProvideLogger builds the process-wide structured logger on top of the
// OpenTelemetry log bridge, so a deployment that wires an OTLP log exporter
// gets the relay's logs for free without a second logging configuration
// surface (SPEC_FULL.md §2).
func ProvideLogger() *slog.Logger {
	return slog.New(otelslog.NewHandler(ServiceName))
}
