package telemetry

import (
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	stdlog "go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
)

// InitLoggerProvider installs a stdout-exporting log provider as the
// process-wide default, so cmd.ProvideLogger's otelslog handler has
// somewhere to write without requiring an OTLP collector for local runs.
// A deployment wiring a real collector replaces this with its own
// exporter; the relay core only depends on the global provider existing.
func InitLoggerProvider() (*sdklog.LoggerProvider, error) {
	exporter, err := stdoutlog.New()
	if err != nil {
		return nil, err
	}

	lp := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
	)
	stdlog.SetLoggerProvider(lp)
	return lp, nil
}
