package telemetry

import "go.uber.org/fx"

// Module provides the process-wide Metrics singleton to the fx graph.
var Module = fx.Module("telemetry",
	fx.Provide(New),
)
