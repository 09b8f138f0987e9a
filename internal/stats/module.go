package stats

import "go.uber.org/fx"

// Module provides the stats Collector singleton to the fx graph.
var Module = fx.Module("stats",
	fx.Provide(NewCollector),
)
