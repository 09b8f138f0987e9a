package registry

import "go.uber.org/fx"

// Module provides the Connection Registry singleton to the fx graph,
// shared by the ingress and HTTP/WebSocket transport modules.
var Module = fx.Module("registry",
	fx.Provide(NewRegistry),
)
