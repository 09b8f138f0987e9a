package cmd

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/bsteffaniak/chadreview-relay/config"
	"github.com/bsteffaniak/chadreview-relay/internal/domain/registry"
	"github.com/bsteffaniak/chadreview-relay/internal/ingress"
	"github.com/bsteffaniak/chadreview-relay/internal/stats"
	"github.com/bsteffaniak/chadreview-relay/internal/telemetry"
	httptransport "github.com/bsteffaniak/chadreview-relay/internal/transport/http"
)

// NewApp assembles the relay's fx graph: config -> registry -> ingress ->
// telemetry -> stats -> HTTP transport. Grounded on the teacher's
// cmd.NewApp, with the chat-delivery modules (postgres.Module,
// grpchandler.Module, grpcsrv.Module, the discovery.DiscoveryProvider
// invoke) replaced by this service's own module set (DESIGN.md documents
// every dropped teacher module).
func NewApp(cfg *config.Config, configFile string) *fx.App {
	return fx.New(
		fx.Provide(
			func() *config.Config { return cfg },
			func() configFilePath { return configFilePath(configFile) },
			ProvideLogger,
			ProvideIngress,
		),
		registry.Module,
		telemetry.Module,
		stats.Module,
		httptransport.Module,
		fx.Invoke(registerSecretRotation),
	)
}

// ProvideIngress constructs the Ingress pipeline, wiring the configured
// webhook secret in.
func ProvideIngress(cfg *config.Config, reg *registry.Registry, metrics *telemetry.Metrics, logger *slog.Logger) *ingress.Ingress {
	return ingress.New(cfg.WebhookSecret, reg, metrics, logger)
}

// registerSecretRotation wires config.WatchSecretRotation's onRotate
// callback into the live Ingress instance, so a config file edit rotates
// the webhook secret without a restart (SPEC_FULL.md §2).
func registerSecretRotation(configFile configFilePath, in *ingress.Ingress, logger *slog.Logger) error {
	return config.WatchSecretRotation(string(configFile), logger, in.SetSecret)
}

// configFilePath is a distinct type so fx can supply the CLI's
// --config_file flag value into the graph without colliding with any
// other string-typed provider.
type configFilePath string
