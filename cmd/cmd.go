package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/bsteffaniak/chadreview-relay/config"
	"github.com/bsteffaniak/chadreview-relay/internal/telemetry"
)

const (
	ServiceName      = "chadreview-relay"
	ServiceNamespace = "chadreview"
)

var (
	version        = "0.0.0"
	commit         = "hash"
	commitDate     = time.Now().String()
	branch         = "branch"
	buildTimestamp = ""
)

func Run() error {
	app := &cli.App{
		Name:  ServiceName,
		Usage: "WebSocket fan-out relay bridging forge webhook deliveries to PR review tool instances",
		Commands: []*cli.Command{
			serverCmd(),
			statsCmd(),
		},
	}

	return app.Run(os.Args)
}

func serverCmd() *cli.Command {
	return &cli.Command{
		Name:    "server",
		Aliases: []string{"s"},
		Usage:   "Run the relay server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config_file",
				Usage: "Path to the configuration file",
			},
		},
		Action: func(c *cli.Context) error {
			configFile := c.String("config_file")

			cfg, err := config.LoadConfig(configFile)
			if err != nil {
				return err
			}

			if _, err := telemetry.InitMeterProvider(slog.Default()); err != nil {
				return err
			}
			if _, err := telemetry.InitLoggerProvider(); err != nil {
				return err
			}

			app := NewApp(cfg, configFile)

			if err := app.Start(c.Context); err != nil {
				return err
			}

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
			<-stop

			slog.Info("shutting down")
			return app.Stop(context.Background())
		},
	}
}
