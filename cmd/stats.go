package cmd

import (
	"time"

	"github.com/urfave/cli/v2"

	"github.com/bsteffaniak/chadreview-relay/internal/tui"
)

func statsCmd() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Live dashboard of a running relay's connection load (SPEC_FULL.md §10)",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "host:port of the relay's admin HTTP surface",
				Value: "localhost:8080",
			},
			&cli.DurationFlag{
				Name:  "interval",
				Usage: "poll interval",
				Value: time.Second,
			},
		},
		Action: func(c *cli.Context) error {
			return tui.Run(c.String("addr"), c.Duration("interval"))
		},
	}
}
