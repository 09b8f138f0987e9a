// Package stats exposes a point-in-time snapshot of relay health for the
// /debug/stats HTTP endpoint and the "relay stats" TUI (SPEC_FULL.md §10).
//
// Grounded on the teacher's model.HubStats, trimmed of the Shards field:
// horizontal sharding across relay nodes is an explicit non-goal
// (spec.md §1), so there is nothing to report per-shard.
package stats

import (
	"time"

	"github.com/bsteffaniak/chadreview-relay/internal/domain/registry"
)

// Snapshot reports the relay's current load.
type Snapshot struct {
	TotalConnections int           `json:"total_connections"`
	Uptime           time.Duration `json:"uptime"`
}

// Collector produces Snapshots from the live Registry.
type Collector struct {
	registry  *registry.Registry
	startedAt time.Time
}

// NewCollector constructs a Collector that measures uptime from the moment
// it is built, which the caller wires to process start via fx.
func NewCollector(reg *registry.Registry) *Collector {
	return &Collector{registry: reg, startedAt: time.Now()}
}

// Collect takes a snapshot of current relay load.
func (c *Collector) Collect() Snapshot {
	return Snapshot{
		TotalConnections: c.registry.Count(),
		Uptime:           time.Since(c.startedAt),
	}
}
