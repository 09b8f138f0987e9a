// Package tui implements the "relay stats" live dashboard (SPEC_FULL.md
// §10), a termui rendering of the /debug/stats admin endpoint. It exists
// to give the teacher's termui/v3 and nsf/termbox-go dependencies a
// concrete home: the original snapshot never wired them into a running
// component.
package tui

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/bsteffaniak/chadreview-relay/internal/stats"
)

// Run polls addr's /debug/stats endpoint every interval and renders the
// result until the user presses q or Ctrl-C.
func Run(addr string, interval time.Duration) error {
	if err := ui.Init(); err != nil {
		return fmt.Errorf("tui: init: %w", err)
	}
	defer ui.Close()

	info := widgets.NewParagraph()
	info.Title = "chadreview-relay"
	info.SetRect(0, 0, 50, 3)

	gauge := widgets.NewGauge()
	gauge.Title = "Connections"
	gauge.SetRect(0, 3, 50, 6)

	render := func() {
		snap, err := fetch(addr)
		if err != nil {
			info.Text = fmt.Sprintf("error: %v", err)
			ui.Render(info)
			return
		}
		info.Text = fmt.Sprintf("uptime: %s\nconnections: %d", snap.Uptime.Round(time.Second), snap.TotalConnections)
		gauge.Percent = connectionLoadPercent(snap.TotalConnections)
		ui.Render(info, gauge)
	}

	render()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	uiEvents := ui.PollEvents()
	for {
		select {
		case e := <-uiEvents:
			switch e.ID {
			case "q", "<C-c>":
				return nil
			}
		case <-ticker.C:
			render()
		}
	}
}

// connectionLoadPercent clamps the connection count into a 0-100 gauge
// reading against an assumed soft ceiling of 1000 live connections, purely
// for the dashboard's visual bar; it is not a capacity limit enforced
// anywhere else in the relay.
func connectionLoadPercent(n int) int {
	const softCeiling = 1000
	pct := n * 100 / softCeiling
	if pct > 100 {
		return 100
	}
	return pct
}

func fetch(addr string) (stats.Snapshot, error) {
	resp, err := http.Get(fmt.Sprintf("http://%s/debug/stats", addr))
	if err != nil {
		return stats.Snapshot{}, err
	}
	defer resp.Body.Close()

	var snap stats.Snapshot
	if err := json.NewDecoder(resp.Body).Decode(&snap); err != nil {
		return stats.Snapshot{}, err
	}
	return snap, nil
}
