package game

import (
	"log/slog"

	"github.com/pthm-cable/vortex/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and handles bookmarks.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	g.perfCollector.SampleProcess()
	stats := g.collector.Flush(g.tick, g.fieldSnapshot())
	perfStats := g.perfCollector.Stats()

	if g.statsCallback != nil {
		g.statsCallback(stats)
	}

	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
		if err := g.outputManager.WriteDensity(telemetry.NewDensityBands(stats.WindowEndTick, g.sim.Density())); err != nil {
			slog.Error("failed to write density", "error", err)
		}
	}

	for _, bm := range g.bookmarkDetector.Check(stats) {
		if g.logStats {
			bm.LogBookmark()
		}
		if g.outputManager != nil {
			if err := g.outputManager.WriteBookmark(bm); err != nil {
				slog.Error("failed to write bookmark", "error", err)
			}
		}
	}
}

// fieldSnapshot samples the state recorded when a window closes.
func (g *Game) fieldSnapshot() telemetry.FieldSnapshot {
	return telemetry.FieldSnapshot{
		Mass:          g.sim.Mass(),
		KineticEnergy: g.sim.KineticEnergy(),
		MaxSpeed:      float64(g.sim.MaxSpeed()),
		Density:       g.sim.Density(),
		Sizes:         g.particles.Sizes(),
		Emitters:      g.emitters.Count(),
	}
}
