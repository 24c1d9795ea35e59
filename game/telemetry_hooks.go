package game

import (
	"log/slog"
)

// flushTelemetry writes a stats window once enough ticks have passed.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.Tick()) {
		return
	}

	stats := g.collector.Flush(g.Tick(), g.scene.Snapshot())
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
	}
}
