// Package telemetry tracks scene health and frame cost, and writes both as CSV.
package telemetry

import "time"

// SceneSnapshot is the scene state sampled when a window is flushed.
type SceneSnapshot struct {
	SceneTime      float64
	Insects        int
	SeaStars       int
	Ornaments      int
	FloralProgress float64
	FloralFrozen   int
	Decorations    int
	Opacity        float64
	SoundsPlayed   int
	ActiveSounds   int
}

// Collector accumulates per-frame observations within time windows and
// produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float64

	windowStartTick int32

	items    []float64
	frameMS  []float64
	rebuilds int
	// soundsBase is the played count at the start of the window.
	soundsBase int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec, dt float64) *Collector {
	ticksPerWindow := int32(windowDurationSec / dt)
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}
	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordFrame records the display list size and cost of one frame.
func (c *Collector) RecordFrame(items int, cost time.Duration) {
	c.items = append(c.items, float64(items))
	c.frameMS = append(c.frameMS, float64(cost)/float64(time.Millisecond))
}

// RecordRebuild records a resize rebuild of the scene.
func (c *Collector) RecordRebuild() {
	c.rebuilds++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Flush produces the stats for the current window and starts a new one.
func (c *Collector) Flush(currentTick int32, snap SceneSnapshot) WindowStats {
	items := Summarize(c.items)
	frames := Summarize(c.frameMS)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SceneTime:       snap.SceneTime,
		Insects:         snap.Insects,
		SeaStars:        snap.SeaStars,
		Ornaments:       snap.Ornaments,
		FloralProgress:  snap.FloralProgress,
		FloralFrozen:    snap.FloralFrozen,
		Decorations:     snap.Decorations,
		Opacity:         snap.Opacity,
		Rebuilds:        c.rebuilds,
		SoundsPlayed:    snap.SoundsPlayed - c.soundsBase,
		ActiveSounds:    snap.ActiveSounds,
		ItemsMean:       items.Mean,
		ItemsP50:        items.P50,
		ItemsP90:        items.P90,
		FrameMSMean:     frames.Mean,
		FrameMSStd:      frames.Std,
		FrameMSP50:      frames.P50,
		FrameMSP90:      frames.P90,
	}

	c.windowStartTick = currentTick
	c.items = c.items[:0]
	c.frameMS = c.frameMS[:0]
	c.rebuilds = 0
	c.soundsBase = snap.SoundsPlayed
	return stats
}
