package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// WindowStats holds aggregated statistics for a time window.
type WindowStats struct {
	WindowStartTick int32   `csv:"-"`
	WindowEndTick   int32   `csv:"window_end"`
	SceneTime       float64 `csv:"scene_time"`

	// Scene contents at window end
	Insects        int     `csv:"insects"`
	SeaStars       int     `csv:"sea_stars"`
	Ornaments      int     `csv:"ornaments"`
	FloralProgress float64 `csv:"floral_progress"`
	FloralFrozen   int     `csv:"floral_frozen"`
	Decorations    int     `csv:"decorations"`
	Opacity        float64 `csv:"opacity"`

	// Events during window
	Rebuilds     int `csv:"rebuilds"`
	SoundsPlayed int `csv:"sounds_played"`
	ActiveSounds int `csv:"active_sounds"`

	// Display list size per frame
	ItemsMean float64 `csv:"items_mean"`
	ItemsP50  float64 `csv:"items_p50"`
	ItemsP90  float64 `csv:"items_p90"`

	// Frame cost in milliseconds
	FrameMSMean float64 `csv:"frame_ms_mean"`
	FrameMSStd  float64 `csv:"frame_ms_std"`
	FrameMSP50  float64 `csv:"frame_ms_p50"`
	FrameMSP90  float64 `csv:"frame_ms_p90"`
}

// Summary describes a sample of values.
type Summary struct {
	Mean, Std     float64
	P10, P50, P90 float64
}

// Summarize computes the mean, sample standard deviation and empirical
// percentiles of values. An empty sample yields zeros.
func Summarize(values []float64) Summary {
	n := len(values)
	if n == 0 {
		return Summary{}
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	var s Summary
	if n > 1 {
		s.Mean, s.Std = stat.MeanStdDev(sorted, nil)
	} else {
		s.Mean = sorted[0]
	}
	s.P10 = stat.Quantile(0.10, stat.Empirical, sorted, nil)
	s.P50 = stat.Quantile(0.50, stat.Empirical, sorted, nil)
	s.P90 = stat.Quantile(0.90, stat.Empirical, sorted, nil)
	return s
}

// LogValue implements slog.LogValuer for structured logging.
func (s WindowStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("window_start", int(s.WindowStartTick)),
		slog.Int("window_end", int(s.WindowEndTick)),
		slog.Float64("scene_time", s.SceneTime),
		slog.Int("insects", s.Insects),
		slog.Int("sea_stars", s.SeaStars),
		slog.Int("ornaments", s.Ornaments),
		slog.Float64("floral_progress", s.FloralProgress),
		slog.Int("floral_frozen", s.FloralFrozen),
		slog.Int("decorations", s.Decorations),
		slog.Float64("opacity", s.Opacity),
		slog.Int("rebuilds", s.Rebuilds),
		slog.Int("sounds_played", s.SoundsPlayed),
		slog.Int("active_sounds", s.ActiveSounds),
		slog.Float64("items_mean", s.ItemsMean),
		slog.Float64("frame_ms_mean", s.FrameMSMean),
		slog.Float64("frame_ms_p90", s.FrameMSP90),
	)
}

// LogStats logs the window stats using slog.
func (s WindowStats) LogStats() {
	slog.Info("stats", "window", s)
}
