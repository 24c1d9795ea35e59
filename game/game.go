// Package game drives a scene from the command line: the raylib window loop
// for interactive runs, a frame loop for headless runs, and telemetry.
package game

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/pthm-cable/naturescene/camera"
	"github.com/pthm-cable/naturescene/config"
	"github.com/pthm-cable/naturescene/draw"
	"github.com/pthm-cable/naturescene/renderer"
	"github.com/pthm-cable/naturescene/scene"
	"github.com/pthm-cable/naturescene/telemetry"
	"github.com/pthm-cable/naturescene/theme"
	"github.com/pthm-cable/naturescene/ui"
)

// Options configures a run.
type Options struct {
	Config         *config.Config
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string // CSV telemetry and config snapshot
	SnapshotDir    string // SVG frames, headless only
	SnapshotEvery  int
	Headless       bool

	// StatsCallback, if set, receives every flushed window.
	StatsCallback func(telemetry.WindowStats)
}

// Game holds one run.
type Game struct {
	cfg      *config.Config
	scene    *scene.Manager
	headless bool
	dt       float64

	// Interactive only
	canvas   *renderer.Canvas
	hud      *ui.HUD
	controls *ui.Controls
	input    inputState

	// Headless only
	snapshots *renderer.SVGSurface

	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool
	statsCallback func(telemetry.WindowStats)
	rebuilds      int
	frameStart    time.Time
}

// NewGameWithOptions builds the scene and its surface. Interactive runs
// must call it after the raylib window exists.
func NewGameWithOptions(opts Options) (*Game, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		cfg:           cfg,
		headless:      opts.Headless,
		dt:            cfg.Derived.FrameDT,
		collector:     telemetry.NewCollector(statsWindow, cfg.Derived.FrameDT),
		perfCollector: telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:      opts.LogStats,
		statsCallback: opts.StatsCallback,
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, err
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, fmt.Errorf("writing config snapshot: %w", err)
	}

	var surface scene.Surface
	w, h := float64(cfg.Screen.Width), float64(cfg.Screen.Height)
	switch {
	case opts.Headless && opts.SnapshotDir != "":
		g.snapshots, err = renderer.NewSVGSurface(opts.SnapshotDir, w, h, opts.SnapshotEvery)
		if err != nil {
			om.Close()
			return nil, err
		}
		surface = g.snapshots
	case opts.Headless:
		surface = &nullSurface{w: w, h: h}
	default:
		g.canvas = renderer.NewCanvas(camera.New(float32(w), float32(h), float32(cfg.Screen.PixelRatio)), theme.Handler{})
		surface = g.canvas
	}

	g.scene, err = scene.New(scene.Options{Config: cfg, Surface: surface, Perf: g.perfCollector})
	if err != nil {
		om.Close()
		return nil, err
	}
	g.applyTheme()

	if !opts.Headless {
		style := ui.StyleFor(g.scene.Theme())
		g.hud = ui.NewHUD(style)
		g.controls = ui.NewControls()
		g.controls.SetDark(g.scene.Theme().Dark)
	}
	return g, nil
}

// Scene returns the scene manager.
func (g *Game) Scene() *scene.Manager { return g.scene }

// Tick returns the current tick.
func (g *Game) Tick() int32 { return g.scene.Ticks() }

// Update advances one interactive frame.
func (g *Game) Update() {
	g.frameStart = time.Now()
	g.handleInput()
	g.scene.Tick(g.dt)
}

// UpdateHeadless advances and renders one frame without a window.
func (g *Game) UpdateHeadless() error {
	g.frameStart = time.Now()
	g.scene.Tick(g.dt)
	if err := g.scene.Draw(); err != nil {
		return err
	}
	g.endFrame()
	return nil
}

func (g *Game) endFrame() {
	g.perfCollector.RecordFrame()
	g.collector.RecordFrame(g.scene.List().Len(), time.Since(g.frameStart))
	if n := g.scene.Rebuilds(); n != g.rebuilds {
		for ; g.rebuilds < n; g.rebuilds++ {
			g.collector.RecordRebuild()
		}
	}
	g.flushTelemetry()
}

// applyTheme pushes the scene theme to surfaces and overlay.
func (g *Game) applyTheme() {
	h := g.scene.Theme()
	if g.canvas != nil {
		g.canvas.SetTheme(h)
	}
	if g.snapshots != nil {
		g.snapshots.SetTheme(h)
	}
	if g.hud != nil {
		g.hud.SetStyle(ui.StyleFor(h))
		g.controls.SetDark(h.Dark)
	}
}

// SetTheme sets the theme attribute ("dark", "light" or empty).
func (g *Game) SetTheme(attr string) {
	g.scene.SetThemeAttribute(attr)
	g.applyTheme()
}

// Unload destroys the scene and closes outputs.
func (g *Game) Unload() {
	g.scene.Destroy()
	if g.canvas != nil {
		g.canvas.Unload()
	}
	if err := g.outputManager.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}
}

// nullSurface discards frames.
type nullSurface struct {
	w, h float64
}

func (s *nullSurface) Size() (float64, float64) { return s.w, s.h }
func (s *nullSurface) PixelRatio() float64      { return 1 }
func (s *nullSurface) Render(*draw.List, float64) error {
	return nil
}
