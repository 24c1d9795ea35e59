// Package scene coordinates the nature scene: it owns the animators, drives
// them from one Tick per frame in a fixed order and rebuilds everything
// when the viewport changes size.
package scene

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/naturescene/assets"
	"github.com/pthm-cable/naturescene/audio"
	"github.com/pthm-cable/naturescene/config"
	"github.com/pthm-cable/naturescene/draw"
	"github.com/pthm-cable/naturescene/geom"
	"github.com/pthm-cable/naturescene/systems"
	"github.com/pthm-cable/naturescene/telemetry"
	"github.com/pthm-cable/naturescene/theme"
)

// ErrNoSurface is returned by New without a surface to draw on.
var ErrNoSurface = errors.New("scene: no surface")

// Options configures a Manager.
type Options struct {
	Config  *config.Config
	Surface Surface

	// Sound device and timer source. Nil selects the speaker and the
	// system clock.
	SoundOutput audio.Output
	SoundClock  audio.Clock

	// Perf, if set, receives per-phase frame timings.
	Perf *telemetry.PerfCollector
}

// floralLayer is either vine strategy.
type floralLayer interface {
	CreateFloralOrnaments(viewW, viewH float64)
	Animate(dt float64)
	UpdateTheme(h theme.Handler)
	Emit(l *draw.List)
}

// Manager owns one scene instance.
type Manager struct {
	cfg     *config.Config
	surface Surface
	perf    *telemetry.PerfCollector
	sound   *audio.Generator

	state    State
	seed     uint64
	rebuilds int

	signal theme.Signal
	theme  theme.Handler

	// Rebuilt on every init
	world    *ecs.World
	width    float64
	height   float64
	content  geom.ContentBounds
	water    *systems.WaterAnimator
	insects  *systems.InsectAnimator
	seaStars *systems.SeaStarAnimator
	floral   floralLayer

	// ornamentPath caches the SVG asset across rebuilds.
	ornamentPath   string
	ornamentLoaded bool

	time      float64
	tick      int32
	cursor    systems.Cursor
	cursorAge float64

	resizePending bool
	resizeW       float64
	resizeH       float64
	debounce      float64

	opacity    float64
	opacityVel float64
	spring     harmonica.Spring
	springDT   float64

	list draw.List
}

// New creates a manager and initialises the scene for the surface size.
func New(opts Options) (*Manager, error) {
	if opts.Surface == nil {
		return nil, ErrNoSurface
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	seed := cfg.Scene.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	signal := theme.Signal{Attribute: cfg.Theme.Attribute, PrefersDark: cfg.Theme.PrefersDark}
	h := theme.FromSignal(signal)

	m := &Manager{
		cfg:     cfg,
		surface: opts.Surface,
		perf:    opts.Perf,
		seed:    seed,
		signal:  signal,
		theme:   h,
		opacity: 1,
	}
	m.sound = audio.NewGenerator(audio.Options{
		Config: cfg.Sound,
		Output: opts.SoundOutput,
		Clock:  opts.SoundClock,
		Seed:   seed,
		Theme:  h,
	})

	m.Init()
	slog.Info("scene initialized", "component", "scene", "seed", seed,
		"width", m.width, "height", m.height, "floral", m.FloralMode())
	return m, nil
}

// Init builds every animator for the current surface size. It is a no-op
// unless the manager is uninitialised.
func (m *Manager) Init() {
	if m.state != Uninitialized {
		return
	}
	w, h := m.surface.Size()
	m.build(w, h)
	m.state = Running
}

func (m *Manager) build(w, h float64) {
	m.width, m.height = w, h
	m.world = ecs.NewWorld()
	rng := systems.NewSeeded(m.seed + uint64(m.rebuilds))
	m.content = ContentBounds(m.cfg.Content, w, h)

	m.water = systems.NewWaterAnimator(m.theme)
	m.water.CreateWaterSection(w, h)

	m.insects = systems.NewInsectAnimator(m.world, m.cfg.Insects, rng, m.content, m.theme)
	m.insects.CreateInsects(w, h)

	m.seaStars = systems.NewSeaStarAnimator(m.world, m.cfg.SeaStars, rng, m.theme)
	m.seaStars.CreateSeaStars(w, h)

	m.floral = m.newFloral(rng)
	if m.floral != nil {
		m.floral.CreateFloralOrnaments(w, h)
	}

	m.time = 0
	m.cursor = systems.Cursor{}
}

// ContentBounds converts configured viewport fractions into the rectangles
// the scene avoids, dropping any too small to matter.
func ContentBounds(cfg config.ContentConfig, w, h float64) geom.ContentBounds {
	rects := make([]geom.Rect, 0, len(cfg.Rects))
	for _, r := range cfg.Rects {
		rects = append(rects, geom.RectXYWH(r.X*w, r.Y*h, r.W*w, r.H*h))
	}
	return geom.FilterContent(rects, cfg.MinWidth, cfg.MinHeight)
}

// newFloral picks the vine strategy. A configured SVG asset that cannot be
// loaded leaves the scene without vines.
func (m *Manager) newFloral(rng *systems.Seeded) floralLayer {
	fc := m.cfg.Floral
	mode := fc.Mode
	if mode == "auto" {
		mode = "procedural"
		if fc.SVGAsset != "" {
			mode = "svg"
		}
	}

	switch mode {
	case "procedural":
		return systems.NewFloralAnimator(fc, rng, m.content, m.theme)
	case "svg":
		d, err := m.loadOrnament()
		if err != nil {
			slog.Warn("floral ornament unavailable", "component", "scene", "asset", fc.SVGAsset, "error", err)
			return nil
		}
		a, err := systems.NewSvgFloralAnimator(fc, d, m.theme)
		if err != nil {
			slog.Warn("floral ornament unreadable", "component", "scene", "asset", fc.SVGAsset, "error", err)
			return nil
		}
		return a
	default:
		return nil
	}
}

func (m *Manager) loadOrnament() (string, error) {
	if m.ornamentLoaded {
		return m.ornamentPath, nil
	}
	name := m.cfg.Floral.SVGAsset
	var (
		d   string
		err error
	)
	if name == "" || name == "builtin" {
		d, err = systems.LoadOrnamentPath(assets.FS, assets.Ornament)
	} else {
		d, err = systems.LoadOrnamentPath(os.DirFS(filepath.Dir(name)), filepath.Base(name))
	}
	if err != nil {
		return "", fmt.Errorf("loading %s: %w", name, err)
	}
	m.ornamentPath, m.ornamentLoaded = d, true
	return d, nil
}

// FloralMode reports which vine strategy is active.
func (m *Manager) FloralMode() string {
	switch m.floral.(type) {
	case *systems.FloralAnimator:
		return "procedural"
	case *systems.SvgFloralAnimator:
		return "svg"
	default:
		return "none"
	}
}

// Tick advances the scene by dt seconds. Animators run in a fixed order:
// water, insects, sea stars, floral. Draw ends the perf tick begun here.
func (m *Manager) Tick(dt float64) {
	if m.state != Running && m.state != TearingDown {
		return
	}
	m.perf.StartTick()

	m.time += m.cfg.Scene.TimeScale * dt
	m.tick++
	if m.cursor.Active {
		m.cursorAge += dt
		if m.cursorAge >= m.cfg.Derived.CursorTimeout.Seconds() {
			m.cursor.Active = false
		}
	}

	m.perf.StartPhase(telemetry.PhaseWater)
	m.water.Animate(m.time)
	m.perf.StartPhase(telemetry.PhaseInsects)
	m.insects.Animate(m.width, m.height, dt, m.cursor)
	m.perf.StartPhase(telemetry.PhaseSeaStars)
	m.seaStars.Animate(m.time)
	m.perf.StartPhase(telemetry.PhaseFloral)
	if m.floral != nil {
		m.floral.Animate(dt)
	}

	if m.resizePending {
		m.debounce -= dt
		if m.debounce <= 0 {
			m.rebuild()
		}
	}
	m.animateOpacity(dt)
}

func (m *Manager) rebuild() {
	m.resizePending = false
	m.state = Uninitialized
	m.world = nil
	m.rebuilds++

	m.build(m.resizeW, m.resizeH)
	m.state = Running
	m.opacity, m.opacityVel = 0, 0
	slog.Info("scene rebuilt", "component", "scene", "width", m.width, "height", m.height, "rebuilds", m.rebuilds)
}

func (m *Manager) animateOpacity(dt float64) {
	if dt <= 0 {
		return
	}
	target := 1.0
	if m.state == TearingDown {
		target = 0
	}
	if dt != m.springDT {
		m.spring = harmonica.NewSpring(dt, 2*math.Pi*m.cfg.Scene.FadeFrequency, 1)
		m.springDT = dt
	}
	m.opacity, m.opacityVel = m.spring.Update(m.opacity, m.opacityVel, target)
	m.opacity = geom.Clamp(m.opacity, 0, 1)
}

// Draw builds the frame's display list and hands it to the surface.
func (m *Manager) Draw() error {
	if m.state != Running && m.state != TearingDown {
		return nil
	}
	m.perf.StartPhase(telemetry.PhaseDraw)
	defer m.perf.EndTick()

	m.list.Reset()
	m.water.Emit(&m.list)
	m.seaStars.Emit(&m.list)
	if m.floral != nil {
		m.floral.Emit(&m.list)
	}
	m.insects.Emit(&m.list)

	if err := m.surface.Render(&m.list, m.opacity); err != nil {
		return fmt.Errorf("rendering frame %d: %w", m.tick, err)
	}
	return nil
}

// HandleResize fades the scene out and (re)arms the rebuild debounce.
func (m *Manager) HandleResize(w, h float64) {
	if m.state != Running && m.state != TearingDown {
		return
	}
	if !m.resizePending && w == m.width && h == m.height {
		return
	}
	m.resizePending = true
	m.resizeW, m.resizeH = w, h
	m.debounce = m.cfg.Derived.ResizeDebounce.Seconds()
	m.state = TearingDown
}

// SetThemeAttribute sets the explicit theme attribute ("dark", "light" or
// empty to follow the system preference).
func (m *Manager) SetThemeAttribute(attr string) {
	m.signal.Attribute = attr
	m.applyTheme()
}

// SetPrefersDark sets the system colour scheme preference.
func (m *Manager) SetPrefersDark(dark bool) {
	m.signal.PrefersDark = dark
	m.applyTheme()
}

func (m *Manager) applyTheme() {
	h := theme.FromSignal(m.signal)
	if h == m.theme {
		return
	}
	m.theme = h
	if m.state == Destroyed {
		return
	}
	m.water.UpdateTheme(h)
	m.insects.UpdateTheme(h)
	m.seaStars.UpdateTheme(h)
	if m.floral != nil {
		m.floral.UpdateTheme(h)
	}
	m.sound.UpdateTheme(h)
}

// SetCursor records a pointer position for the insects to swarm around.
func (m *Manager) SetCursor(p r2.Vec) {
	m.cursor = systems.Cursor{Pos: p, Active: true}
	m.cursorAge = 0
}

// ClearCursor forgets the pointer, as when it leaves the window.
func (m *Manager) ClearCursor() {
	m.cursor = systems.Cursor{}
}

// SetVisible forwards visibility to the sound generator. The visual loop
// keeps running.
func (m *Manager) SetVisible(visible bool) {
	m.sound.SetVisible(visible)
}

// NotifyInteraction forwards a user interaction so sound can start.
func (m *Manager) NotifyInteraction() error {
	return m.sound.NotifyInteraction()
}

// ToggleMute flips sound on or off and reports whether it is now muted.
func (m *Manager) ToggleMute() bool {
	return m.sound.ToggleMute()
}

// Destroy stops the scene and releases the sound output.
func (m *Manager) Destroy() {
	if m.state == Destroyed {
		return
	}
	m.sound.Destroy()
	m.state = Destroyed
	m.world = nil
	m.resizePending = false
	slog.Info("scene destroyed", "component", "scene")
}

// State returns the lifecycle state.
func (m *Manager) State() State { return m.state }

// Seed returns the seed the first build used. Rebuild n uses seed+n.
func (m *Manager) Seed() uint64 { return m.seed }

// Time returns the scene time accumulator.
func (m *Manager) Time() float64 { return m.time }

// Ticks returns the number of ticks run.
func (m *Manager) Ticks() int32 { return m.tick }

// Opacity returns the canvas opacity in [0,1].
func (m *Manager) Opacity() float64 { return m.opacity }

// Size returns the scene size the animators were built for.
func (m *Manager) Size() (w, h float64) { return m.width, m.height }

// Rebuilds returns how many resize rebuilds have run.
func (m *Manager) Rebuilds() int { return m.rebuilds }

// Theme returns the active theme.
func (m *Manager) Theme() theme.Handler { return m.theme }

// Cursor returns the cursor as the insects see it.
func (m *Manager) Cursor() systems.Cursor { return m.cursor }

// Content returns the content rectangles for the current size.
func (m *Manager) Content() geom.ContentBounds { return m.content }

// Sound returns the sound generator.
func (m *Manager) Sound() *audio.Generator { return m.sound }

// Water returns the water animator.
func (m *Manager) Water() *systems.WaterAnimator { return m.water }

// Insects returns the insect animator.
func (m *Manager) Insects() *systems.InsectAnimator { return m.insects }

// SeaStars returns the sea star animator.
func (m *Manager) SeaStars() *systems.SeaStarAnimator { return m.seaStars }

// Floral returns the procedural vines, or nil.
func (m *Manager) Floral() *systems.FloralAnimator {
	f, _ := m.floral.(*systems.FloralAnimator)
	return f
}

// SvgFloral returns the SVG ornament, or nil.
func (m *Manager) SvgFloral() *systems.SvgFloralAnimator {
	f, _ := m.floral.(*systems.SvgFloralAnimator)
	return f
}

// List returns the display list built by the last Draw.
func (m *Manager) List() *draw.List { return &m.list }

// Snapshot samples the scene for telemetry.
func (m *Manager) Snapshot() telemetry.SceneSnapshot {
	snap := telemetry.SceneSnapshot{
		SceneTime:    m.time,
		Opacity:      m.opacity,
		ActiveSounds: m.sound.ActiveSounds(),
	}
	for _, s := range m.cfg.Sound.Types.Ordered() {
		snap.SoundsPlayed += m.sound.Played(s.Name)
	}
	if m.insects != nil {
		snap.Insects = len(m.insects.Entities())
	}
	if m.seaStars != nil {
		snap.SeaStars = len(m.seaStars.Entities())
	}
	switch f := m.floral.(type) {
	case *systems.FloralAnimator:
		snap.Ornaments = len(f.Ornaments)
		for _, o := range f.Ornaments {
			snap.FloralProgress += o.Progress() / float64(len(f.Ornaments))
			snap.Decorations += len(o.Decorations())
			if o.Frozen() {
				snap.FloralFrozen++
			}
		}
	case *systems.SvgFloralAnimator:
		snap.Ornaments = len(f.Ornaments)
		snap.FloralProgress = f.Opacity()
	}
	return snap
}
