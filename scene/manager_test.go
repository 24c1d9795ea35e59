package scene

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/gopxl/beep"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/naturescene/audio"
	"github.com/pthm-cable/naturescene/config"
	"github.com/pthm-cable/naturescene/draw"
)

const frame = 1.0 / 60

type fakeSurface struct {
	w, h    float64
	renders int
	items   int
	opacity float64
	err     error
}

func (s *fakeSurface) Size() (float64, float64) { return s.w, s.h }
func (s *fakeSurface) PixelRatio() float64 { return 1 }
func (s *fakeSurface) Render(l *draw.List, opacity float64) error {
	s.renders++
	s.items = l.Len()
	s.opacity = opacity
	return s.err
}

type fakeOutput struct {
	opens, closes int
}

func (o *fakeOutput) Open(beep.SampleRate, int) error { o.opens++; return nil }
func (o *fakeOutput) Play(beep.Streamer) {}
func (o *fakeOutput) Lock() {}
func (o *fakeOutput) Unlock() {}
func (o *fakeOutput) Close() { o.closes++ }

type idleTimer struct{}

func (idleTimer) Stop() bool { return true }

// idleClock never fires.
type idleClock struct{}

func (idleClock) AfterFunc(time.Duration, func()) audio.Timer { return idleTimer{} }

func newTestManager(t *testing.T, mutate func(*config.Config)) (*Manager, *fakeSurface, *fakeOutput) {
	t.Helper()
	cfg := config.Default()
	cfg.Scene.Seed = 42
	if mutate != nil {
		mutate(cfg)
	}
	surface := &fakeSurface{w: 1280, h: 800}
	out := &fakeOutput{}
	m, err := New(Options{Config: cfg, Surface: surface, SoundOutput: out, SoundClock: idleClock{}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return m, surface, out
}

func ticks(m *Manager, n int) {
	for i := 0; i < n; i++ {
		m.Tick(frame)
	}
}

func TestNewRequiresSurface(t *testing.T) {
	_, err := New(Options{Config: config.Default()})
	if !errors.Is(err, ErrNoSurface) {
		t.Errorf("expected ErrNoSurface, got %v", err)
	}
}

func TestNewInitializesScene(t *testing.T) {
	m, _, _ := newTestManager(t, nil)

	if m.State() != Running {
		t.Errorf("expected running, got %s", m.State())
	}
	if w, h := m.Size(); w != 1280 || h != 800 {
		t.Errorf("expected 1280x800, got %vx%v", w, h)
	}
	if m.FloralMode() != "procedural" {
		t.Errorf("expected procedural floral, got %s", m.FloralMode())
	}
	if m.Opacity() != 1 {
		t.Errorf("expected opacity 1 on first init, got %v", m.Opacity())
	}

	snap := m.Snapshot()
	if snap.Insects < 5 || snap.Insects > 7 {
		t.Errorf("expected 5-7 insects, got %d", snap.Insects)
	}
	if snap.SeaStars < 4 || snap.SeaStars > 6 {
		t.Errorf("expected 4-6 sea stars, got %d", snap.SeaStars)
	}
	if snap.Ornaments != 2 {
		t.Errorf("expected 2 ornaments, got %d", snap.Ornaments)
	}
	if len(m.Water().Layers) != 4 {
		t.Errorf("expected 4 wave layers, got %d", len(m.Water().Layers))
	}
}

func TestInitIsIdempotent(t *testing.T) {
	m, _, _ := newTestManager(t, nil)
	insects := m.Insects()
	m.Init()
	if m.Insects() != insects {
		t.Error("expected Init on a running scene to keep its animators")
	}
}

func TestTickAccumulatesTime(t *testing.T) {
	m, _, _ := newTestManager(t, nil)
	ticks(m, 60)

	if math.Abs(m.Time()-0.6) > 1e-9 {
		t.Errorf("expected time 0.6 after one second, got %v", m.Time())
	}
	if m.Ticks() != 60 {
		t.Errorf("expected 60 ticks, got %d", m.Ticks())
	}
}

func TestResizeDebouncedRebuild(t *testing.T) {
	m, _, _ := newTestManager(t, nil)
	ticks(m, 30)

	m.HandleResize(800, 600)
	if m.State() != TearingDown {
		t.Fatalf("expected tearing down, got %s", m.State())
	}
	ticks(m, 10)
	if m.Rebuilds() != 0 {
		t.Fatal("expected no rebuild before the debounce elapses")
	}
	if m.Opacity() >= 0.5 {
		t.Errorf("expected the scene to fade out, got opacity %v", m.Opacity())
	}

	// A second resize restarts the countdown
	m.HandleResize(900, 600)
	ticks(m, 10)
	if m.Rebuilds() != 0 {
		t.Fatal("expected the second resize to re-arm the debounce")
	}
	ticks(m, 10)
	if m.Rebuilds() != 1 {
		t.Fatalf("expected one rebuild, got %d", m.Rebuilds())
	}
	if m.State() != Running {
		t.Errorf("expected running after rebuild, got %s", m.State())
	}
	if w, h := m.Size(); w != 900 || h != 600 {
		t.Errorf("expected 900x600, got %vx%v", w, h)
	}
	if m.Time() > 0.1 {
		t.Errorf("expected time reset by rebuild, got %v", m.Time())
	}

	ticks(m, 120)
	if m.Opacity() < 0.95 {
		t.Errorf("expected the scene to fade back in, got opacity %v", m.Opacity())
	}
}

func TestResizeToSameSizeIgnored(t *testing.T) {
	m, _, _ := newTestManager(t, nil)
	m.HandleResize(1280, 800)
	if m.State() != Running {
		t.Errorf("expected running, got %s", m.State())
	}
}

func TestThemePropagation(t *testing.T) {
	m, _, _ := newTestManager(t, nil)
	before := m.Water().Layers[0].Color

	m.SetThemeAttribute("dark")
	if !m.Theme().Dark {
		t.Fatal("expected dark theme")
	}
	if m.Water().Layers[0].Color == before {
		t.Error("expected water colour to follow the theme")
	}

	// An explicit attribute wins over the system preference
	m.SetThemeAttribute("light")
	m.SetPrefersDark(true)
	if m.Theme().Dark {
		t.Error("expected light theme while the attribute is set")
	}
	m.SetThemeAttribute("")
	if !m.Theme().Dark {
		t.Error("expected the system preference once the attribute is cleared")
	}
}

func TestCursorTimeout(t *testing.T) {
	m, _, _ := newTestManager(t, nil)
	m.SetCursor(r2.Vec{X: 300, Y: 200})

	ticks(m, 290)
	if !m.Cursor().Active {
		t.Fatal("expected cursor active before the timeout")
	}
	ticks(m, 20)
	if m.Cursor().Active {
		t.Error("expected cursor inactive after the timeout")
	}

	m.SetCursor(r2.Vec{X: 10, Y: 10})
	m.ClearCursor()
	if m.Cursor().Active {
		t.Error("expected cleared cursor inactive")
	}
}

func TestFloralModes(t *testing.T) {
	tests := []struct {
		name  string
		mode  string
		asset string
		want  string
	}{
		{"auto without asset", "auto", "", "procedural"},
		{"auto with builtin", "auto", "builtin", "svg"},
		{"svg default asset", "svg", "", "svg"},
		{"svg missing file", "svg", "/nonexistent/ornament.svg", "none"},
		{"none", "none", "builtin", "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _, _ := newTestManager(t, func(c *config.Config) {
				c.Floral.Mode = tt.mode
				c.Floral.SVGAsset = tt.asset
			})
			if m.FloralMode() != tt.want {
				t.Errorf("expected %s, got %s", tt.want, m.FloralMode())
			}
			if tt.want == "svg" && m.SvgFloral() == nil {
				t.Error("expected svg animator")
			}
			if tt.want == "none" && (m.Floral() != nil || m.SvgFloral() != nil) {
				t.Error("expected no floral animator")
			}
			ticks(m, 5)
			if err := m.Draw(); err != nil {
				t.Errorf("unexpected draw error: %v", err)
			}
		})
	}
}

func TestDrawRendersList(t *testing.T) {
	m, surface, _ := newTestManager(t, nil)
	m.Tick(frame)
	if err := m.Draw(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if surface.renders != 1 {
		t.Errorf("expected 1 render, got %d", surface.renders)
	}
	if surface.items == 0 || surface.items != m.List().Len() {
		t.Errorf("expected rendered items to match the list, got %d", surface.items)
	}

	surface.err = errors.New("gpu lost")
	if err := m.Draw(); !errors.Is(err, surface.err) {
		t.Errorf("expected wrapped surface error, got %v", err)
	}
}

func TestContentBoundsFiltered(t *testing.T) {
	cfg := config.Default().Content

	wide := ContentBounds(cfg, 1280, 800)
	if len(wide) != 2 {
		t.Errorf("expected 2 content rects, got %d", len(wide))
	}
	narrow := ContentBounds(cfg, 240, 800)
	if len(narrow) != 1 {
		t.Errorf("expected the narrow header to be dropped, got %d rects", len(narrow))
	}
}

func TestDestroy(t *testing.T) {
	m, surface, out := newTestManager(t, nil)
	if err := m.NotifyInteraction(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.opens != 1 {
		t.Fatalf("expected output opened, got %d", out.opens)
	}

	m.Destroy()
	m.Destroy()
	if m.State() != Destroyed {
		t.Errorf("expected destroyed, got %s", m.State())
	}
	if out.closes != 1 {
		t.Errorf("expected output closed once, got %d", out.closes)
	}

	m.Tick(frame)
	if m.Ticks() != 0 {
		t.Error("expected Tick to be a no-op after destroy")
	}
	if err := m.Draw(); err != nil || surface.renders != 0 {
		t.Error("expected Draw to be a no-op after destroy")
	}
	m.HandleResize(640, 480)
	if m.State() != Destroyed {
		t.Error("expected resize ignored after destroy")
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{Uninitialized, "uninitialized"},
		{Running, "running"},
		{TearingDown, "tearing_down"},
		{Destroyed, "destroyed"},
		{State(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("expected %s, got %s", tt.want, got)
		}
	}
}
