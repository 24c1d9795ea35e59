package ui

import (
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/naturescene/telemetry"
	"github.com/pthm-cable/naturescene/theme"
)

func TestToggleBounds(t *testing.T) {
	sound, themeBtn := ToggleBounds(1280, 800)

	if sound.X+sound.Width != 1280-toggleMargin {
		t.Errorf("expected sound button right edge at %d, got %v", 1280-toggleMargin, sound.X+sound.Width)
	}
	if sound.Y+sound.Height != 800-toggleMargin {
		t.Errorf("expected sound button bottom edge at %d, got %v", 800-toggleMargin, sound.Y+sound.Height)
	}
	if themeBtn.X+themeBtn.Width >= sound.X {
		t.Errorf("expected theme button left of sound button, got %v and %v", themeBtn, sound)
	}
}

func TestHit(t *testing.T) {
	sound, _ := ToggleBounds(1280, 800)
	tests := []struct {
		name string
		p    rl.Vector2
		want bool
	}{
		{"sound button", rl.NewVector2(sound.X+5, sound.Y+5), true},
		{"scene", rl.NewVector2(400, 300), false},
	}
	for _, tt := range tests {
		if got := Hit(1280, 800, tt.p); got != tt.want {
			t.Errorf("%s: expected %v, got %v", tt.name, tt.want, got)
		}
	}
}

func TestLabels(t *testing.T) {
	if SoundLabel(true) != "Sound: off" || SoundLabel(false) != "Sound: on" {
		t.Error("unexpected sound labels")
	}
	if ThemeLabel(true) != "Light" || ThemeLabel(false) != "Dark" {
		t.Error("unexpected theme labels")
	}
}

func TestHUDLines(t *testing.T) {
	d := HUDData{
		Snapshot: telemetry.SceneSnapshot{SceneTime: 1.5, Insects: 6, SeaStars: 5, Ornaments: 2, Decorations: 14, ActiveSounds: 1},
		State:    "running",
		Floral:   "procedural",
		Dark:     true,
		Muted:    true,
		FPS:      60,
	}
	want := map[string]string{
		"State":      "running",
		"FPS":        "60",
		"Scene time": "1.50",
		"Insects":    "6",
		"Floral":     "procedural (2)",
		"Theme":      "dark",
		"Sound":      "muted, 1 active",
	}
	got := map[string]string{}
	for _, l := range d.Lines() {
		got[l.Label] = l.Value
	}
	for label, value := range want {
		if got[label] != value {
			t.Errorf("%s: expected %q, got %q", label, value, got[label])
		}
	}
}

func TestHUDToggle(t *testing.T) {
	h := NewHUD(StyleFor(theme.Handler{}))
	if h.Visible() {
		t.Error("expected hidden HUD by default")
	}
	if !h.Toggle() || !h.Visible() {
		t.Error("expected visible after toggle")
	}
}

func TestStyleFollowsTheme(t *testing.T) {
	dark := StyleFor(theme.Handler{Dark: true})
	light := StyleFor(theme.Handler{})
	if dark.ValueColor.R <= dark.PanelBg.R {
		t.Error("expected light text on dark panels")
	}
	if light.ValueColor.R >= light.PanelBg.R {
		t.Error("expected dark text on light panels")
	}
}

func TestClamp01(t *testing.T) {
	tests := []struct{ in, want float32 }{{-1, 0}, {0.5, 0.5}, {2, 1}}
	for _, tt := range tests {
		if got := clamp01(tt.in); got != tt.want {
			t.Errorf("expected %v, got %v", tt.want, got)
		}
	}
}
