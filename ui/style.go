// Package ui draws the small overlay on top of the scene: the sound toggle
// and an optional stats HUD.
package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/naturescene/theme"
)

// Style holds colours and metrics for the overlay.
type Style struct {
	PanelBg     rl.Color
	PanelBorder rl.Color
	LabelColor  rl.Color
	ValueColor  rl.Color
	BarBg       rl.Color
	BarFill     rl.Color

	Padding    int32
	LineHeight int32
	LabelWidth int32
	BarHeight  int32
	FontSize   int32
}

// StyleFor returns the overlay style for a theme. The overlay is greyscale
// like the scene.
func StyleFor(h theme.Handler) Style {
	s := Style{
		Padding:    10,
		LineHeight: 16,
		LabelWidth: 90,
		BarHeight:  10,
		FontSize:   12,
	}
	if h.Dark {
		s.PanelBg = rl.Color{R: 20, G: 20, B: 20, A: 220}
		s.PanelBorder = rl.Color{R: 70, G: 70, B: 70, A: 255}
		s.LabelColor = rl.Color{R: 160, G: 160, B: 160, A: 255}
		s.ValueColor = rl.Color{R: 220, G: 220, B: 220, A: 255}
		s.BarBg = rl.Color{R: 45, G: 45, B: 45, A: 255}
		s.BarFill = rl.Color{R: 150, G: 150, B: 150, A: 255}
	} else {
		s.PanelBg = rl.Color{R: 245, G: 245, B: 245, A: 220}
		s.PanelBorder = rl.Color{R: 190, G: 190, B: 190, A: 255}
		s.LabelColor = rl.Color{R: 100, G: 100, B: 100, A: 255}
		s.ValueColor = rl.Color{R: 30, G: 30, B: 30, A: 255}
		s.BarBg = rl.Color{R: 220, G: 220, B: 220, A: 255}
		s.BarFill = rl.Color{R: 90, G: 90, B: 90, A: 255}
	}
	return s
}
