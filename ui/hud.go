package ui

import (
	"fmt"

	"github.com/pthm-cable/naturescene/telemetry"
)

const hudWidth = 240

// HUDLine is one label/value row.
type HUDLine struct {
	Label string
	Value string
}

// HUDData holds everything the HUD shows for a frame.
type HUDData struct {
	Snapshot telemetry.SceneSnapshot
	State    string
	Floral   string
	Dark     bool
	Muted    bool
	FPS      int32
}

// Lines formats the rows in display order.
func (d HUDData) Lines() []HUDLine {
	themeName := "light"
	if d.Dark {
		themeName = "dark"
	}
	sound := "on"
	if d.Muted {
		sound = "muted"
	}
	s := d.Snapshot
	return []HUDLine{
		{"State", d.State},
		{"FPS", fmt.Sprintf("%d", d.FPS)},
		{"Scene time", fmt.Sprintf("%.2f", s.SceneTime)},
		{"Insects", fmt.Sprintf("%d", s.Insects)},
		{"Sea stars", fmt.Sprintf("%d", s.SeaStars)},
		{"Floral", fmt.Sprintf("%s (%d)", d.Floral, s.Ornaments)},
		{"Decorations", fmt.Sprintf("%d", s.Decorations)},
		{"Theme", themeName},
		{"Sound", fmt.Sprintf("%s, %d active", sound, s.ActiveSounds)},
	}
}

// HUD renders the stats panel in the top-left corner.
type HUD struct {
	renderer *Renderer
	visible  bool
}

// NewHUD creates a hidden HUD.
func NewHUD(s Style) *HUD {
	return &HUD{renderer: NewRenderer(s)}
}

// SetStyle restyles the HUD after a theme change.
func (h *HUD) SetStyle(s Style) { h.renderer.Style = s }

// Toggle switches visibility and returns the new state.
func (h *HUD) Toggle() bool {
	h.visible = !h.visible
	return h.visible
}

// Visible reports whether the HUD is drawn.
func (h *HUD) Visible() bool { return h.visible }

// Draw renders the HUD if visible.
func (h *HUD) Draw(d HUDData) {
	if !h.visible {
		return
	}
	r := h.renderer
	lines := d.Lines()
	pad := r.Style.Padding
	height := int32(len(lines))*r.Style.LineHeight + r.Style.LineHeight + 2 + pad*2

	r.DrawPanel(pad, pad, hudWidth, height)
	x, y := pad*2, pad*2
	for _, l := range lines {
		y = r.DrawLabelValue(x, y, l.Label, l.Value)
	}
	r.DrawBar(x, y, "Growth", float32(d.Snapshot.FloralProgress), hudWidth-pad*2)
}
