package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Renderer draws widgets with a shared style.
type Renderer struct {
	Style Style
}

// NewRenderer creates a renderer.
func NewRenderer(s Style) *Renderer {
	return &Renderer{Style: s}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Style.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Style.PanelBorder)
}

// DrawLabelValue draws a label and value on the same line and returns the
// next Y position.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label+":", x, y, r.Style.FontSize, r.Style.LabelColor)
	rl.DrawText(value, x+r.Style.LabelWidth, y, r.Style.FontSize, r.Style.ValueColor)
	return y + r.Style.LineHeight
}

// DrawBar draws a progress bar for a [0, 1] value.
func (r *Renderer) DrawBar(x, y int32, label string, value float32, width int32) int32 {
	value = clamp01(value)

	barX := x + r.Style.LabelWidth
	barWidth := width - r.Style.LabelWidth - 40

	rl.DrawText(label+":", x, y, r.Style.FontSize, r.Style.LabelColor)
	rl.DrawRectangle(barX, y+2, barWidth, r.Style.BarHeight, r.Style.BarBg)
	rl.DrawRectangle(barX, y+2, int32(float32(barWidth)*value), r.Style.BarHeight, r.Style.BarFill)
	rl.DrawText(fmt.Sprintf("%.0f%%", value*100), barX+barWidth+5, y, r.Style.FontSize, r.Style.ValueColor)

	return y + r.Style.LineHeight + 2
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
