// Package theme maps the dark/light theme flag to the greyscale colours of
// each scene category.
package theme

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// Signal is a snapshot of the two theme inputs: the document's data-theme
// attribute and the OS prefers-color-scheme query.
type Signal struct {
	Attribute   string
	PrefersDark bool
}

// IsDark resolves the signal. An attribute wins when present.
func (s Signal) IsDark() bool {
	if s.Attribute == "" {
		return s.PrefersDark
	}
	return strings.Contains(s.Attribute, "dark")
}

// Handler produces category colours for one theme. It holds no state beyond
// the flag it was built from.
type Handler struct {
	Dark bool
}

// FromSignal builds a handler for the resolved signal.
func FromSignal(s Signal) Handler {
	return Handler{Dark: s.IsDark()}
}

// WaterBaseOpacity is the opacity of the top wave layer.
func (h Handler) WaterBaseOpacity() float64 {
	if h.Dark {
		return 0.25
	}
	return 0.15
}

// Water returns the wave fill; opacity <= 0 selects the default 0.15.
func (h Handler) Water(opacity float64) color.NRGBA {
	if opacity <= 0 {
		opacity = 0.15
	}
	return grey(h.pick(230, 70), opacity)
}

// Insect returns the dragonfly body colour.
func (h Handler) Insect() color.NRGBA {
	return grey(h.pick(220, 60), 0.5)
}

// SeaStar returns the starfish fill.
func (h Handler) SeaStar() color.NRGBA {
	return grey(h.pick(140, 160), 0.8)
}

// Floral returns the vine stroke colour.
func (h Handler) Floral() color.NRGBA {
	return grey(h.pick(100, 40), 0.8)
}

// Background returns the opaque page colour behind the scene.
func (h Handler) Background() color.NRGBA {
	return grey(h.pick(18, 250), 1)
}

func (h Handler) pick(dark, light uint8) uint8 {
	if h.Dark {
		return dark
	}
	return light
}

func grey(v uint8, alpha float64) color.NRGBA {
	return WithAlpha(color.NRGBA{R: v, G: v, B: v, A: 255}, alpha)
}

// WithAlpha replaces the alpha channel, alpha in [0,1].
func WithAlpha(c color.NRGBA, alpha float64) color.NRGBA {
	alpha = math.Max(0, math.Min(1, alpha))
	c.A = uint8(math.Round(alpha * 255))
	return c
}

// Alpha returns the alpha channel in [0,1].
func Alpha(c color.NRGBA) float64 {
	return float64(c.A) / 255
}

// CSS formats c as an rgba() string.
func CSS(c color.NRGBA) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %s)", c.R, c.G, c.B, strconv.FormatFloat(Alpha(c), 'f', -1, 64))
}
