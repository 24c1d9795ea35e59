package systems

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/naturescene/draw"
	"github.com/pthm-cable/naturescene/theme"
)

const (
	waveLayers = 4
	waveStep   = 5.0
)

// WaveLayer is one stacked water band. Only the Y of each sample in Top
// changes per frame.
type WaveLayer struct {
	Layer     int
	Frequency float64
	Amplitude float64
	BaseY     float64
	Width     float64
	Bottom    float64
	Top       []r2.Vec
	Color     color.NRGBA
}

// Closed returns the polygon: top samples plus the two closing bottom vertices.
func (w *WaveLayer) Closed() []r2.Vec {
	out := make([]r2.Vec, 0, len(w.Top)+2)
	out = append(out, w.Top...)
	return append(out, r2.Vec{X: w.Width, Y: w.Bottom}, r2.Vec{X: 0, Y: w.Bottom})
}

// WaterAnimator owns the four wave layers along the lower third of the view.
type WaterAnimator struct {
	theme  theme.Handler
	Layers []*WaveLayer
}

// NewWaterAnimator creates an empty animator.
func NewWaterAnimator(h theme.Handler) *WaterAnimator {
	return &WaterAnimator{theme: h}
}

// WaterTop returns the Y where the water band begins.
func WaterTop(viewH float64) float64 {
	return viewH - viewH/3
}

// CreateWaterSection builds the layers for a view size.
func (a *WaterAnimator) CreateWaterSection(width, height float64) {
	top := WaterTop(height)
	a.Layers = a.Layers[:0]
	for layer := 0; layer < waveLayers; layer++ {
		a.Layers = append(a.Layers, newWaveLayer(width, height, top, layer))
	}
	a.UpdateTheme(a.theme)
}

func newWaveLayer(width, height, top float64, layer int) *WaveLayer {
	w := &WaveLayer{
		Layer:     layer,
		Frequency: 0.003 + float64(layer)*0.001,
		Amplitude: 20 + float64(layer)*5,
		BaseY:     top + float64(layer)*10,
		Width:     width,
		Bottom:    height,
	}
	n := int(math.Floor(width/waveStep)) + 1
	w.Top = make([]r2.Vec, 0, n+1)
	for i := 0; i < n; i++ {
		x := float64(i) * waveStep
		w.Top = append(w.Top, r2.Vec{X: x, Y: w.BaseY + math.Sin(x*w.Frequency)*w.Amplitude})
	}
	if last := w.Top[len(w.Top)-1].X; last < width {
		w.Top = append(w.Top, r2.Vec{X: width, Y: w.BaseY + math.Sin(width*w.Frequency)*w.Amplitude})
	}
	return w
}

// Animate recomputes every sample for the accumulated scene time.
func (a *WaterAnimator) Animate(time float64) {
	for _, w := range a.Layers {
		for i := range w.Top {
			x := w.Top[i].X
			w.Top[i].Y = w.BaseY + math.Sin(time*2+x*w.Frequency)*w.Amplitude
		}
	}
}

// UpdateTheme recolours each layer; deeper layers are more transparent.
func (a *WaterAnimator) UpdateTheme(h theme.Handler) {
	a.theme = h
	base := h.WaterBaseOpacity()
	for _, w := range a.Layers {
		w.Color = h.Water(base - float64(w.Layer)*0.03)
	}
}

// Emit appends one filled area per layer.
func (a *WaterAnimator) Emit(l *draw.List) {
	for _, w := range a.Layers {
		l.Area(w.Top, w.Bottom, w.Color)
	}
}
