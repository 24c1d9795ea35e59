// Package draw defines the renderer-neutral display list the animators emit
// into once per frame.
package draw

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"
)

// Kind identifies how an item is rasterised.
type Kind uint8

const (
	KindArea     Kind = iota // Points is a top edge filled straight down to Baseline
	KindPolygon              // Points is a closed outline
	KindPolyline             // Points is an open stroked line
	KindCircle               // Center + Radius
	KindSVGPath              // PathData + Transform, Subpaths holds the flattened outline
)

// Item is one drawable primitive. A zero colour means "no fill" / "no stroke".
type Item struct {
	Kind        Kind
	Points      []r2.Vec
	Subpaths    [][]r2.Vec
	Center      r2.Vec
	Radius      float64
	Baseline    float64
	Fill        color.NRGBA
	Stroke      color.NRGBA
	StrokeWidth float64
	RoundCap    bool

	// SVG-only attributes
	PathData  string
	Transform string
	Opacity   float64
	Class     string
}

// List accumulates a frame's items in paint order.
type List struct {
	Items []Item
}

// Reset empties the list, keeping capacity.
func (l *List) Reset() {
	l.Items = l.Items[:0]
}

// Len returns the item count.
func (l *List) Len() int {
	return len(l.Items)
}

// Area appends a wave-style filled area.
func (l *List) Area(top []r2.Vec, baseline float64, fill color.NRGBA) {
	l.Items = append(l.Items, Item{Kind: KindArea, Points: top, Baseline: baseline, Fill: fill})
}

// Polygon appends a closed outline.
func (l *List) Polygon(points []r2.Vec, fill, stroke color.NRGBA, strokeWidth float64) {
	l.Items = append(l.Items, Item{Kind: KindPolygon, Points: points, Fill: fill, Stroke: stroke, StrokeWidth: strokeWidth})
}

// Polyline appends an open stroked line.
func (l *List) Polyline(points []r2.Vec, stroke color.NRGBA, strokeWidth float64, roundCap bool) {
	if len(points) < 2 {
		return
	}
	l.Items = append(l.Items, Item{Kind: KindPolyline, Points: points, Stroke: stroke, StrokeWidth: strokeWidth, RoundCap: roundCap})
}

// Circle appends a circle.
func (l *List) Circle(center r2.Vec, radius float64, fill, stroke color.NRGBA, strokeWidth float64) {
	l.Items = append(l.Items, Item{Kind: KindCircle, Center: center, Radius: radius, Fill: fill, Stroke: stroke, StrokeWidth: strokeWidth})
}

// SVGPath appends pre-authored path data.
func (l *List) SVGPath(item Item) {
	item.Kind = KindSVGPath
	l.Items = append(l.Items, item)
}

// Visible reports whether a colour paints anything.
func Visible(c color.NRGBA) bool {
	return c.A > 0
}
