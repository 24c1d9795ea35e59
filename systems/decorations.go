package systems

import (
	"image/color"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/naturescene/draw"
	"github.com/pthm-cable/naturescene/geom"
	"github.com/pthm-cable/naturescene/theme"
)

// DecorationKind is what grows at a decoration slot.
type DecorationKind uint8

const (
	DecoLeaf DecorationKind = iota
	DecoFlower
	DecoTendril
	DecoSpiral
	DecoBulb
)

func (k DecorationKind) String() string {
	switch k {
	case DecoLeaf:
		return "leaf"
	case DecoFlower:
		return "flower"
	case DecoTendril:
		return "tendril"
	case DecoSpiral:
		return "spiral"
	case DecoBulb:
		return "bulb"
	}
	return "unknown"
}

// DecorationStyle refines leaves and flowers.
type DecorationStyle uint8

const (
	StyleNone DecorationStyle = iota
	StyleSimple
	StylePointed
	StyleCompound
	StyleBell
	StyleBud
	StyleCluster
)

// inheritAlpha marks a part painted with the ornament colour as is.
const inheritAlpha = -1

// Part is one primitive of a decoration. Alphas are absolute, 0 paints
// nothing and inheritAlpha keeps the ornament colour's own alpha.
type Part struct {
	Kind        draw.Kind
	Points      []r2.Vec
	Center      r2.Vec
	Radius      float64
	FillAlpha   float64
	StrokeAlpha float64
	StrokeWidth float64
	RoundCap    bool
}

// Decoration is a built leaf, flower, tendril, spiral or bulb.
type Decoration struct {
	Kind  DecorationKind
	Style DecorationStyle
	Slot  int
	Parts []Part
}

func tint(c color.NRGBA, alpha float64) color.NRGBA {
	switch {
	case alpha < 0:
		return c
	case alpha == 0:
		return color.NRGBA{}
	}
	return theme.WithAlpha(c, alpha)
}

func (p Part) emit(l *draw.List, c color.NRGBA) {
	switch p.Kind {
	case draw.KindCircle:
		l.Circle(p.Center, p.Radius, tint(c, p.FillAlpha), tint(c, p.StrokeAlpha), p.StrokeWidth)
	case draw.KindPolyline:
		l.Polyline(p.Points, tint(c, p.StrokeAlpha), p.StrokeWidth, p.RoundCap)
	default:
		l.Polygon(p.Points, tint(c, p.FillAlpha), tint(c, p.StrokeAlpha), p.StrokeWidth)
	}
}

// mapped returns the part with every coordinate passed through f.
func (p Part) mapped(f func(r2.Vec) r2.Vec) Part {
	out := p
	out.Center = f(p.Center)
	if p.Points != nil {
		out.Points = make([]r2.Vec, len(p.Points))
		for i, q := range p.Points {
			out.Points[i] = f(q)
		}
	}
	return out
}

func smoothClosed(points []r2.Vec) []r2.Vec {
	return geom.CatmullRomClosed(points, 0.5, 6)
}

func smoothOpen(points []r2.Vec) []r2.Vec {
	return geom.CatmullRom(points, 0.5, 4)
}

// leafParts builds a leaf pointing along angle from pos.
func leafParts(pos r2.Vec, angle, size float64, style DecorationStyle) []Part {
	switch style {
	case StylePointed:
		tip := r2.Add(pos, geom.FromAngle(angle, size))
		w := size * 0.3
		outline := []r2.Vec{
			pos,
			r2.Add(pos, geom.FromAngle(angle+math.Pi/3, w)),
			tip,
			r2.Add(pos, geom.FromAngle(angle-math.Pi/3, w)),
		}
		return []Part{{Kind: draw.KindPolygon, Points: smoothClosed(outline), FillAlpha: 0.3, StrokeAlpha: inheritAlpha, StrokeWidth: 1.5}}

	case StyleCompound:
		petiole := r2.Add(pos, geom.FromAngle(angle, size*0.25))
		parts := []Part{{Kind: draw.KindPolyline, Points: []r2.Vec{pos, petiole}, StrokeAlpha: inheritAlpha, StrokeWidth: 1.2, RoundCap: true}}
		parts = append(parts, leafParts(petiole, angle, size*0.8, StyleSimple)...)
		parts = append(parts, leafParts(petiole, angle-0.6, size*0.55, StylePointed)...)
		parts = append(parts, leafParts(petiole, angle+0.6, size*0.55, StylePointed)...)
		return parts
	}

	tip := r2.Add(pos, geom.FromAngle(angle, size))
	w := size * 0.35 * 0.4
	outline := []r2.Vec{
		pos,
		r2.Add(pos, geom.FromAngle(angle+math.Pi/2, w)),
		tip,
		r2.Add(pos, geom.FromAngle(angle-math.Pi/2, w)),
	}
	return []Part{
		{Kind: draw.KindPolygon, Points: smoothClosed(outline), FillAlpha: 0.25, StrokeAlpha: inheritAlpha, StrokeWidth: 1.5},
		{Kind: draw.KindPolyline, Points: []r2.Vec{pos, tip}, StrokeAlpha: 0.6, StrokeWidth: 0.8},
	}
}

// budParts builds a flower on a short curved stem leaving the vine at
// a right angle to baseAngle.
func budParts(pos r2.Vec, baseAngle, size float64, style DecorationStyle) []Part {
	budAngle := baseAngle - math.Pi/2
	stemLen := size * 1.2
	dir := geom.FromAngle(budAngle, 1)
	stemEnd := r2.Add(pos, r2.Scale(stemLen, dir))
	mid := r2.Add(pos, r2.Vec{X: dir.X * stemLen * 0.5, Y: dir.Y * stemLen * 0.7})

	parts := []Part{{Kind: draw.KindPolyline, Points: smoothOpen([]r2.Vec{pos, mid, stemEnd}), StrokeAlpha: inheritAlpha, StrokeWidth: 1.5}}

	switch style {
	case StyleBell:
		centre := r2.Add(stemEnd, r2.Vec{Y: size * 0.2})
		for i := 0; i < 3; i++ {
			a := budAngle + math.Pi + float64(i-1)*math.Pi/6
			petal := []r2.Vec{
				centre,
				r2.Add(centre, geom.FromAngle(a-0.3, size*0.4)),
				r2.Add(centre, geom.FromAngle(a, size*0.6)),
				r2.Add(centre, geom.FromAngle(a+0.3, size*0.4)),
			}
			parts = append(parts, Part{Kind: draw.KindPolygon, Points: smoothClosed(petal), FillAlpha: 0.2, StrokeAlpha: inheritAlpha, StrokeWidth: 1.2})
		}
	case StyleCluster:
		for i := -1; i <= 1; i++ {
			c := r2.Add(stemEnd, geom.FromAngle(budAngle+float64(i)*0.6, size*0.35))
			parts = append(parts, Part{Kind: draw.KindCircle, Center: c, Radius: size * 0.25, FillAlpha: 0.3, StrokeAlpha: inheritAlpha, StrokeWidth: 1})
		}
	default:
		parts = append(parts, Part{Kind: draw.KindCircle, Center: stemEnd, Radius: size * 0.4, FillAlpha: 0.3, StrokeAlpha: inheritAlpha, StrokeWidth: 1.5})
	}
	return parts
}

// curl is a log-spiral-like walk: the heading turns by an accelerating
// delta while the step shrinks.
type curl struct {
	steps   int
	turn    float64 // base turn per step, radians
	accel   float64 // turn growth over the walk
	step    float64 // base step as a fraction of length
	shrink  float64 // step loss over the walk
	bulbRad float64
}

var (
	tendrilCurl = curl{steps: 15, turn: 0.2, accel: 1.5, step: 0.15, shrink: 0.5, bulbRad: 3.5}
	spiralCurl  = curl{steps: 18, turn: 0.35, accel: 2.0, step: 0.12, shrink: 0.6, bulbRad: 2.5}
)

// walk returns the curl's points after start, turning against direction.
func (c curl) walk(start r2.Vec, direction, length, startAngle float64) []r2.Vec {
	pts := make([]r2.Vec, 0, c.steps)
	angle := startAngle
	p := start
	for i := 1; i <= c.steps; i++ {
		t := float64(i) / float64(c.steps)
		angle += -direction * c.turn * (1 + t*c.accel)
		p = r2.Add(p, geom.FromAngle(angle, length*c.step*(1-t*c.shrink)))
		pts = append(pts, p)
	}
	return pts
}

// parts returns the stroked curl and its bulb.
func (c curl) parts(start r2.Vec, direction, length, startAngle, width float64) []Part {
	pts := append([]r2.Vec{start}, c.walk(start, direction, length, startAngle)...)
	end := pts[len(pts)-1]
	return []Part{
		{Kind: draw.KindPolyline, Points: smoothOpen(pts), StrokeAlpha: inheritAlpha, StrokeWidth: width, RoundCap: true},
		{Kind: draw.KindCircle, Center: end, Radius: c.bulbRad, FillAlpha: inheritAlpha},
	}
}
