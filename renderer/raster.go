package renderer

import (
	"image/color"
	"math"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"
)

// signedArea is the shoelace sum of a triangle in screen space (Y down).
// raylib draws only triangles whose sum is negative.
func signedArea(a, b, c r2.Vec) float64 {
	return (b.X-a.X)*(c.Y-a.Y) - (c.X-a.X)*(b.Y-a.Y)
}

// wound orders a triangle for raylib.
func wound(a, b, c r2.Vec) (r2.Vec, r2.Vec, r2.Vec) {
	if signedArea(a, b, c) > 0 {
		return a, c, b
	}
	return a, b, c
}

// centroid returns the vertex average.
func centroid(points []r2.Vec) r2.Vec {
	var sum r2.Vec
	for _, p := range points {
		sum = r2.Add(sum, p)
	}
	return r2.Scale(1/float64(len(points)), sum)
}

// fan triangulates an outline around its centroid. Exact for star-shaped
// outlines such as sea stars, leaves and wings.
func fan(points []r2.Vec) [][3]r2.Vec {
	if len(points) < 3 {
		return nil
	}
	c := centroid(points)
	tris := make([][3]r2.Vec, 0, len(points))
	for i := range points {
		a, b, cc := wound(c, points[i], points[(i+1)%len(points)])
		tris = append(tris, [3]r2.Vec{a, b, cc})
	}
	return tris
}

// areaStrip fills between a top edge and a horizontal baseline.
func areaStrip(top []r2.Vec, baseline float64) [][3]r2.Vec {
	tris := make([][3]r2.Vec, 0, 2*len(top))
	for i := 0; i+1 < len(top); i++ {
		p0, p1 := top[i], top[i+1]
		b0, b1 := r2.Vec{X: p0.X, Y: baseline}, r2.Vec{X: p1.X, Y: baseline}
		a, b, c := wound(p0, b0, b1)
		tris = append(tris, [3]r2.Vec{a, b, c})
		a, b, c = wound(p0, b1, p1)
		tris = append(tris, [3]r2.Vec{a, b, c})
	}
	return tris
}

// scanline returns the sorted X crossings of row y with every closed
// subpath. Consecutive pairs are the even-odd interior spans.
func scanline(subpaths [][]r2.Vec, y float64, xs []float64) []float64 {
	xs = xs[:0]
	for _, sp := range subpaths {
		n := len(sp)
		for i := 0; i < n; i++ {
			a, b := sp[i], sp[(i+1)%n]
			if (a.Y <= y) == (b.Y <= y) {
				continue
			}
			t := (y - a.Y) / (b.Y - a.Y)
			xs = append(xs, a.X+t*(b.X-a.X))
		}
	}
	sort.Float64s(xs)
	return xs
}

// bounds returns the vertical extent of a set of subpaths.
func bounds(subpaths [][]r2.Vec) (minY, maxY float64) {
	minY, maxY = math.Inf(1), math.Inf(-1)
	for _, sp := range subpaths {
		for _, p := range sp {
			minY = math.Min(minY, p.Y)
			maxY = math.Max(maxY, p.Y)
		}
	}
	return minY, maxY
}

// rgba converts a colour, scaling its alpha by opacity.
func rgba(c color.NRGBA, opacity float64) rl.Color {
	a := math.Round(float64(c.A) * math.Max(0, math.Min(1, opacity)))
	return rl.NewColor(c.R, c.G, c.B, uint8(a))
}
