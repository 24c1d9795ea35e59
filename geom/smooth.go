package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// minKnot keeps coincident control points from collapsing a knot interval.
const minKnot = 1e-6

// CatmullRom returns an open Catmull-Rom spline through points.
// alpha selects the parameterisation (0 uniform, 0.5 centripetal, 1 chordal)
// and steps is the number of samples per span. The curve passes through
// every control point.
func CatmullRom(points []r2.Vec, alpha float64, steps int) []r2.Vec {
	n := len(points)
	if n < 3 || steps < 2 {
		return append([]r2.Vec(nil), points...)
	}
	first := r2.Sub(r2.Scale(2, points[0]), points[1])
	last := r2.Sub(r2.Scale(2, points[n-1]), points[n-2])

	out := make([]r2.Vec, 0, (n-1)*steps+1)
	for i := 0; i < n-1; i++ {
		p0 := first
		if i > 0 {
			p0 = points[i-1]
		}
		p3 := last
		if i+2 < n {
			p3 = points[i+2]
		}
		out = appendSpan(out, p0, points[i], points[i+1], p3, alpha, steps)
	}
	return append(out, points[n-1])
}

// CatmullRomClosed smooths a closed outline; the result is not repeated at the seam.
func CatmullRomClosed(points []r2.Vec, alpha float64, steps int) []r2.Vec {
	n := len(points)
	if n < 3 || steps < 2 {
		return append([]r2.Vec(nil), points...)
	}
	out := make([]r2.Vec, 0, n*steps)
	for i := 0; i < n; i++ {
		p0 := points[(i-1+n)%n]
		p1 := points[i]
		p2 := points[(i+1)%n]
		p3 := points[(i+2)%n]
		out = appendSpan(out, p0, p1, p2, p3, alpha, steps)
	}
	return out
}

// appendSpan samples the span p1..p2 (p2 excluded) using the Barry-Goldman
// pyramid formulation.
func appendSpan(out []r2.Vec, p0, p1, p2, p3 r2.Vec, alpha float64, steps int) []r2.Vec {
	t0 := 0.0
	t1 := t0 + knot(p0, p1, alpha)
	t2 := t1 + knot(p1, p2, alpha)
	t3 := t2 + knot(p2, p3, alpha)

	for s := 0; s < steps; s++ {
		t := t1 + (t2-t1)*float64(s)/float64(steps)
		a1 := blend(p0, p1, t0, t1, t)
		a2 := blend(p1, p2, t1, t2, t)
		a3 := blend(p2, p3, t2, t3, t)
		b1 := blend(a1, a2, t0, t2, t)
		b2 := blend(a2, a3, t1, t3, t)
		out = append(out, blend(b1, b2, t1, t2, t))
	}
	return out
}

func knot(a, b r2.Vec, alpha float64) float64 {
	return math.Max(math.Pow(Dist(a, b), alpha), minKnot)
}

func blend(a, b r2.Vec, ta, tb, t float64) r2.Vec {
	return r2.Add(r2.Scale((tb-t)/(tb-ta), a), r2.Scale((t-ta)/(tb-ta), b))
}
