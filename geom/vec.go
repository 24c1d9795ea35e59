// Package geom provides the 2D geometry shared by the scene animators.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// V is shorthand for an r2.Vec literal.
func V(x, y float64) r2.Vec {
	return r2.Vec{X: x, Y: y}
}

// Lerp interpolates linearly between a and b.
func Lerp(a, b r2.Vec, t float64) r2.Vec {
	return r2.Add(a, r2.Scale(t, r2.Sub(b, a)))
}

// FromAngle returns a vector of the given length pointing along angle (radians).
func FromAngle(angle, length float64) r2.Vec {
	return r2.Vec{X: math.Cos(angle) * length, Y: math.Sin(angle) * length}
}

// Heading returns the angle of the segment from a to b.
func Heading(a, b r2.Vec) float64 {
	return math.Atan2(b.Y-a.Y, b.X-a.X)
}

// Dist returns the Euclidean distance between a and b.
func Dist(a, b r2.Vec) float64 {
	return r2.Norm(r2.Sub(b, a))
}

// RotateAround rotates p by deg degrees around pivot.
func RotateAround(p r2.Vec, deg float64, pivot r2.Vec) r2.Vec {
	if deg == 0 {
		return p
	}
	rad := deg * math.Pi / 180
	s, c := math.Sincos(rad)
	d := r2.Sub(p, pivot)
	return r2.Vec{X: pivot.X + d.X*c - d.Y*s, Y: pivot.Y + d.X*s + d.Y*c}
}

// Transform places local points: rotate by deg around the origin, then translate.
func Transform(local []r2.Vec, deg float64, at r2.Vec) []r2.Vec {
	out := make([]r2.Vec, len(local))
	for i, p := range local {
		out[i] = r2.Add(RotateAround(p, deg, r2.Vec{}), at)
	}
	return out
}

// MirrorX reflects points across the vertical line x = axis.
func MirrorX(points []r2.Vec, axis float64) []r2.Vec {
	out := make([]r2.Vec, len(points))
	for i, p := range points {
		out[i] = r2.Vec{X: 2*axis - p.X, Y: p.Y}
	}
	return out
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
