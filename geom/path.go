package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Truncate returns the prefix of a point sequence revealed at progress in [0,1]:
// floor(progress*(n-1)) whole segments plus one interpolated point at the
// fractional boundary.
func Truncate(points []r2.Vec, progress float64) []r2.Vec {
	n := len(points)
	if n == 0 {
		return nil
	}
	progress = Clamp(progress, 0, 1)
	span := progress * float64(n-1)
	idx := int(math.Floor(span))
	if idx >= n-1 {
		return append([]r2.Vec(nil), points...)
	}
	out := append([]r2.Vec(nil), points[:idx+1]...)
	if frac := span - float64(idx); frac > 0 {
		out = append(out, Lerp(points[idx], points[idx+1], frac))
	}
	return out
}

// EllipseOutline returns a closed ellipse outline around the origin.
func EllipseOutline(center r2.Vec, rx, ry float64, segments int) []r2.Vec {
	if segments < 3 {
		segments = 3
	}
	out := make([]r2.Vec, segments)
	for i := range out {
		a := 2 * math.Pi * float64(i) / float64(segments)
		out[i] = r2.Vec{X: center.X + math.Cos(a)*rx, Y: center.Y + math.Sin(a)*ry}
	}
	return out
}

// PolylineLength sums the segment lengths.
func PolylineLength(points []r2.Vec) float64 {
	var total float64
	for i := 1; i < len(points); i++ {
		total += Dist(points[i-1], points[i])
	}
	return total
}
