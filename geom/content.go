package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// ContentBounds is the list of page-content rectangles generated entities avoid.
// It is computed once per scene build and read-only afterwards.
type ContentBounds []Rect

// FilterContent keeps rectangles larger than the minimum size.
func FilterContent(rects []Rect, minW, minH float64) ContentBounds {
	out := make(ContentBounds, 0, len(rects))
	for _, r := range rects {
		if r.Width() > minW && r.Height() > minH {
			out = append(out, r)
		}
	}
	return out
}

// Collides reports whether p lies inside any rectangle grown by margin.
func (cb ContentBounds) Collides(p r2.Vec, margin float64) bool {
	for _, r := range cb {
		if r.ContainsStrict(p, margin) {
			return true
		}
	}
	return false
}

// Deflection returns a unit vector pointing out of the first violated
// rectangle through its nearest edge. ok is false when p is clear.
func (cb ContentBounds) Deflection(p r2.Vec, margin float64) (dir r2.Vec, depth float64, ok bool) {
	for _, r := range cb {
		if !r.ContainsStrict(p, margin) {
			continue
		}
		e := r.Expand(margin)
		left := p.X - e.Left
		right := e.Right - p.X
		top := p.Y - e.Top
		bottom := e.Bottom - p.Y

		depth = math.Min(math.Min(left, right), math.Min(top, bottom))
		switch depth {
		case left:
			dir = r2.Vec{X: -1}
		case right:
			dir = r2.Vec{X: 1}
		case top:
			dir = r2.Vec{Y: -1}
		default:
			dir = r2.Vec{Y: 1}
		}
		return dir, depth, true
	}
	return r2.Vec{}, 0, false
}
