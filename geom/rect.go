package geom

import "gonum.org/v1/gonum/spatial/r2"

// Rect is an axis-aligned rectangle in scene units.
type Rect struct {
	Left, Top, Right, Bottom float64
}

// RectXYWH builds a Rect from origin and size.
func RectXYWH(x, y, w, h float64) Rect {
	return Rect{Left: x, Top: y, Right: x + w, Bottom: y + h}
}

// Width returns the horizontal extent.
func (r Rect) Width() float64 { return r.Right - r.Left }

// Height returns the vertical extent.
func (r Rect) Height() float64 { return r.Bottom - r.Top }

// Center returns the rectangle centre.
func (r Rect) Center() r2.Vec {
	return r2.Vec{X: (r.Left + r.Right) / 2, Y: (r.Top + r.Bottom) / 2}
}

// Expand grows the rectangle by margin on every side.
func (r Rect) Expand(margin float64) Rect {
	return Rect{Left: r.Left - margin, Top: r.Top - margin, Right: r.Right + margin, Bottom: r.Bottom + margin}
}

// ContainsStrict reports whether p lies strictly inside r grown by margin.
func (r Rect) ContainsStrict(p r2.Vec, margin float64) bool {
	e := r.Expand(margin)
	return p.X > e.Left && p.X < e.Right && p.Y > e.Top && p.Y < e.Bottom
}

// Clamp returns p moved into the closed rectangle.
func (r Rect) Clamp(p r2.Vec) r2.Vec {
	return r2.Vec{X: Clamp(p.X, r.Left, r.Right), Y: Clamp(p.Y, r.Top, r.Bottom)}
}

// Include returns the smallest rectangle containing r and p.
func (r Rect) Include(p r2.Vec) Rect {
	if p.X < r.Left {
		r.Left = p.X
	}
	if p.X > r.Right {
		r.Right = p.X
	}
	if p.Y < r.Top {
		r.Top = p.Y
	}
	if p.Y > r.Bottom {
		r.Bottom = p.Y
	}
	return r
}

// Box converts to the gonum representation.
func (r Rect) Box() r2.Box {
	return r2.Box{Min: r2.Vec{X: r.Left, Y: r.Top}, Max: r2.Vec{X: r.Right, Y: r.Bottom}}
}
