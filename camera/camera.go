// Package camera maps scene units onto surface pixels.
package camera

// Pixel ratio constraints.
const (
	MinPixelRatio = 0.5
	MaxPixelRatio = 4.0
)

// Viewport converts between scene units, in which every animator works,
// and surface pixels. A pixel ratio of 2 draws a 640x400 scene into an
// 1280x800 framebuffer.
type Viewport struct {
	// Surface dimensions in device pixels
	SurfaceW, SurfaceH float32

	// Device pixels per scene unit
	PixelRatio float32
}

// New creates a viewport for a surface. A non-positive ratio means 1.
func New(surfaceW, surfaceH, pixelRatio float32) *Viewport {
	v := &Viewport{SurfaceW: surfaceW, SurfaceH: surfaceH}
	v.SetPixelRatio(pixelRatio)
	return v
}

// SceneSize returns the scene dimensions in scene units.
func (v *Viewport) SceneSize() (w, h float32) {
	return v.SurfaceW / v.PixelRatio, v.SurfaceH / v.PixelRatio
}

// SceneToSurface converts scene coordinates to surface pixels.
func (v *Viewport) SceneToSurface(x, y float32) (sx, sy float32) {
	return x * v.PixelRatio, y * v.PixelRatio
}

// SurfaceToScene converts surface pixels, such as a mouse position, to
// scene coordinates.
func (v *Viewport) SurfaceToScene(sx, sy float32) (x, y float32) {
	return sx / v.PixelRatio, sy / v.PixelRatio
}

// Scale converts a scene length to pixels.
func (v *Viewport) Scale(length float32) float32 {
	return length * v.PixelRatio
}

// IsVisible reports whether a circle in scene units could touch the surface.
func (v *Viewport) IsVisible(x, y, radius float32) bool {
	w, h := v.SceneSize()
	return x+radius >= 0 && x-radius <= w && y+radius >= 0 && y-radius <= h
}

// Resize updates the surface dimensions and reports whether they changed.
func (v *Viewport) Resize(surfaceW, surfaceH float32) bool {
	if surfaceW == v.SurfaceW && surfaceH == v.SurfaceH {
		return false
	}
	v.SurfaceW = surfaceW
	v.SurfaceH = surfaceH
	return true
}

// SetPixelRatio sets the ratio, clamped to the supported range.
func (v *Viewport) SetPixelRatio(ratio float32) {
	if ratio <= 0 {
		ratio = 1
	}
	v.PixelRatio = clamp(ratio, MinPixelRatio, MaxPixelRatio)
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
