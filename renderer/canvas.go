// Package renderer rasterises the scene's display list onto a raylib
// window or into SVG snapshot files.
package renderer

import (
	"image/color"

	rl "github.com/gen2brain/raylib-go/raylib"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/naturescene/camera"
	"github.com/pthm-cable/naturescene/draw"
	"github.com/pthm-cable/naturescene/theme"
)

// circleSegments is the ring tessellation for stroked circles.
const circleSegments = 36

// Canvas draws a display list into the raylib window. The scene is painted
// into an offscreen target first so the canvas opacity fades it over the
// page background as one layer.
type Canvas struct {
	view  *camera.Viewport
	theme theme.Handler

	target      rl.RenderTexture2D
	targetW     int32
	targetH     int32
	initialized bool

	xs []float64
}

// NewCanvas creates a canvas for a viewport.
func NewCanvas(view *camera.Viewport, h theme.Handler) *Canvas {
	return &Canvas{view: view, theme: h}
}

// Init allocates the offscreen target (must be called after the raylib
// window is created). It is repeated when the surface size changes.
func (c *Canvas) Init() {
	w, h := int32(c.view.SurfaceW), int32(c.view.SurfaceH)
	if c.initialized && w == c.targetW && h == c.targetH {
		return
	}
	c.Unload()
	c.target = rl.LoadRenderTexture(w, h)
	c.targetW, c.targetH = w, h
	c.initialized = true
}

// Unload frees resources.
func (c *Canvas) Unload() {
	if c.initialized {
		rl.UnloadRenderTexture(c.target)
		c.initialized = false
	}
}

// SetTheme sets the page background theme.
func (c *Canvas) SetTheme(h theme.Handler) { c.theme = h }

// Viewport returns the canvas viewport.
func (c *Canvas) Viewport() *camera.Viewport { return c.view }

// Size returns the scene size in scene units.
func (c *Canvas) Size() (w, h float64) {
	sw, sh := c.view.SceneSize()
	return float64(sw), float64(sh)
}

// PixelRatio returns device pixels per scene unit.
func (c *Canvas) PixelRatio() float64 { return float64(c.view.PixelRatio) }

// Render draws the list. It must run between rl.BeginDrawing and
// rl.EndDrawing.
func (c *Canvas) Render(l *draw.List, opacity float64) error {
	c.Init()
	bg := rgba(c.theme.Background(), 1)
	rl.ClearBackground(bg)
	if opacity <= 0 {
		return nil
	}

	rl.BeginTextureMode(c.target)
	rl.ClearBackground(bg)
	for i := range l.Items {
		c.drawItem(&l.Items[i])
	}
	rl.EndTextureMode()

	// Render textures are stored upside down
	src := rl.NewRectangle(0, 0, float32(c.targetW), -float32(c.targetH))
	rl.DrawTextureRec(c.target.Texture, src, rl.NewVector2(0, 0), rgba(color.NRGBA{R: 255, G: 255, B: 255, A: 255}, opacity))
	return nil
}

// Image copies the last rendered frame before the canvas opacity is
// applied. The caller unloads it.
func (c *Canvas) Image() *rl.Image {
	img := rl.LoadImageFromTexture(c.target.Texture)
	// Get image from texture and flip it (OpenGL convention)
	rl.ImageFlipVertical(img)
	return img
}

func (c *Canvas) drawItem(it *draw.Item) {
	switch it.Kind {
	case draw.KindArea:
		if draw.Visible(it.Fill) {
			c.fill(areaStrip(it.Points, it.Baseline), rgba(it.Fill, 1))
		}
	case draw.KindPolygon:
		if draw.Visible(it.Fill) {
			c.fill(fan(it.Points), rgba(it.Fill, 1))
		}
		if draw.Visible(it.Stroke) && len(it.Points) > 1 {
			closed := append(append([]r2.Vec(nil), it.Points...), it.Points[0])
			c.stroke(closed, it.StrokeWidth, rgba(it.Stroke, 1), false)
		}
	case draw.KindPolyline:
		if draw.Visible(it.Stroke) {
			c.stroke(it.Points, it.StrokeWidth, rgba(it.Stroke, 1), it.RoundCap)
		}
	case draw.KindCircle:
		center := c.pt(it.Center)
		r := c.view.Scale(float32(it.Radius))
		if draw.Visible(it.Fill) {
			rl.DrawCircleV(center, r, rgba(it.Fill, 1))
		}
		if draw.Visible(it.Stroke) {
			half := c.view.Scale(float32(it.StrokeWidth)) / 2
			rl.DrawRing(center, r-half, r+half, 0, 360, circleSegments, rgba(it.Stroke, 1))
		}
	case draw.KindSVGPath:
		if draw.Visible(it.Fill) && it.Opacity > 0 {
			c.scanFill(it.Subpaths, rgba(it.Fill, it.Opacity))
		}
	}
}

func (c *Canvas) pt(p r2.Vec) rl.Vector2 {
	x, y := c.view.SceneToSurface(float32(p.X), float32(p.Y))
	return rl.NewVector2(x, y)
}

func (c *Canvas) fill(tris [][3]r2.Vec, col rl.Color) {
	for _, t := range tris {
		rl.DrawTriangle(c.pt(t[0]), c.pt(t[1]), c.pt(t[2]), col)
	}
}

func (c *Canvas) stroke(points []r2.Vec, width float64, col rl.Color, roundCap bool) {
	w := c.view.Scale(float32(width))
	if w < 1 {
		w = 1
	}
	for i := 0; i+1 < len(points); i++ {
		rl.DrawLineEx(c.pt(points[i]), c.pt(points[i+1]), w, col)
	}
	if roundCap && len(points) > 0 {
		rl.DrawCircleV(c.pt(points[0]), w/2, col)
		rl.DrawCircleV(c.pt(points[len(points)-1]), w/2, col)
	}
}

// scanFill fills subpaths with the even-odd rule, one device pixel row at
// a time. Used for pre-authored outlines that are not star-shaped.
func (c *Canvas) scanFill(subpaths [][]r2.Vec, col rl.Color) {
	minY, maxY := bounds(subpaths)
	step := 1 / float64(c.view.PixelRatio)
	row := c.view.Scale(float32(step))
	for y := minY + step/2; y < maxY; y += step {
		c.xs = scanline(subpaths, y, c.xs)
		for i := 0; i+1 < len(c.xs); i += 2 {
			x0, y0 := c.view.SceneToSurface(float32(c.xs[i]), float32(y-step/2))
			x1 := c.view.Scale(float32(c.xs[i+1]))
			rl.DrawRectangleV(rl.NewVector2(x0, y0), rl.NewVector2(x1-x0, row), col)
		}
	}
}
