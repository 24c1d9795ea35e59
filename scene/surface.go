package scene

import "github.com/pthm-cable/naturescene/draw"

// Surface is where a frame is drawn. Size is in scene units.
type Surface interface {
	Size() (w, h float64)
	PixelRatio() float64
	Render(l *draw.List, opacity float64) error
}
