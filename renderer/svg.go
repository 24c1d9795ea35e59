package renderer

import (
	"bufio"
	"encoding/xml"
	"errors"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/naturescene/draw"
	"github.com/pthm-cable/naturescene/theme"
)

// ErrSnapshotDir is returned when the snapshot directory cannot be used.
var ErrSnapshotDir = errors.New("renderer: snapshot directory unavailable")

// SVGSurface writes every Nth frame as a standalone SVG document. It backs
// headless runs, where there is no window to draw into.
type SVGSurface struct {
	dir   string
	w, h  float64
	every int
	theme theme.Handler

	frames  int
	written []string
}

// NewSVGSurface creates the directory if needed. every <= 0 disables
// writing; Render still counts frames.
func NewSVGSurface(dir string, w, h float64, every int) (*SVGSurface, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSnapshotDir, err)
	}
	return &SVGSurface{dir: dir, w: w, h: h, every: every}, nil
}

// Size returns the frame size.
func (s *SVGSurface) Size() (w, h float64) { return s.w, s.h }

// PixelRatio is always 1; SVG output is resolution independent.
func (s *SVGSurface) PixelRatio() float64 { return 1 }

// Resize changes the size of subsequent frames.
func (s *SVGSurface) Resize(w, h float64) { s.w, s.h = w, h }

// SetTheme sets the background theme.
func (s *SVGSurface) SetTheme(h theme.Handler) { s.theme = h }

// Written returns the paths of the files written so far.
func (s *SVGSurface) Written() []string { return s.written }

// Render writes the frame if it falls on the snapshot interval.
func (s *SVGSurface) Render(l *draw.List, opacity float64) error {
	s.frames++
	if s.every <= 0 || (s.frames-1)%s.every != 0 {
		return nil
	}

	path := filepath.Join(s.dir, fmt.Sprintf("frame_%06d.svg", s.frames))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating snapshot: %w", err)
	}
	bw := bufio.NewWriter(f)
	if err := s.Encode(bw, l, opacity); err != nil {
		f.Close()
		return err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	s.written = append(s.written, path)
	return nil
}

// Encode writes the list as one SVG document.
func (s *SVGSurface) Encode(w io.Writer, l *draw.List, opacity float64) error {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`+"\n",
		num(s.w), num(s.h), num(s.w), num(s.h))
	fmt.Fprintf(&b, `<rect width="100%%" height="100%%" fill="%s"/>`+"\n", paint(s.theme.Background()))
	fmt.Fprintf(&b, `<g opacity="%s">`+"\n", num(opacity))

	for i := range l.Items {
		it := &l.Items[i]
		switch it.Kind {
		case draw.KindArea:
			fmt.Fprintf(&b, `<path d="%s" fill="%s"/>`+"\n", areaPath(it.Points, it.Baseline), paint(it.Fill))
		case draw.KindPolygon:
			fmt.Fprintf(&b, `<polygon points="%s" fill="%s"%s/>`+"\n", points(it.Points), paint(it.Fill), strokeAttrs(it))
		case draw.KindPolyline:
			fmt.Fprintf(&b, `<polyline points="%s" fill="none"%s/>`+"\n", points(it.Points), strokeAttrs(it))
		case draw.KindCircle:
			fmt.Fprintf(&b, `<circle cx="%s" cy="%s" r="%s" fill="%s"%s/>`+"\n",
				num(it.Center.X), num(it.Center.Y), num(it.Radius), paint(it.Fill), strokeAttrs(it))
		case draw.KindSVGPath:
			fmt.Fprintf(&b, `<path class="%s" d="%s" transform="%s" fill="%s" opacity="%s"/>`+"\n",
				escape(it.Class), escape(it.PathData), escape(it.Transform), paint(it.Fill), num(it.Opacity))
		}
	}
	b.WriteString("</g>\n</svg>\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("encoding svg: %w", err)
	}
	return nil
}

func strokeAttrs(it *draw.Item) string {
	if !draw.Visible(it.Stroke) {
		return ""
	}
	attrs := fmt.Sprintf(` stroke="%s" stroke-width="%s"`, paint(it.Stroke), num(it.StrokeWidth))
	if it.RoundCap {
		attrs += ` stroke-linecap="round"`
	}
	return attrs
}

func areaPath(top []r2.Vec, baseline float64) string {
	if len(top) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range top {
		if i == 0 {
			b.WriteString("M")
		} else {
			b.WriteString(" L")
		}
		b.WriteString(num(p.X) + " " + num(p.Y))
	}
	last := top[len(top)-1]
	fmt.Fprintf(&b, " L%s %s L%s %s Z", num(last.X), num(baseline), num(top[0].X), num(baseline))
	return b.String()
}

func points(ps []r2.Vec) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = num(p.X) + "," + num(p.Y)
	}
	return strings.Join(parts, " ")
}

func paint(c color.NRGBA) string {
	if !draw.Visible(c) {
		return "none"
	}
	return theme.CSS(c)
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func escape(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}
