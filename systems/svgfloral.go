package systems

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"math"
	"strconv"

	"github.com/charmbracelet/harmonica"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/naturescene/config"
	"github.com/pthm-cable/naturescene/draw"
	"github.com/pthm-cable/naturescene/theme"
)

// OrnamentPathID is the element whose d attribute holds the ornament.
const OrnamentPathID = "main-ornament-path"

// ErrOrnamentPathMissing is returned when the asset has no ornament path.
var ErrOrnamentPathMissing = errors.New("ornament path not found")

// Authored path geometry: the root sits at (132,165) and the flowers reach
// up 125 units and 32 units inward.
const (
	ornamentRootX  = 132.0
	ornamentRootY  = 165.0
	ornamentHeight = 125.0
	ornamentReach  = 32.0
	mobileWidth    = 600.0
	flowerTopY     = 50.0
)

// LoadOrnamentPath reads an SVG asset and returns the ornament's path data.
func LoadOrnamentPath(fsys fs.FS, name string) (string, error) {
	f, err := fsys.Open(name)
	if err != nil {
		return "", fmt.Errorf("opening ornament asset: %w", err)
	}
	defer f.Close()
	return findPathData(f)
}

func findPathData(r io.Reader) (string, error) {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return "", ErrOrnamentPathMissing
		}
		if err != nil {
			return "", fmt.Errorf("parsing ornament asset: %w", err)
		}
		el, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		var id, d string
		for _, a := range el.Attr {
			switch a.Name.Local {
			case "id":
				id = a.Value
			case "d":
				d = a.Value
			}
		}
		if id == OrnamentPathID {
			if d == "" {
				return "", ErrOrnamentPathMissing
			}
			return d, nil
		}
	}
}

// SvgOrnament is one placed copy of the authored path.
type SvgOrnament struct {
	Side      string
	Scale     float64
	Tilt      float64 // degrees
	RootX     float64
	RootY     float64
	Transform string
	Outline   [][]r2.Vec
}

// place maps an authored point into the scene, applying
// translate(root) rotate(tilt) scale(sx, s) translate(-root).
func (o SvgOrnament) place(p r2.Vec) r2.Vec {
	sx := o.Scale
	tilt := o.Tilt
	if o.Side == "left" {
		sx = -sx
	}
	x := (p.X - ornamentRootX) * sx
	y := (p.Y - ornamentRootY) * o.Scale
	s, c := math.Sincos(tilt * math.Pi / 180)
	return r2.Vec{X: o.RootX + x*c - y*s, Y: o.RootY + x*s + y*c}
}

// SvgFloralAnimator draws the pre-authored ornament twice, mirrored, and
// fades it in. There is no growth.
type SvgFloralAnimator struct {
	cfg      config.FloralConfig
	pathData string
	local    [][]r2.Vec
	theme    theme.Handler

	Ornaments []SvgOrnament

	elapsed  float64
	opacity  float64
	velocity float64
	spring   harmonica.Spring
	springDT float64
}

// NewSvgFloralAnimator parses the path data once.
func NewSvgFloralAnimator(cfg config.FloralConfig, pathData string, h theme.Handler) (*SvgFloralAnimator, error) {
	local, err := FlattenPath(pathData)
	if err != nil {
		return nil, err
	}
	return &SvgFloralAnimator{cfg: cfg, pathData: pathData, local: local, theme: h}, nil
}

// CreateFloralOrnaments lays out the left and right copies for the view.
// Narrow views get a small ornament beside the title; wide views scale it
// to reach the water.
func (a *SvgFloralAnimator) CreateFloralOrnaments(viewW, viewH float64) {
	var scale, tilt float64
	if viewW < mobileWidth {
		scale = math.Max(1.8, math.Min(2.8, (viewW/2-60)/ornamentReach))
		tilt = math.Max(0, (viewW-460)/140*8)
	} else {
		scale = viewH * 0.62 * 0.85 / ornamentHeight
		tilt = 8
	}
	rootY := flowerTopY + ornamentHeight*scale

	left := SvgOrnament{Side: "left", Scale: scale, Tilt: tilt, RootX: 0, RootY: rootY}
	left.Transform = fmt.Sprintf("translate(0, %s) rotate(%s) scale(%s, %s) translate(-132, -165)",
		num(rootY), num(tilt), num(-scale), num(scale))
	right := SvgOrnament{Side: "right", Scale: scale, Tilt: -tilt, RootX: viewW, RootY: rootY}
	right.Transform = fmt.Sprintf("translate(%s, %s) rotate(%s) scale(%s, %s) translate(-132, -165)",
		num(viewW), num(rootY), num(-tilt), num(scale), num(scale))

	a.Ornaments = []SvgOrnament{left, right}
	for i := range a.Ornaments {
		o := &a.Ornaments[i]
		o.Outline = make([][]r2.Vec, len(a.local))
		for j, sub := range a.local {
			o.Outline[j] = make([]r2.Vec, len(sub))
			for k, p := range sub {
				o.Outline[j][k] = o.place(p)
			}
		}
	}
	a.elapsed, a.opacity, a.velocity = 0, 0, 0
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Animate advances the fade-in.
func (a *SvgFloralAnimator) Animate(dt float64) {
	a.elapsed += dt
	if a.elapsed < a.cfg.FadeDelay || dt <= 0 {
		return
	}
	if dt != a.springDT {
		a.spring = harmonica.NewSpring(dt, 2*math.Pi*a.cfg.FadeFrequency, 1)
		a.springDT = dt
	}
	a.opacity, a.velocity = a.spring.Update(a.opacity, a.velocity, 1)
	a.opacity = math.Max(0, math.Min(1, a.opacity))
}

// Opacity returns the current fade level in [0,1].
func (a *SvgFloralAnimator) Opacity() float64 { return a.opacity }

// UpdateTheme recolours the fill.
func (a *SvgFloralAnimator) UpdateTheme(h theme.Handler) {
	a.theme = h
}

// Emit appends both copies as SVG path items.
func (a *SvgFloralAnimator) Emit(l *draw.List) {
	fill := a.theme.Floral()
	for _, o := range a.Ornaments {
		l.SVGPath(draw.Item{
			Subpaths:  o.Outline,
			PathData:  a.pathData,
			Transform: o.Transform,
			Fill:      fill,
			Opacity:   a.cfg.FillOpacity * a.opacity,
			Class:     "traced-ornament ornament-" + o.Side,
		})
	}
}
