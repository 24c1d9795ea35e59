package systems

import (
	"image/color"
	"math"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/naturescene/config"
	"github.com/pthm-cable/naturescene/draw"
	"github.com/pthm-cable/naturescene/geom"
	"github.com/pthm-cable/naturescene/theme"
)

const mainStemWidth = 3.5

// Ornament is one procedurally grown vine. Growth is one-shot: once
// progress reaches 1 the terminal curl is added and nothing changes again.
type Ornament struct {
	params   OrnamentParams
	main     []r2.Vec // local
	branches []Branch
	slots    []Slot
	filled   []bool

	decorations   []Decoration // world
	currentHeight float64
	progress      float64
	frozen        bool
	color         color.NRGBA

	// rendered world paths, rebuilt while growing
	stemPath   []r2.Vec
	branchPath [][]r2.Vec
}

// NewOrnament generates a vine. rng is consumed; pass a clone to keep the
// caller's state.
func NewOrnament(p OrnamentParams, rng *Seeded, noise opensimplex.Noise) *Ornament {
	if p.TargetHeight <= 0 {
		p.TargetHeight = p.Height
	}
	if p.Branches == nil {
		p.Branches = DefaultBranches
	}
	v := generateVine(p, rng, noise)
	timeBranches(v.branches)

	o := &Ornament{
		params:     p,
		main:       v.main,
		branches:   v.branches,
		slots:      v.slots,
		filled:     make([]bool, len(v.slots)),
		branchPath: make([][]r2.Vec, len(v.branches)),
		color:      theme.Handler{}.Floral(),
	}
	o.rebuildPaths()
	return o
}

// SetColor sets the base colour of every part.
func (o *Ornament) SetColor(c color.NRGBA) { o.color = c }

// Progress returns growth in [0,1].
func (o *Ornament) Progress() float64 { return o.progress }

// Frozen reports whether growth has completed.
func (o *Ornament) Frozen() bool { return o.frozen }

// Decorations returns the decorations created so far, in creation order.
func (o *Ornament) Decorations() []Decoration { return o.decorations }

// HasBulb reports whether the terminal bulb exists.
func (o *Ornament) HasBulb() bool {
	for _, d := range o.decorations {
		if d.Kind == DecoBulb {
			return true
		}
	}
	return false
}

// ControlPoints returns the main stem in scene coordinates.
func (o *Ornament) ControlPoints() []r2.Vec {
	out := make([]r2.Vec, len(o.main))
	for i, q := range o.main {
		out[i] = o.params.toWorld(q)
	}
	return out
}

// Branches returns the branch arena.
func (o *Ornament) Branches() []Branch { return o.branches }

// Slots returns the pre-chosen decoration slots.
func (o *Ornament) Slots() []Slot { return o.slots }

// Animate grows the vine by dt seconds.
func (o *Ornament) Animate(dt float64) {
	if o.frozen {
		return
	}
	o.currentHeight += o.params.GrowthSpeed * dt
	o.progress = math.Min(o.currentHeight/o.params.TargetHeight, 1)

	for i, s := range o.slots {
		if s.Branch < 0 && !o.filled[i] && o.progress >= s.Ratio {
			o.fill(i)
		}
	}
	for i := range o.branches {
		b := &o.branches[i]
		if o.branchProgress(b) > tipDecoAt && !o.filled[b.TipSlot] {
			o.fill(b.TipSlot)
		}
	}

	o.rebuildPaths()
	if o.progress >= 1 {
		o.finish()
	}
}

func (o *Ornament) branchProgress(b *Branch) float64 {
	if o.progress < b.Start {
		return -1
	}
	return math.Min((o.progress-b.Start)/b.Window, 1)
}

// fill builds the decoration for slot i in the local frame, then maps it
// into the scene.
func (o *Ornament) fill(i int) {
	s := o.slots[i]
	o.filled[i] = true

	var pos r2.Vec
	var angle float64
	if s.Branch < 0 {
		idx := int(math.Floor(s.Ratio * float64(len(o.main)-1)))
		next := min(idx+1, len(o.main)-1)
		pos = o.main[idx]
		angle = geom.Heading(o.main[idx], o.main[next])
	} else {
		pts := o.branches[s.Branch].Points
		pos = pts[len(pts)-1]
		angle = geom.Heading(pts[max(0, len(pts)-2)], pos)
	}

	var parts []Part
	switch s.Kind {
	case DecoLeaf:
		la := angle + math.Pi/2*s.Side
		if s.Branch >= 0 {
			la = angle - math.Pi/2
		}
		parts = leafParts(pos, la, s.Size, s.Style)
	case DecoFlower:
		parts = budParts(pos, angle, s.Size, s.Style)
	case DecoTendril:
		width := 2.0
		length := s.Size
		if s.Branch >= 0 {
			width = o.branches[s.Branch].Width
			length = 15
		}
		parts = tendrilCurl.parts(pos, s.Side, length, angle, width)
	case DecoSpiral:
		parts = spiralCurl.parts(pos, s.Side, s.Size, angle, 2.0)
	}
	o.addDecoration(s.Kind, s.Style, i, parts)
}

func (o *Ornament) addDecoration(kind DecorationKind, style DecorationStyle, slot int, parts []Part) {
	world := make([]Part, len(parts))
	for j, p := range parts {
		world[j] = p.mapped(o.params.toWorld)
	}
	o.decorations = append(o.decorations, Decoration{Kind: kind, Style: style, Slot: slot, Parts: world})
}

// finish appends the terminal curl and bulb, then freezes the ornament.
func (o *Ornament) finish() {
	n := len(o.main)
	top := o.main[n-1]
	angle := geom.Heading(o.main[n-2], top)
	curlPts := tendrilCurl.walk(top, 1, curlLength, angle)

	full := append(append([]r2.Vec(nil), o.main...), curlPts...)
	o.stemPath = o.worldPath(smoothOpen(full))

	end := curlPts[len(curlPts)-1]
	o.addDecoration(DecoBulb, StyleNone, -1, []Part{{Kind: draw.KindCircle, Center: end, Radius: tendrilCurl.bulbRad, FillAlpha: inheritAlpha}})
	o.frozen = true
}

func (o *Ornament) rebuildPaths() {
	o.stemPath = o.worldPath(smoothOpen(geom.Truncate(o.main, o.progress)))
	for i := range o.branches {
		b := &o.branches[i]
		bp := o.branchPath[i][:0]
		if lp := o.branchProgress(b); lp >= 0 {
			bp = o.worldPath(smoothOpen(geom.Truncate(b.Points, lp)))
		}
		o.branchPath[i] = bp
	}
}

func (o *Ornament) worldPath(local []r2.Vec) []r2.Vec {
	out := make([]r2.Vec, len(local))
	for i, q := range local {
		out[i] = o.params.toWorld(q)
	}
	return out
}

// Emit appends stems, branches and decorations.
func (o *Ornament) Emit(l *draw.List) {
	if o.progress <= 0 {
		return
	}
	l.Polyline(o.stemPath, o.color, mainStemWidth, true)
	for i, bp := range o.branchPath {
		l.Polyline(bp, o.color, o.branches[i].Width, true)
	}
	for _, d := range o.decorations {
		for _, p := range d.Parts {
			p.emit(l, o.color)
		}
	}
}

// FloralAnimator owns the left and right procedural vines.
type FloralAnimator struct {
	cfg     config.FloralConfig
	rng     *Seeded
	noise   opensimplex.Noise
	content geom.ContentBounds
	theme   theme.Handler

	Ornaments []*Ornament
}

// NewFloralAnimator creates the animator. The noise field is seeded from rng.
func NewFloralAnimator(cfg config.FloralConfig, rng *Seeded, content geom.ContentBounds, h theme.Handler) *FloralAnimator {
	return &FloralAnimator{
		cfg:     cfg,
		rng:     rng,
		noise:   opensimplex.New(rng.Int64()),
		content: content,
		theme:   h,
	}
}

// CreateFloralOrnaments generates both vines from one RNG state. The state
// is cloned once per side so the right vine replays the left vine's
// random sequence.
func (a *FloralAnimator) CreateFloralOrnaments(viewW, viewH float64) {
	startHeight := viewH * 0.42
	height := startHeight * 0.7
	width := math.Min(viewW*0.28, 350)
	attractor := math.Min(width*1.1, viewW/2-40)

	base := a.rng.Clone()
	a.Ornaments = a.Ornaments[:0]
	for _, side := range []struct {
		x, dir float64
	}{
		{-30, 1},
		{viewW + 30, -1},
	} {
		p := OrnamentParams{
			Start:         r2.Vec{X: side.x, Y: startHeight},
			Dir:           side.dir,
			Width:         width,
			Height:        height,
			AttractorX:    attractor + 30,
			MainPoints:    a.cfg.MainPoints,
			TargetHeight:  height,
			GrowthSpeed:   a.cfg.GrowthSpeed,
			SubBranchProb: a.cfg.SubBranchProb,
			Content:       a.content,
			ContentMargin: a.cfg.ContentMargin,
		}
		o := NewOrnament(p, base.Clone(), a.noise)
		o.SetColor(a.theme.Floral())
		a.Ornaments = append(a.Ornaments, o)
	}
}

// Animate grows both vines.
func (a *FloralAnimator) Animate(dt float64) {
	for _, o := range a.Ornaments {
		o.Animate(dt)
	}
}

// UpdateTheme recolours stems and decorations; per-part alphas are kept.
func (a *FloralAnimator) UpdateTheme(h theme.Handler) {
	a.theme = h
	for _, o := range a.Ornaments {
		o.SetColor(h.Floral())
	}
}

// Emit appends both vines.
func (a *FloralAnimator) Emit(l *draw.List) {
	for _, o := range a.Ornaments {
		o.Emit(l)
	}
}
