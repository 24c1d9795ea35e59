package systems

import (
	"math"

	"github.com/ojrac/opensimplex-go"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/naturescene/geom"
)

// MaxBranchDepth caps sub-branching: main-stem branches are depth 0 and
// may carry one level of sub-branches.
const MaxBranchDepth = 1

const (
	branchPoints    = 10
	subBranchPoints = 6
	branchWindow    = 0.25
	tipDecoAt       = 0.7
	curlLength      = 40.0
)

// BranchConfig places one main-stem branch.
type BranchConfig struct {
	Ratio  float64 // position along the main stem
	Length float64 // fraction of the vine height
	Curve  float64 // signed lean
	Width  float64 // stroke width
}

// DefaultBranches are the fixed main-stem branch placements.
var DefaultBranches = []BranchConfig{
	{Ratio: 0.15, Length: 0.5, Curve: 1.2, Width: 2.5},
	{Ratio: 0.3, Length: 0.45, Curve: -0.8, Width: 2.2},
	{Ratio: 0.5, Length: 0.4, Curve: 1.0, Width: 2.0},
	{Ratio: 0.68, Length: 0.35, Curve: -0.9, Width: 1.8},
}

// SlotRatios are the main-stem decoration trigger points.
var SlotRatios = []float64{0.10, 0.22, 0.35, 0.48, 0.58, 0.68, 0.78, 0.88}

// Branch is one node of the branch arena. Parent is -1 for branches that
// leave the main stem.
type Branch struct {
	Parent int
	Depth  int
	Ratio  float64 // anchor position along the parent
	Start  float64 // ornament progress at which growth starts
	Window float64 // progress span over which it grows
	Width  float64
	Points []r2.Vec // local frame
	TipDeco DecorationKind
	TipSlot int
}

// Slot is a pre-chosen decoration waiting for its trigger.
type Slot struct {
	Ratio  float64
	Kind   DecorationKind
	Style  DecorationStyle
	Side   float64 // -1 or 1, relative to the stem direction
	Size   float64
	Branch int // -1 for the main stem
}

// OrnamentParams sizes and places one vine. Coordinates are in the
// ornament's local frame, where +X points away from the screen edge.
type OrnamentParams struct {
	Start         r2.Vec  // world root position
	Dir           float64 // 1 grows rightward, -1 leftward
	Width         float64
	Height        float64
	AttractorX    float64 // local X the tip curves toward
	MainPoints    int
	TargetHeight  float64
	GrowthSpeed   float64
	SubBranchProb float64
	Branches      []BranchConfig
	Content       geom.ContentBounds
	ContentMargin float64
}

// toWorld maps a local point to the scene.
func (p OrnamentParams) toWorld(q r2.Vec) r2.Vec {
	return r2.Vec{X: p.Start.X + p.Dir*q.X, Y: q.Y}
}

// toLocal is the inverse of toWorld.
func (p OrnamentParams) toLocal(q r2.Vec) r2.Vec {
	return r2.Vec{X: (q.X - p.Start.X) * p.Dir, Y: q.Y}
}

// deflect pushes a local point out of page content.
func (p OrnamentParams) deflect(q r2.Vec) r2.Vec {
	w := p.toWorld(q)
	dir, depth, ok := p.Content.Deflection(w, p.ContentMargin)
	if !ok {
		return q
	}
	return p.toLocal(r2.Add(w, r2.Scale(depth+1, dir)))
}

// vineLayout is the full generated geometry of one ornament.
type vineLayout struct {
	main     []r2.Vec
	branches []Branch
	slots    []Slot
}

// generateVine draws every random decision the ornament will ever need, in
// a fixed order, so two generators in the same state yield the same vine.
func generateVine(p OrnamentParams, rng *Seeded, noise opensimplex.Noise) vineLayout {
	var v vineLayout
	v.main = mainStem(p, rng)

	for i, bc := range p.Branches {
		v.branches = append(v.branches, newBranch(p, v.main, -1, 0, bc, i, rng, noise))
	}

	// Sub-branches are appended after their parents.
	for parent := 0; parent < len(p.Branches); parent++ {
		pb := v.branches[parent]
		if pb.Depth >= MaxBranchDepth || !rng.Chance(p.SubBranchProb) {
			continue
		}
		bc := BranchConfig{
			Ratio:  rng.Range(0.4, 0.6),
			Length: p.Branches[parent].Length * 0.4,
			Curve:  -p.Branches[parent].Curve * 0.7,
			Width:  pb.Width * 0.7,
		}
		v.branches = append(v.branches, newBranch(p, pb.Points, parent, pb.Depth+1, bc, len(v.branches), rng, noise))
	}

	side := -1.0
	for _, r := range SlotRatios {
		v.slots = append(v.slots, pickMainSlot(r, side, rng))
		side = -side
	}
	for i := range v.branches {
		b := &v.branches[i]
		kind := DecoLeaf
		if rng.Chance(0.5) {
			kind = DecoTendril
		}
		b.TipDeco = kind
		b.TipSlot = len(v.slots)
		v.slots = append(v.slots, Slot{Ratio: tipDecoAt, Kind: kind, Style: StyleSimple, Side: 1, Size: 10, Branch: i})
	}
	return v
}

// mainStem samples the S-curve from the root toward the attractor.
func mainStem(p OrnamentParams, rng *Seeded) []r2.Vec {
	n := max(p.MainPoints, 2)
	phase := rng.Range(0, 2*math.Pi)
	pts := make([]r2.Vec, 0, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		bulge := math.Sin(t*math.Pi*0.6) * 0.8 * p.Width
		x := bulge + (p.AttractorX-bulge)*t*t
		y := p.Start.Y - p.Height*t
		if i > 0 {
			x += math.Sin(t*math.Pi*3+phase)*p.Width*0.02 + rng.Range(-2, 2)
			y += rng.Range(-2, 2)
		}
		q := r2.Vec{X: x, Y: y}
		if i > 0 {
			q = p.deflect(q)
		}
		pts = append(pts, q)
	}
	return pts
}

// newBranch grows a branch off along from the anchor at bc.Ratio. It leaves
// roughly perpendicular to the stem and bends toward vertical.
func newBranch(p OrnamentParams, along []r2.Vec, parent, depth int, bc BranchConfig, index int, rng *Seeded, noise opensimplex.Noise) Branch {
	idx := min(int(math.Floor(bc.Ratio*float64(len(along)-1))), len(along)-2)
	anchor := along[idx]
	tangent := geom.Heading(along[idx], along[idx+1])

	sign := 1.0
	if bc.Curve < 0 {
		sign = -1
	}
	base := tangent + sign*math.Pi/2*0.8
	up := -math.Pi / 2
	length := p.Height * bc.Length
	jitter := rng.Range(0.9, 1.1)

	n := branchPoints
	if depth > 0 {
		n = subBranchPoints
	}
	pts := make([]r2.Vec, 0, n+1)
	pts = append(pts, anchor)
	cur := anchor
	for i := 1; i <= n; i++ {
		t := float64(i) / float64(n)
		angle := base + (up-base)*math.Sin(t*math.Pi/2)*math.Min(1, math.Abs(bc.Curve))
		angle += noise.Eval2(t*2, float64(index)*3.7) * 0.15
		cur = r2.Add(cur, geom.FromAngle(angle, length*jitter/float64(n)))
		cur = p.deflect(cur)
		pts = append(pts, cur)
	}

	b := Branch{
		Parent: parent,
		Depth:  depth,
		Ratio:  bc.Ratio,
		Width:  bc.Width,
		Points: pts,
		Start:  bc.Ratio,
		Window: branchWindow,
	}
	return b
}

// pickMainSlot chooses a decoration for a main-stem slot.
func pickMainSlot(ratio, side float64, rng *Seeded) Slot {
	s := Slot{Ratio: ratio, Side: side, Branch: -1}
	switch r := rng.Float64(); {
	case r < 0.45:
		s.Kind = DecoLeaf
		s.Style = []DecorationStyle{StyleSimple, StylePointed, StyleCompound}[rng.IntRange(0, 2)]
		s.Size = rng.Range(12, 16)
	case r < 0.8:
		s.Kind = DecoFlower
		s.Style = []DecorationStyle{StyleBell, StyleBud, StyleCluster}[rng.IntRange(0, 2)]
		s.Size = 10
	case r < 0.9:
		s.Kind = DecoTendril
		s.Size = 22
	default:
		s.Kind = DecoSpiral
		s.Size = 22
	}
	return s
}

// timeBranches converts anchor ratios into ornament progress windows. A
// sub-branch starts when its parent reaches the anchor. Windows are clamped
// so every branch has finished when the ornament reaches progress 1.
func timeBranches(branches []Branch) {
	for i := range branches {
		b := &branches[i]
		if b.Parent >= 0 {
			pb := branches[b.Parent]
			b.Start = pb.Start + pb.Window*b.Ratio
			b.Window = pb.Window * 0.8
		}
		if b.Start+b.Window > 1 {
			b.Window = math.Max(1-b.Start, 1e-3)
			b.Start = 1 - b.Window
		}
	}
}
