package systems

import (
	"math"
	"reflect"
	"testing"

	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/naturescene/config"
	"github.com/pthm-cable/naturescene/draw"
	"github.com/pthm-cable/naturescene/geom"
	"github.com/pthm-cable/naturescene/theme"
)

func testOrnamentParams() OrnamentParams {
	return OrnamentParams{
		Start:         geom.V(-30, 300),
		Dir:           1,
		Width:         120,
		Height:        100,
		AttractorX:    150,
		MainPoints:    20,
		TargetHeight:  100,
		GrowthSpeed:   50,
		SubBranchProb: 0.5,
	}
}

func TestOrnamentCompletesWithBulb(t *testing.T) {
	o := NewOrnament(testOrnamentParams(), NewSeeded(5), opensimplex.New(5))

	o.Animate(1)
	if o.Progress() != 0.5 {
		t.Errorf("expected progress 0.5 after 1s, got %v", o.Progress())
	}
	if o.HasBulb() {
		t.Error("bulb should not exist before completion")
	}

	o.Animate(1)
	if o.Progress() != 1 {
		t.Errorf("expected progress 1 after 2s, got %v", o.Progress())
	}
	if !o.Frozen() {
		t.Error("expected the ornament to freeze at completion")
	}
	if !o.HasBulb() {
		t.Error("expected a terminal bulb decoration")
	}
}

func TestOrnamentGrowthMonotonicAndFrozen(t *testing.T) {
	o := NewOrnament(testOrnamentParams(), NewSeeded(8), opensimplex.New(8))

	prev := o.Progress()
	for i := 0; i < 200 && !o.Frozen(); i++ {
		o.Animate(1.0 / 60)
		if o.Progress() < prev {
			t.Fatalf("progress went backwards: %v -> %v", prev, o.Progress())
		}
		prev = o.Progress()
	}
	if !o.Frozen() {
		t.Fatal("expected growth to complete")
	}

	var before, after draw.List
	o.Emit(&before)
	decos := len(o.Decorations())
	for i := 0; i < 10; i++ {
		o.Animate(1)
	}
	o.Emit(&after)

	if len(o.Decorations()) != decos {
		t.Errorf("decorations changed after freezing: %d -> %d", decos, len(o.Decorations()))
	}
	if !reflect.DeepEqual(before.Items, after.Items) {
		t.Error("geometry changed after freezing")
	}
}

func TestOrnamentSlotsFilledOnce(t *testing.T) {
	o := NewOrnament(testOrnamentParams(), NewSeeded(21), opensimplex.New(21))
	for i := 0; i < 500; i++ {
		o.Animate(1.0 / 60)
	}

	seen := map[int]int{}
	for _, d := range o.Decorations() {
		if d.Slot >= 0 {
			seen[d.Slot]++
		}
	}
	if len(seen) != len(o.Slots()) {
		t.Errorf("expected every slot filled, got %d of %d", len(seen), len(o.Slots()))
	}
	for slot, n := range seen {
		if n != 1 {
			t.Errorf("slot %d filled %d times", slot, n)
		}
	}
}

func TestBranchArenaDepthAndTiming(t *testing.T) {
	p := testOrnamentParams()
	p.SubBranchProb = 1
	o := NewOrnament(p, NewSeeded(2), opensimplex.New(2))

	branches := o.Branches()
	if len(branches) != 2*len(DefaultBranches) {
		t.Fatalf("expected one sub-branch per branch, got %d branches", len(branches))
	}
	for i, b := range branches {
		if b.Depth > MaxBranchDepth {
			t.Errorf("branch %d exceeds max depth: %d", i, b.Depth)
		}
		if b.Depth > 0 && (b.Parent < 0 || branches[b.Parent].Depth != b.Depth-1) {
			t.Errorf("branch %d has an invalid parent %d", i, b.Parent)
		}
		if b.Start+b.Window > 1+1e-12 {
			t.Errorf("branch %d finishes after progress 1: start %v window %v", i, b.Start, b.Window)
		}
	}
}

func TestFloralSymmetry(t *testing.T) {
	a := NewFloralAnimator(config.Default().Floral, NewSeeded(99), nil, theme.Handler{})
	a.CreateFloralOrnaments(1000, 800)
	if len(a.Ornaments) != 2 {
		t.Fatalf("expected 2 ornaments, got %d", len(a.Ornaments))
	}
	left, right := a.Ornaments[0], a.Ornaments[1]

	lp := geom.MirrorX(left.ControlPoints(), 500)
	rp := right.ControlPoints()
	if len(lp) != len(rp) || len(lp) != 21 {
		t.Fatalf("expected 21 control points per side, got %d and %d", len(lp), len(rp))
	}
	for i := range lp {
		if math.Abs(lp[i].X-rp[i].X) > 1e-9 || math.Abs(lp[i].Y-rp[i].Y) > 1e-9 {
			t.Fatalf("point %d not mirrored: %v vs %v", i, lp[i], rp[i])
		}
	}

	for i := 0; i < 600; i++ {
		a.Animate(1.0 / 60)
	}
	ld, rd := left.Decorations(), right.Decorations()
	if len(ld) != len(rd) {
		t.Fatalf("decoration counts differ: %d vs %d", len(ld), len(rd))
	}
	for i := range ld {
		if ld[i].Kind != rd[i].Kind || ld[i].Style != rd[i].Style || ld[i].Slot != rd[i].Slot {
			t.Errorf("decoration %d differs: %v/%v vs %v/%v", i, ld[i].Kind, ld[i].Style, rd[i].Kind, rd[i].Style)
		}
	}
}

func TestFloralRNGCloneLeavesSourceUntouched(t *testing.T) {
	rng := NewSeeded(4)
	a := NewFloralAnimator(config.Default().Floral, rng, nil, theme.Handler{})
	ref := rng.Clone()

	a.CreateFloralOrnaments(800, 600)

	if rng.Float64() != ref.Float64() {
		t.Error("generating ornaments consumed the animator's RNG")
	}
}

func TestFloralContentDeflection(t *testing.T) {
	content := geom.ContentBounds{geom.RectXYWH(60, 150, 200, 120)}
	cfg := config.Default().Floral
	a := NewFloralAnimator(cfg, NewSeeded(13), content, theme.Handler{})
	a.CreateFloralOrnaments(1000, 800)

	for i, p := range a.Ornaments[0].ControlPoints()[1:] {
		if content.Collides(p, cfg.ContentMargin) {
			t.Errorf("main stem point %d inside content at %v", i+1, p)
		}
	}
}

func TestFloralUpdateThemeKeepsPartAlpha(t *testing.T) {
	a := NewFloralAnimator(config.Default().Floral, NewSeeded(17), nil, theme.Handler{})
	a.CreateFloralOrnaments(1000, 800)
	for i := 0; i < 600; i++ {
		a.Animate(1.0 / 60)
	}

	var light draw.List
	a.Emit(&light)
	a.UpdateTheme(theme.Handler{Dark: true})
	var dark draw.List
	a.Emit(&dark)

	if light.Len() != dark.Len() {
		t.Fatalf("theme change altered item count: %d vs %d", light.Len(), dark.Len())
	}
	for i := range light.Items {
		if light.Items[i].Fill.A != dark.Items[i].Fill.A || light.Items[i].Stroke.A != dark.Items[i].Stroke.A {
			t.Fatalf("item %d alpha changed", i)
		}
	}
	if dark.Items[0].Stroke.R != 100 {
		t.Errorf("expected dark floral stroke, got %v", dark.Items[0].Stroke)
	}
}
