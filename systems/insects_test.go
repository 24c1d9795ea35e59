package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/naturescene/config"
	"github.com/pthm-cable/naturescene/draw"
	"github.com/pthm-cable/naturescene/geom"
	"github.com/pthm-cable/naturescene/theme"
)

func newInsects(t *testing.T, content geom.ContentBounds, tweak func(*config.InsectsConfig)) *InsectAnimator {
	t.Helper()
	cfg := config.Default().Insects
	if tweak != nil {
		tweak(&cfg)
	}
	return NewInsectAnimator(ecs.NewWorld(), cfg, NewSeeded(7), content, theme.Handler{})
}

func TestInsectRetargetsWhenTargetIsClose(t *testing.T) {
	a := newInsects(t, nil, nil)
	e := a.Spawn(geom.V(100, 100), 10)
	old := geom.V(110, 100)
	a.SetTarget(e, old)

	a.Animate(800, 600, 1.0/60, Cursor{})

	pos, fl := a.State(e)
	if fl.Target == old {
		t.Error("expected a new target when the old one is within the retarget distance")
	}
	if pos != geom.V(100, 100) {
		t.Errorf("expected no step on a retarget frame, got %v", pos)
	}
}

func TestInsectStepsTowardTarget(t *testing.T) {
	a := newInsects(t, nil, func(c *config.InsectsConfig) { c.RetargetChance = 0 })
	e := a.Spawn(geom.V(100, 100), 10)
	a.SetTarget(e, geom.V(400, 100))

	a.Animate(800, 600, 1.0/60, Cursor{})

	pos, _ := a.State(e)
	if math.Abs(pos.X-101) > 1e-9 || math.Abs(pos.Y-100) > 1e-9 {
		t.Errorf("expected one unit step to (101,100), got %v", pos)
	}
}

func TestInsectNeverEntersContent(t *testing.T) {
	content := geom.ContentBounds{geom.RectXYWH(300, 100, 200, 200)}
	a := newInsects(t, content, func(c *config.InsectsConfig) { c.RetargetChance = 0 })
	e := a.Spawn(geom.V(150, 200), 10)
	a.SetTarget(e, geom.V(700, 200))

	for frame := 0; frame < 500; frame++ {
		a.Animate(800, 600, 1.0/60, Cursor{})
		pos, _ := a.State(e)
		if content.Collides(pos, a.cfg.MoveMargin) {
			t.Fatalf("frame %d: insect inside content at %v", frame, pos)
		}
	}
	pos, _ := a.State(e)
	if pos.X < 200 {
		t.Errorf("expected the insect to advance to the content margin, stopped at %v", pos)
	}
}

func TestInsectCursorDoublesSpeed(t *testing.T) {
	a := newInsects(t, nil, func(c *config.InsectsConfig) { c.RetargetChance = 0 })
	e := a.Spawn(geom.V(100, 100), 10)
	a.SetTarget(e, geom.V(700, 100))

	a.Animate(800, 600, 1.0/60, Cursor{Pos: geom.V(400, 100), Active: true})

	pos, _ := a.State(e)
	if d := geom.Dist(pos, geom.V(100, 100)); math.Abs(d-2) > 1e-9 {
		t.Errorf("expected an attracted step of 2, got %v", d)
	}
}

func TestInsectCursorOutOfRangeIgnored(t *testing.T) {
	a := newInsects(t, nil, func(c *config.InsectsConfig) { c.RetargetChance = 0 })
	e := a.Spawn(geom.V(100, 100), 10)
	a.SetTarget(e, geom.V(700, 100))

	a.Animate(2000, 600, 1.0/60, Cursor{Pos: geom.V(1500, 100), Active: true})

	pos, _ := a.State(e)
	if d := geom.Dist(pos, geom.V(100, 100)); math.Abs(d-1) > 1e-9 {
		t.Errorf("expected a plain step of 1, got %v", d)
	}
}

func TestCreateInsects(t *testing.T) {
	a := newInsects(t, nil, nil)
	a.CreateInsects(800, 600)

	n := len(a.Entities())
	if n < 5 || n > 7 {
		t.Fatalf("expected 5-7 insects, got %d", n)
	}
	for _, e := range a.Entities() {
		pos, _ := a.State(e)
		if pos.Y < 0 || pos.Y > WaterTop(600) || pos.X < 0 || pos.X > 800 {
			t.Errorf("insect spawned outside the air band: %v", pos)
		}
	}
}

func TestInsectWingsAndEmit(t *testing.T) {
	a := newInsects(t, nil, nil)
	a.Spawn(geom.V(100, 100), 10)
	for i := 0; i < 30; i++ {
		a.Animate(800, 600, 1.0/60, Cursor{})
	}

	q := a.filter.Query()
	for q.Next() {
		_, _, wings, _, _ := q.Get()
		if math.Abs(wings.Angle-math.Sin(wings.Phase)*50) > 1e-9 || math.Abs(wings.Angle) > 50 {
			t.Errorf("unexpected flap angle %v for phase %v", wings.Angle, wings.Phase)
		}
	}

	var l draw.List
	a.Emit(&l)
	if l.Len() != 16 {
		t.Errorf("expected 16 parts per insect, got %d", l.Len())
	}
}

func TestInsectUpdateThemeKeepsPosition(t *testing.T) {
	a := newInsects(t, nil, nil)
	e := a.Spawn(geom.V(40, 60), 10)
	before, _ := a.State(e)

	a.UpdateTheme(theme.Handler{Dark: true})

	after, _ := a.State(e)
	if before != after {
		t.Error("theme update moved the insect")
	}
	var l draw.List
	a.Emit(&l)
	if got := l.Items[len(l.Items)-3].Fill; got.R != 220 {
		t.Errorf("expected dark insect colour, got %v", got)
	}
}
