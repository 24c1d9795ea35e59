package systems

import (
	"math"
	"testing"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/naturescene/config"
	"github.com/pthm-cable/naturescene/draw"
	"github.com/pthm-cable/naturescene/theme"
)

func TestCreateSeaStars(t *testing.T) {
	a := NewSeaStarAnimator(ecs.NewWorld(), config.Default().SeaStars, NewSeeded(3), theme.Handler{})
	a.CreateSeaStars(800, 600)

	n := len(a.Entities())
	if n < 4 || n > 6 {
		t.Fatalf("expected 4-6 sea stars, got %d", n)
	}
	waterTop := WaterTop(600)
	for _, e := range a.Entities() {
		pos, _ := a.State(e)
		if pos.Y < waterTop+200*0.4 || pos.Y > waterTop+200*0.8 {
			t.Errorf("star spawned outside the water band: %v", pos)
		}
	}
}

func TestSeaStarsStayInBounds(t *testing.T) {
	for _, seed := range []uint64{1, 2, 3, 4, 5} {
		a := NewSeaStarAnimator(ecs.NewWorld(), config.Default().SeaStars, NewSeeded(seed), theme.Handler{})
		a.CreateSeaStars(320, 480)

		for frame := 0; frame < 2000; frame++ {
			time := float64(frame) * 0.01
			a.Animate(time)
			for _, e := range a.Entities() {
				pos, d := a.State(e)
				if pos.X < d.BoundMin.X || pos.X > d.BoundMax.X || pos.Y < d.BoundMin.Y || pos.Y > d.BoundMax.Y {
					t.Fatalf("seed %d time %v: %v outside [%v,%v]", seed, time, pos, d.BoundMin, d.BoundMax)
				}
			}
		}
	}
}

func TestSeaStarRotationAdvances(t *testing.T) {
	a := NewSeaStarAnimator(ecs.NewWorld(), config.Default().SeaStars, NewSeeded(9), theme.Handler{})
	a.CreateSeaStars(800, 600)
	e := a.Entities()[0]
	_, before := a.State(e)

	for i := 0; i < 10; i++ {
		a.Animate(float64(i) * 0.01)
	}

	_, after := a.State(e)
	want := before.Rotation + 10*before.RotSpeed
	if math.Abs(after.Rotation-want) > 1e-9 {
		t.Errorf("expected rotation %v, got %v", want, after.Rotation)
	}
}

func TestStarOutline(t *testing.T) {
	size := 10.0
	out := StarOutline(size)
	if len(out) != 5*9*starSmoothing {
		t.Fatalf("expected %d outline points, got %d", 5*9*starSmoothing, len(out))
	}

	var maxR float64
	for _, p := range out {
		maxR = math.Max(maxR, math.Hypot(p.X, p.Y))
	}
	if maxR < size*1.7 || maxR > size*2.4 {
		t.Errorf("expected arm reach near %v, got %v", size*2, maxR)
	}

	if r := math.Hypot(out[0].X, out[0].Y); math.Abs(r-size*0.8*0.9) > 1e-9 {
		t.Errorf("expected body radius %v at the first sample, got %v", size*0.72, r)
	}
}

func TestSeaStarEmitAndTheme(t *testing.T) {
	a := NewSeaStarAnimator(ecs.NewWorld(), config.Default().SeaStars, NewSeeded(11), theme.Handler{})
	a.CreateSeaStars(800, 600)
	a.UpdateTheme(theme.Handler{Dark: true})

	var l draw.List
	a.Emit(&l)
	if l.Len() != len(a.Entities()) {
		t.Fatalf("expected one item per star, got %d", l.Len())
	}
	for _, it := range l.Items {
		if it.Fill.R != 140 {
			t.Errorf("expected dark sea star colour, got %v", it.Fill)
		}
	}
}
