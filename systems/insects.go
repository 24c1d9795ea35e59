package systems

import (
	"image/color"
	"math"

	"github.com/mlange-42/ark/ecs"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/naturescene/components"
	"github.com/pthm-cable/naturescene/config"
	"github.com/pthm-cable/naturescene/draw"
	"github.com/pthm-cable/naturescene/geom"
	"github.com/pthm-cable/naturescene/theme"
)

const (
	wingFlapDegrees = 50.0
	ellipseSegments = 16
)

var noStroke color.NRGBA

// Cursor is the pointer position the insects may swarm around.
type Cursor struct {
	Pos    r2.Vec
	Active bool
}

// InsectAnimator owns the dragonfly pool.
type InsectAnimator struct {
	cfg     config.InsectsConfig
	rng     *Seeded
	content geom.ContentBounds
	theme   theme.Handler

	mapper   *ecs.Map5[components.Position, components.Flight, components.Wings, components.InsectBody, components.Paint]
	filter   *ecs.Filter5[components.Position, components.Flight, components.Wings, components.InsectBody, components.Paint]
	entities []ecs.Entity
}

// NewInsectAnimator creates an animator whose insects live in w.
func NewInsectAnimator(w *ecs.World, cfg config.InsectsConfig, rng *Seeded, content geom.ContentBounds, h theme.Handler) *InsectAnimator {
	return &InsectAnimator{
		cfg:     cfg,
		rng:     rng,
		content: content,
		theme:   h,
		mapper:  ecs.NewMap5[components.Position, components.Flight, components.Wings, components.InsectBody, components.Paint](w),
		filter:  ecs.NewFilter5[components.Position, components.Flight, components.Wings, components.InsectBody, components.Paint](w),
	}
}

// CreateInsects spawns the pool above the water band. Placement retries a
// bounded number of times to start clear of page content.
func (a *InsectAnimator) CreateInsects(viewW, viewH float64) {
	waterTop := WaterTop(viewH)
	n := a.rng.IntRange(a.cfg.MinCount, a.cfg.MaxCount)
	for i := 0; i < n; i++ {
		var pos r2.Vec
		for attempt := 0; ; attempt++ {
			pos = r2.Vec{X: a.rng.Float64() * viewW, Y: a.rng.Float64() * waterTop}
			if !a.content.Collides(pos, a.cfg.SpawnMargin) || attempt+1 >= a.cfg.SpawnAttempts {
				break
			}
		}
		a.Spawn(pos, a.cfg.MinSize+a.rng.Float64()*a.cfg.SizeRange)
	}
}

// Spawn adds one insect at pos. It picks its first target on the next Animate.
func (a *InsectAnimator) Spawn(pos r2.Vec, size float64) ecs.Entity {
	cur := a.cfg.Cursor
	orbitSpeed := cur.OrbitSpeed
	if a.rng.Chance(0.5) {
		orbitSpeed = -orbitSpeed
	}

	p := components.Position{X: pos.X, Y: pos.Y}
	flight := components.Flight{
		Speed:       a.cfg.Speed,
		Rotation:    a.rng.Float64() * 360,
		RotSpeed:    (a.rng.Float64() - 0.5) * 0.6,
		OrbitAngle:  a.rng.Float64() * 2 * math.Pi,
		OrbitRadius: a.rng.Range(cur.OrbitMinRadius, cur.OrbitMaxRadius),
		OrbitSpeed:  orbitSpeed,
		Curiosity:   a.rng.Range(0.6, 1.0),
		Attraction:  cur.Attraction * a.rng.Range(0.8, 1.2),
	}
	wings := components.Wings{
		Phase: a.rng.Float64() * 2 * math.Pi,
		Speed: a.rng.Range(5, 8),
	}
	body := buildInsectBody(size)
	paint := components.Paint{Color: a.theme.Insect()}

	e := a.mapper.NewEntity(&p, &flight, &wings, &body, &paint)
	a.entities = append(a.entities, e)
	return e
}

// SetTarget presets an insect's wander target.
func (a *InsectAnimator) SetTarget(e ecs.Entity, target r2.Vec) {
	_, fl, _, _, _ := a.mapper.Get(e)
	fl.Target = target
	fl.HasTarget = true
}

// State returns a copy of an insect's position and flight.
func (a *InsectAnimator) State(e ecs.Entity) (r2.Vec, components.Flight) {
	pos, fl, _, _, _ := a.mapper.Get(e)
	return r2.Vec{X: pos.X, Y: pos.Y}, *fl
}

// Entities returns the spawned insects in creation order.
func (a *InsectAnimator) Entities() []ecs.Entity {
	return a.entities
}

// Animate advances every insect by one frame.
func (a *InsectAnimator) Animate(viewW, viewH, dt float64, cursor Cursor) {
	waterTop := WaterTop(viewH)

	query := a.filter.Query()
	for query.Next() {
		pos, fl, wings, _, _ := query.Get()
		cur := r2.Vec{X: pos.X, Y: pos.Y}

		retargeted := a.updateTarget(fl, cur, viewW, waterTop)
		target, attracted := a.effectiveTarget(fl, cur, cursor, waterTop)
		if !retargeted {
			a.step(pos, cur, target, attracted)
		}

		fl.Rotation += fl.RotSpeed
		wings.Phase += wings.Speed * dt
		wings.Angle = math.Sin(wings.Phase) * wingFlapDegrees
	}
}

// updateTarget reports whether a new target was chosen because the old one
// was reached or randomly abandoned.
func (a *InsectAnimator) updateTarget(fl *components.Flight, cur r2.Vec, viewW, waterTop float64) bool {
	if !fl.HasTarget {
		fl.Target = a.pickTarget(cur, viewW, waterTop)
		fl.HasTarget = true
	}
	if geom.Dist(cur, fl.Target) < a.cfg.RetargetDistance || a.rng.Chance(a.cfg.RetargetChance) {
		fl.Target = a.pickTarget(cur, viewW, waterTop)
		return true
	}
	return false
}

func (a *InsectAnimator) pickTarget(cur r2.Vec, viewW, waterTop float64) r2.Vec {
	var y float64
	if cur.Y < waterTop/2 && a.rng.Chance(a.cfg.UpperBias) {
		y = a.rng.Float64() * (waterTop / 2)
	} else {
		y = a.rng.Float64() * waterTop
	}
	return r2.Vec{X: a.rng.Float64() * viewW, Y: y}
}

// effectiveTarget blends the wander target with an orbit around a nearby
// cursor and keeps attracted insects clear of the wave crests.
func (a *InsectAnimator) effectiveTarget(fl *components.Flight, cur r2.Vec, cursor Cursor, waterTop float64) (r2.Vec, bool) {
	if !cursor.Active || geom.Dist(cur, cursor.Pos) > a.cfg.Cursor.Radius {
		return fl.Target, false
	}

	fl.OrbitAngle += fl.OrbitSpeed
	orbit := r2.Add(cursor.Pos, geom.FromAngle(fl.OrbitAngle, fl.OrbitRadius))
	eff := geom.Lerp(fl.Target, orbit, fl.Attraction*fl.Curiosity)
	eff.Y = math.Min(eff.Y, waterTop-a.cfg.Cursor.WaterClearance)
	return eff, true
}

func (a *InsectAnimator) step(pos *components.Position, cur, target r2.Vec, attracted bool) {
	d := geom.Dist(cur, target)
	if d <= 1 {
		return
	}
	speed := a.cfg.Speed
	if attracted {
		speed *= a.cfg.Cursor.SpeedMultiplier
	}
	next := r2.Add(cur, r2.Scale(speed/d, r2.Sub(target, cur)))
	if a.content.Collides(next, a.cfg.MoveMargin) {
		return
	}
	pos.X, pos.Y = next.X, next.Y
}

// UpdateTheme recolours every insect.
func (a *InsectAnimator) UpdateTheme(h theme.Handler) {
	a.theme = h
	c := h.Insect()
	query := a.filter.Query()
	for query.Next() {
		_, _, _, _, paint := query.Get()
		paint.Color = c
	}
}

// Emit appends every insect's parts, wings first so the body paints on top.
func (a *InsectAnimator) Emit(l *draw.List) {
	query := a.filter.Query()
	for query.Next() {
		pos, fl, wings, body, paint := query.Get()
		at := r2.Vec{X: pos.X, Y: pos.Y}
		c := paint.Color

		wingFill := theme.WithAlpha(c, 0.15)
		wingStroke := theme.WithAlpha(c, 0.6)
		veinStroke := theme.WithAlpha(c, 0.4)
		for _, w := range body.Wings {
			outline := make([]r2.Vec, len(w.Outline))
			for i, p := range w.Outline {
				outline[i] = geom.RotateAround(p, wings.Angle, w.Attach)
			}
			l.Polygon(geom.Transform(outline, fl.Rotation, at), wingFill, wingStroke, 0.5)

			vein := []r2.Vec{w.Attach, geom.RotateAround(w.VeinEnd, wings.Angle, w.Attach)}
			l.Polyline(geom.Transform(vein, fl.Rotation, at), veinStroke, 0.3, false)
		}

		for _, seg := range body.Abdomen {
			l.Polygon(geom.Transform(seg, fl.Rotation, at), c, noStroke, 0)
		}
		l.Polygon(geom.Transform(body.Thorax, fl.Rotation, at), c, noStroke, 0)

		centres := geom.Transform([]r2.Vec{body.Head, body.Eyes[0], body.Eyes[1]}, fl.Rotation, at)
		l.Circle(centres[0], body.HeadRadius, c, noStroke, 0)
		eye := theme.WithAlpha(c, 0.8)
		l.Circle(centres[1], body.EyeRadius, eye, noStroke, 0)
		l.Circle(centres[2], body.EyeRadius, eye, noStroke, 0)
	}
}

func buildInsectBody(size float64) components.InsectBody {
	b := components.InsectBody{
		Size:       size,
		Head:       r2.Vec{Y: -size * 0.7},
		HeadRadius: size * 0.15,
		Eyes:       [2]r2.Vec{{X: -size * 0.08, Y: -size * 0.75}, {X: size * 0.08, Y: -size * 0.75}},
		EyeRadius:  size * 0.05,
		Thorax:     geom.EllipseOutline(r2.Vec{Y: -size * 0.25}, size*0.15, size*0.2, ellipseSegments),
	}
	for i := range b.Abdomen {
		fi := float64(i)
		w := size * (0.25 - fi*0.02)
		b.Abdomen[i] = geom.EllipseOutline(r2.Vec{Y: fi*size*0.15 + size*0.1}, w/2, size*0.06, ellipseSegments)
	}

	wingSize := size * 0.6
	attach := [4]struct {
		at     r2.Vec
		length float64
		dir    float64
	}{
		{r2.Vec{X: -size * 0.12, Y: -size * 0.3}, wingSize * 1.2, -1},
		{r2.Vec{X: size * 0.12, Y: -size * 0.3}, wingSize * 1.2, 1},
		{r2.Vec{X: -size * 0.08, Y: -size * 0.15}, wingSize * 0.9, -1},
		{r2.Vec{X: size * 0.08, Y: -size * 0.15}, wingSize * 0.9, 1},
	}
	for i, w := range attach {
		centre := r2.Add(w.at, r2.Vec{X: w.dir * w.length * 0.5})
		b.Wings[i] = components.WingShape{
			Attach:  w.at,
			Outline: geom.EllipseOutline(centre, w.length/2, w.length*0.35/2, ellipseSegments),
			VeinEnd: r2.Add(w.at, r2.Vec{X: w.dir * w.length}),
		}
	}
	return b
}
