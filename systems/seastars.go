package systems

import (
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
	starArms      = 5
	pointsPerArm  = 8
	starArmSpread = 72.0 // degrees per arm
	starSmoothing = 3    // spline samples per outline span
)

// SeaStarAnimator owns the starfish pool in the water band.
type SeaStarAnimator struct {
	cfg   config.SeaStarsConfig
	rng   *Seeded
	theme theme.Handler

	mapper   *ecs.Map4[components.Position, components.Drift, components.StarShape, components.Paint]
	filter   *ecs.Filter4[components.Position, components.Drift, components.StarShape, components.Paint]
	entities []ecs.Entity
}

// NewSeaStarAnimator creates an animator whose stars live in w.
func NewSeaStarAnimator(w *ecs.World, cfg config.SeaStarsConfig, rng *Seeded, h theme.Handler) *SeaStarAnimator {
	return &SeaStarAnimator{
		cfg:    cfg,
		rng:    rng,
		theme:  h,
		mapper: ecs.NewMap4[components.Position, components.Drift, components.StarShape, components.Paint](w),
		filter: ecs.NewFilter4[components.Position, components.Drift, components.StarShape, components.Paint](w),
	}
}

// CreateSeaStars places the pool. Candidates closer than the minimum distance
// to an earlier star are retried; after the last attempt the candidate is
// kept even if it overlaps.
func (a *SeaStarAnimator) CreateSeaStars(viewW, viewH float64) {
	waterH := viewH / 3
	waterTop := WaterTop(viewH)
	n := a.rng.IntRange(a.cfg.MinCount, a.cfg.MaxCount)

	placed := make([]r2.Vec, 0, n)
	for i := 0; i < n; i++ {
		var centre r2.Vec
		for attempt := 0; attempt < max(a.cfg.Attempts, 1); attempt++ {
			centre = r2.Vec{
				X: a.rng.Float64() * viewW,
				Y: waterTop + waterH*0.4 + a.rng.Float64()*waterH*0.4,
			}
			if clearOf(centre, placed, a.cfg.MinDistance) {
				break
			}
		}
		placed = append(placed, centre)
		a.spawn(centre, viewW, waterTop, waterH)
	}
}

func clearOf(p r2.Vec, others []r2.Vec, minDist float64) bool {
	for _, o := range others {
		if geom.Dist(p, o) < minDist {
			return false
		}
	}
	return true
}

func (a *SeaStarAnimator) spawn(centre r2.Vec, viewW, waterTop, waterH float64) ecs.Entity {
	size := a.cfg.MinSize + a.rng.Float64()*a.cfg.SizeRange

	box := geom.Rect{
		Left:   size * 2,
		Top:    waterTop + waterH*0.3,
		Right:  viewW - size*2,
		Bottom: waterTop + waterH*0.9,
	}.Include(centre)

	pos := components.Position{X: centre.X, Y: centre.Y}
	drift := components.Drift{
		Anchor:   centre,
		Angle:    a.rng.Float64() * 2 * math.Pi,
		Speed:    a.rng.Range(0.2, 0.5),
		RotSpeed: a.rng.Range(0.005, 0.015),
		Size:     size,
		BoundMin: r2.Vec{X: box.Left, Y: box.Top},
		BoundMax: r2.Vec{X: box.Right, Y: box.Bottom},
	}
	shape := components.StarShape{Outline: StarOutline(size)}
	paint := components.Paint{Color: a.theme.SeaStar()}

	e := a.mapper.NewEntity(&pos, &drift, &shape, &paint)
	a.entities = append(a.entities, e)
	return e
}

// StarOutline samples five arms around the origin and smooths the result.
// Each arm's radius holds at the body, grows, plateaus at the tip and
// returns toward the body.
func StarOutline(size float64) []r2.Vec {
	armLength := size * 2.2
	body := size * 0.8
	reach := armLength - body
	span := starArmSpread * math.Pi / 180

	pts := make([]r2.Vec, 0, starArms*(pointsPerArm+1))
	for arm := 0; arm < starArms; arm++ {
		base := (float64(arm)*starArmSpread - 90) * math.Pi / 180
		for i := 0; i <= pointsPerArm; i++ {
			t := float64(i) / pointsPerArm
			var r float64
			switch {
			case t < 0.25:
				r = body * 0.9
			case t < 0.5:
				r = body + reach*math.Sin((t-0.25)/0.25*math.Pi/2)*0.7
			case t < 0.75:
				r = body + reach*(0.7+(t-0.5)/0.25*0.3)
			default:
				r = body + reach*(1-(t-0.75)/0.25)*0.7
			}
			pts = append(pts, geom.FromAngle(base-span/2+t*span, r))
		}
	}
	return geom.CatmullRomClosed(pts, 0.5, starSmoothing)
}

// Entities returns the stars in creation order.
func (a *SeaStarAnimator) Entities() []ecs.Entity {
	return a.entities
}

// State returns a copy of a star's position and drift.
func (a *SeaStarAnimator) State(e ecs.Entity) (r2.Vec, components.Drift) {
	pos, d, _, _ := a.mapper.Get(e)
	return r2.Vec{X: pos.X, Y: pos.Y}, *d
}

// Animate drifts every star around its anchor, clamped into its box.
func (a *SeaStarAnimator) Animate(time float64) {
	query := a.filter.Query()
	for query.Next() {
		pos, d, _, _ := query.Get()
		d.Angle += d.Speed * 0.002

		x := d.Anchor.X + math.Sin(time*0.4)*25
		y := d.Anchor.Y + math.Sin(time*0.25+d.Angle)*12
		pos.X = geom.Clamp(x, d.BoundMin.X, d.BoundMax.X)
		pos.Y = geom.Clamp(y, d.BoundMin.Y, d.BoundMax.Y)
		d.Rotation += d.RotSpeed
	}
}

// UpdateTheme recolours every star.
func (a *SeaStarAnimator) UpdateTheme(h theme.Handler) {
	a.theme = h
	c := h.SeaStar()
	query := a.filter.Query()
	for query.Next() {
		_, _, _, paint := query.Get()
		paint.Color = c
	}
}

// Emit appends one filled outline per star.
func (a *SeaStarAnimator) Emit(l *draw.List) {
	query := a.filter.Query()
	for query.Next() {
		pos, d, shape, paint := query.Get()
		l.Polygon(geom.Transform(shape.Outline, d.Rotation, r2.Vec{X: pos.X, Y: pos.Y}), paint.Color, noStroke, 0)
	}
}
