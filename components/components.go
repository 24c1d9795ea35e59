// Package components defines ECS components for the scene animators.
package components

import (
	"image/color"

	"gonum.org/v1/gonum/spatial/r2"
)

// Paint is the base colour an entity's parts are tinted with.
type Paint struct {
	Color color.NRGBA
}

// Flight holds an insect's wandering state.
type Flight struct {
	Target    r2.Vec
	HasTarget bool
	Speed     float64 // units per frame
	Rotation  float64 // body rotation, degrees
	RotSpeed  float64 // degrees per frame, signed

	// Cursor swarming.
	OrbitAngle  float64
	OrbitRadius float64
	OrbitSpeed  float64
	Curiosity   float64 // 0.6 to 1.0
	Attraction  float64
}

// Wings holds the synchronized flap oscillator.
type Wings struct {
	Phase float64
	Speed float64
	Angle float64 // degrees, sin(phase)*50
}

// WingShape is one wing group in body-local coordinates. The group pivots
// around Attach.
type WingShape struct {
	Attach  r2.Vec
	Outline []r2.Vec
	VeinEnd r2.Vec
}

// InsectBody is the dragonfly part layout in body-local coordinates,
// origin at the body centre.
type InsectBody struct {
	Size       float64
	Head       r2.Vec
	HeadRadius float64
	Eyes       [2]r2.Vec
	EyeRadius  float64
	Thorax     []r2.Vec
	Abdomen    [4][]r2.Vec
	Wings      [4]WingShape
}

// Drift holds a sea star's bounded wander.
type Drift struct {
	Anchor   r2.Vec
	Angle    float64
	Speed    float64
	Rotation float64 // degrees
	RotSpeed float64
	Size     float64
	BoundMin r2.Vec
	BoundMax r2.Vec
}

// StarShape is a sea star outline in local coordinates.
type StarShape struct {
	Outline []r2.Vec
}
