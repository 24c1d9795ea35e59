package components

// Position represents an entity's scene position.
type Position struct {
	X, Y float64
}
