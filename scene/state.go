package scene

// State is the lifecycle state of a Manager.
type State int

const (
	Uninitialized State = iota
	Running
	TearingDown // fading out while a resize debounce is pending
	Destroyed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case TearingDown:
		return "tearing_down"
	case Destroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}
