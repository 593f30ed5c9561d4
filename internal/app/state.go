package app

import "neviraller/internal/keymap"

// Lifecycle is the controller's run state.
type Lifecycle int

const (
	Running Lifecycle = iota
	Suspended
	Terminating
)

func (l Lifecycle) String() string {
	switch l {
	case Running:
		return "Running"
	case Suspended:
		return "Suspended"
	case Terminating:
		return "Terminating"
	default:
		return "Unknown"
	}
}

// State is the application state owned by the App.
type State struct {
	ShouldQuit    bool
	ShouldSuspend bool
	Mode          keymap.Mode
	Lifecycle     Lifecycle
}
