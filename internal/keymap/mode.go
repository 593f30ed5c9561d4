package keymap

import (
	"fmt"
	"strings"
)

// Mode is the interaction context that selects the active binding table.
type Mode int

const (
	ModeHome Mode = iota
	ModeBusy
	ModeConfirm
)

func (m Mode) String() string {
	switch m {
	case ModeHome:
		return "Home"
	case ModeBusy:
		return "Busy"
	case ModeConfirm:
		return "Confirm"
	default:
		return "Unknown"
	}
}

// ParseMode resolves a mode name, ignoring case.
func ParseMode(name string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "home":
		return ModeHome, nil
	case "busy":
		return ModeBusy, nil
	case "confirm":
		return ModeConfirm, nil
	}
	return ModeHome, fmt.Errorf("unknown mode %q", name)
}
