// Package action defines the commands that flow through the action bus.
//
// An Action is a small comparable value: a Kind plus the payload fields
// that kind uses. It carries no references to UI state, so it can be
// copied freely between the input resolver, the event loop and every
// component.
package action

import (
	"fmt"
	"strings"
)

// Kind identifies the variant of an Action.
type Kind int

const (
	None Kind = iota // zero value: "no action"

	Select
	Next
	Prev
	Top
	Bottom
	PageUp
	PageDown

	InstallNeovimNightly
	InstallNeviraide
	CheckDeps
	Refresh
	Help
	Cancel
	Confirm
	Decline

	Tick
	Render
	Resize // Width, Height
	Suspend
	Resume
	Quit

	Error       // Message
	LogMessage  // Message
	Status      // Message
	Progress    // Ratio
	ModeChanged // Message holds the mode name
	Ask         // Message holds a yes/no question
)

var kindNames = map[Kind]string{
	None:                 "None",
	Select:               "Select",
	Next:                 "Next",
	Prev:                 "Prev",
	Top:                  "Top",
	Bottom:               "Bottom",
	PageUp:               "PageUp",
	PageDown:             "PageDown",
	InstallNeovimNightly: "InstallNeovimNightly",
	InstallNeviraide:     "InstallNeviraide",
	CheckDeps:            "CheckDeps",
	Refresh:              "Refresh",
	Help:                 "Help",
	Cancel:               "Cancel",
	Confirm:              "Confirm",
	Decline:              "Decline",
	Tick:                 "Tick",
	Render:               "Render",
	Resize:               "Resize",
	Suspend:              "Suspend",
	Resume:               "Resume",
	Quit:                 "Quit",
	Error:                "Error",
	LogMessage:           "LogMessage",
	Status:               "Status",
	Progress:             "Progress",
	ModeChanged:          "ModeChanged",
	Ask:                  "Ask",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Bindable reports whether the kind can be produced by a key binding.
// Kinds that carry a payload are only produced by the runtime itself.
func (k Kind) Bindable() bool {
	switch k {
	case None, Resize, Error, LogMessage, Status, Progress, ModeChanged, Ask:
		return false
	}
	_, ok := kindNames[k]
	return ok
}

// ParseKind resolves a configuration name ("Quit", "next", "check_deps")
// to its Kind. Matching ignores case and underscores.
func ParseKind(name string) (Kind, error) {
	want := normalizeName(name)
	for k, n := range kindNames {
		if k != None && normalizeName(n) == want {
			return k, nil
		}
	}
	return None, fmt.Errorf("unknown action %q", name)
}

func normalizeName(s string) string {
	s = strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	s = strings.ReplaceAll(s, "-", "")
	return strings.ToLower(s)
}

// Action is a command value. The zero Action (Kind None) means "nothing".
type Action struct {
	Kind    Kind
	Width   int
	Height  int
	Message string
	Ratio   float64
}

// New returns a payload-free action of the given kind.
func New(k Kind) Action {
	return Action{Kind: k}
}

// IsNone reports whether a is the zero action.
func (a Action) IsNone() bool {
	return a.Kind == None
}

func (a Action) String() string {
	switch a.Kind {
	case Resize:
		return fmt.Sprintf("Resize(%d, %d)", a.Width, a.Height)
	case Error, LogMessage, Status, ModeChanged, Ask:
		return fmt.Sprintf("%s(%q)", a.Kind, a.Message)
	case Progress:
		return fmt.Sprintf("Progress(%.2f)", a.Ratio)
	}
	return a.Kind.String()
}

// ResizeTo returns a Resize action for the given terminal size.
func ResizeTo(width, height int) Action {
	return Action{Kind: Resize, Width: width, Height: height}
}

// Errorf returns an Error action with a formatted message.
func Errorf(format string, args ...any) Action {
	return Action{Kind: Error, Message: fmt.Sprintf(format, args...)}
}

// Log returns a LogMessage action.
func Log(msg string) Action {
	return Action{Kind: LogMessage, Message: msg}
}

// StatusMessage returns a Status action.
func StatusMessage(msg string) Action {
	return Action{Kind: Status, Message: msg}
}

// ProgressRatio returns a Progress action. The ratio is clamped to [0, 1].
func ProgressRatio(r float64) Action {
	switch {
	case r != r || r < 0: // NaN or negative
		r = 0
	case r > 1:
		r = 1
	}
	return Action{Kind: Progress, Ratio: r}
}

// ModeChange announces that the active input mode changed.
func ModeChange(mode fmt.Stringer) Action {
	return Action{Kind: ModeChanged, Message: mode.String()}
}

// Question asks the user to confirm or decline before a task continues.
func Question(q string) Action {
	return Action{Kind: Ask, Message: q}
}
