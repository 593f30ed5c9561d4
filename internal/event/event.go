// Package event normalizes Bubble Tea messages into the input events the
// loop and components understand.
package event

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"neviraller/internal/keymap"
)

// Kind is the type of an input event.
type Kind int

const (
	Key Kind = iota
	Resize
	Render
	Tick
	Quit
	FocusGained
	FocusLost
	Paste
)

func (k Kind) String() string {
	switch k {
	case Key:
		return "Key"
	case Resize:
		return "Resize"
	case Render:
		return "Render"
	case Tick:
		return "Tick"
	case Quit:
		return "Quit"
	case FocusGained:
		return "FocusGained"
	case FocusLost:
		return "FocusLost"
	case Paste:
		return "Paste"
	default:
		return "Unknown"
	}
}

// Event is one normalized input.
type Event struct {
	Kind   Kind
	Key    keymap.Key // Key
	Width  int        // Resize
	Height int        // Resize
	Text   string     // Paste
	Time   time.Time  // Tick, Render
}

// TickMsg is produced by the tick schedule.
type TickMsg time.Time

// FrameMsg is produced by the frame schedule.
type FrameMsg time.Time

// TickEvery returns a command that fires one TickMsg after d.
func TickEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// FrameEvery returns a command that fires one FrameMsg after d.
func FrameEvery(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return FrameMsg(t) })
}

// FromMsg converts msg. ok is false for messages that are not input.
func FromMsg(msg tea.Msg) (Event, bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Paste {
			return Event{Kind: Paste, Text: string(msg.Runes)}, true
		}
		return Event{Kind: Key, Key: keymap.KeyFromMsg(msg)}, true
	case tea.WindowSizeMsg:
		return Event{Kind: Resize, Width: msg.Width, Height: msg.Height}, true
	case TickMsg:
		return Event{Kind: Tick, Time: time.Time(msg)}, true
	case FrameMsg:
		return Event{Kind: Render, Time: time.Time(msg)}, true
	case tea.InterruptMsg, tea.QuitMsg:
		return Event{Kind: Quit}, true
	case tea.FocusMsg:
		return Event{Kind: FocusGained}, true
	case tea.BlurMsg:
		return Event{Kind: FocusLost}, true
	}
	return Event{}, false
}
