// Package component defines the UI parts of the screen and the contract
// the event loop drives them through.
//
// Components never reference each other. They receive actions through
// Update, may emit one follow-up action in return, and may send more
// through the action sink registered at startup.
package component

import (
	"errors"

	"neviraller/internal/action"
	"neviraller/internal/bus"
	"neviraller/internal/config"
	"neviraller/internal/event"
	"neviraller/internal/frame"
	"neviraller/internal/layout"
)

// ErrZeroArea is returned by Init when the component was given no space.
// Callers treat it as a no-op, not a failure.
var ErrZeroArea = errors.New("component area is empty")

// ErrNoSink is returned when a nil sink is registered.
var ErrNoSink = errors.New("nil action sink")

// ID names a component. IDs are stable and unique within a Registry.
type ID string

// Component is one drawable part of the screen.
type Component interface {
	ID() ID
	RegisterActionSink(s bus.Sink) error
	RegisterConfig(cfg config.Config) error
	// Init is called with the component's first area.
	Init(area layout.Rect) error
	// HandleEvent gets events the keymap did not consume. It returns the
	// zero Action when the event is not handled and must not block.
	HandleEvent(ev event.Event) action.Action
	// Update reacts to an action and may return a follow-up action.
	Update(a action.Action) (action.Action, error)
	Draw(f *frame.Frame, area layout.Rect) error
	// Visible reports whether the component wants its region drawn.
	Visible() bool
}

// Base carries the registration state shared by all components. Embed it
// and override what the component needs.
type Base struct {
	id   ID
	sink bus.Sink
	area layout.Rect
}

// NewBase returns a Base with the given ID.
func NewBase(id ID) Base {
	return Base{id: id}
}

func (b *Base) ID() ID {
	return b.id
}

func (b *Base) RegisterActionSink(s bus.Sink) error {
	if s == nil {
		return ErrNoSink
	}
	b.sink = s
	return nil
}

func (b *Base) RegisterConfig(config.Config) error {
	return nil
}

func (b *Base) Init(area layout.Rect) error {
	b.area = area
	if area.Empty() {
		return ErrZeroArea
	}
	return nil
}

func (b *Base) HandleEvent(event.Event) action.Action {
	return action.Action{}
}

func (b *Base) Visible() bool {
	return true
}

// Area returns the area passed to Init or the last Draw.
func (b *Base) Area() layout.Rect {
	return b.area
}

// Send forwards a to the registered sink. Without a sink the action is
// dropped.
func (b *Base) Send(a action.Action) error {
	if b.sink == nil {
		return nil
	}
	return b.sink.Send(a)
}
