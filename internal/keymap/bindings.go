// Package keymap maps key sequences to actions per input mode and resolves
// live key presses, including multi-key chords, against those tables.
package keymap

import (
	"errors"
	"fmt"
	"strings"

	"neviraller/internal/action"
)

// ErrConflict is returned by Bind when a sequence collides with an existing
// binding in the same mode.
var ErrConflict = errors.New("key binding conflict")

// Binding is one entry of a mode table.
type Binding struct {
	Keys   Sequence
	Action action.Action
	Desc   string // help text; empty falls back to the action's description
}

type table struct {
	order []string
	byKey map[string]Binding
}

// Bindings maps Mode -> key sequence -> Action.
type Bindings struct {
	modes map[Mode]*table
}

// NewBindings creates an empty set of tables.
func NewBindings() *Bindings {
	return &Bindings{modes: make(map[Mode]*table)}
}

// Bind registers seq in mode. It rejects empty sequences, actions that
// cannot be bound, duplicates, and sequences that are a proper prefix of
// (or extend) an existing one in the same mode.
func (b *Bindings) Bind(mode Mode, seq Sequence, a action.Action) error {
	return b.BindWithDesc(mode, seq, a, "")
}

// BindWithDesc is Bind with a help description.
func (b *Bindings) BindWithDesc(mode Mode, seq Sequence, a action.Action, desc string) error {
	if len(seq) == 0 {
		return fmt.Errorf("bind %s: empty key sequence", mode)
	}
	for _, k := range seq {
		if k == "" {
			return fmt.Errorf("bind %s %q: empty key", mode, seq.String())
		}
	}
	if !a.Kind.Bindable() {
		return fmt.Errorf("bind %s %q: action %s cannot be bound to a key", mode, seq.String(), a)
	}
	t := b.modes[mode]
	if t == nil {
		t = &table{byKey: make(map[string]Binding)}
		b.modes[mode] = t
	}
	s := seq.String()
	if prev, ok := t.byKey[s]; ok {
		return fmt.Errorf("%w: %s %q already bound to %s", ErrConflict, mode, s, prev.Action)
	}
	for _, other := range t.order {
		if isProperPrefix(s, other) || isProperPrefix(other, s) {
			return fmt.Errorf("%w: %s %q overlaps %q", ErrConflict, mode, s, other)
		}
	}
	keys := make(Sequence, len(seq))
	copy(keys, seq)
	t.byKey[s] = Binding{Keys: keys, Action: a, Desc: desc}
	t.order = append(t.order, s)
	return nil
}

// isProperPrefix reports whether the sequence p is a strict prefix of s,
// both in joined form.
func isProperPrefix(p, s string) bool {
	return len(p) < len(s) && strings.HasPrefix(s, p+" ")
}

// Lookup returns the action bound to seq in mode.
func (b *Bindings) Lookup(mode Mode, seq Sequence) (action.Action, bool) {
	t := b.modes[mode]
	if t == nil || len(seq) == 0 {
		return action.Action{}, false
	}
	bind, ok := t.byKey[seq.String()]
	return bind.Action, ok
}

// HasMode reports whether mode has a table.
func (b *Bindings) HasMode(mode Mode) bool {
	_, ok := b.modes[mode]
	return ok
}

// Table returns the bindings of mode in registration order.
func (b *Bindings) Table(mode Mode) []Binding {
	t := b.modes[mode]
	if t == nil {
		return nil
	}
	out := make([]Binding, 0, len(t.order))
	for _, s := range t.order {
		out = append(out, t.byKey[s])
	}
	return out
}

// Len returns the number of bindings in mode.
func (b *Bindings) Len(mode Mode) int {
	if t := b.modes[mode]; t != nil {
		return len(t.order)
	}
	return 0
}
