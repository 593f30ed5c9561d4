package keymap

import (
	"neviraller/internal/action"
)

// Resolver turns key presses into actions for the active mode. It owns the
// pending chord buffer.
type Resolver struct {
	bindings *Bindings
	mode     Mode
	pending  Sequence
}

// NewResolver creates a resolver over b, starting in ModeHome.
func NewResolver(b *Bindings) *Resolver {
	if b == nil {
		b = NewBindings()
	}
	return &Resolver{bindings: b}
}

// Resolve feeds one key press. A single-key binding wins immediately and
// clears the buffer. Otherwise the key is appended to the pending chord and
// the whole chord is looked up; a match is returned and clears the buffer.
// When nothing matches, the buffer is kept for the next key.
//
// A mode without a table resolves nothing and keeps no buffer.
func (r *Resolver) Resolve(mode Mode, k Key) (action.Action, bool) {
	if mode != r.mode {
		r.mode = mode
		r.pending = nil
	}
	if !r.bindings.HasMode(mode) {
		r.pending = nil
		return action.Action{}, false
	}
	if a, ok := r.bindings.Lookup(mode, Sequence{k}); ok {
		r.pending = nil
		return a, true
	}
	r.pending = append(r.pending, k)
	if a, ok := r.bindings.Lookup(mode, r.pending); ok {
		r.pending = nil
		return a, true
	}
	return action.Action{}, false
}

// Reset drops the pending chord. Called on every Tick.
func (r *Resolver) Reset() {
	r.pending = nil
}

// Pending returns a copy of the pending chord.
func (r *Resolver) Pending() Sequence {
	if len(r.pending) == 0 {
		return nil
	}
	out := make(Sequence, len(r.pending))
	copy(out, r.pending)
	return out
}
