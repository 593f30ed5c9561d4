package component

import (
	"fmt"

	"neviraller/internal/layout"
)

// Placement is a registered component and the region it draws into.
type Placement struct {
	Component Component
	Region    layout.Region
}

// Registry holds components in registration order.
type Registry struct {
	entries []Placement
	byID    map[ID]int
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[ID]int)}
}

// Add registers c in region. IDs must be unique.
func (r *Registry) Add(c Component, region layout.Region) error {
	if c == nil {
		return fmt.Errorf("register component: nil")
	}
	id := c.ID()
	if _, dup := r.byID[id]; dup {
		return fmt.Errorf("register component %q: duplicate id", id)
	}
	r.byID[id] = len(r.entries)
	r.entries = append(r.entries, Placement{Component: c, Region: region})
	return nil
}

// Get looks up a component by ID.
func (r *Registry) Get(id ID) (Component, bool) {
	i, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	return r.entries[i].Component, true
}

// Placements returns the registered components in order.
func (r *Registry) Placements() []Placement {
	out := make([]Placement, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of registered components.
func (r *Registry) Len() int {
	return len(r.entries)
}

// AuxVisible reports whether any component placed in the auxiliary
// region wants to be drawn.
func (r *Registry) AuxVisible() bool {
	for _, p := range r.entries {
		if p.Region == layout.Aux && p.Component.Visible() {
			return true
		}
	}
	return false
}

// Areas maps every component ID to its rectangle in a.
func (r *Registry) Areas(a layout.Assignment) map[ID]layout.Rect {
	out := make(map[ID]layout.Rect, len(r.entries))
	for _, p := range r.entries {
		out[p.Component.ID()] = a[p.Region]
	}
	return out
}

// Default builds the installer screen: title, menu, progress bar, status
// pane with the confirm dialog over it, and key hints.
func Default() *Registry {
	r := NewRegistry()
	for _, p := range []Placement{
		{NewHeader(), layout.Header},
		{NewMenu(DefaultMenuItems()), layout.Nav},
		{NewProgress(), layout.Aux},
		{NewInfo(), layout.Primary},
		{NewConfirm(), layout.Primary},
		{NewFooter(), layout.Footer},
	} {
		if err := r.Add(p.Component, p.Region); err != nil {
			panic(err)
		}
	}
	return r
}
