package keymap

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"

	"neviraller/internal/action"
)

var kindDesc = map[action.Kind]string{
	action.Select:               "select",
	action.Next:                 "down",
	action.Prev:                 "up",
	action.Top:                  "top",
	action.Bottom:               "bottom",
	action.PageUp:               "log up",
	action.PageDown:             "log down",
	action.InstallNeovimNightly: "install nvim",
	action.InstallNeviraide:     "install NEVIRAIDE",
	action.CheckDeps:            "check deps",
	action.Refresh:              "refresh",
	action.Help:                 "help",
	action.Cancel:               "cancel",
	action.Confirm:              "yes",
	action.Decline:              "no",
	action.Suspend:              "suspend",
	action.Quit:                 "quit",
}

// Describe returns the help text for a binding.
func Describe(b Binding) string {
	if b.Desc != "" {
		return b.Desc
	}
	if d, ok := kindDesc[b.Action.Kind]; ok {
		return d
	}
	return strings.ToLower(b.Action.Kind.String())
}

// Hints returns one key.Binding per action bound in mode, in registration
// order. Several sequences for the same action share one hint ("k/up").
func (b *Bindings) Hints(mode Mode) []key.Binding {
	type group struct {
		keys []string
		desc string
	}
	var order []action.Action
	groups := make(map[action.Action]*group)
	for _, bind := range b.Table(mode) {
		g, ok := groups[bind.Action]
		if !ok {
			g = &group{desc: Describe(bind)}
			groups[bind.Action] = g
			order = append(order, bind.Action)
		}
		g.keys = append(g.keys, bind.Keys.String())
	}
	out := make([]key.Binding, 0, len(order))
	for _, a := range order {
		g := groups[a]
		out = append(out, key.NewBinding(
			key.WithKeys(g.keys...),
			key.WithHelp(strings.Join(g.keys, "/"), g.desc),
		))
	}
	return out
}
