package keymap

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

// Key is a single key press in Bubble Tea notation: "down", "enter",
// "ctrl+c", "space", or a printable character ("g", "G").
type Key string

// Sequence is an ordered list of key presses bound as one unit.
type Sequence []Key

// String joins the sequence with spaces ("g g"). It is the table key.
func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, k := range s {
		parts[i] = string(k)
	}
	return strings.Join(parts, " ")
}

// KeyFromMsg converts a tea.KeyMsg to its normalized Key.
func KeyFromMsg(msg tea.KeyMsg) Key {
	return NormalizeKey(msg.String())
}

var keyAliases = map[string]string{
	" ":         "space",
	"spc":       "space",
	"escape":    "esc",
	"return":    "enter",
	"cr":        "enter",
	"bs":        "backspace",
	"pageup":    "pgup",
	"pagedown":  "pgdown",
	"del":       "delete",
	"backtab":   "shift+tab",
	"leftarrow": "left",
}

// NormalizeKey canonicalizes a key name. Single printable characters keep
// their case; named keys and modifiers are lowercased.
func NormalizeKey(s string) Key {
	if s == " " {
		return "space"
	}
	s = strings.TrimSpace(s)
	if len([]rune(s)) == 1 {
		return Key(s)
	}
	lower := strings.ToLower(s)
	if alias, ok := keyAliases[lower]; ok {
		return Key(alias)
	}
	// Keep the case of a trailing printable character after modifiers
	// ("alt+G" stays distinct from "alt+g").
	if i := strings.LastIndex(s, "+"); i > 0 && i < len(s)-1 {
		mods := strings.ToLower(s[:i+1])
		last := s[i+1:]
		if len([]rune(last)) > 1 {
			last = strings.ToLower(last)
			if alias, ok := keyAliases[last]; ok {
				last = alias
			}
		}
		return Key(mods + last)
	}
	return Key(lower)
}

// ParseSequence parses a key sequence in either space notation
// ("g g", "ctrl+z", "SPC q") or angle notation ("<g><g>", "<Ctrl-d>").
func ParseSequence(s string) (Sequence, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty key sequence")
	}
	if strings.HasPrefix(s, "<") {
		return parseAngle(s)
	}
	var seq Sequence
	for _, part := range strings.Fields(s) {
		seq = append(seq, NormalizeKey(part))
	}
	return seq, nil
}

func parseAngle(s string) (Sequence, error) {
	var seq Sequence
	for len(s) > 0 {
		if s[0] != '<' {
			return nil, fmt.Errorf("key sequence %q: expected '<'", s)
		}
		end := strings.IndexByte(s[1:], '>')
		if end < 0 {
			return nil, fmt.Errorf("key sequence %q: missing '>'", s)
		}
		body := s[1 : end+1]
		if end == 0 {
			// "<>>" is the '>' key itself.
			if len(s) > 2 && s[2] == '>' {
				body, end = ">", 1
			} else {
				return nil, fmt.Errorf("key sequence %q: empty key", s)
			}
		}
		seq = append(seq, angleKey(body))
		s = s[end+2:]
	}
	return seq, nil
}

// angleKey turns "Ctrl-d" into "ctrl+d" and "Enter" into "enter".
func angleKey(body string) Key {
	if len([]rune(body)) == 1 || body == "-" {
		return Key(body)
	}
	parts := strings.Split(body, "-")
	last := parts[len(parts)-1]
	if last == "" && len(parts) > 1 {
		// "<Ctrl-->" binds ctrl+-
		last = "-"
		parts = parts[:len(parts)-1]
	}
	mods := parts[:len(parts)-1]
	for i, m := range mods {
		mods[i] = strings.ToLower(m)
	}
	name := string(NormalizeKey(last))
	if len(mods) == 0 {
		return Key(name)
	}
	return Key(strings.Join(mods, "+") + "+" + name)
}
