package component

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"neviraller/internal/action"
	"neviraller/internal/config"
	"neviraller/internal/frame"
	"neviraller/internal/keymap"
	"neviraller/internal/layout"
)

// FooterID identifies the Footer.
const FooterID ID = "footer"

// Footer shows key hints for the active mode and the copyright line.
// Help toggles between the compact hints and every hint of the mode, the
// latter using the whole row.
type Footer struct {
	Base
	bindings  *keymap.Bindings
	mode      keymap.Mode
	hints     []key.Binding
	help      help.Model
	copyright string
}

var _ Component = (*Footer)(nil)

// NewFooter creates a footer. Hints appear once a configuration with
// bindings is registered.
func NewFooter() *Footer {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(accent).Bold(true)
	h.Styles.ShortDesc = mutedStyle
	h.Styles.ShortSeparator = mutedStyle
	h.Styles.Ellipsis = mutedStyle
	return &Footer{
		Base:     NewBase(FooterID),
		bindings: keymap.NewBindings(),
		help:     h,
	}
}

func (f *Footer) RegisterConfig(cfg config.Config) error {
	f.copyright = cfg.UI.Copyright
	if cfg.Bindings != nil {
		f.bindings = cfg.Bindings
	}
	f.hints = f.bindings.Hints(f.mode)
	return nil
}

// Mode returns the mode whose hints are shown.
func (f *Footer) Mode() keymap.Mode {
	return f.mode
}

// ShowAll reports whether every hint is shown.
func (f *Footer) ShowAll() bool {
	return f.help.ShowAll
}

// Hints returns the hints of the current mode.
func (f *Footer) Hints() []key.Binding {
	return f.hints
}

func (f *Footer) Update(a action.Action) (action.Action, error) {
	switch a.Kind {
	case action.ModeChanged:
		mode, err := keymap.ParseMode(a.Message)
		if err != nil {
			return action.Action{}, err
		}
		f.mode = mode
		f.hints = f.bindings.Hints(mode)
	case action.Help:
		f.help.ShowAll = !f.help.ShowAll
		return action.New(action.Render), nil
	}
	return action.Action{}, nil
}

func (f *Footer) Draw(fr *frame.Frame, area layout.Rect) error {
	f.area = area
	if f.help.ShowAll || f.copyright == "" {
		f.help.Width = area.Width
		fr.Render(area, f.help.ShortHelpView(f.hints))
		return nil
	}

	right := mutedStyle.Render(f.copyright)
	f.help.Width = max(0, area.Width-lipgloss.Width(right)-1)
	left := f.help.ShortHelpView(f.hints)
	gap := max(1, area.Width-lipgloss.Width(left)-lipgloss.Width(right))
	fr.Render(area, left+lipgloss.NewStyle().Width(gap).Render("")+right)
	return nil
}
