package component

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"neviraller/internal/action"
	"neviraller/internal/config"
	"neviraller/internal/frame"
	"neviraller/internal/layout"
)

// HeaderID identifies the Header.
const HeaderID ID = "header"

// Header shows the application title and a spinner while work is running.
type Header struct {
	Base
	title   string
	spinner spinner.Model
	busy    bool
}

var _ Component = (*Header)(nil)

// NewHeader creates a header with the default title.
func NewHeader() *Header {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(titleColor)
	return &Header{
		Base:    NewBase(HeaderID),
		title:   "NEVIRALLER",
		spinner: s,
	}
}

func (h *Header) RegisterConfig(cfg config.Config) error {
	if cfg.UI.Title != "" {
		h.title = cfg.UI.Title
	}
	return nil
}

// Busy reports whether the spinner is running.
func (h *Header) Busy() bool {
	return h.busy
}

func (h *Header) Update(a action.Action) (action.Action, error) {
	switch a.Kind {
	case action.Progress:
		h.busy = a.Ratio > 0 && a.Ratio < 1
	case action.Tick:
		if h.busy {
			h.spinner, _ = h.spinner.Update(h.spinner.Tick())
		}
	}
	return action.Action{}, nil
}

func (h *Header) Draw(f *frame.Frame, area layout.Rect) error {
	h.area = area
	line := titleStyle.Render(h.title)
	if h.busy {
		line = h.spinner.View() + " " + line
	}
	f.Render(area, lipgloss.PlaceHorizontal(area.Width, lipgloss.Center, line))
	return nil
}
