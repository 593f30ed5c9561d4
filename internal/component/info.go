package component

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"neviraller/internal/action"
	"neviraller/internal/frame"
	"neviraller/internal/layout"
)

// InfoID identifies the Info pane.
const InfoID ID = "info"

// maxInfoLines bounds the retained history.
const maxInfoLines = 1000

type infoLine struct {
	kind action.Kind
	text string
}

// Info is the status pane: an append-only log of Status, LogMessage and
// Error messages that follows the newest line.
type Info struct {
	Base
	lines    []infoLine
	viewport viewport.Model
	follow   bool
}

var _ Component = (*Info)(nil)

// NewInfo creates an empty status pane.
func NewInfo() *Info {
	vp := viewport.New(0, 0)
	vp.Style = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)
	return &Info{
		Base:     NewBase(InfoID),
		viewport: vp,
		follow:   true,
	}
}

// Lines returns the plain text of every retained message.
func (i *Info) Lines() []string {
	out := make([]string, len(i.lines))
	for n, l := range i.lines {
		out[n] = l.text
	}
	return out
}

// Following reports whether the pane is pinned to the newest line.
func (i *Info) Following() bool {
	return i.follow
}

// YOffset returns the scroll position.
func (i *Info) YOffset() int {
	return i.viewport.YOffset
}

func (i *Info) Init(area layout.Rect) error {
	err := i.Base.Init(area)
	i.resize(area)
	return err
}

func (i *Info) Update(a action.Action) (action.Action, error) {
	switch a.Kind {
	case action.Status, action.LogMessage, action.Error:
		for _, text := range strings.Split(strings.TrimRight(a.Message, "\n"), "\n") {
			i.lines = append(i.lines, infoLine{kind: a.Kind, text: text})
		}
		if over := len(i.lines) - maxInfoLines; over > 0 {
			i.lines = i.lines[over:]
		}
		i.follow = true
		i.refresh()
	case action.PageUp:
		i.viewport.PageUp()
		i.follow = i.viewport.AtBottom()
	case action.PageDown:
		i.viewport.PageDown()
		i.follow = i.viewport.AtBottom()
	}
	return action.Action{}, nil
}

func (i *Info) Draw(f *frame.Frame, area layout.Rect) error {
	if area != i.area {
		i.resize(area)
	}
	f.Render(area, i.viewport.View())
	return nil
}

func (i *Info) resize(area layout.Rect) {
	i.area = area
	i.viewport.Width = area.Width
	i.viewport.Height = area.Height
	i.refresh()
}

func (i *Info) refresh() {
	width := i.viewport.Width - i.viewport.Style.GetHorizontalFrameSize()
	var sb strings.Builder
	for n, l := range i.lines {
		if n > 0 {
			sb.WriteByte('\n')
		}
		text := l.text
		if width > 0 {
			text = ansi.Wrap(text, width, " ")
		}
		sb.WriteString(lineStyle(l.kind).Render(text))
	}
	i.viewport.SetContent(sb.String())
	if i.follow {
		i.viewport.GotoBottom()
	}
}

func lineStyle(k action.Kind) lipgloss.Style {
	switch k {
	case action.Error:
		return errorStyle
	case action.LogMessage:
		return mutedStyle
	}
	return lipgloss.NewStyle()
}
