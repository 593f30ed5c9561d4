package component

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"neviraller/internal/action"
	"neviraller/internal/frame"
	"neviraller/internal/keymap"
	"neviraller/internal/layout"
)

// ConfirmID identifies the Confirm dialog.
const ConfirmID ID = "confirm"

const (
	confirmMaxWidth = 48
	confirmHelp     = "y/Enter: yes  n/Esc: no"
)

var confirmBox = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(accent).
	Padding(0, 1)

// Confirm is a yes/no dialog drawn over its region while a task waits for
// an answer. It shows the question of the last Ask action; the answer
// itself comes from the keymap as a Confirm or Decline action.
type Confirm struct {
	Base
	question string
	asking   bool
}

var _ Component = (*Confirm)(nil)

// NewConfirm creates a hidden dialog.
func NewConfirm() *Confirm {
	return &Confirm{Base: NewBase(ConfirmID)}
}

// Question returns the pending question, or "" when none is shown.
func (c *Confirm) Question() string {
	if !c.asking {
		return ""
	}
	return c.question
}

func (c *Confirm) Visible() bool {
	return c.asking
}

func (c *Confirm) Update(a action.Action) (action.Action, error) {
	switch a.Kind {
	case action.Ask:
		c.question, c.asking = a.Message, true
		return action.New(action.Render), nil
	case action.Confirm, action.Decline:
		c.asking = false
	case action.ModeChanged:
		// Cancel and quit leave the confirm mode without an answer.
		if a.Message != keymap.ModeConfirm.String() {
			c.asking = false
		}
	}
	return action.Action{}, nil
}

func (c *Confirm) Draw(f *frame.Frame, area layout.Rect) error {
	c.area = area
	width := min(confirmMaxWidth, area.Width-confirmBox.GetHorizontalFrameSize())
	if width < 1 || area.Height < confirmBox.GetVerticalFrameSize()+1 {
		return nil
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Confirm"))
	b.WriteString("\n\n")
	b.WriteString(ansi.Wrap(c.question, width, " "))
	b.WriteString("\n\n")
	b.WriteString(mutedStyle.Render(ansi.Truncate(confirmHelp, width, "…")))
	box := confirmBox.Render(b.String())

	w, h := min(lipgloss.Width(box), area.Width), min(lipgloss.Height(box), area.Height)
	f.Render(layout.Rect{
		X:      area.X + (area.Width-w)/2,
		Y:      area.Y + (area.Height-h)/2,
		Width:  w,
		Height: h,
	}, box)
	return nil
}
