package component

import (
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"neviraller/internal/action"
	"neviraller/internal/frame"
	"neviraller/internal/layout"
)

// ProgressID identifies the Progress bar.
const ProgressID ID = "progress"

// Progress shows the running task's completion ratio. It is only visible
// while the ratio is strictly between 0 and 1.
type Progress struct {
	Base
	ratio float64
	bar   progress.Model
}

var _ Component = (*Progress)(nil)

// NewProgress creates an empty progress bar.
func NewProgress() *Progress {
	return &Progress{
		Base: NewBase(ProgressID),
		bar:  progress.New(progress.WithGradient("#5A56E0", "#EE6FF8")),
	}
}

// Ratio returns the last reported ratio.
func (p *Progress) Ratio() float64 {
	return p.ratio
}

func (p *Progress) Visible() bool {
	return p.ratio > 0 && p.ratio < 1
}

func (p *Progress) Update(a action.Action) (action.Action, error) {
	if a.Kind != action.Progress {
		return action.Action{}, nil
	}
	if a.Ratio == p.ratio {
		return action.Action{}, nil
	}
	p.ratio = a.Ratio
	return action.New(action.Render), nil
}

func (p *Progress) Draw(f *frame.Frame, area layout.Rect) error {
	p.area = area
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(accent).
		Padding(0, 1)
	p.bar.Width = max(0, area.Width-box.GetHorizontalFrameSize())
	f.Render(area, box.Width(max(0, area.Width-box.GetHorizontalBorderSize())).Render(p.bar.ViewAs(p.ratio)))
	return nil
}
