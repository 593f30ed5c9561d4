// Package frame is the drawing surface lent to components for one render.
//
// Components render strings (usually lipgloss output) into rectangles; the
// frame clips them to the rectangle and composes the full screen.
package frame

import (
	"strings"

	"github.com/charmbracelet/x/ansi"

	"neviraller/internal/layout"
)

type block struct {
	area  layout.Rect
	lines []string
}

// Frame collects rendered blocks for a width x height screen.
type Frame struct {
	width, height int
	blocks        []block
}

// New creates an empty frame.
func New(width, height int) *Frame {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	return &Frame{width: width, height: height}
}

// Area returns the full frame rectangle.
func (f *Frame) Area() layout.Rect {
	return layout.Rect{Width: f.width, Height: f.height}
}

// Render places content inside area. Lines beyond the area height are
// dropped, lines wider than the area are truncated, shorter ones padded.
// Content outside the frame is clipped. Empty areas are ignored.
func (f *Frame) Render(area layout.Rect, content string) {
	area = clip(area, f.Area())
	if area.Empty() {
		return
	}
	src := strings.Split(content, "\n")
	lines := make([]string, area.Height)
	for i := range lines {
		var l string
		if i < len(src) {
			l = ansi.Truncate(strings.TrimRight(src[i], "\r"), area.Width, "")
		}
		if pad := area.Width - ansi.StringWidth(l); pad > 0 {
			l += strings.Repeat(" ", pad)
		}
		lines[i] = l
	}
	f.blocks = append(f.blocks, block{area: area, lines: lines})
}

// String composes the frame. Uncovered cells are blank; a block rendered
// later is drawn over earlier ones, so overlays draw after what they cover.
func (f *Frame) String() string {
	if f.width == 0 || f.height == 0 {
		return ""
	}
	rows := make([]string, f.height)
	blank := strings.Repeat(" ", f.width)
	for y := range rows {
		rows[y] = blank
	}
	for _, b := range f.blocks {
		left, right := b.area.X, b.area.X+b.area.Width
		for i, l := range b.lines {
			row := rows[b.area.Y+i]
			rows[b.area.Y+i] = ansi.Cut(row, 0, left) + l + ansi.Cut(row, right, f.width)
		}
	}
	return strings.Join(rows, "\n")
}

func clip(r, bounds layout.Rect) layout.Rect {
	x0, y0 := max(r.X, bounds.X), max(r.Y, bounds.Y)
	x1 := min(r.X+r.Width, bounds.X+bounds.Width)
	y1 := min(r.Y+r.Height, bounds.Y+bounds.Height)
	if x1 <= x0 || y1 <= y0 {
		return layout.Rect{X: x0, Y: y0}
	}
	return layout.Rect{X: x0, Y: y0, Width: x1 - x0, Height: y1 - y0}
}
