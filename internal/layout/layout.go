// Package layout computes screen regions from the terminal size.
//
// Compute is pure and total: every width and height, including zero, yields
// a set of non-overlapping rectangles whose union is the usable area (the
// terminal minus a one-cell margin). Regions may have zero area.
package layout

import "fmt"

const (
	Margin       = 1
	HeaderHeight = 1
	FooterHeight = 1
	AuxHeight    = 3
	NavPercent   = 30
)

// MinWidth and MinHeight are the smallest terminal size at which every
// region, including a visible auxiliary slot, has a non-empty area.
const (
	MinWidth  = 2*Margin + 4
	MinHeight = 2*Margin + HeaderHeight + FooterHeight + AuxHeight + 1
)

// Rect is a rectangle in terminal cells.
type Rect struct {
	X, Y          int
	Width, Height int
}

// Empty reports whether r covers no cells.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Area returns the number of cells in r.
func (r Rect) Area() int {
	if r.Empty() {
		return 0
	}
	return r.Width * r.Height
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.Width && y >= r.Y && y < r.Y+r.Height
}

// Intersects reports whether r and o share at least one cell.
func (r Rect) Intersects(o Rect) bool {
	if r.Empty() || o.Empty() {
		return false
	}
	return r.X < o.X+o.Width && o.X < r.X+r.Width &&
		r.Y < o.Y+o.Height && o.Y < r.Y+r.Height
}

func (r Rect) String() string {
	return fmt.Sprintf("%dx%d+%d+%d", r.Width, r.Height, r.X, r.Y)
}

// Region names a slot of the layout.
type Region int

const (
	Header Region = iota
	Nav
	Aux
	Primary
	Footer
)

// Regions lists every region in drawing order.
var Regions = []Region{Header, Nav, Aux, Primary, Footer}

func (r Region) String() string {
	switch r {
	case Header:
		return "header"
	case Nav:
		return "nav"
	case Aux:
		return "aux"
	case Primary:
		return "primary"
	case Footer:
		return "footer"
	default:
		return fmt.Sprintf("Region(%d)", int(r))
	}
}

// Assignment maps each region to its rectangle.
type Assignment map[Region]Rect

// Usable returns the area inside the margin.
func Usable(width, height int) Rect {
	return Rect{
		X:      Margin,
		Y:      Margin,
		Width:  sub(width, 2*Margin),
		Height: sub(height, 2*Margin),
	}
}

// Compute splits a width x height terminal:
//
//	header   (1 row)
//	nav 30% | aux (3 rows when visible)
//	        | primary
//	footer   (1 row)
//
// Every dimension saturates at zero.
func Compute(width, height int, auxVisible bool) Assignment {
	u := Usable(width, height)

	headerH := minInt(HeaderHeight, u.Height)
	footerH := minInt(FooterHeight, sub(u.Height, headerH))
	bodyH := sub(u.Height, headerH+footerH)

	header := Rect{X: u.X, Y: u.Y, Width: u.Width, Height: headerH}
	body := Rect{X: u.X, Y: u.Y + headerH, Width: u.Width, Height: bodyH}
	footer := Rect{X: u.X, Y: body.Y + bodyH, Width: u.Width, Height: footerH}

	navW := body.Width * NavPercent / 100
	nav := Rect{X: body.X, Y: body.Y, Width: navW, Height: body.Height}
	content := Rect{X: body.X + navW, Y: body.Y, Width: body.Width - navW, Height: body.Height}

	auxH := 0
	if auxVisible {
		auxH = minInt(AuxHeight, content.Height)
	}
	aux := Rect{X: content.X, Y: content.Y, Width: content.Width, Height: auxH}
	primary := Rect{X: content.X, Y: content.Y + auxH, Width: content.Width, Height: content.Height - auxH}

	return Assignment{
		Header:  header,
		Nav:     nav,
		Aux:     aux,
		Primary: primary,
		Footer:  footer,
	}
}

func sub(a, b int) int {
	if a <= b {
		return 0
	}
	return a - b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
