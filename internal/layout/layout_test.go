package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompute80x24(t *testing.T) {
	a := Compute(80, 24, false)
	assert.Equal(t, Rect{X: 1, Y: 1, Width: 78, Height: 1}, a[Header])
	assert.Equal(t, Rect{X: 1, Y: 2, Width: 23, Height: 20}, a[Nav])
	assert.Equal(t, Rect{X: 24, Y: 2, Width: 55, Height: 0}, a[Aux])
	assert.Equal(t, Rect{X: 24, Y: 2, Width: 55, Height: 20}, a[Primary])
	assert.Equal(t, Rect{X: 1, Y: 22, Width: 78, Height: 1}, a[Footer])
}

func TestComputeAuxVisible(t *testing.T) {
	a := Compute(80, 24, true)
	assert.Equal(t, Rect{X: 24, Y: 2, Width: 55, Height: 3}, a[Aux])
	assert.Equal(t, Rect{X: 24, Y: 5, Width: 55, Height: 17}, a[Primary])
}

func TestComputeTinyTerminals(t *testing.T) {
	for _, sz := range [][2]int{{0, 0}, {1, 1}, {2, 2}, {3, 3}, {5, 4}, {10, 0}, {0, 10}} {
		a := Compute(sz[0], sz[1], true)
		for _, r := range Regions {
			rect := a[r]
			assert.GreaterOrEqual(t, rect.Width, 0, "%v %v", sz, r)
			assert.GreaterOrEqual(t, rect.Height, 0, "%v %v", sz, r)
		}
	}
}

func TestMinimumSizeHasNoEmptyRegions(t *testing.T) {
	a := Compute(MinWidth, MinHeight, true)
	for _, r := range Regions {
		assert.False(t, a[r].Empty(), "%v is empty at %dx%d", r, MinWidth, MinHeight)
	}
}

// Every size yields disjoint regions covering exactly the usable area.
func TestComputePartitionsUsableArea(t *testing.T) {
	for w := 0; w <= 40; w++ {
		for h := 0; h <= 30; h++ {
			for _, aux := range []bool{false, true} {
				a := Compute(w, h, aux)
				u := Usable(w, h)

				total := 0
				for i, ri := range Regions {
					rect := a[ri]
					total += rect.Area()
					if !rect.Empty() {
						require.True(t, u.Contains(rect.X, rect.Y), "%dx%d %v outside usable", w, h, ri)
						require.True(t, u.Contains(rect.X+rect.Width-1, rect.Y+rect.Height-1), "%dx%d %v outside usable", w, h, ri)
					}
					for _, rj := range Regions[i+1:] {
						require.False(t, rect.Intersects(a[rj]), "%dx%d aux=%v: %v overlaps %v", w, h, aux, ri, rj)
					}
				}
				require.Equal(t, u.Area(), total, "%dx%d aux=%v", w, h, aux)
			}
		}
	}
}

// Resizing to the same size twice yields the same assignment.
func TestComputeIdempotent(t *testing.T) {
	assert.Equal(t, Compute(120, 40, true), Compute(120, 40, true))
	first := Compute(100, 30, false)
	_ = Compute(20, 10, false)
	assert.Equal(t, first, Compute(100, 30, false))
}

func TestRectHelpers(t *testing.T) {
	r := Rect{X: 2, Y: 3, Width: 4, Height: 2}
	assert.Equal(t, 8, r.Area())
	assert.True(t, r.Contains(5, 4))
	assert.False(t, r.Contains(6, 4))
	assert.True(t, Rect{Width: 0, Height: 5}.Empty())
	assert.Equal(t, "4x2+2+3", r.String())
	assert.Equal(t, "primary", Primary.String())
}
