package structure

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/hullbreach/internal/core"
)

func TestFrameRoundTrip(t *testing.T) {
	rotations := []float64{0, 0.3, math.Pi / 4, math.Pi / 2, 2, math.Pi, -1.25, 7.5, -20}
	positions := []core.Vec2{core.V(0, 0), core.V(500, 200), core.V(-1234.5, 98.25)}

	g := NewGrid(7, 5, 50)
	for _, pos := range positions {
		for _, rot := range rotations {
			f := NewFrame(g, pos, rot, 1)
			for y := 0; y < g.H; y++ {
				for x := 0; x < g.W; x++ {
					c := C(x, y)
					world, ok := f.CellCenterWorld(c)
					require.True(t, ok)
					back, ok := f.WorldToGrid(world)
					require.True(t, ok, "cell %v at rotation %v", c, rot)
					assert.Equal(t, c, back, "cell %v at rotation %v pos %v", c, rot, pos)
				}
			}
		}
	}
}

func TestFrameRotationMovesCells(t *testing.T) {
	g := NewGrid(3, 1, 10)
	f := NewFrame(g, core.V(100, 100), 0, 1)

	right, ok := f.CellCenterWorld(C(2, 0))
	require.True(t, ok)
	assert.True(t, right.ApproxEqual(core.V(110, 100), 1e-9))

	// A quarter turn counterclockwise moves the right-hand cell above the centre.
	f.SetTransform(core.V(100, 100), math.Pi/2)
	up, ok := f.CellCenterWorld(C(2, 0))
	require.True(t, ok)
	assert.True(t, up.ApproxEqual(core.V(100, 110), 1e-9), "got %v", up)

	c, ok := f.WorldToGrid(core.V(100, 111))
	require.True(t, ok)
	assert.Equal(t, C(2, 0), c)
	assert.False(t, f.ContainsWorld(core.V(111, 100)))
}

func TestFrameForward(t *testing.T) {
	f := NewFrame(NewGrid(1, 1, 1), core.V(0, 0), 0, 1)
	assert.True(t, f.Forward().ApproxEqual(core.V(0, 1), 1e-12))

	f.SetTransform(core.V(0, 0), -math.Pi/2)
	assert.True(t, f.Forward().ApproxEqual(core.V(1, 0), 1e-12))
}

func TestFrameBoundsAndMisses(t *testing.T) {
	f := NewFrame(NewGrid(2, 2, 10), core.V(0, 0), 0, 1)

	assert.True(t, f.IsWithinBounds(C(1, 1)))
	assert.False(t, f.IsWithinBounds(C(2, 0)))

	_, ok := f.CellCenterWorld(C(-1, 0))
	assert.False(t, ok)
	_, ok = f.WorldToGrid(core.V(1000, 0))
	assert.False(t, ok)
}

func TestFrameInitialExposure(t *testing.T) {
	bp := MustParseLayout([]string{
		"WWW",
		"W.W",
		"WWW",
	})
	g := NewGrid(bp.Width, bp.Height, 10)
	for i, p := range bp.Placements {
		g.InsertModule(p.At, core.EntityID(i+1))
	}
	f := NewFrame(g, core.V(0, 0), 0, 1)
	assert.Equal(t, 0, f.Exposed().Len())
	assert.False(t, f.IsExposed(C(1, 1)))

	g.SetEmpty(C(1, 0))
	breach := f.Reanalyze()
	assert.Equal(t, 0, breach.Before.Len())
	assert.True(t, f.IsExposed(C(1, 0)))
	assert.True(t, f.IsExposed(C(1, 1)))
	assert.True(t, breach.Depressurized(C(1, 0)))
}
