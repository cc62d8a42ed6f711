package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/hullbreach/internal/core"
)

// buildGrid fills a grid from layout rows, assigning module ids in row-major order.
func buildGrid(t *testing.T, rows ...string) *Grid {
	t.Helper()
	bp, err := ParseLayout(rows)
	require.NoError(t, err)
	g := NewGrid(bp.Width, bp.Height, 10)
	for i, p := range bp.Placements {
		require.True(t, g.InsertModule(p.At, core.EntityID(i+1)))
	}
	return g
}

func TestAnalyzeBoundaryCases(t *testing.T) {
	tests := []struct {
		name     string
		rows     []string
		expected []Coord
	}{
		{
			name:     "solid block",
			rows:     []string{"WWW", "WWW", "WWW"},
			expected: []Coord{},
		},
		{
			name:     "sealed hole",
			rows:     []string{"WWW", "W.W", "WWW"},
			expected: []Coord{},
		},
		{
			name:     "open border cell",
			rows:     []string{"W.W", "WWW", "WWW"},
			expected: []Coord{C(1, 0)},
		},
		{
			name:     "open border reaches hole",
			rows:     []string{"W.W", "W.W", "WWW"},
			expected: []Coord{C(1, 0), C(1, 1)},
		},
		{
			name:     "diagonal does not leak",
			rows:     []string{".WW", "W.W", "WWW"},
			expected: []Coord{C(0, 0)},
		},
		{
			name:     "all empty",
			rows:     []string{"..", ".."},
			expected: []Coord{C(0, 0), C(1, 0), C(0, 1), C(1, 1)},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g := buildGrid(t, tc.rows...)
			assert.Equal(t, tc.expected, Analyze(g).Sorted())
		})
	}
}

func TestAnalyzeNeverReturnsModules(t *testing.T) {
	g := buildGrid(t,
		"..W..",
		".WCW.",
		"W!.EW",
		".WWW.",
	)
	exposed := Analyze(g)
	for c := range exposed {
		assert.True(t, g.InBounds(c), "%v out of bounds", c)
		assert.NotEqual(t, CellModule, g.TypeAt(c), "%v is a module", c)
	}
	assert.False(t, exposed.Has(C(2, 2)), "interior cell should be sealed")
}

func TestAnalyzeWallCellsArePassable(t *testing.T) {
	g := buildGrid(t, "WWW", "W.W", "WWW")
	g.Insert(C(1, 0), CellWall)
	exposed := Analyze(g)
	assert.True(t, exposed.Has(C(1, 0)))
	assert.True(t, exposed.Has(C(1, 1)))
}

func TestAnalyzeIdempotent(t *testing.T) {
	g := buildGrid(t, "W.WW", "W..W", "WWWW")
	first := Analyze(g)
	second := Analyze(g)
	assert.Equal(t, first.Sorted(), second.Sorted())
}

func TestAnalyzeEmptyGrid(t *testing.T) {
	assert.Equal(t, 0, Analyze(NewGrid(0, 0, 1)).Len())
}

func TestBreachNewlyExposedModules(t *testing.T) {
	// Hull with a sealed room; an inner module sits in the room and a
	// separate sealed pocket at the right is untouched by the breach.
	g := buildGrid(t,
		"WWWWWWW",
		"W...W.W",
		"W.E.WWW",
		"W...W..",
		"WWWWW..",
	)
	before := Analyze(g)
	require.False(t, before.Has(C(1, 1)))

	g.SetEmpty(C(2, 0))
	after := Analyze(g)
	b := Breach{Before: before, After: after}

	require.True(t, b.Depressurized(C(2, 0)))
	opened := b.Opened(C(2, 0))
	assert.Contains(t, opened, C(1, 1))
	assert.NotContains(t, opened, C(2, 0))

	victims := b.NewlyExposedModules(g)
	assert.Contains(t, victims, C(1, 0), "hull neighbour of the breach")
	assert.Contains(t, victims, C(3, 0), "hull neighbour of the breach")
	assert.Contains(t, victims, C(2, 2), "module inside the vented room")
	assert.Contains(t, victims, C(0, 2), "room wall")

	assert.NotContains(t, victims, C(0, 0), "corner touches no exposed cell")
	assert.NotContains(t, victims, C(5, 0), "sealed pocket wall")
	assert.NotContains(t, victims, C(6, 1), "sealed pocket wall")
	assert.NotContains(t, victims, C(4, 3), "already exposed before the breach")
	for _, c := range victims {
		assert.Equal(t, CellModule, g.TypeAt(c))
	}
}

func TestBreachNoDepressurizationOnOuterLoss(t *testing.T) {
	g := buildGrid(t,
		"..W..",
		".WWW.",
		"..W..",
	)
	before := Analyze(g)
	g.SetEmpty(C(2, 0))
	b := Breach{Before: before, After: Analyze(g)}

	assert.False(t, b.Depressurized(C(2, 0)))
	assert.Empty(t, b.Opened(C(2, 0)))
}

func TestCellSetSorted(t *testing.T) {
	s := NewCellSet(C(2, 1), C(0, 1), C(5, 0))
	assert.Equal(t, []Coord{C(5, 0), C(0, 1), C(2, 1)}, s.Sorted())
	assert.True(t, s.Has(C(0, 1)))
	assert.False(t, s.Has(C(1, 1)))
}
