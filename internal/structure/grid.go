package structure

import (
	"math"

	"github.com/vovakirdan/hullbreach/internal/core"
)

// Grid is the occupancy grid of a structure in its local frame.
// Cells are stored in row-major order: index = y*W + x.
// Local space is centred on the grid: world Y grows upward while grid
// rows grow downward, so row 0 is the top edge.
type Grid struct {
	W        int     // Columns
	H        int     // Rows
	CellSize float64 // Side length of one cell in world units
	Cells    []Cell  // Flat array of cells, length W*H
}

// NewGrid creates a grid with all cells empty.
// Non-positive dimensions produce an empty 0x0 grid.
func NewGrid(w, h int, cellSize float64) *Grid {
	if w <= 0 || h <= 0 {
		w, h = 0, 0
	}
	return &Grid{
		W:        w,
		H:        h,
		CellSize: cellSize,
		Cells:    make([]Cell, w*h),
	}
}

// index converts a coordinate to a flat array index.
func (g *Grid) index(c Coord) int {
	return c.Y*g.W + c.X
}

// InBounds returns true if the coordinate is within the grid boundaries.
func (g *Grid) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < g.W && c.Y >= 0 && c.Y < g.H
}

// Get returns the cell at the given coordinate and whether it is in bounds.
func (g *Grid) Get(c Coord) (Cell, bool) {
	if !g.InBounds(c) {
		return Cell{Type: CellOuterSpace}, false
	}
	return g.Cells[g.index(c)], true
}

// TypeAt returns the type of the cell at c.
// Coordinates outside the grid report CellOuterSpace.
func (g *Grid) TypeAt(c Coord) CellType {
	cell, _ := g.Get(c)
	return cell.Type
}

// Insert overwrites the cell type at c and clears its occupant.
// Module cells need an occupant and go through InsertModule. Returns false
// if c is out of bounds or t is OuterSpace or Module; the grid is left
// unchanged.
func (g *Grid) Insert(c Coord, t CellType) bool {
	if !g.InBounds(c) || t == CellOuterSpace || t == CellModule {
		return false
	}
	g.Cells[g.index(c)] = Cell{Type: t}
	return true
}

// InsertModule marks c as occupied by the module id.
// Returns false if c is out of bounds.
func (g *Grid) InsertModule(c Coord, id core.EntityID) bool {
	if !g.InBounds(c) {
		return false
	}
	g.Cells[g.index(c)] = ModuleCell(id)
	return true
}

// SetEmpty clears the cell at the given coordinate.
func (g *Grid) SetEmpty(c Coord) bool {
	return g.Insert(c, CellEmpty)
}

// HalfExtent returns half of the grid size in local units.
func (g *Grid) HalfExtent() core.Vec2 {
	return core.V(float64(g.W)*g.CellSize/2, float64(g.H)*g.CellSize/2)
}

// LocalToGrid maps a point in unrotated local space (origin at the grid
// centre) to the cell containing it. Points outside the grid, including
// NaN and infinite inputs, return false.
func (g *Grid) LocalToGrid(p core.Vec2) (Coord, bool) {
	if g.CellSize <= 0 || !finite(p.X) || !finite(p.Y) {
		return Coord{}, false
	}
	half := g.HalfExtent()
	fx := math.Floor((p.X + half.X) / g.CellSize)
	fy := math.Floor((half.Y - p.Y) / g.CellSize)
	if fx < 0 || fy < 0 || fx >= float64(g.W) || fy >= float64(g.H) {
		return Coord{}, false
	}
	return C(int(fx), int(fy)), true
}

// GridToLocal returns the centre of cell c in unrotated local space.
// Returns false if c is out of bounds.
func (g *Grid) GridToLocal(c Coord) (core.Vec2, bool) {
	if !g.InBounds(c) {
		return core.Vec2{}, false
	}
	half := g.HalfExtent()
	return core.V(
		float64(c.X)*g.CellSize-half.X+g.CellSize/2,
		half.Y-float64(c.Y)*g.CellSize-g.CellSize/2,
	), true
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.Cells))
	copy(cells, g.Cells)
	return &Grid{
		W:        g.W,
		H:        g.H,
		CellSize: g.CellSize,
		Cells:    cells,
	}
}

// Equal returns true if two grids have the same dimensions and contents.
func (g *Grid) Equal(other *Grid) bool {
	if g.W != other.W || g.H != other.H || g.CellSize != other.CellSize {
		return false
	}
	for i, cell := range g.Cells {
		if cell != other.Cells[i] {
			return false
		}
	}
	return true
}

// CountType returns the number of cells with the given type.
func (g *Grid) CountType(t CellType) int {
	count := 0
	for _, cell := range g.Cells {
		if cell.Type == t {
			count++
		}
	}
	return count
}

// ModuleCoords returns every module-occupied coordinate in row-major order.
func (g *Grid) ModuleCoords() []Coord {
	coords := make([]Coord, 0)
	for y := 0; y < g.H; y++ {
		for x := 0; x < g.W; x++ {
			c := C(x, y)
			if g.TypeAt(c) == CellModule {
				coords = append(coords, c)
			}
		}
	}
	return coords
}

// OccupantAt returns the module id at c, or core.NoEntity.
func (g *Grid) OccupantAt(c Coord) core.EntityID {
	cell, ok := g.Get(c)
	if !ok || cell.Type != CellModule {
		return core.NoEntity
	}
	return cell.Occupant
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
