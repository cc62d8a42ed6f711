package structure

import "github.com/vovakirdan/hullbreach/internal/core"

// Frame places a grid in the world: a position (the grid centre) and a
// rotation in radians, counterclockwise. It owns the exposure set, which
// is only ever replaced by Reanalyze.
type Frame struct {
	Grid     *Grid
	Position core.Vec2
	Rotation float64
	Density  float64 // Sum of attached module densities, pushed to physics as mass

	exposed CellSet
}

// NewFrame creates a frame for g and computes its initial exposure.
func NewFrame(g *Grid, pos core.Vec2, rotation, density float64) *Frame {
	f := &Frame{
		Grid:     g,
		Position: pos,
		Rotation: rotation,
		Density:  density,
	}
	f.exposed = Analyze(g)
	return f
}

// SetTransform updates the frame's world pose.
func (f *Frame) SetTransform(pos core.Vec2, rotation float64) {
	f.Position = pos
	f.Rotation = rotation
}

// ToLocal converts a world point into unrotated local space.
func (f *Frame) ToLocal(p core.Vec2) core.Vec2 {
	return p.Sub(f.Position).Rotate(-f.Rotation)
}

// ToWorld converts a local-space point into world space.
func (f *Frame) ToWorld(p core.Vec2) core.Vec2 {
	return p.Rotate(f.Rotation).Add(f.Position)
}

// WorldToGrid returns the cell containing the world point p.
func (f *Frame) WorldToGrid(p core.Vec2) (Coord, bool) {
	return f.Grid.LocalToGrid(f.ToLocal(p))
}

// CellCenterWorld returns the world position of the centre of cell c.
func (f *Frame) CellCenterWorld(c Coord) (core.Vec2, bool) {
	local, ok := f.Grid.GridToLocal(c)
	if !ok {
		return core.Vec2{}, false
	}
	return f.ToWorld(local), true
}

// IsWithinBounds reports whether c lies inside the grid.
func (f *Frame) IsWithinBounds(c Coord) bool {
	return f.Grid.InBounds(c)
}

// ContainsWorld reports whether the world point p falls inside the grid.
func (f *Frame) ContainsWorld(p core.Vec2) bool {
	_, ok := f.WorldToGrid(p)
	return ok
}

// Forward returns the unit vector of the frame's local +Y axis in world space.
func (f *Frame) Forward() core.Vec2 {
	return core.V(0, 1).Rotate(f.Rotation)
}

// Exposed returns the current exposure set. Callers must not modify it.
func (f *Frame) Exposed() CellSet {
	return f.exposed
}

// IsExposed reports whether c is currently reachable from outer space.
func (f *Frame) IsExposed(c Coord) bool {
	return f.exposed.Has(c)
}

// Reanalyze recomputes exposure from the current grid and returns the
// previous and new sets.
func (f *Frame) Reanalyze() Breach {
	before := f.exposed
	after := Analyze(f.Grid)
	f.exposed = after
	return Breach{Before: before, After: after}
}
