package structure

import "sort"

// CellSet is an unordered set of coordinates.
type CellSet map[Coord]struct{}

// NewCellSet creates a set holding the given coordinates.
func NewCellSet(coords ...Coord) CellSet {
	s := make(CellSet, len(coords))
	for _, c := range coords {
		s[c] = struct{}{}
	}
	return s
}

// Has reports whether c is in the set.
func (s CellSet) Has(c Coord) bool {
	_, ok := s[c]
	return ok
}

// Add inserts c into the set.
func (s CellSet) Add(c Coord) {
	s[c] = struct{}{}
}

// Len returns the number of coordinates in the set.
func (s CellSet) Len() int {
	return len(s)
}

// Sorted returns the coordinates in row-major order.
func (s CellSet) Sorted() []Coord {
	out := make([]Coord, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Analyze returns every in-bounds cell reachable from outer space.
//
// The search starts at every non-module cell on the grid border and floods
// 4-directionally through non-module cells. Modules block the flood and are
// never part of the result. An empty grid yields an empty set.
func Analyze(g *Grid) CellSet {
	exposed := make(CellSet)
	if g.W == 0 || g.H == 0 {
		return exposed
	}

	queue := make([]Coord, 0, 2*(g.W+g.H))
	seed := func(c Coord) {
		if g.TypeAt(c) == CellModule || exposed.Has(c) {
			return
		}
		exposed.Add(c)
		queue = append(queue, c)
	}

	for x := 0; x < g.W; x++ {
		seed(C(x, 0))
		seed(C(x, g.H-1))
	}
	for y := 0; y < g.H; y++ {
		seed(C(0, y))
		seed(C(g.W-1, y))
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range cur.Neighbors() {
			if !g.InBounds(n) {
				continue
			}
			seed(n)
		}
	}

	return exposed
}

// Breach is the outcome of re-running the analyzer after the grid changed.
type Breach struct {
	Before CellSet
	After  CellSet
}

// Opened returns cells exposed after the change that were not exposed
// before, excluding the vacated cells themselves. The result is in
// row-major order.
func (b Breach) Opened(vacated ...Coord) []Coord {
	skip := NewCellSet(vacated...)
	out := make([]Coord, 0)
	for c := range b.After {
		if skip.Has(c) || b.Before.Has(c) {
			continue
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Depressurized reports whether the change opened a previously sealed
// region to outer space.
func (b Breach) Depressurized(vacated ...Coord) bool {
	return len(b.Opened(vacated...)) > 0
}

// NewlyExposedModules returns the module cells of g that touch an exposed
// cell after the change but touched none before it, in row-major order.
func (b Breach) NewlyExposedModules(g *Grid) []Coord {
	out := make([]Coord, 0)
	for _, c := range g.ModuleCoords() {
		if touches(c, b.After) && !touches(c, b.Before) {
			out = append(out, c)
		}
	}
	return out
}

func touches(c Coord, set CellSet) bool {
	for _, n := range c.Neighbors() {
		if set.Has(n) {
			return true
		}
	}
	return false
}
