package structure

import "fmt"

// LayoutError reports a malformed structure layout.
type LayoutError struct {
	Code    string
	Row     int
	Message string
}

func (e *LayoutError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Layout error codes.
const (
	CodeEmptyLayout = "EMPTY_LAYOUT"
	CodeEmptyRow    = "EMPTY_ROW"
	CodeRaggedRow   = "RAGGED_ROW"
)

// Placement is one module position in a blueprint.
type Placement struct {
	At   Coord
	Type ModuleType
}

// Blueprint is a parsed layout: grid dimensions and module placements.
// It carries no entity ids; those are assigned when a structure is spawned.
type Blueprint struct {
	Width      int
	Height     int
	Placements []Placement // Row-major order
}

// ParseLayout parses layout rows into a Blueprint.
// Characters:
//
//	'E' = engine
//	'C' = command center
//	'W' = wall
//	'!' = cannon
//	anything else = empty interior
//
// Every row must be non-empty and all rows must have the same length
// (measured in characters, not bytes).
func ParseLayout(rows []string) (Blueprint, error) {
	if len(rows) == 0 {
		return Blueprint{}, &LayoutError{
			Code:    CodeEmptyLayout,
			Message: "layout has no rows",
		}
	}

	width := -1
	bp := Blueprint{Height: len(rows)}
	for y, row := range rows {
		runes := []rune(row)
		if len(runes) == 0 {
			return Blueprint{}, &LayoutError{
				Code:    CodeEmptyRow,
				Row:     y,
				Message: fmt.Sprintf("row %d is empty", y),
			}
		}
		if width < 0 {
			width = len(runes)
		} else if len(runes) != width {
			return Blueprint{}, &LayoutError{
				Code:    CodeRaggedRow,
				Row:     y,
				Message: fmt.Sprintf("row %d has %d cells, expected %d", y, len(runes), width),
			}
		}
		for x, r := range runes {
			if t, ok := ParseModuleGlyph(r); ok {
				bp.Placements = append(bp.Placements, Placement{At: C(x, y), Type: t})
			}
		}
	}
	bp.Width = width
	return bp, nil
}

// MustParseLayout is like ParseLayout but panics on error.
// Intended for built-in layouts.
func MustParseLayout(rows []string) Blueprint {
	bp, err := ParseLayout(rows)
	if err != nil {
		panic(err)
	}
	return bp
}

// Count returns the number of placements of the given module type.
func (b Blueprint) Count(t ModuleType) int {
	n := 0
	for _, p := range b.Placements {
		if p.Type == t {
			n++
		}
	}
	return n
}

// Rows renders the blueprint back to layout rows, using '.' for interior.
func (b Blueprint) Rows() []string {
	cells := make([][]rune, b.Height)
	for y := range cells {
		cells[y] = make([]rune, b.Width)
		for x := range cells[y] {
			cells[y][x] = '.'
		}
	}
	for _, p := range b.Placements {
		cells[p.At.Y][p.At.X] = p.Type.Glyph()
	}
	out := make([]string, b.Height)
	for y, row := range cells {
		out[y] = string(row)
	}
	return out
}
