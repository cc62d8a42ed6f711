// Package structure implements the spatial model of a modular structure:
// the occupancy grid, the rotated world frame, and hull connectivity.
// This package is UI-agnostic and deterministic.
package structure

import "github.com/vovakirdan/hullbreach/internal/core"

// CellType describes what occupies a grid cell.
type CellType uint8

const (
	CellEmpty      CellType = iota // Interior space, passable
	CellOuterSpace                 // Reported for coordinates outside the grid
	CellModule                     // Occupied by exactly one live module
	CellWall                       // Static, non-module wall cell
)

// String returns the name of the cell type.
func (t CellType) String() string {
	switch t {
	case CellEmpty:
		return "Empty"
	case CellOuterSpace:
		return "OuterSpace"
	case CellModule:
		return "Module"
	case CellWall:
		return "Wall"
	default:
		return "Unknown"
	}
}

// Cell represents a single cell in the grid.
type Cell struct {
	Type     CellType
	Occupant core.EntityID // Valid only when Type is CellModule
}

// EmptyCell returns an empty cell.
func EmptyCell() Cell {
	return Cell{Type: CellEmpty}
}

// ModuleCell returns a cell occupied by the given module.
func ModuleCell(id core.EntityID) Cell {
	return Cell{Type: CellModule, Occupant: id}
}

// IsModule reports whether the cell holds a module.
func (c Cell) IsModule() bool {
	return c.Type == CellModule
}

// ModuleType enumerates the kinds of modules a structure is built from.
type ModuleType uint8

const (
	ModuleCommandCenter ModuleType = iota
	ModuleEngine
	ModuleWall
	ModuleCannon
)

// String returns the name of the module type.
func (t ModuleType) String() string {
	switch t {
	case ModuleCommandCenter:
		return "CommandCenter"
	case ModuleEngine:
		return "Engine"
	case ModuleWall:
		return "Wall"
	case ModuleCannon:
		return "Cannon"
	default:
		return "Unknown"
	}
}

// Glyph returns the layout character for the module type.
func (t ModuleType) Glyph() rune {
	switch t {
	case ModuleCommandCenter:
		return 'C'
	case ModuleEngine:
		return 'E'
	case ModuleWall:
		return 'W'
	case ModuleCannon:
		return '!'
	default:
		return '?'
	}
}

// ParseModuleGlyph maps a layout character to a module type.
// Any character that is not a module glyph is interior space.
func ParseModuleGlyph(r rune) (ModuleType, bool) {
	switch r {
	case 'E':
		return ModuleEngine, true
	case 'C':
		return ModuleCommandCenter, true
	case 'W':
		return ModuleWall, true
	case '!':
		return ModuleCannon, true
	default:
		return 0, false
	}
}

// ParseModuleType parses a module type name as used in configuration files.
func ParseModuleType(s string) (ModuleType, bool) {
	switch s {
	case "command_center", "CommandCenter", "commandcenter":
		return ModuleCommandCenter, true
	case "engine", "Engine":
		return ModuleEngine, true
	case "wall", "Wall":
		return ModuleWall, true
	case "cannon", "Cannon":
		return ModuleCannon, true
	default:
		return 0, false
	}
}

// AllModuleTypes returns every module type in declaration order.
func AllModuleTypes() []ModuleType {
	return []ModuleType{ModuleCommandCenter, ModuleEngine, ModuleWall, ModuleCannon}
}
