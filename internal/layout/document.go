// Package layout loads structures documents: named structure layouts with
// spawn positions, plus the agents and scripted gunners of a scenario.
// Documents are YAML or JSON and are checked against an embedded schema
// before their layouts are parsed.
package layout

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/hullbreach/internal/core"
	"github.com/vovakirdan/hullbreach/internal/damage"
	"github.com/vovakirdan/hullbreach/internal/structure"
)

// Document is a complete structures document.
type Document struct {
	ID          string          `yaml:"id" json:"id"`
	Name        string          `yaml:"name,omitempty" json:"name,omitempty"`
	Description string          `yaml:"description,omitempty" json:"description,omitempty"`
	Structures  []StructureSpec `yaml:"structures" json:"structures"`
	Agents      []AgentSpec     `yaml:"agents,omitempty" json:"agents,omitempty"`
	Gunners     []GunnerSpec    `yaml:"gunners,omitempty" json:"gunners,omitempty"`

	FilePath string `yaml:"-" json:"-"`
}

// Point is a world position.
type Point struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Vec converts the point to a vector.
func (p Point) Vec() core.Vec2 {
	return core.V(p.X, p.Y)
}

// StructureSpec places one layout in the world.
type StructureSpec struct {
	Name     string   `yaml:"name" json:"name"`
	Position Point    `yaml:"position" json:"position"`
	Rotation float64  `yaml:"rotation,omitempty" json:"rotation,omitempty"`
	Layout   []string `yaml:"layout" json:"layout"`
}

// Blueprint parses the layout rows.
func (s StructureSpec) Blueprint() (structure.Blueprint, error) {
	return structure.ParseLayout(s.Layout)
}

// AgentSpec places an agent either at a position or aboard a structure,
// standing in its first command center.
type AgentSpec struct {
	Name     string `yaml:"name" json:"name"`
	Position *Point `yaml:"position,omitempty" json:"position,omitempty"`
	Board    string `yaml:"board,omitempty" json:"board,omitempty"`
}

// GunnerSpec is a fixed emplacement that fires at a structure on a timer.
type GunnerSpec struct {
	Name       string  `yaml:"name" json:"name"`
	Position   Point   `yaml:"position" json:"position"`
	Target     string  `yaml:"target" json:"target"`
	Projectile string  `yaml:"projectile,omitempty" json:"projectile,omitempty"`
	Interval   float64 `yaml:"interval,omitempty" json:"interval,omitempty"`
	Speed      float64 `yaml:"speed,omitempty" json:"speed,omitempty"`
	Start      float64 `yaml:"start,omitempty" json:"start,omitempty"`
}

// Kind returns the gunner's projectile kind, Ballistic by default.
func (g GunnerSpec) Kind() (damage.ProjectileKind, error) {
	if g.Projectile == "" {
		return damage.Ballistic, nil
	}
	return damage.ParseProjectileKind(g.Projectile)
}

// StructureError ties a layout failure to the structure that caused it.
type StructureError struct {
	Structure string
	Err       error
}

func (e *StructureError) Error() string {
	return fmt.Sprintf("structure %q: %v", e.Structure, e.Err)
}

func (e *StructureError) Unwrap() error {
	return e.Err
}

// Validate checks references and parses every layout. Layout failures are
// returned as *StructureError wrapping a *structure.LayoutError.
func (d *Document) Validate() error {
	if d.ID == "" {
		return errors.New("layout: document id is required")
	}
	if len(d.Structures) == 0 {
		return fmt.Errorf("layout: document %q has no structures", d.ID)
	}

	names := make(map[string]bool, len(d.Structures))
	for _, s := range d.Structures {
		if names[s.Name] {
			return fmt.Errorf("layout: duplicate structure name %q", s.Name)
		}
		names[s.Name] = true
		if _, err := s.Blueprint(); err != nil {
			return &StructureError{Structure: s.Name, Err: err}
		}
	}

	for _, a := range d.Agents {
		if a.Board != "" && !names[a.Board] {
			return fmt.Errorf("layout: agent %q boards unknown structure %q", a.Name, a.Board)
		}
		if a.Board == "" && a.Position == nil {
			return fmt.Errorf("layout: agent %q needs a position or a structure to board", a.Name)
		}
	}

	for _, g := range d.Gunners {
		if !names[g.Target] {
			return fmt.Errorf("layout: gunner %q targets unknown structure %q", g.Name, g.Target)
		}
		if _, err := g.Kind(); err != nil {
			return fmt.Errorf("layout: gunner %q: %w", g.Name, err)
		}
	}
	return nil
}

// Structure returns the structure spec with the given name.
func (d Document) Structure(name string) (StructureSpec, bool) {
	for _, s := range d.Structures {
		if s.Name == name {
			return s, true
		}
	}
	return StructureSpec{}, false
}

// Title returns the display name, falling back to the id.
func (d Document) Title() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}
