// Package combat runs the structure simulation: it owns every structure,
// module, projectile and agent record, resolves collisions into damage,
// re-evaluates hull connectivity and applies breach cascades.
//
// All state is mutated from World.Step on a single goroutine.
package combat

import (
	"sort"

	"github.com/vovakirdan/hullbreach/internal/core"
	"github.com/vovakirdan/hullbreach/internal/damage"
	"github.com/vovakirdan/hullbreach/internal/structure"
)

// Kind identifies which arena table an entity id belongs to.
type Kind uint8

const (
	KindNone Kind = iota
	KindStructure
	KindModule
	KindProjectile
	KindAgent
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindStructure:
		return "Structure"
	case KindModule:
		return "Module"
	case KindProjectile:
		return "Projectile"
	case KindAgent:
		return "Agent"
	default:
		return "None"
	}
}

// Structure is a rigid assembly of modules on a grid.
type Structure struct {
	ID    core.EntityID
	Name  string
	Frame *structure.Frame

	// Pilot is the agent currently controlling this structure, if any.
	Pilot core.EntityID

	// Depressurized is set once a loss has exposed a previously sealed region.
	Depressurized bool

	cooldown float64 // Seconds until cannons may fire again
}

// Module is one grid-placed component of a structure.
type Module struct {
	ID        core.EntityID
	Type      structure.ModuleType
	Material  damage.Material
	Points    float64 // Remaining structural points
	MaxPoints float64
	At        structure.Coord // Grid position in the owning structure

	// Structure is the owner. It stays set after detachment so the module
	// can be traced back to the hull it came from.
	Structure core.EntityID

	// Controller is the piloting agent. Only meaningful for CommandCenter.
	Controller core.EntityID

	Destroyed bool
	Detached  bool
}

// Alive reports whether the module still exists in the simulation.
func (m *Module) Alive() bool {
	return !m.Destroyed
}

// Attached reports whether the module is a live part of its structure grid.
func (m *Module) Attached() bool {
	return !m.Destroyed && !m.Detached
}

// Projectile is a fired round in flight.
type Projectile struct {
	ID       core.EntityID
	Kind     damage.ProjectileKind
	Mass     float64
	Size     float64 // Diameter
	Lifetime float64 // Remaining seconds
	Owner    core.EntityID
	Consumed bool
}

// Agent is a controllable actor that can walk into a structure and pilot it.
type Agent struct {
	ID       core.EntityID
	Name     string
	Inside   core.EntityID // Structure whose bounds contain the agent
	Piloting core.EntityID // Structure being piloted
}

// Arena stores every simulated record behind stable integer handles.
// IDs are never reused within an arena.
type Arena struct {
	next        core.EntityID
	structures  map[core.EntityID]*Structure
	modules     map[core.EntityID]*Module
	projectiles map[core.EntityID]*Projectile
	agents      map[core.EntityID]*Agent
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{
		structures:  make(map[core.EntityID]*Structure),
		modules:     make(map[core.EntityID]*Module),
		projectiles: make(map[core.EntityID]*Projectile),
		agents:      make(map[core.EntityID]*Agent),
	}
}

func (a *Arena) allocate() core.EntityID {
	a.next++
	return a.next
}

// Kind returns the table an id belongs to.
func (a *Arena) Kind(id core.EntityID) Kind {
	if _, ok := a.structures[id]; ok {
		return KindStructure
	}
	if _, ok := a.modules[id]; ok {
		return KindModule
	}
	if _, ok := a.projectiles[id]; ok {
		return KindProjectile
	}
	if _, ok := a.agents[id]; ok {
		return KindAgent
	}
	return KindNone
}

// Structure returns the structure with the given id.
func (a *Arena) Structure(id core.EntityID) (*Structure, bool) {
	s, ok := a.structures[id]
	return s, ok
}

// Module returns the module with the given id.
func (a *Arena) Module(id core.EntityID) (*Module, bool) {
	m, ok := a.modules[id]
	return m, ok
}

// Projectile returns the projectile with the given id.
func (a *Arena) Projectile(id core.EntityID) (*Projectile, bool) {
	p, ok := a.projectiles[id]
	return p, ok
}

// Agent returns the agent with the given id.
func (a *Arena) Agent(id core.EntityID) (*Agent, bool) {
	ag, ok := a.agents[id]
	return ag, ok
}

// StructureIDs returns all structure ids in ascending order.
func (a *Arena) StructureIDs() []core.EntityID {
	return sortedKeys(a.structures)
}

// ModuleIDs returns all module ids in ascending order, destroyed included.
func (a *Arena) ModuleIDs() []core.EntityID {
	return sortedKeys(a.modules)
}

// ProjectileIDs returns all in-flight projectile ids in ascending order.
func (a *Arena) ProjectileIDs() []core.EntityID {
	return sortedKeys(a.projectiles)
}

// AgentIDs returns all agent ids in ascending order.
func (a *Arena) AgentIDs() []core.EntityID {
	return sortedKeys(a.agents)
}

// ModulesOf returns the attached modules of a structure in ascending id order.
func (a *Arena) ModulesOf(structureID core.EntityID) []*Module {
	out := make([]*Module, 0)
	for _, id := range a.ModuleIDs() {
		m := a.modules[id]
		if m.Structure == structureID && m.Attached() {
			out = append(out, m)
		}
	}
	return out
}

// FreeModules returns detached, still-alive modules in ascending id order.
func (a *Arena) FreeModules() []*Module {
	out := make([]*Module, 0)
	for _, id := range a.ModuleIDs() {
		m := a.modules[id]
		if m.Detached && !m.Destroyed {
			out = append(out, m)
		}
	}
	return out
}

func (a *Arena) removeProjectile(id core.EntityID) {
	delete(a.projectiles, id)
}

func sortedKeys[V any](m map[core.EntityID]V) []core.EntityID {
	ids := make([]core.EntityID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
