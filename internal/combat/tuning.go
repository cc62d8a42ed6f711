package combat

import (
	"github.com/vovakirdan/hullbreach/internal/damage"
	"github.com/vovakirdan/hullbreach/internal/structure"
)

// ModuleSpec is the construction profile of a module type.
type ModuleSpec struct {
	Material damage.Material
	Points   float64 // Structural points at full health
}

// Tuning holds the numeric constants of the simulation. All distances are
// in world units, times in seconds.
type Tuning struct {
	CellSize float64

	ProjectileKind     damage.ProjectileKind
	ProjectileSpeed    float64
	ProjectileLifetime float64
	SpawnOffset        float64
	FireCooldown       float64
	BreachImpulse      float64
	DetachedMass       float64

	StructureAccel    float64
	StructureMaxSpeed float64
	AgentAccel        float64
	AgentMaxSpeed     float64
	AgentRadius       float64
	RotationAccel     float64
	MaxRotationSpeed  float64
	BrakeDecel        float64

	Modules map[structure.ModuleType]ModuleSpec
}

// DefaultModuleSpecs returns the built-in module profiles.
func DefaultModuleSpecs() map[structure.ModuleType]ModuleSpec {
	return map[structure.ModuleType]ModuleSpec{
		structure.ModuleCommandCenter: {Material: damage.Steel, Points: 20000},
		structure.ModuleEngine:        {Material: damage.Aluminum, Points: 8000},
		structure.ModuleWall:          {Material: damage.Steel, Points: 20000},
		structure.ModuleCannon:        {Material: damage.Steel, Points: 20000},
	}
}

// DefaultTuning returns the built-in constants.
func DefaultTuning() Tuning {
	return Tuning{
		CellSize: 50,

		ProjectileKind:     damage.Ballistic,
		ProjectileSpeed:    500,
		ProjectileLifetime: 1,
		SpawnOffset:        50,
		FireCooldown:       0.25,
		BreachImpulse:      5e7,
		DetachedMass:       20000,

		StructureAccel:    200,
		StructureMaxSpeed: 1000,
		AgentAccel:        600,
		AgentMaxSpeed:     150,
		AgentRadius:       10,
		RotationAccel:     1,
		MaxRotationSpeed:  2,
		BrakeDecel:        100,

		Modules: DefaultModuleSpecs(),
	}
}

// moduleSpec returns the profile for t, falling back to the defaults.
func (t Tuning) moduleSpec(mt structure.ModuleType) ModuleSpec {
	if spec, ok := t.Modules[mt]; ok {
		return spec
	}
	return DefaultModuleSpecs()[mt]
}
