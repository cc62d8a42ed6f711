package config

import (
	_ "embed"
	"strings"

	"github.com/vovakirdan/hullbreach/internal/combat"
	"github.com/vovakirdan/hullbreach/internal/damage"
	"github.com/vovakirdan/hullbreach/internal/physics"
	"github.com/vovakirdan/hullbreach/internal/structure"
)

//go:embed defaults/hullbreach.yaml
var defaultYAML []byte

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}

// Default returns the built-in configuration.
func Default() Config {
	t := combat.DefaultTuning()
	p := physics.DefaultOptions()

	materials := make(map[string]damage.Properties)
	for m, props := range damage.DefaultMaterials() {
		materials[strings.ToLower(m.String())] = props
	}
	projectiles := make(map[string]damage.ProjectileSpec)
	for k, spec := range damage.DefaultProjectiles() {
		projectiles[strings.ToLower(k.String())] = spec
	}
	modules := make(map[string]ModuleConfig)
	for mt, spec := range combat.DefaultModuleSpecs() {
		modules[moduleKey(mt)] = ModuleConfig{
			Material: strings.ToLower(spec.Material.String()),
			Points:   spec.Points,
		}
	}

	return Config{
		Sim: SimConfig{
			TickRate: 60,
			CellSize: t.CellSize,
		},
		Combat: CombatConfig{
			Projectile:         strings.ToLower(t.ProjectileKind.String()),
			ProjectileSpeed:    t.ProjectileSpeed,
			ProjectileLifetime: t.ProjectileLifetime,
			SpawnOffset:        t.SpawnOffset,
			FireCooldown:       t.FireCooldown,
			BreachImpulse:      t.BreachImpulse,
			DetachedMass:       t.DetachedMass,
		},
		Movement: MovementConfig{
			StructureAccel:    t.StructureAccel,
			StructureMaxSpeed: t.StructureMaxSpeed,
			AgentAccel:        t.AgentAccel,
			AgentMaxSpeed:     t.AgentMaxSpeed,
			AgentRadius:       t.AgentRadius,
			RotationAccel:     t.RotationAccel,
			MaxRotationSpeed:  t.MaxRotationSpeed,
			BrakeDecel:        t.BrakeDecel,
		},
		Physics: PhysicsConfig{
			SampleStep:      p.SampleStep,
			FreeBodyDamping: p.FreeBodyDamping,
		},
		Materials:   materials,
		Projectiles: projectiles,
		Modules:     modules,
		Gunnery: EscalationConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "destroyed",
				MaxAt: 20,
			},
			Scaling: ScalingConfig{
				SpeedMultiplier:   0.5,
				IntervalReduction: 0.6,
			},
		},
	}
}

func moduleKey(mt structure.ModuleType) string {
	switch mt {
	case structure.ModuleCommandCenter:
		return "command_center"
	default:
		return strings.ToLower(mt.String())
	}
}
