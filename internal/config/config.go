// Package config provides YAML-based simulation tunables and gunnery
// escalation for hullbreach.
package config

import (
	"fmt"

	"github.com/vovakirdan/hullbreach/internal/combat"
	"github.com/vovakirdan/hullbreach/internal/damage"
	"github.com/vovakirdan/hullbreach/internal/physics"
	"github.com/vovakirdan/hullbreach/internal/structure"
)

// Config contains every tunable of a simulation run.
type Config struct {
	Sim         SimConfig                        `yaml:"sim"`
	Combat      CombatConfig                     `yaml:"combat"`
	Movement    MovementConfig                   `yaml:"movement"`
	Physics     PhysicsConfig                    `yaml:"physics"`
	Materials   map[string]damage.Properties     `yaml:"materials"`
	Projectiles map[string]damage.ProjectileSpec `yaml:"projectiles"`
	Modules     map[string]ModuleConfig          `yaml:"modules"`
	Gunnery     EscalationConfig                 `yaml:"gunnery"`
}

// SimConfig defines the tick loop and grid scale.
type SimConfig struct {
	TickRate int     `yaml:"tick_rate"` // Ticks per second
	CellSize float64 `yaml:"cell_size"` // World units per grid cell
	Seed     int64   `yaml:"seed"`      // 0 means time-based
}

// CombatConfig defines projectile and breach parameters.
type CombatConfig struct {
	Projectile         string  `yaml:"projectile"` // Kind fired by cannons
	ProjectileSpeed    float64 `yaml:"projectile_speed"`
	ProjectileLifetime float64 `yaml:"projectile_lifetime"`
	SpawnOffset        float64 `yaml:"spawn_offset"`
	FireCooldown       float64 `yaml:"fire_cooldown"`
	BreachImpulse      float64 `yaml:"breach_impulse"`
	DetachedMass       float64 `yaml:"detached_mass"`
}

// MovementConfig defines piloting and walking parameters.
type MovementConfig struct {
	StructureAccel    float64 `yaml:"structure_accel"`
	StructureMaxSpeed float64 `yaml:"structure_max_speed"`
	AgentAccel        float64 `yaml:"agent_accel"`
	AgentMaxSpeed     float64 `yaml:"agent_max_speed"`
	AgentRadius       float64 `yaml:"agent_radius"`
	RotationAccel     float64 `yaml:"rotation_accel"`
	MaxRotationSpeed  float64 `yaml:"max_rotation_speed"`
	BrakeDecel        float64 `yaml:"brake_decel"`
}

// PhysicsConfig defines the stand-in physics engine settings.
type PhysicsConfig struct {
	SampleStep      float64 `yaml:"sample_step"`
	FreeBodyDamping float64 `yaml:"free_body_damping"`
}

// ModuleConfig defines the construction profile of a module type.
type ModuleConfig struct {
	Material string  `yaml:"material"`
	Points   float64 `yaml:"points"`
}

// Validate checks that the configuration can drive a simulation.
func (c Config) Validate() error {
	if c.Sim.TickRate <= 0 {
		return fmt.Errorf("config: sim.tick_rate must be positive, got %d", c.Sim.TickRate)
	}
	if c.Sim.CellSize <= 0 {
		return fmt.Errorf("config: sim.cell_size must be positive, got %v", c.Sim.CellSize)
	}
	if c.Combat.ProjectileLifetime <= 0 {
		return fmt.Errorf("config: combat.projectile_lifetime must be positive, got %v", c.Combat.ProjectileLifetime)
	}
	if _, err := c.Table(); err != nil {
		return err
	}
	if _, err := c.Tuning(); err != nil {
		return err
	}
	return nil
}

// Table builds the material property table. Rows not mentioned keep their
// built-in values.
func (c Config) Table() (*damage.Table, error) {
	materials := make(map[damage.Material]damage.Properties, len(c.Materials))
	for name, props := range c.Materials {
		m, err := damage.ParseMaterial(name)
		if err != nil {
			return nil, fmt.Errorf("config: materials: %w", err)
		}
		materials[m] = props
	}
	projectiles := make(map[damage.ProjectileKind]damage.ProjectileSpec, len(c.Projectiles))
	for name, spec := range c.Projectiles {
		k, err := damage.ParseProjectileKind(name)
		if err != nil {
			return nil, fmt.Errorf("config: projectiles: %w", err)
		}
		projectiles[k] = spec
	}
	return damage.NewTable(materials, projectiles), nil
}

// Tuning builds the combat constants.
func (c Config) Tuning() (combat.Tuning, error) {
	t := combat.DefaultTuning()
	t.CellSize = c.Sim.CellSize

	if c.Combat.Projectile != "" {
		k, err := damage.ParseProjectileKind(c.Combat.Projectile)
		if err != nil {
			return t, fmt.Errorf("config: combat.projectile: %w", err)
		}
		t.ProjectileKind = k
	}
	t.ProjectileSpeed = c.Combat.ProjectileSpeed
	t.ProjectileLifetime = c.Combat.ProjectileLifetime
	t.SpawnOffset = c.Combat.SpawnOffset
	t.FireCooldown = c.Combat.FireCooldown
	t.BreachImpulse = c.Combat.BreachImpulse
	t.DetachedMass = c.Combat.DetachedMass

	t.StructureAccel = c.Movement.StructureAccel
	t.StructureMaxSpeed = c.Movement.StructureMaxSpeed
	t.AgentAccel = c.Movement.AgentAccel
	t.AgentMaxSpeed = c.Movement.AgentMaxSpeed
	t.AgentRadius = c.Movement.AgentRadius
	t.RotationAccel = c.Movement.RotationAccel
	t.MaxRotationSpeed = c.Movement.MaxRotationSpeed
	t.BrakeDecel = c.Movement.BrakeDecel

	for name, mc := range c.Modules {
		mt, ok := structure.ParseModuleType(name)
		if !ok {
			return t, fmt.Errorf("config: modules: unknown module type %q", name)
		}
		spec := t.Modules[mt]
		if mc.Material != "" {
			m, err := damage.ParseMaterial(mc.Material)
			if err != nil {
				return t, fmt.Errorf("config: modules.%s: %w", name, err)
			}
			spec.Material = m
		}
		if mc.Points > 0 {
			spec.Points = mc.Points
		}
		t.Modules[mt] = spec
	}
	return t, nil
}

// PhysicsOptions returns the stand-in engine settings.
func (c Config) PhysicsOptions() physics.Options {
	return physics.Options{
		SampleStep:      c.Physics.SampleStep,
		FreeBodyDamping: c.Physics.FreeBodyDamping,
	}
}
