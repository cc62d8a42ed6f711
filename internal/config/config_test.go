package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/hullbreach/internal/combat"
	"github.com/vovakirdan/hullbreach/internal/damage"
	"github.com/vovakirdan/hullbreach/internal/structure"
)

func TestDefaultMatchesEmbedded(t *testing.T) {
	embedded, err := parse(DefaultYAML())
	if err != nil {
		t.Fatalf("parse(DefaultYAML()) failed: %v", err)
	}

	want, err := Default().Tuning()
	if err != nil {
		t.Fatalf("Default().Tuning() failed: %v", err)
	}
	got, err := embedded.Tuning()
	if err != nil {
		t.Fatalf("Tuning() failed: %v", err)
	}

	if got.CellSize != want.CellSize {
		t.Errorf("CellSize = %v, expected %v", got.CellSize, want.CellSize)
	}
	if got.BreachImpulse != want.BreachImpulse {
		t.Errorf("BreachImpulse = %v, expected %v", got.BreachImpulse, want.BreachImpulse)
	}
	if got.ProjectileKind != want.ProjectileKind {
		t.Errorf("ProjectileKind = %v, expected %v", got.ProjectileKind, want.ProjectileKind)
	}
	for mt, spec := range want.Modules {
		if got.Modules[mt] != spec {
			t.Errorf("Modules[%v] = %+v, expected %+v", mt, got.Modules[mt], spec)
		}
	}
	if embedded.Sim.TickRate != 60 {
		t.Errorf("TickRate = %d, expected 60", embedded.Sim.TickRate)
	}
}

func TestDefaultTuningMatchesCombat(t *testing.T) {
	got, err := Default().Tuning()
	if err != nil {
		t.Fatalf("Tuning() failed: %v", err)
	}
	want := combat.DefaultTuning()

	if got.ProjectileSpeed != want.ProjectileSpeed ||
		got.FireCooldown != want.FireCooldown ||
		got.AgentMaxSpeed != want.AgentMaxSpeed ||
		got.MaxRotationSpeed != want.MaxRotationSpeed {
		t.Errorf("Default().Tuning() = %+v, expected %+v", got, want)
	}
}

func TestTableOverrides(t *testing.T) {
	cfg := Default()
	cfg.Materials["wood"] = damage.Properties{YieldStrength: 800, Density: 6, Thickness: 0.2, DamageThreshold: 50}

	table, err := cfg.Table()
	if err != nil {
		t.Fatalf("Table() failed: %v", err)
	}
	if got := table.Material(damage.Wood).YieldStrength; got != 800 {
		t.Errorf("Wood.YieldStrength = %v, expected 800", got)
	}
	if got := table.Material(damage.Steel).YieldStrength; got != 2500 {
		t.Errorf("Steel.YieldStrength = %v, expected 2500", got)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero tick rate", func(c *Config) { c.Sim.TickRate = 0 }},
		{"negative cell size", func(c *Config) { c.Sim.CellSize = -1 }},
		{"zero lifetime", func(c *Config) { c.Combat.ProjectileLifetime = 0 }},
		{"unknown material", func(c *Config) { c.Materials["glass"] = damage.Properties{} }},
		{"unknown projectile", func(c *Config) { c.Projectiles["plasma"] = damage.ProjectileSpec{} }},
		{"unknown module", func(c *Config) { c.Modules["shield"] = ModuleConfig{Points: 1} }},
		{"unknown module material", func(c *Config) { c.Modules["wall"] = ModuleConfig{Material: "glass"} }},
		{"unknown cannon round", func(c *Config) { c.Combat.Projectile = "plasma" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("Validate() = nil, expected error")
			}
		})
	}
}

func TestModuleOverride(t *testing.T) {
	cfg := Default()
	cfg.Modules["wall"] = ModuleConfig{Material: "wood"}

	tuning, err := cfg.Tuning()
	if err != nil {
		t.Fatalf("Tuning() failed: %v", err)
	}
	wall := tuning.Modules[structure.ModuleWall]
	if wall.Material != damage.Wood {
		t.Errorf("wall material = %v, expected Wood", wall.Material)
	}
	if wall.Points != 20000 {
		t.Errorf("wall points = %v, expected 20000", wall.Points)
	}
}

func TestLoadCustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	data := []byte("sim:\n  tick_rate: 30\ncombat:\n  projectile_speed: 900\n")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Sim.TickRate != 30 {
		t.Errorf("TickRate = %d, expected 30", cfg.Sim.TickRate)
	}
	if cfg.Combat.ProjectileSpeed != 900 {
		t.Errorf("ProjectileSpeed = %v, expected 900", cfg.Combat.ProjectileSpeed)
	}
	// Untouched keys keep defaults
	if cfg.Sim.CellSize != 50 {
		t.Errorf("CellSize = %v, expected 50", cfg.Sim.CellSize)
	}
	if cfg.Combat.FireCooldown != 0.25 {
		t.Errorf("FireCooldown = %v, expected 0.25", cfg.Combat.FireCooldown)
	}
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("Load(missing) = nil error, expected error")
	}

	bad := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(bad, []byte("sim:\n  tick_rate: 0\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("Load(bad) = nil error, expected validation error")
	}
}

func TestEscalationLevel(t *testing.T) {
	cfg := EscalationConfig{
		Enabled:      true,
		InitialLevel: 0.2,
		Progression:  ProgressionConfig{Type: "destroyed", MaxAt: 10},
		Scaling:      ScalingConfig{SpeedMultiplier: 1, IntervalReduction: 0.5},
	}
	e := NewEscalation(cfg)

	tests := []struct {
		destroyed int
		expected  float64
	}{
		{0, 0.2},
		{5, 0.6},
		{10, 1.0},
		{50, 1.0}, // clamped
	}

	for _, tc := range tests {
		result := e.Level(tc.destroyed, 0)
		if math.Abs(result-tc.expected) > 1e-9 {
			t.Errorf("Level(%d, 0) = %f, expected %f", tc.destroyed, result, tc.expected)
		}
	}
}

func TestEscalationTime(t *testing.T) {
	e := NewEscalation(EscalationConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "time", MaxAt: 100},
		Scaling:     ScalingConfig{SpeedMultiplier: 0.5, IntervalReduction: 0.5},
	})

	if got := e.Speed(400, 0, 100); got != 600 {
		t.Errorf("Speed(400, 0, 100) = %v, expected 600", got)
	}
	if got := e.Interval(2, 0, 50); math.Abs(got-1.5) > 1e-9 {
		t.Errorf("Interval(2, 0, 50) = %v, expected 1.5", got)
	}
}

func TestEscalationIntervalFloor(t *testing.T) {
	e := NewEscalation(EscalationConfig{
		Enabled:     true,
		Progression: ProgressionConfig{Type: "time", MaxAt: 1},
		Scaling:     ScalingConfig{IntervalReduction: 5},
	})
	if got := e.Interval(1, 0, 10); math.Abs(got-0.1) > 1e-9 {
		t.Errorf("Interval(1, 0, 10) = %v, expected 0.1", got)
	}
}

func TestEscalationDisabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  EscalationConfig
	}{
		{"disabled", EscalationConfig{Enabled: false, InitialLevel: 0.4, Progression: ProgressionConfig{Type: "destroyed", MaxAt: 1}}},
		{"none progression", EscalationConfig{Enabled: true, InitialLevel: 0.4, Progression: ProgressionConfig{Type: "none"}}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEscalation(tc.cfg)
			if e.IsEnabled() {
				t.Error("IsEnabled() = true, expected false")
			}
			if got := e.Level(100, 100); got != 0.4 {
				t.Errorf("Level() = %v, expected 0.4", got)
			}
		})
	}
}

func TestApplyPreset(t *testing.T) {
	tests := []struct {
		preset  Preset
		enabled bool
		level   float64
	}{
		{PresetEasy, true, 0.0},
		{PresetNormal, true, 0.3},
		{PresetHard, true, 0.7},
		{PresetFixed, false, 0.0},
	}

	for _, tc := range tests {
		t.Run(string(tc.preset), func(t *testing.T) {
			cfg := Default()
			ApplyPreset(&cfg, tc.preset)
			if cfg.Gunnery.Enabled != tc.enabled {
				t.Errorf("Enabled = %v, expected %v", cfg.Gunnery.Enabled, tc.enabled)
			}
			if cfg.Gunnery.InitialLevel != tc.level {
				t.Errorf("InitialLevel = %v, expected %v", cfg.Gunnery.InitialLevel, tc.level)
			}
		})
	}
}
