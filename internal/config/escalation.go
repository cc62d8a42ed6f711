package config

import "github.com/vovakirdan/hullbreach/internal/core"

// EscalationConfig controls how scripted gunnery intensifies during a run.
type EscalationConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = calm, 1.0 = relentless
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines what drives escalation.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "destroyed", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Destroyed modules or ticks at which max level is reached
}

// ScalingConfig defines the magnitude of escalation.
type ScalingConfig struct {
	SpeedMultiplier   float64 `yaml:"speed_multiplier"`   // Added to muzzle speed at max level
	IntervalReduction float64 `yaml:"interval_reduction"` // Fraction of the fire interval removed at max level
}

// Escalation calculates gunnery parameters from the progress of a run.
type Escalation struct {
	cfg          EscalationConfig
	initialLevel float64
}

// NewEscalation creates an escalation tracker.
func NewEscalation(cfg EscalationConfig) *Escalation {
	return &Escalation{
		cfg:          cfg,
		initialLevel: cfg.InitialLevel,
	}
}

// SetInitialLevel overrides the initial level (0.0 to 1.0).
func (e *Escalation) SetInitialLevel(level float64) {
	e.initialLevel = core.ClampF(level, 0.0, 1.0)
}

// SetEnabled enables or disables escalation.
func (e *Escalation) SetEnabled(enabled bool) {
	e.cfg.Enabled = enabled
}

// IsEnabled returns whether escalation is active.
func (e *Escalation) IsEnabled() bool {
	return e.cfg.Enabled && e.cfg.Progression.Type != "none"
}

// Level returns the current level (0.0 to 1.0).
func (e *Escalation) Level(destroyed int, ticks int) float64 {
	if !e.IsEnabled() {
		return e.initialLevel
	}

	maxAt := float64(e.cfg.Progression.MaxAt)
	if maxAt <= 0 {
		maxAt = 1
	}

	var progress float64
	switch e.cfg.Progression.Type {
	case "destroyed":
		progress = float64(destroyed) / maxAt
	case "time":
		progress = float64(ticks) / maxAt
	default:
		return e.initialLevel
	}

	progress = core.ClampF(progress, 0.0, 1.0)
	return e.initialLevel + progress*(1.0-e.initialLevel)
}

// Speed returns the muzzle speed for the current level.
func (e *Escalation) Speed(base float64, destroyed int, ticks int) float64 {
	level := e.Level(destroyed, ticks)
	return base * (1.0 + level*e.cfg.Scaling.SpeedMultiplier)
}

// Interval returns the fire interval for the current level. It never drops
// below a tenth of base.
func (e *Escalation) Interval(base float64, destroyed int, ticks int) float64 {
	level := e.Level(destroyed, ticks)
	reduction := core.ClampF(level*e.cfg.Scaling.IntervalReduction, 0, 0.9)
	return base * (1 - reduction)
}

// Preset is a named escalation starting point.
type Preset string

const (
	PresetEasy   Preset = "easy"
	PresetNormal Preset = "normal"
	PresetHard   Preset = "hard"
	PresetFixed  Preset = "fixed"
)

// InitialLevelForPreset returns the initial_level for a preset.
func InitialLevelForPreset(p Preset) float64 {
	switch p {
	case PresetNormal:
		return 0.3
	case PresetHard:
		return 0.7
	default:
		return 0.0
	}
}

// ApplyPreset modifies the gunnery configuration for a preset.
func ApplyPreset(cfg *Config, p Preset) {
	if p == PresetFixed {
		cfg.Gunnery.Enabled = false
		return
	}
	cfg.Gunnery.Enabled = true
	cfg.Gunnery.InitialLevel = InitialLevelForPreset(p)
}
