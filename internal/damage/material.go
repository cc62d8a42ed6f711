// Package damage converts projectile impacts into structural damage.
// Materials and projectile kinds are closed enums resolved through a Table.
package damage

import (
	"fmt"
	"strings"
)

// Material is the construction material of a module.
type Material uint8

const (
	Steel Material = iota
	Aluminum
	Wood
)

// String returns the material name.
func (m Material) String() string {
	switch m {
	case Steel:
		return "Steel"
	case Aluminum:
		return "Aluminum"
	case Wood:
		return "Wood"
	default:
		return "Unknown"
	}
}

// AllMaterials returns every material in declaration order.
func AllMaterials() []Material {
	return []Material{Steel, Aluminum, Wood}
}

// ParseMaterial parses a material name (case-insensitive).
func ParseMaterial(s string) (Material, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "steel":
		return Steel, nil
	case "aluminum", "aluminium":
		return Aluminum, nil
	case "wood":
		return Wood, nil
	default:
		return 0, fmt.Errorf("damage: unknown material %q", s)
	}
}

// ProjectileKind is the material class of a projectile.
type ProjectileKind uint8

const (
	Ballistic ProjectileKind = iota
	Explosive
	Energy
)

// String returns the projectile kind name.
func (k ProjectileKind) String() string {
	switch k {
	case Ballistic:
		return "Ballistic"
	case Explosive:
		return "Explosive"
	case Energy:
		return "Energy"
	default:
		return "Unknown"
	}
}

// AllProjectileKinds returns every projectile kind in declaration order.
func AllProjectileKinds() []ProjectileKind {
	return []ProjectileKind{Ballistic, Explosive, Energy}
}

// ParseProjectileKind parses a projectile kind name (case-insensitive).
func ParseProjectileKind(s string) (ProjectileKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ballistic":
		return Ballistic, nil
	case "explosive":
		return Explosive, nil
	case "energy":
		return Energy, nil
	default:
		return 0, fmt.Errorf("damage: unknown projectile kind %q", s)
	}
}

// Properties are the static physical properties of a material.
type Properties struct {
	YieldStrength   float64 `yaml:"yield_strength" json:"yield_strength"`
	Density         float64 `yaml:"density" json:"density"`
	Thickness       float64 `yaml:"thickness" json:"thickness"`
	DamageThreshold float64 `yaml:"damage_threshold" json:"damage_threshold"`
}

// ProjectileSpec describes a projectile kind: its material plus a diameter.
type ProjectileSpec struct {
	Properties `yaml:",inline"`
	Diameter   float64 `yaml:"diameter" json:"diameter"`
}
