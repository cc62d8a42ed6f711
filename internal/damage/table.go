package damage

import "math"

// Table is the material property lookup. It is read-only once built.
type Table struct {
	materials   map[Material]Properties
	projectiles map[ProjectileKind]ProjectileSpec
}

// DefaultMaterials returns the built-in module material rows.
// Values are in world units (metres scaled by 10, SI densities scaled by 1/100).
func DefaultMaterials() map[Material]Properties {
	return map[Material]Properties{
		Steel:    {YieldStrength: 2500, Density: 78.5, Thickness: 0.1, DamageThreshold: 300},
		Aluminum: {YieldStrength: 1100, Density: 27, Thickness: 0.1, DamageThreshold: 150},
		Wood:     {YieldStrength: 400, Density: 6, Thickness: 0.2, DamageThreshold: 50},
	}
}

// DefaultProjectiles returns the built-in projectile rows.
func DefaultProjectiles() map[ProjectileKind]ProjectileSpec {
	return map[ProjectileKind]ProjectileSpec{
		Ballistic: {
			Properties: Properties{YieldStrength: 2500, Density: 78.5, Thickness: 0.01, DamageThreshold: 300},
			Diameter:   1.2,
		},
		Explosive: {
			Properties: Properties{YieldStrength: 0, Density: 16, Thickness: 0.02, DamageThreshold: 500},
			Diameter:   3,
		},
		Energy: {
			Properties: Properties{YieldStrength: 0, Density: 0, Thickness: 0, DamageThreshold: 1000},
			Diameter:   0.5,
		},
	}
}

// NewTable builds a table from the given rows. Missing rows fall back to
// the defaults. The maps are copied.
func NewTable(materials map[Material]Properties, projectiles map[ProjectileKind]ProjectileSpec) *Table {
	t := &Table{
		materials:   DefaultMaterials(),
		projectiles: DefaultProjectiles(),
	}
	for m, p := range materials {
		t.materials[m] = p
	}
	for k, p := range projectiles {
		t.projectiles[k] = p
	}
	return t
}

// DefaultTable returns a table holding only the built-in rows.
func DefaultTable() *Table {
	return NewTable(nil, nil)
}

// Material returns the properties of m.
func (t *Table) Material(m Material) Properties {
	return t.materials[m]
}

// Projectile returns the spec of k.
func (t *Table) Projectile(k ProjectileKind) ProjectileSpec {
	return t.projectiles[k]
}

// Round is a constructed projectile ready to be fired.
type Round struct {
	Kind             ProjectileKind
	Diameter         float64
	Area             float64
	Mass             float64
	StructuralPoints float64 // Unused after the first impact; kept for penetration models
}

// NewRound derives a projectile's mass and survivability from its spec:
// area = πr², mass = density·area, points = yield·area·density.
func (t *Table) NewRound(k ProjectileKind) Round {
	spec := t.Projectile(k)
	r := spec.Diameter / 2
	area := math.Pi * r * r
	return Round{
		Kind:             k,
		Diameter:         spec.Diameter,
		Area:             area,
		Mass:             spec.Density * area,
		StructuralPoints: spec.YieldStrength * area * spec.Density,
	}
}
