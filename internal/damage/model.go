package damage

import "math"

// KineticEnergy returns ½·m·v².
func KineticEnergy(mass, speed float64) float64 {
	return 0.5 * mass * speed * speed
}

// ComputeDamage returns the structural damage dealt by a projectile of the
// given mass and speed against a target material:
//
//	damage = KE · (proj.density / target.density) · (proj.yield / target.yield) / target.yield
//
// A target with non-positive density or yield strength cannot be scaled
// against and takes no damage. The result is never negative.
func ComputeDamage(mass, speed float64, proj, target Properties) float64 {
	if target.Density <= 0 || target.YieldStrength <= 0 {
		return 0
	}
	densityFactor := proj.Density / target.Density
	hardnessFactor := proj.YieldStrength / target.YieldStrength
	d := KineticEnergy(mass, speed) * densityFactor * hardnessFactor / target.YieldStrength
	if math.IsNaN(d) || d < 0 {
		return 0
	}
	return d
}

// Hit describes one projectile striking one module.
type Hit struct {
	Mass       float64
	Speed      float64
	Projectile ProjectileKind
	Target     Material
	Points     float64 // Target's structural points before the hit
}

// Outcome is the result of resolving a Hit.
type Outcome struct {
	Damage    float64
	Remaining float64
	Destroyed bool
}

// Resolve applies the damage formula to a hit using the table's rows.
func (t *Table) Resolve(h Hit) Outcome {
	d := ComputeDamage(h.Mass, h.Speed, t.Projectile(h.Projectile).Properties, t.Material(h.Target))
	return Apply(h.Points, d)
}

// Apply deducts damage from points. Points never increase.
func Apply(points, damage float64) Outcome {
	if damage < 0 || math.IsNaN(damage) {
		damage = 0
	}
	remaining := points - damage
	return Outcome{
		Damage:    damage,
		Remaining: remaining,
		Destroyed: remaining <= 0,
	}
}
