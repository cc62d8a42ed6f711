// Package physics is a small kinematic stand-in for a rigid-body engine.
// It integrates bodies with explicit Euler steps, carries cargo bodies along
// with their carrier and detects projectile contacts against structure grids
// and free circular bodies. It implements combat.Physics.
package physics

import (
	"github.com/vovakirdan/hullbreach/internal/combat"
	"github.com/vovakirdan/hullbreach/internal/core"
	"github.com/vovakirdan/hullbreach/internal/structure"
)

// Body is the kinematic state of one simulated body.
type Body struct {
	ID     core.EntityID
	Kind   combat.Kind
	Pos    core.Vec2
	Vel    core.Vec2
	Rot    float64
	Spin   float64
	Mass   float64
	Radius float64
	Frame  *structure.Frame
	Owner  core.EntityID

	carrier  core.EntityID
	offset   core.Vec2 // Position in the carrier's local frame
	relative float64   // Rotation relative to the carrier
}

// Integrate performs one Euler step: p = p + v*dt, θ = θ + ω*dt.
func Integrate(b *Body, dt float64) {
	b.Pos = b.Pos.Add(b.Vel.Scale(dt))
	b.Rot += b.Spin * dt
}

// ApplyImpulse adds impulse/mass to the body's velocity.
// Massless bodies take the impulse as a velocity change.
func ApplyImpulse(b *Body, impulse core.Vec2) {
	if b.Mass > 0 {
		impulse = impulse.Scale(1 / b.Mass)
	}
	b.Vel = b.Vel.Add(impulse)
}

// Damp reduces velocity by a fraction rate*dt, never reversing it.
func Damp(b *Body, rate, dt float64) {
	if rate <= 0 {
		return
	}
	f := 1 - rate*dt
	if f < 0 {
		f = 0
	}
	b.Vel = b.Vel.Scale(f)
	b.Spin *= f
}

// Carried reports whether the body rides on a carrier.
func (b *Body) Carried() bool {
	return b.carrier.Valid()
}

// follow places a carried body relative to its carrier.
func (b *Body) follow(carrier *Body) {
	b.Pos = carrier.Pos.Add(b.offset.Rotate(carrier.Rot))
	b.Rot = carrier.Rot + b.relative
	b.Vel = carrier.Vel
	b.Spin = 0
}
