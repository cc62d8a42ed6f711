package combat

import (
	"github.com/vovakirdan/hullbreach/internal/core"
	"github.com/vovakirdan/hullbreach/internal/structure"
)

// BodySpec describes a rigid body handed to the physics adapter.
type BodySpec struct {
	ID       core.EntityID
	Kind     Kind
	Position core.Vec2
	Rotation float64
	Velocity core.Vec2
	Mass     float64
	Radius   float64 // Circle collider; unused for structures

	// Frame is the grid collider of a structure body. The adapter reads
	// module occupancy from it and writes nothing.
	Frame *structure.Frame

	// Owner is the structure a projectile was fired from. Contacts between
	// a projectile and its owner are not reported.
	Owner core.EntityID
}

// Contact is an unordered pair of bodies that touched during a step.
// For a structure body the adapter reports the module id occupying the
// touched cell, never the structure id itself.
type Contact struct {
	A core.EntityID
	B core.EntityID
}

// Physics is the narrow adapter to the rigid-body engine. The world reads
// body state and writes impulses through it; integration belongs to the
// implementation.
type Physics interface {
	Spawn(spec BodySpec)
	Despawn(id core.EntityID)

	Position(id core.EntityID) (core.Vec2, bool)
	Rotation(id core.EntityID) float64
	Velocity(id core.EntityID) core.Vec2
	AngularVelocity(id core.EntityID) float64

	SetVelocity(id core.EntityID, v core.Vec2)
	SetAngularVelocity(id core.EntityID, w float64)
	ApplyImpulse(id core.EntityID, impulse core.Vec2)

	// SetDensity updates the aggregate density of a structure body.
	SetDensity(id core.EntityID, density float64)

	// SetCarrier attaches id to carrier so it moves as cargo. NoEntity detaches.
	SetCarrier(id, carrier core.EntityID)

	// Step integrates all bodies by dt seconds and returns the contacts found.
	Step(dt float64) []Contact
}
