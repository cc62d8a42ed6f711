package combat

import "github.com/vovakirdan/hullbreach/internal/core"

type fakeBody struct {
	spec     BodySpec
	pos      core.Vec2
	vel      core.Vec2
	rot      float64
	spin     float64
	density  float64
	carrier  core.EntityID
	impulses []core.Vec2
}

// fakePhysics integrates positions linearly and reports whatever contacts
// the test queued for the next step.
type fakePhysics struct {
	bodies    map[core.EntityID]*fakeBody
	pending   []Contact
	despawned []core.EntityID
}

func newFakePhysics() *fakePhysics {
	return &fakePhysics{bodies: make(map[core.EntityID]*fakeBody)}
}

func (f *fakePhysics) queueContact(a, b core.EntityID) {
	f.pending = append(f.pending, Contact{A: a, B: b})
}

func (f *fakePhysics) Spawn(spec BodySpec) {
	f.bodies[spec.ID] = &fakeBody{
		spec:    spec,
		pos:     spec.Position,
		vel:     spec.Velocity,
		rot:     spec.Rotation,
		density: spec.Mass,
	}
}

func (f *fakePhysics) Despawn(id core.EntityID) {
	delete(f.bodies, id)
	f.despawned = append(f.despawned, id)
}

func (f *fakePhysics) Position(id core.EntityID) (core.Vec2, bool) {
	b, ok := f.bodies[id]
	if !ok {
		return core.Vec2{}, false
	}
	return b.pos, true
}

func (f *fakePhysics) Rotation(id core.EntityID) float64 {
	if b, ok := f.bodies[id]; ok {
		return b.rot
	}
	return 0
}

func (f *fakePhysics) Velocity(id core.EntityID) core.Vec2 {
	if b, ok := f.bodies[id]; ok {
		return b.vel
	}
	return core.Vec2{}
}

func (f *fakePhysics) AngularVelocity(id core.EntityID) float64 {
	if b, ok := f.bodies[id]; ok {
		return b.spin
	}
	return 0
}

func (f *fakePhysics) SetVelocity(id core.EntityID, v core.Vec2) {
	if b, ok := f.bodies[id]; ok {
		b.vel = v
	}
}

func (f *fakePhysics) SetAngularVelocity(id core.EntityID, w float64) {
	if b, ok := f.bodies[id]; ok {
		b.spin = w
	}
}

func (f *fakePhysics) ApplyImpulse(id core.EntityID, impulse core.Vec2) {
	b, ok := f.bodies[id]
	if !ok {
		return
	}
	b.impulses = append(b.impulses, impulse)
	if b.spec.Mass > 0 {
		b.vel = b.vel.Add(impulse.Scale(1 / b.spec.Mass))
	}
}

func (f *fakePhysics) SetDensity(id core.EntityID, density float64) {
	if b, ok := f.bodies[id]; ok {
		b.density = density
	}
}

func (f *fakePhysics) SetCarrier(id, carrier core.EntityID) {
	if b, ok := f.bodies[id]; ok {
		b.carrier = carrier
	}
}

func (f *fakePhysics) Step(dt float64) []Contact {
	for _, b := range f.bodies {
		if b.carrier.Valid() {
			continue
		}
		b.pos = b.pos.Add(b.vel.Scale(dt))
		b.rot += b.spin * dt
	}
	out := f.pending
	f.pending = nil
	return out
}
