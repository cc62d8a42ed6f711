package physics

import (
	"math"
	"sort"

	"github.com/vovakirdan/hullbreach/internal/combat"
	"github.com/vovakirdan/hullbreach/internal/core"
	"github.com/vovakirdan/hullbreach/internal/structure"
)

// Options tune the stand-in engine.
type Options struct {
	// SampleStep is the distance between collision samples along a
	// projectile's path. Smaller values catch thinner targets.
	SampleStep float64

	// FreeBodyDamping slows detached modules by this fraction per second.
	FreeBodyDamping float64
}

// DefaultOptions returns the default engine settings.
func DefaultOptions() Options {
	return Options{
		SampleStep:      5,
		FreeBodyDamping: 0.5,
	}
}

// Space holds every body and steps them together.
type Space struct {
	opts   Options
	bodies map[core.EntityID]*Body
}

var _ combat.Physics = (*Space)(nil)

// NewSpace creates an empty space.
func NewSpace(opts Options) *Space {
	if opts.SampleStep <= 0 {
		opts.SampleStep = DefaultOptions().SampleStep
	}
	return &Space{
		opts:   opts,
		bodies: make(map[core.EntityID]*Body),
	}
}

// Body returns the body with the given id.
func (s *Space) Body(id core.EntityID) (*Body, bool) {
	b, ok := s.bodies[id]
	return b, ok
}

// Len returns the number of bodies.
func (s *Space) Len() int {
	return len(s.bodies)
}

// Spawn adds a body. An existing body with the same id is replaced.
func (s *Space) Spawn(spec combat.BodySpec) {
	s.bodies[spec.ID] = &Body{
		ID:     spec.ID,
		Kind:   spec.Kind,
		Pos:    spec.Position,
		Vel:    spec.Velocity,
		Rot:    spec.Rotation,
		Mass:   spec.Mass,
		Radius: spec.Radius,
		Frame:  spec.Frame,
		Owner:  spec.Owner,
	}
}

// Despawn removes a body. Bodies it was carrying are dropped in place.
func (s *Space) Despawn(id core.EntityID) {
	delete(s.bodies, id)
	for _, b := range s.bodies {
		if b.carrier == id {
			b.carrier = core.NoEntity
		}
	}
}

func (s *Space) Position(id core.EntityID) (core.Vec2, bool) {
	b, ok := s.bodies[id]
	if !ok {
		return core.Vec2{}, false
	}
	return b.Pos, true
}

func (s *Space) Rotation(id core.EntityID) float64 {
	if b, ok := s.bodies[id]; ok {
		return b.Rot
	}
	return 0
}

func (s *Space) Velocity(id core.EntityID) core.Vec2 {
	if b, ok := s.bodies[id]; ok {
		return b.Vel
	}
	return core.Vec2{}
}

func (s *Space) AngularVelocity(id core.EntityID) float64 {
	if b, ok := s.bodies[id]; ok {
		return b.Spin
	}
	return 0
}

func (s *Space) SetVelocity(id core.EntityID, v core.Vec2) {
	if b, ok := s.bodies[id]; ok && !b.Carried() {
		b.Vel = v
	}
}

func (s *Space) SetAngularVelocity(id core.EntityID, w float64) {
	if b, ok := s.bodies[id]; ok && !b.Carried() {
		b.Spin = w
	}
}

func (s *Space) ApplyImpulse(id core.EntityID, impulse core.Vec2) {
	if b, ok := s.bodies[id]; ok && !b.Carried() {
		ApplyImpulse(b, impulse)
	}
}

// SetDensity uses the aggregate density directly as the body mass.
func (s *Space) SetDensity(id core.EntityID, density float64) {
	if b, ok := s.bodies[id]; ok {
		b.Mass = density
	}
}

// SetCarrier makes id ride on carrier, keeping its current offset in the
// carrier's local frame. Passing core.NoEntity releases it.
func (s *Space) SetCarrier(id, carrier core.EntityID) {
	b, ok := s.bodies[id]
	if !ok {
		return
	}
	c, ok := s.bodies[carrier]
	if !ok || carrier == id {
		if b.Carried() {
			b.Vel = core.Vec2{}
		}
		b.carrier = core.NoEntity
		return
	}
	b.carrier = carrier
	b.offset = b.Pos.Sub(c.Pos).Rotate(-c.Rot)
	b.relative = b.Rot - c.Rot
}

// Step integrates every free body, moves cargo with its carrier and
// returns projectile contacts in ascending projectile id order.
func (s *Space) Step(dt float64) []combat.Contact {
	ids := s.ids()
	prev := make(map[core.EntityID]core.Vec2, len(ids))

	for _, id := range ids {
		b := s.bodies[id]
		if b.Carried() {
			continue
		}
		prev[id] = b.Pos
		if b.Kind == combat.KindModule {
			Damp(b, s.opts.FreeBodyDamping, dt)
		}
		Integrate(b, dt)
	}
	for _, id := range ids {
		b := s.bodies[id]
		if c, ok := s.bodies[b.carrier]; ok && b.Carried() {
			b.follow(c)
		}
	}

	contacts := make([]combat.Contact, 0)
	for _, id := range ids {
		b := s.bodies[id]
		if b.Kind != combat.KindProjectile {
			continue
		}
		if target, ok := s.sweep(b, prev[id], ids); ok {
			contacts = append(contacts, combat.Contact{A: b.ID, B: target})
		}
	}
	return contacts
}

// sweep samples the projectile path from 'from' to its current position and
// returns the first module touched.
func (s *Space) sweep(p *Body, from core.Vec2, ids []core.EntityID) (core.EntityID, bool) {
	path := p.Pos.Sub(from)
	n := int(math.Ceil(path.Len() / s.opts.SampleStep))
	if n < 1 {
		n = 1
	}
	if n > 4096 {
		n = 4096
	}
	for i := 0; i <= n; i++ {
		at := from.Add(path.Scale(float64(i) / float64(n)))
		if id, ok := s.touch(p, at, ids); ok {
			return id, true
		}
	}
	return core.NoEntity, false
}

// touch returns the module under point at: either an occupied grid cell of
// a structure other than the projectile's owner, or a free module whose
// circle overlaps the projectile. Structure grids are placed with the body
// transform of this step, not the frame, which the world syncs afterwards.
func (s *Space) touch(p *Body, at core.Vec2, ids []core.EntityID) (core.EntityID, bool) {
	for _, id := range ids {
		b := s.bodies[id]
		switch b.Kind {
		case combat.KindStructure:
			if b.Frame == nil || b.ID == p.Owner {
				continue
			}
			c, ok := b.Frame.Grid.LocalToGrid(at.Sub(b.Pos).Rotate(-b.Rot))
			if !ok {
				continue
			}
			cell, _ := b.Frame.Grid.Get(c)
			if cell.Type == structure.CellModule {
				return cell.Occupant, true
			}
		case combat.KindModule:
			r := b.Radius + p.Radius
			if at.Sub(b.Pos).LenSq() <= r*r {
				return b.ID, true
			}
		}
	}
	return core.NoEntity, false
}

func (s *Space) ids() []core.EntityID {
	ids := make([]core.EntityID, 0, len(s.bodies))
	for id := range s.bodies {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
