package combat

import (
	"math"

	"github.com/vovakirdan/hullbreach/internal/core"
	"github.com/vovakirdan/hullbreach/internal/structure"
)

// movementPhase consumes queued inputs. A piloting agent's input drives
// the structure body; everyone else walks.
func (w *World) movementPhase(dt float64) {
	for _, id := range w.arena.StructureIDs() {
		s := w.arena.structures[id]
		if s.cooldown > 0 {
			s.cooldown = math.Max(0, s.cooldown-dt)
		}
	}

	for _, id := range w.arena.AgentIDs() {
		in, ok := w.inputs[id]
		if !ok {
			in = core.NewInputFrame()
		}
		if in.Has(core.ActionToggleControl) {
			w.ToggleControl(id)
		}
		a := w.arena.agents[id]
		if a.Piloting.Valid() {
			w.pilot(w.arena.structures[a.Piloting], in, dt)
			continue
		}
		w.walk(id, in, dt)
	}
}

// pilot applies movement input to a structure. Thrust and rotation need at
// least one live engine; braking and firing do not.
func (w *World) pilot(s *Structure, in core.InputFrame, dt float64) {
	v := w.phys.Velocity(s.ID)
	spin := w.phys.AngularVelocity(s.ID)
	engine := w.hasLive(s.ID, structure.ModuleEngine)

	if engine && !in.Move.IsZero() {
		v = v.Add(in.Move.Normalize().Scale(w.tuning.StructureAccel * dt)).ClampLen(w.tuning.StructureMaxSpeed)
	}
	if r := in.Rotation(); engine && r != 0 {
		limit := w.tuning.MaxRotationSpeed
		spin = core.ClampF(spin+r*w.tuning.RotationAccel*dt, -limit, limit)
	}
	if in.Has(core.ActionBrake) {
		v = brakeVec(v, w.tuning.BrakeDecel*dt)
		spin = brakeScalar(spin, w.tuning.RotationAccel*dt)
	}

	w.phys.SetVelocity(s.ID, v)
	w.phys.SetAngularVelocity(s.ID, spin)

	if in.Has(core.ActionFire) {
		w.FireCannons(s.ID)
	}
}

// walk moves a free agent. Without movement input the agent slows down.
func (w *World) walk(id core.EntityID, in core.InputFrame, dt float64) {
	v := w.phys.Velocity(id)
	switch {
	case in.Has(core.ActionBrake) || in.Move.IsZero():
		v = brakeVec(v, w.tuning.AgentAccel*dt)
	default:
		v = v.Add(in.Move.Normalize().Scale(w.tuning.AgentAccel * dt)).ClampLen(w.tuning.AgentMaxSpeed)
	}
	w.phys.SetVelocity(id, v)
}

// FireCannons spawns one projectile per attached cannon of a structure,
// travelling along the structure's forward axis. Returns the number of
// rounds fired; zero while the cannons are cooling down.
func (w *World) FireCannons(structureID core.EntityID) int {
	s, ok := w.arena.structures[structureID]
	if !ok || s.cooldown > 0 {
		return 0
	}

	forward := s.Frame.Forward()
	base := w.phys.Velocity(s.ID)
	fired := 0
	for _, m := range w.arena.ModulesOf(s.ID) {
		if m.Type != structure.ModuleCannon {
			continue
		}
		at, ok := s.Frame.CellCenterWorld(m.At)
		if !ok {
			continue
		}
		pos := at.Add(forward.Scale(w.tuning.SpawnOffset))
		vel := base.Add(forward.Scale(w.tuning.ProjectileSpeed))
		pid := w.SpawnProjectile(w.tuning.ProjectileKind, pos, vel, s.ID)
		w.events.Push(ProjectileFired{Projectile: pid, Structure: s.ID, Cannon: m.ID})
		fired++
	}
	if fired > 0 {
		s.cooldown = w.tuning.FireCooldown
	}
	return fired
}

// brakeVec shortens v by amount without reversing it.
func brakeVec(v core.Vec2, amount float64) core.Vec2 {
	l := v.Len()
	if l <= amount {
		return core.Vec2{}
	}
	return v.Scale((l - amount) / l)
}

// brakeScalar moves x toward zero by amount without crossing it.
func brakeScalar(x, amount float64) float64 {
	if math.Abs(x) <= amount {
		return 0
	}
	return x - math.Copysign(amount, x)
}
