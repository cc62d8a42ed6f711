package combat

import (
	"github.com/vovakirdan/hullbreach/internal/core"
	"github.com/vovakirdan/hullbreach/internal/damage"
	"github.com/vovakirdan/hullbreach/internal/structure"
)

// classify picks the projectile and module out of a contact pair.
// Any other combination reports false.
func (w *World) classify(c Contact) (*Projectile, *Module, bool) {
	if p, ok := w.arena.projectiles[c.A]; ok {
		if m, ok := w.arena.modules[c.B]; ok {
			return p, m, true
		}
		return nil, nil, false
	}
	if p, ok := w.arena.projectiles[c.B]; ok {
		if m, ok := w.arena.modules[c.A]; ok {
			return p, m, true
		}
	}
	return nil, nil, false
}

// damagePhase resolves every projectile/module contact. A projectile is
// consumed by its first module hit; hits on modules destroyed earlier in
// the tick are ignored.
func (w *World) damagePhase(contacts []Contact) {
	for _, c := range contacts {
		p, m, ok := w.classify(c)
		if !ok || p.Consumed || m.Destroyed {
			continue
		}
		speed := w.phys.Velocity(p.ID).Len()
		w.removeProjectile(p)
		w.hit(m, p.Mass, speed, p.Kind)
	}
}

// applyHit resolves a single impact against a module outside of the
// physics feed. It returns the outcome, or false if the module does not
// exist or is already destroyed. A destruction is only re-analysed by the
// connectivity phase of the next Step.
func (w *World) applyHit(module core.EntityID, mass, speed float64, kind damage.ProjectileKind) (damage.Outcome, bool) {
	m, ok := w.arena.modules[module]
	if !ok || m.Destroyed {
		return damage.Outcome{}, false
	}
	return w.hit(m, mass, speed, kind), true
}

func (w *World) hit(m *Module, mass, speed float64, kind damage.ProjectileKind) damage.Outcome {
	out := w.table.Resolve(damage.Hit{
		Mass:       mass,
		Speed:      speed,
		Projectile: kind,
		Target:     m.Material,
		Points:     m.Points,
	})
	m.Points = out.Remaining
	if out.Destroyed {
		w.destroyModule(m)
		return out
	}
	w.logger.Debug("module hit", "module", m.ID, "damage", out.Damage, "remaining", out.Remaining)
	w.events.Push(ModuleDamaged{Module: m.ID, Amount: out.Damage, Remaining: out.Remaining})
	return out
}

// destroyModule marks m destroyed. An attached module's cell becomes Empty
// in the same call; the connectivity phase picks it up from the queue.
func (w *World) destroyModule(m *Module) {
	m.Destroyed = true
	w.events.Push(ModuleDestroyed{Module: m.ID, Structure: m.Structure, At: m.At})
	w.logger.Info("module destroyed", "module", m.ID, "type", m.Type, "structure", m.Structure, "at", m.At)

	if m.Detached {
		w.phys.Despawn(m.ID)
		return
	}

	if s, ok := w.arena.structures[m.Structure]; ok {
		s.Frame.Grid.SetEmpty(m.At)
		w.destroyed.Push(destruction{structure: s.ID, module: m.ID, at: m.At})
	}
	if m.Type == structure.ModuleCommandCenter {
		w.releaseModule(m, ReleaseDestroyed)
	}
}

// connectivityPhase re-runs the analyzer for every structure that lost a
// module this tick. Every module that newly touches exposed space is
// detached and vacated, and the analyzer runs again on the settled grid.
// Depressurization is reported when the settled grid exposes cells that
// were sealed before the loss.
// The free bodies are spawned by forcePhase.
func (w *World) connectivityPhase() {
	vacated := make(map[core.EntityID][]structure.Coord)
	order := make([]core.EntityID, 0)
	for _, d := range w.destroyed.Drain() {
		if _, seen := vacated[d.structure]; !seen {
			order = append(order, d.structure)
		}
		vacated[d.structure] = append(vacated[d.structure], d.at)
	}

	for _, sid := range order {
		s := w.arena.structures[sid]
		breach := s.Frame.Reanalyze()

		victims := breach.NewlyExposedModules(s.Frame.Grid)
		for _, at := range victims {
			id := s.Frame.Grid.OccupantAt(at)
			pos, _ := s.Frame.CellCenterWorld(at)
			w.detached.Push(detachment{structure: sid, module: id, at: at, world: pos})
		}
		for _, at := range victims {
			w.arena.modules[s.Frame.Grid.OccupantAt(at)].Detached = true
			s.Frame.Grid.SetEmpty(at)
		}
		if len(victims) > 0 {
			settled := s.Frame.Reanalyze()
			breach.After = settled.After
		}

		vacatedAll := append(append([]structure.Coord(nil), vacated[sid]...), victims...)
		if breach.Depressurized(vacatedAll...) {
			s.Depressurized = true
			w.events.Push(StructureDepressurized{Structure: sid})
			w.logger.Info("structure depressurized", "structure", sid, "opened", len(breach.Opened(vacatedAll...)))
		}
		w.updateDensity(s)
	}
}

// forcePhase turns detached modules into free bodies with an outward
// impulse along the vector from the structure centre to the module.
func (w *World) forcePhase() {
	for _, d := range w.detached.Drain() {
		m := w.arena.modules[d.module]
		s := w.arena.structures[d.structure]

		dir := d.world.Sub(s.Frame.Position).Normalize()
		if dir.IsZero() {
			dir = s.Frame.Forward()
		}
		impulse := dir.Scale(w.tuning.BreachImpulse)

		w.phys.Spawn(BodySpec{
			ID:       m.ID,
			Kind:     KindModule,
			Position: d.world,
			Rotation: s.Frame.Rotation,
			Velocity: w.phys.Velocity(s.ID),
			Mass:     w.tuning.DetachedMass,
			Radius:   w.tuning.CellSize / 2,
		})
		w.phys.ApplyImpulse(m.ID, impulse)

		w.events.Push(ModuleDetached{Module: m.ID, Structure: s.ID, At: d.at, Impulse: impulse})
		w.logger.Info("module detached", "module", m.ID, "type", m.Type, "structure", s.ID, "at", d.at)

		if m.Type == structure.ModuleCommandCenter {
			w.releaseModule(m, ReleaseDetached)
		}
	}
}

func (w *World) updateDensity(s *Structure) {
	d := w.density(s.ID)
	if d == s.Frame.Density {
		return
	}
	s.Frame.Density = d
	w.phys.SetDensity(s.ID, d)
}
