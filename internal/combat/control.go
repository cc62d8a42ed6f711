package combat

import (
	"github.com/vovakirdan/hullbreach/internal/core"
	"github.com/vovakirdan/hullbreach/internal/structure"
)

// commandCenterAt returns the attached command center under the agent, if any.
func (w *World) commandCenterAt(agent core.EntityID) (*Structure, *Module, bool) {
	pos, ok := w.phys.Position(agent)
	if !ok {
		return nil, nil, false
	}
	for _, sid := range w.arena.StructureIDs() {
		s := w.arena.structures[sid]
		c, ok := s.Frame.WorldToGrid(pos)
		if !ok {
			continue
		}
		m, ok := w.arena.modules[s.Frame.Grid.OccupantAt(c)]
		if ok && m.Attached() && m.Type == structure.ModuleCommandCenter {
			return s, m, true
		}
	}
	return nil, nil, false
}

// ToggleControl handles the take/release control action of an agent.
//
// An agent piloting a structure releases it. Otherwise, an agent standing
// in a command center cell takes control if nobody holds it. Any other
// case is a no-op. Returns true if control changed hands.
func (w *World) ToggleControl(agent core.EntityID) bool {
	a, ok := w.arena.agents[agent]
	if !ok {
		return false
	}

	if a.Piloting.Valid() {
		for _, m := range w.arena.ModulesOf(a.Piloting) {
			if m.Type == structure.ModuleCommandCenter && m.Controller == agent {
				w.releaseModule(m, ReleaseVoluntary)
				return true
			}
		}
		// Command center is gone; the structure release already happened.
		a.Piloting = core.NoEntity
		return false
	}

	s, m, ok := w.commandCenterAt(agent)
	if !ok || m.Controller.Valid() || s.Pilot.Valid() {
		return false
	}

	m.Controller = agent
	s.Pilot = agent
	a.Piloting = s.ID
	w.phys.SetVelocity(agent, core.Vec2{})
	w.phys.SetCarrier(agent, s.ID)

	w.events.Push(ControlTaken{Agent: agent, Structure: s.ID, Module: m.ID})
	w.logger.Info("control taken", "agent", agent, "structure", s.ID)
	return true
}

// releaseModule clears the controller of a command center and frees the agent.
func (w *World) releaseModule(m *Module, reason string) {
	agent := m.Controller
	if !agent.Valid() {
		return
	}
	m.Controller = core.NoEntity
	if s, ok := w.arena.structures[m.Structure]; ok && s.Pilot == agent {
		s.Pilot = core.NoEntity
	}
	if a, ok := w.arena.agents[agent]; ok {
		a.Piloting = core.NoEntity
		w.phys.SetCarrier(agent, core.NoEntity)
	}

	w.events.Push(ControlReleased{Agent: agent, Structure: m.Structure, Module: m.ID, Reason: reason})
	w.logger.Info("control released", "agent", agent, "structure", m.Structure, "reason", reason)
}

// Controller returns the agent piloting a structure, if any.
func (w *World) Controller(structureID core.EntityID) core.EntityID {
	s, ok := w.arena.structures[structureID]
	if !ok {
		return core.NoEntity
	}
	return s.Pilot
}
