package combat

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hullbreach/internal/core"
	"github.com/vovakirdan/hullbreach/internal/damage"
	"github.com/vovakirdan/hullbreach/internal/structure"
)

// World drives the simulation one fixed tick at a time.
//
// Each Step runs the phases in a fixed order: movement, collision detection
// (physics step), damage, connectivity, force application. Phases talk
// through queues that are fully drained before Step returns.
type World struct {
	arena  *Arena
	phys   Physics
	table  *damage.Table
	tuning Tuning
	logger *log.Logger

	tick   uint64
	inputs map[core.EntityID]core.InputFrame

	events    Queue[Event]
	destroyed Queue[destruction]
	detached  Queue[detachment]
}

// destruction records a module removed from a structure grid this tick.
type destruction struct {
	structure core.EntityID
	module    core.EntityID
	at        structure.Coord
}

// detachment records a module torn off by a breach, pending its impulse.
type detachment struct {
	structure core.EntityID
	module    core.EntityID
	at        structure.Coord
	world     core.Vec2 // Cell centre in world space at the time of the breach
}

// Option configures a World.
type Option func(*World)

// WithLogger sets the logger. Defaults to a discarding logger.
func WithLogger(l *log.Logger) Option {
	return func(w *World) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithTable sets the material property table.
func WithTable(t *damage.Table) Option {
	return func(w *World) {
		if t != nil {
			w.table = t
		}
	}
}

// WithTuning sets the simulation constants.
func WithTuning(t Tuning) Option {
	return func(w *World) {
		w.tuning = t
	}
}

// NewWorld creates an empty world backed by the given physics adapter.
func NewWorld(phys Physics, opts ...Option) *World {
	w := &World{
		arena:  NewArena(),
		phys:   phys,
		table:  damage.DefaultTable(),
		tuning: DefaultTuning(),
		logger: log.New(io.Discard),
		inputs: make(map[core.EntityID]core.InputFrame),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Arena returns the record store. Callers must treat it as read-only.
func (w *World) Arena() *Arena {
	return w.arena
}

// Tick returns the number of completed steps.
func (w *World) Tick() uint64 {
	return w.tick
}

// Tuning returns the active simulation constants.
func (w *World) Tuning() Tuning {
	return w.tuning
}

// Table returns the material property table.
func (w *World) Table() *damage.Table {
	return w.table
}

// Physics returns the physics adapter.
func (w *World) Physics() Physics {
	return w.phys
}

// BuildStructure parses layout rows and spawns the structure they describe.
// A malformed layout is returned as a *structure.LayoutError and nothing
// is spawned.
func (w *World) BuildStructure(name string, rows []string, pos core.Vec2, rotation float64) (core.EntityID, error) {
	bp, err := structure.ParseLayout(rows)
	if err != nil {
		return core.NoEntity, err
	}
	return w.SpawnStructure(name, bp, pos, rotation), nil
}

// SpawnStructure creates a structure and its modules from a blueprint, runs
// the connectivity analyzer once and registers the body with physics.
func (w *World) SpawnStructure(name string, bp structure.Blueprint, pos core.Vec2, rotation float64) core.EntityID {
	g := structure.NewGrid(bp.Width, bp.Height, w.tuning.CellSize)
	s := &Structure{
		ID:   w.arena.allocate(),
		Name: name,
	}

	for _, p := range bp.Placements {
		spec := w.tuning.moduleSpec(p.Type)
		m := &Module{
			ID:        w.arena.allocate(),
			Type:      p.Type,
			Material:  spec.Material,
			Points:    spec.Points,
			MaxPoints: spec.Points,
			At:        p.At,
			Structure: s.ID,
		}
		w.arena.modules[m.ID] = m
		g.InsertModule(p.At, m.ID)
	}

	s.Frame = structure.NewFrame(g, pos, rotation, 0)
	w.arena.structures[s.ID] = s
	s.Frame.Density = w.density(s.ID)

	w.phys.Spawn(BodySpec{
		ID:       s.ID,
		Kind:     KindStructure,
		Position: pos,
		Rotation: rotation,
		Mass:     s.Frame.Density,
		Frame:    s.Frame,
	})

	w.logger.Debug("structure spawned",
		"structure", s.ID, "name", name,
		"size", g.W*g.H, "modules", len(bp.Placements),
		"exposed", s.Frame.Exposed().Len())
	return s.ID
}

// SpawnAgent creates an agent body at pos.
func (w *World) SpawnAgent(name string, pos core.Vec2) core.EntityID {
	a := &Agent{ID: w.arena.allocate(), Name: name}
	w.arena.agents[a.ID] = a
	w.phys.Spawn(BodySpec{
		ID:       a.ID,
		Kind:     KindAgent,
		Position: pos,
		Mass:     1,
		Radius:   w.tuning.AgentRadius,
	})
	return a.ID
}

// SpawnProjectile creates a round of the given kind at pos moving at vel.
// owner may be core.NoEntity for rounds not fired by a structure.
func (w *World) SpawnProjectile(kind damage.ProjectileKind, pos, vel core.Vec2, owner core.EntityID) core.EntityID {
	round := w.table.NewRound(kind)
	p := &Projectile{
		ID:       w.arena.allocate(),
		Kind:     kind,
		Mass:     round.Mass,
		Size:     round.Diameter,
		Lifetime: w.tuning.ProjectileLifetime,
		Owner:    owner,
	}
	w.arena.projectiles[p.ID] = p
	w.phys.Spawn(BodySpec{
		ID:       p.ID,
		Kind:     KindProjectile,
		Position: pos,
		Velocity: vel,
		Mass:     round.Mass,
		Radius:   round.Diameter / 2,
		Owner:    owner,
	})
	return p.ID
}

// SetInput queues the input of an agent for the next Step.
func (w *World) SetInput(agent core.EntityID, in core.InputFrame) {
	w.inputs[agent] = in.Clone()
}

// Step advances the simulation by dt seconds and returns the events
// emitted during the tick in emission order.
func (w *World) Step(dt float64) []Event {
	w.tick++

	w.syncFrames()
	w.movementPhase(dt)

	contacts := w.phys.Step(dt)
	w.syncFrames()
	w.trackAgents()

	w.damagePhase(contacts)
	w.expireProjectiles(dt)
	w.connectivityPhase()
	w.forcePhase()

	for id := range w.inputs {
		delete(w.inputs, id)
	}
	return w.events.Drain()
}

// syncFrames copies body transforms from physics into structure frames so
// every conversion in the tick uses the latest known transform.
func (w *World) syncFrames() {
	for _, id := range w.arena.StructureIDs() {
		s := w.arena.structures[id]
		pos, ok := w.phys.Position(id)
		if !ok {
			continue
		}
		s.Frame.SetTransform(pos, w.phys.Rotation(id))
	}
}

// density returns the sum of material densities of a structure's attached modules.
func (w *World) density(structureID core.EntityID) float64 {
	var total float64
	for _, m := range w.arena.ModulesOf(structureID) {
		total += w.table.Material(m.Material).Density
	}
	return total
}

// hasLive reports whether a structure still owns an attached module of type t.
func (w *World) hasLive(structureID core.EntityID, t structure.ModuleType) bool {
	for _, m := range w.arena.ModulesOf(structureID) {
		if m.Type == t {
			return true
		}
	}
	return false
}

// trackAgents emits AgentEntered/AgentExited when an agent crosses a
// structure's bounds. The lowest structure id wins when bounds overlap.
func (w *World) trackAgents() {
	for _, id := range w.arena.AgentIDs() {
		a := w.arena.agents[id]
		pos, ok := w.phys.Position(id)
		if !ok {
			continue
		}
		inside := core.NoEntity
		for _, sid := range w.arena.StructureIDs() {
			if w.arena.structures[sid].Frame.ContainsWorld(pos) {
				inside = sid
				break
			}
		}
		if inside == a.Inside {
			continue
		}
		if a.Inside.Valid() {
			w.events.Push(AgentExited{Agent: id, Structure: a.Inside})
		}
		if inside.Valid() {
			w.events.Push(AgentEntered{Agent: id, Structure: inside})
		}
		a.Inside = inside
	}
}

// expireProjectiles counts down lifetimes and despawns expired rounds.
func (w *World) expireProjectiles(dt float64) {
	for _, id := range w.arena.ProjectileIDs() {
		p := w.arena.projectiles[id]
		p.Lifetime -= dt
		if p.Lifetime <= 0 {
			w.removeProjectile(p)
		}
	}
}

func (w *World) removeProjectile(p *Projectile) {
	p.Consumed = true
	w.phys.Despawn(p.ID)
	w.arena.removeProjectile(p.ID)
}
