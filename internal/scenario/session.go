package scenario

import (
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/hullbreach/internal/combat"
	"github.com/vovakirdan/hullbreach/internal/config"
	"github.com/vovakirdan/hullbreach/internal/core"
	"github.com/vovakirdan/hullbreach/internal/damage"
	"github.com/vovakirdan/hullbreach/internal/layout"
	"github.com/vovakirdan/hullbreach/internal/physics"
	"github.com/vovakirdan/hullbreach/internal/storage"
	"github.com/vovakirdan/hullbreach/internal/structure"
)

// End reasons recorded for finished runs.
const (
	EndCrippled  = "crippled"
	EndTickLimit = "tick_limit"
	EndQuit      = "quit"
)

// Stats accumulates what happened during a session.
type Stats struct {
	Ticks         uint64
	Destroyed     int
	Damaged       int
	Detached      int
	Depressurized int
	CannonShots   int
	GunnerShots   int
	ControlEvents int
}

// Session runs one scenario document.
type Session struct {
	doc    layout.Document
	cfg    config.Config
	world  *combat.World
	space  *physics.Space
	logger *log.Logger
	rng    *rand.Rand
	seed   int64

	escalation *config.Escalation
	structures map[string]core.EntityID
	agents     []core.EntityID
	names      map[core.EntityID]string
	gunners    []*gunner

	elapsed float64
	stats   Stats
}

// gunner is a fixed emplacement firing at a structure on a timer.
type gunner struct {
	spec   layout.GunnerSpec
	kind   damage.ProjectileKind
	target core.EntityID
	next   float64 // Session time of the next shot
}

// Option configures a Session.
type Option func(*Session)

// WithLogger sets the logger used by the session and its world.
func WithLogger(l *log.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSeed fixes the gunnery RNG seed. Zero uses the current time.
func WithSeed(seed int64) Option {
	return func(s *Session) {
		s.seed = seed
	}
}

// New builds a session from a document. The document is validated first;
// layout failures are returned as *layout.StructureError.
func New(doc layout.Document, cfg config.Config, opts ...Option) (*Session, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	table, err := cfg.Table()
	if err != nil {
		return nil, err
	}
	tuning, err := cfg.Tuning()
	if err != nil {
		return nil, err
	}

	s := &Session{
		doc:        doc,
		cfg:        cfg,
		logger:     log.New(io.Discard),
		seed:       cfg.Sim.Seed,
		escalation: config.NewEscalation(cfg.Gunnery),
		structures: make(map[string]core.EntityID),
		names:      make(map[core.EntityID]string),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.seed == 0 {
		s.seed = time.Now().UnixNano()
	}
	s.rng = rand.New(rand.NewPCG(uint64(s.seed), uint64(s.seed)>>1|1))

	s.space = physics.NewSpace(cfg.PhysicsOptions())
	s.world = combat.NewWorld(s.space,
		combat.WithLogger(s.logger),
		combat.WithTable(table),
		combat.WithTuning(tuning),
	)

	for _, spec := range doc.Structures {
		bp, err := spec.Blueprint()
		if err != nil {
			return nil, &layout.StructureError{Structure: spec.Name, Err: err}
		}
		id := s.world.SpawnStructure(spec.Name, bp, spec.Position.Vec(), spec.Rotation)
		s.structures[spec.Name] = id
		s.names[id] = spec.Name
	}

	for _, spec := range doc.Agents {
		pos, err := s.agentPosition(spec)
		if err != nil {
			return nil, err
		}
		id := s.world.SpawnAgent(spec.Name, pos)
		s.agents = append(s.agents, id)
		s.names[id] = spec.Name
	}

	for _, spec := range doc.Gunners {
		kind, err := spec.Kind()
		if err != nil {
			return nil, fmt.Errorf("scenario: gunner %q: %w", spec.Name, err)
		}
		s.gunners = append(s.gunners, &gunner{
			spec:   spec,
			kind:   kind,
			target: s.structures[spec.Target],
			next:   spec.Start,
		})
	}

	s.logger.Info("session started",
		"scenario", doc.ID, "structures", len(s.structures),
		"agents", len(s.agents), "gunners", len(s.gunners), "seed", s.seed)
	return s, nil
}

// agentPosition resolves where an agent spawns: aboard a structure's first
// command center, or at its explicit position.
func (s *Session) agentPosition(spec layout.AgentSpec) (core.Vec2, error) {
	if spec.Board == "" {
		return spec.Position.Vec(), nil
	}
	sid := s.structures[spec.Board]
	st, ok := s.world.Arena().Structure(sid)
	if !ok {
		return core.Vec2{}, fmt.Errorf("scenario: agent %q boards unknown structure %q", spec.Name, spec.Board)
	}
	for _, m := range s.world.Arena().ModulesOf(sid) {
		if m.Type != structure.ModuleCommandCenter {
			continue
		}
		if pos, ok := st.Frame.CellCenterWorld(m.At); ok {
			return pos, nil
		}
	}
	if spec.Position != nil {
		return spec.Position.Vec(), nil
	}
	return st.Frame.Position, nil
}

// Document returns the scenario document.
func (s *Session) Document() layout.Document {
	return s.doc
}

// World returns the combat world.
func (s *Session) World() *combat.World {
	return s.world
}

// Space returns the physics space.
func (s *Session) Space() *physics.Space {
	return s.space
}

// Seed returns the gunnery RNG seed in use.
func (s *Session) Seed() int64 {
	return s.seed
}

// Dt returns the fixed tick duration.
func (s *Session) Dt() float64 {
	if s.cfg.Sim.TickRate <= 0 {
		return 1.0 / 60.0
	}
	return 1.0 / float64(s.cfg.Sim.TickRate)
}

// Stats returns the accumulated statistics.
func (s *Session) Stats() Stats {
	return s.stats
}

// Agents returns the agent ids in document order.
func (s *Session) Agents() []core.EntityID {
	return append([]core.EntityID(nil), s.agents...)
}

// Player returns the first agent, or core.NoEntity.
func (s *Session) Player() core.EntityID {
	if len(s.agents) == 0 {
		return core.NoEntity
	}
	return s.agents[0]
}

// StructureID returns the id of a named structure.
func (s *Session) StructureID(name string) (core.EntityID, bool) {
	id, ok := s.structures[name]
	return id, ok
}

// Name returns the document name of a structure or agent.
func (s *Session) Name(id core.EntityID) string {
	if name, ok := s.names[id]; ok {
		return name
	}
	return id.String()
}

// Step queues inputs, fires due gunners and advances the world one tick.
func (s *Session) Step(inputs map[core.EntityID]core.InputFrame) []combat.Event {
	dt := s.Dt()
	for id, in := range inputs {
		s.world.SetInput(id, in)
	}

	s.fireGunners()

	events := s.world.Step(dt)
	s.elapsed += dt
	s.stats.Ticks = s.world.Tick()
	s.tally(events)
	return events
}

// fireGunners spawns one round for every gunner whose timer elapsed.
func (s *Session) fireGunners() {
	tuning := s.world.Tuning()
	ticks := int(s.world.Tick())

	for _, g := range s.gunners {
		if s.elapsed < g.next {
			continue
		}

		interval := g.spec.Interval
		if interval <= 0 {
			interval = 1
		}
		g.next = s.elapsed + s.escalation.Interval(interval, s.stats.Destroyed, ticks)

		aim, ok := s.aimPoint(g.target)
		if !ok {
			continue
		}
		from := g.spec.Position.Vec()
		dir := aim.Sub(from).Normalize()
		if dir.IsZero() {
			continue
		}

		speed := g.spec.Speed
		if speed <= 0 {
			speed = tuning.ProjectileSpeed
		}
		speed = s.escalation.Speed(speed, s.stats.Destroyed, ticks)

		id := s.world.SpawnProjectile(g.kind, from, dir.Scale(speed), core.NoEntity)
		s.stats.GunnerShots++
		s.logger.Debug("gunner fired",
			"gunner", g.spec.Name, "projectile", id, "target", g.spec.Target, "speed", speed)
	}
}

// aimPoint picks a random live module of the target and returns its
// world position.
func (s *Session) aimPoint(target core.EntityID) (core.Vec2, bool) {
	st, ok := s.world.Arena().Structure(target)
	if !ok {
		return core.Vec2{}, false
	}
	var live []*combat.Module
	for _, m := range s.world.Arena().ModulesOf(target) {
		if m.Alive() {
			live = append(live, m)
		}
	}
	if len(live) == 0 {
		return core.Vec2{}, false
	}
	m := live[s.rng.IntN(len(live))]
	return st.Frame.CellCenterWorld(m.At)
}

func (s *Session) tally(events []combat.Event) {
	for _, e := range events {
		switch e.(type) {
		case combat.ModuleDestroyed:
			s.stats.Destroyed++
		case combat.ModuleDamaged:
			s.stats.Damaged++
		case combat.ModuleDetached:
			s.stats.Detached++
		case combat.StructureDepressurized:
			s.stats.Depressurized++
		case combat.ProjectileFired:
			s.stats.CannonShots++
		case combat.ControlTaken, combat.ControlReleased:
			s.stats.ControlEvents++
		}
	}
}

// Crippled reports whether a structure has lost every attached command
// center.
func (s *Session) Crippled(id core.EntityID) bool {
	for _, m := range s.world.Arena().ModulesOf(id) {
		if m.Type == structure.ModuleCommandCenter && m.Alive() {
			return false
		}
	}
	return true
}

// Over reports whether every structure targeted by a gunner is crippled.
// Scenarios without gunners never end on their own.
func (s *Session) Over() bool {
	if len(s.gunners) == 0 {
		return false
	}
	for _, g := range s.gunners {
		if !s.Crippled(g.target) {
			return false
		}
	}
	return true
}

// Run steps the session without input until it is over or maxTicks ticks
// have run. Each tick's events are passed to observe when it is non-nil.
// A non-positive maxTicks runs until the session is over, which never
// happens without gunners, so such sessions return at once.
func (s *Session) Run(maxTicks int, observe func(tick uint64, events []combat.Event)) string {
	if maxTicks <= 0 && len(s.gunners) == 0 {
		return EndTickLimit
	}
	for i := 0; maxTicks <= 0 || i < maxTicks; i++ {
		events := s.Step(nil)
		if observe != nil {
			observe(s.world.Tick(), events)
		}
		if s.Over() {
			s.logger.Info("session over", "scenario", s.doc.ID, "tick", s.world.Tick(), "reason", EndCrippled)
			return EndCrippled
		}
	}
	return EndTickLimit
}

// Record summarizes the session as a run history entry.
func (s *Session) Record(reason string, elapsed time.Duration) storage.Run {
	return storage.Run{
		ScenarioID:    s.doc.ID,
		Seed:          s.seed,
		Ticks:         int64(s.stats.Ticks),
		Destroyed:     s.stats.Destroyed,
		Damaged:       s.stats.Damaged,
		Detached:      s.stats.Detached,
		Depressurized: s.stats.Depressurized,
		CannonShots:   s.stats.CannonShots,
		GunnerShots:   s.stats.GunnerShots,
		EndReason:     reason,
		DurationMs:    elapsed.Milliseconds(),
	}
}
