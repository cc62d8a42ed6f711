package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/hullbreach/internal/combat"
	"github.com/vovakirdan/hullbreach/internal/core"
	"github.com/vovakirdan/hullbreach/internal/scenario"
	"github.com/vovakirdan/hullbreach/internal/storage"
)

// logLines is the number of event lines kept under the world view.
const logLines = 5

// Options configures the play view.
type Options struct {
	Store    *storage.Store // Optional run history
	TickRate int
	Width    int
	Height   int

	// OnEvents, when set, receives the events of every tick.
	OnEvents func(tick uint64, events []combat.Event)

	// QuitOnBack ends the program when the player leaves the scenario.
	QuitOnBack bool
}

// Model is the Bubble Tea model for piloting a running scenario.
type Model struct {
	session *scenario.Session
	opts    Options
	canvas  *Canvas
	keys    PilotKeyMap
	help    help.Model

	frame   core.InputFrame
	log     []string
	started time.Time
	runID   string

	paused     bool
	over       bool
	saved      bool
	quitting   bool
	backToMenu bool
}

// NewModel creates a play model for a session.
func NewModel(s *scenario.Session, opts Options) Model {
	if opts.TickRate <= 0 {
		opts.TickRate = 60
	}
	if opts.Width <= 0 {
		opts.Width = 80
	}
	if opts.Height <= 0 {
		opts.Height = 24
	}
	h := help.New()
	h.Width = opts.Width

	return Model{
		session: s,
		opts:    opts,
		canvas:  NewCanvas(opts.Width, opts.Height-1),
		keys:    DefaultPilotKeyMap(),
		help:    h,
		frame:   core.NewInputFrame(),
		started: time.Now(),
	}
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.opts.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.opts.Width = msg.Width
		m.opts.Height = msg.Height
		m.canvas.Resize(msg.Width, msg.Height-1)
		m.help.Width = msg.Width
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.finish(scenario.EndQuit)
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Back):
		m.finish(scenario.EndQuit)
		m.backToMenu = true
		if m.opts.QuitOnBack {
			return m, tea.Quit
		}
		return m, nil
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		return m, nil
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	if !m.paused && !m.over {
		m.keys.Apply(msg, &m.frame)
	}
	return m, nil
}

// handleTick advances the simulation by one tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	if m.paused || m.over {
		m.frame.Clear()
		return m, tickCmd(m.opts.TickRate)
	}

	inputs := map[core.EntityID]core.InputFrame{}
	if p := m.session.Player(); p.Valid() {
		inputs[p] = m.frame.Clone()
	}
	events := m.session.Step(inputs)
	tick := m.session.World().Tick()

	if m.opts.OnEvents != nil {
		m.opts.OnEvents(tick, events)
	}
	m.record(tick, events)

	if m.session.Over() {
		m.over = true
		m.finish(scenario.EndCrippled)
	}

	// Clear input for next frame
	m.frame.Clear()
	return m, tickCmd(m.opts.TickRate)
}

// record appends readable event lines to the log.
func (m *Model) record(tick uint64, events []combat.Event) {
	for _, e := range events {
		if _, ok := e.(combat.ModuleDamaged); ok {
			continue
		}
		m.log = append(m.log, fmt.Sprintf("[%d] %s", tick, combat.Describe(e)))
	}
	if len(m.log) > logLines {
		m.log = append([]string(nil), m.log[len(m.log)-logLines:]...)
	}
}

// finish saves the run once.
func (m *Model) finish(reason string) {
	if m.saved {
		return
	}
	m.saved = true
	if m.opts.Store == nil {
		return
	}
	id, err := m.opts.Store.SaveRun(m.session.Record(reason, time.Since(m.started)))
	if err == nil {
		m.runID = id
	}
}

// camera follows the piloted structure, else the player, else the first structure.
func (m Model) camera() Camera {
	cs := m.session.World().Tuning().CellSize
	arena := m.session.World().Arena()
	space := m.session.Space()

	if p := m.session.Player(); p.Valid() {
		if a, ok := arena.Agent(p); ok && a.Piloting.Valid() {
			if pos, ok := space.Position(a.Piloting); ok {
				return NewCamera(pos, cs)
			}
		}
		if pos, ok := space.Position(p); ok {
			return NewCamera(pos, cs)
		}
	}
	for _, sid := range arena.StructureIDs() {
		if pos, ok := space.Position(sid); ok {
			return NewCamera(pos, cs)
		}
	}
	return NewCamera(core.Vec2{}, cs)
}

// status returns the HUD line.
func (m Model) status() string {
	stats := m.session.Stats()
	parts := []string{
		m.session.Document().Title(),
		fmt.Sprintf("tick %d", stats.Ticks),
		fmt.Sprintf("destroyed %d", stats.Destroyed),
		fmt.Sprintf("detached %d", stats.Detached),
		fmt.Sprintf("breaches %d", stats.Depressurized),
	}

	if p := m.session.Player(); p.Valid() {
		if a, ok := m.session.World().Arena().Agent(p); ok {
			switch {
			case a.Piloting.Valid():
				parts = append(parts, "helm: "+m.session.Name(a.Piloting))
			case a.Inside.Valid():
				parts = append(parts, "aboard: "+m.session.Name(a.Inside))
			default:
				parts = append(parts, "adrift")
			}
		}
	}

	switch {
	case m.over:
		parts = append(parts, "CRIPPLED")
	case m.paused:
		parts = append(parts, "PAUSED")
	}
	return strings.Join(parts, " | ")
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting || m.backToMenu {
		return ""
	}

	cv := m.canvas
	cv.Clear()
	cv.Text(0, 0, m.status(), ColorWhite)

	worldH := cv.Height() - 1 - logLines
	if worldH < 1 {
		worldH = cv.Height() - 1
	}
	vp := Viewport{X: 0, Y: 1, W: cv.Width(), H: worldH}
	DrawWorld(cv, m.session, m.camera(), vp, m.session.Player())

	for i, line := range m.log {
		cv.Text(0, 1+worldH+i, line, ColorGray)
	}

	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	return RenderCanvas(cv) + "\n" + helpStyle.Render(m.help.View(m.keys))
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to leave the scenario.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// Over reports whether the scenario ended.
func (m Model) Over() bool {
	return m.over
}

// RunID returns the saved run ID, if any.
func (m Model) RunID() string {
	return m.runID
}

// Run starts the Bubble Tea program for a session.
func Run(s *scenario.Session, opts Options) (Model, error) {
	opts.QuitOnBack = true
	model := NewModel(s, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return model, err
	}
	if fm, ok := final.(Model); ok {
		return fm, nil
	}
	return model, nil
}
