package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/hullbreach/internal/core"
)

// PilotKeyMap defines the key bindings of the play view.
type PilotKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	RotateLeft  key.Binding
	RotateRight key.Binding
	Toggle      key.Binding
	Fire        key.Binding
	Brake       key.Binding
	Pause       key.Binding
	Help        key.Binding
	Back        key.Binding
	Quit        key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PilotKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Fire, k.Brake, k.Pause, k.Help, k.Back}
}

// FullHelp returns key bindings for the full help view.
func (k PilotKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.RotateLeft, k.RotateRight, k.Brake},
		{k.Toggle, k.Fire},
		{k.Pause, k.Help, k.Back, k.Quit},
	}
}

// DefaultPilotKeyMap returns default key bindings.
func DefaultPilotKeyMap() PilotKeyMap {
	return PilotKeyMap{
		Up: key.NewBinding(
			key.WithKeys("w", "up"),
			key.WithHelp("w/up", "thrust up"),
		),
		Down: key.NewBinding(
			key.WithKeys("s", "down"),
			key.WithHelp("s/down", "thrust down"),
		),
		Left: key.NewBinding(
			key.WithKeys("a", "left"),
			key.WithHelp("a/left", "thrust left"),
		),
		Right: key.NewBinding(
			key.WithKeys("d", "right"),
			key.WithHelp("d/right", "thrust right"),
		),
		RotateLeft: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "rotate ccw"),
		),
		RotateRight: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "rotate cw"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "take/release helm"),
		),
		Fire: key.NewBinding(
			key.WithKeys("g", "f"),
			key.WithHelp("g", "fire"),
		),
		Brake: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "brake"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pause"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "leave"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// Apply adds the control input of a key press to frame. Returns false if
// the key is not a control key.
func (k PilotKeyMap) Apply(msg tea.KeyMsg, frame *core.InputFrame) bool {
	switch {
	case key.Matches(msg, k.Up):
		frame.AddMove(0, 1)
	case key.Matches(msg, k.Down):
		frame.AddMove(0, -1)
	case key.Matches(msg, k.Left):
		frame.AddMove(-1, 0)
	case key.Matches(msg, k.Right):
		frame.AddMove(1, 0)
	case key.Matches(msg, k.RotateLeft):
		frame.Set(core.ActionRotateLeft)
	case key.Matches(msg, k.RotateRight):
		frame.Set(core.ActionRotateRight)
	case key.Matches(msg, k.Toggle):
		frame.Set(core.ActionToggleControl)
	case key.Matches(msg, k.Fire):
		frame.Set(core.ActionFire)
	case key.Matches(msg, k.Brake):
		frame.Set(core.ActionBrake)
	default:
		return false
	}
	return true
}

// MenuKeyMap defines the key bindings of the scenario picker and run history.
type MenuKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Next   key.Binding
	Prev   key.Binding
	Select key.Binding
	Runs   key.Binding
	Back   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k MenuKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Runs, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k MenuKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Next, k.Prev},
		{k.Select, k.Runs, k.Back, k.Quit},
	}
}

// DefaultMenuKeyMap returns default key bindings.
func DefaultMenuKeyMap() MenuKeyMap {
	return MenuKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k", "w"),
			key.WithHelp("up/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j", "s"),
			key.WithHelp("down/j", "down"),
		),
		Next: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("right/l", "next scenario"),
		),
		Prev: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("left/h", "prev scenario"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select"),
		),
		Runs: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "run history"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "back"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}
