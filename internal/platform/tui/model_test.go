package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/hullbreach/internal/combat"
	"github.com/vovakirdan/hullbreach/internal/config"
)

func step(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, expected Model", next)
	}
	return nm
}

func TestModelTickAdvances(t *testing.T) {
	s := newTestSession(t, "breach-drill")
	var seen uint64
	m := NewModel(s, Options{
		OnEvents: func(tick uint64, _ []combat.Event) { seen = tick },
	})

	for i := 0; i < 3; i++ {
		m = step(t, m, TickMsg{})
	}

	if got := s.World().Tick(); got != 3 {
		t.Errorf("Tick() = %d, expected 3", got)
	}
	if seen != 3 {
		t.Errorf("OnEvents last tick = %d, expected 3", seen)
	}
	if m.View() == "" {
		t.Error("View() should render while running")
	}
}

func TestModelPause(t *testing.T) {
	s := newTestSession(t, "breach-drill")
	m := NewModel(s, Options{})

	m = step(t, m, runeKey('p'))
	m = step(t, m, TickMsg{})
	if got := s.World().Tick(); got != 0 {
		t.Errorf("Tick() while paused = %d, expected 0", got)
	}

	m = step(t, m, runeKey('p'))
	step(t, m, TickMsg{})
	if got := s.World().Tick(); got != 1 {
		t.Errorf("Tick() after unpause = %d, expected 1", got)
	}
}

func TestModelToggleTakesControl(t *testing.T) {
	s := newTestSession(t, "breach-drill")
	m := NewModel(s, Options{})

	m = step(t, m, tea.KeyMsg{Type: tea.KeySpace})
	step(t, m, TickMsg{})

	a, ok := s.World().Arena().Agent(s.Player())
	if !ok {
		t.Fatal("player agent missing")
	}
	if !a.Piloting.Valid() {
		t.Error("player should pilot after toggle")
	}
}

func TestModelQuitAndBack(t *testing.T) {
	s := newTestSession(t, "breach-drill")

	m := step(t, NewModel(s, Options{}), tea.KeyMsg{Type: tea.KeyCtrlC})
	if !m.IsQuitting() {
		t.Error("ctrl+c should quit")
	}

	m = step(t, NewModel(s, Options{}), tea.KeyMsg{Type: tea.KeyEsc})
	if !m.BackToMenu() || m.IsQuitting() {
		t.Errorf("esc: BackToMenu = %v, IsQuitting = %v, expected true/false", m.BackToMenu(), m.IsQuitting())
	}
}

func TestModelResize(t *testing.T) {
	s := newTestSession(t, "breach-drill")
	m := step(t, NewModel(s, Options{}), tea.WindowSizeMsg{Width: 100, Height: 40})

	if m.canvas.Width() != 100 || m.canvas.Height() != 39 {
		t.Errorf("canvas = %dx%d, expected 100x39", m.canvas.Width(), m.canvas.Height())
	}
}

func TestSessionModelFlow(t *testing.T) {
	var sm tea.Model = NewSessionModel(nil, config.Default(), 80, 24, nil)

	sm, _ = sm.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if got := sm.(SessionModel).screen; got != screenPlay {
		t.Fatalf("screen after select = %d, expected play", got)
	}

	sm, _ = sm.Update(TickMsg{})
	sm, _ = sm.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if got := sm.(SessionModel).screen; got != screenMenu {
		t.Errorf("screen after back = %d, expected menu", got)
	}

	sm, _ = sm.Update(tea.KeyMsg{Type: tea.KeyTab})
	if got := sm.(SessionModel).screen; got != screenRuns {
		t.Errorf("screen after tab = %d, expected runs", got)
	}

	sm, _ = sm.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if got := sm.(SessionModel).screen; got != screenMenu {
		t.Errorf("screen after leaving runs = %d, expected menu", got)
	}

	_, cmd := sm.Update(runeKey('q'))
	if cmd == nil {
		t.Error("q in menu should quit")
	}
}

func TestMenuNavigation(t *testing.T) {
	m := NewMenuModel(80, 24)
	if len(m.items) < 2 {
		t.Fatalf("expected builtin scenarios, got %d", len(m.items))
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(MenuModel)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(MenuModel)

	sel := m.Selected()
	if sel == nil || sel.ID != m.items[1].ID {
		t.Errorf("Selected() = %v, expected %s", sel, m.items[1].ID)
	}
}
