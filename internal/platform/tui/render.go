package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/hullbreach/internal/combat"
	"github.com/vovakirdan/hullbreach/internal/core"
	"github.com/vovakirdan/hullbreach/internal/damage"
	"github.com/vovakirdan/hullbreach/internal/scenario"
	"github.com/vovakirdan/hullbreach/internal/structure"
)

// colorStyles maps canvas colors to lipgloss styles.
var colorStyles = map[Color]lipgloss.Style{
	ColorDefault:      lipgloss.NewStyle(),
	ColorRed:          lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	ColorGreen:        lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	ColorYellow:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	ColorBlue:         lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
	ColorCyan:         lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	ColorWhite:        lipgloss.NewStyle().Foreground(lipgloss.Color("7")),
	ColorBrightRed:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	ColorBrightGreen:  lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	ColorBrightYellow: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
	ColorBrightCyan:   lipgloss.NewStyle().Foreground(lipgloss.Color("14")),
	ColorOrange:       lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
	ColorGray:         lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
	ColorDim:          lipgloss.NewStyle().Foreground(lipgloss.Color("238")),
}

// RenderCanvas converts a canvas to a styled string for display.
// Groups adjacent cells with the same color to minimize ANSI escape sequences.
func RenderCanvas(c *Canvas) string {
	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(c.Width()*c.Height()*2 + c.Height())

	for y := range c.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		// Group consecutive cells with the same color for efficiency
		x := 0
		for x < c.Width() {
			startColor := c.Get(x, y).Color

			var run strings.Builder
			for x < c.Width() {
				cell := c.Get(x, y)
				if cell.Color != startColor {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			style, ok := colorStyles[startColor]
			if !ok {
				style = colorStyles[ColorDefault]
			}
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// Viewport is the canvas region the world is drawn into.
type Viewport struct {
	X, Y, W, H int
}

// Camera maps world positions to canvas cells. Terminal cells are roughly
// twice as tall as they are wide, so a row spans twice the world distance
// of a column.
type Camera struct {
	Center core.Vec2
	UnitsX float64 // World units per column
	UnitsY float64 // World units per row
}

// NewCamera returns a camera centred on pos for the given grid cell size.
func NewCamera(pos core.Vec2, cellSize float64) Camera {
	return Camera{Center: pos, UnitsX: cellSize / 2, UnitsY: cellSize}
}

// Project returns the canvas cell of a world position. World y grows
// upward, canvas rows grow downward.
func (c Camera) Project(p core.Vec2, vp Viewport) (int, int, bool) {
	d := p.Sub(c.Center)
	x := vp.X + vp.W/2 + int(math.Floor(d.X/c.UnitsX))
	y := vp.Y + vp.H/2 - int(math.Floor(d.Y/c.UnitsY)) - 1
	ok := x >= vp.X && x < vp.X+vp.W && y >= vp.Y && y < vp.Y+vp.H
	return x, y, ok
}

// DrawWorld draws every structure, free module, projectile and agent of a
// session. player is highlighted.
func DrawWorld(cv *Canvas, s *scenario.Session, cam Camera, vp Viewport, player core.EntityID) {
	arena := s.World().Arena()

	plot := func(p core.Vec2, r rune, color Color) {
		if x, y, ok := cam.Project(p, vp); ok {
			cv.Set(x, y, r, color)
		}
	}

	for _, sid := range arena.StructureIDs() {
		st, _ := arena.Structure(sid)
		f := st.Frame
		g := f.Grid
		quarter := g.CellSize / 4

		for y := 0; y < g.H; y++ {
			for x := 0; x < g.W; x++ {
				c := structure.C(x, y)
				center, ok := g.GridToLocal(c)
				if !ok {
					continue
				}
				r, color := ' ', ColorDefault
				cell, _ := g.Get(c)
				switch {
				case cell.IsModule():
					m, ok := arena.Module(cell.Occupant)
					if !ok {
						continue
					}
					r, color = m.Type.Glyph(), moduleColor(m)
				case f.IsExposed(c):
					continue
				default:
					r, color = '·', ColorDim
				}
				plot(f.ToWorld(center.Add(core.V(-quarter, 0))), r, color)
				plot(f.ToWorld(center.Add(core.V(quarter, 0))), r, color)
			}
		}
	}

	space := s.Space()
	for _, m := range arena.FreeModules() {
		if pos, ok := space.Position(m.ID); ok {
			plot(pos, m.Type.Glyph(), ColorGray)
		}
	}

	for _, pid := range arena.ProjectileIDs() {
		p, _ := arena.Projectile(pid)
		if pos, ok := space.Position(pid); ok {
			plot(pos, projectileGlyph(p.Kind), ColorBrightYellow)
		}
	}

	for _, aid := range arena.AgentIDs() {
		pos, ok := space.Position(aid)
		if !ok {
			continue
		}
		color := ColorCyan
		if aid == player {
			color = ColorBrightGreen
		}
		plot(pos, '@', color)
	}
}

// moduleColor shades a module by type and remaining structural points.
func moduleColor(m *combat.Module) Color {
	if m.MaxPoints > 0 {
		ratio := m.Points / m.MaxPoints
		switch {
		case ratio <= 0.33:
			return ColorBrightRed
		case ratio <= 0.66:
			return ColorYellow
		}
	}
	switch m.Type {
	case structure.ModuleCommandCenter:
		if m.Controller.Valid() {
			return ColorBrightGreen
		}
		return ColorBrightCyan
	case structure.ModuleEngine:
		return ColorOrange
	case structure.ModuleCannon:
		return ColorBrightYellow
	default:
		return ColorWhite
	}
}

func projectileGlyph(k damage.ProjectileKind) rune {
	switch k {
	case damage.Explosive:
		return 'o'
	case damage.Energy:
		return '+'
	default:
		return '*'
	}
}
