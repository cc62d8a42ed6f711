package tui

import (
	"strings"
	"testing"
)

func TestCanvasSetGet(t *testing.T) {
	c := NewCanvas(4, 3)
	c.Set(1, 2, 'x', ColorRed)

	got := c.Get(1, 2)
	if got.Rune != 'x' || got.Color != ColorRed {
		t.Errorf("Get(1, 2) = %+v, expected x/red", got)
	}

	// Out of bounds writes are ignored and reads are blank
	c.Set(-1, 0, 'y', ColorRed)
	c.Set(4, 0, 'y', ColorRed)
	if r := c.Get(10, 10).Rune; r != ' ' {
		t.Errorf("Get out of bounds = %q, expected blank", r)
	}
	if strings.ContainsRune(c.String(), 'y') {
		t.Error("out of bounds Set should not write")
	}
}

func TestCanvasText(t *testing.T) {
	c := NewCanvas(5, 1)
	c.Text(2, 0, "hello", ColorWhite)

	if got := c.String(); got != "  hel" {
		t.Errorf("String() = %q, expected %q", got, "  hel")
	}
}

func TestCanvasResize(t *testing.T) {
	c := NewCanvas(2, 2)
	c.Set(0, 0, '#', ColorDefault)
	c.Resize(3, 1)

	if c.Width() != 3 || c.Height() != 1 {
		t.Errorf("size = %dx%d, expected 3x1", c.Width(), c.Height())
	}
	if got := c.String(); got != "   " {
		t.Errorf("String() after Resize = %q, expected blank", got)
	}

	c.Resize(-1, -1)
	if c.Width() != 0 || c.Height() != 0 {
		t.Errorf("negative Resize = %dx%d, expected 0x0", c.Width(), c.Height())
	}
}

func TestRenderCanvasKeepsText(t *testing.T) {
	c := NewCanvas(6, 2)
	c.Text(0, 0, "ab", ColorRed)
	c.Text(2, 0, "cd", ColorGreen)
	c.Text(0, 1, "ef", ColorDefault)

	out := RenderCanvas(c)
	for _, want := range []string{"ab", "cd", "ef"} {
		if !strings.Contains(out, want) {
			t.Errorf("RenderCanvas() missing %q in %q", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines != 1 {
		t.Errorf("RenderCanvas() has %d newlines, expected 1", lines)
	}
}
