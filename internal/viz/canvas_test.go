package viz

import (
	"strings"
	"testing"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(4, 2)
	if w, h := c.PixelSize(); w != 8 || h != 8 {
		t.Fatalf("PixelSize = %d,%d, want 8,8", w, h)
	}

	c.Set(0, 0)
	c.Set(1, 3)
	if got := c.Grid[0][0]; got != brailleBase|0x1|0x80 {
		t.Errorf("cell = %U, want %U", got, brailleBase|0x1|0x80)
	}
	if !c.Get(1, 3) {
		t.Error("Get(1,3) = false after Set")
	}

	c.Unset(0, 0)
	if c.Get(0, 0) {
		t.Error("Get(0,0) = true after Unset")
	}

	// out of range is ignored
	c.Set(-1, 0)
	c.Set(8, 0)
	c.Set(0, 8)
	if c.Get(8, 0) {
		t.Error("Get outside canvas = true")
	}
}

func TestCanvasClearAndString(t *testing.T) {
	c := NewCanvas(3, 2)
	c.Set(2, 2)
	c.Clear()
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	for _, l := range lines {
		if l != strings.Repeat(string(rune(brailleBase)), 3) {
			t.Errorf("line %q is not blank", l)
		}
	}
}

func TestDrawCircle(t *testing.T) {
	c := NewCanvas(20, 10)
	c.DrawCircle(10, 10, 3)

	for _, p := range [][2]int{{13, 10}, {7, 10}, {10, 13}, {10, 7}} {
		if !c.Get(p[0], p[1]) {
			t.Errorf("pixel %v not set", p)
		}
	}
	if c.Get(10, 10) {
		t.Error("circle centre set")
	}

	c.Clear()
	c.DrawCircle(4, 4, 0)
	if !c.Get(4, 4) {
		t.Error("zero radius did not set centre")
	}
}

func TestDrawLine(t *testing.T) {
	c := NewCanvas(10, 3)
	c.DrawLine(0, 0, 9, 0)
	for x := 0; x <= 9; x++ {
		if !c.Get(x, 0) {
			t.Errorf("pixel (%d,0) not set", x)
		}
	}
}
