package draw

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func TestRenderHalfBlocks(t *testing.T) {
	c := NewCanvas(4, 2)
	c.SetFloat(0, 0) // top half of cell (1,1)
	c.SetFloat(1, 1) // bottom half of cell (2,1)
	c.SetFloat(2, 0)
	c.SetFloat(2, 1) // full cell (3,1)

	var buf bytes.Buffer
	c.Render(&buf)
	out := buf.String()
	for _, want := range []string{"\033[1;1H▀", "\033[1;2H▄", "\033[1;3H█", "\033[2;4H "} {
		if !strings.Contains(out, want) {
			t.Errorf("render output missing %q", want)
		}
	}
}

func TestRenderOnlyWritesChanges(t *testing.T) {
	c := NewCanvas(10, 5)
	c.SetFloat(3, 3)
	var buf bytes.Buffer
	c.Render(&buf)

	buf.Reset()
	c.Clear()
	c.SetFloat(3, 3)
	c.Render(&buf)
	if buf.Len() != 0 {
		t.Fatalf("unchanged frame wrote %q", buf.String())
	}

	c.Clear()
	c.Render(&buf)
	if got := buf.String(); got != "\033[2;4H " {
		t.Fatalf("erase wrote %q", got)
	}

	buf.Reset()
	c.ForceRedraw()
	c.Render(&buf)
	if n := strings.Count(buf.String(), "\033["); n != 50 {
		t.Fatalf("forced redraw wrote %d cells, want 50", n)
	}
}

func TestTouchRepaintsCells(t *testing.T) {
	c := NewCanvas(10, 5)
	var buf bytes.Buffer
	c.Render(&buf)

	buf.Reset()
	c.Touch(2, 3, 3)
	c.Render(&buf)
	if n := strings.Count(buf.String(), "\033["); n != 3 {
		t.Fatalf("touch repainted %d cells, want 3", n)
	}
	c.Touch(9, 99, 4) // off canvas
}

func TestScaledShadeRect(t *testing.T) {
	// 1280x720 logical onto 64x18 cells: 20 units per column, 20 per row.
	c := NewScaledCanvas(64, 18, 1280, 720)
	c.ShadeRect(100, 0, 40, 720, '░')

	var buf bytes.Buffer
	c.Render(&buf)
	out := buf.String()
	if n := strings.Count(out, "░"); n != 2*18 {
		t.Fatalf("shaded %d cells, want %d", n, 2*18)
	}
	if !strings.Contains(out, "\033[1;6H░") || !strings.Contains(out, "\033[18;7H░") {
		t.Fatalf("shade not in columns 6-7: %q", out)
	}

	// Pixels win over shade.
	c.Clear()
	c.ShadeRect(100, 0, 40, 720, '░')
	c.SetFloat(100, 0)
	buf.Reset()
	c.Render(&buf)
	if !strings.Contains(buf.String(), "\033[1;6H▀") {
		t.Fatalf("pixel did not cover shade: %q", buf.String())
	}
}

func TestFilledPolygon(t *testing.T) {
	c := NewCanvas(10, 5)
	c.DrawPolygon([]Point{{1, 1}, {8, 1}, {8, 8}, {1, 8}}, true)
	set := 0
	for _, p := range c.pixels {
		if p {
			set++
		}
	}
	if set != 64 {
		t.Fatalf("filled square set %d pixels, want 64", set)
	}
}

func TestLogicalToTerminal(t *testing.T) {
	c := NewScaledCanvas(64, 18, 1280, 720)
	col, row := c.LogicalToTerminal(640, 360)
	if col != 33 || row != 10 {
		t.Fatalf("center maps to (%d,%d), want (33,10)", col, row)
	}
}

func TestTransform(t *testing.T) {
	src := []Point{{1, 0}, {0, 2}}
	dst := Transform(make([]Point, 2), src, 10, 20, math.Pi/2)
	want := []Point{{10, 21}, {8, 20}}
	for i := range want {
		if math.Abs(dst[i].X-want[i].X) > 1e-9 || math.Abs(dst[i].Y-want[i].Y) > 1e-9 {
			t.Fatalf("point %d = %+v, want %+v", i, dst[i], want[i])
		}
	}
}

func TestChunkWriterFlush(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 2, 1)
	cw.WriteAt(1, 1, "SCORE")
	cw.Bell()
	cw.WriteString(strings.Repeat("x", 3*maxChunkSize))
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "\033[2;3HSCORE\a") {
		t.Fatalf("offset not applied: %q", out.String()[:20])
	}
	if cw.Len() != 0 {
		t.Fatal("buffer not reset after flush")
	}
}

func TestShadeLevel(t *testing.T) {
	tests := []struct {
		in   float64
		want rune
	}{
		{-1, ' '}, {0, ' '}, {0.3, '░'}, {0.5, '▒'}, {0.8, '▓'}, {1, '█'},
	}
	for _, tt := range tests {
		if got := ShadeLevel(tt.in); got != tt.want {
			t.Errorf("ShadeLevel(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
