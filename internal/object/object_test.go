package object

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/tomz197/turbulence/internal/draw"
	"github.com/tomz197/turbulence/internal/game"
)

func snapshot() game.Snapshot {
	return game.Snapshot{
		WorldWidth:  1280,
		WorldHeight: 720,
		VehicleX:    384,
		Altitude:    360,
		Zones:       []game.HazardZone{{Position: 800, Width: 150}},
		Danger:      game.Safe,
		HighName:    "PLAYER",
		BPM:         120,
	}
}

func countCells(c *draw.Canvas, cols, rows int, match func(rune) bool) int {
	n := 0
	for row := range rows {
		for col := range cols {
			if match(c.Cell(col, row)) {
				n++
			}
		}
	}
	return n
}

func isBlock(r rune) bool {
	return r == draw.BlockFull || r == draw.BlockUpperHalf || r == draw.BlockLowerHalf
}

func TestSceneWhilePlaying(t *testing.T) {
	snap := snapshot()
	objs := Scene(snap, nil)
	if len(objs) != 2 {
		t.Fatalf("scene has %d objects, want zone and plane", len(objs))
	}
	if _, ok := objs[1].(Plane); !ok {
		t.Fatalf("last object is %T, want Plane", objs[1])
	}

	c := draw.NewScaledCanvas(64, 18, 1280, 720)
	DrawScene(DrawContext{Canvas: c}, objs)

	// The plane sits at column 384/20 = 19, row 360/40 = 9.
	if r := c.Cell(19, 9); !isBlock(r) {
		t.Fatalf("no plane at its position, got %q", r)
	}
	if n := countCells(c, 64, 18, func(r rune) bool { return r == ZoneShade(game.Safe) }); n == 0 {
		t.Fatal("zone not shaded")
	}
}

func TestSceneAfterCrash(t *testing.T) {
	snap := snapshot()
	snap.Status = game.StatusCrashed
	snap.Explosion = game.Explosion{Visible: true, Frame: 2, Frames: 30, X: 384, Y: 360}

	objs := Scene(snap, NewBackground(1280, 720, 1))
	for _, o := range objs {
		if _, ok := o.(Plane); ok {
			t.Fatal("plane drawn after crash")
		}
	}
	e, ok := objs[len(objs)-1].(Explosion)
	if !ok {
		t.Fatalf("last object is %T, want Explosion", objs[len(objs)-1])
	}
	if e.Frames != 30 {
		t.Fatalf("explosion length %d, want the session's 30", e.Frames)
	}
}

func TestExplosionBurnsOut(t *testing.T) {
	lit := func(frame, frames int) int {
		c := draw.NewScaledCanvas(64, 18, 1280, 720)
		Explosion{X: 640, Y: 360, Frame: frame, Frames: frames}.Draw(DrawContext{Canvas: c})
		return countCells(c, 64, 18, isBlock)
	}
	if early, late := lit(3, 19), lit(18, 19); late >= early {
		t.Fatalf("late frame lit %d cells, early %d; debris should thin out", late, early)
	}
	// The burn-out follows the animation length: frame 18 of 40 still has
	// debris that frame 18 of 19 has lost.
	if short, long := lit(18, 19), lit(18, 40); long <= short {
		t.Fatalf("frame 18 lit %d cells of a 40 frame explosion, %d of 19", long, short)
	}
}

func TestCameraShake(t *testing.T) {
	snap := snapshot()
	snap.Tick = 7
	if dx, dy := CameraOffset(snap); dx != 0 || dy != 0 {
		t.Fatalf("offset %v,%v without shake", dx, dy)
	}

	snap.Shake = 5
	dx, dy := CameraOffset(snap)
	if dx == 0 && dy == 0 {
		t.Fatal("no offset while shaking")
	}
	if lim := 5.0 * shakeGain / 2; math.Abs(dx) > lim || math.Abs(dy) > lim {
		t.Fatalf("offset %v,%v beyond %v", dx, dy, lim)
	}
	if dx2, dy2 := CameraOffset(snap); dx2 != dx || dy2 != dy {
		t.Fatal("same frame shook differently")
	}

	objs := Scene(snap, nil)
	if z := objs[0].(Zone); z.Position != 800+dx {
		t.Fatalf("zone at %v, want %v", z.Position, 800+dx)
	}
	if p := objs[1].(Plane); p.X != 384+dx || p.Y != 360+dy {
		t.Fatalf("plane at %v,%v, want shifted by %v,%v", p.X, p.Y, dx, dy)
	}
}

func TestZoneShadeByDanger(t *testing.T) {
	if ZoneShade(game.Safe) == ZoneShade(game.Panic) {
		t.Fatal("safe and panic zones look the same")
	}
}

func TestBackgroundScrolls(t *testing.T) {
	bg := NewBackground(1280, 720, 3)
	a := draw.NewScaledCanvas(64, 18, 1280, 720)
	b := draw.NewScaledCanvas(64, 18, 1280, 720)
	bg.At(0).Draw(DrawContext{Canvas: a})
	bg.At(400).Draw(DrawContext{Canvas: b})

	same := true
	for row := range 18 {
		for col := range 64 {
			if a.Cell(col, row) != b.Cell(col, row) {
				same = false
			}
		}
	}
	if same {
		t.Fatal("star field did not move")
	}
}

func TestHUDAndOverlay(t *testing.T) {
	snap := snapshot()
	snap.Score = 7
	snap.HighScore = 9
	snap.HighName = "ACE"

	var lines []string
	for _, txt := range HUD(snap, 80, 24) {
		lines = append(lines, txt.Value)
	}
	joined := strings.Join(lines, "\n")
	for _, want := range []string{"SCORE: 7", "HIGH SCORE: 9 (ACE)", "BPM: 120", "SAFE"} {
		if !strings.Contains(joined, want) {
			t.Errorf("HUD missing %q:\n%s", want, joined)
		}
	}

	if Overlay(snap, "", 80, 24) != nil {
		t.Fatal("overlay shown while playing")
	}

	snap.Status = game.StatusAwaitingName
	snap.NewRecord = true
	over := Overlay(snap, "ZO", 80, 24)
	if over[0].Value != "NEW RECORD!" {
		t.Fatalf("title = %q", over[0].Value)
	}
	if !strings.Contains(over[2].Value, "ENTER NAME: ZO_") {
		t.Fatalf("prompt = %q", over[2].Value)
	}

	snap.Status = game.StatusCrashed
	snap.NewRecord = false
	if over := Overlay(snap, "", 80, 24); len(over) != 2 || over[0].Value != "CRASHED" {
		t.Fatalf("crash overlay = %+v", over)
	}
}

func TestTextDraw(t *testing.T) {
	var out bytes.Buffer
	cw := draw.NewChunkWriter(&out, 0, 0)
	c := draw.NewCanvas(20, 5)
	Text{X: 0, Y: 2, Value: "hi"}.Draw(cw, c)
	Text{X: 5, Y: 3}.Draw(cw, c)
	if err := cw.Flush(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "\033[2;1Hhi" {
		t.Fatalf("wrote %q", out.String())
	}
}
