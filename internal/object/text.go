package object

import (
	"fmt"
	"unicode/utf8"

	"github.com/tomz197/turbulence/internal/draw"
	"github.com/tomz197/turbulence/internal/game"
)

// Text is a line of overlay text at a 1-based terminal position.
type Text struct {
	X     int
	Y     int
	Value string
}

// Draw writes the text and marks the cells it covers on the canvas so the
// next frame repaints them.
func (t Text) Draw(cw *draw.ChunkWriter, c *draw.Canvas) {
	if t.Value == "" {
		return
	}
	x := max(t.X, 1)
	y := max(t.Y, 1)
	cw.WriteAt(x, y, t.Value)
	c.Touch(x, y, utf8.RuneCountInString(t.Value))
}

// centered returns v centered on column cx.
func centered(cx, y int, v string) Text {
	return Text{X: cx - utf8.RuneCountInString(v)/2, Y: y, Value: v}
}

// HUD returns the in-game status lines for a cols x rows view.
func HUD(snap game.Snapshot, cols, rows int) []Text {
	beat := "PANIC"
	if snap.Danger == game.Safe {
		beat = "SAFE "
	}
	return []Text{
		{X: 2, Y: 1, Value: fmt.Sprintf("SCORE: %d", snap.Score)},
		{X: 2, Y: 2, Value: fmt.Sprintf("HIGH SCORE: %d (%s)", snap.HighScore, snap.HighName)},
		{X: 2, Y: 3, Value: "PASS 1 TURBULENCE = 1 POINT"},
		{X: 2, Y: 4, Value: fmt.Sprintf("BPM: %d", snap.BPM)},
		{X: cols - 6, Y: 1, Value: beat},
		{X: 2, Y: rows, Value: "HOLD SPACE TO CLIMB   Q TO QUIT"},
	}
}

// Overlay returns the crash banner and, while a name is being entered, the
// prompt showing name.
func Overlay(snap game.Snapshot, name string, cols, rows int) []Text {
	if !snap.Crashed() {
		return nil
	}
	cx, cy := cols/2, rows/2
	title := "CRASHED"
	if snap.NewRecord {
		title = "NEW RECORD!"
	}
	texts := []Text{
		centered(cx, cy-2, title),
		centered(cx, cy, fmt.Sprintf("SCORE: %d", snap.Score)),
	}
	if snap.AwaitingName() {
		texts = append(texts,
			centered(cx, cy+2, fmt.Sprintf("ENTER NAME: %-*s", game.MaxNameLength+1, name+"_")),
			centered(cx, cy+3, "ENTER TO SAVE"),
		)
	}
	return texts
}
