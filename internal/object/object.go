// Package object turns a session snapshot into drawable scene objects.
// Coordinates are world units; the canvas scales them to the terminal.
package object

import (
	"github.com/tomz197/turbulence/internal/draw"
	"github.com/tomz197/turbulence/internal/game"
)

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas
}

// Object is a drawable scene entity.
type Object interface {
	Draw(ctx DrawContext)
}

// Scene returns the objects of one frame, back to front. Everything but the
// background moves with the camera shake.
func Scene(snap game.Snapshot, bg *Background) []Object {
	dx, dy := CameraOffset(snap)
	objs := make([]Object, 0, len(snap.Zones)+3)
	if bg != nil {
		objs = append(objs, bg.At(snap.Tick))
	}
	for _, z := range snap.Zones {
		objs = append(objs, Zone{
			Position: z.Position + dx,
			Width:    z.Width,
			Height:   snap.WorldHeight,
			Danger:   snap.Danger,
		})
	}
	if !snap.Crashed() {
		objs = append(objs, Plane{X: snap.VehicleX + dx, Y: snap.Altitude + dy, Tilt: snap.Tilt})
	}
	if snap.Explosion.Visible {
		objs = append(objs, Explosion{
			X:      snap.Explosion.X + dx,
			Y:      snap.Explosion.Y + dy,
			Frame:  snap.Explosion.Frame,
			Frames: snap.Explosion.Frames,
		})
	}
	return objs
}

// DrawScene clears the canvas and draws every object.
func DrawScene(ctx DrawContext, objs []Object) {
	ctx.Canvas.Clear()
	for _, obj := range objs {
		obj.Draw(ctx)
	}
}
