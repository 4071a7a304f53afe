package object

import "github.com/tomz197/turbulence/internal/draw"

// planeHull is the vehicle outline, nose pointing right, centered on the
// origin.
var planeHull = [...]draw.Point{
	{X: 60, Y: 0},
	{X: 25, Y: -9},
	{X: -10, Y: -10},
	{X: -38, Y: -32},
	{X: -54, Y: -32},
	{X: -44, Y: -8},
	{X: -60, Y: -6},
	{X: -60, Y: 6},
	{X: -20, Y: 12},
	{X: 25, Y: 10},
}

// Plane is the player's vehicle.
type Plane struct {
	X, Y float64
	Tilt float64 // Radians, positive is nose down
}

// Draw renders the hull rotated by the tilt.
func (p Plane) Draw(ctx DrawContext) {
	var buf [len(planeHull)]draw.Point
	hull := draw.Transform(buf[:], planeHull[:], p.X, p.Y, p.Tilt)
	ctx.Canvas.DrawPolygon(hull, true)
}
