package object

import (
	"math"

	"github.com/tomz197/turbulence/internal/draw"
)

const (
	explosionSpokes = 28
	fireballFrames  = 6
)

// spokes are the debris directions and speeds, fixed so every crash looks
// the same frame by frame.
var spokes = func() [explosionSpokes]struct{ angle, speed, life float64 } {
	var s [explosionSpokes]struct{ angle, speed, life float64 }
	for i := range s {
		// Golden-ratio spacing spreads speeds without clumping.
		f := math.Mod(float64(i)*0.618034, 1)
		s[i].angle = 2 * math.Pi * (float64(i) + 0.5*f) / explosionSpokes
		s[i].speed = 4 + 4*f
		s[i].life = 0.45 + 0.55*math.Mod(float64(i)*0.381966, 1)
	}
	return s
}()

// Explosion is the crash animation at a given frame.
type Explosion struct {
	X, Y   float64
	Frame  int
	Frames int // length of the animation; debris is gone by the last frame
}

// Draw renders a fireball for the first frames and debris flying outward
// that burns out over the animation.
func (e Explosion) Draw(ctx DrawContext) {
	progress := float64(e.Frame) / float64(max(e.Frames, 1))

	if e.Frame < fireballFrames {
		r := 18 + float64(e.Frame)*8
		var ball [10]draw.Point
		for i := range ball {
			a := 2 * math.Pi * float64(i) / float64(len(ball))
			ball[i] = draw.Point{X: e.X + r*math.Cos(a), Y: e.Y + r*math.Sin(a)}
		}
		ctx.Canvas.DrawPolygon(ball[:], true)
	}

	for _, s := range spokes {
		if progress > s.life {
			continue
		}
		d := 10 + s.speed*float64(e.Frame+1)*3
		dx, dy := math.Cos(s.angle), math.Sin(s.angle)
		head := draw.Point{X: e.X + dx*d, Y: e.Y + dy*d}
		tail := draw.Point{X: e.X + dx*d*0.8, Y: e.Y + dy*d*0.8}
		ctx.Canvas.DrawLine(tail, head)
	}
}
