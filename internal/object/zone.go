package object

import (
	"github.com/tomz197/turbulence/internal/draw"
	"github.com/tomz197/turbulence/internal/game"
)

// Zone is a turbulence column spanning the world height.
type Zone struct {
	Position, Width float64
	Height          float64
	Danger          game.Danger
}

// ZoneShade returns the fill used for zones in the given state.
func ZoneShade(d game.Danger) rune {
	if d == game.Panic {
		return draw.ShadeLevel(0.8)
	}
	return draw.ShadeLevel(0.3)
}

// Draw fills the column and outlines its edges.
func (z Zone) Draw(ctx DrawContext) {
	ctx.Canvas.ShadeRect(z.Position, 0, z.Width, z.Height, ZoneShade(z.Danger))
	if z.Danger == game.Panic {
		left := z.Position
		right := z.Position + z.Width - 1
		ctx.Canvas.DrawLine(draw.Point{X: left, Y: 0}, draw.Point{X: left, Y: z.Height})
		ctx.Canvas.DrawLine(draw.Point{X: right, Y: 0}, draw.Point{X: right, Y: z.Height})
	}
}
