package object

import (
	"math/rand"

	"github.com/tomz197/turbulence/internal/draw"
	"github.com/tomz197/turbulence/internal/physics"
)

const (
	starCount   = 48
	scrollSpeed = 0.3 // World units per tick
)

// Background is a slowly scrolling star field.
type Background struct {
	width float64
	stars []draw.Point
}

// NewBackground scatters stars over a width x height world.
func NewBackground(width, height float64, seed int64) *Background {
	rng := rand.New(rand.NewSource(seed))
	stars := make([]draw.Point, starCount)
	for i := range stars {
		stars[i] = draw.Point{X: rng.Float64() * width, Y: rng.Float64() * height}
	}
	return &Background{width: width, stars: stars}
}

// At returns the star field scrolled to tick.
func (b *Background) At(tick uint64) Object {
	return starField{bg: b, offset: float64(tick) * scrollSpeed}
}

type starField struct {
	bg     *Background
	offset float64
}

func (s starField) Draw(ctx DrawContext) {
	for _, p := range s.bg.stars {
		ctx.Canvas.SetFloat(physics.Mod(p.X-s.offset, s.bg.width), p.Y)
	}
}
