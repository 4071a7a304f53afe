// Package draw renders to ANSI terminals: a scaled half-block canvas with a
// shade layer, and a chunked writer for smooth output over SSH.
package draw

import "math"

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Shade characters from lightest to darkest.
var Shades = []rune{' ', '░', '▒', '▓', '█'}

// ShadeLevel returns a shade character for a value between 0.0 (empty) and 1.0 (solid).
func ShadeLevel(intensity float64) rune {
	if intensity <= 0 {
		return Shades[0]
	}
	if intensity >= 1 {
		return Shades[len(Shades)-1]
	}
	idx := int(intensity * float64(len(Shades)-1))
	return Shades[idx]
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// Transform rotates points by angle radians around the origin, then moves
// them to (x, y). dst must be at least as long as src.
func Transform(dst, src []Point, x, y, angle float64) []Point {
	sin, cos := math.Sincos(angle)
	dst = dst[:len(src)]
	for i, p := range src {
		dst[i] = Point{
			X: x + p.X*cos - p.Y*sin,
			Y: y + p.X*sin + p.Y*cos,
		}
	}
	return dst
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
