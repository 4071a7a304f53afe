// Package physics provides the small numeric helpers shared by the
// simulation and the renderers.
package physics

import "math"

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// InSpan reports whether x lies in the half-open interval [start, start+width).
func InSpan(x, start, width float64) bool {
	return x >= start && x < start+width
}

// Mod returns x modulo m with the sign of m, so negative playback offsets
// still map into [0, m).
func Mod(x, m float64) float64 {
	r := math.Mod(x, m)
	if r < 0 {
		r += m
	}
	return r
}
