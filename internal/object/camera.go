package object

import (
	"math"

	"github.com/tomz197/turbulence/internal/game"
)

// shakeGain scales the session's shake so a hazard hit moves the scene by
// about one terminal pixel.
const shakeGain = 6

// CameraOffset returns the scene jitter for a snapshot. It is derived from
// the tick, so redrawing a frame shakes it the same way.
func CameraOffset(snap game.Snapshot) (dx, dy float64) {
	if snap.Shake == 0 {
		return 0, 0
	}
	a := snap.Shake * shakeGain
	t := float64(snap.Tick)
	return a * (math.Mod(t*0.618034, 1) - 0.5), a * (math.Mod(t*0.381966, 1) - 0.5)
}
