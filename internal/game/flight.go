package game

import "github.com/tomz197/turbulence/internal/physics"

// Maximum vehicle tilt in radians and how strongly velocity maps onto it.
const (
	maxTilt    = 0.4
	tiltFactor = 0.05
)

// FlightState is the vehicle's vertical motion. Altitude grows downward,
// matching screen coordinates.
type FlightState struct {
	Altitude float64
	Velocity float64
}

// FlightPhysics integrates the vehicle once per tick.
type FlightPhysics struct {
	gravity     float64
	thrust      float64
	damping     float64
	maxSpeed    float64
	worldHeight float64

	State FlightState
}

// NewFlightPhysics creates a vehicle at rest in the middle of the world.
func NewFlightPhysics(cfg Config) *FlightPhysics {
	f := &FlightPhysics{
		gravity:     cfg.Gravity,
		thrust:      cfg.Thrust,
		damping:     cfg.Damping,
		maxSpeed:    cfg.MaxSpeed,
		worldHeight: cfg.WorldHeight,
	}
	f.Reset()
	return f
}

// Integrate applies gravity, lift, the hazard penalty and damping, moves the
// vehicle, and reports whether it left the world.
func (f *FlightPhysics) Integrate(hold bool, penalty float64) (crashed bool) {
	v := f.State.Velocity + f.gravity
	if hold {
		v -= f.thrust
	}
	v += penalty
	v *= f.damping
	f.State.Velocity = physics.Clamp(v, -f.maxSpeed, f.maxSpeed)
	f.State.Altitude += f.State.Velocity
	return f.OutOfBounds()
}

// OutOfBounds reports whether the vehicle is above or below the world.
func (f *FlightPhysics) OutOfBounds() bool {
	return f.State.Altitude < 0 || f.State.Altitude > f.worldHeight
}

// Tilt returns the nose angle in radians derived from velocity.
func (f *FlightPhysics) Tilt() float64 {
	return physics.Clamp(f.State.Velocity*tiltFactor, -maxTilt, maxTilt)
}

// Reset centers the vehicle and stops it.
func (f *FlightPhysics) Reset() {
	f.State = FlightState{Altitude: f.worldHeight / 2}
}
