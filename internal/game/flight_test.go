package game

import (
	"math"
	"math/rand"
	"testing"
)

func TestFirstTickFromRest(t *testing.T) {
	f := NewFlightPhysics(DefaultConfig())
	f.Integrate(false, 0)
	if got, want := f.State.Velocity, 0.35*0.985; math.Abs(got-want) > 1e-12 {
		t.Fatalf("velocity = %v, want %v", got, want)
	}
	if got, want := f.State.Altitude, DefaultWorldHeight/2+0.34475; math.Abs(got-want) > 1e-9 {
		t.Fatalf("altitude = %v, want %v", got, want)
	}
}

func TestLiftAndPenalty(t *testing.T) {
	cfg := DefaultConfig()
	f := NewFlightPhysics(cfg)
	f.Integrate(true, cfg.HazardPenalty)
	want := (0.35 - 0.6 + 0.9) * 0.985
	if math.Abs(f.State.Velocity-want) > 1e-12 {
		t.Fatalf("velocity = %v, want %v", f.State.Velocity, want)
	}
}

func TestVelocityAlwaysClamped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WorldHeight = 1e9
	f := NewFlightPhysics(cfg)
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 10000; i++ {
		var penalty float64
		if rng.Intn(3) == 0 {
			penalty = cfg.HazardPenalty * 5
		}
		f.Integrate(rng.Intn(2) == 0, penalty)
		if v := f.State.Velocity; v < -cfg.MaxSpeed || v > cfg.MaxSpeed {
			t.Fatalf("tick %d: velocity %v outside ±%v", i, v, cfg.MaxSpeed)
		}
	}
}

func TestCrashBounds(t *testing.T) {
	cfg := DefaultConfig()
	tests := []struct {
		name     string
		altitude float64
		velocity float64
		hold     bool
		want     bool
	}{
		{"inside", 100, 0, false, false},
		{"below top", 0.1, -5, true, true},
		{"past floor", cfg.WorldHeight - 0.1, 5, false, true},
		{"near floor", cfg.WorldHeight - 1, 0, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := NewFlightPhysics(cfg)
			f.State = FlightState{Altitude: tt.altitude, Velocity: tt.velocity}
			if got := f.Integrate(tt.hold, 0); got != tt.want {
				t.Fatalf("crashed = %v, want %v (altitude %v)", got, tt.want, f.State.Altitude)
			}
		})
	}
}

func TestTiltClamped(t *testing.T) {
	f := NewFlightPhysics(DefaultConfig())
	f.State.Velocity = 9
	if got := f.Tilt(); got != maxTilt {
		t.Fatalf("tilt = %v, want %v", got, maxTilt)
	}
	f.State.Velocity = -2
	if got := f.Tilt(); math.Abs(got+0.1) > 1e-12 {
		t.Fatalf("tilt = %v, want -0.1", got)
	}
}
