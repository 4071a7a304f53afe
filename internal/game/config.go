package game

import (
	"errors"
	"fmt"
)

// World dimensions in logical units. Renderers scale these to the terminal.
const (
	DefaultWorldWidth  = 1280
	DefaultWorldHeight = 720
)

// Name capture
const (
	MaxNameLength = 12
	DefaultName   = "PLAYER"
)

// Config holds every tunable of the simulation. Tick-based durations assume
// the host drives Tick at TickRate per second.
type Config struct {
	TickRate int

	WorldWidth  float64
	WorldHeight float64
	VehicleX    float64 // Fixed horizontal position of the vehicle

	// Flight
	Gravity  float64
	Thrust   float64
	Damping  float64
	MaxSpeed float64

	// Beat
	BeatWindow     float64 // Seconds at the start of each beat considered safe
	InitialBPM     int
	MaxBPM         int
	TempoStep      int
	TempoStepTicks int

	// Turbulence
	TurbulenceHold int
	HazardPenalty  float64

	// Zones
	SpawnInterval int
	ZoneSpeed     float64
	MinZoneWidth  float64
	MaxZoneWidth  float64
	CullMargin    float64

	// Crash
	ExplosionFrames  int
	ExplosionCadence int
	NamePromptDelay  int
	ResetDelay       int

	Seed int64
}

// DefaultConfig returns the stock tuning.
func DefaultConfig() Config {
	return Config{
		TickRate: 60,

		WorldWidth:  DefaultWorldWidth,
		WorldHeight: DefaultWorldHeight,
		VehicleX:    DefaultWorldWidth * 0.3,

		Gravity:  0.35,
		Thrust:   0.6,
		Damping:  0.985,
		MaxSpeed: 9,

		BeatWindow:     0.18,
		InitialBPM:     120,
		MaxBPM:         160,
		TempoStep:      5,
		TempoStepTicks: 60 * 20,

		TurbulenceHold: 20,
		HazardPenalty:  0.9,

		SpawnInterval: 120,
		ZoneSpeed:     3,
		MinZoneWidth:  110,
		MaxZoneWidth:  190,
		CullMargin:    200,

		ExplosionFrames:  19,
		ExplosionCadence: 3,
		NamePromptDelay:  18,  // ~300ms
		ResetDelay:       132, // ~2.2s

		Seed: 1,
	}
}

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid game config")

// Validate checks the ranges the simulation relies on.
func (c Config) Validate() error {
	switch {
	case c.TickRate <= 0:
		return fmt.Errorf("%w: tick rate must be positive", ErrInvalidConfig)
	case c.WorldWidth <= 0 || c.WorldHeight <= 0:
		return fmt.Errorf("%w: world must have positive size", ErrInvalidConfig)
	case c.VehicleX < 0 || c.VehicleX > c.WorldWidth:
		return fmt.Errorf("%w: vehicle x %.1f outside world", ErrInvalidConfig, c.VehicleX)
	case c.MaxSpeed <= 0:
		return fmt.Errorf("%w: max speed must be positive", ErrInvalidConfig)
	case c.Damping <= 0 || c.Damping > 1:
		return fmt.Errorf("%w: damping must be in (0, 1]", ErrInvalidConfig)
	case c.BeatWindow < 0:
		return fmt.Errorf("%w: beat window must not be negative", ErrInvalidConfig)
	case c.InitialBPM <= 0 || c.MaxBPM < c.InitialBPM:
		return fmt.Errorf("%w: bpm range %d..%d", ErrInvalidConfig, c.InitialBPM, c.MaxBPM)
	case c.TempoStep < 0 || c.TempoStepTicks <= 0:
		return fmt.Errorf("%w: tempo step", ErrInvalidConfig)
	case c.TurbulenceHold < 0:
		return fmt.Errorf("%w: turbulence hold must not be negative", ErrInvalidConfig)
	case c.SpawnInterval < 0 || c.ZoneSpeed <= 0:
		return fmt.Errorf("%w: zone spawn interval or speed", ErrInvalidConfig)
	case c.MinZoneWidth <= 0 || c.MaxZoneWidth < c.MinZoneWidth:
		return fmt.Errorf("%w: zone width range %.1f..%.1f", ErrInvalidConfig, c.MinZoneWidth, c.MaxZoneWidth)
	case c.MaxZoneWidth > c.CullMargin:
		// A zone must be fully off screen before it is culled.
		return fmt.Errorf("%w: max zone width %.1f exceeds cull margin %.1f", ErrInvalidConfig, c.MaxZoneWidth, c.CullMargin)
	case c.ExplosionFrames < 0 || c.ExplosionCadence <= 0:
		return fmt.Errorf("%w: explosion animation", ErrInvalidConfig)
	case c.NamePromptDelay < 0 || c.ResetDelay < 0:
		return fmt.Errorf("%w: crash delays must not be negative", ErrInvalidConfig)
	}
	return nil
}
