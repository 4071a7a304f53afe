package game

import "slices"

// Status is the session's top-level state.
type Status int

const (
	StatusPlaying Status = iota
	StatusCrashed
	StatusAwaitingName // Crashed with a new record, waiting for SubmitPlayerName
)

func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusCrashed:
		return "crashed"
	case StatusAwaitingName:
		return "awaiting-name"
	default:
		return "unknown"
	}
}

// Explosion describes the crash animation.
type Explosion struct {
	Visible bool
	Frame   int
	Frames  int // length of the animation
	X, Y    float64
}

// Snapshot is everything a renderer needs for one frame. It shares no memory
// with the session.
type Snapshot struct {
	Tick   uint64
	Status Status

	WorldWidth  float64
	WorldHeight float64

	VehicleX float64
	Altitude float64
	Velocity float64
	Tilt     float64

	Zones   []HazardZone
	Danger  Danger
	RawSafe bool

	Explosion Explosion
	Shake     float64 // camera shake amplitude, world units

	Score     int
	HighScore int
	HighName  string
	BPM       int
	NewRecord bool
}

// Crashed reports whether the vehicle is down (including while a name is
// being captured).
func (s Snapshot) Crashed() bool { return s.Status != StatusPlaying }

// AwaitingName reports whether the UI should show the name prompt.
func (s Snapshot) AwaitingName() bool { return s.Status == StatusAwaitingName }

// Snapshot captures the current state.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		Tick:        s.tick,
		Status:      s.status,
		WorldWidth:  s.cfg.WorldWidth,
		WorldHeight: s.cfg.WorldHeight,
		VehicleX:    s.cfg.VehicleX,
		Altitude:    s.flight.State.Altitude,
		Velocity:    s.flight.State.Velocity,
		Tilt:        s.flight.Tilt(),
		Zones:       slices.Clone(s.zones.Zones()),
		Danger:      s.smoother.State().Current,
		RawSafe:     s.rawSafe,
		Explosion: Explosion{
			Visible: s.status != StatusPlaying && s.explosionFrame < s.cfg.ExplosionFrames,
			Frame:   s.explosionFrame,
			Frames:  s.cfg.ExplosionFrames,
			X:       s.crashX,
			Y:       s.crashY,
		},
		Shake:     s.shake,
		Score:     s.score,
		HighScore: s.record.Score,
		HighName:  s.record.Name,
		BPM:       s.tempo.BPM(),
		NewRecord: s.newRecord,
	}
}
