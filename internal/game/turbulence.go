package game

// Danger is the smoothed hazard state.
type Danger int

const (
	Safe Danger = iota
	Panic
)

func (d Danger) String() string {
	if d == Safe {
		return "safe"
	}
	return "panic"
}

// dangerFor maps the raw beat signal onto a Danger.
func dangerFor(rawSafe bool) Danger {
	if rawSafe {
		return Safe
	}
	return Panic
}

// DangerState is the output of the smoother.
type DangerState struct {
	Current   Danger
	HoldTicks int
}

// TurbulenceSmoother debounces the raw beat signal. After every change it
// holds the new state for a fixed number of ticks, so values near a beat
// window edge cannot flicker.
type TurbulenceSmoother struct {
	hold  int
	state DangerState
}

// NewTurbulenceSmoother creates a smoother starting in Safe.
func NewTurbulenceSmoother(hold int) *TurbulenceSmoother {
	return &TurbulenceSmoother{hold: hold}
}

// Update feeds one tick's raw signal and returns the smoothed state.
func (s *TurbulenceSmoother) Update(rawSafe bool) DangerState {
	want := dangerFor(rawSafe)
	switch {
	case s.state.HoldTicks > 0:
		s.state.HoldTicks--
	case want != s.state.Current:
		s.state.Current = want
		s.state.HoldTicks = s.hold
	}
	return s.state
}

// State returns the current smoothed state.
func (s *TurbulenceSmoother) State() DangerState { return s.state }

// Reset returns to Safe with no hold.
func (s *TurbulenceSmoother) Reset() {
	s.state = DangerState{Current: Safe}
}
