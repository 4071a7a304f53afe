package game

import "github.com/tomz197/turbulence/internal/physics"

// BeatClock decides whether the music is currently inside a beat window.
type BeatClock struct {
	Window float64 // Seconds after each beat that count as safe
}

// Sample returns true iff the music is playing and playbackTime falls in the
// first Window seconds of a beat at the given tempo.
func (c BeatClock) Sample(playing bool, playbackTime float64, bpm int) bool {
	if !playing || bpm <= 0 {
		return false
	}
	interval := 60 / float64(bpm)
	return physics.Mod(playbackTime, interval) < c.Window
}

// Tempo owns the round's bpm. It only ever ramps up, and only Reset brings it
// back to the initial value.
type Tempo struct {
	initial   int
	max       int
	step      int
	stepTicks int

	bpm     int
	elapsed int
}

// NewTempo creates a tempo at the configured initial bpm.
func NewTempo(cfg Config) *Tempo {
	t := &Tempo{
		initial:   cfg.InitialBPM,
		max:       cfg.MaxBPM,
		step:      cfg.TempoStep,
		stepTicks: cfg.TempoStepTicks,
	}
	t.Reset()
	return t
}

// BPM returns the current tempo.
func (t *Tempo) BPM() int { return t.bpm }

// Elapsed returns the number of playing ticks since the last reset.
func (t *Tempo) Elapsed() int { return t.elapsed }

// Advance counts one playing tick and applies a step every stepTicks.
func (t *Tempo) Advance() {
	t.elapsed++
	if t.elapsed%t.stepTicks == 0 {
		t.bpm = min(t.bpm+t.step, t.max)
	}
}

// Reset restores the initial tempo.
func (t *Tempo) Reset() {
	t.bpm = t.initial
	t.elapsed = 0
}
