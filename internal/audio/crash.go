package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
)

const (
	crashDuration = 700 * time.Millisecond
	crashVolume   = 0.8
	rumbleFreq    = 65
)

// Crash plays the explosion effect. It implements game.Effects.
type Crash struct {
	out Output
	sr  beep.SampleRate
}

// NewCrash returns an effect player on out. A nil out plays nothing.
func NewCrash(out Output, sr beep.SampleRate) *Crash {
	return &Crash{out: out, sr: sr}
}

// PlayCrash starts a fresh explosion; an earlier one keeps ringing out.
func (c *Crash) PlayCrash() {
	if c.out == nil {
		return
	}
	c.out.Play(c.Sound())
}

// Sound returns one explosion: noise over a low rumble, decaying.
func (c *Crash) Sound() beep.Streamer {
	var s beep.Streamer = &noiseStreamer{}
	if tone, err := generators.SineTone(c.sr, rumbleFreq); err == nil {
		s = beep.Mix(volume(s, 0.5), volume(tone, 0.35))
	}
	s = &decay{Streamer: s, sr: c.sr, rate: 6}
	return volume(beep.Take(c.sr.N(crashDuration), s), crashVolume)
}

// volume scales s by a linear gain.
func volume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}

type noiseStreamer struct {
	pos int
}

func (n *noiseStreamer) Stream(samples [][2]float64) (int, bool) {
	for i := range samples {
		v := noise(n.pos)
		samples[i][0] = v
		samples[i][1] = v
		n.pos++
	}
	return len(samples), true
}

func (n *noiseStreamer) Err() error { return nil }

// decay applies an exponential fade of the given rate per second.
type decay struct {
	beep.Streamer
	sr   beep.SampleRate
	rate float64
	pos  int
}

func (d *decay) Stream(samples [][2]float64) (int, bool) {
	n, ok := d.Streamer.Stream(samples)
	for i := range samples[:n] {
		g := math.Exp(-d.rate * float64(d.pos) / float64(d.sr))
		samples[i][0] *= g
		samples[i][1] *= g
		d.pos++
	}
	return n, ok
}
