package audio

import (
	"time"

	"github.com/gopxl/beep"
)

// Track is a looping song that reports its playback position. It implements
// game.Music.
type Track struct {
	out  Output
	src  beep.StreamSeeker
	ctrl *beep.Ctrl
	sr   beep.SampleRate
}

// NewTrack queues src on out, paused. out may be nil, in which case the
// track never plays.
func NewTrack(out Output, src beep.StreamSeeker, sr beep.SampleRate) *Track {
	t := &Track{
		out:  out,
		src:  src,
		ctrl: &beep.Ctrl{Streamer: &looper{src: src}, Paused: true},
		sr:   sr,
	}
	if out != nil {
		out.Play(t.ctrl)
	}
	return t
}

func (t *Track) lock() {
	if t.out != nil {
		t.out.Lock()
	}
}

func (t *Track) unlock() {
	if t.out != nil {
		t.out.Unlock()
	}
}

// CurrentTime returns the playback position in seconds.
func (t *Track) CurrentTime() float64 {
	t.lock()
	defer t.unlock()
	return t.sr.D(t.src.Position()).Seconds()
}

func (t *Track) Playing() bool {
	t.lock()
	defer t.unlock()
	return !t.ctrl.Paused
}

func (t *Track) Play() error {
	if t.out == nil {
		return ErrNoOutput
	}
	t.lock()
	defer t.unlock()
	t.ctrl.Paused = false
	return nil
}

func (t *Track) Pause() {
	t.lock()
	defer t.unlock()
	t.ctrl.Paused = true
}

// Seek moves to seconds, clamped to the track.
func (t *Track) Seek(seconds float64) {
	t.lock()
	defer t.unlock()
	n := t.src.Len()
	if n == 0 {
		return
	}
	p := t.sr.N(time.Duration(seconds * float64(time.Second)))
	p = max(0, min(p, n-1))
	_ = t.src.Seek(p)
}

// looper restarts src when it drains.
type looper struct {
	src beep.StreamSeeker
}

func (l *looper) Stream(samples [][2]float64) (int, bool) {
	filled := 0
	restarted := false
	for filled < len(samples) {
		n, ok := l.src.Stream(samples[filled:])
		filled += n
		if n > 0 {
			restarted = false
		}
		if ok && n > 0 {
			continue
		}
		// An empty read right after a restart means the source is broken.
		if restarted || l.src.Len() == 0 || l.src.Seek(0) != nil {
			break
		}
		restarted = true
	}
	return filled, filled > 0
}

func (l *looper) Err() error { return l.src.Err() }
