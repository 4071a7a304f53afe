package audio

import "time"

// Clock is a silent Music driven by wall time. Hosts without a sound device
// (remote sessions) use it so the beat still advances while playing.
type Clock struct {
	now     func() time.Time
	length  time.Duration
	offset  time.Duration
	started time.Time
	playing bool
}

// NewClock returns a paused clock that wraps after length. now defaults to
// time.Now.
func NewClock(length time.Duration, now func() time.Time) *Clock {
	if now == nil {
		now = time.Now
	}
	return &Clock{now: now, length: length}
}

func (c *Clock) position() time.Duration {
	pos := c.offset
	if c.playing {
		pos += c.now().Sub(c.started)
	}
	if c.length > 0 {
		pos %= c.length
	}
	return pos
}

func (c *Clock) CurrentTime() float64 { return c.position().Seconds() }
func (c *Clock) Playing() bool        { return c.playing }

func (c *Clock) Play() error {
	if !c.playing {
		c.started = c.now()
		c.playing = true
	}
	return nil
}

func (c *Clock) Pause() {
	if c.playing {
		c.offset = c.position()
		c.playing = false
	}
}

func (c *Clock) Seek(seconds float64) {
	c.offset = max(0, time.Duration(seconds*float64(time.Second)))
	if c.playing {
		c.started = c.now()
	}
}
