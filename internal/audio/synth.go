package audio

import (
	"fmt"
	"math"
	"time"

	"github.com/gopxl/beep"
)

// Beat is a generated synthwave loop: a kick on every beat, a hat on the
// off-beat and a pulsing bass. Samples are a pure function of position, so
// seeking is exact.
type Beat struct {
	sr     beep.SampleRate
	beat   int // samples per beat
	pos    int
	length int
}

// NewBeat returns d worth of beat at bpm.
func NewBeat(sr beep.SampleRate, bpm float64, d time.Duration) *Beat {
	return &Beat{
		sr:     sr,
		beat:   sr.N(time.Duration(float64(time.Minute) / bpm)),
		length: sr.N(d),
	}
}

func (b *Beat) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if b.pos >= b.length {
			return i, i > 0
		}
		v := b.sample(b.pos)
		samples[i][0] = v
		samples[i][1] = v
		b.pos++
	}
	return len(samples), true
}

func (b *Beat) sample(pos int) float64 {
	beatPos := pos % b.beat
	t := float64(beatPos) / float64(b.sr)

	kick := 0.0
	kickLen := b.sr.N(time.Millisecond * 100)
	if beatPos < kickLen {
		env := 1 - float64(beatPos)/float64(kickLen)
		freq := 60 * (1 + 2*env)
		kick = 0.45 * env * math.Sin(2*math.Pi*freq*t)
	}

	hat := 0.0
	offPos := beatPos - b.beat/2
	hatLen := b.sr.N(time.Millisecond * 30)
	if offPos >= 0 && offPos < hatLen {
		env := 1 - float64(offPos)/float64(hatLen)
		hat = 0.08 * env * noise(pos)
	}

	// Bass ducks under the kick.
	duck := math.Min(1, float64(beatPos)/float64(kickLen))
	bass := 0.15 * duck * math.Sin(2*math.Pi*55*float64(pos)/float64(b.sr))

	return kick + hat + bass
}

func (b *Beat) Err() error    { return nil }
func (b *Beat) Len() int      { return b.length }
func (b *Beat) Position() int { return b.pos }

func (b *Beat) Seek(p int) error {
	if p < 0 || p > b.length {
		return fmt.Errorf("seek position %d outside [0, %d]", p, b.length)
	}
	b.pos = p
	return nil
}

// noise maps a sample index to a value in [-1, 1].
func noise(pos int) float64 {
	x := uint32(pos) * 2654435761
	x ^= x >> 15
	return float64(x)/math.MaxUint32*2 - 1
}

var _ beep.StreamSeeker = (*Beat)(nil)
