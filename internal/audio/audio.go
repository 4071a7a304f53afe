// Package audio provides the music and sound effects behind the beat clock.
//
// Playback goes through an Output so the simulation never depends on a
// sound device being present. Without one, Track.Play fails and the game
// keeps running with the beat reported as unsafe.
package audio

import (
	"errors"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// SampleRate is used for generated audio.
const SampleRate = beep.SampleRate(44100)

// EnvMusicFile names the variable holding a WAV file to play instead of the
// generated beat.
const EnvMusicFile = "MUSIC_FILE"

// ErrNoOutput is returned when playback is requested without an output.
var ErrNoOutput = errors.New("no audio output")

// Output plays streamers. Lock and Unlock guard state shared with the
// playback goroutine.
type Output interface {
	Play(s ...beep.Streamer)
	Lock()
	Unlock()
}

// Speaker is the system audio device.
type Speaker struct {
	sr beep.SampleRate
}

// OpenSpeaker initializes the device at sr with a 100ms buffer.
func OpenSpeaker(sr beep.SampleRate) (*Speaker, error) {
	if err := speaker.Init(sr, sr.N(time.Millisecond*100)); err != nil {
		return nil, err
	}
	return &Speaker{sr: sr}, nil
}

// SampleRate returns the device rate.
func (s *Speaker) SampleRate() beep.SampleRate { return s.sr }

func (s *Speaker) Play(st ...beep.Streamer) { speaker.Play(st...) }
func (s *Speaker) Lock()                    { speaker.Lock() }
func (s *Speaker) Unlock()                  { speaker.Unlock() }

// Close stops everything and releases the device.
func (s *Speaker) Close() {
	speaker.Clear()
	speaker.Close()
}
