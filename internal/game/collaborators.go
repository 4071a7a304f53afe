package game

// Music is the playback source the beat is sampled from.
type Music interface {
	// CurrentTime returns the playback position in seconds.
	CurrentTime() float64
	Playing() bool
	// Play starts or resumes playback. Failures (no audio device, autoplay
	// restrictions) leave the music paused.
	Play() error
	Pause()
	Seek(seconds float64)
}

// Effects plays one-shot sound effects.
type Effects interface {
	PlayCrash()
}

// Record is the persisted high score.
type Record struct {
	Score int
	Name  string
}

// Store persists the high score between runs.
type Store interface {
	Load() (Record, error)
	Save(Record) error
}

// Recorder receives every tick's inputs and notable session events.
type Recorder interface {
	RecordFrame(Frame)
	RecordEvent(Event)
}

// Frame is the complete external input of one tick.
type Frame struct {
	Tick         uint64
	Hold         bool
	MusicTime    float64
	MusicPlaying bool
}

// EventKind identifies a recorded session event.
type EventKind string

const (
	EventScore EventKind = "score"
	EventCrash EventKind = "crash"
	EventName  EventKind = "name"
	EventReset EventKind = "reset"
	// A higher record saved by another session was picked up at a crash.
	EventRecord EventKind = "record"
)

// Event is a notable state change, tagged with the tick it happened on.
// Name events carry the tick before which the name was submitted.
// Record events carry the record read from the store.
type Event struct {
	Tick  uint64    `json:"tick"`
	Kind  EventKind `json:"kind"`
	Score int       `json:"score"`
	Name  string    `json:"name,omitempty"`
}

type noEffects struct{}

func (noEffects) PlayCrash() {}

type noRecorder struct{}

func (noRecorder) RecordFrame(Frame) {}
func (noRecorder) RecordEvent(Event) {}

// silence is a Music that never plays.
type silence struct{}

func (silence) CurrentTime() float64 { return 0 }
func (silence) Playing() bool        { return false }
func (silence) Play() error          { return nil }
func (silence) Pause()               {}
func (silence) Seek(float64)         {}
