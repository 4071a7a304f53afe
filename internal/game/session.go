// Package game implements the simulation core: beat sampling, turbulence
// smoothing, hazard zones, flight physics and the session state machine.
package game

import (
	"errors"
	"io"
	"math/rand"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/log"
)

// ErrNotAwaitingName is returned by SubmitPlayerName outside the name prompt.
var ErrNotAwaitingName = errors.New("session is not awaiting a player name")

// timer value for a countdown that is not armed
const disarmed = -1

// Camera shake amplitudes in world units and their per-tick decay.
const (
	liftShake   = 2
	hazardShake = 5
	shakeDecay  = 0.85
)

// Options wires a session to its collaborators. Every field is optional.
type Options struct {
	Music    Music
	Effects  Effects
	Store    Store
	Recorder Recorder
	Logger   *log.Logger
}

// Session owns one player's game. It is not safe for concurrent use: the
// host calls Tick, Press and SubmitPlayerName from a single goroutine.
type Session struct {
	cfg Config

	music    Music
	effects  Effects
	store    Store
	recorder Recorder
	logger   *log.Logger

	beat     BeatClock
	tempo    *Tempo
	smoother *TurbulenceSmoother
	zones    *HazardZoneManager
	flight   *FlightPhysics

	tick    uint64
	status  Status
	rawSafe bool

	score     int
	record    Record
	newRecord bool
	shake     float64

	crashX, crashY  float64
	explosionFrame  int
	explosionTicks  int
	namePromptTimer int
	resetTimer      int
}

// New creates a session in the Playing state. The high score is loaded from
// the store here and again on every crash; a failed load starts from an
// empty record.
func New(cfg Config, opts Options) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	s := &Session{
		cfg:             cfg,
		music:           opts.Music,
		effects:         opts.Effects,
		store:           opts.Store,
		recorder:        opts.Recorder,
		logger:          opts.Logger,
		beat:            BeatClock{Window: cfg.BeatWindow},
		tempo:           NewTempo(cfg),
		smoother:        NewTurbulenceSmoother(cfg.TurbulenceHold),
		zones:           NewHazardZoneManager(cfg, rand.New(rand.NewSource(cfg.Seed))),
		flight:          NewFlightPhysics(cfg),
		record:          Record{Name: DefaultName},
		namePromptTimer: disarmed,
		resetTimer:      disarmed,
	}
	if s.music == nil {
		s.music = silence{}
	}
	if s.effects == nil {
		s.effects = noEffects{}
	}
	if s.recorder == nil {
		s.recorder = noRecorder{}
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}

	if s.store != nil {
		rec, err := s.store.Load()
		if err != nil {
			s.logger.Warn("loading high score", "err", err)
		} else {
			s.record = rec
			if s.record.Name == "" {
				s.record.Name = DefaultName
			}
		}
	}
	return s, nil
}

// Config returns the session's tuning.
func (s *Session) Config() Config { return s.cfg }

// Status returns the current state.
func (s *Session) Status() Status { return s.status }

// Press is called on every press edge. It starts the music from the top when
// it is not already playing.
func (s *Session) Press() {
	if s.status != StatusPlaying || s.music.Playing() {
		return
	}
	s.music.Seek(0.01)
	if err := s.music.Play(); err != nil {
		// Without music the beat clock reports panic, which is playable.
		s.logger.Debug("music did not start", "err", err)
	}
}

// Tick samples the music and advances the game by one frame.
func (s *Session) Tick(hold bool) Snapshot {
	return s.Step(Frame{
		Hold:         hold,
		MusicTime:    s.music.CurrentTime(),
		MusicPlaying: s.music.Playing(),
	})
}

// Step advances the game by one frame using explicit inputs. Replays drive
// the session through Step with recorded frames; f.Tick is ignored.
func (s *Session) Step(f Frame) Snapshot {
	f.Tick = s.tick
	s.recorder.RecordFrame(f)
	s.shake *= shakeDecay

	if s.status == StatusPlaying {
		s.stepPlaying(f)
	} else {
		s.stepCrashed()
	}
	s.tick++
	return s.Snapshot()
}

func (s *Session) stepPlaying(f Frame) {
	s.rawSafe = s.beat.Sample(f.MusicPlaying, f.MusicTime, s.tempo.BPM())
	danger := s.smoother.Update(s.rawSafe)

	s.zones.Advance()
	inZone, unsafe := s.zones.CheckOverlap(s.cfg.VehicleX, danger.Current)
	var penalty float64
	if f.Hold {
		s.shake = liftShake
	}
	if unsafe {
		penalty = s.cfg.HazardPenalty
		s.shake = hazardShake
	}

	if s.flight.Integrate(f.Hold, penalty) {
		s.zones.ConsumeScoreEvent(inZone, true)
		s.crash()
		return
	}

	if s.zones.ConsumeScoreEvent(inZone, false) {
		s.score++
		s.recorder.RecordEvent(Event{Tick: s.tick, Kind: EventScore, Score: s.score})
	}

	prev := s.tempo.BPM()
	s.tempo.Advance()
	if bpm := s.tempo.BPM(); bpm != prev {
		s.logger.Debug("tempo up", "bpm", bpm)
	}
}

// crash enters Crashed. The status check makes it idempotent.
func (s *Session) crash() {
	if s.status != StatusPlaying {
		return
	}
	s.status = StatusCrashed
	s.crashX = s.cfg.VehicleX
	s.crashY = s.flight.State.Altitude
	s.explosionFrame = 0
	s.explosionTicks = 0

	s.music.Pause()
	s.effects.PlayCrash()

	s.refreshRecord()
	s.newRecord = s.score > s.record.Score
	if s.newRecord {
		s.namePromptTimer = s.cfg.NamePromptDelay
	}
	s.resetTimer = s.cfg.ResetDelay

	s.recorder.RecordEvent(Event{Tick: s.tick, Kind: EventCrash, Score: s.score})
	s.logger.Info("crashed", "score", s.score, "bpm", s.tempo.BPM(), "record", s.newRecord)
}

// refreshRecord picks up records saved by other sessions sharing the store.
// The cached record only ever rises.
func (s *Session) refreshRecord() {
	if s.store == nil {
		return
	}
	rec, err := s.store.Load()
	if err != nil {
		s.logger.Warn("reloading high score", "err", err)
		return
	}
	if rec.Score <= s.record.Score {
		return
	}
	if rec.Name == "" {
		rec.Name = DefaultName
	}
	s.record = rec
	s.recorder.RecordEvent(Event{Tick: s.tick, Kind: EventRecord, Score: rec.Score, Name: rec.Name})
	s.logger.Debug("record raised elsewhere", "score", rec.Score, "name", rec.Name)
}

func (s *Session) stepCrashed() {
	s.explosionTicks++
	if s.explosionFrame < s.cfg.ExplosionFrames && s.explosionTicks%s.cfg.ExplosionCadence == 0 {
		s.explosionFrame++
	}

	if s.namePromptTimer > 0 {
		s.namePromptTimer--
	}
	if s.namePromptTimer == 0 && s.status == StatusCrashed {
		s.namePromptTimer = disarmed
		s.status = StatusAwaitingName
	}

	if s.resetTimer > 0 {
		s.resetTimer--
	}
	if s.resetTimer == 0 && s.status == StatusCrashed && s.namePromptTimer == disarmed {
		s.reset()
	}
}

// SubmitPlayerName completes the name prompt for a new record and persists
// it. Saving is best effort.
func (s *Session) SubmitPlayerName(name string) error {
	if s.status != StatusAwaitingName {
		return ErrNotAwaitingName
	}
	s.record = Record{Score: s.score, Name: NormalizeName(name)}
	s.status = StatusCrashed
	s.recorder.RecordEvent(Event{Tick: s.tick, Kind: EventName, Score: s.record.Score, Name: s.record.Name})

	if s.store != nil {
		if err := s.store.Save(s.record); err != nil {
			s.logger.Error("saving high score", "err", err)
		}
	}
	s.logger.Info("new record", "score", s.record.Score, "name", s.record.Name)
	return nil
}

// reset starts a fresh round. The cached high score survives; tempo does not.
func (s *Session) reset() {
	s.flight.Reset()
	s.zones.Reset()
	s.smoother.Reset()
	s.tempo.Reset()

	s.status = StatusPlaying
	s.rawSafe = false
	s.score = 0
	s.newRecord = false
	s.explosionFrame = 0
	s.explosionTicks = 0
	s.namePromptTimer = disarmed
	s.resetTimer = disarmed

	s.music.Seek(0)
	s.recorder.RecordEvent(Event{Tick: s.tick, Kind: EventReset})
}

// NormalizeName trims a submitted name, substitutes DefaultName when it is
// empty and truncates it to MaxNameLength runes.
func NormalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultName
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		name = string([]rune(name)[:MaxNameLength])
	}
	return name
}
