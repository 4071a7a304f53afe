package replay

import (
	"errors"
	"fmt"
	"math"

	"github.com/charmbracelet/log"
	"github.com/tomz197/turbulence/internal/game"
	"github.com/tomz197/turbulence/internal/score"
)

// ErrDiverged is returned when a re-simulation does not reproduce the
// recorded events.
var ErrDiverged = errors.New("replay diverged")

// Result is the outcome of a re-simulation.
type Result struct {
	Final  game.Snapshot
	Events []game.Event
	Best   int // highest score reached in any round
}

// eventLog collects the events of a re-simulation.
type eventLog struct {
	events []game.Event
}

func (l *eventLog) RecordFrame(game.Frame)   {}
func (l *eventLog) RecordEvent(e game.Event) { l.events = append(l.events, e) }

// Run re-simulates the recording and checks that it reproduces the recorded
// events. Names are submitted at the tick they were entered on, and records
// other sessions saved are placed in the store before the tick that read them.
func (r *Replay) Run(logger *log.Logger) (Result, error) {
	var external []game.Event
	for _, e := range r.Events {
		if e.Kind == game.EventName || e.Kind == game.EventRecord {
			external = append(external, e)
		}
	}

	store := score.NewMemoryStore(r.Manifest.Record)
	rec := &eventLog{}
	sess, err := game.New(r.Manifest.Config, game.Options{
		Store:    store,
		Recorder: rec,
		Logger:   logger,
	})
	if err != nil {
		return Result{}, err
	}

	var res Result
	submit := func(tick uint64) error {
		for len(external) > 0 && external[0].Tick <= tick {
			e := external[0]
			external = external[1:]
			if e.Kind == game.EventRecord {
				if err := store.Save(game.Record{Score: e.Score, Name: e.Name}); err != nil {
					return err
				}
				continue
			}
			if err := sess.SubmitPlayerName(e.Name); err != nil {
				return fmt.Errorf("%w: name at tick %d: %v", ErrDiverged, e.Tick, err)
			}
		}
		return nil
	}

	res.Final = sess.Snapshot()
	for _, f := range r.Frames {
		if err := submit(f.Tick); err != nil {
			return res, err
		}
		res.Final = sess.Step(f)
		res.Best = max(res.Best, res.Final.Score)
	}
	// Names entered after the last frame.
	if err := submit(math.MaxUint64); err != nil {
		return res, err
	}
	res.Events = rec.events

	if err := compareEvents(r.Events, rec.events); err != nil {
		return res, err
	}
	return res, nil
}

func compareEvents(want, got []game.Event) error {
	for i := range min(len(want), len(got)) {
		if want[i] != got[i] {
			return fmt.Errorf("%w: event %d is %+v, recorded %+v", ErrDiverged, i, got[i], want[i])
		}
	}
	if len(want) != len(got) {
		return fmt.Errorf("%w: %d events, recorded %d", ErrDiverged, len(got), len(want))
	}
	return nil
}
