package replay

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/tomz197/turbulence/internal/game"
	"github.com/tomz197/turbulence/internal/score"
)

// driftConfig floats level until the player holds, then climbs slowly into
// the ceiling, so a run scores a few zones before crashing.
func driftConfig() game.Config {
	cfg := game.DefaultConfig()
	cfg.Gravity = 0
	cfg.Thrust = 0.01
	cfg.Damping = 1
	cfg.HazardPenalty = 0
	cfg.MinZoneWidth = 150
	cfg.MaxZoneWidth = 150
	cfg.Seed = 42
	return cfg
}

// record plays a scripted run into a new replay and returns its directory
// and final snapshot.
func record(t *testing.T, ticks int) (string, game.Snapshot) {
	t.Helper()
	start := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	w, err := NewWriter(t.TempDir(), driftConfig(), func() time.Time { return start })
	if err != nil {
		t.Fatalf("NewWriter: %v", err)
	}
	sess, err := game.New(driftConfig(), game.Options{
		Store:    score.NewMemoryStore(game.Record{}),
		Recorder: w,
	})
	if err != nil {
		t.Fatal(err)
	}
	w.SetRecord(game.Record{Name: game.DefaultName})

	var snap game.Snapshot
	for i := range ticks {
		if snap.AwaitingName() {
			if err := sess.SubmitPlayerName("ace"); err != nil {
				t.Fatal(err)
			}
		}
		snap = sess.Step(game.Frame{
			Hold:         i >= 600,
			MusicTime:    float64(i) / 60,
			MusicPlaying: true,
		})
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	return w.Directory(), snap
}

func TestWriterManifest(t *testing.T) {
	dir, _ := record(t, 1200)
	r, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	m := r.Manifest
	if m.Frames != 1200 || len(r.Frames) != 1200 {
		t.Fatalf("frames: manifest %d, loaded %d, want 1200", m.Frames, len(r.Frames))
	}
	if m.Events != len(r.Events) {
		t.Fatalf("manifest counts %d events, loaded %d", m.Events, len(r.Events))
	}
	if m.Config != driftConfig() {
		t.Fatalf("config not preserved: %+v", m.Config)
	}
	if m.ID == "" || filepath.Base(dir) != "20250301T120000Z-"+m.ID[:8] {
		t.Fatalf("unexpected directory %q for id %q", filepath.Base(dir), m.ID)
	}
	for i, f := range r.Frames {
		if f.Tick != uint64(i) {
			t.Fatalf("frame %d has tick %d", i, f.Tick)
		}
		if want := i >= 600; f.Hold != want {
			t.Fatalf("frame %d hold = %v, want %v", i, f.Hold, want)
		}
		if !f.MusicPlaying || f.MusicTime != float64(i)/60 {
			t.Fatalf("frame %d music = %v %v", i, f.MusicPlaying, f.MusicTime)
		}
	}
}

func TestRunReproducesSession(t *testing.T) {
	dir, live := record(t, 1200)
	r, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}

	kinds := map[game.EventKind]int{}
	for _, e := range r.Events {
		kinds[e.Kind]++
	}
	if kinds[game.EventScore] == 0 || kinds[game.EventCrash] == 0 || kinds[game.EventName] == 0 || kinds[game.EventReset] == 0 {
		t.Fatalf("scripted run missed an event kind: %v", kinds)
	}

	res, err := r.Run(nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(res.Final, live) {
		t.Fatalf("final snapshot differs\n got %+v\nwant %+v", res.Final, live)
	}
	if res.Best == 0 {
		t.Fatal("no round scored")
	}
	if res.Final.HighName != "ace" {
		t.Fatalf("high name = %q, want ace", res.Final.HighName)
	}
}

func TestRunFollowsSharedStore(t *testing.T) {
	store := score.NewFileStore(filepath.Join(t.TempDir(), "turbulence.score"))
	w, err := NewWriter(t.TempDir(), driftConfig(), time.Now)
	if err != nil {
		t.Fatal(err)
	}
	sess, err := game.New(driftConfig(), game.Options{Store: store, Recorder: w})
	if err != nil {
		t.Fatal(err)
	}
	start := sess.Snapshot()
	w.SetRecord(game.Record{Score: start.HighScore, Name: start.HighName})

	// Another session on the host saves a record this run cannot beat.
	if err := store.Save(game.Record{Score: 100, Name: "ALICE"}); err != nil {
		t.Fatal(err)
	}

	var live game.Snapshot
	for i := range 1200 {
		if live.AwaitingName() {
			t.Fatalf("prompted for a new record at tick %d with score %d", i, live.Score)
		}
		live = sess.Step(game.Frame{Hold: i >= 600, MusicTime: float64(i) / 60, MusicPlaying: true})
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if live.HighScore != 100 || live.HighName != "ALICE" {
		t.Fatalf("record = %d/%q, want 100/ALICE", live.HighScore, live.HighName)
	}

	r, err := Open(w.Directory())
	if err != nil {
		t.Fatal(err)
	}
	picked := 0
	for _, e := range r.Events {
		if e.Kind == game.EventRecord {
			picked++
		}
	}
	if picked != 1 {
		t.Fatalf("%d record events, want 1", picked)
	}

	res, err := r.Run(nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !reflect.DeepEqual(res.Final, live) {
		t.Fatalf("final snapshot differs\n got %+v\nwant %+v", res.Final, live)
	}
}

func TestRunDetectsDivergence(t *testing.T) {
	dir, _ := record(t, 700)
	r, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(r.Events) == 0 {
		t.Fatal("expected events in a 700 tick run")
	}
	r.Events[0].Score += 10
	if _, err := r.Run(nil); !errors.Is(err, ErrDiverged) {
		t.Fatalf("err = %v, want ErrDiverged", err)
	}

	r.Events = r.Events[:0]
	if _, err := r.Run(nil); !errors.Is(err, ErrDiverged) {
		t.Fatalf("err = %v, want ErrDiverged for missing events", err)
	}
}

func TestOpenErrors(t *testing.T) {
	if _, err := Open(t.TempDir()); err == nil {
		t.Fatal("expected error without a manifest")
	}

	dir, _ := record(t, 10)
	if err := os.Remove(filepath.Join(dir, framesFile)); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(dir); err == nil {
		t.Fatal("expected error without frames")
	}
}

func TestNewWriterNeedsRoot(t *testing.T) {
	if _, err := NewWriter("", game.DefaultConfig(), nil); err == nil {
		t.Fatal("expected error for empty root")
	}
}
