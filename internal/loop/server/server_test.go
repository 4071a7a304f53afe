package server

import (
	"testing"
	"time"

	"github.com/tomz197/turbulence/internal/game"
)

func TestRegisterAndUnregister(t *testing.T) {
	s := NewServer(game.Record{})
	a := s.RegisterClient("alice")
	b := s.RegisterClient("bob")
	if a.ID == b.ID {
		t.Fatalf("clients share id %d", a.ID)
	}
	if got := s.Players(); got != 2 {
		t.Fatalf("players = %d, want 2", got)
	}

	s.UnregisterClient(a.ID)
	if _, ok := <-a.EventsCh; ok {
		t.Fatal("events channel still open after unregister")
	}
	if got := s.Players(); got != 1 {
		t.Fatalf("players = %d, want 1", got)
	}

	// Unknown and repeated ids are ignored.
	s.UnregisterClient(a.ID)
	s.UnregisterClient(99)
}

func TestUsernameTruncated(t *testing.T) {
	s := NewServer(game.Record{})
	h := s.RegisterClient("a-very-long-username-indeed")
	if got := len([]rune(h.Username)); got != 16 {
		t.Fatalf("username %q has %d runes, want 16", h.Username, got)
	}
}

func TestTopScores(t *testing.T) {
	s := NewServer(game.Record{})
	ids := make([]int, 0, 4)
	for _, name := range []string{"a", "b", "c", "d"} {
		ids = append(ids, s.RegisterClient(name).ID)
	}
	s.ReportScore(ids[0], 3)
	s.ReportScore(ids[1], 7)
	s.ReportScore(ids[2], 3)
	s.ReportScore(ids[3], 1)

	top := s.GetSnapshot().TopScores
	want := []string{"b", "a", "c"}
	if len(top) != len(want) {
		t.Fatalf("got %d entries, want %d", len(top), len(want))
	}
	for i, name := range want {
		if top[i].Username != name {
			t.Fatalf("entry %d = %q, want %q (%+v)", i, top[i].Username, name, top)
		}
	}
}

func TestSnapshotIsImmutable(t *testing.T) {
	s := NewServer(game.Record{})
	id := s.RegisterClient("a").ID
	before := s.GetSnapshot()
	s.ReportScore(id, 5)
	if before.TopScores[0].Score != 0 {
		t.Fatalf("old snapshot changed: %+v", before.TopScores)
	}
	if got := s.GetSnapshot().TopScores[0].Score; got != 5 {
		t.Fatalf("score = %d, want 5", got)
	}
}

func TestAnnounceRecord(t *testing.T) {
	s := NewServer(game.Record{})
	a := s.RegisterClient("a")
	b := s.RegisterClient("b")

	rec := game.Record{Score: 4, Name: "ACE"}
	s.AnnounceRecord(a.ID, rec)

	select {
	case ev := <-b.EventsCh:
		if ev.Type != EventNewRecord || ev.Record != rec {
			t.Fatalf("got event %+v", ev)
		}
	default:
		t.Fatal("other client was not told about the record")
	}
	select {
	case ev := <-a.EventsCh:
		t.Fatalf("announcer received its own record: %+v", ev)
	default:
	}

	// A lower record is not news.
	s.AnnounceRecord(b.ID, game.Record{Score: 2, Name: "LOW"})
	select {
	case ev := <-a.EventsCh:
		t.Fatalf("lower record announced: %+v", ev)
	default:
	}
	if got := s.GetSnapshot().Record; got != rec {
		t.Fatalf("lobby record = %+v, want %+v", got, rec)
	}
}

func TestStoredRecordIsNotNews(t *testing.T) {
	stored := game.Record{Score: 10, Name: "ALICE"}
	s := NewServer(stored)
	a := s.RegisterClient("a")
	b := s.RegisterClient("b")
	if got := s.GetSnapshot().Record; got != stored {
		t.Fatalf("lobby record = %+v, want %+v", got, stored)
	}

	s.AnnounceRecord(a.ID, game.Record{Score: 3, Name: "BOB"})
	select {
	case ev := <-b.EventsCh:
		t.Fatalf("score below the stored record announced: %+v", ev)
	default:
	}

	s.AnnounceRecord(a.ID, game.Record{Score: 11, Name: "BOB"})
	if ev := <-b.EventsCh; ev.Record.Score != 11 {
		t.Fatalf("got event %+v, want the record of 11", ev)
	}
}

func TestShutdownNotifiesAndWaits(t *testing.T) {
	s := NewServer(game.Record{})
	h := s.RegisterClient("a")

	go func() {
		ev := <-h.EventsCh
		if ev.Type == EventServerShutdown {
			s.UnregisterClient(h.ID)
		}
	}()

	start := time.Now()
	s.Shutdown(5 * time.Second)
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("shutdown waited %v after the last client left", elapsed)
	}
	if got := s.Players(); got != 0 {
		t.Fatalf("players = %d after shutdown", got)
	}
}

func TestShutdownTimeout(t *testing.T) {
	s := NewServer(game.Record{})
	s.RegisterClient("stubborn")

	start := time.Now()
	s.Shutdown(300 * time.Millisecond)
	if elapsed := time.Since(start); elapsed < 300*time.Millisecond {
		t.Fatalf("shutdown returned after %v, before the timeout", elapsed)
	}
}
