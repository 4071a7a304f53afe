package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tomz197/turbulence/internal/game"
	"github.com/tomz197/turbulence/internal/logging"
	"github.com/tomz197/turbulence/internal/score"
)

type brokenStore struct{}

func (brokenStore) Load() (game.Record, error) { return game.Record{}, errors.New("disk on fire") }
func (brokenStore) Save(game.Record) error     { return nil }

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestLandingPage(t *testing.T) {
	mux := newMux(score.NewMemoryStore(game.Record{}), "play.example.com", logging.Discard())
	rr := get(t, mux, "/")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "ssh -t play.example.com") || strings.Contains(body, "{{.SSHHost}}") {
		t.Fatalf("host not substituted:\n%s", body)
	}
	if rr := get(t, mux, "/nope"); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown path status %d, want 404", rr.Code)
	}
}

func TestRecordEndpoint(t *testing.T) {
	tests := []struct {
		name string
		rec  game.Record
		want recordJSON
	}{
		{"empty", game.Record{}, recordJSON{Score: 0, Name: game.DefaultName}},
		{"set", game.Record{Score: 12, Name: "ACE"}, recordJSON{Score: 12, Name: "ACE"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := get(t, newMux(score.NewMemoryStore(tt.rec), "h", logging.Discard()), "/record")
			if rr.Code != http.StatusOK {
				t.Fatalf("status %d", rr.Code)
			}
			var got recordJSON
			if err := json.NewDecoder(rr.Body).Decode(&got); err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Fatalf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRecordEndpointStoreError(t *testing.T) {
	rr := get(t, newMux(brokenStore{}, "h", logging.Discard()), "/record")
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("status %d, want 500", rr.Code)
	}
}
