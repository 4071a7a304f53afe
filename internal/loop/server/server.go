// Package server keeps track of the players connected to one host. Each
// player flies their own session; the lobby only shares presence, live
// scores, new records and shutdown notices between them.
package server

import (
	"cmp"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tomz197/turbulence/internal/game"
	"github.com/tomz197/turbulence/internal/loop/config"
)

// GameServer is the interface clients use to communicate with the lobby.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	ReportScore(clientID int, score int)
	AnnounceRecord(clientID int, rec game.Record)
	GetSnapshot() *LobbySnapshot
}

// Server is the lobby shared by every client on a host.
type Server struct {
	snapshot     atomic.Pointer[LobbySnapshot]
	clients      map[int]*ClientHandle
	nextClientID int
	record       game.Record
	mu           sync.RWMutex
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the lobby.
type ClientHandle struct {
	ID       int
	Username string           // Display name for this client
	Score    int              // Score of the client's current round
	EventsCh chan ClientEvent // Events sent to client (records, shutdown)
}

// ClientEvent represents an event sent from the lobby to a client.
type ClientEvent struct {
	Type   ClientEventType
	Record game.Record // For record events
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventNewRecord ClientEventType = iota
	EventServerShutdown
)

// NewServer creates an empty lobby. best is the stored record; only scores
// above it are announced.
func NewServer(best game.Record) *Server {
	s := &Server{
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		record:       best,
	}
	s.snapshot.Store(&LobbySnapshot{Record: best})
	return s
}

// Shutdown gracefully shuts down the lobby by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			return
		case <-ticker.C:
			if s.Players() == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle := &ClientHandle{
		ID:       s.nextClientID,
		Username: truncateUsername(username),
		EventsCh: make(chan ClientEvent, 16),
	}
	s.nextClientID++
	s.clients[handle.ID] = handle
	s.publishLocked()
	return handle
}

// UnregisterClient removes a client from the lobby and closes its event channel.
func (s *Server) UnregisterClient(clientID int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok {
		return
	}
	close(handle.EventsCh)
	delete(s.clients, clientID)
	s.publishLocked()
}

// ReportScore updates the current round score of a client.
func (s *Server) ReportScore(clientID int, score int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	handle, ok := s.clients[clientID]
	if !ok || handle.Score == score {
		return
	}
	handle.Score = score
	s.publishLocked()
}

// AnnounceRecord tells every other client that clientID set a new record.
// Records that do not beat the best announced one are ignored.
func (s *Server) AnnounceRecord(clientID int, rec game.Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.Score <= s.record.Score {
		return
	}
	s.record = rec
	for id, handle := range s.clients {
		if id == clientID {
			continue
		}
		select {
		case handle.EventsCh <- ClientEvent{Type: EventNewRecord, Record: rec}:
		default:
			// Event channel full, drop the announcement
		}
	}
	s.publishLocked()
}

// GetSnapshot returns the current lobby snapshot.
func (s *Server) GetSnapshot() *LobbySnapshot {
	return s.snapshot.Load()
}

// Players returns the number of connected clients.
func (s *Server) Players() int {
	return s.GetSnapshot().Players
}

// publishLocked builds a new snapshot. Must be called with lock held.
func (s *Server) publishLocked() {
	scores := make([]TopScoreEntry, 0, len(s.clients))
	for _, handle := range s.clients {
		scores = append(scores, TopScoreEntry{
			Username: handle.Username,
			Score:    handle.Score,
			clientID: handle.ID,
		})
	}
	slices.SortFunc(scores, func(a, b TopScoreEntry) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.clientID, b.clientID)
	})
	if len(scores) > config.TopScoreCount {
		scores = scores[:config.TopScoreCount]
	}

	s.snapshot.Store(&LobbySnapshot{
		Players:   len(s.clients),
		TopScores: scores,
		Record:    s.record,
	})
}

func truncateUsername(name string) string {
	r := []rune(name)
	if len(r) > config.MaxUsernameLength {
		return string(r[:config.MaxUsernameLength])
	}
	return name
}
