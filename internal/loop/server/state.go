package server

import "github.com/tomz197/turbulence/internal/game"

// TopScoreEntry represents a single entry on the live scoreboard.
type TopScoreEntry struct {
	Username string
	Score    int
	clientID int // Used for deterministic tie-break when scores are equal
}

// LobbySnapshot is an immutable view of the lobby for rendering.
type LobbySnapshot struct {
	Players   int
	TopScores []TopScoreEntry // Best current round scores, highest first
	Record    game.Record     // Best record announced since the lobby started
}
