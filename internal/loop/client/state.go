package client

import (
	"time"

	"github.com/tomz197/turbulence/internal/game"
	"github.com/tomz197/turbulence/internal/input"
)

// GameState represents the current phase of a client.
type GameState int

const (
	GameStatePlaying  GameState = iota // Session running
	GameStateShutdown                  // Server is shutting down
)

// ClientState holds per-player state (input, name entry, timers, etc.).
// Each client has their own instance, managed by the Client.
type ClientState struct {
	Input     input.Input
	Snapshot  game.Snapshot // Last snapshot returned by the session
	GameState GameState     // This client's phase
	Running   bool          // Client loop running

	nameBuf       []rune        // Name typed at the record prompt
	banner        game.Record   // Record announced by another player
	bannerTimer   float64       // Remaining seconds to show the banner
	delta         time.Duration // Frame delta time
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state

	// Values drawn last frame; a change triggers a full redraw.
	prevStatus    game.Status
	prevGameState GameState
	wasInactive   bool
	hadBanner     bool
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStatePlaying,
		Running:   true,
	}
}
