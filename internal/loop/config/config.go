// Package config centralizes the tunables of the terminal client and lobby.
package config

// Max render resolution in terminal cells. Larger terminals get a border.
const (
	MaxTermWidth  = 160
	MaxTermHeight = 50
)

// Player
const (
	MaxUsernameLength = 16 // Maximum display length for player usernames
	TopScoreCount     = 3  // Live scores shown in the HUD
)

// Announcements
const (
	RecordBannerSeconds = 4.0 // How long another player's record stays on screen
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)
