package client

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/tomz197/turbulence/internal/loop/config"
	"github.com/tomz197/turbulence/internal/object"
)

// drawFrame draws the current frame.
func (c *Client) drawFrame() error {
	// On status or overlay transitions, do a full terminal clear so text from
	// the previous screen doesn't persist.
	statusChanged := c.state.Snapshot.Status != c.state.prevStatus
	stateChanged := c.state.GameState != c.state.prevGameState
	inactiveChanged := c.state.isInactive != c.state.wasInactive
	hasBanner := c.state.bannerTimer > 0
	bannerChanged := hasBanner != c.state.hadBanner
	if statusChanged || stateChanged || inactiveChanged || bannerChanged {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
		c.state.prevStatus = c.state.Snapshot.Status
		c.state.prevGameState = c.state.GameState
		c.state.wasInactive = c.state.isInactive
		c.state.hadBanner = hasBanner
	}

	ctx := object.DrawContext{Canvas: c.canvas}
	object.DrawScene(ctx, object.Scene(c.state.Snapshot, c.background))

	// Render canvas to terminal
	c.canvas.Render(c.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	c.canvas.RenderBorder(c.chunkWriter)

	// Draw UI overlay
	for _, t := range c.uiTexts() {
		t.Draw(c.chunkWriter, c.canvas)
	}

	if c.bell != nil && c.bell.take() {
		c.chunkWriter.Bell()
	}

	return c.chunkWriter.Flush()
}

// uiTexts returns the text drawn over the scene this frame.
func (c *Client) uiTexts() []object.Text {
	termWidth := c.canvas.TerminalWidth()
	termHeight := c.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if c.state.GameState == GameStateShutdown {
		return c.shutdownScreen(centerX, centerY)
	}
	if c.state.isInactive {
		return c.inactivityScreen(centerX, centerY)
	}

	snap := c.state.Snapshot
	texts := object.HUD(snap, termWidth, termHeight)
	texts = append(texts, c.lobbyTexts(termWidth, termHeight)...)
	texts = append(texts, object.Overlay(snap, string(c.state.nameBuf), termWidth, termHeight)...)
	if c.state.bannerTimer > 0 {
		banner := fmt.Sprintf("NEW RECORD BY %s: %d", c.state.banner.Name, c.state.banner.Score)
		texts = append(texts, centerText(centerX, 6, banner))
	}
	return texts
}

// lobbyTexts lists the live scores of other players, top right, and the
// player count, bottom right. Nothing is shown when playing alone.
func (c *Client) lobbyTexts(termWidth, termHeight int) []object.Text {
	lobby := c.server.GetSnapshot()
	if lobby.Players < 2 {
		return nil
	}

	// Fixed width so shrinking values don't leave residual characters.
	players := fmt.Sprintf("PLAYERS: %-4d", lobby.Players)
	texts := []object.Text{{X: termWidth - len(players) - 1, Y: termHeight, Value: players}}
	for i, entry := range lobby.TopScores {
		line := fmt.Sprintf("%-*s %5d", config.MaxUsernameLength, entry.Username, entry.Score)
		texts = append(texts, object.Text{
			X:     termWidth - utf8.RuneCountInString(line) - 1,
			Y:     3 + i,
			Value: line,
		})
	}
	return texts
}

// inactivityScreen returns the inactivity warning screen.
func (c *Client) inactivityScreen(centerX, centerY int) []object.Text {
	msg := fmt.Sprintf(
		"You have been inactive for too long. You will be disconnected in %d seconds.",
		int(config.InactivityDisconnectUser-time.Since(c.lastInput).Seconds()),
	)
	return []object.Text{
		centerText(centerX, centerY-2, "INACTIVITY WARNING"),
		centerText(centerX, centerY, msg),
		centerText(centerX, centerY+2, "Press any key to continue"),
	}
}

// shutdownScreen returns the server shutdown notification screen.
func (c *Client) shutdownScreen(centerX, centerY int) []object.Text {
	remaining := int(c.state.shutdownTimer) + 1
	return []object.Text{
		centerText(centerX, centerY-3, "SERVER SHUTTING DOWN"),
		centerText(centerX, centerY-1, "The server is restarting for maintenance."),
		centerText(centerX, centerY, "Please reconnect in a moment."),
		centerText(centerX, centerY+2, fmt.Sprintf("Disconnecting in %d seconds...", remaining)),
		centerText(centerX, centerY+4, "Press Q to disconnect now"),
	}
}

func centerText(centerX, row int, s string) object.Text {
	return object.Text{X: centerX - utf8.RuneCountInString(s)/2, Y: row, Value: s}
}
