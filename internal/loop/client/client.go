// Package client runs one player's session in an ANSI terminal: it reads the
// raw key stream, ticks the session at its tick rate and renders each
// snapshot with half-block graphics.
package client

import (
	"bufio"
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/turbulence/internal/draw"
	"github.com/tomz197/turbulence/internal/game"
	"github.com/tomz197/turbulence/internal/input"
	"github.com/tomz197/turbulence/internal/logging"
	"github.com/tomz197/turbulence/internal/loop/config"
	"github.com/tomz197/turbulence/internal/loop/server"
	"github.com/tomz197/turbulence/internal/object"
)

// Client handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	session      *game.Session
	state        *ClientState
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	background   *object.Background
	bell         *Bell
	writer       io.Writer
	inputStream  *input.Stream
	lastInput    time.Time
	username     string
	termSizeFunc draw.TermSizeFunc
	logger       *log.Logger
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string // Lobby name, also the default at the record prompt
	Bell         *Bell  // Rung on crash; pass the same Bell as the session's Effects
	Logger       *log.Logger
}

// NewClient creates a client that drives sess and joins the given lobby.
func NewClient(gs server.GameServer, sess *game.Session, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	handle := gs.RegisterClient(opts.Username)
	state := NewClientState()
	state.Snapshot = sess.Snapshot()
	state.prevStatus = state.Snapshot.Status

	// Create canvas with clamped dimensions for max render resolution
	cfg := sess.Config()
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, cfg.WorldWidth, cfg.WorldHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	return &Client{
		server:       gs,
		handle:       handle,
		session:      sess,
		state:        state,
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		background:   object.NewBackground(cfg.WorldWidth, cfg.WorldHeight, cfg.Seed),
		bell:         opts.Bell,
		writer:       w,
		inputStream:  input.StartStream(r),
		lastInput:    time.Now(),
		username:     opts.Username,
		termSizeFunc: termSizeFunc,
		logger:       logger,
	}
}

// Run starts the client loop. Blocks until the player quits, the input ends,
// the lobby shuts the client down or ctx is cancelled.
func (c *Client) Run(ctx context.Context) error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)
	defer c.server.UnregisterClient(c.handle.ID)

	frameTime := time.Second / time.Duration(c.session.Config().TickRate)
	lastTime := time.Now()

	for c.state.Running && ctx.Err() == nil {
		frameStart := time.Now()
		delta := frameStart.Sub(lastTime)
		lastTime = frameStart

		if err := c.frame(delta); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < frameTime {
			time.Sleep(frameTime - elapsed)
		}
	}

	draw.ClearScreen(c.writer)
	return nil
}

// frame runs one iteration of the client loop.
func (c *Client) frame(delta time.Duration) error {
	c.state.delta = delta

	c.processInput()
	c.processServerEvents()
	c.updateScreen()

	switch c.state.GameState {
	case GameStatePlaying:
		c.updatePlayingState()
	case GameStateShutdown:
		c.updateShutdownState()
	}

	if c.state.bannerTimer > 0 {
		c.state.bannerTimer -= delta.Seconds()
	}

	return c.drawFrame()
}

// processInput reads input for this frame.
func (c *Client) processInput() {
	naming := c.state.GameState == GameStatePlaying && c.state.Snapshot.AwaitingName()
	c.state.Input = input.ReadInput(c.inputStream, naming)

	if len(c.state.Input.Pressed) > 0 {
		c.lastInput = time.Now()
		c.state.isInactive = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityDisconnectUser {
		c.logger.Info("disconnecting inactive player")
		c.state.Running = false
	} else if time.Since(c.lastInput).Seconds() > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if c.state.Input.Quit || c.inputStream.Closed() {
		c.state.Running = false
	}
}

// processServerEvents handles events from the lobby.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Lobby closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventNewRecord:
				c.state.banner = event.Record
				c.state.bannerTimer = config.RecordBannerSeconds
			case server.EventServerShutdown:
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.TerminalWidth() || renderHeight != c.canvas.TerminalHeight() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		draw.ClearScreen(c.chunkWriter)
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
	c.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updatePlayingState feeds this frame's input to the session and ticks it.
func (c *Client) updatePlayingState() {
	in := c.state.Input
	prev := c.state.Snapshot.Status

	if c.state.Snapshot.AwaitingName() {
		c.updateNameEntry()
	} else if in.Press {
		c.session.Press()
	}

	snap := c.session.Tick(in.Hold)
	c.state.Snapshot = snap
	c.server.ReportScore(c.handle.ID, snap.Score)

	if snap.AwaitingName() && prev != game.StatusAwaitingName {
		c.state.nameBuf = []rune(c.username)
		if len(c.state.nameBuf) > game.MaxNameLength {
			c.state.nameBuf = c.state.nameBuf[:game.MaxNameLength]
		}
	}
	if snap.Status == game.StatusPlaying && prev != game.StatusPlaying {
		// A new round starts released, whatever the key repeat says.
		c.inputStream.Reset()
	}
}

// updateNameEntry edits the name buffer and submits it on enter.
func (c *Client) updateNameEntry() {
	in := c.state.Input
	if in.Escape {
		c.state.nameBuf = c.state.nameBuf[:0]
	}
	if in.Backspace && len(c.state.nameBuf) > 0 {
		c.state.nameBuf = c.state.nameBuf[:len(c.state.nameBuf)-1]
	}
	for _, r := range in.Runes {
		if len(c.state.nameBuf) < game.MaxNameLength {
			c.state.nameBuf = append(c.state.nameBuf, r)
		}
	}
	if !in.Enter {
		return
	}

	name := string(c.state.nameBuf)
	if err := c.session.SubmitPlayerName(name); err != nil {
		if !errors.Is(err, game.ErrNotAwaitingName) {
			c.logger.Error("submitting name", "err", err)
		}
		return
	}
	c.server.AnnounceRecord(c.handle.ID, game.Record{
		Score: c.state.Snapshot.Score,
		Name:  game.NormalizeName(name),
	})
	c.state.nameBuf = c.state.nameBuf[:0]
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}
