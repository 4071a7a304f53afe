// Package tui runs a session on a local terminal through tcell. Unlike the
// raw ANSI client it gets decoded key events and colors, and it shares the
// session with a real audio device.
package tui

import (
	"context"
	"errors"
	"time"
	"unicode"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/turbulence/internal/draw"
	"github.com/tomz197/turbulence/internal/game"
	"github.com/tomz197/turbulence/internal/input"
	"github.com/tomz197/turbulence/internal/logging"
	"github.com/tomz197/turbulence/internal/object"
)

var (
	stylePlane  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleFire   = tcell.StyleDefault.Foreground(tcell.ColorOrange)
	styleSafe   = tcell.StyleDefault.Foreground(tcell.ColorDarkCyan)
	stylePanic  = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleText   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleBanner = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
)

// Options configures a UI.
type Options struct {
	Username string // Default at the record prompt
	Logger   *log.Logger
}

// UI drives one session from tcell events.
type UI struct {
	screen     tcell.Screen
	session    *game.Session
	canvas     *draw.Canvas
	background *object.Background
	logger     *log.Logger
	now        func() time.Time

	snap    game.Snapshot
	latch   input.HoldLatch
	lift    bool // lift key seen since the last frame
	name    []rune
	user    string
	running bool
}

// New creates a UI on an initialized screen. The caller owns the screen and
// calls Fini on it.
func New(screen tcell.Screen, sess *game.Session, opts Options) *UI {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	cfg := sess.Config()
	cols, rows := screen.Size()
	return &UI{
		screen:     screen,
		session:    sess,
		canvas:     draw.NewScaledCanvas(cols, rows, cfg.WorldWidth, cfg.WorldHeight),
		background: object.NewBackground(cfg.WorldWidth, cfg.WorldHeight, cfg.Seed),
		logger:     logger,
		now:        time.Now,
		snap:       sess.Snapshot(),
		user:       opts.Username,
		running:    true,
	}
}

// Run polls events and ticks the session at its tick rate until the player
// quits or ctx is cancelled.
func (u *UI) Run(ctx context.Context) error {
	events := make(chan tcell.Event, 100)
	go func() {
		for {
			ev := u.screen.PollEvent()
			if ev == nil {
				// Screen finalized
				close(events)
				return
			}
			events <- ev
		}
	}()

	ticker := time.NewTicker(time.Second / time.Duration(u.session.Config().TickRate))
	defer ticker.Stop()

	for u.running {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			u.handleEvent(ev)
		case <-ticker.C:
			u.frame()
		}
	}
	return nil
}

// handleEvent applies one event. Name editing happens here so keystrokes keep
// their order; lift presses are collected for the next frame.
func (u *UI) handleEvent(ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			u.running = false
			return
		}
		if u.snap.AwaitingName() {
			u.editName(ev)
			return
		}
		switch ev.Key() {
		case tcell.KeyEscape:
			u.running = false
		case tcell.KeyUp:
			u.lift = true
		case tcell.KeyRune:
			switch ev.Rune() {
			case 'q', 'Q':
				u.running = false
			case ' ', 'w', 'W', 'k', 'K':
				u.lift = true
			}
		}
	case *tcell.EventResize:
		cols, rows := u.screen.Size()
		u.canvas.Resize(cols, rows)
		u.screen.Sync()
	}
}

func (u *UI) editName(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEnter:
		name := string(u.name)
		if err := u.session.SubmitPlayerName(name); err != nil {
			if !errors.Is(err, game.ErrNotAwaitingName) {
				u.logger.Error("submitting name", "err", err)
			}
			return
		}
		u.name = u.name[:0]
		u.snap = u.session.Snapshot()
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(u.name) > 0 {
			u.name = u.name[:len(u.name)-1]
		}
	case tcell.KeyEscape:
		u.name = u.name[:0]
	case tcell.KeyRune:
		if r := ev.Rune(); unicode.IsPrint(r) && len(u.name) < game.MaxNameLength {
			u.name = append(u.name, r)
		}
	}
}

// frame ticks the session once and draws the result.
func (u *UI) frame() {
	prev := u.snap.Status
	hold, press := u.latch.Update(u.now(), u.lift)
	u.lift = false
	if press {
		u.session.Press()
	}

	u.snap = u.session.Tick(hold)

	if u.snap.AwaitingName() && prev != game.StatusAwaitingName {
		u.name = []rune(u.user)
		if len(u.name) > game.MaxNameLength {
			u.name = u.name[:game.MaxNameLength]
		}
	}
	if u.snap.Status == game.StatusPlaying && prev != game.StatusPlaying {
		u.latch.Reset()
	}
	u.draw()
}

// draw rasterizes the scene on the off-screen canvas and copies it to the
// screen cell by cell with colors.
func (u *UI) draw() {
	object.DrawScene(object.DrawContext{Canvas: u.canvas}, object.Scene(u.snap, u.background))

	zone := styleSafe
	if u.snap.Danger == game.Panic {
		zone = stylePanic
	}
	pixel := stylePlane
	if u.snap.Crashed() {
		pixel = styleFire
	}

	u.screen.Clear()
	cols, rows := u.canvas.TerminalWidth(), u.canvas.TerminalHeight()
	for row := range rows {
		for col := range cols {
			r := u.canvas.Cell(col, row)
			if r == ' ' {
				continue
			}
			style := pixel
			if r == u.canvas.Shade(col, row) {
				style = zone
			}
			u.screen.SetContent(col, row, r, nil, style)
		}
	}

	for _, t := range object.HUD(u.snap, cols, rows) {
		u.drawText(t, styleText)
	}
	for _, t := range object.Overlay(u.snap, string(u.name), cols, rows) {
		u.drawText(t, styleBanner)
	}
	u.screen.Show()
}

// drawText writes a 1-based text line.
func (u *UI) drawText(t object.Text, style tcell.Style) {
	x, y := max(t.X, 1)-1, max(t.Y, 1)-1
	for _, r := range t.Value {
		u.screen.SetContent(x, y, r, nil, style)
		x++
	}
}

// Bell is a game.Effects that beeps the terminal on crash, for hosts without
// an audio device.
type Bell struct {
	Screen tcell.Screen
}

// PlayCrash implements game.Effects.
func (b Bell) PlayCrash() { _ = b.Screen.Beep() }
