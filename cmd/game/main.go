package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gdamore/tcell/v2"
	"github.com/gopxl/beep"
	"golang.org/x/term"

	"github.com/tomz197/turbulence/internal/audio"
	"github.com/tomz197/turbulence/internal/config"
	"github.com/tomz197/turbulence/internal/game"
	"github.com/tomz197/turbulence/internal/logging"
	"github.com/tomz197/turbulence/internal/loop/client"
	"github.com/tomz197/turbulence/internal/loop/server"
	"github.com/tomz197/turbulence/internal/replay"
	"github.com/tomz197/turbulence/internal/score"
	"github.com/tomz197/turbulence/internal/tui"
)

const (
	envLogFile = "LOG_FILE"

	// Built-in music when no MUSIC_FILE is set.
	builtinBPM    = 120
	builtinLength = 64 * time.Second
)

func main() {
	ansi := flag.Bool("ansi", false, "draw with raw ANSI escapes instead of tcell")
	flag.Parse()

	if err := run(*ansi); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run(ansi bool) error {
	cfg, err := config.Load(time.Now().UnixNano())
	if err != nil {
		return err
	}

	logger, closeLog, err := openLog()
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := score.NewFileStore(config.GetEnv(score.EnvFile, score.DefaultFile))
	snd := openSound(logger)
	defer snd.close()

	opts := game.Options{
		Music:   snd.music,
		Effects: snd.effects,
		Store:   store,
		Logger:  logger,
	}
	var w *replay.Writer
	if dir := os.Getenv(replay.EnvDir); dir != "" {
		if w, err = replay.NewWriter(dir, cfg, time.Now); err != nil {
			return err
		}
		defer func() {
			if err := w.Close(); err != nil {
				logger.Error("closing replay", "dir", w.Directory(), "err", err)
			}
		}()
		logger.Info("recording replay", "dir", w.Directory())
		opts.Recorder = w
	}

	// Front ends pick their own effects, so they create the session.
	start := func(opts game.Options) (*game.Session, error) {
		sess, err := game.New(cfg, opts)
		if err != nil {
			return nil, err
		}
		if w != nil {
			w.SetRecord(startRecord(sess))
		}
		return sess, nil
	}

	if ansi {
		return runANSI(ctx, opts, start, logger)
	}
	return runTUI(ctx, opts, start, logger)
}

type startFunc func(game.Options) (*game.Session, error)

// startRecord is the record a session loaded from its store.
func startRecord(sess *game.Session) game.Record {
	snap := sess.Snapshot()
	return game.Record{Score: snap.HighScore, Name: snap.HighName}
}

// runTUI plays through tcell.
func runTUI(ctx context.Context, opts game.Options, start startFunc, logger *log.Logger) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()

	if opts.Effects == nil {
		opts.Effects = tui.Bell{Screen: screen}
	}
	sess, err := start(opts)
	if err != nil {
		return err
	}
	return tui.New(screen, sess, tui.Options{Username: os.Getenv("USER"), Logger: logger}).Run(ctx)
}

// runANSI plays in raw mode on stdin/stdout, the way remote sessions do.
func runANSI(ctx context.Context, opts game.Options, start startFunc, logger *log.Logger) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enabling raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	bell := &client.Bell{}
	if opts.Effects == nil {
		opts.Effects = bell
	}
	sess, err := start(opts)
	if err != nil {
		return err
	}

	c := client.NewClient(server.NewServer(startRecord(sess)), sess, bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Username: os.Getenv("USER"),
		Bell:     bell,
		Logger:   logger,
	})
	return c.Run(ctx)
}

// openLog writes logs to LOG_FILE. Without it logs are dropped, since the
// terminal belongs to the game.
func openLog() (*log.Logger, func(), error) {
	path := os.Getenv(envLogFile)
	if path == "" {
		return logging.Discard(), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	logger := logging.New(f, os.Getenv(logging.EnvLevel))
	return logger, func() { _ = f.Close() }, nil
}

type sound struct {
	music   game.Music
	effects game.Effects // nil without an audio device
	close   func()
}

// openSound plays MUSIC_FILE, or the built-in beat, on the default audio
// device. Without a device the beat follows a silent wall clock.
func openSound(logger *log.Logger) sound {
	var (
		src     beep.StreamSeeker
		sr      = audio.SampleRate
		closers []io.Closer
	)
	if path := os.Getenv(audio.EnvMusicFile); path != "" {
		s, format, err := audio.OpenWAV(path)
		if err != nil {
			logger.Warn("music file unusable, using the built-in beat", "path", path, "err", err)
		} else {
			src, sr = s, format.SampleRate
			closers = append(closers, s)
		}
	}
	if src == nil {
		src = audio.NewBeat(sr, builtinBPM, builtinLength)
	}
	closeAll := func() {
		for _, c := range closers {
			_ = c.Close()
		}
	}

	spk, err := audio.OpenSpeaker(sr)
	if err != nil {
		logger.Warn("no audio device, playing silently", "err", err)
		closeAll()
		return sound{
			music: audio.NewClock(sr.D(src.Len()), nil),
			close: func() {},
		}
	}
	return sound{
		music:   audio.NewTrack(spk, src, sr),
		effects: audio.NewCrash(spk, sr),
		close: func() {
			spk.Close()
			closeAll()
		},
	}
}
