package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"github.com/google/uuid"

	"github.com/tomz197/turbulence/internal/audio"
	"github.com/tomz197/turbulence/internal/config"
	"github.com/tomz197/turbulence/internal/draw"
	"github.com/tomz197/turbulence/internal/game"
	applog "github.com/tomz197/turbulence/internal/logging"
	"github.com/tomz197/turbulence/internal/loop/client"
	"github.com/tomz197/turbulence/internal/loop/server"
	"github.com/tomz197/turbulence/internal/replay"
	"github.com/tomz197/turbulence/internal/score"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"

	// Remote players hear nothing; the beat follows a wall clock of this length.
	musicLength = 64 * time.Second
)

// Shared by all SSH clients
var (
	lobby    *server.Server
	store    *score.FileStore
	gameCfg  game.Config
	logger   *log.Logger
	replayTo string
)

func main() {
	logger = applog.New(os.Stderr, os.Getenv(applog.EnvLevel))

	cfg, err := config.Load(time.Now().UnixNano())
	if err != nil {
		logger.Fatal("loading config", "err", err)
	}
	gameCfg = cfg

	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)
	store = score.NewFileStore(config.GetEnv(score.EnvFile, score.DefaultFile))
	replayTo = os.Getenv(replay.EnvDir)
	logger.Info("SSH config", "host", host, "port", port, "hostKeyPath", hostKeyPath,
		"scoreFile", store.Path(), "replayDir", replayTo)

	best, err := store.Load()
	if err != nil {
		logger.Warn("loading high score", "err", err)
	}
	lobby = server.NewServer(best)

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			gameMiddleware,
			activeterm.Middleware(),
			logging.StructuredMiddlewareWithLogger(logger, log.InfoLevel),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}

	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		logger.Fatal("failed to create server", "err", err)
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("Starting SSH server", "addr", net.JoinHostPort(host, port))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			logger.Fatal("server error", "err", err)
		}
	}()

	<-done
	logger.Info("Shutting down server...")

	// Notify players and wait for them to disconnect
	logger.Info("Notifying connected players about shutdown...", "players", lobby.Players())
	lobby.Shutdown(15 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.Shutdown(ctx); err != nil {
		logger.Fatal("shutdown error", "err", err)
	}
}

// gameMiddleware handles SSH sessions and runs one game per connection.
func gameMiddleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}

		sessLog := logger.With("session", uuid.NewString()[:8], "user", sess.User())
		sessLog.Info("New game session", "terminal", pty.Term,
			"size", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)

		// Listen for window size changes in a goroutine
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		if err := play(sess, sizeTracker, sessLog); err != nil {
			sessLog.Error("Game error", "err", err)
		}

		sessLog.Info("Session ended")
		next(sess)
	}
}

// play runs one player's game until they leave.
func play(sess ssh.Session, sizes *sizeTracker, sessLog *log.Logger) error {
	cfg := gameCfg
	cfg.Seed = time.Now().UnixNano()

	bell := &client.Bell{}
	opts := game.Options{
		Music:   audio.NewClock(musicLength, nil),
		Effects: bell,
		Store:   store,
		Logger:  sessLog,
	}
	var w *replay.Writer
	if replayTo != "" {
		var err error
		if w, err = replay.NewWriter(replayTo, cfg, time.Now); err != nil {
			return err
		}
		defer func() {
			if err := w.Close(); err != nil {
				sessLog.Error("closing replay", "dir", w.Directory(), "err", err)
			}
		}()
		opts.Recorder = w
	}

	g, err := game.New(cfg, opts)
	if err != nil {
		return err
	}
	if w != nil {
		w.SetRecord(startRecord(g))
	}

	c := client.NewClient(lobby, g, bufio.NewReader(sess), sess, client.ClientOptions{
		TermSizeFunc: sizes.getSize,
		Username:     sess.User(),
		Bell:         bell,
		Logger:       sessLog,
	})
	return c.Run(sess.Context())
}

// startRecord is the record a session loaded, as its replay must see it.
func startRecord(g *game.Session) game.Record {
	snap := g.Snapshot()
	return game.Record{Score: snap.HighScore, Name: snap.HighName}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
