package main

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/tomz197/turbulence/internal/config"
	"github.com/tomz197/turbulence/internal/game"
	"github.com/tomz197/turbulence/internal/logging"
	"github.com/tomz197/turbulence/internal/score"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

// recordJSON is the body of /record.
type recordJSON struct {
	Score int    `json:"score"`
	Name  string `json:"name"`
}

func main() {
	logger := logging.New(os.Stderr, os.Getenv(logging.EnvLevel))
	if err := config.LoadDotEnv(); err != nil {
		logger.Fatal("loading environment", "err", err)
	}

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")
	store := score.NewFileStore(config.GetEnv(score.EnvFile, score.DefaultFile))

	addr := fmt.Sprintf("%s:%s", host, port)
	logger.Info("Starting web server", "url", "http://"+addr, "scoreFile", store.Path())
	if err := http.ListenAndServe(addr, newMux(store, sshHost, logger)); err != nil {
		logger.Fatal("server error", "err", err)
	}
}

// newMux serves the landing page and the current high score.
func newMux(store game.Store, sshHost string, logger *log.Logger) *http.ServeMux {
	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", sshHost)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
	mux.HandleFunc("GET /record", func(w http.ResponseWriter, r *http.Request) {
		rec, err := store.Load()
		if err != nil {
			logger.Error("loading record", "err", err)
			http.Error(w, "record unavailable", http.StatusInternalServerError)
			return
		}
		if rec.Name == "" {
			rec.Name = game.DefaultName
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(recordJSON{Score: rec.Score, Name: rec.Name})
	})
	return mux
}
