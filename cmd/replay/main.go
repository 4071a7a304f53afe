package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/tomz197/turbulence/internal/config"
	"github.com/tomz197/turbulence/internal/game"
	"github.com/tomz197/turbulence/internal/logging"
	"github.com/tomz197/turbulence/internal/replay"
)

func main() {
	verbose := flag.Bool("v", false, "log the re-simulated session")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-v] [replay-dir ...]\n\n", os.Args[0])
		fmt.Fprintf(flag.CommandLine.Output(), "Without arguments every replay under $%s is checked.\n", replay.EnvDir)
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "replay: %v\n", err)
		os.Exit(1)
	}

	dirs := flag.Args()
	if len(dirs) == 0 {
		var err error
		if dirs, err = listReplays(os.Getenv(replay.EnvDir)); err != nil {
			fmt.Fprintf(os.Stderr, "replay: %v\n", err)
			os.Exit(1)
		}
	}

	failed := false
	for _, dir := range dirs {
		if err := check(os.Stdout, dir, *verbose); err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", dir, err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// listReplays returns the replay directories under root, oldest first.
func listReplays(root string) ([]string, error) {
	if root == "" {
		return nil, errors.New("no replay directories given and " + replay.EnvDir + " is not set")
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, err
	}
	var dirs []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, filepath.Join(root, e.Name()))
		}
	}
	// Directory names start with their UTC timestamp.
	slices.Sort(dirs)
	return dirs, nil
}

// check re-simulates one replay and prints a summary line.
func check(w io.Writer, dir string, verbose bool) error {
	r, err := replay.Open(dir)
	if err != nil {
		return err
	}

	logger := logging.Discard()
	if verbose {
		logger = logging.New(os.Stderr, "debug").With("replay", r.Manifest.ID)
	}
	res, err := r.Run(logger)
	if err != nil {
		return err
	}

	rounds := 0
	for _, e := range res.Events {
		if e.Kind == game.EventCrash {
			rounds++
		}
	}
	fmt.Fprintf(w, "%s  %s  ticks=%d rounds=%d best=%d record=%d (%s)  ok\n",
		r.Manifest.ID, r.Manifest.CreatedAt, len(r.Frames), rounds, res.Best,
		res.Final.HighScore, res.Final.HighName)
	return nil
}
