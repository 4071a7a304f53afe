// Package replay records sessions to disk and re-simulates them.
//
// A replay is a directory holding manifest.json, a zstd stream of per-tick
// frames and a snappy stream of JSON event lines. The session is
// deterministic given its config and frames, so events are kept only to
// verify a re-simulation.
package replay

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/golang/snappy"
	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/tomz197/turbulence/internal/game"
)

// EnvDir names the variable holding the replay root directory.
const EnvDir = "REPLAY_DIR"

const (
	ManifestVersion = 1

	manifestFile = "manifest.json"
	eventsFile   = "events.jsonl.sz"
	framesFile   = "frames.bin.zst"

	// tick, music time bits, flags
	frameSize = 8 + 8 + 1

	flagHold    = 1 << 0
	flagPlaying = 1 << 1
)

// Manifest describes a recorded session.
type Manifest struct {
	Version    int         `json:"version"`
	ID         string      `json:"id"`
	CreatedAt  string      `json:"created_at"`
	Config     game.Config `json:"config"`
	Record     game.Record `json:"record"`
	Frames     uint64      `json:"frames"`
	Events     int         `json:"events"`
	EventsPath string      `json:"events_path"`
	FramesPath string      `json:"frames_path"`
}

// Writer streams a session to disk. It implements game.Recorder; write
// failures are kept and reported by Err and Close.
type Writer struct {
	mu          sync.Mutex
	dir         string
	manifest    Manifest
	eventFile   *os.File
	eventStream *snappy.Writer
	frameFile   *os.File
	frameStream *zstd.Encoder
	buf         [frameSize]byte
	err         error
}

// NewWriter creates a replay directory under root for a session running
// with cfg.
func NewWriter(root string, cfg game.Config, clock func() time.Time) (*Writer, error) {
	if root == "" {
		return nil, fmt.Errorf("replay root must be provided")
	}
	if clock == nil {
		clock = time.Now
	}

	id := uuid.NewString()
	created := clock().UTC()
	dir := filepath.Join(root, fmt.Sprintf("%s-%s", created.Format("20060102T150405Z"), id[:8]))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	eventFile, err := os.Create(filepath.Join(dir, eventsFile))
	if err != nil {
		return nil, err
	}
	frameFile, err := os.Create(filepath.Join(dir, framesFile))
	if err != nil {
		eventFile.Close()
		return nil, err
	}
	frameStream, err := zstd.NewWriter(frameFile)
	if err != nil {
		eventFile.Close()
		frameFile.Close()
		return nil, err
	}

	w := &Writer{
		dir: dir,
		manifest: Manifest{
			Version:    ManifestVersion,
			ID:         id,
			CreatedAt:  created.Format(time.RFC3339Nano),
			Config:     cfg,
			EventsPath: eventsFile,
			FramesPath: framesFile,
		},
		eventFile:   eventFile,
		eventStream: snappy.NewBufferedWriter(eventFile),
		frameFile:   frameFile,
		frameStream: frameStream,
	}
	if err := w.writeManifest(); err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

// Directory returns the replay directory.
func (w *Writer) Directory() string { return w.dir }

// ID returns the replay's unique id.
func (w *Writer) ID() string { return w.manifest.ID }

// SetRecord stores the high score the session started with. Hosts call it
// after the session has loaded its store.
func (w *Writer) SetRecord(rec game.Record) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.manifest.Record = rec
}

// RecordFrame appends one tick's input.
func (w *Writer) RecordFrame(f game.Frame) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return
	}

	binary.LittleEndian.PutUint64(w.buf[0:8], f.Tick)
	binary.LittleEndian.PutUint64(w.buf[8:16], math.Float64bits(f.MusicTime))
	var flags byte
	if f.Hold {
		flags |= flagHold
	}
	if f.MusicPlaying {
		flags |= flagPlaying
	}
	w.buf[16] = flags

	if _, err := w.frameStream.Write(w.buf[:]); err != nil {
		w.err = fmt.Errorf("writing frame %d: %w", f.Tick, err)
		return
	}
	w.manifest.Frames++
}

// RecordEvent appends one JSON event line and flushes it so a live replay
// can be tailed.
func (w *Writer) RecordEvent(e game.Event) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return
	}

	line, err := json.Marshal(e)
	if err != nil {
		w.err = err
		return
	}
	line = append(line, '\n')
	if _, err := w.eventStream.Write(line); err != nil {
		w.err = fmt.Errorf("writing event: %w", err)
		return
	}
	if err := w.eventStream.Flush(); err != nil {
		w.err = fmt.Errorf("flushing event: %w", err)
		return
	}
	w.manifest.Events++
}

// Err returns the first write failure.
func (w *Writer) Err() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.err
}

// Close flushes both streams and rewrites the manifest with final counts.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	firstErr := w.err
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	keep(w.eventStream.Close())
	keep(w.eventFile.Close())
	keep(w.frameStream.Close())
	keep(w.frameFile.Close())
	keep(w.writeManifest())
	return firstErr
}

func (w *Writer) writeManifest() error {
	data, err := json.MarshalIndent(w.manifest, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(w.dir, manifestFile), data, 0o644)
}

var _ game.Recorder = (*Writer)(nil)
