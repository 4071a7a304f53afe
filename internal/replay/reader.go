package replay

import (
	"bufio"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/tomz197/turbulence/internal/game"
)

// Replay is a loaded recording.
type Replay struct {
	Manifest Manifest
	Frames   []game.Frame
	Events   []game.Event
}

// Open loads the replay in dir.
func Open(dir string) (*Replay, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, err
	}
	var r Replay
	if err := json.Unmarshal(data, &r.Manifest); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if r.Manifest.Version != ManifestVersion {
		return nil, fmt.Errorf("unsupported replay version %d", r.Manifest.Version)
	}

	if r.Frames, err = readFrames(filepath.Join(dir, r.Manifest.FramesPath)); err != nil {
		return nil, err
	}
	if r.Events, err = readEvents(filepath.Join(dir, r.Manifest.EventsPath)); err != nil {
		return nil, err
	}
	return &r, nil
}

func readFrames(path string) ([]game.Frame, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	var (
		frames []game.Frame
		buf    [frameSize]byte
	)
	for {
		_, err := io.ReadFull(dec, buf[:])
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read frame %d: %w", len(frames), err)
		}
		frames = append(frames, game.Frame{
			Tick:         binary.LittleEndian.Uint64(buf[0:8]),
			MusicTime:    math.Float64frombits(binary.LittleEndian.Uint64(buf[8:16])),
			Hold:         buf[16]&flagHold != 0,
			MusicPlaying: buf[16]&flagPlaying != 0,
		})
	}
}

func readEvents(path string) ([]game.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var events []game.Event
	sc := bufio.NewScanner(snappy.NewReader(f))
	for sc.Scan() {
		var e game.Event
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("parse event %d: %w", len(events), err)
		}
		events = append(events, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return events, nil
}
