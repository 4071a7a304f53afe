// Package score persists the high score record.
package score

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/tomz197/turbulence/internal/game"
	"github.com/vmihailenco/msgpack/v5"
)

// EnvFile names the variable holding the score file path.
const EnvFile = "SCORE_FILE"

// DefaultFile is used when EnvFile is unset.
const DefaultFile = "turbulence.score"

// entry is the on-disk form of a record.
type entry struct {
	Score int    `msgpack:"score"`
	Name  string `msgpack:"name"`
}

// FileStore keeps the record in a msgpack file. Writes replace the file
// atomically so a crash mid-save never leaves a torn record. Safe for
// concurrent use by several sessions.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore returns a store backed by path. The file is created on the
// first Save.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file.
func (f *FileStore) Path() string { return f.path }

// Load reads the record. A missing file yields an empty record.
func (f *FileStore) Load() (game.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return game.Record{}, nil
	}
	if err != nil {
		return game.Record{}, fmt.Errorf("reading score file: %w", err)
	}
	var e entry
	if err := msgpack.Unmarshal(data, &e); err != nil {
		return game.Record{}, fmt.Errorf("decoding score file %s: %w", f.path, err)
	}
	return game.Record{Score: e.Score, Name: e.Name}, nil
}

// Save writes rec if it beats the stored record. Sessions on a shared store
// may finish out of order; the higher score always wins.
func (f *FileStore) Save(rec game.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if data, err := os.ReadFile(f.path); err == nil {
		var cur entry
		if msgpack.Unmarshal(data, &cur) == nil && cur.Score >= rec.Score {
			return nil
		}
	}

	data, err := msgpack.Marshal(&entry{Score: rec.Score, Name: rec.Name})
	if err != nil {
		return fmt.Errorf("encoding record: %w", err)
	}

	dir := filepath.Dir(f.path)
	tmp, err := os.CreateTemp(dir, ".score-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing record: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replacing score file: %w", err)
	}
	return nil
}

// MemoryStore keeps the record in memory. Useful for tests and for hosts
// without a writable disk.
type MemoryStore struct {
	mu  sync.Mutex
	rec game.Record
}

// NewMemoryStore returns a store seeded with rec.
func NewMemoryStore(rec game.Record) *MemoryStore {
	return &MemoryStore{rec: rec}
}

func (m *MemoryStore) Load() (game.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rec, nil
}

func (m *MemoryStore) Save(rec game.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if rec.Score > m.rec.Score {
		m.rec = rec
	}
	return nil
}

var (
	_ game.Store = (*FileStore)(nil)
	_ game.Store = (*MemoryStore)(nil)
)
