package pref

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/flock"
	toml "github.com/pelletier/go-toml/v2"
)

// pinFile is the on-disk layout of a TOMLFile store.
type pinFile struct {
	Version int            `toml:"version"`
	Pins    map[string]Pin `toml:"pins"`
}

// Pin is one pinned version with the time it was written.
type Pin struct {
	Version   string    `toml:"version"`
	UpdatedAt time.Time `toml:"updated_at"`
}

// TOMLFile stores pins in a TOML file. Every call re-reads the file so that
// edits made by other processes are picked up. Updates hold an exclusive
// lock on a sibling ".lock" file across read, modify and write, so several
// processes may share one pin file; each write replaces the file by rename.
type TOMLFile struct {
	path string
	mu   sync.Mutex
}

// NewTOMLFile returns a store backed by path. The file and its directory are
// created on the first Set.
func NewTOMLFile(path string) *TOMLFile {
	return &TOMLFile{path: path}
}

// Path returns the backing file path.
func (s *TOMLFile) Path() string { return s.path }

// Get re-reads the file and returns the pin of dataset.
func (s *TOMLFile) Get(_ context.Context, dataset string) (string, bool, error) {
	f, err := s.read()
	if err != nil {
		return "", false, err
	}
	p, ok := f.Pins[dataset]
	return p.Version, ok, nil
}

// Set pins dataset to version, stamping the write time.
func (s *TOMLFile) Set(ctx context.Context, dataset, version string) error {
	return s.update(ctx, func(f *pinFile) bool {
		f.Pins[dataset] = Pin{Version: version, UpdatedAt: time.Now().UTC()}
		return true
	})
}

// Clear removes the pin of dataset. A missing pin is not an error.
func (s *TOMLFile) Clear(ctx context.Context, dataset string) error {
	return s.update(ctx, func(f *pinFile) bool {
		if _, ok := f.Pins[dataset]; !ok {
			return false
		}
		delete(f.Pins, dataset)
		return true
	})
}

// update runs fn on the current file contents under the cross-process lock
// and writes the result back when fn reports a change.
func (s *TOMLFile) update(ctx context.Context, fn func(*pinFile) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("pref: creating pin directory: %w", err)
	}
	lock := flock.New(s.path + ".lock")
	locked, err := lock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("pref: locking pin file: %w", err)
	}
	if !locked {
		return fmt.Errorf("pref: locking pin file: %w", ctx.Err())
	}
	defer lock.Unlock()

	f, err := s.read()
	if err != nil {
		return err
	}
	if !fn(f) {
		return nil
	}
	return s.write(f)
}

// lockRetry is the polling interval while another process holds the lock.
const lockRetry = 10 * time.Millisecond

// read loads the pin file. A missing file is an empty store.
func (s *TOMLFile) read() (*pinFile, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return &pinFile{Version: 1, Pins: make(map[string]Pin)}, nil
		}
		return nil, fmt.Errorf("pref: reading pin file: %w", err)
	}
	var f pinFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("pref: parsing pin file %s: %w", s.path, err)
	}
	if f.Pins == nil {
		f.Pins = make(map[string]Pin)
	}
	return &f, nil
}

// write saves the pin file through a uniquely named temp file in the same
// directory, then renames it into place.
func (s *TOMLFile) write(f *pinFile) error {
	data, err := toml.Marshal(f)
	if err != nil {
		return fmt.Errorf("pref: marshaling pin file: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".pins-*.toml")
	if err != nil {
		return fmt.Errorf("pref: creating temp pin file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("pref: writing temp pin file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("pref: writing temp pin file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("pref: writing temp pin file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("pref: renaming pin file: %w", err)
	}
	return nil
}
