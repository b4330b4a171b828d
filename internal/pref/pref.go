// Package pref persists the version a user has pinned for each dataset.
// A load reads the pin once before resolving and writes the resolved
// version back once afterwards.
package pref

import (
	"context"
	"fmt"
	"sync"
)

// Store holds pinned versions keyed by dataset name. Implementations are
// safe for concurrent use.
type Store interface {
	// Get returns the pinned version and whether one is set.
	Get(ctx context.Context, dataset string) (string, bool, error)
	// Set overwrites the pinned version.
	Set(ctx context.Context, dataset, version string) error
	// Clear removes the pin, if any.
	Clear(ctx context.Context, dataset string) error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendTOML   = "toml"
	BackendSQLite = "sqlite"
)

// Open returns the store for backend. path is ignored for the memory
// backend. The caller must Close the result when it implements io.Closer.
func Open(ctx context.Context, backend, path string) (Store, error) {
	switch backend {
	case BackendMemory:
		return NewMemory(), nil
	case BackendTOML:
		return NewTOMLFile(path), nil
	case BackendSQLite:
		return NewSQLite(ctx, path)
	}
	return nil, fmt.Errorf("pref: unknown backend %q", backend)
}

// Memory is an in-process Store.
type Memory struct {
	mu   sync.RWMutex
	pins map[string]string
}

// NewMemory creates an empty Memory store.
func NewMemory() *Memory {
	return &Memory{pins: make(map[string]string)}
}

// Get returns the pin of dataset.
func (m *Memory) Get(_ context.Context, dataset string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.pins[dataset]
	return v, ok, nil
}

// Set pins dataset to version.
func (m *Memory) Set(_ context.Context, dataset, version string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pins[dataset] = version
	return nil
}

// Clear removes the pin of dataset.
func (m *Memory) Clear(_ context.Context, dataset string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pins, dataset)
	return nil
}
