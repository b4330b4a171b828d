// Package telemetry records dataset loads as a JSONL event stream. Each load
// start, version decision, decoded file and terminal outcome becomes one JSON
// line, so loads can be audited after the fact.
package telemetry

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/papapumpkin/starmap/internal/decode"
)

// Event kinds identify the type of telemetry event.
const (
	KindLoadStart       = "load_start"
	KindVersionResolved = "version_resolved"
	KindPositionsReady  = "positions_ready"
	KindLinksReady      = "links_ready"
	KindLabelsReady     = "labels_ready"
	KindLoadDone        = "load_done"
	KindLoadFailed      = "load_failed"
)

// Event is a single telemetry record.
type Event struct {
	Timestamp time.Time `json:"ts"`
	Kind      string    `json:"kind"`
	Dataset   string    `json:"dataset,omitempty"`
	Version   string    `json:"version,omitempty"`
	Data      any       `json:"data,omitempty"`
}

// Emitter writes telemetry events to a JSONL file. It is safe for concurrent
// use by multiple goroutines. A nil *Emitter is a valid no-op emitter.
type Emitter struct {
	file *os.File
	enc  *json.Encoder
	mu   sync.Mutex
}

// NewEmitter creates a new Emitter that writes JSONL events to the file at
// path. The file is created if it does not exist, or appended to if it does.
func NewEmitter(path string) (*Emitter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("telemetry: open %s: %w", path, err)
	}
	return &Emitter{
		file: f,
		enc:  json.NewEncoder(f),
	}, nil
}

// Emit writes a single event. A zero Timestamp is set to the current time.
// Calling Emit on a nil Emitter is a no-op.
func (e *Emitter) Emit(evt Event) error {
	if e == nil {
		return nil
	}
	if evt.Timestamp.IsZero() {
		evt.Timestamp = time.Now().UTC()
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.enc.Encode(evt); err != nil {
		return fmt.Errorf("telemetry: encode event: %w", err)
	}
	return nil
}

// Close closes the underlying file. Calling Close on a nil Emitter is a
// no-op.
func (e *Emitter) Close() error {
	if e == nil {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.file.Close(); err != nil {
		return fmt.Errorf("telemetry: close: %w", err)
	}
	return nil
}

// Sink records ready notifications as events. It logs sizes, not payloads.
// Write errors are dropped because notifications are fire-and-forget.
type Sink struct {
	Emitter *Emitter
}

// PositionsReady records the node count.
func (s Sink) PositionsReady(dataset string, positions []decode.Point) {
	_ = s.Emitter.Emit(Event{Kind: KindPositionsReady, Dataset: dataset, Data: map[string]int{"nodes": len(positions)}})
}

// LinksReady records source, target and edge counts.
func (s Sink) LinksReady(dataset string, out, in map[int][]int) {
	edges := 0
	for _, t := range out {
		edges += len(t)
	}
	_ = s.Emitter.Emit(Event{Kind: KindLinksReady, Dataset: dataset, Data: map[string]int{
		"sources": len(out),
		"targets": len(in),
		"edges":   edges,
	}})
}

// LabelsReady records the label count.
func (s Sink) LabelsReady(dataset string, labels []string) {
	_ = s.Emitter.Emit(Event{Kind: KindLabelsReady, Dataset: dataset, Data: map[string]int{"labels": len(labels)}})
}
