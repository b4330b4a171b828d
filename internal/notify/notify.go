// Package notify broadcasts the decoded parts of a dataset as they become
// ready during a load.
package notify

import (
	"sync"

	"github.com/papapumpkin/starmap/internal/decode"
)

// Sink receives dataset parts as a load produces them. Calls are
// fire-and-forget; a Sink must not retain or mutate the arguments beyond
// what it needs for reading.
type Sink interface {
	PositionsReady(dataset string, positions []decode.Point)
	LinksReady(dataset string, out, in map[int][]int)
	LabelsReady(dataset string, labels []string)
}

// Nop is a Sink that ignores everything.
type Nop struct{}

// PositionsReady does nothing.
func (Nop) PositionsReady(string, []decode.Point) {}

// LinksReady does nothing.
func (Nop) LinksReady(string, map[int][]int, map[int][]int) {}

// LabelsReady does nothing.
func (Nop) LabelsReady(string, []string) {}

// Funcs adapts optional callbacks to a Sink. Nil fields are skipped.
type Funcs struct {
	OnPositions func(dataset string, positions []decode.Point)
	OnLinks     func(dataset string, out, in map[int][]int)
	OnLabels    func(dataset string, labels []string)
}

// PositionsReady calls OnPositions.
func (f Funcs) PositionsReady(dataset string, positions []decode.Point) {
	if f.OnPositions != nil {
		f.OnPositions(dataset, positions)
	}
}

// LinksReady calls OnLinks.
func (f Funcs) LinksReady(dataset string, out, in map[int][]int) {
	if f.OnLinks != nil {
		f.OnLinks(dataset, out, in)
	}
}

// LabelsReady calls OnLabels.
func (f Funcs) LabelsReady(dataset string, labels []string) {
	if f.OnLabels != nil {
		f.OnLabels(dataset, labels)
	}
}

// Bus fans every event out to its subscribers in subscription order. It is
// safe for concurrent use; the zero value is ready to use.
type Bus struct {
	mu     sync.RWMutex
	nextID int
	subs   []subscriber
}

type subscriber struct {
	id   int
	sink Sink
}

// Subscribe adds s and returns a function that removes it again.
func (b *Bus) Subscribe(s Sink) (unsubscribe func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	b.subs = append(b.subs, subscriber{id: id, sink: s})

	var once sync.Once
	return func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Bus) remove(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subs {
		if sub.id == id {
			b.subs = append(b.subs[:i:i], b.subs[i+1:]...)
			return
		}
	}
}

// snapshot copies the subscriber list so sinks run without the lock held
// and may themselves subscribe or unsubscribe.
func (b *Bus) snapshot() []Sink {
	b.mu.RLock()
	defer b.mu.RUnlock()
	sinks := make([]Sink, len(b.subs))
	for i, sub := range b.subs {
		sinks[i] = sub.sink
	}
	return sinks
}

// PositionsReady forwards positions to every subscriber.
func (b *Bus) PositionsReady(dataset string, positions []decode.Point) {
	for _, s := range b.snapshot() {
		s.PositionsReady(dataset, positions)
	}
}

// LinksReady forwards both adjacency maps to every subscriber.
func (b *Bus) LinksReady(dataset string, out, in map[int][]int) {
	for _, s := range b.snapshot() {
		s.LinksReady(dataset, out, in)
	}
}

// LabelsReady forwards labels to every subscriber.
func (b *Bus) LabelsReady(dataset string, labels []string) {
	for _, s := range b.snapshot() {
		s.LabelsReady(dataset, labels)
	}
}
