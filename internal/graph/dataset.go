// Package graph holds the assembled, immutable graph dataset and the
// analysis passes that run over it.
package graph

import (
	"fmt"
	"sort"

	"github.com/papapumpkin/starmap/internal/decode"
)

// FileKind names one of the data files of a dataset version.
type FileKind string

// File kinds in load order.
const (
	FilePositions FileKind = "positions"
	FileLinks     FileKind = "links"
	FileLabels    FileKind = "labels"
)

// FileName returns the file name of k under <base>/<dataset>/<version>/.
func (k FileKind) FileName() string {
	switch k {
	case FilePositions:
		return "positions.bin"
	case FileLinks:
		return "links.bin"
	case FileLabels:
		return "labels.json"
	}
	return string(k)
}

// Source describes one downloaded file.
type Source struct {
	Kind   FileKind `json:"kind" yaml:"kind"`
	URL    string   `json:"url" yaml:"url"`
	Size   int      `json:"size" yaml:"size"`
	Digest string   `json:"blake3" yaml:"blake3"` // hex BLAKE3-256 of the raw bytes
}

// Dataset is one loaded version of a graph. It is never mutated after
// Assemble; callers must treat returned slices and maps as read-only.
type Dataset struct {
	name      string
	version   string
	positions []decode.Point
	labels    []string
	out       map[int][]int
	in        map[int][]int
	sources   []Source
}

// Assemble aggregates decoded parts into a Dataset. It performs no
// cross-field validation; see Validate.
func Assemble(name, version string, positions []decode.Point, labels []string, out, in map[int][]int, sources []Source) *Dataset {
	return &Dataset{
		name:      name,
		version:   version,
		positions: positions,
		labels:    labels,
		out:       out,
		in:        in,
		sources:   sources,
	}
}

// Name returns the dataset name.
func (d *Dataset) Name() string { return d.name }

// Version returns the loaded version.
func (d *Dataset) Version() string { return d.version }

// Positions returns the scaled node positions, indexed by node id.
func (d *Dataset) Positions() []decode.Point { return d.positions }

// Labels returns the node labels, indexed by node id.
func (d *Dataset) Labels() []string { return d.labels }

// Out returns the forward adjacency map.
func (d *Dataset) Out() map[int][]int { return d.out }

// In returns the backward adjacency map.
func (d *Dataset) In() map[int][]int { return d.in }

// Sources describes the downloaded files in fetch order.
func (d *Dataset) Sources() []Source { return d.sources }

// NodeCount is the number of positioned nodes.
func (d *Dataset) NodeCount() int { return len(d.positions) }

// OutLinks returns the targets of id in stream order and whether id was
// declared as a source.
func (d *Dataset) OutLinks(id int) ([]int, bool) {
	t, ok := d.out[id]
	return t, ok
}

// InLinks returns the sources pointing at id in discovery order and whether
// id has any.
func (d *Dataset) InLinks(id int) ([]int, bool) {
	s, ok := d.in[id]
	return s, ok
}

// EdgeCount is the total number of forward edges.
func (d *Dataset) EdgeCount() int {
	n := 0
	for _, targets := range d.out {
		n += len(targets)
	}
	return n
}

// Label returns the label of id, or "" if id has none.
func (d *Dataset) Label(id int) string {
	if id < 0 || id >= len(d.labels) {
		return ""
	}
	return d.labels[id]
}

// Validate reports node-count disagreements between positions, labels and
// links, at most one line per kind. Loading never calls it; an empty result
// means consistent.
func (d *Dataset) Validate() []string {
	var problems []string
	if len(d.labels) != len(d.positions) {
		problems = append(problems, fmt.Sprintf("%d labels for %d positions", len(d.labels), len(d.positions)))
	}
	n := len(d.positions)
	missing, first := 0, 0
	for _, id := range d.nodeIDs() {
		if id >= n {
			if missing == 0 {
				first = id
			}
			missing++
		}
	}
	if missing > 0 {
		problems = append(problems, fmt.Sprintf("links reference %d node ids without a position (smallest %d)", missing, first))
	}
	return problems
}

// nodeIDs returns every node id known to the dataset in ascending order:
// all positioned nodes plus any id that only appears in the links.
func (d *Dataset) nodeIDs() []int {
	seen := make(map[int]bool, len(d.positions))
	ids := make([]int, 0, len(d.positions))
	for i := range d.positions {
		seen[i] = true
		ids = append(ids, i)
	}
	add := func(id int) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for src, targets := range d.out {
		add(src)
		for _, t := range targets {
			add(t)
		}
	}
	sort.Ints(ids)
	return ids
}
