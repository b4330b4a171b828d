package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/papapumpkin/starmap/internal/graph"
)

// Output formats accepted by WriteSummary.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// RankedNode is one entry of a PageRank listing.
type RankedNode struct {
	ID    int     `json:"id" yaml:"id"`
	Label string  `json:"label" yaml:"label"`
	Score float64 `json:"score" yaml:"score"`
}

// Summary describes a loaded dataset. Stats fields are filled only by the
// stats command.
type Summary struct {
	Dataset    string         `json:"dataset" yaml:"dataset"`
	Version    string         `json:"version" yaml:"version"`
	Nodes      int            `json:"nodes" yaml:"nodes"`
	Labels     int            `json:"labels" yaml:"labels"`
	Sources    int            `json:"sources" yaml:"sources"`
	Edges      int            `json:"edges" yaml:"edges"`
	Files      []graph.Source `json:"files" yaml:"files"`
	Problems   []string       `json:"problems,omitempty" yaml:"problems,omitempty"`
	Components int            `json:"components,omitempty" yaml:"components,omitempty"`
	Largest    int            `json:"largest_component,omitempty" yaml:"largest_component,omitempty"`
	MaxIn      int            `json:"max_in_degree,omitempty" yaml:"max_in_degree,omitempty"`
	MaxOut     int            `json:"max_out_degree,omitempty" yaml:"max_out_degree,omitempty"`
	TopRanked  []RankedNode   `json:"top_ranked,omitempty" yaml:"top_ranked,omitempty"`
}

// Summarize builds the basic summary of ds.
func Summarize(ds *graph.Dataset) Summary {
	return Summary{
		Dataset:  ds.Name(),
		Version:  ds.Version(),
		Nodes:    ds.NodeCount(),
		Labels:   len(ds.Labels()),
		Sources:  len(ds.Out()),
		Edges:    ds.EdgeCount(),
		Files:    ds.Sources(),
		Problems: ds.Validate(),
	}
}

// AddStats fills the analysis fields of s from ds, listing the top n nodes
// by PageRank.
func (s *Summary) AddStats(ds *graph.Dataset, n int) {
	comps := ds.Components()
	s.Components = len(comps)
	if len(comps) > 0 {
		s.Largest = len(comps[0])
	}
	for _, d := range ds.Degrees() {
		s.MaxIn = max(s.MaxIn, d.In)
		s.MaxOut = max(s.MaxOut, d.Out)
	}

	rank := ds.PageRank(graph.DefaultPageRankOptions())
	ranked := make([]RankedNode, 0, len(rank))
	for id, score := range rank {
		ranked = append(ranked, RankedNode{ID: id, Label: ds.Label(id), Score: score})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].ID < ranked[j].ID
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	s.TopRanked = ranked
}

// WriteSummary renders s in format.
func WriteSummary(w io.Writer, format string, s Summary) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		return writeText(w, s)
	}
	return fmt.Errorf("unknown format %q (want text, json or yaml)", format)
}

func writeText(w io.Writer, s Summary) error {
	var b strings.Builder
	fmt.Fprintf(&b, "dataset:  %s\n", s.Dataset)
	fmt.Fprintf(&b, "version:  %s\n", s.Version)
	fmt.Fprintf(&b, "nodes:    %d\n", s.Nodes)
	fmt.Fprintf(&b, "labels:   %d\n", s.Labels)
	fmt.Fprintf(&b, "edges:    %d (from %d sources)\n", s.Edges, s.Sources)
	for _, f := range s.Files {
		fmt.Fprintf(&b, "  %-9s %10d bytes  blake3:%s\n", f.Kind, f.Size, shortDigest(f.Digest))
	}
	if s.Components > 0 {
		fmt.Fprintf(&b, "components: %d (largest %d)\n", s.Components, s.Largest)
		fmt.Fprintf(&b, "max degree: in %d, out %d\n", s.MaxIn, s.MaxOut)
	}
	if len(s.TopRanked) > 0 {
		b.WriteString("top ranked:\n")
		for i, r := range s.TopRanked {
			fmt.Fprintf(&b, "  %2d. %-30s %.6f\n", i+1, displayLabel(r), r.Score)
		}
	}
	for _, p := range s.Problems {
		fmt.Fprintf(&b, "note: %s\n", p)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func shortDigest(d string) string {
	if len(d) > 16 {
		return d[:16]
	}
	return d
}

func displayLabel(r RankedNode) string {
	if r.Label == "" {
		return fmt.Sprintf("#%d", r.ID)
	}
	return r.Label
}
