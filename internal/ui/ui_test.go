package ui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/papapumpkin/starmap/internal/decode"
	"github.com/papapumpkin/starmap/internal/graph"
	"github.com/papapumpkin/starmap/internal/loader"
	"github.com/papapumpkin/starmap/internal/notify"
)

func testDataset(t *testing.T) *graph.Dataset {
	t.Helper()
	out, in, err := decode.Links([]int32{-1, 2, 3, -2, 1})
	if err != nil {
		t.Fatalf("decode.Links: %v", err)
	}
	sources := []graph.Source{{Kind: graph.FilePositions, URL: "u", Size: 36, Digest: strings.Repeat("ab", 32)}}
	return graph.Assemble("demo", "v1", make([]decode.Point, 3), []string{"root", "a", "b"}, out, in, sources)
}

func TestPrinter_PlainOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := New(&buf, false)
	var _ notify.Sink = p

	p.Resolved("demo", "v1", "v1", true)
	p.Progress(loader.ProgressEvent{Dataset: "demo", File: graph.FilePositions, Percent: 40})
	p.Progress(loader.ProgressEvent{Dataset: "demo", File: graph.FilePositions, Percent: 100})
	p.PositionsReady("demo", make([]decode.Point, 3))
	p.LinksReady("demo", map[int][]int{0: {1, 2}}, nil)
	p.LabelsReady("demo", []string{"x"})
	p.Loaded(testDataset(t))
	p.Warning("careful")

	want := strings.Join([]string{
		"◆ demo v1 (pinned)",
		"  demo positions 100%",
		"✓ positions 3 nodes",
		"✓ links     1 sources, 2 edges",
		"✓ labels    1 labels",
		"✓ loaded demo@v1: 3 nodes, 3 edges",
		"warning: careful",
		"",
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("output mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
	if strings.Contains(buf.String(), "\033[") {
		t.Error("plain printer emitted ANSI codes")
	}
}

func TestPrinter_Resolved(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		pinned  string
		pinSet  bool
		version string
		want    string
	}{
		{"latest", "", false, "v2", "◆ demo v2 (latest)\n"},
		{"pinned", "v1", true, "v1", "◆ demo v1 (pinned)\n"},
		{"fallback", "v0", true, "v2", "◆ demo v2 (pin \"v0\" not approved, using latest)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			New(&buf, false).Resolved("demo", tt.version, tt.pinned, tt.pinSet)
			if buf.String() != tt.want {
				t.Errorf("Resolved = %q, want %q", buf.String(), tt.want)
			}
		})
	}
}

func TestPrinter_ColorProgressTerminatesLine(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	p := New(&buf, true)
	p.Progress(loader.ProgressEvent{Dataset: "demo", File: graph.FileLinks, Percent: 50})
	p.Info("interrupt")

	out := buf.String()
	if !strings.Contains(out, "\033[2K") {
		t.Errorf("progress line not cleared: %q", out)
	}
	if !strings.Contains(out, "\n\033[2minterrupt") {
		t.Errorf("info line did not start on a fresh line: %q", out)
	}
}

func TestWriteSummary(t *testing.T) {
	t.Parallel()

	s := Summarize(testDataset(t))
	s.AddStats(testDataset(t), 2)

	if s.Nodes != 3 || s.Edges != 3 || s.Sources != 2 || s.Components != 1 || s.Largest != 3 {
		t.Errorf("unexpected summary: %+v", s)
	}
	if len(s.TopRanked) != 2 || s.TopRanked[0].Label != "root" {
		t.Errorf("TopRanked = %+v, want root first", s.TopRanked)
	}

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if err := WriteSummary(&buf, FormatJSON, s); err != nil {
			t.Fatalf("WriteSummary: %v", err)
		}
		var got Summary
		if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if got.Dataset != "demo" || got.Files[0].Digest != s.Files[0].Digest {
			t.Errorf("decoded summary = %+v", got)
		}
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if err := WriteSummary(&buf, FormatYAML, s); err != nil {
			t.Fatalf("WriteSummary: %v", err)
		}
		var got Summary
		if err := yaml.Unmarshal(buf.Bytes(), &got); err != nil {
			t.Fatalf("Unmarshal: %v", err)
		}
		if got.Version != "v1" || got.MaxOut != 2 {
			t.Errorf("decoded summary = %+v", got)
		}
	})

	t.Run("text", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		if err := WriteSummary(&buf, FormatText, s); err != nil {
			t.Fatalf("WriteSummary: %v", err)
		}
		for _, want := range []string{"dataset:  demo", "edges:    3 (from 2 sources)", "blake3:abababababababab", "1. root"} {
			if !strings.Contains(buf.String(), want) {
				t.Errorf("text summary missing %q:\n%s", want, buf.String())
			}
		}
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()
		if err := WriteSummary(&bytes.Buffer{}, "xml", s); err == nil {
			t.Error("WriteSummary(xml) succeeded, want error")
		}
	})
}
