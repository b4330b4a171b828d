// Package ui renders load progress and dataset summaries for the terminal.
package ui

import (
	"fmt"
	"io"
	"sync"

	"github.com/papapumpkin/starmap/internal/ansi"
	"github.com/papapumpkin/starmap/internal/decode"
	"github.com/papapumpkin/starmap/internal/graph"
	"github.com/papapumpkin/starmap/internal/loader"
)

const barWidth = 24

// Printer writes styled status lines. It also acts as a notify.Sink so it
// can be subscribed to a load's notifications. Safe for concurrent use.
type Printer struct {
	w     io.Writer
	color bool
	mu    sync.Mutex
	// inProgress is set while a progress line is drawn without a newline.
	inProgress bool
}

// New returns a Printer writing to w. color selects ANSI styling.
func New(w io.Writer, color bool) *Printer {
	return &Printer{w: w, color: color}
}

func (p *Printer) style(codes, s string) string {
	if !p.color {
		return s
	}
	return codes + s + ansi.Reset
}

// printf writes a full line, first terminating any pending progress line.
func (p *Printer) printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.inProgress {
		fmt.Fprintln(p.w)
		p.inProgress = false
	}
	fmt.Fprintf(p.w, format, args...)
}

// Progress redraws the progress line of the file being fetched. Without
// color the line is only written on completion.
func (p *Printer) Progress(e loader.ProgressEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.color {
		if e.Percent >= 100 {
			fmt.Fprintf(p.w, "  %s %s 100%%\n", e.Dataset, e.File)
		}
		return
	}
	fmt.Fprintf(p.w, ansi.ClearLine+"  "+ansi.Dim+"%s %-9s"+ansi.Reset+" %s %5.1f%%", e.Dataset, e.File, ansi.Bar(e.Percent, barWidth), e.Percent)
	p.inProgress = e.Percent < 100
	if !p.inProgress {
		fmt.Fprintln(p.w)
	}
}

// Resolved announces the version a load will use.
func (p *Printer) Resolved(dataset, version, pinned string, pinSet bool) {
	switch {
	case !pinSet:
		p.printf("%s %s %s\n", p.style(ansi.Bold+ansi.Cyan, "◆ "+dataset), version, p.style(ansi.Dim, "(latest)"))
	case pinned == version:
		p.printf("%s %s %s\n", p.style(ansi.Bold+ansi.Cyan, "◆ "+dataset), version, p.style(ansi.Dim, "(pinned)"))
	default:
		p.printf("%s %s %s\n", p.style(ansi.Bold+ansi.Cyan, "◆ "+dataset), version,
			p.style(ansi.Yellow, fmt.Sprintf("(pin %q not approved, using latest)", pinned)))
	}
}

// PositionsReady prints the decoded node count.
func (p *Printer) PositionsReady(dataset string, positions []decode.Point) {
	p.printf("%s positions %s\n", p.style(ansi.Green, "✓"), p.style(ansi.Dim, fmt.Sprintf("%d nodes", len(positions))))
}

// LinksReady prints the source and edge counts.
func (p *Printer) LinksReady(dataset string, out, _ map[int][]int) {
	edges := 0
	for _, t := range out {
		edges += len(t)
	}
	p.printf("%s links     %s\n", p.style(ansi.Green, "✓"), p.style(ansi.Dim, fmt.Sprintf("%d sources, %d edges", len(out), edges)))
}

// LabelsReady prints the label count.
func (p *Printer) LabelsReady(dataset string, labels []string) {
	p.printf("%s labels    %s\n", p.style(ansi.Green, "✓"), p.style(ansi.Dim, fmt.Sprintf("%d labels", len(labels))))
}

// Loaded prints the closing line of a successful load.
func (p *Printer) Loaded(ds *graph.Dataset) {
	p.printf("%s %s@%s: %d nodes, %d edges\n", p.style(ansi.Green+ansi.Bold, "✓ loaded"), ds.Name(), ds.Version(), ds.NodeCount(), ds.EdgeCount())
}

// Warning prints msg in yellow.
func (p *Printer) Warning(msg string) {
	p.printf("%s%s\n", p.style(ansi.Yellow+ansi.Bold, "warning: "), msg)
}

// Error prints msg in red.
func (p *Printer) Error(msg string) {
	p.printf("%s%s\n", p.style(ansi.Red+ansi.Bold, "error: "), msg)
}

// Info prints msg dimmed.
func (p *Printer) Info(msg string) {
	p.printf("%s\n", p.style(ansi.Dim, msg))
}
