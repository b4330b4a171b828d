// Package loader runs the dataset load pipeline: fetch the manifest, settle
// on a version, then fetch and decode positions, links and labels in that
// fixed order before assembling the dataset.
//
// Every step is awaited before the next begins. A failure at any step ends
// the load with that step's error: no later file is requested and no
// partial dataset is returned. Failures match manifest.ErrManifestInvalid,
// decode.ErrDataMalformed or fetch.ErrTransport under errors.Is.
package loader

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"lukechampine.com/blake3"

	"github.com/papapumpkin/starmap/internal/decode"
	"github.com/papapumpkin/starmap/internal/fetch"
	"github.com/papapumpkin/starmap/internal/graph"
	"github.com/papapumpkin/starmap/internal/manifest"
	"github.com/papapumpkin/starmap/internal/notify"
	"github.com/papapumpkin/starmap/internal/pref"
	"github.com/papapumpkin/starmap/internal/telemetry"
)

// ScaleProvider supplies the factor applied to every position component.
type ScaleProvider interface {
	ScaleFactor() float64
}

// FixedScale is a constant ScaleProvider.
type FixedScale float64

// ScaleFactor returns s.
func (s FixedScale) ScaleFactor() float64 { return float64(s) }

// ProgressEvent reports download progress of one data file.
type ProgressEvent struct {
	Dataset string
	File    graph.FileKind
	Percent float64
}

// ProgressFunc receives progress events. Percentages for one file never
// decrease and stay within [0, 100].
type ProgressFunc func(ProgressEvent)

// Config holds the collaborators of a Loader. Fetcher, Prefs and BaseURL are
// required; the rest default to no-ops and a scale of 1.
type Config struct {
	BaseURL   string
	Fetcher   fetch.Fetcher
	Prefs     pref.Store
	Scale     ScaleProvider
	Sink      notify.Sink
	Telemetry *telemetry.Emitter
	Logger    io.Writer
	// Now stamps the manifest cache-busting parameter. Defaults to time.Now.
	Now func() time.Time
}

// Loader loads datasets. Independent loads may run concurrently on one
// Loader; it holds no per-load state.
type Loader struct {
	baseURL   string
	fetcher   fetch.Fetcher
	prefs     pref.Store
	scale     ScaleProvider
	sink      notify.Sink
	telemetry *telemetry.Emitter
	logger    io.Writer
	now       func() time.Time
}

// New creates a Loader from cfg.
func New(cfg Config) *Loader {
	l := &Loader{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		fetcher:   cfg.Fetcher,
		prefs:     cfg.Prefs,
		scale:     cfg.Scale,
		sink:      cfg.Sink,
		telemetry: cfg.Telemetry,
		logger:    cfg.Logger,
		now:       cfg.Now,
	}
	if l.scale == nil {
		l.scale = FixedScale(1)
	}
	if l.sink == nil {
		l.sink = notify.Nop{}
	}
	if l.logger == nil {
		l.logger = io.Discard
	}
	if l.now == nil {
		l.now = time.Now
	}
	return l
}

// DatasetURL returns <base>/<name>.
func (l *Loader) DatasetURL(name string) string {
	return l.baseURL + "/" + url.PathEscape(name)
}

// VersionURL returns <base>/<name>/<version>.
func (l *Loader) VersionURL(name, version string) string {
	return l.DatasetURL(name) + "/" + url.PathEscape(version)
}

// Manifest fetches and parses the manifest of name.
func (l *Loader) Manifest(ctx context.Context, name string) (manifest.Manifest, error) {
	u := l.DatasetURL(name) + "/" + manifest.FileName + "?nocache=" + strconv.FormatInt(l.now().UnixMilli(), 10)
	raw, err := l.fetcher.Fetch(ctx, u, fetch.JSON, nil)
	if err != nil {
		return manifest.Manifest{}, fmt.Errorf("loader: fetch manifest of %s: %w", name, err)
	}
	m, err := manifest.Parse(raw)
	if err != nil {
		return manifest.Manifest{}, fmt.Errorf("loader: %s: %w", name, err)
	}
	return m, nil
}

// Resolve fetches the manifest of name and reconciles it with the stored pin
// without persisting anything.
func (l *Loader) Resolve(ctx context.Context, name string) (manifest.Manifest, string, error) {
	m, err := l.Manifest(ctx, name)
	if err != nil {
		return manifest.Manifest{}, "", err
	}
	pinned, ok, err := l.prefs.Get(ctx, name)
	if err != nil {
		return manifest.Manifest{}, "", fmt.Errorf("loader: read pin of %s: %w", name, err)
	}
	version, err := manifest.Resolve(m, pinned, ok)
	if err != nil {
		return manifest.Manifest{}, "", fmt.Errorf("loader: %s: %w", name, err)
	}
	if ok && version != pinned {
		fmt.Fprintf(l.logger, "warning: %s: pinned version %q is not approved, using %q\n", name, pinned, version)
	}
	return m, version, nil
}

// Load runs the full pipeline for name. onProgress may be nil.
func (l *Loader) Load(ctx context.Context, name string, onProgress ProgressFunc) (ds *graph.Dataset, err error) {
	l.emit(telemetry.Event{Kind: telemetry.KindLoadStart, Dataset: name})
	defer func() {
		if err != nil {
			l.emit(telemetry.Event{Kind: telemetry.KindLoadFailed, Dataset: name, Data: map[string]string{"error": err.Error()}})
		}
	}()

	_, version, err := l.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	// The resolved version is always written back, even when unchanged.
	if err := l.prefs.Set(ctx, name, version); err != nil {
		return nil, fmt.Errorf("loader: persist pin of %s: %w", name, err)
	}
	l.emit(telemetry.Event{Kind: telemetry.KindVersionResolved, Dataset: name, Version: version})
	fmt.Fprintf(l.logger, "%s: using version %s\n", name, version)

	base := l.VersionURL(name, version)
	sources := make([]graph.Source, 0, 3)

	raw, src, err := l.fetchFile(ctx, name, base, graph.FilePositions, onProgress)
	if err != nil {
		return nil, err
	}
	sources = append(sources, src)
	positions, err := decodePositions(raw, l.scale.ScaleFactor())
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", src.URL, err)
	}
	l.sink.PositionsReady(name, positions)

	raw, src, err = l.fetchFile(ctx, name, base, graph.FileLinks, onProgress)
	if err != nil {
		return nil, err
	}
	sources = append(sources, src)
	out, in, err := decodeLinks(raw)
	if err != nil {
		return nil, fmt.Errorf("loader: %s: %w", src.URL, err)
	}
	l.sink.LinksReady(name, out, in)

	raw, src, err = l.fetchFile(ctx, name, base, graph.FileLabels, onProgress)
	if err != nil {
		return nil, err
	}
	sources = append(sources, src)
	var labels []string
	if err := json.Unmarshal(raw, &labels); err != nil {
		return nil, fmt.Errorf("loader: %s: %w: %v", src.URL, decode.ErrDataMalformed, err)
	}
	if labels == nil {
		return nil, fmt.Errorf("loader: %s: %w: labels are null", src.URL, decode.ErrDataMalformed)
	}
	l.sink.LabelsReady(name, labels)

	ds = graph.Assemble(name, version, positions, labels, out, in, sources)
	l.emit(telemetry.Event{Kind: telemetry.KindLoadDone, Dataset: name, Version: version, Data: map[string]int{
		"nodes": ds.NodeCount(),
		"edges": ds.EdgeCount(),
	}})
	return ds, nil
}

func (l *Loader) fetchFile(ctx context.Context, name, base string, kind graph.FileKind, onProgress ProgressFunc) ([]byte, graph.Source, error) {
	u := base + "/" + kind.FileName()
	rk := fetch.Bytes
	if kind == graph.FileLabels {
		rk = fetch.JSON
	}
	raw, err := l.fetcher.Fetch(ctx, u, rk, monotonic(name, kind, onProgress))
	if err != nil {
		return nil, graph.Source{}, fmt.Errorf("loader: fetch %s of %s: %w", kind, name, err)
	}
	sum := blake3.Sum256(raw)
	return raw, graph.Source{Kind: kind, URL: u, Size: len(raw), Digest: hex.EncodeToString(sum[:])}, nil
}

func (l *Loader) emit(evt telemetry.Event) {
	if err := l.telemetry.Emit(evt); err != nil {
		fmt.Fprintf(l.logger, "warning: %v\n", err)
	}
}

func decodePositions(raw []byte, scale float64) ([]decode.Point, error) {
	tokens, err := decode.Int32s(raw)
	if err != nil {
		return nil, err
	}
	return decode.Positions(tokens, scale)
}

func decodeLinks(raw []byte) (out, in map[int][]int, err error) {
	tokens, err := decode.Int32s(raw)
	if err != nil {
		return nil, nil, err
	}
	return decode.Links(tokens)
}

// monotonic wraps onProgress so that a file's reported percentages are
// clamped to [0, 100] and never go backwards.
func monotonic(name string, kind graph.FileKind, onProgress ProgressFunc) fetch.ProgressFunc {
	if onProgress == nil {
		return nil
	}
	last := -1.0
	return func(p float64) {
		if math.IsNaN(p) {
			return
		}
		p = min(max(p, 0), 100)
		if p <= last {
			return
		}
		last = p
		onProgress(ProgressEvent{Dataset: name, File: kind, Percent: p})
	}
}
