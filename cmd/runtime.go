package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/starmap/internal/config"
	"github.com/papapumpkin/starmap/internal/fetch"
	"github.com/papapumpkin/starmap/internal/loader"
	"github.com/papapumpkin/starmap/internal/notify"
	"github.com/papapumpkin/starmap/internal/pref"
	"github.com/papapumpkin/starmap/internal/telemetry"
	"github.com/papapumpkin/starmap/internal/ui"
)

// runtime bundles the collaborators every dataset command needs.
type runtime struct {
	cfg     config.Config
	store   pref.Store
	emitter *telemetry.Emitter
	bus     *notify.Bus
	printer *ui.Printer
	loader  *loader.Loader
}

func newRuntime(cmd *cobra.Command) (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	store, err := pref.Open(ctx, cfg.PrefBackend, cfg.PrefPath)
	if err != nil {
		return nil, err
	}

	var emitter *telemetry.Emitter
	if cfg.TelemetryPath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.TelemetryPath), 0o755); err != nil {
			closeStore(store)
			return nil, fmt.Errorf("telemetry: create directory: %w", err)
		}
		emitter, err = telemetry.NewEmitter(cfg.TelemetryPath)
		if err != nil {
			closeStore(store)
			return nil, err
		}
	}

	errOut := cmd.ErrOrStderr()
	printer := ui.New(errOut, colorEnabled(errOut))
	bus := &notify.Bus{}
	bus.Subscribe(printer)
	if emitter != nil {
		bus.Subscribe(telemetry.Sink{Emitter: emitter})
	}

	var logger io.Writer = io.Discard
	if cfg.Verbose {
		logger = errOut
	}

	return &runtime{
		cfg:     cfg,
		store:   store,
		emitter: emitter,
		bus:     bus,
		printer: printer,
		loader: loader.New(loader.Config{
			BaseURL:   cfg.BaseURL,
			Fetcher:   fetch.New(cfg.BaseURL, cfg.HTTPTimeout),
			Prefs:     store,
			Scale:     loader.FixedScale(cfg.ScaleFactor),
			Sink:      bus,
			Telemetry: emitter,
			Logger:    logger,
		}),
	}, nil
}

// Close releases the emitter and the pin store.
func (r *runtime) Close() {
	if err := r.emitter.Close(); err != nil {
		r.printer.Warning(err.Error())
	}
	closeStore(r.store)
}

func closeStore(s pref.Store) {
	if c, ok := s.(io.Closer); ok {
		c.Close()
	}
}

// colorEnabled reports whether w is a terminal and NO_COLOR is unset.
func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
