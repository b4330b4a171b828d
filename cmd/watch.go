package cmd

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/papapumpkin/starmap/internal/pref"
)

var watchCmd = &cobra.Command{
	Use:   "watch <dataset>",
	Short: "Reload a dataset whenever its pin changes",
	Long: `Loads <dataset>, then watches the TOML pin file. Whenever the pinned version is
changed to something other than the loaded version (for example with
"starmap pin" from another shell), the dataset is loaded again. Stop with Ctrl-C.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Duration("debounce", 200*time.Millisecond, "quiet period before reacting to a pin file change")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	debounce, _ := cmd.Flags().GetDuration("debounce")

	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	pinFile, ok := rt.store.(*pref.TOMLFile)
	if !ok {
		return fmt.Errorf("watch: requires the %s pin backend, have %s", pref.BackendTOML, rt.cfg.PrefBackend)
	}

	ctx := cmd.Context()
	name := args[0]
	ds, err := rt.load(ctx, name)
	if err != nil {
		return err
	}
	current := ds.Version()

	return watchPins(ctx, pinFile.Path(), debounce, func() error {
		pinned, pinSet, err := rt.store.Get(ctx, name)
		if err != nil {
			rt.printer.Warning(err.Error())
			return nil
		}
		if !needsReload(current, pinned, pinSet) {
			return nil
		}
		rt.printer.Info(fmt.Sprintf("%s: pin changed to %s, reloading", name, pinned))
		ds, err := rt.load(ctx, name)
		if err != nil {
			// A failed reload keeps the previous dataset; the error is already printed.
			return nil
		}
		current = ds.Version()
		return nil
	})
}

// needsReload reports whether a pin change should trigger a new load. Loads
// rewrite the pin themselves, so an unchanged version is ignored.
func needsReload(loaded, pinned string, pinSet bool) bool {
	return pinSet && pinned != loaded
}

// watchPins calls onChange after every debounced change to path until ctx
// is done. The parent directory is watched because pin files are replaced
// by rename.
func watchPins(ctx context.Context, path string, debounce time.Duration, onChange func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch: watch %s: %w", dir, err)
	}

	target := filepath.Clean(path)
	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(debounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch: %w", err)
		case <-timer.C:
			if err := onChange(); err != nil {
				return err
			}
		}
	}
}
