package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/papapumpkin/starmap/internal/graph"
	"github.com/papapumpkin/starmap/internal/ui"
)

var loadCmd = &cobra.Command{
	Use:   "load <dataset>",
	Short: "Download and decode a dataset",
	Long: `Fetches the manifest of <dataset>, settles on a version (the pinned one when it
is still approved, the latest otherwise), records that version as the new pin,
then downloads and decodes positions, links and labels.`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	loadCmd.Flags().String("format", ui.FormatText, "summary format: text, json or yaml")
	rootCmd.AddCommand(loadCmd)
}

func runLoad(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ds, err := rt.load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return ui.WriteSummary(cmd.OutOrStdout(), format, ui.Summarize(ds))
}

// load runs one pipeline with terminal progress and reports the outcome.
func (rt *runtime) load(ctx context.Context, name string) (*graph.Dataset, error) {
	pinned, pinSet, err := rt.store.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	ds, err := rt.loader.Load(ctx, name, rt.printer.Progress)
	if err != nil {
		rt.printer.Error(err.Error())
		return nil, err
	}
	rt.printer.Resolved(name, ds.Version(), pinned, pinSet)
	rt.printer.Loaded(ds)
	return ds, nil
}
