package cmd

import (
	"github.com/spf13/cobra"

	"github.com/papapumpkin/starmap/internal/ui"
)

var statsCmd = &cobra.Command{
	Use:   "stats <dataset>",
	Short: "Load a dataset and print graph statistics",
	Long: `Loads <dataset> like "load" does, then reports weakly connected components,
maximum degrees and the highest ranked nodes by PageRank.`,
	Args: cobra.ExactArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().String("format", ui.FormatText, "output format: text, json or yaml")
	statsCmd.Flags().IntP("top", "n", 10, "number of top ranked nodes to list")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	top, _ := cmd.Flags().GetInt("top")

	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ds, err := rt.load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	s := ui.Summarize(ds)
	s.AddStats(ds, top)
	return ui.WriteSummary(cmd.OutOrStdout(), format, s)
}
