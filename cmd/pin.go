package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pinCmd = &cobra.Command{
	Use:   "pin <dataset> [version]",
	Short: "Pin, show or clear the version used for a dataset",
	Long: `Without a version, prints the current pin. With a version, checks it against the
manifest and stores it. --clear removes the pin so the next load uses the latest.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPin,
}

func init() {
	pinCmd.Flags().Bool("clear", false, "remove the pin")
	pinCmd.Flags().Bool("force", false, "store the version even if the manifest does not approve it")
	rootCmd.AddCommand(pinCmd)
}

func runPin(cmd *cobra.Command, args []string) error {
	clearPin, _ := cmd.Flags().GetBool("clear")
	force, _ := cmd.Flags().GetBool("force")

	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	name := args[0]
	w := cmd.OutOrStdout()

	switch {
	case clearPin:
		if len(args) > 1 {
			return fmt.Errorf("pin: --clear takes no version")
		}
		if err := rt.store.Clear(ctx, name); err != nil {
			return err
		}
		fmt.Fprintf(w, "%s: pin cleared\n", name)
		return nil

	case len(args) == 1:
		v, ok, err := rt.store.Get(ctx, name)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintf(w, "%s: not pinned\n", name)
			return nil
		}
		fmt.Fprintf(w, "%s: %s\n", name, v)
		return nil
	}

	version := args[1]
	if !force {
		m, err := rt.loader.Manifest(ctx, name)
		if err != nil {
			return err
		}
		if !m.Approved(version) {
			return fmt.Errorf("pin: %s is not an approved version of %s (use --force to pin anyway)", version, name)
		}
	}
	if err := rt.store.Set(ctx, name, version); err != nil {
		return err
	}
	fmt.Fprintf(w, "%s: pinned %s\n", name, version)
	return nil
}
