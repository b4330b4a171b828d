package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"
)

var versionsCmd = &cobra.Command{
	Use:   "versions <dataset>",
	Short: "List published versions and the one a load would use",
	Args:  cobra.ExactArgs(1),
	RunE:  runVersions,
}

func init() {
	rootCmd.AddCommand(versionsCmd)
}

func runVersions(cmd *cobra.Command, args []string) error {
	rt, err := newRuntime(cmd)
	if err != nil {
		return err
	}
	defer rt.Close()

	name := args[0]
	m, resolved, err := rt.loader.Resolve(cmd.Context(), name)
	if err != nil {
		return err
	}
	pinned, pinSet, err := rt.store.Get(cmd.Context(), name)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	versions := slices.Clone(m.ApprovedVersions)
	if m.LastVersion != "" && !m.Approved(m.LastVersion) {
		versions = append(versions, m.LastVersion)
	}
	for _, v := range versions {
		marker := " "
		if v == resolved {
			marker = "*"
		}
		var tags []string
		if v == m.LastVersion {
			tags = append(tags, "latest")
		}
		if pinSet && v == pinned {
			tags = append(tags, "pinned")
		}
		if len(tags) > 0 {
			fmt.Fprintf(w, "%s %s %v\n", marker, v, tags)
		} else {
			fmt.Fprintf(w, "%s %s\n", marker, v)
		}
	}
	if pinSet && !m.Approved(pinned) {
		fmt.Fprintf(w, "pinned %s is not approved\n", pinned)
	}
	return nil
}
