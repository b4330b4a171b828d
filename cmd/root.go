package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "starmap",
	Short: "Fetch and decode versioned graph datasets",
	Long: `starmap downloads a versioned graph dataset (node positions, labels and links),
reconciles the published versions with the locally pinned one, and decodes the
binary files into an in-memory graph.`,
	SilenceUsage: true,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "config file (default .starmap.yaml)")
	pf.BoolP("verbose", "v", false, "verbose output")
	pf.String("base-url", "", "dataset store root (https:// URL or local mirror directory)")
	pf.Float64("scale", 1, "scale factor applied to every position component")
	pf.String("pref-backend", "", "pin store backend: memory, toml or sqlite")
	pf.String("pref-path", "", "pin store file")
	pf.String("telemetry", "", "append JSONL telemetry events to this file")

	for key, flag := range map[string]string{
		"verbose":        "verbose",
		"base_url":       "base-url",
		"scale_factor":   "scale",
		"pref_backend":   "pref-backend",
		"pref_path":      "pref-path",
		"telemetry_path": "telemetry",
	} {
		_ = viper.BindPFlag(key, pf.Lookup(flag))
	}
}

func initConfig() {
	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".starmap")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
	}

	viper.SetEnvPrefix("STARMAP")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}
