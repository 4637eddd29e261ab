package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mslgit/mslgit-go/cmd/compare"
	"github.com/mslgit/mslgit-go/cmd/ingest"
	"github.com/mslgit/mslgit-go/cmd/mapping"
	"github.com/mslgit/mslgit-go/cmd/migration"
	"github.com/mslgit/mslgit-go/cmd/snapshot"
	"github.com/mslgit/mslgit-go/internal/conf"
	"github.com/mslgit/mslgit-go/internal/observability"
	"github.com/mslgit/mslgit-go/internal/observability/metrics"
)

// RootCommand creates and returns the root command
func RootCommand(settings *conf.Settings, m *observability.Metrics) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mslgit",
		Short: "Virus taxonomy version differ and migration mapper",
	}

	// Set up the global flags for the root command.
	setupFlags(rootCmd, settings)

	// Hand each subcommand the collectors it records into; the Record
	// methods tolerate nil so commands run fine without telemetry.
	var storeMetrics *metrics.StoreMetrics
	var diffMetrics *metrics.DiffMetrics
	if m != nil {
		storeMetrics = m.Store
		diffMetrics = m.Diff
	}

	// Add sub-commands to the root command.
	subcommands := []*cobra.Command{
		ingest.Command(settings, storeMetrics),
		snapshot.Command(settings, storeMetrics),
		compare.Command(settings, storeMetrics, diffMetrics),
		mapping.Command(settings, storeMetrics, diffMetrics),
		migration.Command(settings, storeMetrics),
	}

	rootCmd.AddCommand(subcommands...)

	return rootCmd
}

// setupFlags defines flags that are global to the command line interface
func setupFlags(rootCmd *cobra.Command, settings *conf.Settings) error {
	rootCmd.PersistentFlags().BoolVarP(&settings.Debug, "debug", "d", viper.GetBool("debug"), "Enable debug output")
	rootCmd.PersistentFlags().StringVar(&settings.Store.Path, "store", viper.GetString("store.path"), "Path to the taxonomy repository")
	rootCmd.PersistentFlags().BoolVar(&settings.Diff.DetectRenames, "detect-renames", viper.GetBool("diff.detectrenames"), "Re-join removed/added pairs that look like renames")
	rootCmd.PersistentFlags().Float64Var(&settings.Diff.RenameThreshold, "rename-threshold", viper.GetFloat64("diff.renamethreshold"), "Minimum score to accept a rename candidate, value between 0.0 and 1.0")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		return fmt.Errorf("error binding flags: %v", err)
	}

	return nil
}
