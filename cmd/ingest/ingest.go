package ingest

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mslgit/mslgit-go/internal/conf"
	"github.com/mslgit/mslgit-go/internal/mslstore"
	"github.com/mslgit/mslgit-go/internal/observability/metrics"
	"github.com/mslgit/mslgit-go/internal/taxonomy"
)

// Command creates the ingest command for committing a release into the
// taxonomy store.
func Command(settings *conf.Settings, storeMetrics *metrics.StoreMetrics) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest [label] [path]",
		Short: "Commit a release into the taxonomy store",
		Long: `Read a release from a directory of per-entity YAML records or a CSV
export and commit it to the store as one snapshot, tagged with the
version label.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIngest(settings, storeMetrics, args[0], args[1])
		},
	}

	setupFlags(cmd, settings)

	return cmd
}

// setupFlags configures flags specific to the ingest command.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.Flags().StringVar(&settings.Mapping.NameColumn, "name-column", viper.GetString("mapping.namecolumn"), "Entity name column for CSV releases")
}

func runIngest(settings *conf.Settings, storeMetrics *metrics.StoreMetrics, label, path string) error {
	store, err := mslstore.New(settings, storeMetrics)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read release at %s: %w", path, err)
	}

	var snapshot *taxonomy.Snapshot
	if info.IsDir() {
		snapshot, err = mslstore.LoadReleaseDir(path, label)
	} else {
		var f *os.File
		f, err = os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		snapshot, err = mslstore.LoadReleaseCSV(f, label, settings.Mapping.NameColumn)
	}
	if err != nil {
		return err
	}

	if err := store.CommitSnapshot(snapshot); err != nil {
		return err
	}

	fmt.Printf("Committed %s with %d entities\n", label, snapshot.Len())
	return nil
}
