package mapping

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mslgit/mslgit-go/internal/conf"
	"github.com/mslgit/mslgit-go/internal/migration"
	"github.com/mslgit/mslgit-go/internal/mslstore"
	"github.com/mslgit/mslgit-go/internal/observability/metrics"
)

// Command creates the mapping command for building entity mappings
// between two releases and applying them to external datasets.
func Command(settings *conf.Settings, storeMetrics *metrics.StoreMetrics, diffMetrics *metrics.DiffMetrics) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mapping",
		Short: "Build and apply version-to-version entity mappings",
	}

	cmd.AddCommand(exportCommand(settings, storeMetrics, diffMetrics), applyCommand(settings, storeMetrics, diffMetrics))

	return cmd
}

func exportCommand(settings *conf.Settings, storeMetrics *metrics.StoreMetrics, diffMetrics *metrics.DiffMetrics) *cobra.Command {
	var format string
	var output string

	cmd := &cobra.Command{
		Use:   "export [source] [target]",
		Short: "Export the entity mapping between two releases",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			mapping, err := buildMapping(settings, storeMetrics, diffMetrics, args[0], args[1])
			if err != nil {
				return err
			}

			out, closeOut, err := openOutput(output)
			if err != nil {
				return err
			}
			defer closeOut()

			switch format {
			case "csv":
				return migration.ExportCSV(out, mapping)
			case "json":
				return migration.ExportJSON(out, mapping)
			default:
				return fmt.Errorf("unsupported mapping format: %s", format)
			}
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "csv", "Output format: csv, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Path to output file, stdout when empty")

	return cmd
}

func applyCommand(settings *conf.Settings, storeMetrics *metrics.StoreMetrics, diffMetrics *metrics.DiffMetrics) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "apply [source] [target] [dataset.csv]",
		Short: "Rewrite a dataset's classifications to a newer release",
		Long: `Apply the entity mapping between two releases to a CSV dataset: rows
are annotated with mapping status and confidence, and classification
columns are updated to the target release's values.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			mapping, err := buildMapping(settings, storeMetrics, diffMetrics, args[0], args[1])
			if err != nil {
				return err
			}

			f, err := os.Open(args[2])
			if err != nil {
				return err
			}
			defer f.Close()

			dataset, err := migration.ReadDataset(f)
			if err != nil {
				return err
			}
			transformed := migration.ApplyMapping(dataset, mapping, settings.Mapping.NameColumn)

			out, closeOut, err := openOutput(output)
			if err != nil {
				return err
			}
			defer closeOut()

			return migration.WriteDataset(out, transformed)
		},
	}

	cmd.Flags().StringVar(&settings.Mapping.NameColumn, "name-column", viper.GetString("mapping.namecolumn"), "Entity name column of the dataset")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Path to output file, stdout when empty")

	return cmd
}

func buildMapping(settings *conf.Settings, storeMetrics *metrics.StoreMetrics, diffMetrics *metrics.DiffMetrics, source, target string) (migration.Mapping, error) {
	store, err := mslstore.New(settings, storeMetrics)
	if err != nil {
		return nil, err
	}
	mapper, err := migration.NewMapper(store, settings, diffMetrics)
	if err != nil {
		return nil, err
	}
	return mapper.BuildMapping(source, target)
}

// openOutput returns the output writer and a close function; an empty
// path selects stdout.
func openOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
