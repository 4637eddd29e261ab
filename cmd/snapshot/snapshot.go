package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mslgit/mslgit-go/internal/conf"
	"github.com/mslgit/mslgit-go/internal/mslstore"
	"github.com/mslgit/mslgit-go/internal/observability/metrics"
)

// Command creates the snapshot command for inspecting committed releases.
func Command(settings *conf.Settings, storeMetrics *metrics.StoreMetrics) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Inspect committed taxonomy releases",
	}

	cmd.AddCommand(listCommand(settings, storeMetrics), showCommand(settings, storeMetrics))

	return cmd
}

func listCommand(settings *conf.Settings, storeMetrics *metrics.StoreMetrics) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all committed version labels",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := mslstore.New(settings, storeMetrics)
			if err != nil {
				return err
			}
			versions, err := store.ListVersions()
			if err != nil {
				return err
			}
			for _, version := range versions {
				fmt.Println(version)
			}
			return nil
		},
	}
}

func showCommand(settings *conf.Settings, storeMetrics *metrics.StoreMetrics) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show [label]",
		Short: "Show the entities of one committed release",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := mslstore.New(settings, storeMetrics)
			if err != nil {
				return err
			}
			snapshot, err := store.GetSnapshot(args[0])
			if err != nil {
				return err
			}

			if asJSON {
				encoder := json.NewEncoder(os.Stdout)
				encoder.SetIndent("", "  ")
				return encoder.Encode(snapshot.Entities)
			}

			names := snapshot.Names()
			sort.Strings(names)
			for _, name := range names {
				entity, _ := snapshot.Get(name)
				fmt.Printf("%-50s family=%s genus=%s\n",
					name, entity.Classification.Family, entity.Classification.Genus)
			}
			fmt.Printf("\n%s: %d entities\n", snapshot.Version, snapshot.Len())
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output entities as JSON")

	return cmd
}
