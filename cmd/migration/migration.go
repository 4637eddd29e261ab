package migration

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/mslgit/mslgit-go/internal/conf"
	analyze "github.com/mslgit/mslgit-go/internal/migration"
	"github.com/mslgit/mslgit-go/internal/mslstore"
	"github.com/mslgit/mslgit-go/internal/observability/metrics"
	"github.com/mslgit/mslgit-go/internal/taxonomy"
)

// Command creates the migration command for tabulating how a group's
// members redistributed between two releases.
func Command(settings *conf.Settings, storeMetrics *metrics.StoreMetrics) *cobra.Command {
	var rankName string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "migration [versionA] [versionB] [groups...]",
		Short: "Analyze group membership migration between two releases",
		Long: `Tabulate, for each group at the given rank, where its members ended up
in the newer release. Without group arguments every group present in
the older release is analyzed.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigration(settings, storeMetrics, args[0], args[1], args[2:], rankName, asJSON)
		},
	}

	cmd.Flags().StringVarP(&rankName, "rank", "r", "family", "Rank of the groups to analyze")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the migration tables as JSON")

	return cmd
}

func runMigration(settings *conf.Settings, storeMetrics *metrics.StoreMetrics, versionA, versionB string, groups []string, rankName string, asJSON bool) error {
	rank, ok := taxonomy.RankFromString(rankName)
	if !ok {
		return fmt.Errorf("unknown rank: %s", rankName)
	}

	store, err := mslstore.New(settings, storeMetrics)
	if err != nil {
		return err
	}

	a, err := store.GetSnapshot(versionA)
	if err != nil {
		return err
	}
	b, err := store.GetSnapshot(versionB)
	if err != nil {
		return err
	}

	result, err := analyze.AnalyzeMigration(a, b, rank, groups)
	if err != nil {
		return err
	}

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	}

	sourceGroups := make([]string, 0, len(result))
	for group := range result {
		sourceGroups = append(sourceGroups, group)
	}
	sort.Strings(sourceGroups)

	for _, group := range sourceGroups {
		migration := result[group]
		fmt.Printf("%s (%d entities)\n", group, migration.TotalEntities())

		destinations := make([]string, 0, len(migration.DestinationCounts))
		for destination := range migration.DestinationCounts {
			destinations = append(destinations, destination)
		}
		sort.Strings(destinations)
		for _, destination := range destinations {
			fmt.Printf("  → %-30s %d\n", destination, migration.DestinationCounts[destination])
		}
	}
	return nil
}
