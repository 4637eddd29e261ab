package compare

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mslgit/mslgit-go/internal/conf"
	"github.com/mslgit/mslgit-go/internal/diff"
	"github.com/mslgit/mslgit-go/internal/mslstore"
	"github.com/mslgit/mslgit-go/internal/observability/metrics"
)

// report is the full JSON output of one comparison run.
type report struct {
	VersionA     string                 `json:"version_a"`
	VersionB     string                 `json:"version_b"`
	Added        []string               `json:"added,omitempty"`
	Removed      []string               `json:"removed,omitempty"`
	Unchanged    int                    `json:"unchanged"`
	Changed      []diff.Change          `json:"changed,omitempty"`
	Renamed      []diff.RenameCandidate `json:"renamed,omitempty"`
	Summary      diff.Report            `json:"summary"`
	QualityScore float64                `json:"quality_score"`
}

// Command creates the compare command for diffing two committed releases.
func Command(settings *conf.Settings, storeMetrics *metrics.StoreMetrics, diffMetrics *metrics.DiffMetrics) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "compare [versionA] [versionB]",
		Short: "Compare two committed releases",
		Long: `Compute the structured diff between two committed releases: per-entity
change classification, validation and an aggregate summary.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompare(settings, storeMetrics, diffMetrics, args[0], args[1], asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the full comparison as JSON")

	return cmd
}

func runCompare(settings *conf.Settings, storeMetrics *metrics.StoreMetrics, diffMetrics *metrics.DiffMetrics, versionA, versionB string, asJSON bool) error {
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

	opts := diff.OptionsFromSettings(settings)
	opts.Metrics = diffMetrics
	result, err := diff.Compare(a, b, opts)
	if err != nil {
		return err
	}

	summary := diff.NewSummary()
	for i := range result.Changed {
		summary.AddChange(&result.Changed[i])
	}

	if asJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(report{
			VersionA:     result.VersionA,
			VersionB:     result.VersionB,
			Added:        result.Added,
			Removed:      result.Removed,
			Unchanged:    len(result.Unchanged),
			Changed:      result.Changed,
			Renamed:      result.Renamed,
			Summary:      summary.Report(),
			QualityScore: summary.QualityScore(),
		})
	}

	fmt.Printf("%s → %s\n", result.VersionA, result.VersionB)
	fmt.Printf("  added:     %d\n", len(result.Added))
	fmt.Printf("  removed:   %d\n", len(result.Removed))
	fmt.Printf("  unchanged: %d\n", len(result.Unchanged))
	fmt.Printf("  changed:   %d\n", len(result.Changed))
	if len(result.Renamed) > 0 {
		fmt.Printf("  renamed:   %d\n", len(result.Renamed))
		for _, rename := range result.Renamed {
			fmt.Printf("    %s → %s (score %.2f)\n", rename.OldName, rename.NewName, rename.Score)
		}
	}
	for _, change := range result.Changed {
		fmt.Printf("  %s [%s/%s %s]\n", change.Name, change.Type, change.Subtype, change.Severity)
		for _, note := range change.Notes {
			fmt.Printf("    %s: %s\n", change.Status, note)
		}
	}
	fmt.Printf("quality score: %.2f\n", summary.QualityScore())
	return nil
}
