package diff

import (
	"log/slog"
	"sort"
	"time"

	"github.com/mslgit/mslgit-go/internal/conf"
	"github.com/mslgit/mslgit-go/internal/errors"
	"github.com/mslgit/mslgit-go/internal/logging"
	"github.com/mslgit/mslgit-go/internal/observability/metrics"
	"github.com/mslgit/mslgit-go/internal/taxonomy"
)

// Change is one classified and validated per-entity difference.
type Change struct {
	Name         string
	Type         ChangeType
	Subtype      ChangeSubtype
	Severity     Severity
	Old          *taxonomy.Classification
	New          *taxonomy.Classification
	ChangedRanks []taxonomy.Rank
	Status       ValidationStatus
	Notes        []string
}

// RenameCandidate is a removed/added pair the rename heuristic accepted.
// False positives and negatives are expected; the score is carried so
// consumers can apply their own judgement.
type RenameCandidate struct {
	OldName string
	NewName string
	Score   float64
	Old     *taxonomy.Classification
	New     *taxonomy.Classification
}

// CompareResult partitions the union of two snapshots' entity names.
// Before rename detection, every name lands in exactly one of Added,
// Removed, Unchanged or Changed.
type CompareResult struct {
	VersionA  string
	VersionB  string
	Added     []string
	Removed   []string
	Unchanged []string
	Changed   []Change
	Renamed   []RenameCandidate
}

// Options controls a comparison run.
type Options struct {
	DetectRenames   bool
	RenameThreshold float64
	Scorer          RenameScorer
	Metrics         *metrics.DiffMetrics
	Logger          *slog.Logger
}

// OptionsFromSettings derives comparison options from the application
// configuration.
func OptionsFromSettings(settings *conf.Settings) Options {
	return Options{
		DetectRenames:   settings.Diff.DetectRenames,
		RenameThreshold: settings.Diff.RenameThreshold,
		Scorer: &NameSimilarityScorer{
			GenusBoost:  settings.Diff.GenusBoost,
			FamilyBoost: settings.Diff.FamilyBoost,
		},
	}
}

// Compare computes the structured diff between two snapshots. Entities
// present in both are classified and validated; removed/added pairs are
// optionally re-joined by the rename heuristic.
func Compare(a, b *taxonomy.Snapshot, opts Options) (*CompareResult, error) {
	if a == nil || a.Len() == 0 {
		return nil, errors.Newf("snapshot %q is empty or unavailable", versionOf(a)).
			Category(errors.CategoryValidation).
			Component("diff").
			Build()
	}
	if b == nil || b.Len() == 0 {
		return nil, errors.Newf("snapshot %q is empty or unavailable", versionOf(b)).
			Category(errors.CategoryValidation).
			Component("diff").
			Build()
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.ForService("diff")
	}
	start := time.Now()

	result := &CompareResult{VersionA: a.Version, VersionB: b.Version}

	for _, name := range sortedNames(a) {
		if _, ok := b.Get(name); !ok {
			result.Removed = append(result.Removed, name)
		}
	}
	for _, name := range sortedNames(b) {
		oldEntity, ok := a.Get(name)
		if !ok {
			result.Added = append(result.Added, name)
			continue
		}
		newEntity, _ := b.Get(name)

		outcome, changedRanks := ClassifyWithRanks(&oldEntity.Classification, &newEntity.Classification)
		if outcome.Type == ChangeUnchanged {
			result.Unchanged = append(result.Unchanged, name)
			continue
		}

		status, notes := Validate(oldEntity.Name, newEntity.Name, &oldEntity.Classification, &newEntity.Classification)
		result.Changed = append(result.Changed, Change{
			Name:         name,
			Type:         outcome.Type,
			Subtype:      outcome.Subtype,
			Severity:     outcome.Severity,
			Old:          &oldEntity.Classification,
			New:          &newEntity.Classification,
			ChangedRanks: changedRanks,
			Status:       status,
			Notes:        notes,
		})
		opts.Metrics.RecordChange(string(outcome.Type))
	}

	if opts.DetectRenames {
		detectRenames(a, b, result, opts)
	}

	opts.Metrics.RecordComparison(time.Since(start))
	logger.Info("comparison complete",
		"version_a", a.Version,
		"version_b", b.Version,
		"added", len(result.Added),
		"removed", len(result.Removed),
		"unchanged", len(result.Unchanged),
		"changed", len(result.Changed),
		"renamed", len(result.Renamed),
		"duration_ms", time.Since(start).Milliseconds())

	return result, nil
}

// detectRenames re-joins removed/added pairs whose best score exceeds the
// threshold. Ties resolve to the highest score, first-encountered order
// for exact ties; each added entity is claimed at most once.
func detectRenames(a, b *taxonomy.Snapshot, result *CompareResult, opts Options) {
	scorer := opts.Scorer
	if scorer == nil {
		scorer = &NameSimilarityScorer{GenusBoost: 0.3, FamilyBoost: 0.2}
	}
	// the configured threshold is taken as-is; zero means any positive
	// score wins
	threshold := opts.RenameThreshold

	claimed := make(map[string]bool, len(result.Added))
	var stillRemoved []string

	for _, oldName := range result.Removed {
		removedEntity, _ := a.Get(oldName)

		bestScore := 0.0
		bestName := ""
		for _, newName := range result.Added {
			if claimed[newName] {
				continue
			}
			addedEntity, _ := b.Get(newName)
			if score := scorer.ScoreCandidate(removedEntity, addedEntity); score > bestScore {
				bestScore = score
				bestName = newName
			}
		}

		if bestScore > threshold && bestName != "" {
			addedEntity, _ := b.Get(bestName)
			claimed[bestName] = true
			result.Renamed = append(result.Renamed, RenameCandidate{
				OldName: oldName,
				NewName: bestName,
				Score:   bestScore,
				Old:     &removedEntity.Classification,
				New:     &addedEntity.Classification,
			})
			opts.Metrics.RecordRename()
			continue
		}
		stillRemoved = append(stillRemoved, oldName)
	}

	result.Removed = stillRemoved
	if len(claimed) > 0 {
		remaining := result.Added[:0]
		for _, name := range result.Added {
			if !claimed[name] {
				remaining = append(remaining, name)
			}
		}
		result.Added = remaining
	}
}

func sortedNames(s *taxonomy.Snapshot) []string {
	names := s.Names()
	sort.Strings(names)
	return names
}

func versionOf(s *taxonomy.Snapshot) string {
	if s == nil {
		return ""
	}
	return s.Version
}
