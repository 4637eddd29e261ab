package migration

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mslgit/mslgit-go/internal/conf"
	"github.com/mslgit/mslgit-go/internal/diff"
	"github.com/mslgit/mslgit-go/internal/errors"
	"github.com/mslgit/mslgit-go/internal/logging"
	"github.com/mslgit/mslgit-go/internal/observability/metrics"
	"github.com/mslgit/mslgit-go/internal/taxonomy"
)

// MappingStatus describes an entity's fate between the two versions.
type MappingStatus string

const (
	MappingUnchanged MappingStatus = "unchanged"
	MappingMoved     MappingStatus = "moved"
	MappingRemoved   MappingStatus = "removed"
	MappingAdded     MappingStatus = "added"
)

// SpeciesMapping records how one entity maps from the source version to
// the target version. Read-only after construction.
type SpeciesMapping struct {
	EntityName           string                   `json:"entity_name"`
	SourceVersion        string                   `json:"source_version"`
	TargetVersion        string                   `json:"target_version"`
	SourceClassification *taxonomy.Classification `json:"source_classification,omitempty"`
	TargetClassification *taxonomy.Classification `json:"target_classification,omitempty"`
	Status               MappingStatus            `json:"status"`
	Changes              []string                 `json:"changes,omitempty"`
	Confidence           float64                  `json:"confidence"`
	Notes                string                   `json:"notes,omitempty"`
}

// Mapping is the complete name-keyed mapping between two versions.
type Mapping map[string]*SpeciesMapping

// SnapshotProvider supplies labeled snapshots; the store satisfies it.
type SnapshotProvider interface {
	GetSnapshot(label string) (*taxonomy.Snapshot, error)
}

// Mapper builds and caches version-pair mappings. The cache is a bounded
// LRU so long batch jobs over many version pairs hold memory steady.
type Mapper struct {
	provider SnapshotProvider
	cache    *lru.Cache[string, Mapping]
	settings conf.DiffSettings
	metrics  *metrics.DiffMetrics
	logger   *slog.Logger
	mu       sync.Mutex
}

// NewMapper creates a mapper over a snapshot provider.
func NewMapper(provider SnapshotProvider, settings *conf.Settings, m *metrics.DiffMetrics) (*Mapper, error) {
	cacheSize := settings.Mapping.CacheSize
	if cacheSize < 1 {
		cacheSize = 1
	}
	cache, err := lru.New[string, Mapping](cacheSize)
	if err != nil {
		return nil, errors.Newf("creating mapping cache: %v", err).
			Category(errors.CategoryConfiguration).
			Component("migration").
			Build()
	}
	return &Mapper{
		provider: provider,
		cache:    cache,
		settings: settings.Diff,
		metrics:  m,
		logger:   logging.ForService("migration"),
	}, nil
}

// BuildMapping computes the name-keyed mapping from sourceVersion to
// targetVersion, serving repeated requests for the same pair from cache.
func (m *Mapper) BuildMapping(sourceVersion, targetVersion string) (Mapping, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cacheKey := sourceVersion + "→" + targetVersion
	if cached, ok := m.cache.Get(cacheKey); ok {
		m.metrics.RecordMappingBuild("hit")
		return cached, nil
	}
	m.metrics.RecordMappingBuild("miss")

	source, err := m.provider.GetSnapshot(sourceVersion)
	if err != nil {
		return nil, err
	}
	target, err := m.provider.GetSnapshot(targetVersion)
	if err != nil {
		return nil, err
	}

	mapping := buildMapping(source, target)
	if m.settings.DetectRenames {
		annotateRenames(mapping, source, target, m.settings)
	}

	m.cache.Add(cacheKey, mapping)
	m.logger.Info("mapping built",
		"source", sourceVersion,
		"target", targetVersion,
		"entries", len(mapping))
	return mapping, nil
}

func buildMapping(source, target *taxonomy.Snapshot) Mapping {
	mapping := make(Mapping, source.Len())

	for name, entity := range source.Entities {
		entry := &SpeciesMapping{
			EntityName:           name,
			SourceVersion:        source.Version,
			TargetVersion:        target.Version,
			SourceClassification: &entity.Classification,
			Confidence:           1.0,
		}
		if successor, ok := target.Get(name); ok {
			entry.TargetClassification = &successor.Classification
			entry.Changes = describeChanges(&entity.Classification, &successor.Classification)
			if len(entry.Changes) == 0 {
				entry.Status = MappingUnchanged
			} else {
				entry.Status = MappingMoved
			}
		} else {
			entry.Status = MappingRemoved
		}
		mapping[name] = entry
	}

	for name, entity := range target.Entities {
		if _, ok := source.Entities[name]; ok {
			continue
		}
		mapping[name] = &SpeciesMapping{
			EntityName:           name,
			SourceVersion:        source.Version,
			TargetVersion:        target.Version,
			TargetClassification: &entity.Classification,
			Status:               MappingAdded,
			Confidence:           1.0,
		}
	}

	return mapping
}

// describeChanges lists every differing rank as a human-readable string.
// This is a raw diff, deliberately simpler than the classifier's tiered
// categorization.
func describeChanges(old, updated *taxonomy.Classification) []string {
	var changes []string
	for _, rank := range taxonomy.ChangedRanks(old, updated) {
		changes = append(changes, fmt.Sprintf("%s: %s → %s",
			rank, valueOrNone(old.Get(rank)), valueOrNone(updated.Get(rank))))
	}
	return changes
}

func valueOrNone(v string) string {
	if v == "" {
		return "none"
	}
	return v
}

// annotateRenames runs the rename heuristic over removed/added entries and
// cross-links accepted pairs, lowering their confidence to the match
// score.
func annotateRenames(mapping Mapping, source, target *taxonomy.Snapshot, settings conf.DiffSettings) {
	scorer := &diff.NameSimilarityScorer{
		GenusBoost:  settings.GenusBoost,
		FamilyBoost: settings.FamilyBoost,
	}
	// the configured threshold is taken as-is; zero means any positive
	// score wins
	threshold := settings.RenameThreshold

	var removed, added []string
	for name, entry := range mapping {
		switch entry.Status {
		case MappingRemoved:
			removed = append(removed, name)
		case MappingAdded:
			added = append(added, name)
		}
	}
	sort.Strings(removed)
	sort.Strings(added)

	claimed := make(map[string]bool, len(added))
	for _, oldName := range removed {
		removedEntity, _ := source.Get(oldName)

		bestScore := 0.0
		bestName := ""
		for _, newName := range added {
			if claimed[newName] {
				continue
			}
			addedEntity, _ := target.Get(newName)
			if score := scorer.ScoreCandidate(removedEntity, addedEntity); score > bestScore {
				bestScore = score
				bestName = newName
			}
		}
		if bestScore <= threshold || bestName == "" {
			continue
		}

		claimed[bestName] = true
		mapping[oldName].Confidence = bestScore
		mapping[oldName].Notes = fmt.Sprintf("possible rename to %q (score %.2f)", bestName, bestScore)
		mapping[bestName].Confidence = bestScore
		mapping[bestName].Notes = fmt.Sprintf("possible rename of %q (score %.2f)", oldName, bestScore)
	}
}
