// Package migration aggregates diff output into group-level migration
// tables and builds reusable entity mappings that can rewrite external
// datasets referencing old classifications.
package migration

import (
	"sort"

	"github.com/mslgit/mslgit-go/internal/errors"
	"github.com/mslgit/mslgit-go/internal/taxonomy"
)

// RemovedSentinel is the destination recorded for entities that disappear
// entirely between the two versions.
const RemovedSentinel = "[REMOVED]"

// MemberMigration traces one entity's movement out of its source group.
type MemberMigration struct {
	EntityName  string `json:"entity_name"`
	Subgroup    string `json:"subgroup,omitempty"`
	Destination string `json:"destination"`
}

// FamilyMigration tabulates how one group's members redistributed between
// two versions.
type FamilyMigration struct {
	SourceGroup       string            `json:"source_group"`
	DestinationCounts map[string]int    `json:"destination_counts"`
	Members           []MemberMigration `json:"members"`
}

// TotalEntities is the number of members that moved or were removed.
func (m *FamilyMigration) TotalEntities() int {
	total := 0
	for _, count := range m.DestinationCounts {
		total += count
	}
	return total
}

// AnalyzeMigration tabulates, for each source group at the given rank, the
// destinations its members migrated to. Only members whose destination
// differs from the source are counted, plus members removed entirely;
// members that stayed in the same group are not migration entries. When
// targetGroups is empty every group present in snapshot A is analyzed.
func AnalyzeMigration(a, b *taxonomy.Snapshot, groupRank taxonomy.Rank, targetGroups []string) (map[string]*FamilyMigration, error) {
	if a == nil || a.Len() == 0 || b == nil || b.Len() == 0 {
		return nil, errors.Newf("migration analysis requires two non-empty snapshots").
			Category(errors.CategoryValidation).
			Component("migration").
			Build()
	}

	wanted := make(map[string]bool, len(targetGroups))
	for _, group := range targetGroups {
		wanted[group] = true
	}

	subRank, hasSubRank := taxonomy.SubRankOf(groupRank)

	names := a.Names()
	sort.Strings(names)

	result := make(map[string]*FamilyMigration)
	for _, name := range names {
		entity, _ := a.Get(name)
		sourceGroup := entity.Classification.Get(groupRank)
		if sourceGroup == "" {
			continue
		}
		if len(wanted) > 0 && !wanted[sourceGroup] {
			continue
		}

		destination := RemovedSentinel
		if successor, ok := b.Get(name); ok {
			destination = successor.Classification.Get(groupRank)
			if destination == sourceGroup {
				continue
			}
		}

		migration, ok := result[sourceGroup]
		if !ok {
			migration = &FamilyMigration{
				SourceGroup:       sourceGroup,
				DestinationCounts: make(map[string]int),
			}
			result[sourceGroup] = migration
		}

		subgroup := ""
		if hasSubRank {
			subgroup = entity.Classification.Get(subRank)
		}
		migration.DestinationCounts[destination]++
		migration.Members = append(migration.Members, MemberMigration{
			EntityName:  name,
			Subgroup:    subgroup,
			Destination: destination,
		})
	}

	return result, nil
}
