// Package diff computes semantic differences between two taxonomy
// releases: per-entity change classification, hierarchy validation,
// snapshot partitioning and rename detection.
package diff

import (
	"github.com/mslgit/mslgit-go/internal/taxonomy"
)

// ChangeType is the top-level category of a classification change.
type ChangeType string

const (
	ChangeUnchanged        ChangeType = "unchanged"
	ChangeReclassification ChangeType = "reclassification"
	ChangeRestructure      ChangeType = "restructure"
	ChangeMixed            ChangeType = "classification_change"
	ChangeInvalid          ChangeType = "invalid"
)

// ChangeSubtype refines the change type.
type ChangeSubtype string

const (
	SubtypeIdentical           ChangeSubtype = "identical"
	SubtypeMissingData         ChangeSubtype = "missing_data"
	SubtypeHighLevelChange     ChangeSubtype = "high_level_change"
	SubtypeRankRemoval         ChangeSubtype = "rank_removal"
	SubtypeFamilyLevelRemoval  ChangeSubtype = "family_level_removal"
	SubtypeRankAddition        ChangeSubtype = "rank_addition"
	SubtypeFamilyLevelAddition ChangeSubtype = "family_level_addition"
	SubtypeFamilyChange        ChangeSubtype = "family_change"
	SubtypeGenusChange         ChangeSubtype = "genus_change"
	SubtypeSubfamilyChange     ChangeSubtype = "subfamily_change"
	SubtypeOrderClassChange    ChangeSubtype = "order_class_change"
	SubtypeMixedChanges        ChangeSubtype = "mixed_changes"
)

// Severity grades how disruptive a change is.
type Severity string

const (
	SeverityMinor    Severity = "minor"
	SeverityNormal   Severity = "normal"
	SeverityMajor    Severity = "major"
	SeverityCritical Severity = "critical"
	SeverityError    Severity = "error"
)

// Outcome is the classification of one entity's change between two
// releases.
type Outcome struct {
	Type     ChangeType
	Subtype  ChangeSubtype
	Severity Severity
}

// changeBuckets partitions the changed ranks by value-transition pattern.
type changeBuckets struct {
	removals     []taxonomy.Rank // had value, now none
	additions    []taxonomy.Rank // none, now has value
	replacements []taxonomy.Rank // had value, now a different value
}

func bucketChanges(old, updated *taxonomy.Classification, changed []taxonomy.Rank) changeBuckets {
	var b changeBuckets
	for _, r := range changed {
		oldVal, newVal := old.Get(r), updated.Get(r)
		switch {
		case oldVal != "" && newVal == "":
			b.removals = append(b.removals, r)
		case oldVal == "" && newVal != "":
			b.additions = append(b.additions, r)
		default:
			b.replacements = append(b.replacements, r)
		}
	}
	return b
}

func anyInTier(ranks []taxonomy.Rank, tier taxonomy.Tier) bool {
	for _, r := range ranks {
		if taxonomy.TierOf(r) == tier {
			return true
		}
	}
	return false
}

func containsRank(ranks []taxonomy.Rank, want taxonomy.Rank) bool {
	for _, r := range ranks {
		if r == want {
			return true
		}
	}
	return false
}

// classificationRule pairs a predicate with its outcome. The cascade is an
// ordered table so the decision order is data, testable rule by rule.
type classificationRule struct {
	Name    string
	Matches func(b changeBuckets) bool
	Outcome Outcome
}

// classificationCascade is evaluated top to bottom; the first matching rule
// wins. The order is load-bearing for output stability and must not be
// reshuffled.
var classificationCascade = []classificationRule{
	{
		Name: "stable_rank_replaced",
		Matches: func(b changeBuckets) bool {
			return anyInTier(b.replacements, taxonomy.TierStable)
		},
		Outcome: Outcome{ChangeReclassification, SubtypeHighLevelChange, SeverityCritical},
	},
	{
		Name: "restructure_rank_removed",
		Matches: func(b changeBuckets) bool {
			return anyInTier(b.removals, taxonomy.TierRestructure)
		},
		Outcome: Outcome{ChangeRestructure, SubtypeRankRemoval, SeverityNormal},
	},
	{
		Name: "reclassification_rank_removed",
		Matches: func(b changeBuckets) bool {
			return anyInTier(b.removals, taxonomy.TierReclassification)
		},
		Outcome: Outcome{ChangeReclassification, SubtypeFamilyLevelRemoval, SeverityMajor},
	},
	{
		Name: "restructure_rank_added",
		Matches: func(b changeBuckets) bool {
			return anyInTier(b.additions, taxonomy.TierRestructure)
		},
		Outcome: Outcome{ChangeRestructure, SubtypeRankAddition, SeverityNormal},
	},
	{
		Name: "reclassification_rank_added",
		Matches: func(b changeBuckets) bool {
			return anyInTier(b.additions, taxonomy.TierReclassification)
		},
		Outcome: Outcome{ChangeReclassification, SubtypeFamilyLevelAddition, SeverityMajor},
	},
	{
		Name: "family_replaced",
		Matches: func(b changeBuckets) bool {
			return containsRank(b.replacements, taxonomy.Family)
		},
		Outcome: Outcome{ChangeReclassification, SubtypeFamilyChange, SeverityMajor},
	},
	{
		Name: "genus_replaced",
		Matches: func(b changeBuckets) bool {
			return containsRank(b.replacements, taxonomy.Genus)
		},
		Outcome: Outcome{ChangeReclassification, SubtypeGenusChange, SeverityNormal},
	},
	{
		Name: "other_reclassification_rank_replaced",
		Matches: func(b changeBuckets) bool {
			return anyInTier(b.replacements, taxonomy.TierReclassification)
		},
		Outcome: Outcome{ChangeReclassification, SubtypeSubfamilyChange, SeverityMinor},
	},
	{
		Name: "restructure_rank_replaced",
		Matches: func(b changeBuckets) bool {
			return anyInTier(b.replacements, taxonomy.TierRestructure)
		},
		Outcome: Outcome{ChangeRestructure, SubtypeOrderClassChange, SeverityNormal},
	},
}

// fallbackOutcome applies when changes exist but no cascade rule matches.
var fallbackOutcome = Outcome{ChangeMixed, SubtypeMixedChanges, SeverityNormal}

// Classify categorizes the change between an old and a new classification
// record for the same entity. It is a pure function: identical inputs
// always yield the identical outcome.
func Classify(old, updated *taxonomy.Classification) Outcome {
	outcome, _ := ClassifyWithRanks(old, updated)
	return outcome
}

// ClassifyWithRanks is Classify plus the ordered list of ranks whose value
// differs between the two records.
func ClassifyWithRanks(old, updated *taxonomy.Classification) (Outcome, []taxonomy.Rank) {
	if old == nil || updated == nil || old.IsEmpty() || updated.IsEmpty() {
		return Outcome{ChangeInvalid, SubtypeMissingData, SeverityError}, nil
	}

	changed := taxonomy.ChangedRanks(old, updated)
	if len(changed) == 0 {
		return Outcome{ChangeUnchanged, SubtypeIdentical, SeverityMinor}, nil
	}

	buckets := bucketChanges(old, updated, changed)
	for _, rule := range classificationCascade {
		if rule.Matches(buckets) {
			return rule.Outcome, changed
		}
	}
	return fallbackOutcome, changed
}
