// Package taxonomy defines the fixed virus taxonomy rank hierarchy and the
// value types shared by the snapshot store, differ and migration tooling.
package taxonomy

import (
	"fmt"
	"strings"
)

// Rank is one level of the fixed taxonomic hierarchy, ordered from broadest
// (Realm) to narrowest (Subgenus).
type Rank int

const (
	Realm Rank = iota
	Subrealm
	Kingdom
	Subkingdom
	Phylum
	Subphylum
	Class
	Subclass
	Order
	Suborder
	Family
	Subfamily
	Genus
	Subgenus

	rankCount
)

var rankNames = [rankCount]string{
	Realm:      "realm",
	Subrealm:   "subrealm",
	Kingdom:    "kingdom",
	Subkingdom: "subkingdom",
	Phylum:     "phylum",
	Subphylum:  "subphylum",
	Class:      "class",
	Subclass:   "subclass",
	Order:      "order",
	Suborder:   "suborder",
	Family:     "family",
	Subfamily:  "subfamily",
	Genus:      "genus",
	Subgenus:   "subgenus",
}

// String returns the lowercase rank name used in artifacts and exports.
func (r Rank) String() string {
	if r < 0 || r >= rankCount {
		return "unknown"
	}
	return rankNames[r]
}

// MarshalText serializes a rank by name, so JSON and YAML documents carry
// "family" rather than an index.
func (r Rank) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText resolves a rank from its serialized name.
func (r *Rank) UnmarshalText(text []byte) error {
	rank, ok := RankFromString(string(text))
	if !ok {
		return fmt.Errorf("unknown rank: %s", text)
	}
	*r = rank
	return nil
}

// RankFromString resolves a rank by its lowercase name. Matching is
// case-insensitive so spreadsheet-derived column headers resolve too.
func RankFromString(s string) (Rank, bool) {
	name := strings.ToLower(strings.TrimSpace(s))
	for r := Realm; r < rankCount; r++ {
		if rankNames[r] == name {
			return r, true
		}
	}
	return 0, false
}

// Ranks returns all ranks in hierarchy order, broadest first.
func Ranks() []Rank {
	out := make([]Rank, 0, rankCount)
	for r := Realm; r < rankCount; r++ {
		out = append(out, r)
	}
	return out
}

// Tier groups ranks by how disruptive a change at that rank is considered.
type Tier int

const (
	// TierNone covers ranks outside the tiered classification cascade.
	TierNone Tier = iota
	// TierStable covers realm, kingdom and phylum; changes here are rare
	// and treated as critical.
	TierStable
	// TierRestructure covers class, order and suborder; changes here are
	// usually hierarchy reshaping rather than entity movement.
	TierRestructure
	// TierReclassification covers family, subfamily and genus; changes
	// here move entities between groups.
	TierReclassification
)

var rankTiers = map[Rank]Tier{
	Realm:     TierStable,
	Kingdom:   TierStable,
	Phylum:    TierStable,
	Class:     TierRestructure,
	Order:     TierRestructure,
	Suborder:  TierRestructure,
	Family:    TierReclassification,
	Subfamily: TierReclassification,
	Genus:     TierReclassification,
}

// TierOf returns the classification tier a rank belongs to, or TierNone.
func TierOf(r Rank) Tier {
	return rankTiers[r]
}

// hierarchyPair records a rank that should not appear without a value at a
// higher rank. Real-world releases legitimately skip ranks, so a violation
// is a validation warning rather than a rejection.
type hierarchyPair struct {
	Lower  Rank
	Higher Rank
}

// hierarchyRequirements is the fixed consistency table checked by the
// validator, in checking order.
var hierarchyRequirements = []hierarchyPair{
	{Subfamily, Family},
	{Genus, Family},
	{Family, Order},
	{Order, Class},
	{Class, Phylum},
	{Phylum, Kingdom},
	{Kingdom, Realm},
}

// HierarchyRequirements returns the (lower rank, required higher rank)
// consistency table.
func HierarchyRequirements() []hierarchyPair {
	pairs := make([]hierarchyPair, len(hierarchyRequirements))
	copy(pairs, hierarchyRequirements)
	return pairs
}

// SubRankOf returns the sub-rank directly under a principal rank
// (Family -> Subfamily, Order -> Suborder, ...), if one exists.
func SubRankOf(r Rank) (Rank, bool) {
	switch r {
	case Realm, Kingdom, Phylum, Class, Order, Family, Genus:
		return r + 1, true
	default:
		return 0, false
	}
}
