package diff

import (
	"fmt"

	"github.com/mslgit/mslgit-go/internal/taxonomy"
)

// ValidationStatus grades the hierarchy consistency of a change. It is
// returned data, not an error: the diff was computed but may look
// suspicious.
type ValidationStatus string

const (
	StatusValid   ValidationStatus = "valid"
	StatusWarning ValidationStatus = "warning"
	StatusError   ValidationStatus = "error"
)

var statusRank = map[ValidationStatus]int{
	StatusValid:   0,
	StatusWarning: 1,
	StatusError:   2,
}

// worse returns the more severe of two statuses; status never improves
// once degraded.
func worse(a, b ValidationStatus) ValidationStatus {
	if statusRank[b] > statusRank[a] {
		return b
	}
	return a
}

// Validate checks a classified change for hierarchy-consistency problems.
// Every triggered rule appends a note; the returned status is the worst
// status any rule produced.
func Validate(oldName, newName string, old, updated *taxonomy.Classification) (ValidationStatus, []string) {
	status := StatusValid
	var notes []string

	if oldName == "" || newName == "" {
		status = worse(status, StatusError)
		notes = append(notes, "species name missing on one side of the change")
	}

	if old != nil && updated != nil {
		oldRealm, newRealm := old.Realm, updated.Realm
		if oldRealm != "" && newRealm != "" && oldRealm != newRealm {
			status = worse(status, StatusWarning)
			notes = append(notes, fmt.Sprintf("unusual realm change: %s → %s", oldRealm, newRealm))
		}
	}

	if updated != nil {
		if updated.Genus != "" && updated.Family == "" {
			status = worse(status, StatusWarning)
			notes = append(notes, "genus assigned without a family")
		}
		if updated.Subfamily != "" && updated.Family == "" {
			status = worse(status, StatusError)
			notes = append(notes, "subfamily assigned without a family")
		}
	}

	if old != nil && updated != nil {
		if old.Family != updated.Family && old.Genus == updated.Genus {
			status = worse(status, StatusWarning)
			notes = append(notes, "family changed while genus is unchanged, verify correct")
		}
	}

	// general hierarchy-consistency sweep over the new record
	if updated != nil {
		for _, pair := range taxonomy.HierarchyRequirements() {
			if updated.Get(pair.Lower) != "" && updated.Get(pair.Higher) == "" {
				status = worse(status, StatusWarning)
				notes = append(notes, fmt.Sprintf("%s set without %s", pair.Lower, pair.Higher))
			}
		}
	}

	return status, notes
}
