package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mslgit/mslgit-go/internal/taxonomy"
)

func TestClassifyFamilyChange(t *testing.T) {
	t.Parallel()

	// Tequatrovirus moved from Myoviridae to Straboviridae in MSL37
	old := &taxonomy.Classification{Family: "Myoviridae", Genus: "Tequatrovirus"}
	updated := &taxonomy.Classification{Family: "Straboviridae", Genus: "Tequatrovirus"}

	outcome := Classify(old, updated)
	assert.Equal(t, ChangeReclassification, outcome.Type)
	assert.Equal(t, SubtypeFamilyChange, outcome.Subtype)
	assert.Equal(t, SeverityMajor, outcome.Severity)
}

func TestClassifyOrderRemovalWinsOverFamilyReplacement(t *testing.T) {
	t.Parallel()

	// Caudovirales dissolution: the order removal outranks the family
	// replacement in the cascade.
	old := &taxonomy.Classification{Order: "Caudovirales", Family: "Siphoviridae"}
	updated := &taxonomy.Classification{Family: "Drexlerviridae"}

	outcome, changed := ClassifyWithRanks(old, updated)
	assert.Equal(t, ChangeRestructure, outcome.Type)
	assert.Equal(t, SubtypeRankRemoval, outcome.Subtype)
	assert.Equal(t, SeverityNormal, outcome.Severity)
	assert.Equal(t, []taxonomy.Rank{taxonomy.Order, taxonomy.Family}, changed)
}

func TestClassifyCascadeRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		old     taxonomy.Classification
		updated taxonomy.Classification
		want    Outcome
	}{
		{
			name:    "realm replacement is critical",
			old:     taxonomy.Classification{Realm: "Duplodnaviria", Family: "Myoviridae"},
			updated: taxonomy.Classification{Realm: "Monodnaviria", Family: "Myoviridae"},
			want:    Outcome{ChangeReclassification, SubtypeHighLevelChange, SeverityCritical},
		},
		{
			name:    "family removal",
			old:     taxonomy.Classification{Family: "Podoviridae", Genus: "Teseptimavirus"},
			updated: taxonomy.Classification{Genus: "Teseptimavirus"},
			want:    Outcome{ChangeReclassification, SubtypeFamilyLevelRemoval, SeverityMajor},
		},
		{
			name:    "order addition",
			old:     taxonomy.Classification{Family: "Straboviridae"},
			updated: taxonomy.Classification{Order: "Caudovirales", Family: "Straboviridae"},
			want:    Outcome{ChangeRestructure, SubtypeRankAddition, SeverityNormal},
		},
		{
			name:    "genus addition",
			old:     taxonomy.Classification{Family: "Straboviridae"},
			updated: taxonomy.Classification{Family: "Straboviridae", Genus: "Tequatrovirus"},
			want:    Outcome{ChangeReclassification, SubtypeFamilyLevelAddition, SeverityMajor},
		},
		{
			name:    "genus replacement",
			old:     taxonomy.Classification{Family: "Straboviridae", Genus: "Tequatrovirus"},
			updated: taxonomy.Classification{Family: "Straboviridae", Genus: "Mosigvirus"},
			want:    Outcome{ChangeReclassification, SubtypeGenusChange, SeverityNormal},
		},
		{
			name:    "subfamily replacement",
			old:     taxonomy.Classification{Family: "Straboviridae", Subfamily: "Tevenvirinae"},
			updated: taxonomy.Classification{Family: "Straboviridae", Subfamily: "Emmerichvirinae"},
			want:    Outcome{ChangeReclassification, SubtypeSubfamilyChange, SeverityMinor},
		},
		{
			name:    "order replacement",
			old:     taxonomy.Classification{Order: "Caudovirales", Family: "Straboviridae"},
			updated: taxonomy.Classification{Order: "Crassvirales", Family: "Straboviridae"},
			want:    Outcome{ChangeRestructure, SubtypeOrderClassChange, SeverityNormal},
		},
		{
			name:    "untier-ed rank change falls through",
			old:     taxonomy.Classification{Family: "Straboviridae", Genus: "Tequatrovirus", Subgenus: "Alpha"},
			updated: taxonomy.Classification{Family: "Straboviridae", Genus: "Tequatrovirus", Subgenus: "Beta"},
			want:    fallbackOutcome,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Classify(&tt.old, &tt.updated))
		})
	}
}

func TestClassifyMissingData(t *testing.T) {
	t.Parallel()

	empty := &taxonomy.Classification{}
	full := &taxonomy.Classification{Family: "Straboviridae"}

	want := Outcome{ChangeInvalid, SubtypeMissingData, SeverityError}
	assert.Equal(t, want, Classify(nil, full))
	assert.Equal(t, want, Classify(full, nil))
	assert.Equal(t, want, Classify(empty, full))
	assert.Equal(t, want, Classify(full, empty))
}

func TestClassifyIdenticalRecord(t *testing.T) {
	t.Parallel()

	c := &taxonomy.Classification{
		Realm:  "Duplodnaviria",
		Family: "Straboviridae",
		Genus:  "Tequatrovirus",
	}
	outcome := Classify(c, c)
	assert.Equal(t, Outcome{ChangeUnchanged, SubtypeIdentical, SeverityMinor}, outcome)
}

func TestClassifyIsDeterministic(t *testing.T) {
	t.Parallel()

	old := &taxonomy.Classification{Order: "Caudovirales", Family: "Myoviridae", Genus: "Tequatrovirus"}
	updated := &taxonomy.Classification{Family: "Straboviridae", Genus: "Tequatrovirus"}

	first := Classify(old, updated)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Classify(old, updated))
	}
}

func TestCascadeOrderIsStable(t *testing.T) {
	t.Parallel()

	wantOrder := []string{
		"stable_rank_replaced",
		"restructure_rank_removed",
		"reclassification_rank_removed",
		"restructure_rank_added",
		"reclassification_rank_added",
		"family_replaced",
		"genus_replaced",
		"other_reclassification_rank_replaced",
		"restructure_rank_replaced",
	}
	require.Len(t, classificationCascade, len(wantOrder))
	for i, rule := range classificationCascade {
		assert.Equal(t, wantOrder[i], rule.Name, "rule at position %d", i)
	}
}
