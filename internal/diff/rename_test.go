package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mslgit/mslgit-go/internal/taxonomy"
)

func TestLevenshtein(t *testing.T) {
	t.Parallel()

	tests := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"virus", "virus", 0},
		{"Tequatrovirus", "Tequatroviruses", 2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, levenshtein(tt.a, tt.b), "%q vs %q", tt.a, tt.b)
	}
}

func TestNameSimilarityBounds(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 1.0, nameSimilarity("same", "same"), 1e-9)
	assert.InDelta(t, 0.0, nameSimilarity("abcd", "wxyz"), 1e-9)

	sim := nameSimilarity("Escherichia virus T4", "Escherichia phage T4")
	assert.Greater(t, sim, 0.5)
	assert.Less(t, sim, 1.0)
}

func TestScoreCandidateBoosts(t *testing.T) {
	t.Parallel()

	scorer := &NameSimilarityScorer{GenusBoost: 0.3, FamilyBoost: 0.2}

	removed := &taxonomy.Entity{
		Name:           "Escherichia virus T4",
		Classification: taxonomy.Classification{Family: "Straboviridae", Genus: "Tequatrovirus"},
	}
	sameClassification := &taxonomy.Entity{
		Name:           "Escherichia phage T4",
		Classification: taxonomy.Classification{Family: "Straboviridae", Genus: "Tequatrovirus"},
	}
	differentClassification := &taxonomy.Entity{
		Name:           "Escherichia phage T4",
		Classification: taxonomy.Classification{Family: "Drexlerviridae", Genus: "Hanrivervirus"},
	}

	boosted := scorer.ScoreCandidate(removed, sameClassification)
	unboosted := scorer.ScoreCandidate(removed, differentClassification)
	assert.Greater(t, boosted, unboosted)
	assert.LessOrEqual(t, boosted, 1.0)
	assert.GreaterOrEqual(t, unboosted, 0.0)
}

func TestScoreCandidateEmptyRanksDoNotBoost(t *testing.T) {
	t.Parallel()

	scorer := &NameSimilarityScorer{GenusBoost: 0.3, FamilyBoost: 0.2}

	a := &taxonomy.Entity{Name: "alpha"}
	b := &taxonomy.Entity{Name: "omega"}
	// both genus and family empty on both sides: no boost applies
	assert.InDelta(t, nameSimilarity("alpha", "omega"), scorer.ScoreCandidate(a, b), 1e-9)
}
