package diff

import (
	"github.com/mslgit/mslgit-go/internal/taxonomy"
)

// RenameScorer scores how likely a removed and an added entity are the
// same taxon under a new name. Implementations are pluggable so the
// scoring formula can change without touching the differ's control flow.
type RenameScorer interface {
	ScoreCandidate(removed, added *taxonomy.Entity) float64
}

// NameSimilarityScorer scores candidates by normalized edit similarity of
// the names, boosted when the classifications agree at genus or family.
// The boost values are empirical, carried from configuration.
type NameSimilarityScorer struct {
	GenusBoost  float64
	FamilyBoost float64
}

// ScoreCandidate returns a score in [0, 1].
func (s *NameSimilarityScorer) ScoreCandidate(removed, added *taxonomy.Entity) float64 {
	score := nameSimilarity(removed.Name, added.Name)
	if removed.Classification.Genus != "" && removed.Classification.Genus == added.Classification.Genus {
		score += s.GenusBoost
	}
	if removed.Classification.Family != "" && removed.Classification.Family == added.Classification.Family {
		score += s.FamilyBoost
	}
	if score > 1 {
		score = 1
	}
	return score
}

// nameSimilarity is 1 - editDistance/maxLen, in [0, 1].
func nameSimilarity(a, b string) float64 {
	if a == b {
		return 1
	}
	la, lb := len([]rune(a)), len([]rune(b))
	longest := la
	if lb > longest {
		longest = lb
	}
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(a, b))/float64(longest)
}

// levenshtein computes the edit distance between two strings with the
// classic two-row dynamic program.
func levenshtein(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) == 0 {
		return len(rb)
	}
	if len(rb) == 0 {
		return len(ra)
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(
				prev[j]+1,      // deletion
				curr[j-1]+1,    // insertion
				prev[j-1]+cost, // substitution
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(rb)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
