package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mslgit/mslgit-go/internal/taxonomy"
)

func entity(name string, c taxonomy.Classification) *taxonomy.Entity {
	return &taxonomy.Entity{Name: name, Classification: c}
}

func snapshot(version string, entities ...*taxonomy.Entity) *taxonomy.Snapshot {
	s := taxonomy.NewSnapshot(version)
	for _, e := range entities {
		s.Add(e)
	}
	return s
}

func TestCompareEmptySnapshotFails(t *testing.T) {
	t.Parallel()

	full := snapshot("MSL36", entity("x", taxonomy.Classification{Family: "Myoviridae"}))

	_, err := Compare(nil, full, Options{})
	assert.Error(t, err)

	_, err = Compare(full, taxonomy.NewSnapshot("MSL37"), Options{})
	assert.Error(t, err)
}

func TestComparePartition(t *testing.T) {
	t.Parallel()

	a := snapshot("MSL36",
		entity("kept same", taxonomy.Classification{Family: "Myoviridae", Genus: "Mosigvirus"}),
		entity("kept moved", taxonomy.Classification{Family: "Myoviridae", Genus: "Tequatrovirus"}),
		entity("gone", taxonomy.Classification{Family: "Podoviridae", Genus: "Teseptimavirus"}),
	)
	b := snapshot("MSL37",
		entity("kept same", taxonomy.Classification{Family: "Myoviridae", Genus: "Mosigvirus"}),
		entity("kept moved", taxonomy.Classification{Family: "Straboviridae", Genus: "Tequatrovirus"}),
		entity("brand new", taxonomy.Classification{Family: "Schitoviridae", Genus: "Litunavirus"}),
	)

	result, err := Compare(a, b, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{"brand new"}, result.Added)
	assert.Equal(t, []string{"gone"}, result.Removed)
	assert.Equal(t, []string{"kept same"}, result.Unchanged)
	require.Len(t, result.Changed, 1)
	assert.Equal(t, "kept moved", result.Changed[0].Name)
	assert.Equal(t, ChangeReclassification, result.Changed[0].Type)
	assert.Equal(t, SubtypeFamilyChange, result.Changed[0].Subtype)

	// every name in A union B appears in exactly one bucket
	union := map[string]bool{}
	for _, name := range a.Names() {
		union[name] = true
	}
	for _, name := range b.Names() {
		union[name] = true
	}
	got := len(result.Added) + len(result.Removed) + len(result.Unchanged) + len(result.Changed)
	assert.Equal(t, len(union), got)
}

func TestCompareChangeCarriesValidation(t *testing.T) {
	t.Parallel()

	a := snapshot("MSL36",
		entity("Escherichia virus T4", taxonomy.Classification{Family: "Myoviridae", Genus: "Tequatrovirus"}),
	)
	b := snapshot("MSL37",
		entity("Escherichia virus T4", taxonomy.Classification{Family: "Straboviridae", Genus: "Tequatrovirus"}),
	)

	result, err := Compare(a, b, Options{})
	require.NoError(t, err)
	require.Len(t, result.Changed, 1)

	change := result.Changed[0]
	assert.Equal(t, StatusWarning, change.Status)
	assert.NotEmpty(t, change.Notes)
	assert.Equal(t, []taxonomy.Rank{taxonomy.Family}, change.ChangedRanks)
}

func TestCompareDetectsRename(t *testing.T) {
	t.Parallel()

	a := snapshot("MSL36",
		entity("Escherichia virus T4", taxonomy.Classification{Family: "Straboviridae", Genus: "Tequatrovirus"}),
	)
	b := snapshot("MSL37",
		entity("Escherichia phage T4", taxonomy.Classification{Family: "Straboviridae", Genus: "Tequatrovirus"}),
	)

	opts := Options{
		DetectRenames:   true,
		RenameThreshold: 0.7,
		Scorer:          &NameSimilarityScorer{GenusBoost: 0.3, FamilyBoost: 0.2},
	}
	result, err := Compare(a, b, opts)
	require.NoError(t, err)

	require.Len(t, result.Renamed, 1)
	assert.Equal(t, "Escherichia virus T4", result.Renamed[0].OldName)
	assert.Equal(t, "Escherichia phage T4", result.Renamed[0].NewName)
	assert.Greater(t, result.Renamed[0].Score, 0.7)

	// the pair left both the added and removed buckets
	assert.Empty(t, result.Added)
	assert.Empty(t, result.Removed)
}

func TestCompareRenameRespectsThreshold(t *testing.T) {
	t.Parallel()

	a := snapshot("MSL36",
		entity("Abutilon mosaic virus", taxonomy.Classification{Family: "Geminiviridae", Genus: "Begomovirus"}),
	)
	b := snapshot("MSL37",
		entity("Zucchini yellow mosaic virus", taxonomy.Classification{Family: "Potyviridae", Genus: "Potyvirus"}),
	)

	opts := Options{DetectRenames: true, RenameThreshold: 0.7}
	result, err := Compare(a, b, opts)
	require.NoError(t, err)

	assert.Empty(t, result.Renamed)
	assert.Equal(t, []string{"Zucchini yellow mosaic virus"}, result.Added)
	assert.Equal(t, []string{"Abutilon mosaic virus"}, result.Removed)
}

// A configured threshold of zero accepts any candidate with a positive
// score, including pairs far too dissimilar for the default threshold.
func TestCompareZeroThresholdAcceptsDistantRename(t *testing.T) {
	t.Parallel()

	a := snapshot("MSL36",
		entity("Abutilon mosaic virus", taxonomy.Classification{Family: "Geminiviridae", Genus: "Begomovirus"}),
	)
	b := snapshot("MSL37",
		entity("Zucchini yellow mosaic virus", taxonomy.Classification{Family: "Potyviridae", Genus: "Potyvirus"}),
	)

	opts := Options{DetectRenames: true, RenameThreshold: 0}
	result, err := Compare(a, b, opts)
	require.NoError(t, err)

	require.Len(t, result.Renamed, 1)
	assert.Equal(t, "Abutilon mosaic virus", result.Renamed[0].OldName)
	assert.Equal(t, "Zucchini yellow mosaic virus", result.Renamed[0].NewName)
	assert.Greater(t, result.Renamed[0].Score, 0.0)
	assert.Empty(t, result.Added)
	assert.Empty(t, result.Removed)
}

func TestCompareIsDeterministic(t *testing.T) {
	t.Parallel()

	a := snapshot("MSL36",
		entity("a", taxonomy.Classification{Family: "F1", Genus: "G1"}),
		entity("b", taxonomy.Classification{Family: "F1", Genus: "G2"}),
		entity("c", taxonomy.Classification{Family: "F2", Genus: "G3"}),
	)
	b := snapshot("MSL37",
		entity("a", taxonomy.Classification{Family: "F9", Genus: "G1"}),
		entity("b", taxonomy.Classification{Family: "F1", Genus: "G2"}),
		entity("d", taxonomy.Classification{Family: "F2", Genus: "G4"}),
	)

	first, err := Compare(a, b, Options{})
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := Compare(a, b, Options{})
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}
