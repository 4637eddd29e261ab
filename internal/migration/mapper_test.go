package migration

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mslgit/mslgit-go/internal/conf"
	"github.com/mslgit/mslgit-go/internal/errors"
	"github.com/mslgit/mslgit-go/internal/taxonomy"
)

type fakeProvider map[string]*taxonomy.Snapshot

func (p fakeProvider) GetSnapshot(label string) (*taxonomy.Snapshot, error) {
	if s, ok := p[label]; ok {
		return s, nil
	}
	return nil, errors.Newf("version %s not found", label).
		Category(errors.CategoryVersionNotFound).
		Build()
}

func testMapperSettings() *conf.Settings {
	return &conf.Settings{
		Diff: conf.DiffSettings{
			DetectRenames:   false,
			RenameThreshold: 0.7,
			GenusBoost:      0.3,
			FamilyBoost:     0.2,
		},
		Mapping: conf.MappingSettings{CacheSize: 4, NameColumn: "species"},
	}
}

func TestBuildMappingStatuses(t *testing.T) {
	t.Parallel()

	provider := fakeProvider{
		"MSL36": snapshot("MSL36",
			entity("same", taxonomy.Classification{Family: "Myoviridae", Genus: "Mosigvirus"}),
			entity("mover", taxonomy.Classification{Family: "Myoviridae", Genus: "Tequatrovirus"}),
			entity("gone", taxonomy.Classification{Family: "Podoviridae"}),
		),
		"MSL37": snapshot("MSL37",
			entity("same", taxonomy.Classification{Family: "Myoviridae", Genus: "Mosigvirus"}),
			entity("mover", taxonomy.Classification{Family: "Straboviridae", Genus: "Tequatrovirus"}),
			entity("newcomer", taxonomy.Classification{Family: "Schitoviridae"}),
		),
	}

	mapper, err := NewMapper(provider, testMapperSettings(), nil)
	require.NoError(t, err)

	mapping, err := mapper.BuildMapping("MSL36", "MSL37")
	require.NoError(t, err)
	require.Len(t, mapping, 4)

	assert.Equal(t, MappingUnchanged, mapping["same"].Status)
	assert.Empty(t, mapping["same"].Changes)
	assert.Equal(t, 1.0, mapping["same"].Confidence)

	assert.Equal(t, MappingMoved, mapping["mover"].Status)
	assert.Equal(t, []string{"family: Myoviridae → Straboviridae"}, mapping["mover"].Changes)
	assert.Equal(t, "Straboviridae", mapping["mover"].TargetClassification.Family)

	assert.Equal(t, MappingRemoved, mapping["gone"].Status)
	assert.Nil(t, mapping["gone"].TargetClassification)

	assert.Equal(t, MappingAdded, mapping["newcomer"].Status)
	assert.Nil(t, mapping["newcomer"].SourceClassification)
	assert.Equal(t, "MSL36", mapping["newcomer"].SourceVersion)
	assert.Equal(t, "MSL37", mapping["newcomer"].TargetVersion)
}

func TestBuildMappingDescribesRankLoss(t *testing.T) {
	t.Parallel()

	provider := fakeProvider{
		"MSL36": snapshot("MSL36",
			entity("x", taxonomy.Classification{Order: "Caudovirales", Family: "Siphoviridae"}),
		),
		"MSL37": snapshot("MSL37",
			entity("x", taxonomy.Classification{Family: "Drexlerviridae"}),
		),
	}

	mapper, err := NewMapper(provider, testMapperSettings(), nil)
	require.NoError(t, err)

	mapping, err := mapper.BuildMapping("MSL36", "MSL37")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"order: Caudovirales → none",
		"family: Siphoviridae → Drexlerviridae",
	}, mapping["x"].Changes)
}

func TestBuildMappingCachesResult(t *testing.T) {
	t.Parallel()

	provider := fakeProvider{
		"MSL36": snapshot("MSL36", entity("x", taxonomy.Classification{Family: "Myoviridae"})),
		"MSL37": snapshot("MSL37", entity("x", taxonomy.Classification{Family: "Straboviridae"})),
	}

	mapper, err := NewMapper(provider, testMapperSettings(), nil)
	require.NoError(t, err)

	first, err := mapper.BuildMapping("MSL36", "MSL37")
	require.NoError(t, err)
	second, err := mapper.BuildMapping("MSL36", "MSL37")
	require.NoError(t, err)

	// same map instance, not a rebuild
	assert.Same(t, first["x"], second["x"])
}

func TestBuildMappingUnknownVersion(t *testing.T) {
	t.Parallel()

	provider := fakeProvider{
		"MSL36": snapshot("MSL36", entity("x", taxonomy.Classification{Family: "Myoviridae"})),
	}

	mapper, err := NewMapper(provider, testMapperSettings(), nil)
	require.NoError(t, err)

	_, err = mapper.BuildMapping("MSL36", "MSL99")
	require.Error(t, err)
	assert.True(t, errors.IsVersionNotFound(err))
}

// Threshold zero is a real setting, not a request for the default: any
// positive score cross-links the pair.
func TestBuildMappingZeroThresholdAnnotatesDistantRename(t *testing.T) {
	t.Parallel()

	provider := fakeProvider{
		"MSL36": snapshot("MSL36",
			entity("Abutilon mosaic virus", taxonomy.Classification{Family: "Geminiviridae", Genus: "Begomovirus"}),
		),
		"MSL37": snapshot("MSL37",
			entity("Zucchini yellow mosaic virus", taxonomy.Classification{Family: "Potyviridae", Genus: "Potyvirus"}),
		),
	}

	settings := testMapperSettings()
	settings.Diff.DetectRenames = true
	settings.Diff.RenameThreshold = 0
	mapper, err := NewMapper(provider, settings, nil)
	require.NoError(t, err)

	mapping, err := mapper.BuildMapping("MSL36", "MSL37")
	require.NoError(t, err)

	removed := mapping["Abutilon mosaic virus"]
	require.NotNil(t, removed)
	assert.Contains(t, removed.Notes, "possible rename to")
	assert.Greater(t, removed.Confidence, 0.0)
	assert.Less(t, removed.Confidence, 1.0)
}

func TestBuildMappingAnnotatesRenames(t *testing.T) {
	t.Parallel()

	provider := fakeProvider{
		"MSL36": snapshot("MSL36",
			entity("Escherichia virus T4", taxonomy.Classification{Family: "Myoviridae", Genus: "T4virus"}),
		),
		"MSL37": snapshot("MSL37",
			entity("Escherichia phage T4", taxonomy.Classification{Family: "Straboviridae", Genus: "Tequatrovirus"}),
		),
	}

	settings := testMapperSettings()
	settings.Diff.DetectRenames = true
	mapper, err := NewMapper(provider, settings, nil)
	require.NoError(t, err)

	mapping, err := mapper.BuildMapping("MSL36", "MSL37")
	require.NoError(t, err)

	removed := mapping["Escherichia virus T4"]
	added := mapping["Escherichia phage T4"]
	require.NotNil(t, removed)
	require.NotNil(t, added)

	assert.Equal(t, MappingRemoved, removed.Status)
	assert.Contains(t, removed.Notes, `possible rename to "Escherichia phage T4"`)
	assert.Equal(t, MappingAdded, added.Status)
	assert.Contains(t, added.Notes, `possible rename of "Escherichia virus T4"`)
	assert.Less(t, removed.Confidence, 1.0)
	assert.Equal(t, removed.Confidence, added.Confidence)
}
