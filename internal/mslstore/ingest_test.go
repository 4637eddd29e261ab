package mslstore

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReleaseDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "t4.yaml"), []byte(
		"name: Escherichia virus T4\nclassification:\n  family: Straboviridae\n  genus: Tequatrovirus\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nameless.yaml"), []byte(
		"classification:\n  family: Myoviridae\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	snapshot, err := LoadReleaseDir(dir, "MSL37")
	require.NoError(t, err)
	assert.Equal(t, 1, snapshot.Len())

	t4, ok := snapshot.Get("Escherichia virus T4")
	require.True(t, ok)
	assert.Equal(t, "Straboviridae", t4.Classification.Family)
	assert.Equal(t, "MSL37", t4.Meta.SourceVersion)
}

func TestLoadReleaseCSV(t *testing.T) {
	t.Parallel()

	input := strings.Join([]string{
		"Species,Realm,Order,Family,Genus,Genome Composition",
		"Escherichia virus T4,Duplodnaviria,Caudovirales,Straboviridae,Tequatrovirus,dsDNA",
		"Escherichia virus T7,Duplodnaviria,Caudovirales,Autographiviridae,Teseptimavirus,dsDNA",
		",Duplodnaviria,,,,dsDNA",
	}, "\n")

	snapshot, err := LoadReleaseCSV(strings.NewReader(input), "MSL37", "species")
	require.NoError(t, err)
	assert.Equal(t, 2, snapshot.Len())

	t4, ok := snapshot.Get("Escherichia virus T4")
	require.True(t, ok)
	assert.Equal(t, "Straboviridae", t4.Classification.Family)
	assert.Equal(t, "Tequatrovirus", t4.Classification.Genus)
	assert.Equal(t, "dsDNA", t4.Meta.Extra["genome composition"])
}

func TestLoadReleaseCSVMissingNameColumn(t *testing.T) {
	t.Parallel()

	_, err := LoadReleaseCSV(strings.NewReader("Realm,Family\nDuplodnaviria,Myoviridae\n"), "MSL37", "species")
	assert.Error(t, err)
}
