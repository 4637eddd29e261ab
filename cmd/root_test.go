package cmd

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mslgit/mslgit-go/internal/conf"
	"github.com/mslgit/mslgit-go/internal/observability"
)

func writeRecord(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// Commands must record into the same collectors the telemetry endpoint
// serves, so scraping after a run shows non-zero counters.
func TestCommandsRecordMetrics(t *testing.T) {
	storeDir := t.TempDir()

	releaseA := t.TempDir()
	writeRecord(t, releaseA, "t4.yaml",
		"name: Escherichia virus T4\nclassification:\n  family: Myoviridae\n  genus: Tequatrovirus\n")
	releaseB := t.TempDir()
	writeRecord(t, releaseB, "t4.yaml",
		"name: Escherichia virus T4\nclassification:\n  family: Straboviridae\n  genus: Tequatrovirus\n")

	settings := &conf.Settings{}
	settings.Store.DefaultBranch = "master"
	settings.Store.AuthorName = "tester"
	settings.Store.AuthorEmail = "tester@localhost"
	settings.Mapping.CacheSize = 4

	m, err := observability.NewMetrics()
	require.NoError(t, err)

	root := RootCommand(settings, m)
	for _, args := range [][]string{
		{"--store", storeDir, "ingest", "MSL36", releaseA},
		{"--store", storeDir, "ingest", "MSL37", releaseB},
		{"--store", storeDir, "compare", "MSL36", "MSL37"},
	} {
		root.SetArgs(args)
		require.NoError(t, root.Execute())
	}

	mux := http.NewServeMux()
	m.RegisterHandlers(mux)
	recorder := httptest.NewRecorder()
	mux.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := recorder.Body.String()
	assert.Contains(t, body, `mslstore_snapshot_loads_total{status="success"} 2`)
	assert.Contains(t, body, `mslstore_cache_operations_total{result="miss"} 2`)
	assert.Contains(t, body, "diff_comparisons_total 1")
	assert.Contains(t, body, `diff_changes_total{change_type="reclassification"} 1`)
}
