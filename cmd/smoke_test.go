package cmd

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "smoke.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestSmokeRun(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.Method+" "+r.URL.Path)
	}))
	defer server.Close()

	manifest := writeManifest(t, `fixtures:
  - name: stats
    method: GET
    path: /_plugins/_ml/stats
  - name: settings
    method: PUT
    path: /_cluster/settings
    body: |
      {"persistent": {"plugins.ml_commons.only_run_on_ml_node": false}}
`)

	output, err := executeCommand(t, "smoke", "run", "--manifest", manifest, "--endpoint", server.URL)

	require.NoError(t, err)
	assert.Equal(t, []string{
		"GET /_plugins/_ml/stats",
		"PUT /_cluster/settings",
	}, paths)
	assert.Contains(t, output, "stats")
	assert.Contains(t, output, "passed")
}

func TestSmokeRun_ContinuesPastFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	manifest := writeManifest(t, `fixtures:
  - name: first
    method: GET
    path: /a
  - name: second
    method: GET
    path: /b
`)

	// failures are logged, not fatal, by default
	output, err := executeCommand(t, "smoke", "run", "--manifest", manifest, "--endpoint", server.URL)
	require.NoError(t, err)
	assert.Contains(t, output, "failed")
}

func TestSmokeRun_FailOnError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	manifest := writeManifest(t, `fixtures:
  - name: broken
    method: GET
    path: /a
`)

	_, err := executeCommand(t, "smoke", "run", "--manifest", manifest, "--endpoint", server.URL, "--fail-on-error")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 of 1 fixtures failed")
}

func TestSmokeRun_MissingManifest(t *testing.T) {
	_, err := executeCommand(t, "smoke", "run", "--manifest", "/nonexistent/smoke.yml", "--endpoint", "http://localhost:9200")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read manifest")
}
