package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igprofiler/pkg/ui"
)

const alicePage = `<html><script>window._sharedData = {"entry_data": {"ProfilePage": [{"graphql": {"user": {
	"username": "alice",
	"edge_followed_by": {"count": 1000},
	"edge_owner_to_timeline_media": {"edges": [
		{"node": {"edge_liked_by": {"count": 10}, "edge_media_to_comment": {"count": 1}}},
		{"node": {"edge_liked_by": {"count": 20}, "edge_media_to_comment": {"count": 3}}}
	]}
}}}]}};</script></html>`

func execute(t *testing.T, args ...string) error {
	t.Helper()
	t.Cleanup(func() { ui.SetQuiet(false) })
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

func writeConfig(t *testing.T, dir, baseURL string) string {
	t.Helper()
	path := filepath.Join(dir, "igprofiler.yaml")
	content := fmt.Sprintf(`base_url: %q
output:
  json: %q
  csv: %q
  xlsx: %q
logging:
  level: error
`, baseURL, filepath.Join(dir, "out", "results.json"), filepath.Join(dir, "out", "results.csv"), filepath.Join(dir, "out", "results.xlsx"))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestScrapeCommand(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch strings.Trim(r.URL.Path, "/") {
		case "alice":
			_, _ = w.Write([]byte(alicePage))
		case "bob":
			_, _ = w.Write([]byte("<html>no data</html>"))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, server.URL)

	require.NoError(t, execute(t, "scrape", "@alice", "ghost", "bob", "--config", cfgPath, "--quiet"))

	data, err := os.ReadFile(filepath.Join(dir, "out", "results.json"))
	require.NoError(t, err)

	var profiles []map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &profiles))
	require.Len(t, profiles, 2, "failed fetches are left out")

	byName := make(map[string]map[string]interface{})
	for _, p := range profiles {
		byName[p["username"].(string)] = p
	}
	require.Contains(t, byName, "alice")
	require.Contains(t, byName, "bob")
	assert.Equal(t, 1.7, byName["alice"]["engagementRate"])
	assert.Nil(t, byName["bob"]["followersCount"])

	assert.FileExists(t, filepath.Join(dir, "out", "results.csv"))
	assert.FileExists(t, filepath.Join(dir, "out", "results.xlsx"))
}

func TestScrapeCommandMissingInput(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeConfig(t, dir, "https://instagram.test")

	err := execute(t, "scrape", "--config", cfgPath, "--input", filepath.Join(dir, "missing.txt"), "--quiet")
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "igprofiler.yaml")

	require.NoError(t, execute(t, "config", "init", "--config", path, "--quiet"))
	assert.FileExists(t, path)

	assert.Error(t, execute(t, "config", "init", "--config", path, "--quiet"), "refuses to overwrite")
	require.NoError(t, execute(t, "config", "validate", "--config", path, "--quiet"))

	require.NoError(t, os.WriteFile(path, []byte("max_posts: -1\nconcurrent_requests: 0\n"), 0644))
	err := execute(t, "config", "validate", "--config", path, "--quiet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max_posts")
	assert.Contains(t, err.Error(), "concurrent_requests")
}
