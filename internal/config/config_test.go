package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.NotEmpty(t, cfg.Chrome.SearchBaseDir)
	assert.Equal(t, "History", cfg.Chrome.HistoryFile)
	assert.Equal(t, []string{"System Profile", "Guest Profile"}, cfg.Chrome.ExcludeProfiles)
	assert.Equal(t, "~/chromexport", cfg.Output.Root)
	assert.Equal(t, "exports", cfg.Output.ExportsDir)
	assert.Equal(t, "exported-chrome-db", cfg.Output.DirPrefix)
	assert.Equal(t, "all", cfg.Export.Mode)
	assert.True(t, cfg.Export.Truncate)
	assert.False(t, cfg.Export.DateOnly)
	assert.True(t, cfg.Export.RowNumbers)
	assert.Equal(t, "last_visit_time", cfg.Export.OrderBy)
	assert.Equal(t, "desc", cfg.Export.Ordering)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "logs", cfg.Logging.Dir)
	assert.True(t, cfg.Logging.FileEnabled)
	assert.Empty(t, cfg.Metrics.Textfile)
}

func TestDefaultChromeDir(t *testing.T) {
	assert.Equal(t, "~/.config/google-chrome", DefaultChromeDir("linux"))
	assert.Equal(t, "~/Library/Application Support/Google/Chrome", DefaultChromeDir("darwin"))

	t.Setenv("LOCALAPPDATA", "/c/Users/me/AppData/Local")
	assert.Equal(t, filepath.Join("/c/Users/me/AppData/Local", "Google", "Chrome", "User Data"), DefaultChromeDir("windows"))
}

func TestLoadValidYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
chrome:
  search_basedir: "/data/chrome"
  exclude_profiles: []
export:
  mode: "csv"
  truncate: false
logging:
  level: "debug"
`
	err := os.WriteFile(cfgPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(cfgPath)
	require.NoError(t, err)

	// Overridden values
	assert.Equal(t, "/data/chrome", cfg.Chrome.SearchBaseDir)
	assert.Empty(t, cfg.Chrome.ExcludeProfiles)
	assert.Equal(t, "csv", cfg.Export.Mode)
	assert.False(t, cfg.Export.Truncate)
	assert.Equal(t, "debug", cfg.Logging.Level)

	// Non-overridden values remain defaults
	assert.Equal(t, "History", cfg.Chrome.HistoryFile)
	assert.True(t, cfg.Export.RowNumbers)
	assert.Equal(t, "~/chromexport", cfg.Output.Root)
}

func TestLoadInvalidYAMLReturnsError(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	err := os.WriteFile(cfgPath, []byte(":::not valid yaml{{{"), 0644)
	require.NoError(t, err)

	_, err = Load(cfgPath)
	assert.Error(t, err)
}

func TestLoadNonExistentFileReturnsError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing", "config.yaml"))
	assert.Error(t, err)
}

func TestLoadOrCreateCreatesDefaultsWhenMissing(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "sub", "deep", "config.yaml")

	cfg, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)

	// Should return defaults
	assert.Equal(t, "all", cfg.Export.Mode)
	assert.Equal(t, "exports", cfg.Output.ExportsDir)

	// File should now exist on disk
	_, statErr := os.Stat(cfgPath)
	assert.NoError(t, statErr)

	// File should be valid YAML loadable again
	cfg2, err := Load(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, cfg, cfg2)
}

func TestLoadOrCreateLoadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	yamlContent := `
output:
  root: "/srv/exports"
`
	err := os.WriteFile(cfgPath, []byte(yamlContent), 0644)
	require.NoError(t, err)

	cfg, err := LoadOrCreateAt(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "/srv/exports", cfg.Output.Root)
	// Other fields remain defaults
	assert.Equal(t, "exported-chrome-db", cfg.Output.DirPrefix)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	p, err := ExpandPath("~/chromexport")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "chromexport"), p)

	p, err = ExpandPath("/abs/path")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", p)
}

func TestExportsAndLogPath(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Root = "/srv/chromexport"

	exports, err := cfg.ExportsPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/chromexport", "exports"), exports)

	logs, err := cfg.LogPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/srv/chromexport", "logs"), logs)

	cfg.Logging.Dir = "/var/log/chromexport"
	logs, err = cfg.LogPath()
	require.NoError(t, err)
	assert.Equal(t, "/var/log/chromexport", logs)
}
