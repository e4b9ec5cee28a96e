// ABOUTME: Tests for daybook configuration management.
// ABOUTME: Covers defaults, env overrides, load/save and path expansion.
package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) string {
	t.Helper()
	tmpDir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", tmpDir)
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmpDir, "data"))
	for _, key := range []string{"DATA_DIR", "DEBUG", "ARCHIVE_DIR", "AI_DAILY_LIMIT"} {
		t.Setenv(EnvPrefix+"_"+key, "")
		require.NoError(t, os.Unsetenv(EnvPrefix+"_"+key))
	}
	return tmpDir
}

func TestLoadDefaults(t *testing.T) {
	tmpDir := isolate(t)

	cfg, err := Load("")
	require.NoError(t, err, "Load with no config file should not error")

	assert.Empty(t, cfg.DataDir)
	assert.False(t, cfg.Debug)
	assert.Zero(t, cfg.AIDailyLimit, "zero keeps the limit stored in settings")
	assert.Equal(t, filepath.Join(tmpDir, "data", "daybook", "daybook.db"), cfg.DBPath())
	assert.Equal(t, filepath.Join(tmpDir, "data", "daybook", "archive"), cfg.GetArchiveDir())
}

func TestLoadFromDefaultPath(t *testing.T) {
	tmpDir := isolate(t)

	dir := filepath.Join(tmpDir, "daybook")
	require.NoError(t, os.MkdirAll(dir, 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(
		"data_dir: /srv/daybook\ndebug: true\nai_daily_limit: 25\n"), 0o600))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/srv/daybook", cfg.DataDir)
	assert.True(t, cfg.Debug)
	assert.Equal(t, 25, cfg.AIDailyLimit)
	assert.Equal(t, "/srv/daybook/daybook.db", cfg.DBPath())
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.Path())
}

func TestLoadEnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("DAYBOOK_DATA_DIR", "/env/data")
	t.Setenv("DAYBOOK_ARCHIVE_DIR", "/env/archive")
	t.Setenv("DAYBOOK_AI_DAILY_LIMIT", "3")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "/env/data", cfg.GetDataDir())
	assert.Equal(t, "/env/archive", cfg.GetArchiveDir())
	assert.Equal(t, 3, cfg.AIDailyLimit)
}

func TestLoadExplicitFile(t *testing.T) {
	tmpDir := isolate(t)

	path := filepath.Join(tmpDir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("archive_dir: ~/snapshots\n"), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	home, _ := os.UserHomeDir()
	assert.Equal(t, filepath.Join(home, "snapshots"), cfg.GetArchiveDir())
	assert.Equal(t, path, cfg.Path())
}

func TestLoadErrors(t *testing.T) {
	tmpDir := isolate(t)

	_, err := Load(filepath.Join(tmpDir, "missing.yaml"))
	assert.Error(t, err, "explicit missing file should error")

	bad := filepath.Join(tmpDir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("data_dir: [unclosed\n"), 0o600))
	_, err = Load(bad)
	assert.Error(t, err, "invalid YAML should error")

	negative := filepath.Join(tmpDir, "negative.yaml")
	require.NoError(t, os.WriteFile(negative, []byte("ai_daily_limit: -1\n"), 0o600))
	_, err = Load(negative)
	assert.ErrorContains(t, err, "ai_daily_limit")
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := isolate(t)

	cfg := &Config{DataDir: "/tmp/daybook-data", AIDailyLimit: 7}
	require.NoError(t, cfg.Save())
	assert.FileExists(t, filepath.Join(tmpDir, "daybook", "config.yaml"))

	loaded, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/daybook-data", loaded.DataDir)
	assert.Equal(t, 7, loaded.AIDailyLimit)
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"/tmp/foo", "/tmp/foo"},
		{"~", home},
		{"~/data/daybook", filepath.Join(home, "data/daybook")},
		{"data/daybook", "data/daybook"},
	}
	for _, tt := range tests {
		if got := ExpandPath(tt.in); got != tt.want {
			t.Errorf("ExpandPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestOpenStorage(t *testing.T) {
	cfg := &Config{DataDir: t.TempDir()}

	db, err := cfg.OpenStorage()
	require.NoError(t, err)
	defer db.Close()

	assert.FileExists(t, filepath.Join(cfg.DataDir, "daybook.db"))
}
