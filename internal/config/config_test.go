package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCreatesDefaultOnFirstRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "outagecal.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, 3, cfg.UpcomingLimit)

	// The default file was written with 0600 perms.
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoadExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outagecal.yaml")
	content := `listen: "0.0.0.0:9090"
feed_path: "/data/schedules.json"
default_suburb: "sub-1"
watch_suburbs: ["sub-1", "sub-2"]
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.Listen)
	assert.Equal(t, "/data/schedules.json", cfg.FeedPath)
	assert.Equal(t, "sub-1", cfg.DefaultSuburb)
	assert.Equal(t, []string{"sub-1", "sub-2"}, cfg.WatchSuburbs)

	// Unset fields are normalized to defaults.
	assert.Equal(t, "* * * * *", cfg.RefreshCron)
	assert.Equal(t, 3, cfg.UpcomingLimit)
	assert.Equal(t, 60, cfg.ReminderLeadMinutes)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outagecal.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listen: [unterminated"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoadEmptyPath(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "outagecal.yaml")

	in := DefaultConfig()
	in.Listen = "127.0.0.1:7070"
	in.WatchSuburbs = []string{"sub-9"}
	require.NoError(t, in.Save(path))

	out, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, in.Listen, out.Listen)
	assert.Equal(t, in.WatchSuburbs, out.WatchSuburbs)
}

func TestNormalize(t *testing.T) {
	var cfg Config
	cfg.Normalize()
	assert.Equal(t, "127.0.0.1:8080", cfg.Listen)
	assert.Equal(t, "./schedules.json", cfg.FeedPath)
	assert.NotNil(t, cfg.WatchSuburbs)
}
