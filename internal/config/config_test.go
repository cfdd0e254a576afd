package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dream-alpha/area51/internal/models"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, models.QualityBest, cfg.ResolveQuality())
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Quality = "9999p"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.MaxVideos = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.PageEntries = -1
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Quality = "720p"
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, models.Quality720, cfg.ResolveQuality())
}

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadMergesWithDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfgDir := filepath.Join(dir, "area51")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.toml"),
		[]byte("quality = \"720p\"\nprefer_av1 = true\n"), 0o644))

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "720p", cfg.Quality)
	assert.True(t, cfg.PreferAV1)
	assert.Equal(t, Default().MaxVideos, cfg.MaxVideos, "unset keys keep defaults")
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfgDir := filepath.Join(dir, "area51")
	require.NoError(t, os.MkdirAll(cfgDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(cfgDir, "config.toml"),
		[]byte("quality = \"potato\"\n"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}
