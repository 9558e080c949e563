package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadUserConfigWithDefaultsCreatesFile(t *testing.T) {
	dir := t.TempDir()

	cfg, err := loadUserConfigWithDefaults(dir)
	require.NoError(t, err)
	assert.Equal(t, ColumnPercentCPU, cfg.Screen.SortKey)
	assert.FileExists(t, filepath.Join(dir, "config.yml"))
}

func TestWriteToUserConfigPersists(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("CONFIG_DIR", dir)
	cfg, err := NewAppConfig("test", "", "", false)
	require.NoError(t, err)

	err = cfg.WriteToUserConfig(func(u *UserConfig) error {
		u.Screen.TreeView = true
		u.Screen.SortKey = ColumnPID
		return nil
	})
	require.NoError(t, err)

	reloaded, err := loadUserConfig(dir, &UserConfig{})
	require.NoError(t, err)
	assert.True(t, reloaded.Screen.TreeView)
	assert.Equal(t, ColumnPID, reloaded.Screen.SortKey)
}

func TestConfigFilename(t *testing.T) {
	cfg := &AppConfig{ConfigDir: "/tmp/xyz"}
	assert.Equal(t, "/tmp/xyz/config.yml", cfg.ConfigFilename())
}
