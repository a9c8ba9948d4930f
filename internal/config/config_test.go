package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		t.Setenv("GITLET_LOG_LEVEL", "")
		cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("file overrides defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"log_level":"debug","compression":{"level":9}}`), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "debug", cfg.LogLevel)
		assert.Equal(t, 9, cfg.Compression.Level)
		assert.Equal(t, 1024, cfg.Compression.MinSize)
		assert.Equal(t, DefaultBranch, cfg.DefaultBranch)
	})

	t.Run("database options are not read from the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"database":{"in_memory":true},"cache":{"size":5}}`), 0644))

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.False(t, cfg.Database.InMemory)
		assert.Equal(t, 5, cfg.Cache.Size)
	})

	t.Run("environment wins", func(t *testing.T) {
		t.Setenv("GITLET_LOG_LEVEL", "error")
		cfg, err := Load(filepath.Join(t.TempDir(), "config.json"))
		require.NoError(t, err)
		assert.Equal(t, "error", cfg.LogLevel)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{`), 0644))
		_, err := Load(path)
		assert.Error(t, err)
	})
}
