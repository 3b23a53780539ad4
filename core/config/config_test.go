package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 100, cfg.Remote.PerPage)
	assert.Equal(t, 3, cfg.Remote.MaxAttempts)
	assert.Equal(t, "artist", cfg.Sync.SweepScope)
	assert.False(t, cfg.Sync.Prefetch)
	assert.Equal(t, "large", cfg.Storefront.ImageSize)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("REMOTE_USERNAME", "label@example.com")
	t.Setenv("REMOTE_API_KEY", "secret")
	t.Setenv("REMOTE_ARTIST_IDS", "12, 34")
	t.Setenv("SYNC_PREFETCH", "true")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "label@example.com", cfg.Remote.Username)
	assert.True(t, cfg.Remote.HasCredentials())
	assert.Equal(t, []int64{12, 34}, cfg.Remote.ArtistIDList())
	assert.True(t, cfg.Sync.Prefetch)
}

func TestLoadConfig_DotEnvFile(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_DRIVER=sqlite\nDATABASE_NAME=catalog.db\n"), 0o600)
	require.NoError(t, err)
	t.Cleanup(func() {
		os.Unsetenv("DATABASE_DRIVER")
		os.Unsetenv("DATABASE_NAME")
	})

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "catalog.db", cfg.Database.Name)
}
