package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/volcano-status-backend/internal/repos/testutil"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := LoadConfig(testutil.Logger(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5, cfg.Database.PoolSize)
	assert.Equal(t, 10, cfg.Database.MaxOverflow)
}

func TestLoadConfigFileThenEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
  request_timeout_seconds: 3
database:
  host: db.internal
  pool_size: 20
metrics:
  enabled: false
`), 0o644))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("POSTGRES_HOST", "db.override")

	cfg, err := LoadConfig(testutil.Logger(t))
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.MetricsEnabled)
	// Env beats file.
	assert.Equal(t, "db.override", cfg.Database.Host)
	assert.Equal(t, 20, cfg.Database.PoolSize)
}

func TestLoadConfigBadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("server: ["), 0o644))

	t.Setenv("CONFIG_PATH", path)

	_, err := LoadConfig(testutil.Logger(t))
	assert.Error(t, err)
}
