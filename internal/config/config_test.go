package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadYAMLWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9090"
log:
  level: info
postgres:
  url: postgres://file
catalog:
  update_guard: explicit-pair
stats:
  ttl: 30s
`), 0o600))

	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Server.Port)
	require.Equal(t, "postgres://env", cfg.Postgres.URL)
	require.Equal(t, "debug", cfg.Log.Level)
	require.Equal(t, "explicit-pair", cfg.Catalog.UpdateGuard)
	require.Equal(t, 30*time.Second, TTLDuration(cfg.Stats.TTL, time.Minute))
}

func TestLoadMissingFileUsesEnv(t *testing.T) {
	t.Setenv("REDIS_ADDR", "localhost:6379")
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [unclosed"), 0o600))
	_, err := Load(path)
	require.Error(t, err)
}

func TestTTLDuration(t *testing.T) {
	require.Equal(t, time.Minute, TTLDuration("", time.Minute))
	require.Equal(t, time.Minute, TTLDuration("soon", time.Minute))
	require.Equal(t, 2*time.Hour, TTLDuration("2h", time.Minute))
}
