package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := NewLoader(filepath.Join(t.TempDir(), "missing.yaml")).decode()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 24*time.Hour, cfg.Idempotency.TTL)
	assert.Equal(t, "http", cfg.OTel.Protocol)
	assert.Equal(t, int64(1), cfg.Snowflake.Node)
	assert.False(t, cfg.IsProduction())
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  env: production
database:
  driver: SQLite
  dsn: "file::memory:"
idempotency:
  ttl: 1h
log:
  level: debug
`), 0o600))
	t.Setenv("CABINBUDDY_HTTP_ADDR", ":9999")
	t.Setenv("CABINBUDDY_REDIS_ENABLED", "true")

	cfg, err := NewLoader(path).Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, time.Hour, cfg.Idempotency.TTL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, ":9999", cfg.HTTP.Addr)
	assert.True(t, cfg.Redis.Enabled)
}

func TestOnChangeNotifiesSubscribers(t *testing.T) {
	l := NewLoader("")
	var got Config
	l.OnChange(func(c Config) { got = c })

	l.v.Set("log.level", "warn")
	l.notify()
	assert.Equal(t, "warn", got.Log.Level)
}
