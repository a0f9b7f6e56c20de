package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.False(t, cfg.Debug)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "./database.db", cfg.Store.SQLitePath)
	assert.Equal(t, "images:", cfg.Store.Redis.KeyPrefix)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("IMAGES_SERVER_ADDR", ":9090")
	t.Setenv("IMAGES_STORE_BACKEND", "memory")
	t.Setenv("IMAGES_SERVER_SHUTDOWN_TIMEOUT", "2s")

	cfg, err := Load(New(), "")
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, BackendMemory, cfg.Store.Backend)
	assert.Equal(t, 2*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoad_LegacySQLitePath(t *testing.T) {
	t.Setenv("SQLITE_DB_PATH", "/tmp/legacy.db")

	cfg, err := Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/legacy.db", cfg.Store.SQLitePath)

	// the prefixed variable wins
	t.Setenv("IMAGES_STORE_SQLITE_PATH", "/tmp/new.db")
	cfg, err = Load(New(), "")
	require.NoError(t, err)
	assert.Equal(t, "/tmp/new.db", cfg.Store.SQLitePath)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
debug: true
server:
  addr: "127.0.0.1:8181"
store:
  backend: gorm
  gorm:
    dialect: postgres
    dsn: "host=localhost user=images dbname=images"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(New(), path)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, "127.0.0.1:8181", cfg.Server.Addr)
	assert.Equal(t, BackendGorm, cfg.Store.Backend)
	assert.Equal(t, "postgres", cfg.Store.Gorm.Dialect)
	assert.Equal(t, "host=localhost user=images dbname=images", cfg.Store.Gorm.DSN)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(New(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	v := New()
	v.Set("store.backend", "cassandra")
	_, err = Load(v, "")
	assert.ErrorContains(t, err, "unknown store backend")

	v = New()
	v.Set("server.shutdown_timeout", "0s")
	_, err = Load(v, "")
	assert.ErrorContains(t, err, "shutdown_timeout")
}
