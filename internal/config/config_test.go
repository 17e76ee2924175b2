package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"productos/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(config.ConfigFileEnv, "")

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "development", cfg.AppEnv)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 1<<20, cfg.BodyLimit)
	assert.Equal(t, config.DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 30*time.Minute, cfg.Store.ConnMaxLifetime)
	assert.Equal(t, "productos", cfg.Store.MongoCollection)
	assert.Equal(t, "product_events", cfg.RabbitMQ.Queue)
	assert.False(t, cfg.IsProduction())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv(config.ConfigFileEnv, "")
	t.Setenv("APP_PORT", ":9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("MONGO_URI", "mongodb://mongo:27017")
	t.Setenv("DB_CONN_MAX_LIFETIME", "5m")

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.AppPort)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, config.DriverMongo, cfg.Store.Driver)
	assert.Equal(t, "mongodb://mongo:27017", cfg.Store.MongoURI)
	assert.Equal(t, 5*time.Minute, cfg.Store.ConnMaxLifetime)
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Setenv(config.ConfigFileEnv, "")
	path := filepath.Join(t.TempDir(), "productos.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store_driver: sqlite\nsqlite_path: /tmp/p.db\nlog_format: json\n"), 0o600))

	cfg, err := config.Load([]string{"--config", path})
	require.NoError(t, err)

	assert.Equal(t, config.DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, "/tmp/p.db", cfg.Store.SQLitePath)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoad_ConfigFileFromEnvironmentAndOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "productos.yaml")
	require.NoError(t, os.WriteFile(path, []byte("store_driver: sqlite\napp_port: \":7000\"\n"), 0o600))
	t.Setenv(config.ConfigFileEnv, path)
	t.Setenv("APP_PORT", ":7001")

	cfg, err := config.Load(nil)
	require.NoError(t, err)

	assert.Equal(t, config.DriverSQLite, cfg.Store.Driver)
	assert.Equal(t, ":7001", cfg.AppPort)
}

func TestLoad_Errors(t *testing.T) {
	t.Setenv(config.ConfigFileEnv, "")

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "cassandra")
		_, err := config.Load(nil)
		assert.Error(t, err)
	})

	t.Run("non-positive body limit", func(t *testing.T) {
		t.Setenv("BODY_LIMIT", "0")
		_, err := config.Load(nil)
		assert.Error(t, err)
	})

	t.Run("missing config file", func(t *testing.T) {
		_, err := config.Load([]string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
		assert.Error(t, err)
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := config.Load([]string{"--verbose"})
		assert.Error(t, err)
	})
}

func TestIsProductionNilSafe(t *testing.T) {
	var cfg *config.Config
	assert.False(t, cfg.IsProduction())
}
