package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvOverrides_Catalog(t *testing.T) {
	t.Setenv("STOREFRONT_CATALOG_URL", "http://mirror.local/products")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, "http://mirror.local/products", cfg.Catalog.URL)
}

func TestEnvOverrides_Storage(t *testing.T) {
	t.Run("backend and path", func(t *testing.T) {
		t.Setenv("STOREFRONT_STORE", "redis")
		t.Setenv("STOREFRONT_DB", "/tmp/other.db")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, BackendRedis, cfg.Storage.Backend)
		assert.Equal(t, "/tmp/other.db", cfg.Storage.Path)
	})

	t.Run("redis connection", func(t *testing.T) {
		t.Setenv("REDIS_ADDR", "cache:6380")
		t.Setenv("REDIS_DB", "3")
		t.Setenv("REDIS_PASSWORD", "hunter2")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, "cache:6380", cfg.Storage.Redis.Addr)
		assert.Equal(t, 3, cfg.Storage.Redis.DB)
		assert.Equal(t, "hunter2", cfg.Storage.Redis.Password)
	})

	t.Run("non-numeric REDIS_DB is ignored", func(t *testing.T) {
		t.Setenv("REDIS_DB", "one")

		cfg := DefaultConfig()
		cfg.applyEnvOverrides()

		assert.Equal(t, 0, cfg.Storage.Redis.DB)
	})
}

func TestEnvOverrides_UIAndLogging(t *testing.T) {
	t.Setenv("STOREFRONT_DARK_MODE", "1")
	t.Setenv("STOREFRONT_DEBUG", "1")

	cfg := &Config{}
	cfg.applyEnvOverrides()

	assert.Equal(t, ThemeDark, cfg.UI.Theme)
	assert.True(t, cfg.Logging.DebugMode)
}

func TestEnvOverrides_EmptyLeavesDefaults(t *testing.T) {
	t.Setenv("STOREFRONT_CATALOG_URL", "")
	t.Setenv("STOREFRONT_STORE", "")
	t.Setenv("STOREFRONT_DARK_MODE", "")

	cfg := DefaultConfig()
	cfg.applyEnvOverrides()

	assert.Equal(t, DefaultConfig().Catalog.URL, cfg.Catalog.URL)
	assert.Equal(t, BackendSQLite, cfg.Storage.Backend)
	assert.Equal(t, ThemeAuto, cfg.UI.Theme)
}
