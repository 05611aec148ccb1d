package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all storefront configuration.
type Config struct {
	// Core settings
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	// Remote product source
	Catalog CatalogConfig `yaml:"catalog"`

	// Cart persistence
	Storage StorageConfig `yaml:"storage"`

	// Terminal UI
	UI UIConfig `yaml:"ui"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// CatalogConfig configures the catalog fetcher.
type CatalogConfig struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"`
}

// Storage backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// ValidBackends lists all supported storage backends.
var ValidBackends = []string{BackendSQLite, BackendRedis, BackendMemory}

// StorageConfig configures the cart storage adapter.
type StorageConfig struct {
	Backend string      `yaml:"backend"` // sqlite, redis, memory
	Path    string      `yaml:"path"`    // sqlite database file
	Key     string      `yaml:"key"`     // fixed key holding the serialized cart
	Redis   RedisConfig `yaml:"redis"`
}

// RedisConfig configures the redis storage backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	DB       int    `yaml:"db"`
	Password string `yaml:"password"`
}

// DefaultStorageKey is the key the cart is stored under.
const DefaultStorageKey = "shoppingCart"

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "storefront",
		Version: "0.3.0",

		Catalog: CatalogConfig{
			URL:     "https://fakestoreapi.com/products",
			Timeout: "15s",
		},

		Storage: StorageConfig{
			Backend: BackendSQLite,
			Path:    filepath.Join(".storefront", "cart.db"),
			Key:     DefaultStorageKey,
			Redis: RedisConfig{
				Addr: "localhost:6379",
			},
		},

		UI: *DefaultUIConfig(),

		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Dir:    filepath.Join(".storefront", "logs"),
		},
	}
}

// DefaultConfigPath returns the default path to the config file.
func DefaultConfigPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		return filepath.Join(".storefront", "config.yaml")
	}
	return filepath.Join(cwd, ".storefront", "config.yaml")
}

// Load loads configuration from a YAML file.
// A .env file in the working directory, when present, is loaded first so its
// values take part in the environment overrides.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Defaults if the config file doesn't exist
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()

	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if url := os.Getenv("STOREFRONT_CATALOG_URL"); url != "" {
		c.Catalog.URL = url
	}

	if backend := os.Getenv("STOREFRONT_STORE"); backend != "" {
		c.Storage.Backend = backend
	}
	if path := os.Getenv("STOREFRONT_DB"); path != "" {
		c.Storage.Path = path
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		c.Storage.Redis.Addr = addr
	}
	if db := os.Getenv("REDIS_DB"); db != "" {
		if n, err := strconv.Atoi(db); err == nil {
			c.Storage.Redis.DB = n
		}
	}
	if pw := os.Getenv("REDIS_PASSWORD"); pw != "" {
		c.Storage.Redis.Password = pw
	}

	if os.Getenv("STOREFRONT_DARK_MODE") == "1" {
		c.UI.Theme = ThemeDark
	}

	if os.Getenv("STOREFRONT_DEBUG") == "1" {
		c.Logging.DebugMode = true
	}
}

// GetCatalogTimeout returns the catalog fetch timeout as a duration.
func (c *Config) GetCatalogTimeout() time.Duration {
	d, err := time.ParseDuration(c.Catalog.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Catalog.URL == "" {
		return fmt.Errorf("catalog url not configured (set catalog.url or STOREFRONT_CATALOG_URL)")
	}

	validBackend := false
	for _, b := range ValidBackends {
		if c.Storage.Backend == b {
			validBackend = true
			break
		}
	}
	if !validBackend {
		return fmt.Errorf("invalid storage backend: %s (valid: %v)", c.Storage.Backend, ValidBackends)
	}

	if c.Storage.Key == "" {
		return fmt.Errorf("storage key must not be empty")
	}
	if c.Storage.Backend == BackendSQLite && c.Storage.Path == "" {
		return fmt.Errorf("sqlite backend requires storage.path")
	}
	if c.Storage.Backend == BackendRedis && c.Storage.Redis.Addr == "" {
		return fmt.Errorf("redis backend requires storage.redis.addr (or REDIS_ADDR)")
	}

	return c.UI.Validate()
}
