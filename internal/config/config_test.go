package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Name != "storefront" {
		t.Errorf("expected Name=storefront, got %s", cfg.Name)
	}
	if cfg.Storage.Backend != BackendSQLite {
		t.Errorf("expected Backend=sqlite, got %s", cfg.Storage.Backend)
	}
	if cfg.Storage.Key != "shoppingCart" {
		t.Errorf("expected Key=shoppingCart, got %s", cfg.Storage.Key)
	}
	if cfg.Catalog.URL != "https://fakestoreapi.com/products" {
		t.Errorf("unexpected catalog URL %s", cfg.Catalog.URL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestConfig_SaveLoad(t *testing.T) {
	t.Setenv("STOREFRONT_CATALOG_URL", "")
	t.Setenv("STOREFRONT_STORE", "")

	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Catalog.URL = "http://catalog.local/products"
	cfg.Storage.Backend = BackendMemory
	cfg.UI.Theme = ThemeDark

	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Catalog.URL != "http://catalog.local/products" {
		t.Errorf("expected URL to round-trip, got %s", loaded.Catalog.URL)
	}
	if loaded.Storage.Backend != BackendMemory {
		t.Errorf("expected Backend=memory, got %s", loaded.Storage.Backend)
	}
	if loaded.UI.Theme != ThemeDark {
		t.Errorf("expected Theme=dark, got %s", loaded.UI.Theme)
	}
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Storage.Key != DefaultStorageKey {
		t.Errorf("expected default key, got %s", cfg.Storage.Key)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("catalog: [unterminated"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error for malformed yaml")
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Storage.Backend = "postgres"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown backend")
	}

	cfg = DefaultConfig()
	cfg.Catalog.URL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for missing catalog url")
	}

	cfg = DefaultConfig()
	cfg.Storage.Key = ""
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for empty storage key")
	}

	cfg = DefaultConfig()
	cfg.UI.Theme = "neon"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error for unknown theme")
	}
}

func TestGetCatalogTimeout(t *testing.T) {
	cfg := DefaultConfig()
	if got := cfg.GetCatalogTimeout(); got != 15*time.Second {
		t.Errorf("expected 15s, got %v", got)
	}

	cfg.Catalog.Timeout = "garbage"
	if got := cfg.GetCatalogTimeout(); got != 15*time.Second {
		t.Errorf("expected fallback 15s, got %v", got)
	}

	cfg.Catalog.Timeout = "2s"
	if got := cfg.GetCatalogTimeout(); got != 2*time.Second {
		t.Errorf("expected 2s, got %v", got)
	}
}

func TestLoggingConfig_IsCategoryEnabled(t *testing.T) {
	lc := LoggingConfig{}
	if lc.IsCategoryEnabled("cart") {
		t.Error("categories must be disabled outside debug mode")
	}

	lc.DebugMode = true
	if !lc.IsCategoryEnabled("cart") {
		t.Error("all categories enabled in debug mode without a filter")
	}

	lc.Categories = map[string]bool{"cart": false}
	if lc.IsCategoryEnabled("cart") {
		t.Error("explicitly disabled category should be off")
	}
	if !lc.IsCategoryEnabled("store") {
		t.Error("unspecified category should default to on")
	}
}

func TestUIConfig_GetResizeDebounce(t *testing.T) {
	ui := *DefaultUIConfig()
	if got := ui.GetResizeDebounce(); got != 50*time.Millisecond {
		t.Errorf("expected 50ms, got %v", got)
	}
	ui.ResizeDebounce = "soon"
	if got := ui.GetResizeDebounce(); got != 0 {
		t.Errorf("expected 0 for invalid value, got %v", got)
	}
}
