package logging

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"storefront/internal/config"
)

// resetLogging clears package state between tests.
func resetLogging(t *testing.T) {
	t.Helper()
	CloseAll()
	configMu.Lock()
	settings = config.LoggingConfig{}
	configMu.Unlock()
	loggersMu.Lock()
	logsDir = ""
	loggersMu.Unlock()
	t.Cleanup(CloseAll)
}

func readLog(t *testing.T, dir string, cat Category) string {
	t.Helper()
	date := time.Now().Format("2006-01-02")
	data, err := os.ReadFile(filepath.Join(dir, date+"_"+string(cat)+".log"))
	if err != nil {
		t.Fatalf("Failed to read log for %s: %v", cat, err)
	}
	return string(data)
}

// TestAllCategoriesLog tests that all categories create log files when debug_mode is true
func TestAllCategoriesLog(t *testing.T) {
	resetLogging(t)
	dir := filepath.Join(t.TempDir(), "logs")

	if err := Initialize(dir, config.LoggingConfig{DebugMode: true, Level: "debug"}); err != nil {
		t.Fatalf("Failed to initialize logging: %v", err)
	}
	if !IsDebugMode() {
		t.Error("Expected debug mode to be enabled")
	}

	for _, cat := range AllCategories {
		if !IsCategoryEnabled(cat) {
			t.Errorf("Category %s should be enabled", cat)
		}
		logger := Get(cat)
		logger.Info("Test info message for %s", cat)
		logger.Debug("Test debug message for %s", cat)
		logger.Warn("Test warn message for %s", cat)
		logger.Error("Test error message for %s", cat)
	}

	CloseAll()

	for _, cat := range AllCategories {
		content := readLog(t, dir, cat)
		for _, want := range []string{"Test info message", "Test debug message", "Test warn message", "Test error message"} {
			if !strings.Contains(content, want) {
				t.Errorf("Log file for %s missing %q", cat, want)
			}
		}
	}
}

func TestProductionModeWritesNothing(t *testing.T) {
	resetLogging(t)
	dir := filepath.Join(t.TempDir(), "logs")

	if err := Initialize(dir, config.LoggingConfig{DebugMode: false}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	l := Get(CategoryCart)
	if l.Enabled() {
		t.Error("logger should be a no-op outside debug mode")
	}
	l.Info("should not be written")
	Cart("nor this")

	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("logs directory should not be created in production mode, stat err=%v", err)
	}
}

func TestCategoryFilter(t *testing.T) {
	resetLogging(t)
	dir := filepath.Join(t.TempDir(), "logs")

	lc := config.LoggingConfig{
		DebugMode:  true,
		Categories: map[string]bool{"ui": false, "cart": true},
	}
	if err := Initialize(dir, lc); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	if Get(CategoryUI).Enabled() {
		t.Error("ui category should be disabled")
	}
	if !Get(CategoryCart).Enabled() {
		t.Error("cart category should be enabled")
	}
	if !Get(CategoryStore).Enabled() {
		t.Error("unlisted category should default to enabled")
	}
}

func TestLevelFiltering(t *testing.T) {
	resetLogging(t)
	dir := filepath.Join(t.TempDir(), "logs")

	if err := Initialize(dir, config.LoggingConfig{DebugMode: true, Level: "warn"}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	StoreDebug("hidden debug")
	Store("hidden info")
	Get(CategoryStore).Warn("visible warn")
	CloseAll()

	content := readLog(t, dir, CategoryStore)
	if strings.Contains(content, "hidden") {
		t.Errorf("entries below warn should be filtered, got:\n%s", content)
	}
	if !strings.Contains(content, "visible warn") {
		t.Error("warn entry missing")
	}
}

func TestJSONFormatAndFields(t *testing.T) {
	resetLogging(t)
	dir := filepath.Join(t.TempDir(), "logs")

	if err := Initialize(dir, config.LoggingConfig{DebugMode: true, Format: "json"}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	Get(CategoryCatalog).With("request_id", "abc-123").Info("fetched %d products", 20)
	CloseAll()

	content := readLog(t, dir, CategoryCatalog)
	if !strings.Contains(content, `"request_id":"abc-123"`) {
		t.Errorf("expected structured field in JSON output, got:\n%s", content)
	}
	if !strings.Contains(content, `"msg":"fetched 20 products"`) {
		t.Errorf("expected formatted message in JSON output, got:\n%s", content)
	}
}

func TestInitializeRequiresDir(t *testing.T) {
	resetLogging(t)
	if err := Initialize("", config.LoggingConfig{DebugMode: true}); err == nil {
		t.Error("expected error for empty directory")
	}
}

func TestConcurrentGet(t *testing.T) {
	resetLogging(t)
	dir := filepath.Join(t.TempDir(), "logs")
	if err := Initialize(dir, config.LoggingConfig{DebugMode: true}); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}

	var wg sync.WaitGroup
	got := make([]*Logger, 16)
	for i := range got {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = Get(CategoryCart)
		}(i)
	}
	wg.Wait()

	for i := 1; i < len(got); i++ {
		if got[i] != got[0] {
			t.Fatal("concurrent Get should return the same cached logger")
		}
	}
}
