package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"grafanapdf/pkg/sdk"
)

func TestLoadConfigCreatesDefaults(t *testing.T) {
	tempDir := t.TempDir()

	cfg, err := LoadConfig(tempDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.API.URL != sdk.DefaultBaseURL {
		t.Errorf("Expected default API URL %s, got %s", sdk.DefaultBaseURL, cfg.API.URL)
	}
	if cfg.API.Timeout != 120*time.Second {
		t.Errorf("Expected 120s timeout, got %v", cfg.API.Timeout)
	}
	if cfg.Storage.DatabasePath != filepath.Join(tempDir, defaultDatabaseFile) {
		t.Errorf("Unexpected database path %s", cfg.Storage.DatabasePath)
	}

	if _, err := os.Stat(filepath.Join(tempDir, defaultConfigName)); os.IsNotExist(err) {
		t.Error("Config file was not created")
	}

	again, err := LoadConfig(tempDir)
	if err != nil {
		t.Fatalf("Reloading config failed: %v", err)
	}
	if again.Storage.CookiePath != cfg.Storage.CookiePath {
		t.Errorf("Expected config to persist. Got %s, want %s", again.Storage.CookiePath, cfg.Storage.CookiePath)
	}
}

func TestLoadConfigFileAndEnvOverride(t *testing.T) {
	tempDir := t.TempDir()
	content := "api:\n  url: http://reports.internal:9000/api\n  timeout: 30s\nlogging:\n  level: debug\n"
	if err := os.WriteFile(filepath.Join(tempDir, defaultConfigName), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(tempDir)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.API.URL != "http://reports.internal:9000/api" {
		t.Errorf("Expected file URL, got %s", cfg.API.URL)
	}
	if cfg.API.Timeout != 30*time.Second {
		t.Errorf("Expected 30s timeout from file, got %v", cfg.API.Timeout)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected debug level, got %s", cfg.Logging.Level)
	}

	t.Setenv("GRAFANA_PDF_API_URL", "https://pdf.example.com/api")
	cfg, err = LoadConfig(tempDir)
	if err != nil {
		t.Fatalf("LoadConfig with env failed: %v", err)
	}
	if cfg.API.URL != "https://pdf.example.com/api" {
		t.Errorf("Expected env URL to win, got %s", cfg.API.URL)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := defaultConfig(t.TempDir())
	cfg.Preferences.Theme = "sepia"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected invalid theme to fail validation")
	}

	cfg = defaultConfig(t.TempDir())
	cfg.API.URL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Error("Expected invalid URL to fail validation")
	}
}

func TestEnvTransform(t *testing.T) {
	tests := map[string]string{
		"GRAFANA_PDF_API_URL":               "api.url",
		"GRAFANA_PDF_STORAGE_DATABASE_PATH": "storage.database_path",
		"GRAFANA_PDF_LOGGING_LEVEL":         "logging.level",
	}
	for in, want := range tests {
		if got := envTransform(in); got != want {
			t.Errorf("envTransform(%s) = %s, want %s", in, got, want)
		}
	}
}
