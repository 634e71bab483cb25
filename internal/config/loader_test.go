package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoader_CustomPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
version: "1.0"
server:
  base_url: "http://coach.example.com:9000"
polling:
  interval: 500ms
  max_attempts: 10
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config fixture: %v", err)
	}

	cfg, err := NewLoader().LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.BaseURL != "http://coach.example.com:9000" {
		t.Errorf("Expected custom base URL, got %s", cfg.Server.BaseURL)
	}
	if cfg.Polling.Interval != 500*time.Millisecond {
		t.Errorf("Expected interval 500ms, got %s", cfg.Polling.Interval)
	}
	if cfg.Polling.MaxAttempts != 10 {
		t.Errorf("Expected 10 attempts, got %d", cfg.Polling.MaxAttempts)
	}

	// Unset sections fall back to defaults.
	if cfg.Server.UploadField != "video" {
		t.Errorf("Expected default upload field, got %s", cfg.Server.UploadField)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected default output format, got %s", cfg.Output.DefaultFormat)
	}
}

func TestLoader_EnvOverrides(t *testing.T) {
	t.Setenv("SMASHCOACH_SERVER_BASE_URL", "http://override:8000")
	t.Setenv("SMASHCOACH_POLLING_MAX_ATTEMPTS", "30")
	t.Setenv("SMASHCOACH_OUTPUT_VERBOSE", "true")
	t.Setenv("SMASHCOACH_WATCH_EXTENSIONS", ".mp4, .mkv")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(`version: "1.0"`), 0o600); err != nil {
		t.Fatalf("Failed to write config fixture: %v", err)
	}

	cfg, err := NewLoader().LoadConfig(path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Server.BaseURL != "http://override:8000" {
		t.Errorf("Env override not applied to base URL, got %s", cfg.Server.BaseURL)
	}
	if cfg.Polling.MaxAttempts != 30 {
		t.Errorf("Env override not applied to max attempts, got %d", cfg.Polling.MaxAttempts)
	}
	if !cfg.Output.Verbose {
		t.Error("Env override not applied to verbose")
	}
	if len(cfg.Watch.Extensions) != 2 || cfg.Watch.Extensions[1] != ".mkv" {
		t.Errorf("Env override not applied to watch extensions, got %v", cfg.Watch.Extensions)
	}
}

func TestLoader_InvalidEnvValue(t *testing.T) {
	t.Setenv("SMASHCOACH_POLLING_INTERVAL", "often")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(`version: "1.0"`), 0o600); err != nil {
		t.Fatalf("Failed to write config fixture: %v", err)
	}

	if _, err := NewLoader().LoadConfig(path); err == nil {
		t.Error("Expected error for unparseable duration")
	}
}

func TestLoader_RejectsBadPaths(t *testing.T) {
	loader := NewLoader()

	if _, err := loader.LoadConfig("../escape/config.yaml"); err == nil {
		t.Error("Expected error for path traversal")
	}
	if _, err := loader.LoadConfig("/tmp/config.txt"); err == nil {
		t.Error("Expected error for non-YAML extension")
	}
}

func TestLoader_InvalidMergedConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
output:
  default_format: "pdf"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write config fixture: %v", err)
	}

	if _, err := NewLoader().LoadConfig(path); err == nil {
		t.Error("Expected validation failure for unknown output format")
	}
}

func TestSampleConfig_RoundTrips(t *testing.T) {
	dir := t.TempDir()

	for name, content := range map[string]string{
		"full.yaml":    SampleConfig(),
		"minimal.yaml": MinimalSampleConfig(),
	} {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("Failed to write sample %s: %v", name, err)
		}
		if _, err := NewLoader().LoadConfig(path); err != nil {
			t.Errorf("Sample %s must load cleanly: %v", name, err)
		}
	}
}
