package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Version != "1.0" {
		t.Errorf("Expected version 1.0, got %s", cfg.Version)
	}
	if cfg.Server.BaseURL != "http://localhost:8000" {
		t.Errorf("Expected default base URL, got %s", cfg.Server.BaseURL)
	}
	if cfg.Server.UploadField != "video" {
		t.Errorf("Expected upload field 'video', got %s", cfg.Server.UploadField)
	}
	if cfg.Polling.Interval != 2*time.Second {
		t.Errorf("Expected poll interval 2s, got %s", cfg.Polling.Interval)
	}
	if cfg.Polling.MaxAttempts != 60 {
		t.Errorf("Expected max attempts 60, got %d", cfg.Polling.MaxAttempts)
	}
	if cfg.Output.DefaultFormat != "text" {
		t.Errorf("Expected output format text, got %s", cfg.Output.DefaultFormat)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Default config must validate, got %v", err)
	}
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{
			name:    "valid config",
			mutate:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "empty base URL",
			mutate:  func(c *Config) { c.Server.BaseURL = "" },
			wantErr: true,
		},
		{
			name:    "zero poll interval",
			mutate:  func(c *Config) { c.Polling.Interval = 0 },
			wantErr: true,
		},
		{
			name:    "negative max attempts",
			mutate:  func(c *Config) { c.Polling.MaxAttempts = -1 },
			wantErr: true,
		},
		{
			name:    "invalid output format",
			mutate:  func(c *Config) { c.Output.DefaultFormat = "yaml" },
			wantErr: true,
		},
		{
			name:    "invalid color mode",
			mutate:  func(c *Config) { c.Output.ColorMode = "sometimes" },
			wantErr: true,
		},
		{
			name:    "no watch extensions",
			mutate:  func(c *Config) { c.Watch.Extensions = nil },
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
