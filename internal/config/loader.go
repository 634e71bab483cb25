package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// ConfigPaths defines the config file search paths in priority order
var ConfigPaths = []string{
	"./.smashcoach.yaml",               // Project-specific config (highest priority)
	"~/.config/smashcoach/config.yaml", // User config
	"/etc/smashcoach/config.yaml",      // System config (lowest priority)
}

// Loader handles configuration loading with priority merging
type Loader struct {
	configPaths []string
}

// NewLoader creates a new config loader
func NewLoader() *Loader {
	return &Loader{
		configPaths: ConfigPaths,
	}
}

// LoadConfig loads configuration from multiple sources with priority order:
// 1. Command line flags (handled by caller)
// 2. Environment variables
// 3. ./.smashcoach.yaml
// 4. ~/.config/smashcoach/config.yaml
// 5. /etc/smashcoach/config.yaml
// 6. Built-in defaults
func (l *Loader) LoadConfig(customPath string) (*Config, error) {
	config := DefaultConfig()

	if customPath != "" {
		if err := validateConfigPath(customPath); err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		if err := l.loadFromFile(config, customPath); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", customPath, err)
		}
	} else {
		// Load the standard paths lowest priority first so later files win.
		for i := len(l.configPaths) - 1; i >= 0; i-- {
			expandedPath := expandPath(l.configPaths[i])
			if !fileExists(expandedPath) {
				continue
			}
			if err := l.loadFromFile(config, expandedPath); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: Failed to load config from %s: %v\n", expandedPath, err)
			}
		}
	}

	if err := l.applyEnvOverrides(config); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// loadFromFile loads configuration from a YAML file and merges it with existing config
func (l *Loader) loadFromFile(config *Config, path string) error {
	// #nosec G304 - path is validated by validateConfigPath() before reaching here
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	var fileConfig Config
	if err := yaml.Unmarshal(data, &fileConfig); err != nil {
		return fmt.Errorf("failed to parse YAML: %w", err)
	}

	mergeConfigs(config, &fileConfig)
	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func (l *Loader) applyEnvOverrides(config *Config) error {
	envMappings := map[string]func(string) error{
		// Server Config
		"SMASHCOACH_SERVER_BASE_URL":       func(v string) error { config.Server.BaseURL = v; return nil },
		"SMASHCOACH_SERVER_TIMEOUT":        func(v string) error { return parseDuration(v, &config.Server.Timeout) },
		"SMASHCOACH_SERVER_UPLOAD_TIMEOUT": func(v string) error { return parseDuration(v, &config.Server.UploadTimeout) },
		"SMASHCOACH_SERVER_UPLOAD_FIELD":   func(v string) error { config.Server.UploadField = v; return nil },

		// Polling Config
		"SMASHCOACH_POLLING_INTERVAL":     func(v string) error { return parseDuration(v, &config.Polling.Interval) },
		"SMASHCOACH_POLLING_MAX_ATTEMPTS": func(v string) error { return parseInt(v, &config.Polling.MaxAttempts) },

		// Output Config
		"SMASHCOACH_OUTPUT_DEFAULT_FORMAT": func(v string) error { config.Output.DefaultFormat = v; return nil },
		"SMASHCOACH_OUTPUT_COLOR_MODE":     func(v string) error { config.Output.ColorMode = v; return nil },
		"SMASHCOACH_OUTPUT_VERBOSE":        func(v string) error { return parseBool(v, &config.Output.Verbose) },

		// Storage Config
		"SMASHCOACH_STORAGE_CACHE_DIR": func(v string) error { config.Storage.CacheDir = v; return nil },

		// Watch Config
		"SMASHCOACH_WATCH_SETTLE_DELAY": func(v string) error { return parseDuration(v, &config.Watch.SettleDelay) },
	}

	for envVar, setter := range envMappings {
		if value := os.Getenv(envVar); value != "" {
			if err := setter(value); err != nil {
				return fmt.Errorf("invalid value for %s: %w", envVar, err)
			}
		}
	}

	// Watch extensions arrive as a comma-separated list.
	if exts := os.Getenv("SMASHCOACH_WATCH_EXTENSIONS"); exts != "" {
		config.Watch.Extensions = strings.Split(exts, ",")
		for i, ext := range config.Watch.Extensions {
			config.Watch.Extensions[i] = strings.TrimSpace(ext)
		}
	}

	return nil
}

// GetConfigPaths returns the list of configuration file paths that will be searched
func GetConfigPaths() []string {
	paths := make([]string, 0, len(ConfigPaths))
	for _, path := range ConfigPaths {
		paths = append(paths, expandPath(path))
	}
	return paths
}

// FindConfigFile finds the first existing config file in the search paths
func FindConfigFile() (string, bool) {
	for _, path := range ConfigPaths {
		expandedPath := expandPath(path)
		if fileExists(expandedPath) {
			return expandedPath, true
		}
	}
	return "", false
}

// ExpandPath resolves a leading ~ against the user's home directory.
func ExpandPath(path string) string {
	return expandPath(path)
}

// Helper functions

// validateConfigPath validates that a config path is safe to read
func validateConfigPath(path string) error {
	cleanPath := filepath.Clean(path)

	if strings.Contains(cleanPath, "..") {
		return fmt.Errorf("path traversal not allowed")
	}

	ext := strings.ToLower(filepath.Ext(cleanPath))
	if ext != ".yaml" && ext != ".yml" {
		return fmt.Errorf("config file must have .yaml or .yml extension")
	}

	absPath, err := filepath.Abs(cleanPath)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	if strings.HasPrefix(absPath, "/proc/") || strings.HasPrefix(absPath, "/sys/") {
		return fmt.Errorf("access to system files not allowed")
	}

	return nil
}

// expandPath expands ~ to the user's home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// fileExists checks whether a path exists and is a regular file
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// mergeConfigs merges non-zero fields of src into dst
func mergeConfigs(dst, src *Config) {
	if src.Version != "" {
		dst.Version = src.Version
	}
	mergeServerConfig(&dst.Server, &src.Server)
	mergePollingConfig(&dst.Polling, &src.Polling)
	mergeOutputConfig(&dst.Output, &src.Output)
	if src.Storage.CacheDir != "" {
		dst.Storage.CacheDir = src.Storage.CacheDir
	}
	mergeWatchConfig(&dst.Watch, &src.Watch)
}

func mergeServerConfig(dst, src *ServerConfig) {
	if src.BaseURL != "" {
		dst.BaseURL = src.BaseURL
	}
	if src.Timeout > 0 {
		dst.Timeout = src.Timeout
	}
	if src.UploadTimeout > 0 {
		dst.UploadTimeout = src.UploadTimeout
	}
	if src.UploadField != "" {
		dst.UploadField = src.UploadField
	}
}

func mergePollingConfig(dst, src *PollingConfig) {
	if src.Interval > 0 {
		dst.Interval = src.Interval
	}
	if src.MaxAttempts > 0 {
		dst.MaxAttempts = src.MaxAttempts
	}
}

func mergeOutputConfig(dst, src *OutputConfig) {
	if src.DefaultFormat != "" {
		dst.DefaultFormat = src.DefaultFormat
	}
	if src.ColorMode != "" {
		dst.ColorMode = src.ColorMode
	}
	if src.Verbose {
		dst.Verbose = true
	}
}

func mergeWatchConfig(dst, src *WatchConfig) {
	if len(src.Extensions) > 0 {
		dst.Extensions = src.Extensions
	}
	if src.SettleDelay > 0 {
		dst.SettleDelay = src.SettleDelay
	}
}

func parseInt(s string, dst *int) error {
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func parseBool(s string, dst *bool) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func parseDuration(s string, dst *time.Duration) error {
	v, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
