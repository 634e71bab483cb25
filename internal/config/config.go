// Package config loads and validates the smashcoach configuration from
// YAML files and environment variables.
package config

import (
	"fmt"
	"time"
)

// Config holds the complete application configuration
type Config struct {
	Version string        `yaml:"version" json:"version"`
	Server  ServerConfig  `yaml:"server" json:"server"`
	Polling PollingConfig `yaml:"polling" json:"polling"`
	Output  OutputConfig  `yaml:"output" json:"output"`
	Storage StorageConfig `yaml:"storage" json:"storage"`
	Watch   WatchConfig   `yaml:"watch" json:"watch"`
}

// ServerConfig configures the analysis service connection
type ServerConfig struct {
	BaseURL       string        `yaml:"base_url" json:"base_url"`             // analysis service endpoint
	Timeout       time.Duration `yaml:"timeout" json:"timeout"`               // status/result query timeout
	UploadTimeout time.Duration `yaml:"upload_timeout" json:"upload_timeout"` // video upload timeout
	UploadField   string        `yaml:"upload_field" json:"upload_field"`     // multipart field carrying the video
}

// PollingConfig configures the result polling loop
type PollingConfig struct {
	Interval    time.Duration `yaml:"interval" json:"interval"`         // wall-clock period between queries
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"` // query ceiling before timeout
}

// OutputConfig configures output formatting and display
type OutputConfig struct {
	DefaultFormat string `yaml:"default_format" json:"default_format"` // text|json|markdown
	ColorMode     string `yaml:"color_mode" json:"color_mode"`         // auto|always|never
	Verbose       bool   `yaml:"verbose" json:"verbose"`               // default verbosity
}

// StorageConfig configures where downloaded comparison GIFs land
type StorageConfig struct {
	CacheDir string `yaml:"cache_dir" json:"cache_dir"`
}

// WatchConfig configures the clip-directory watcher
type WatchConfig struct {
	// Extensions lists the file suffixes the watcher submits.
	Extensions []string `yaml:"extensions" json:"extensions"`

	// SettleDelay is how long a new file must stay quiet before it is
	// considered fully written and safe to upload.
	SettleDelay time.Duration `yaml:"settle_delay" json:"settle_delay"`
}

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			BaseURL:       "http://localhost:8000",
			Timeout:       30 * time.Second,
			UploadTimeout: 5 * time.Minute,
			UploadField:   "video",
		},
		Polling: PollingConfig{
			Interval:    2 * time.Second,
			MaxAttempts: 60,
		},
		Output: OutputConfig{
			DefaultFormat: "text",
			ColorMode:     "auto",
			Verbose:       false,
		},
		Storage: StorageConfig{
			CacheDir: "~/.cache/smashcoach",
		},
		Watch: WatchConfig{
			Extensions:  []string{".mp4", ".mov", ".webm", ".avi"},
			SettleDelay: 2 * time.Second,
		},
	}
}

// Validate checks the configuration section by section.
func (c *Config) Validate() error {
	if err := c.validateServerConfig(); err != nil {
		return err
	}
	if err := c.validatePollingConfig(); err != nil {
		return err
	}
	if err := c.validateOutputConfig(); err != nil {
		return err
	}
	return c.validateWatchConfig()
}

func (c *Config) validateServerConfig() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server base_url must not be empty")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server timeout must be greater than 0")
	}
	if c.Server.UploadTimeout <= 0 {
		return fmt.Errorf("server upload_timeout must be greater than 0")
	}
	if c.Server.UploadField == "" {
		return fmt.Errorf("server upload_field must not be empty")
	}
	return nil
}

func (c *Config) validatePollingConfig() error {
	if c.Polling.Interval <= 0 {
		return fmt.Errorf("polling interval must be greater than 0")
	}
	if c.Polling.MaxAttempts <= 0 {
		return fmt.Errorf("polling max_attempts must be greater than 0")
	}
	return nil
}

func (c *Config) validateOutputConfig() error {
	switch c.Output.DefaultFormat {
	case "json", "text", "markdown":
	default:
		return fmt.Errorf("invalid output format: %s (must be one of: json, text, markdown)", c.Output.DefaultFormat)
	}

	switch c.Output.ColorMode {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("invalid color mode: %s (must be one of: auto, always, never)", c.Output.ColorMode)
	}
	return nil
}

func (c *Config) validateWatchConfig() error {
	if len(c.Watch.Extensions) == 0 {
		return fmt.Errorf("watch extensions must not be empty")
	}
	if c.Watch.SettleDelay < 0 {
		return fmt.Errorf("watch settle_delay must not be negative")
	}
	return nil
}
