// Package config provides configuration loading for the reverie client.
//
// Configuration is loaded from an optional YAML file and overridden by
// REVERIE_* environment variables. Everything has a local-development
// default; a config file is never required.
package config

import (
	"fmt"
	"time"
)

// Config holds the complete reverie configuration.
type Config struct {
	Server ServerConfig `koanf:"server"`
	List   ListConfig   `koanf:"list"`
	Log    LogConfig    `koanf:"log"`
}

// ServerConfig holds backend connection settings.
type ServerConfig struct {
	// URL is the dream backend base address.
	URL string `koanf:"url"`
	// Timeout bounds every HTTP request issued by the client.
	Timeout time.Duration `koanf:"timeout"`
}

// ListConfig holds dream-browser settings.
type ListConfig struct {
	// PageSize is the number of summaries fetched per list page.
	PageSize int `koanf:"page_size"`
}

// LogConfig holds log output settings. The TUI owns the terminal, so logs
// always go to a rotated file.
type LogConfig struct {
	Level      string `koanf:"level"`
	File       string `koanf:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb"`
	MaxBackups int    `koanf:"max_backups"`
}

// Default returns the configuration used when no file and no environment
// overrides are present.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			URL:     "http://localhost:8000",
			Timeout: 15 * time.Second,
		},
		List: ListConfig{
			PageSize: 20,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  10,
			MaxBackups: 3,
		},
	}
}

// Validate checks invariants the rest of the client relies on.
func (c *Config) Validate() error {
	if c.Server.URL == "" {
		return fmt.Errorf("server.url must not be empty")
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("server.timeout must be positive, got %s", c.Server.Timeout)
	}
	// The backend caps list limit at 100.
	if c.List.PageSize < 1 || c.List.PageSize > 100 {
		return fmt.Errorf("list.page_size must be in [1, 100], got %d", c.List.PageSize)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error; got %q", c.Log.Level)
	}
	return nil
}
