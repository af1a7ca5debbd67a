package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const maxConfigFileSize = 1024 * 1024 // 1MB

const envPrefix = "REVERIE_"

// Load reads configuration with the following precedence (highest first):
//
//  1. Environment variables (REVERIE_SERVER_URL, REVERIE_LIST_PAGE_SIZE, ...)
//  2. YAML config file (default: ~/.config/reverie/config.yaml)
//  3. Defaults from Default()
//
// A missing config file is not an error. An empty configPath selects the
// default location.
//
// Environment variables map to config keys by stripping the prefix,
// lowercasing, and treating the first underscore as the section separator:
//
//	REVERIE_SERVER_URL      -> server.url
//	REVERIE_SERVER_TIMEOUT  -> server.timeout
//	REVERIE_LIST_PAGE_SIZE  -> list.page_size
//	REVERIE_LOG_LEVEL       -> log.level
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if configPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		configPath = filepath.Join(home, ".config", "reverie", "config.yaml")
	}

	if info, err := os.Stat(configPath); err == nil {
		if info.Size() > maxConfigFileSize {
			return nil, fmt.Errorf("config file %s exceeds %d bytes", configPath, maxConfigFileSize)
		}
		content, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := Default()
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// envTransform maps an environment variable name to a dotted config key.
// The first underscore after the prefix separates section from field; later
// underscores stay literal (LOG_MAX_SIZE_MB -> log.max_size_mb).
func envTransform(s string) string {
	s = strings.ToLower(strings.TrimPrefix(s, envPrefix))
	parts := strings.SplitN(s, "_", 2)
	return strings.Join(parts, ".")
}
