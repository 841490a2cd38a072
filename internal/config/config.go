// Package config provides configuration loading and structs for pdfsift.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application.
type Config struct {
	Debug bool `yaml:"debug"`
	// Directory is the document directory every operation is bound to.
	Directory                string       `yaml:"directory"`
	Extension                string       `yaml:"extension"`
	CaseInsensitiveExtension bool         `yaml:"case_insensitive_extension"`
	Workers                  int          `yaml:"workers"`
	Export                   ExportConfig `yaml:"export"`
	Cache                    CacheConfig  `yaml:"cache"`
	Server                   ServerConfig `yaml:"server"`
	Watch                    WatchConfig  `yaml:"watch"`
}

// ExportConfig holds export settings.
type ExportConfig struct {
	DefaultFormat string `yaml:"default_format"`
}

// CacheConfig holds extraction cache settings for long-running modes.
type CacheConfig struct {
	Enabled bool `yaml:"enabled"`
	Size    int  `yaml:"size"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Address returns host:port.
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// WatchConfig holds directory watch settings.
type WatchConfig struct {
	DebounceMS   int    `yaml:"debounce_ms"`
	ExportFormat string `yaml:"export_format"`
}

// CacheSize returns the configured cache size, or 0 when the cache is disabled.
func (c *Config) CacheSize() int {
	if !c.Cache.Enabled {
		return 0
	}
	return c.Cache.Size
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)
	cfg.Directory = expandPath(cfg.Directory, filepath.Dir(path))
	return &cfg, nil
}

// Save writes the config to path.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// expandPath converts a path to absolute. "~/" is the home directory; other relative
// paths are relative to configDir.
func expandPath(path string, configDir string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[2:])
		}
		return path
	}
	return filepath.Join(configDir, path)
}
