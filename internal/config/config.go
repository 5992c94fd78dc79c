package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// AppName is used for XDG directory paths.
const AppName = "cleanser"

// Config is the optional file configuration. All fields have working
// defaults; the file only needs to exist when the user wants to override
// them.
type Config struct {
	// SkipSystem adds extra user-library caution paths to the traversal
	// deny-list. The fixed system deny-list is always applied and cannot
	// be disabled from configuration.
	SkipSystem bool `yaml:"skip_system"`

	// ProtectedPaths are additional absolute path prefixes that the
	// scanner never descends into and the cleaner never deletes.
	ProtectedPaths []string `yaml:"protected_paths"`

	// ExcludePatterns are glob patterns matched against base names of
	// entries to skip during traversal.
	ExcludePatterns []string `yaml:"exclude_patterns"`

	// MinLargeFileSizeMB is the default threshold for large-file
	// detection, overridable per scan with --min-size.
	MinLargeFileSizeMB int64 `yaml:"min_large_file_size_mb"`
}

// GetDefault returns the built-in configuration
func GetDefault() *Config {
	return &Config{
		SkipSystem:         true,
		MinLargeFileSizeMB: 100,
	}
}

// Load loads configuration from a file, falling back to defaults when the
// file does not exist.
func Load(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return GetDefault(), nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := GetDefault()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// Save writes configuration to a file
func Save(config *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.MinLargeFileSizeMB < 0 {
		return fmt.Errorf("min large file size must be >= 0")
	}

	for _, path := range c.ProtectedPaths {
		if !filepath.IsAbs(path) {
			return fmt.Errorf("protected path must be absolute: %s", path)
		}
	}

	for _, pattern := range c.ExcludePatterns {
		if _, err := filepath.Match(pattern, "sample"); err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}

	return nil
}

// GetConfigPath returns the default config file path under the XDG config
// directory.
func GetConfigPath() string {
	return filepath.Join(xdg.ConfigHome, AppName, "config.yaml")
}

// GetCacheDir returns the scan cache directory under the XDG cache
// directory.
func GetCacheDir() string {
	return filepath.Join(xdg.CacheHome, AppName)
}
