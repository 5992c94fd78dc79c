package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.True(t, cfg.SkipSystem)
	assert.Equal(t, int64(100), cfg.MinLargeFileSizeMB)
}

func TestLoadParsesOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
skip_system: false
min_large_file_size_mb: 250
protected_paths:
  - /home/u/keep
exclude_patterns:
  - "*.iso"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.False(t, cfg.SkipSystem)
	assert.Equal(t, int64(250), cfg.MinLargeFileSizeMB)
	assert.Equal(t, []string{"/home/u/keep"}, cfg.ProtectedPaths)
	assert.Equal(t, []string{"*.iso"}, cfg.ExcludePatterns)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("skip_system: [broken"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"negative min size", func(c *Config) { c.MinLargeFileSizeMB = -1 }, true},
		{"relative protected path", func(c *Config) { c.ProtectedPaths = []string{"keep"} }, true},
		{"bad exclude pattern", func(c *Config) { c.ExcludePatterns = []string{"[unclosed"} }, true},
		{"valid extras", func(c *Config) {
			c.ProtectedPaths = []string{"/home/u/keep"}
			c.ExcludePatterns = []string{"*.iso"}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefault()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := GetDefault()
	cfg.MinLargeFileSizeMB = 500
	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, int64(500), loaded.MinLargeFileSizeMB)
}
