// Package cache persists the most recent scan result so repeated
// invocations within a short window can skip the filesystem walk.
package cache

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fenilsonani/cleanser/internal/config"
	"github.com/fenilsonani/cleanser/internal/scanner"
)

// Freshness is how long a cached scan result stays servable. Filesystems
// drift; an hour is long enough to make scan-then-clean cheap and short
// enough that the numbers still roughly match the disk.
const Freshness = time.Hour

const cacheFileName = "last-scan.json"

// Entry is the on-disk cache record
type Entry struct {
	CreatedAt time.Time           `json:"created_at"`
	ConfigKey string              `json:"config_key"`
	Result    *scanner.ScanResult `json:"result"`
}

// Cache stores a single scan result on disk. A cache read is a miss when
// the file is missing, unreadable, corrupt, stale, or was produced under
// a different scan configuration; misses are never errors.
type Cache struct {
	dir    string
	logger *slog.Logger
}

// Option configures a Cache
type Option func(*Cache)

// WithDir overrides the cache directory. Used by tests.
func WithDir(dir string) Option {
	return func(c *Cache) { c.dir = dir }
}

// WithLogger sets the logger used for cache diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cache) { c.logger = logger }
}

// New creates a Cache rooted at the XDG cache directory
func New(opts ...Option) *Cache {
	c := &Cache{
		dir:    config.GetCacheDir(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Cache) path() string {
	return filepath.Join(c.dir, cacheFileName)
}

// Load returns the cached scan result when it is fresh and was produced
// under the given scan configuration. The second return value reports a
// hit; any kind of miss returns (nil, false).
func (c *Cache) Load(cfg *config.ScanConfig) (*scanner.ScanResult, bool) {
	data, err := os.ReadFile(c.path())
	if err != nil {
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		c.logger.Warn("discarding corrupt scan cache", "path", c.path(), "error", err)
		return nil, false
	}
	if entry.Result == nil {
		return nil, false
	}
	if entry.ConfigKey != cfg.Fingerprint() {
		c.logger.Debug("scan cache built under different parameters", "path", c.path())
		return nil, false
	}
	if time.Since(entry.CreatedAt) >= Freshness {
		return nil, false
	}
	return entry.Result, true
}

// Save writes the scan result to disk atomically. The entry lands either
// whole or not at all; a crash mid-write never leaves a torn file behind.
func (c *Cache) Save(cfg *config.ScanConfig, result *scanner.ScanResult) error {
	if err := os.MkdirAll(c.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	entry := Entry{
		CreatedAt: time.Now(),
		ConfigKey: cfg.Fingerprint(),
		Result:    result,
	}
	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache entry: %w", err)
	}

	tmp, err := os.CreateTemp(c.dir, cacheFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create cache temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close cache temp file: %w", err)
	}
	if err := os.Rename(tmpName, c.path()); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to install cache entry: %w", err)
	}
	return nil
}

// Invalidate removes the cached entry. Missing is fine.
func (c *Cache) Invalidate() error {
	if err := os.Remove(c.path()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove cache entry: %w", err)
	}
	return nil
}

// Status describes the cache entry on disk without config matching.
// Used by the cache status command.
type Status struct {
	Exists    bool
	Fresh     bool
	CreatedAt time.Time
	Age       time.Duration
	Items     int
	TotalSize int64
	Path      string
}

// Inspect reports what is currently cached
func (c *Cache) Inspect() Status {
	st := Status{Path: c.path()}

	data, err := os.ReadFile(c.path())
	if err != nil {
		return st
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil || entry.Result == nil {
		return st
	}

	st.Exists = true
	st.CreatedAt = entry.CreatedAt
	st.Age = time.Since(entry.CreatedAt)
	st.Fresh = st.Age < Freshness
	st.Items = len(entry.Result.Items)
	st.TotalSize = entry.Result.TotalSize
	return st
}
