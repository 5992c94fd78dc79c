package config

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Speed selects how deep a scan traverses.
type Speed string

const (
	SpeedQuick    Speed = "quick"
	SpeedNormal   Speed = "normal"
	SpeedThorough Speed = "thorough"
)

// ParseSpeed converts a flag value into a Speed
func ParseSpeed(s string) (Speed, error) {
	switch Speed(s) {
	case SpeedQuick, SpeedNormal, SpeedThorough:
		return Speed(s), nil
	default:
		return "", fmt.Errorf("unknown scan speed: %q (want quick, normal, or thorough)", s)
	}
}

// MaxDepth returns the traversal depth bound for the speed. A negative
// value means unbounded.
func (s Speed) MaxDepth() int {
	switch s {
	case SpeedQuick:
		return 3
	case SpeedThorough:
		return -1
	default:
		return 6
	}
}

// ScanConfig is the effective configuration of one scan, assembled from
// CLI flags and the file config. It is the unit the cache key is derived
// from: two scans with different effective configs never share a cache
// entry.
type ScanConfig struct {
	Roots            []string `json:"roots"`
	Speed            Speed    `json:"speed"`
	MaxDepth         int      `json:"max_depth"` // 0 means derive from Speed
	MinLargeFileSize int64    `json:"min_large_file_size"`
	FindDuplicates   bool     `json:"find_duplicates"`
	SkipSystem       bool     `json:"skip_system"`
}

// EffectiveMaxDepth resolves the depth bound, preferring an explicit
// override over the speed default. Negative means unbounded.
func (c *ScanConfig) EffectiveMaxDepth() int {
	if c.MaxDepth != 0 {
		return c.MaxDepth
	}
	return c.Speed.MaxDepth()
}

// Fingerprint returns a stable hash of the effective scan configuration.
// The scan cache stores it alongside results so a cached scan built under
// different parameters is never served.
func (c *ScanConfig) Fingerprint() string {
	h := xxhash.New()

	roots := make([]string, len(c.Roots))
	copy(roots, c.Roots)
	sort.Strings(roots)
	for _, root := range roots {
		_, _ = h.WriteString(root)
		_, _ = h.Write([]byte{0})
	}
	_, _ = h.Write([]byte{0})

	_, _ = h.WriteString(string(c.Speed))
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(strconv.Itoa(c.EffectiveMaxDepth()))
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(strconv.FormatInt(c.MinLargeFileSize, 10))
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(strconv.FormatBool(c.FindDuplicates))
	_, _ = h.Write([]byte{0})
	_, _ = h.WriteString(strconv.FormatBool(c.SkipSystem))

	return fmt.Sprintf("%016x", h.Sum64())
}
