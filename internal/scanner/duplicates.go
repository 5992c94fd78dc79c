package scanner

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/fenilsonani/cleanser/internal/security"
	"github.com/fenilsonani/cleanser/pkg/utils"
)

// defaultDuplicateMinSize keeps tiny files out of duplicate detection;
// hashing them costs more than the bytes they could free.
const defaultDuplicateMinSize = 1024 * 1024

// HashEngine finds duplicate files by content digest. Hashing is
// parallelized across files, never within one file.
type HashEngine struct {
	validator       *security.PathValidator
	minSize         int64
	skipSystem      bool
	excludePatterns []string
	workers         int
	logger          *slog.Logger
}

// HashOption configures a HashEngine
type HashOption func(*HashEngine)

// WithHashExcludePatterns sets glob patterns (matched against base
// names) that duplicate collection skips.
func WithHashExcludePatterns(patterns []string) HashOption {
	return func(h *HashEngine) { h.excludePatterns = patterns }
}

// WithHashLogger sets the logger used for soft warnings
func WithHashLogger(logger *slog.Logger) HashOption {
	return func(h *HashEngine) { h.logger = logger }
}

// NewHashEngine creates a HashEngine. minSize <= 0 selects the built-in
// floor.
func NewHashEngine(validator *security.PathValidator, minSize int64, skipSystem bool, opts ...HashOption) *HashEngine {
	if minSize <= 0 {
		minSize = defaultDuplicateMinSize
	}
	workers := runtime.NumCPU()
	if workers < 4 {
		workers = 4
	}
	if workers > 16 {
		workers = 16
	}
	h := &HashEngine{
		validator:  validator,
		minSize:    minSize,
		skipSystem: skipSystem,
		workers:    workers,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// skipEntry mirrors the traversal deny rules, so duplicate detection
// never surfaces a path the main walk refuses to visit.
func (h *HashEngine) skipEntry(name, full string) bool {
	if h.validator.IsProtectedPath(full) {
		return true
	}
	if h.skipSystem && h.validator.IsCautionPath(full) {
		return true
	}
	for _, pattern := range h.excludePatterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

// CollectFiles gathers plain files eligible for duplicate detection under
// the given roots, honoring the same depth bound and skip rules as the
// main traversal.
func (h *HashEngine) CollectFiles(roots []string, maxDepth int) ([]string, []string) {
	var files []string
	var warnings []string

	for _, root := range roots {
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil {
				warnings = append(warnings, fmt.Sprintf("duplicate scan: cannot read %s: %v", path, err))
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Type()&os.ModeSymlink != 0 {
				return nil
			}
			if d.IsDir() {
				if path != root && h.skipEntry(d.Name(), path) {
					return filepath.SkipDir
				}
				if maxDepth >= 0 && relativeDepth(root, path) >= maxDepth {
					return filepath.SkipDir
				}
				return nil
			}
			if h.skipEntry(d.Name(), path) {
				return nil
			}
			info, err := d.Info()
			if err != nil || info.Size() < h.minSize {
				return nil
			}
			files = append(files, path)
			return nil
		})
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("duplicate scan: %s: %v", root, err))
		}
	}
	return files, warnings
}

// HashDuplicates computes content digests for the given files in parallel
// and returns the groups with at least two identical members. A file that
// cannot be read is excluded with a warning; it never aborts the batch.
func (h *HashEngine) HashDuplicates(files []string) (map[string][]string, []string) {
	var mu sync.Mutex
	byHash := make(map[string][]string)
	var warnings []string

	var g errgroup.Group
	g.SetLimit(h.workers)
	for _, file := range files {
		file := file
		g.Go(func() error {
			digest, err := utils.HashFile(file)
			if err != nil {
				mu.Lock()
				warnings = append(warnings, fmt.Sprintf("cannot hash %s: %v", file, err))
				mu.Unlock()
				h.logger.Warn("cannot hash file", "path", file, "error", err)
				return nil
			}
			mu.Lock()
			byHash[digest] = append(byHash[digest], file)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	groups := make(map[string][]string)
	for digest, paths := range byHash {
		if len(paths) < 2 {
			continue
		}
		sort.Strings(paths)
		groups[digest] = paths
	}
	return groups, warnings
}

// DuplicateItems converts duplicate groups into scan items. The first
// member of each group is treated as the keeper; the rest are surfaced
// as reclaimable.
func DuplicateItems(groups map[string][]string) []ScanItem {
	digests := make([]string, 0, len(groups))
	for digest := range groups {
		digests = append(digests, digest)
	}
	sort.Strings(digests)

	var items []ScanItem
	for _, digest := range digests {
		paths := groups[digest]
		for _, path := range paths[1:] {
			size := int64(0)
			if info, err := os.Stat(path); err == nil {
				size = info.Size()
			}
			items = append(items, ScanItem{
				Path:      path,
				Category:  CategoryDuplicateFile,
				Risk:      RiskFor(CategoryDuplicateFile),
				Size:      size,
				Validated: true,
				Reason:    fmt.Sprintf("duplicate of %s", paths[0]),
			})
		}
	}
	return items
}

func relativeDepth(root, path string) int {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return 0
	}
	return strings.Count(rel, string(filepath.Separator)) + 1
}
