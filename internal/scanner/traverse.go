package scanner

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/fenilsonani/cleanser/internal/security"
)

const (
	// Candidate directories below this size are noise, not reclaimable
	// storage worth surfacing.
	minDirSize = 1024 * 1024
	// Log files below this size are ignored; small logs are often still
	// useful for debugging and free almost nothing.
	minLogSize = 10 * 1024 * 1024
)

// Traverser walks directory trees, classifying entries into candidates.
// It never follows symlinks and never descends into protected system
// paths.
type Traverser struct {
	validator        *security.PathValidator
	excludePatterns  []string
	maxDepth         int // negative means unbounded
	minLargeFileSize int64
	skipSystem       bool
	workers          int
	logger           *slog.Logger
	progress         func(path string)
}

// TraverserOption configures a Traverser
type TraverserOption func(*Traverser)

// WithExcludePatterns sets glob patterns (matched against base names)
// that traversal skips.
func WithExcludePatterns(patterns []string) TraverserOption {
	return func(t *Traverser) { t.excludePatterns = patterns }
}

// WithTraverseLogger sets the logger used for soft warnings
func WithTraverseLogger(logger *slog.Logger) TraverserOption {
	return func(t *Traverser) { t.logger = logger }
}

// WithProgress sets a callback invoked with directories as they are
// visited. Used purely for display; must be safe for concurrent calls.
func WithProgress(fn func(path string)) TraverserOption {
	return func(t *Traverser) { t.progress = fn }
}

// NewTraverser creates a Traverser. maxDepth < 0 means unbounded;
// minLargeFileSize == 0 disables large-file detection.
func NewTraverser(validator *security.PathValidator, maxDepth int, minLargeFileSize int64, skipSystem bool, opts ...TraverserOption) *Traverser {
	workers := runtime.NumCPU()
	if workers < 4 {
		workers = 4
	}
	if workers > 16 {
		workers = 16
	}

	t := &Traverser{
		validator:        validator,
		maxDepth:         maxDepth,
		minLargeFileSize: minLargeFileSize,
		skipSystem:       skipSystem,
		workers:          workers,
		logger:           slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// collector accumulates candidates and warnings from concurrent subtree
// walkers. Append-only; workers share nothing else.
type collector struct {
	mu       sync.Mutex
	items    []ScanItem
	warnings []string
}

func (c *collector) add(item ScanItem) {
	c.mu.Lock()
	c.items = append(c.items, item)
	c.mu.Unlock()
}

func (c *collector) warn(logger *slog.Logger, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logger.Warn(msg)
	c.mu.Lock()
	c.warnings = append(c.warnings, msg)
	c.mu.Unlock()
}

// Traverse walks all roots and returns raw (pre-dedup) candidates plus
// soft warnings. It fails only when no root is accessible at all;
// everything below that is absorbed per subtree.
func (t *Traverser) Traverse(roots []string) ([]ScanItem, []string, error) {
	col := &collector{}

	accessible := make([]string, 0, len(roots))
	for _, root := range roots {
		if _, err := os.Stat(root); err != nil {
			col.warn(t.logger, "scan root inaccessible: %s: %v", root, err)
			continue
		}
		accessible = append(accessible, root)
	}
	if len(accessible) == 0 {
		return nil, col.warnings, fmt.Errorf("no accessible scan roots among %v", roots)
	}

	// One shared semaphore bounds parallelism across roots and across
	// sibling subtrees alike.
	sem := make(chan struct{}, t.workers)
	var wg sync.WaitGroup
	for _, root := range accessible {
		wg.Add(1)
		sem <- struct{}{}
		go func(root string) {
			defer wg.Done()
			defer func() { <-sem }()
			t.walkDir(root, 1, sem, &wg, col)
		}(root)
	}
	wg.Wait()

	return col.items, col.warnings, nil
}

// walkDir processes one directory's entries at the given depth (children
// of a root are depth 1). Subdirectories recurse concurrently when a
// worker slot is free, inline otherwise.
func (t *Traverser) walkDir(dir string, depth int, sem chan struct{}, wg *sync.WaitGroup, col *collector) {
	if t.progress != nil {
		t.progress(dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		col.warn(t.logger, "cannot read directory %s: %v", dir, err)
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		full := filepath.Join(dir, name)

		// Symlinks are never followed: they can form cycles and charge
		// another filesystem's bytes to this tree.
		if entry.Type()&os.ModeSymlink != 0 {
			continue
		}
		if t.skipEntry(name, full) {
			continue
		}

		if entry.IsDir() {
			t.handleDir(full, name, dir, depth, sem, wg, col)
			continue
		}
		t.handleFile(full, name, dir, entry, col)
	}
}

func (t *Traverser) skipEntry(name, full string) bool {
	if t.validator.IsProtectedPath(full) {
		return true
	}
	if t.skipSystem && t.validator.IsCautionPath(full) {
		return true
	}
	for _, pattern := range t.excludePatterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}

func (t *Traverser) handleDir(full, name, parent string, depth int, sem chan struct{}, wg *sync.WaitGroup, col *collector) {
	if category, ok := Classify(name, parent, true); ok && Validate(full, category) {
		// An accepted candidate is emitted whole; its subtree is never
		// walked again, which is the first defense against counting a
		// nested candidate twice.
		size := t.dirSize(full, col)
		if size >= minDirSize {
			item := ScanItem{
				Path:      full,
				Category:  category,
				Risk:      RiskFor(category),
				Size:      size,
				IsDir:     true,
				Validated: true,
				Reason:    fmt.Sprintf("%s directory", name),
			}
			// The directory's own mtime lets the cleaner tell whether
			// its entries changed between scan and clean.
			if info, err := os.Lstat(full); err == nil {
				item.ModTime = info.ModTime()
			}
			col.add(item)
		}
		return
	}

	// Unrecognized (or unvalidated) directories are walked further,
	// depth permitting.
	if t.maxDepth >= 0 && depth >= t.maxDepth {
		return
	}
	select {
	case sem <- struct{}{}:
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			t.walkDir(full, depth+1, sem, wg, col)
		}()
	default:
		t.walkDir(full, depth+1, sem, wg, col)
	}
}

func (t *Traverser) handleFile(full, name, parent string, entry os.DirEntry, col *collector) {
	info, err := entry.Info()
	if err != nil {
		col.warn(t.logger, "cannot stat %s: %v", full, err)
		return
	}
	size := info.Size()

	if category, ok := Classify(name, parent, false); ok {
		switch category {
		case CategoryLogFile:
			if size < minLogSize {
				return
			}
		default:
			if size == 0 {
				return
			}
		}
		col.add(ScanItem{
			Path:      full,
			Category:  category,
			Risk:      RiskFor(category),
			Size:      size,
			Validated: true,
			Reason:    fmt.Sprintf("%s (%s)", category.DisplayName(), name),
		})
		return
	}

	if t.minLargeFileSize > 0 && size >= t.minLargeFileSize && !strings.HasPrefix(name, ".") {
		col.add(ScanItem{
			Path:      full,
			Category:  CategoryLargeFile,
			Risk:      RiskFor(CategoryLargeFile),
			Size:      size,
			Validated: true,
			Reason:    "large file",
		})
	}
}

// dirSize sums the file sizes of an entire subtree, parallelized across
// the immediate children. Unreadable subtrees contribute zero and a
// warning; they never fail the scan.
func (t *Traverser) dirSize(path string, col *collector) int64 {
	entries, err := os.ReadDir(path)
	if err != nil {
		col.warn(t.logger, "cannot size %s: %v", path, err)
		return 0
	}

	var total atomic.Int64
	var wg sync.WaitGroup
	for _, entry := range entries {
		if entry.Type()&os.ModeSymlink != 0 {
			continue
		}
		sub := filepath.Join(path, entry.Name())
		if entry.IsDir() {
			wg.Add(1)
			go func() {
				defer wg.Done()
				total.Add(t.treeSize(sub, col))
			}()
			continue
		}
		if info, err := entry.Info(); err == nil {
			total.Add(info.Size())
		}
	}
	wg.Wait()
	return total.Load()
}

// treeSize is the serial inner walk used below the parallel first level
func (t *Traverser) treeSize(path string, col *collector) int64 {
	var total int64
	err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			col.warn(t.logger, "cannot size %s: %v", p, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.Type()&os.ModeSymlink != 0 {
			return nil
		}
		if !d.IsDir() {
			if info, err := d.Info(); err == nil {
				total += info.Size()
			}
		}
		return nil
	})
	if err != nil {
		col.warn(t.logger, "cannot size %s: %v", path, err)
	}
	return total
}
