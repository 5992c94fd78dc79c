package scanner

import (
	"log/slog"
	"time"

	"github.com/fenilsonani/cleanser/internal/config"
	"github.com/fenilsonani/cleanser/internal/progress"
	"github.com/fenilsonani/cleanser/internal/security"
)

// Scanner orchestrates the full scan pipeline: traversal, nested-path
// deduplication, and optional duplicate-content detection.
type Scanner struct {
	fileConfig *config.Config
	validator  *security.PathValidator
	reporter   *progress.Reporter
	logger     *slog.Logger
}

// ScannerOption configures a Scanner
type ScannerOption func(*Scanner)

// WithReporter sets a progress reporter
func WithReporter(reporter *progress.Reporter) ScannerOption {
	return func(s *Scanner) { s.reporter = reporter }
}

// WithLogger sets the logger used for soft warnings
func WithLogger(logger *slog.Logger) ScannerOption {
	return func(s *Scanner) { s.logger = logger }
}

// New creates a Scanner. The file config contributes user-defined
// protected paths and exclude patterns; per-scan parameters arrive with
// each Scan call.
func New(fileConfig *config.Config, opts ...ScannerOption) *Scanner {
	validator := security.NewPathValidator()
	for _, path := range fileConfig.ProtectedPaths {
		validator.AddProtectedPath(path)
	}

	s := &Scanner{
		fileConfig: fileConfig,
		validator:  validator,
		reporter:   progress.NewReporter(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Validator exposes the path validator so the cleaner shares the exact
// same protection rules.
func (s *Scanner) Validator() *security.PathValidator {
	return s.validator
}

// Reporter returns the scanner's progress reporter
func (s *Scanner) Reporter() *progress.Reporter {
	return s.reporter
}

// Scan runs one full scan. It returns an error only when the scan cannot
// begin at all (no accessible roots); per-subtree failures are absorbed
// into warnings.
func (s *Scanner) Scan(cfg *config.ScanConfig) (*ScanResult, error) {
	startTime := time.Now()
	if cfg.SkipSystem {
		for _, root := range cfg.Roots {
			s.validator.EnableUserCaution(root)
		}
	}

	// Phase: traversing
	report := func(phase progress.Phase, path string, found int, size int64) {
		s.reporter.UpdateScan(&progress.ScanProgress{
			Phase:       phase,
			CurrentPath: path,
			ItemsFound:  found,
			TotalSize:   size,
			StartTime:   startTime,
		})
	}
	report(progress.PhaseTraversing, "", 0, 0)

	traverser := NewTraverser(
		s.validator,
		cfg.EffectiveMaxDepth(),
		cfg.MinLargeFileSize,
		cfg.SkipSystem,
		WithExcludePatterns(s.fileConfig.ExcludePatterns),
		WithTraverseLogger(s.logger),
		WithProgress(func(path string) {
			report(progress.PhaseTraversing, path, 0, 0)
		}),
	)

	candidates, warnings, err := traverser.Traverse(cfg.Roots)
	if err != nil {
		return nil, err
	}

	// Phase: deduplicating. Traversal already refuses to descend into
	// accepted candidates; this pass is the second net for overlapping
	// roots.
	report(progress.PhaseDeduplicating, "", len(candidates), 0)
	items := Dedupe(candidates)

	result := &ScanResult{
		Items:       items,
		GeneratedAt: time.Now(),
		Warnings:    warnings,
	}

	// Phase: hashing (optional)
	if cfg.FindDuplicates {
		report(progress.PhaseHashing, "", len(result.Items), 0)
		engine := NewHashEngine(s.validator, 0, cfg.SkipSystem,
			WithHashExcludePatterns(s.fileConfig.ExcludePatterns),
			WithHashLogger(s.logger))
		files, collectWarnings := engine.CollectFiles(cfg.Roots, cfg.EffectiveMaxDepth())
		groups, hashWarnings := engine.HashDuplicates(files)
		result.Warnings = append(result.Warnings, collectWarnings...)
		result.Warnings = append(result.Warnings, hashWarnings...)
		result.DuplicateGroups = groups
		result.Items = Dedupe(append(result.Items, DuplicateItems(groups)...))
	}

	for _, item := range result.Items {
		result.TotalSize += item.Size
	}

	report(progress.PhaseComplete, "", len(result.Items), result.TotalSize)
	return result, nil
}
