// Package cleaner deletes scan items within a risk ceiling, with the
// same path protections the scanner applies.
package cleaner

import (
	"log/slog"
	"os"
	"time"

	"github.com/fenilsonani/cleanser/internal/progress"
	"github.com/fenilsonani/cleanser/internal/scanner"
	"github.com/fenilsonani/cleanser/internal/security"
)

// OutcomeStatus is the per-item result of a clean pass
type OutcomeStatus string

const (
	StatusCleaned       OutcomeStatus = "cleaned"
	StatusFailed        OutcomeStatus = "failed"
	StatusSkippedDryRun OutcomeStatus = "skipped_dry_run"
)

// ItemOutcome records what happened to one scan item
type ItemOutcome struct {
	Item   scanner.ScanItem
	Status OutcomeStatus
	Err    *DeletionError
}

// CleanReport is the result of one clean pass
type CleanReport struct {
	Attempted  []ItemOutcome
	BytesFreed int64
	DryRun     bool
	StartedAt  time.Time
	Duration   time.Duration
}

// Cleaned returns the count of successfully deleted items
func (r *CleanReport) Cleaned() int {
	return r.countStatus(StatusCleaned)
}

// Failed returns the count of items that could not be deleted
func (r *CleanReport) Failed() int {
	return r.countStatus(StatusFailed)
}

func (r *CleanReport) countStatus(status OutcomeStatus) int {
	n := 0
	for _, outcome := range r.Attempted {
		if outcome.Status == status {
			n++
		}
	}
	return n
}

// EstimatedBytes returns the total size of every attempted item,
// regardless of outcome. Dry-run reports use it as the projected figure;
// BytesFreed only ever counts items actually deleted.
func (r *CleanReport) EstimatedBytes() int64 {
	var total int64
	for _, outcome := range r.Attempted {
		total += outcome.Item.Size
	}
	return total
}

// Errors returns the deletion errors of all failed items
func (r *CleanReport) Errors() []*DeletionError {
	var errs []*DeletionError
	for _, outcome := range r.Attempted {
		if outcome.Err != nil {
			errs = append(errs, outcome.Err)
		}
	}
	return errs
}

// Cleaner deletes scan items. One item failing never stops the pass;
// every item gets its own attempt and its own outcome.
type Cleaner struct {
	validator *security.PathValidator
	reporter  *progress.Reporter
	logger    *slog.Logger
	onOutcome func(ItemOutcome)
}

// Option configures a Cleaner
type Option func(*Cleaner)

// WithReporter sets a progress reporter
func WithReporter(reporter *progress.Reporter) Option {
	return func(c *Cleaner) { c.reporter = reporter }
}

// WithLogger sets the logger used for per-item diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(c *Cleaner) { c.logger = logger }
}

// WithOutcomeFunc registers a callback invoked after every item attempt,
// so callers can stream results instead of waiting for the full report.
func WithOutcomeFunc(fn func(ItemOutcome)) Option {
	return func(c *Cleaner) { c.onOutcome = fn }
}

// New creates a Cleaner sharing the scanner's path validator
func New(validator *security.PathValidator, opts ...Option) *Cleaner {
	c := &Cleaner{
		validator: validator,
		reporter:  progress.NewReporter(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Reporter returns the cleaner's progress reporter
func (c *Cleaner) Reporter() *progress.Reporter {
	return c.reporter
}

// Clean deletes every item in the scan result at or below the risk
// ceiling. In dry-run mode nothing is touched and BytesFreed stays zero;
// each eligible item is reported as it would have been deleted.
func (c *Cleaner) Clean(result *scanner.ScanResult, ceiling scanner.Risk, dryRun bool) *CleanReport {
	startTime := time.Now()
	eligible := result.ItemsAtOrBelow(ceiling)

	report := &CleanReport{
		DryRun:    dryRun,
		StartedAt: startTime,
	}

	update := func(path string) {
		c.reporter.UpdateClean(&progress.CleanProgress{
			Phase:       progress.PhaseCleaning,
			CurrentPath: path,
			Cleaned:     report.Cleaned(),
			Failed:      report.Failed(),
			Total:       len(eligible),
			BytesFreed:  report.BytesFreed,
			StartTime:   startTime,
		})
	}
	update("")

	for _, item := range eligible {
		update(item.Path)

		outcome := ItemOutcome{Item: item}
		if dryRun {
			outcome.Status = StatusSkippedDryRun
		} else if err := c.deleteItem(item); err != nil {
			outcome.Status = StatusFailed
			outcome.Err = err
			c.logger.Warn("failed to delete", "path", item.Path, "reason", err.Reason.String(), "error", err.Original)
		} else {
			outcome.Status = StatusCleaned
			report.BytesFreed += item.Size
		}

		report.Attempted = append(report.Attempted, outcome)
		if c.onOutcome != nil {
			c.onOutcome(outcome)
		}
	}

	report.Duration = time.Since(startTime)
	c.reporter.UpdateClean(&progress.CleanProgress{
		Phase:      progress.PhaseComplete,
		Cleaned:    report.Cleaned(),
		Failed:     report.Failed(),
		Total:      len(eligible),
		BytesFreed: report.BytesFreed,
		StartTime:  startTime,
	})
	return report
}

// deleteItem removes one item after re-verifying that the path is still
// what the scan saw. Lstat keeps symlinks from redirecting the deletion
// elsewhere between scan and clean.
func (c *Cleaner) deleteItem(item scanner.ScanItem) *DeletionError {
	if err := c.validator.ValidatePathForDeletion(item.Path); err != nil {
		return &DeletionError{
			Path:     item.Path,
			Reason:   ErrorInvalidPath,
			Original: err,
		}
	}

	info, err := os.Lstat(item.Path)
	if err != nil {
		return CategorizeError(item.Path, err)
	}
	if info.Mode()&os.ModeSymlink != 0 {
		return &DeletionError{
			Path:     item.Path,
			Reason:   ErrorChangedOnDisk,
			Original: os.ErrInvalid,
		}
	}
	if info.IsDir() != item.IsDir {
		return &DeletionError{
			Path:     item.Path,
			Reason:   ErrorChangedOnDisk,
			Original: os.ErrInvalid,
		}
	}
	// For plain files the recorded size doubles as a change detector.
	// Directory sizes churn constantly, so directories are checked by
	// their own mtime, which moves whenever a direct entry is added or
	// removed.
	if !item.IsDir && info.Size() != item.Size {
		return &DeletionError{
			Path:     item.Path,
			Reason:   ErrorChangedOnDisk,
			Original: os.ErrInvalid,
		}
	}
	if item.IsDir && !item.ModTime.IsZero() && !info.ModTime().Equal(item.ModTime) {
		return &DeletionError{
			Path:     item.Path,
			Reason:   ErrorChangedOnDisk,
			Original: os.ErrInvalid,
		}
	}

	var deleteErr error
	if item.IsDir {
		deleteErr = os.RemoveAll(item.Path)
	} else {
		deleteErr = os.Remove(item.Path)
	}
	if deleteErr != nil {
		return CategorizeError(item.Path, deleteErr)
	}
	return nil
}
