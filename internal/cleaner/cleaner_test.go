package cleaner

import (
	"os"
	"testing"
	"time"

	"github.com/fenilsonani/cleanser/internal/scanner"
	"github.com/fenilsonani/cleanser/internal/security"
	"github.com/fenilsonani/cleanser/internal/testutil"
)

func newTestCleaner(opts ...Option) *Cleaner {
	return New(security.NewPathValidator(), opts...)
}

func resultWith(items ...scanner.ScanItem) *scanner.ScanResult {
	var total int64
	for _, it := range items {
		total += it.Size
	}
	return &scanner.ScanResult{
		Items:       items,
		TotalSize:   total,
		GeneratedAt: time.Now(),
	}
}

func fileItem(path string, size int64, cat scanner.Category) scanner.ScanItem {
	return scanner.ScanItem{
		Path:      path,
		Category:  cat,
		Risk:      scanner.RiskFor(cat),
		Size:      size,
		Validated: true,
	}
}

func dirItem(path string, size int64, cat scanner.Category) scanner.ScanItem {
	it := fileItem(path, size, cat)
	it.IsDir = true
	return it
}

func TestCleanDeletesEligibleItems(t *testing.T) {
	f := testutil.NewFixture(t)
	log := f.CreateFileOfSize("big.log", 2048)
	nm := f.CreateDir("app/node_modules")
	f.CreateFileOfSize("app/node_modules/blob.bin", 1024)

	result := resultWith(
		fileItem(log, 2048, scanner.CategoryLogFile),
		dirItem(nm, 1024, scanner.CategoryNodeModules),
	)

	report := newTestCleaner().Clean(result, scanner.RiskModerate, false)

	if got := report.Cleaned(); got != 2 {
		t.Fatalf("Cleaned = %d, want 2; errors: %v", got, report.Errors())
	}
	if report.BytesFreed != 2048+1024 {
		t.Errorf("BytesFreed = %d, want %d", report.BytesFreed, 2048+1024)
	}
	f.AssertNotExists(log)
	f.AssertNotExists(nm)
}

func TestCleanHonorsRiskCeiling(t *testing.T) {
	f := testutil.NewFixture(t)
	log := f.CreateFileOfSize("big.log", 2048)
	nm := f.CreateDir("app/node_modules")
	large := f.CreateFileOfSize("video.bin", 4096)

	result := resultWith(
		fileItem(log, 2048, scanner.CategoryLogFile),
		dirItem(nm, 0, scanner.CategoryNodeModules),
		fileItem(large, 4096, scanner.CategoryLargeFile),
	)

	report := newTestCleaner().Clean(result, scanner.RiskSafe, false)

	if got := len(report.Attempted); got != 1 {
		t.Fatalf("attempted %d items at ceiling safe, want 1", got)
	}
	f.AssertNotExists(log)
	f.AssertExists(nm)
	f.AssertExists(large)
}

func TestCleanDryRunTouchesNothing(t *testing.T) {
	f := testutil.NewFixture(t)
	log := f.CreateFileOfSize("big.log", 2048)
	nm := f.CreateDir("app/node_modules")
	f.CreateFileOfSize("app/node_modules/blob.bin", 1024)

	result := resultWith(
		fileItem(log, 2048, scanner.CategoryLogFile),
		dirItem(nm, 1024, scanner.CategoryNodeModules),
	)

	report := newTestCleaner().Clean(result, scanner.RiskRisky, true)

	if !report.DryRun {
		t.Error("report not flagged as dry run")
	}
	if report.BytesFreed != 0 {
		t.Errorf("dry run BytesFreed = %d, want 0", report.BytesFreed)
	}
	if got := report.EstimatedBytes(); got != 2048+1024 {
		t.Errorf("EstimatedBytes = %d, want %d", got, 2048+1024)
	}
	for _, outcome := range report.Attempted {
		if outcome.Status != StatusSkippedDryRun {
			t.Errorf("dry run outcome = %v for %s", outcome.Status, outcome.Item.Path)
		}
	}
	f.AssertExists(log)
	f.AssertExists(nm)
}

func TestCleanOneFailureDoesNotStopOthers(t *testing.T) {
	f := testutil.NewFixture(t)
	first := f.CreateFileOfSize("a.log", 1024)
	missing := f.Path("gone.log")
	last := f.CreateFileOfSize("z.log", 1024)

	result := resultWith(
		fileItem(first, 1024, scanner.CategoryLogFile),
		fileItem(missing, 1024, scanner.CategoryLogFile),
		fileItem(last, 1024, scanner.CategoryLogFile),
	)

	report := newTestCleaner().Clean(result, scanner.RiskSafe, false)

	if got := report.Cleaned(); got != 2 {
		t.Errorf("Cleaned = %d, want 2", got)
	}
	if got := report.Failed(); got != 1 {
		t.Errorf("Failed = %d, want 1", got)
	}
	f.AssertNotExists(first)
	f.AssertNotExists(last)
}

// A path that turned into a symlink after the scan must not be followed
// into deleting its target.
func TestCleanRefusesSymlinkSwap(t *testing.T) {
	f := testutil.NewFixture(t)
	victim := f.CreateFileOfSize("precious.bin", 1024)
	swapped := f.CreateFileOfSize("swap.log", 1024)

	result := resultWith(fileItem(swapped, 1024, scanner.CategoryLogFile))

	if err := os.Remove(swapped); err != nil {
		t.Fatal(err)
	}
	f.CreateSymlink(victim, "swap.log")

	report := newTestCleaner().Clean(result, scanner.RiskSafe, false)

	if got := report.Failed(); got != 1 {
		t.Fatalf("Failed = %d, want 1", got)
	}
	if reason := report.Errors()[0].Reason; reason != ErrorChangedOnDisk {
		t.Errorf("reason = %v, want ErrorChangedOnDisk", reason)
	}
	f.AssertExists(victim)
	f.AssertExists(f.Path("swap.log"))
}

func TestCleanRefusesChangedFileSize(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.CreateFileOfSize("grown.log", 1024)

	result := resultWith(fileItem(path, 1024, scanner.CategoryLogFile))

	// The file grew between scan and clean.
	f.CreateFileOfSize("grown.log", 2048)

	report := newTestCleaner().Clean(result, scanner.RiskSafe, false)

	if got := report.Failed(); got != 1 {
		t.Fatalf("Failed = %d, want 1", got)
	}
	if reason := report.Errors()[0].Reason; reason != ErrorChangedOnDisk {
		t.Errorf("reason = %v, want ErrorChangedOnDisk", reason)
	}
	f.AssertExists(path)
}

// A directory whose entries changed after the scan is refused, same as
// a file whose size changed.
func TestCleanVerifiesDirectoryModTime(t *testing.T) {
	f := testutil.NewFixture(t)
	nm := f.CreateDir("app/node_modules")
	f.CreateFileOfSize("app/node_modules/blob.bin", 1024)

	stale := dirItem(nm, 1024, scanner.CategoryNodeModules)
	stale.ModTime = time.Unix(1700000000, 0)

	report := newTestCleaner().Clean(resultWith(stale), scanner.RiskModerate, false)
	if got := report.Failed(); got != 1 {
		t.Fatalf("Failed = %d, want 1", got)
	}
	if reason := report.Errors()[0].Reason; reason != ErrorChangedOnDisk {
		t.Errorf("reason = %v, want ErrorChangedOnDisk", reason)
	}
	f.AssertExists(nm)

	current := dirItem(nm, 1024, scanner.CategoryNodeModules)
	info, err := os.Lstat(nm)
	if err != nil {
		t.Fatal(err)
	}
	current.ModTime = info.ModTime()

	report = newTestCleaner().Clean(resultWith(current), scanner.RiskModerate, false)
	if got := report.Cleaned(); got != 1 {
		t.Fatalf("Cleaned = %d, want 1; errors: %v", got, report.Errors())
	}
	f.AssertNotExists(nm)
}

func TestCleanRefusesProtectedPaths(t *testing.T) {
	result := resultWith(fileItem("/etc/passwd", 1024, scanner.CategoryLogFile))

	report := newTestCleaner().Clean(result, scanner.RiskRisky, false)

	if got := report.Failed(); got != 1 {
		t.Fatalf("Failed = %d, want 1", got)
	}
	if reason := report.Errors()[0].Reason; reason != ErrorInvalidPath {
		t.Errorf("reason = %v, want ErrorInvalidPath", reason)
	}
}

func TestCleanStreamsOutcomes(t *testing.T) {
	f := testutil.NewFixture(t)
	log := f.CreateFileOfSize("a.log", 1024)

	var streamed []ItemOutcome
	c := newTestCleaner(WithOutcomeFunc(func(o ItemOutcome) {
		streamed = append(streamed, o)
	}))

	report := c.Clean(resultWith(fileItem(log, 1024, scanner.CategoryLogFile)), scanner.RiskSafe, false)

	if len(streamed) != len(report.Attempted) {
		t.Errorf("streamed %d outcomes, report has %d", len(streamed), len(report.Attempted))
	}
	if len(streamed) != 1 || streamed[0].Status != StatusCleaned {
		t.Errorf("streamed outcomes wrong: %v", streamed)
	}
}
