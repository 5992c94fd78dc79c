package progress

import (
	"sync"
	"time"
)

// Phase represents the current phase of a scan or clean operation
type Phase string

const (
	PhaseTraversing    Phase = "traversing"
	PhaseDeduplicating Phase = "deduplicating"
	PhaseHashing       Phase = "hashing"
	PhaseCleaning      Phase = "cleaning"
	PhaseComplete      Phase = "complete"
)

// ScanProgress is a snapshot of a running scan
type ScanProgress struct {
	Phase       Phase
	CurrentPath string
	ItemsFound  int
	TotalSize   int64
	StartTime   time.Time
}

// CleanProgress is a snapshot of a running clean
type CleanProgress struct {
	Phase       Phase
	CurrentPath string
	Cleaned     int
	Failed      int
	Total       int
	BytesFreed  int64
	StartTime   time.Time
}

// Reporter provides thread-safe progress fan-out to subscribers. Updates
// are best effort: a slow subscriber drops updates instead of stalling
// the scan.
type Reporter struct {
	mu            sync.RWMutex
	scanProgress  *ScanProgress
	cleanProgress *CleanProgress
	listeners     []chan any
	closed        bool
}

// NewReporter creates a progress Reporter
func NewReporter() *Reporter {
	return &Reporter{}
}

// Subscribe returns a channel receiving progress updates. After Close
// the returned channel starts out closed.
func (r *Reporter) Subscribe() <-chan any {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch := make(chan any, 16)
	if r.closed {
		close(ch)
		return ch
	}
	r.listeners = append(r.listeners, ch)
	return ch
}

// Close closes every subscriber channel so receivers observe the end of
// updates. Snapshot accessors keep working; later updates are recorded
// but no longer delivered. Safe to call more than once.
func (r *Reporter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	for _, listener := range r.listeners {
		close(listener)
	}
	r.listeners = nil
}

// UpdateScan publishes a scan progress snapshot
func (r *Reporter) UpdateScan(update *ScanProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.scanProgress = update
	for _, listener := range r.listeners {
		select {
		case listener <- update:
		default:
		}
	}
}

// UpdateClean publishes a clean progress snapshot
func (r *Reporter) UpdateClean(update *CleanProgress) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cleanProgress = update
	for _, listener := range r.listeners {
		select {
		case listener <- update:
		default:
		}
	}
}

// ScanSnapshot returns the latest scan progress
func (r *Reporter) ScanSnapshot() *ScanProgress {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scanProgress
}

// CleanSnapshot returns the latest clean progress
func (r *Reporter) CleanSnapshot() *CleanProgress {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cleanProgress
}
