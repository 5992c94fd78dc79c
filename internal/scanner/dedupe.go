package scanner

import (
	"sort"
	"strings"
)

// Dedupe collapses nested candidates so no accepted item is a descendant
// of another. Candidates are considered shallowest-first; an item inside
// an already-accepted directory is dropped because its size is already
// charged to the ancestor. Overlapping scan roots can also report the
// same path twice; only the first copy survives. The operation is
// idempotent.
func Dedupe(candidates []ScanItem) []ScanItem {
	sorted := make([]ScanItem, len(candidates))
	copy(sorted, candidates)

	sort.SliceStable(sorted, func(i, j int) bool {
		return pathDepth(sorted[i].Path) < pathDepth(sorted[j].Path)
	})

	accepted := make([]ScanItem, 0, len(sorted))
	for _, item := range sorted {
		if !coveredBy(item.Path, accepted) {
			accepted = append(accepted, item)
		}
	}
	return accepted
}

func coveredBy(path string, accepted []ScanItem) bool {
	for _, kept := range accepted {
		if kept.Path == path || strings.HasPrefix(path, kept.Path+"/") {
			return true
		}
	}
	return false
}

func pathDepth(path string) int {
	return strings.Count(path, "/")
}
