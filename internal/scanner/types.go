package scanner

import (
	"encoding/json"
	"fmt"
	"time"
)

// Category identifies what kind of reclaimable storage an item is.
type Category int

const (
	CategoryUnknown Category = iota
	CategorySystemCache
	CategoryBrowserCache
	CategoryPackageCache
	CategoryLogFile
	CategoryTempFile
	CategoryPythonArtifact
	CategoryNodeModules
	CategoryBuildOutput
	CategoryRustTarget
	CategoryJavaBuildCache
	CategoryFrameworkCache
	CategoryLargeFile
	CategoryDuplicateFile
)

var categoryNames = map[Category]string{
	CategorySystemCache:    "system_cache",
	CategoryBrowserCache:   "browser_cache",
	CategoryPackageCache:   "package_cache",
	CategoryLogFile:        "log_file",
	CategoryTempFile:       "temp_file",
	CategoryPythonArtifact: "python_artifact",
	CategoryNodeModules:    "node_modules",
	CategoryBuildOutput:    "build_output",
	CategoryRustTarget:     "rust_target",
	CategoryJavaBuildCache: "java_build_cache",
	CategoryFrameworkCache: "framework_cache",
	CategoryLargeFile:      "large_file",
	CategoryDuplicateFile:  "duplicate_file",
}

// String returns the wire name of the category
func (c Category) String() string {
	if name, ok := categoryNames[c]; ok {
		return name
	}
	return "unknown"
}

// DisplayName returns a human-friendly name for reports
func (c Category) DisplayName() string {
	switch c {
	case CategorySystemCache:
		return "System Cache"
	case CategoryBrowserCache:
		return "Browser Cache"
	case CategoryPackageCache:
		return "Package Manager Cache"
	case CategoryLogFile:
		return "Log Files"
	case CategoryTempFile:
		return "Temporary Files"
	case CategoryPythonArtifact:
		return "Python Artifacts"
	case CategoryNodeModules:
		return "Node Modules"
	case CategoryBuildOutput:
		return "Build Output"
	case CategoryRustTarget:
		return "Rust Target"
	case CategoryJavaBuildCache:
		return "Java Build Cache"
	case CategoryFrameworkCache:
		return "Framework Cache"
	case CategoryLargeFile:
		return "Large Files"
	case CategoryDuplicateFile:
		return "Duplicate Files"
	default:
		return "Unknown"
	}
}

// MarshalJSON writes the category as its wire name so cached scans stay
// readable across versions that reorder the enum.
func (c Category) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON parses a wire name back into a Category
func (c *Category) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for cat, n := range categoryNames {
		if n == name {
			*c = cat
			return nil
		}
	}
	return fmt.Errorf("unknown category: %q", name)
}

// Risk orders how dangerous it is to delete an item. The order is total:
// Safe < Moderate < Risky.
type Risk int

const (
	RiskSafe Risk = iota
	RiskModerate
	RiskRisky
)

// String returns the wire name of the risk level
func (r Risk) String() string {
	switch r {
	case RiskSafe:
		return "safe"
	case RiskModerate:
		return "moderate"
	case RiskRisky:
		return "risky"
	default:
		return "unknown"
	}
}

// ParseRisk converts a wire name into a Risk
func ParseRisk(s string) (Risk, error) {
	switch s {
	case "safe":
		return RiskSafe, nil
	case "moderate":
		return RiskModerate, nil
	case "risky":
		return RiskRisky, nil
	default:
		return RiskSafe, fmt.Errorf("unknown risk level: %q (want safe, moderate, or risky)", s)
	}
}

// MarshalJSON writes the risk as its wire name
func (r Risk) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.String())
}

// UnmarshalJSON parses a wire name back into a Risk
func (r *Risk) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseRisk(name)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// riskByCategory is the static category-to-risk mapping. It is never
// overridden per item.
var riskByCategory = map[Category]Risk{
	CategorySystemCache:    RiskSafe,
	CategoryBrowserCache:   RiskSafe,
	CategoryPackageCache:   RiskSafe,
	CategoryLogFile:        RiskSafe,
	CategoryTempFile:       RiskSafe,
	CategoryPythonArtifact: RiskSafe,
	CategoryNodeModules:    RiskModerate,
	CategoryBuildOutput:    RiskModerate,
	CategoryRustTarget:     RiskModerate,
	CategoryJavaBuildCache: RiskModerate,
	CategoryFrameworkCache: RiskModerate,
	CategoryLargeFile:      RiskRisky,
	CategoryDuplicateFile:  RiskRisky,
}

// RiskFor returns the risk tier assigned to a category
func RiskFor(c Category) Risk {
	return riskByCategory[c]
}

// ScanItem is one reclaimable file or directory found during a scan.
// Items are created during traversal and immutable afterward.
type ScanItem struct {
	Path      string    `json:"path"`
	Category  Category  `json:"category"`
	Risk      Risk      `json:"risk"`
	Size      int64     `json:"size_bytes"`
	IsDir     bool      `json:"is_dir"`
	Validated bool      `json:"validated"`
	ModTime   time.Time `json:"mod_time,omitzero"`
	Reason    string    `json:"reason,omitempty"`
}

// ScanResult is the outcome of one completed scan. Items are pairwise
// non-overlapping: no item's path is an ancestor of another's.
type ScanResult struct {
	Items           []ScanItem          `json:"items"`
	TotalSize       int64               `json:"total_size_bytes"`
	DuplicateGroups map[string][]string `json:"duplicate_groups,omitempty"`
	GeneratedAt     time.Time           `json:"generated_at"`
	Warnings        []string            `json:"warnings,omitempty"`
}

// ItemsAtOrBelow returns the items whose risk does not exceed ceiling
func (r *ScanResult) ItemsAtOrBelow(ceiling Risk) []ScanItem {
	selected := make([]ScanItem, 0, len(r.Items))
	for _, item := range r.Items {
		if item.Risk <= ceiling {
			selected = append(selected, item)
		}
	}
	return selected
}

// GroupByCategory groups items by their category for display
func (r *ScanResult) GroupByCategory() map[Category][]ScanItem {
	grouped := make(map[Category][]ScanItem)
	for _, item := range r.Items {
		grouped[item.Category] = append(grouped[item.Category], item)
	}
	return grouped
}
