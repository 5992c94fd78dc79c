package scanner

import (
	"path/filepath"
	"strings"
)

// classifyRule pairs a matcher with the category it assigns. Rules are
// evaluated top to bottom and the first match wins, so specific names
// (node_modules) must come before generic ones (*cache*).
type classifyRule struct {
	match    func(name, parent string, isDir bool) bool
	category func(name, parent string) Category
}

func dirNamed(names ...string) func(name, parent string, isDir bool) bool {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return func(name, _ string, isDir bool) bool {
		if !isDir {
			return false
		}
		_, ok := set[name]
		return ok
	}
}

func fixed(c Category) func(name, parent string) Category {
	return func(_, _ string) Category { return c }
}

// classifyRules is the ordered classification table.
var classifyRules = []classifyRule{
	{dirNamed("node_modules"), fixed(CategoryNodeModules)},
	{dirNamed("target"), fixed(CategoryRustTarget)},
	{dirNamed("__pycache__", ".pytest_cache", ".mypy_cache", ".tox"), fixed(CategoryPythonArtifact)},
	{dirNamed(".gradle", ".maven"), fixed(CategoryJavaBuildCache)},
	{dirNamed(".next", ".nuxt"), fixed(CategoryFrameworkCache)},
	{dirNamed("build", "dist", "out"), fixed(CategoryBuildOutput)},
	{matchCacheDir, refineCacheCategory},
	{matchTempFile, fixed(CategoryTempFile)},
	{matchLogFile, fixed(CategoryLogFile)},
}

func matchCacheDir(name, parent string, isDir bool) bool {
	if !isDir {
		return false
	}
	lower := strings.ToLower(name)
	if lower == "cache" || lower == ".cache" || lower == "caches" {
		return true
	}
	// macOS per-app cache trees live under ~/Library/Caches
	return strings.Contains(parent, "Library/Caches")
}

// refineCacheCategory distinguishes browser and package-manager caches
// from generic system caches by looking at the owning path.
func refineCacheCategory(name, parent string) Category {
	full := strings.ToLower(filepath.Join(parent, name))

	for _, browser := range []string{"chrome", "chromium", "firefox", "safari", "edge", "brave"} {
		if strings.Contains(full, browser) {
			return CategoryBrowserCache
		}
	}
	for _, pkg := range []string{"npm", "yarn", "pnpm", "pip", "cargo", "homebrew", "brew", "go-build"} {
		if strings.Contains(full, pkg) {
			return CategoryPackageCache
		}
	}
	return CategorySystemCache
}

func matchTempFile(name, _ string, isDir bool) bool {
	if isDir {
		return false
	}
	ext := strings.ToLower(filepath.Ext(name))
	return ext == ".tmp" || ext == ".temp" || strings.HasPrefix(name, "~$")
}

func matchLogFile(name, _ string, isDir bool) bool {
	return !isDir && strings.ToLower(filepath.Ext(name)) == ".log"
}

// Classify matches a single filesystem entry against the rule table. It
// is a pure function: no I/O, deterministic for the same inputs. The
// second return is false for entries the scanner has no opinion on; the
// traverser recurses into those instead of treating them as candidates.
func Classify(name, parent string, isDir bool) (Category, bool) {
	for _, rule := range classifyRules {
		if rule.match(name, parent, isDir) {
			return rule.category(name, parent), true
		}
	}
	return CategoryUnknown, false
}
