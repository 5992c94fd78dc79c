package scanner

import (
	"os"
	"path/filepath"
)

// projectMarkers are manifest files that prove a directory named build/,
// dist/, or out/ really belongs to a project and is regenerable output.
var projectMarkers = []string{
	"package.json",
	"build.gradle",
	"build.gradle.kts",
	"pom.xml",
	"go.mod",
	"Cargo.toml",
	"pyproject.toml",
	"setup.py",
	"Makefile",
	"CMakeLists.txt",
}

// Validate confirms a classified candidate directory is not a false
// positive. Generic directory names (node_modules without a package.json
// next to it could be anything) are only trusted when a sibling manifest
// proves the parent is a real project. Categories without a validation
// rule pass unconditionally.
func Validate(path string, category Category) bool {
	parent := filepath.Dir(path)

	switch category {
	case CategoryNodeModules:
		return fileExists(filepath.Join(parent, "package.json"))
	case CategoryRustTarget:
		return fileExists(filepath.Join(parent, "Cargo.toml"))
	case CategoryBuildOutput:
		for _, marker := range projectMarkers {
			if fileExists(filepath.Join(parent, marker)) {
				return true
			}
		}
		return false
	default:
		return true
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
