// Package testutil provides test helpers and fixtures for cleanser tests.
// All file operations use t.TempDir() for safe, isolated testing.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestFixture holds paths to test directories and files
type TestFixture struct {
	T       *testing.T
	RootDir string // Root temp directory (auto-cleaned)
}

// NewFixture creates a new test fixture rooted in a temp directory
func NewFixture(t *testing.T) *TestFixture {
	t.Helper()
	return &TestFixture{
		T:       t,
		RootDir: t.TempDir(),
	}
}

// Path resolves a relative path inside the fixture root
func (f *TestFixture) Path(relPath string) string {
	return filepath.Join(f.RootDir, relPath)
}

// CreateDir creates a directory (and parents) and returns its path
func (f *TestFixture) CreateDir(relPath string) string {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, relPath)
	if err := os.MkdirAll(fullPath, 0o755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", fullPath, err)
	}
	return fullPath
}

// CreateFile creates a file with specified content and returns its path
func (f *TestFixture) CreateFile(relPath string, content []byte) string {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", fullPath, err)
	}
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		f.T.Fatalf("failed to create file %s: %v", fullPath, err)
	}
	return fullPath
}

// CreateFileOfSize creates a file of exactly the given size. The content
// is a repeating byte pattern, not random, so duplicate detection tests
// can create identical files deterministically.
func (f *TestFixture) CreateFileOfSize(relPath string, size int64) string {
	f.T.Helper()

	content := make([]byte, size)
	for i := range content {
		content[i] = byte(i % 251)
	}
	return f.CreateFile(relPath, content)
}

// CreateProject builds a project directory containing the given marker
// file and a populated artifact subdirectory, returning the artifact
// path. Typical use: CreateProject("app", "package.json", "node_modules").
func (f *TestFixture) CreateProject(name, marker, artifactDir string) string {
	f.T.Helper()

	f.CreateFile(filepath.Join(name, marker), []byte("{}"))
	artifact := filepath.Join(name, artifactDir)
	f.CreateFileOfSize(filepath.Join(artifact, "blob.bin"), 2*1024*1024)
	return f.Path(artifact)
}

// CreateSymlink creates a symlink inside the fixture
func (f *TestFixture) CreateSymlink(target, relPath string) string {
	f.T.Helper()

	fullPath := filepath.Join(f.RootDir, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		f.T.Fatalf("failed to create directory for %s: %v", fullPath, err)
	}
	if err := os.Symlink(target, fullPath); err != nil {
		f.T.Fatalf("failed to create symlink %s: %v", fullPath, err)
	}
	return fullPath
}

// AssertExists fails the test when the path does not exist
func (f *TestFixture) AssertExists(path string) {
	f.T.Helper()
	if _, err := os.Lstat(path); err != nil {
		f.T.Fatalf("expected %s to exist: %v", path, err)
	}
}

// AssertNotExists fails the test when the path still exists
func (f *TestFixture) AssertNotExists(path string) {
	f.T.Helper()
	if _, err := os.Lstat(path); !os.IsNotExist(err) {
		f.T.Fatalf("expected %s to be gone, got err=%v", path, err)
	}
}
