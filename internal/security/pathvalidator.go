package security

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PathValidator centralizes the path safety rules shared by the scanner
// and the cleaner. The scanner uses it to refuse to descend into system
// trees; the cleaner uses it as the final gate before deletion.
type PathValidator struct {
	protectedPaths []string
	cautionPaths   []string
}

// systemDenyList contains path prefixes that are never scanned or deleted,
// regardless of configuration. This is the hard floor against destructive
// misuse.
var systemDenyList = []string{
	// Unix system directories
	"/",
	"/bin",
	"/boot",
	"/dev",
	"/etc",
	"/lib",
	"/lib64",
	"/proc",
	"/root",
	"/sbin",
	"/sys",
	"/usr",
	"/var",
	// macOS system directories
	"/System",
	"/Library",
	"/Applications",
	"/private/var/db",
}

// userCautionSuffixes are home-relative paths that hold user data rather
// than caches. They are only skipped when skip_system is enabled.
var userCautionSuffixes = []string{
	"Library/Application Support",
	"Library/Mobile Documents",
	"Library/Mail",
	"Library/Photos",
	".ssh",
	".gnupg",
}

// NewPathValidator creates a PathValidator with the fixed system deny-list
func NewPathValidator() *PathValidator {
	return &PathValidator{
		protectedPaths: append([]string(nil), systemDenyList...),
	}
}

// AddProtectedPath adds a custom protected path prefix
func (pv *PathValidator) AddProtectedPath(path string) {
	pv.protectedPaths = append(pv.protectedPaths, filepath.Clean(path))
}

// EnableUserCaution registers the user-library caution paths for the given
// home directory. Called when skip_system is enabled.
func (pv *PathValidator) EnableUserCaution(homeDir string) {
	for _, suffix := range userCautionSuffixes {
		pv.cautionPaths = append(pv.cautionPaths, filepath.Join(homeDir, suffix))
	}
}

// IsProtectedPath reports whether a path is inside the fixed deny-list or
// a configured protected prefix.
func (pv *PathValidator) IsProtectedPath(path string) bool {
	cleanPath := filepath.Clean(path)
	for _, protected := range pv.protectedPaths {
		if cleanPath == protected || strings.HasPrefix(cleanPath, protected+"/") {
			// The home directory lives under /Users or /home on the
			// systems we support, so a prefix match on "/" alone would
			// protect everything. Only the exact root counts.
			if protected == "/" {
				if cleanPath == "/" {
					return true
				}
				continue
			}
			return true
		}
	}
	return false
}

// IsCautionPath reports whether a path is inside a user-library caution
// prefix. Unlike the deny-list, caution paths only apply when skip_system
// is enabled.
func (pv *PathValidator) IsCautionPath(path string) bool {
	cleanPath := filepath.Clean(path)
	for _, caution := range pv.cautionPaths {
		if cleanPath == caution || strings.HasPrefix(cleanPath, caution+"/") {
			return true
		}
	}
	return false
}

// ValidatePathForDeletion performs the full validation a path must pass
// before the cleaner is allowed to remove it.
func (pv *PathValidator) ValidatePathForDeletion(path string) error {
	if !filepath.IsAbs(path) {
		return fmt.Errorf("path must be absolute: %s", path)
	}

	// A path whose cleaned form differs carries ".." or duplicate
	// separators, which an honest scan result never produces.
	if filepath.Clean(path) != path {
		return fmt.Errorf("path contains suspicious elements: %s", path)
	}

	// Refuse paths that could be misinterpreted if they ever reach a
	// shell or a log line.
	for _, char := range []string{";", "|", "$", "`", "\n", "\r", "\x00"} {
		if strings.Contains(path, char) {
			return fmt.Errorf("path contains dangerous characters: %s", path)
		}
	}

	if pv.IsProtectedPath(path) {
		return fmt.Errorf("refusing to delete protected path: %s", path)
	}

	return nil
}

// IsSymlink reports whether a path is a symbolic link without following it
func IsSymlink(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, err
	}
	return info.Mode()&os.ModeSymlink != 0, nil
}
