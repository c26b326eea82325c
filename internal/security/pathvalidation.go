package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrPathOutsideAllowedDirs is returned when a path file or plot output
// resolves outside every permitted directory.
var ErrPathOutsideAllowedDirs = errors.New("path outside allowed directories")

// canonical resolves filePath to an absolute path with symlinks evaluated.
// For a path that does not exist yet, the deepest existing parent is
// resolved and the remaining components are appended.
func canonical(filePath string) (string, error) {
	absPath, err := filepath.Abs(filepath.Clean(filePath))
	if err != nil {
		return "", fmt.Errorf("failed to resolve absolute path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
		return resolved, nil
	}

	for dir := filepath.Dir(absPath); ; dir = filepath.Dir(dir) {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			rel, _ := filepath.Rel(dir, absPath)
			return filepath.Join(resolved, rel), nil
		}
		if dir == filepath.Dir(dir) {
			return absPath, nil
		}
	}
}

// ValidatePathWithinDirectory reports whether filePath, after resolving
// ".." components and symlinks, stays inside safeDir.
func ValidatePathWithinDirectory(filePath, safeDir string) error {
	target, err := canonical(filePath)
	if err != nil {
		return err
	}
	absSafeDir, err := filepath.Abs(safeDir)
	if err != nil {
		return fmt.Errorf("failed to resolve safe directory path: %w", err)
	}
	root, err := filepath.EvalSymlinks(absSafeDir)
	if err != nil {
		return fmt.Errorf("failed to resolve safe directory symlinks: %w", err)
	}

	rel, err := filepath.Rel(root, target)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPathOutsideAllowedDirs, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) || filepath.IsAbs(rel) {
		return fmt.Errorf("%w: %s escapes %s", ErrPathOutsideAllowedDirs, filePath, safeDir)
	}
	return nil
}

// ValidatePathWithinAllowedDirs accepts filePath if it lies inside any of
// allowedDirs.
func ValidatePathWithinAllowedDirs(filePath string, allowedDirs []string) error {
	if len(allowedDirs) == 0 {
		return fmt.Errorf("no allowed directories specified")
	}
	for _, dir := range allowedDirs {
		if ValidatePathWithinDirectory(filePath, dir) == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: %s not within %v", ErrPathOutsideAllowedDirs, filePath, allowedDirs)
}

// ValidateOutputPath checks a file the CLI is about to write. Outputs may go
// to any of allowedDirs or to the system temp directory.
func ValidateOutputPath(filePath string, allowedDirs []string) error {
	dirs := append([]string{os.TempDir()}, allowedDirs...)
	return ValidatePathWithinAllowedDirs(filePath, dirs)
}

// SanitizeFilename turns a path name into a safe file name stem. Runs of
// characters other than ASCII letters, digits, '.', '_' and '-' become a
// single underscore and the result is capped at 128 bytes.
func SanitizeFilename(s string) string {
	const maxLen = 128
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		if b.Len() >= maxLen {
			break
		}
		switch {
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9'),
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
			lastUnderscore = r == '_'
		case !lastUnderscore:
			b.WriteRune('_')
			lastUnderscore = true
		}
	}
	out := strings.Trim(b.String(), "._")
	if out == "" {
		return "unknown"
	}
	return out
}
