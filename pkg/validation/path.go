// Package validation checks paths taken from archives and the command line
// before they reach the filesystem.
package validation

import (
	"errors"
	"path"
	"path/filepath"
	"strings"
)

var (
	ErrEmptyPath      = errors.New("path cannot be empty")
	ErrPathTraversal  = errors.New("path traversal not allowed")
	ErrAbsolutePath   = errors.New("absolute paths not allowed")
	ErrOutsideOfRoot  = errors.New("path escapes root directory")
	ErrRootNotAllowed = errors.New("path resolves to the root directory")
)

// CleanEntryName normalizes a slash-separated archive entry name.
// Leading "./" and trailing slashes are dropped. Absolute names and names
// climbing out with ".." are rejected.
func CleanEntryName(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", ErrEmptyPath
	}
	if strings.HasPrefix(name, "/") {
		return "", ErrAbsolutePath
	}

	clean := path.Clean(name)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return "", ErrPathTraversal
	}
	if clean == "." {
		return "", ErrRootNotAllowed
	}
	return clean, nil
}

// WithinRoot reports whether fullPath is rootDir or lies below it.
func WithinRoot(rootDir, fullPath string) bool {
	cleanRoot := filepath.Clean(rootDir)
	cleanPath := filepath.Clean(fullPath)
	return cleanPath == cleanRoot || strings.HasPrefix(cleanPath, cleanRoot+string(filepath.Separator))
}

// ValidatePathWithinRoot returns ErrOutsideOfRoot unless fullPath lies
// strictly below rootDir.
func ValidatePathWithinRoot(rootDir, fullPath string) error {
	if filepath.Clean(rootDir) == filepath.Clean(fullPath) {
		return ErrRootNotAllowed
	}
	if !WithinRoot(rootDir, fullPath) {
		return ErrOutsideOfRoot
	}
	return nil
}
