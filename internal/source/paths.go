package source

import (
	"path/filepath"
	"strings"
)

// AbsolutePath resolves path against the working directory and returns it in
// normalized slash form.
func AbsolutePath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return normalizePath(abs), nil
}

// RelativePath returns path relative to baseDir. Files that are not
// descendants of baseDir (or live on another volume) are returned as their
// normalized absolute path instead, so the result is always usable as a
// display name.
func RelativePath(path, baseDir string) (string, error) {
	absPath, err := AbsolutePath(path)
	if err != nil {
		return "", err
	}
	if baseDir == "" {
		return absPath, nil
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return absPath, nil
	}

	rel, err := filepath.Rel(absBase, filepath.FromSlash(absPath))
	if err != nil {
		return absPath, nil
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return absPath, nil
	}
	return normalizePath(rel), nil
}

// DisplayPath returns the report name of path relative to baseDir. It never
// fails: when a path cannot be resolved the cleaned input is returned as is.
func DisplayPath(path, baseDir string) string {
	if rel, err := RelativePath(path, baseDir); err == nil {
		return rel
	}
	return normalizePath(path)
}

func normalizePath(p string) string {
	// единый вид в кроссплатформенных дифах
	return filepath.ToSlash(filepath.Clean(p))
}
