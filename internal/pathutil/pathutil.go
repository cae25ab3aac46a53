// Package pathutil provides path manipulation utilities.
package pathutil

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrNoHome is returned when a ~/ path is expanded without a home directory.
var ErrNoHome = errors.New("home directory unknown")

// ExpandTilde expands a leading ~/ (or a bare ~) to home.
// Returns the path unchanged if it doesn't start with ~.
func ExpandTilde(path, home string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	if home == "" {
		return "", fmt.Errorf("expand %s: %w", path, ErrNoHome)
	}
	if path == "~" {
		return home, nil
	}
	return filepath.Join(home, path[2:]), nil
}

// ResolvePath resolves a path with tilde expansion and relative path resolution.
//   - ~/... paths are expanded against home
//   - Absolute paths are returned as-is
//   - Relative paths are resolved from baseDir
//   - Empty paths are not allowed and return an error
func ResolvePath(path, baseDir, home string) (string, error) {
	if path == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	if path == "~" || strings.HasPrefix(path, "~/") {
		return ExpandTilde(path, home)
	}

	if filepath.IsAbs(path) {
		return path, nil
	}

	return filepath.Join(baseDir, path), nil
}
