// Package pathutil locates build artifacts inside tool output directories.
package pathutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

var (
	// ErrNoMatch is returned when no file matches the pattern.
	ErrNoMatch = errors.New("no file matches pattern")

	// ErrMultipleMatches is returned by FindOne when more than one file matches.
	ErrMultipleMatches = errors.New("more than one file matches pattern")
)

// FindAll returns the regular files in dir whose names match the glob
// pattern, sorted by name. dir is taken literally and only base names are
// matched, so the pattern must not contain a path separator.
func FindAll(dir, pattern string) ([]string, error) {
	if strings.ContainsRune(pattern, filepath.Separator) {
		return nil, fmt.Errorf("pattern %q must not contain a path separator", pattern)
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	var matches []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		// Pattern validity was checked above.
		if ok, _ := filepath.Match(pattern, entry.Name()); ok {
			matches = append(matches, filepath.Join(dir, entry.Name()))
		}
	}
	sort.Strings(matches)
	return matches, nil
}

// FindOne returns the single file in dir matching pattern, e.g. "*.syr".
func FindOne(dir, pattern string) (string, error) {
	matches, err := FindAll(dir, pattern)
	if err != nil {
		return "", err
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w: %s in %s", ErrNoMatch, pattern, dir)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w: %s in %s (%s)", ErrMultipleMatches, pattern, dir, strings.Join(matches, ", "))
	}
}
