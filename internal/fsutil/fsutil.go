// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/justrun/internal/syntax"
)

// FindUpward searches dir and each of its ancestors for a regular file with
// one of the given names, and returns the path of the first match. Names are
// tried in order within each directory before moving up.
func FindUpward(dir string, names ...string) (string, error) {
	if len(names) == 0 {
		panic("fsutil: FindUpward needs at least one name")
	}
	start, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for current := start; ; {
		for _, name := range names {
			candidate := filepath.Join(current, name)
			info, err := os.Stat(candidate)
			if err == nil && info.Mode().IsRegular() {
				return candidate, nil
			}
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no %s found in %q or any parent directory",
				syntax.Or(names), start)
		}
		current = parent
	}
}
