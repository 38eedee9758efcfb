// Package marker locates project marker files by walking up the directory tree.
package marker

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// Finder answers existence and upward-search questions against a filesystem.
type Finder struct {
	fs afero.Fs
}

// NewFinder returns a Finder backed by fs. A nil fs means the OS filesystem.
func NewFinder(fs afero.Fs) *Finder {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Finder{fs: fs}
}

// Exists reports whether path can be accessed without error.
func (f *Finder) Exists(path string) bool {
	ok, err := afero.Exists(f.fs, path)
	return err == nil && ok
}

// FindUpward returns the nearest directory at or above startDir that directly
// contains name. The walk stops at the filesystem root, or after ceiling when
// ceiling is non-empty. A startDir outside ceiling is not searched at all.
func (f *Finder) FindUpward(startDir, name, ceiling string) (string, bool) {
	dir := filepath.Clean(startDir)
	if ceiling != "" {
		ceiling = filepath.Clean(ceiling)
		if !Within(ceiling, dir) {
			return "", false
		}
	}

	for {
		if f.Exists(filepath.Join(dir, name)) {
			return dir, true
		}
		if ceiling != "" && dir == ceiling {
			return "", false
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// Within reports whether path is root or lies beneath it. The check is purely
// lexical; both arguments are cleaned first.
func Within(root, path string) bool {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
