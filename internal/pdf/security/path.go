// Package security confines transcript paths to a root directory.
package security

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrOutsideRoot is returned for paths that escape the configured directory
var ErrOutsideRoot = errors.New("path is outside configured directory")

// PathGuard resolves user-supplied paths against a root directory and
// rejects anything that lands outside it. A guard with an empty root
// accepts every path.
type PathGuard struct {
	root string
}

// NewPathGuard creates a guard for root. An empty root disables confinement.
func NewPathGuard(root string) (*PathGuard, error) {
	if root == "" {
		return &PathGuard{}, nil
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve directory: %w", err)
	}
	return &PathGuard{root: filepath.Clean(abs)}, nil
}

// Root returns the absolute root directory, or "" when unrestricted
func (g *PathGuard) Root() string {
	return g.root
}

// Restricted reports whether the guard confines paths
func (g *PathGuard) Restricted() bool {
	return g.root != ""
}

// Resolve returns the absolute form of path. Relative paths are taken from
// the root when one is set.
func (g *PathGuard) Resolve(path string) (string, error) {
	path = strings.ReplaceAll(path, "\x00", "")
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("path cannot be empty")
	}

	if !filepath.IsAbs(path) && g.root != "" {
		path = filepath.Join(g.root, path)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve path: %w", err)
	}
	abs = filepath.Clean(abs)

	if err := g.check(abs); err != nil {
		return "", err
	}
	return abs, nil
}

// ResolveDirectory is Resolve for directories. An empty dir means the root.
func (g *PathGuard) ResolveDirectory(dir string) (string, error) {
	if strings.TrimSpace(dir) == "" {
		if g.root == "" {
			return "", fmt.Errorf("directory cannot be empty")
		}
		return g.root, nil
	}

	abs, err := g.Resolve(dir)
	if err != nil {
		return "", err
	}

	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("cannot access directory: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("path is not a directory: %s", dir)
	}
	return abs, nil
}

// Contains reports whether path lies within the root, following symlinks
// on both sides when they exist
func (g *PathGuard) Contains(path string) bool {
	if g.root == "" {
		return true
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return g.check(filepath.Clean(abs)) == nil
}

func (g *PathGuard) check(abs string) error {
	if g.root == "" {
		return nil
	}

	roots := []string{g.root}
	if real, err := filepath.EvalSymlinks(g.root); err == nil && real != g.root {
		roots = append(roots, real)
	}

	if !within(abs, roots) {
		return fmt.Errorf("%w: %s", ErrOutsideRoot, abs)
	}

	// a symlink inside the root may still point elsewhere
	if real, err := filepath.EvalSymlinks(abs); err == nil && !within(real, roots) {
		return fmt.Errorf("%w: %s", ErrOutsideRoot, abs)
	}
	return nil
}

func within(path string, roots []string) bool {
	for _, root := range roots {
		if path == root {
			return true
		}
		if strings.HasPrefix(path, strings.TrimSuffix(root, string(filepath.Separator))+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
