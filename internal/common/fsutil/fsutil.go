package fsutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ExpandHome expands a leading '~' to the user's home directory.
func ExpandHome(path string) (string, error) {
	if path == "" || path[0] != '~' {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("home dir: %w", err)
	}
	if path == "~" {
		return home, nil
	}
	// handle cases like ~/models/llm
	return filepath.Join(home, strings.TrimPrefix(path, "~/")), nil
}

// PathExists checks if the given path exists.
func PathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil || !errors.Is(err, os.ErrNotExist)
}

// ErrOutsideRoot is returned by ResolveUnder for paths escaping the root.
var ErrOutsideRoot = errors.New("path escapes output root")

// ResolveUnder joins a caller-supplied relative path onto root and rejects
// absolute paths and any result that would land outside root. Symlinks are
// followed on the deepest existing parent, so a link inside root pointing
// elsewhere is rejected too. The final element itself is not resolved.
func ResolveUnder(root, rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("empty path")
	}
	if filepath.IsAbs(rel) || !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, rel)
	}
	base, err := ExpandHome(root)
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(base)
	if err != nil {
		return "", fmt.Errorf("abs path: %w", err)
	}
	joined := filepath.Join(abs, rel)
	rootReal, err := realAncestor(abs)
	if err != nil {
		return "", err
	}
	parentReal, err := realAncestor(filepath.Dir(joined))
	if err != nil {
		return "", err
	}
	if r, err := filepath.Rel(rootReal, parentReal); err != nil || (r != "." && !filepath.IsLocal(r)) {
		return "", fmt.Errorf("%w: %s", ErrOutsideRoot, rel)
	}
	return joined, nil
}

// realAncestor resolves symlinks in the nearest existing ancestor of dir
// and re-appends the missing tail.
func realAncestor(dir string) (string, error) {
	var tail []string
	for {
		resolved, err := filepath.EvalSymlinks(dir)
		if err == nil {
			return filepath.Join(append([]string{resolved}, tail...)...), nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("resolve %s: %w", dir, err)
		}
		if _, lerr := os.Lstat(dir); lerr == nil {
			return "", fmt.Errorf("%w: dangling link %s", ErrOutsideRoot, dir)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return filepath.Join(append([]string{dir}, tail...)...), nil
		}
		tail = append([]string{filepath.Base(dir)}, tail...)
		dir = parent
	}
}
