package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// ErrNotFound is returned when no real tool other than the wrapper itself
// exists on the PATH.
var ErrNotFound = errors.New("real tool not found on PATH")

// Resolve finds the real tool behind argv0. Every PATH entry named like
// argv0's base name is canonicalized; the first one that is not self wins.
// self must already be canonical.
func Resolve(argv0, pathEnv, self string) (string, error) {
	name := filepath.Base(argv0)
	if name == "" || name == "." || name == string(filepath.Separator) {
		return "", fmt.Errorf("%w: empty program name", ErrNotFound)
	}
	for _, dir := range filepath.SplitList(pathEnv) {
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, name)
		if !isExecutable(candidate) {
			continue
		}
		canon, err := canonical(candidate)
		if err != nil {
			continue
		}
		if canon == self {
			continue
		}
		return canon, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNotFound, name)
}

// Self returns the canonical path of the running executable.
func Self() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locate own executable: %w", err)
	}
	return canonical(exe)
}

func canonical(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", err
	}
	return filepath.Abs(resolved)
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0o111 != 0
}
