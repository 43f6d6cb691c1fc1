// Package workdir resolves the base directory holding a run's input,
// pattern and output files.
package workdir

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// EnvDir is the environment variable name for specifying the base directory.
const EnvDir = "PATTERNTOOL_DIR"

// MarkerFile is the file whose presence makes the working directory the
// base directory.
const MarkerFile = "input.txt"

// ErrDirNotFound is returned when no usable base directory is found.
var ErrDirNotFound = errors.New("base directory not found")

// DefaultDirs returns the auto-detection candidates in priority order: the
// working directory, then the directory of the running executable.
// Candidates that cannot be determined are omitted.
func DefaultDirs() []string {
	var dirs []string
	if wd, err := os.Getwd(); err == nil {
		dirs = append(dirs, wd)
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	return dirs
}

// FindBaseDir returns the directory the default file names resolve against.
//
// Priority:
//  1. explicit (if non-empty)
//  2. PATTERNTOOL_DIR environment variable
//  3. the working directory, if it contains input.txt
//  4. the executable's directory
//
// Steps 1 and 2 only require an existing directory: a missing input file is
// reported later by the run itself. The returned path has symlinks resolved.
func FindBaseDir(explicit string) (string, error) {
	if explicit != "" {
		if resolved := resolveDir(explicit); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: specified path is not a directory", ErrDirNotFound)
	}

	if envDir := os.Getenv(EnvDir); envDir != "" {
		if resolved := resolveDir(envDir); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: %s environment variable points to invalid directory", ErrDirNotFound, EnvDir)
	}

	dirs := DefaultDirs()
	for i, dir := range dirs {
		resolved := resolveDir(dir)
		if resolved == "" {
			continue
		}
		// The last candidate is the fallback and needs no marker.
		if i == len(dirs)-1 || hasMarker(resolved) {
			return resolved, nil
		}
	}

	return "", ErrDirNotFound
}

// resolveDir resolves symlinks and checks that dir is a directory.
// Returns the resolved path if valid, empty string otherwise.
func resolveDir(dir string) string {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}

	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return ""
	}
	abs, err := filepath.Abs(resolved)
	if err != nil {
		return ""
	}
	return abs
}

func hasMarker(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, MarkerFile))
	return err == nil && info.Mode().IsRegular()
}
