// Package safefile provides security-hardened file operations for the
// filter's input, pattern and output files.
package safefile

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// ErrNotRegularFile is returned when a path names something other than a
// regular file (FIFO, device, socket, directory).
var ErrNotRegularFile = errors.New("not a regular file")

// Exists reports whether path exists. A missing path is (false, nil); any
// other stat failure is returned as an error.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// OpenRegular opens a file for reading and verifies it is a regular file.
// Symlinks are followed.
//
// The function:
//  1. Stats the path
//  2. Opens the file
//  3. Stats the file descriptor and checks it is the same file as in step 1
//
// This rejects a path that was swapped for another file or a special file
// between the two calls.
//
// The caller must close the returned file when done.
func OpenRegular(path string) (*os.File, os.FileInfo, error) {
	pathInfo, err := os.Stat(path)
	if err != nil {
		return nil, nil, err
	}
	if !pathInfo.Mode().IsRegular() {
		return nil, nil, ErrNotRegularFile
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, ErrNotRegularFile
	}
	if !os.SameFile(pathInfo, info) {
		f.Close()
		return nil, nil, fmt.Errorf("file replaced while opening: %w", ErrNotRegularFile)
	}

	return f, info, nil
}

// CreateTruncate opens path for writing, creating it or truncating it to
// zero length. An existing non-regular file is rejected before it is opened,
// so the tool never writes into a FIFO or device.
func CreateTruncate(path string) (*os.File, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if !info.Mode().IsRegular() {
			return nil, ErrNotRegularFile
		}
	case !errors.Is(err, fs.ErrNotExist):
		return nil, err
	}

	return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
}
