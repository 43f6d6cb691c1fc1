package linefilter

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"

	"github.com/patterntool/patterntool/internal/safefile"
)

// Line is one line of input without its terminator.
type Line struct {
	// Number is the 0-based position of the line in the input.
	Number int
	// Text is the line content. "\n" and "\r\n" terminators are removed.
	Text string
}

// Source is a finite, restartable sequence of lines.
//
// Lines yields lines from the current position to the end of input. Once
// the sequence has been consumed (or iteration stopped early), Rewind must
// be called before iterating again; every pass after a Rewind yields the
// same lines as the first.
type Source interface {
	Lines() iter.Seq2[Line, error]
	Rewind() error
}

// FileSource reads lines from a regular file. Rewind re-opens the file and
// refuses to continue if the file changed since it was first opened.
//
// FileSource is not safe for concurrent use.
type FileSource struct {
	path         string
	f            *os.File
	info         os.FileInfo
	maxLineBytes int
	next         int
}

// OpenFile opens path as a line source.
//
// Returns ErrSourceMissing if the path does not exist and ErrSourceEmpty if
// the file has zero bytes. Only WithMaxLineBytes is used from opts.
func OpenFile(path string, opts ...Option) (*FileSource, error) {
	cfg := applyOptions(opts)
	if cfg.maxLineBytes <= 0 {
		return nil, fmt.Errorf("max line bytes must be positive, got %d", cfg.maxLineBytes)
	}

	f, info, err := safefile.OpenRegular(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrSourceMissing
		}
		return nil, fmt.Errorf("failed to open input file: %w", sanitizePathError(err))
	}

	if info.Size() == 0 {
		f.Close()
		return nil, ErrSourceEmpty
	}

	return &FileSource{
		path:         path,
		f:            f,
		info:         info,
		maxLineBytes: cfg.maxLineBytes,
	}, nil
}

// Lines returns the lines from the current read position.
// A line longer than the configured maximum ends the sequence with an error.
func (s *FileSource) Lines() iter.Seq2[Line, error] {
	return func(yield func(Line, error) bool) {
		if s.f == nil {
			yield(Line{}, ErrSourceClosed)
			return
		}

		sc := bufio.NewScanner(s.f)
		sc.Buffer(make([]byte, 0, min(64*1024, s.maxLineBytes)), s.maxLineBytes)

		for sc.Scan() {
			line := Line{Number: s.next, Text: sc.Text()}
			s.next++
			if !yield(line, nil) {
				return
			}
		}
		if err := sc.Err(); err != nil {
			yield(Line{}, fmt.Errorf("reading line %d: %w", s.next, err))
		}
	}
}

// Rewind resets the source to the first line by re-opening the file.
// Returns ErrSourceChanged if the file's size or modification time differ
// from when it was first opened.
func (s *FileSource) Rewind() error {
	if s.f == nil {
		return ErrSourceClosed
	}
	if err := s.f.Close(); err != nil {
		s.f = nil
		return fmt.Errorf("failed to close input file: %w", sanitizePathError(err))
	}
	s.f = nil

	f, info, err := safefile.OpenRegular(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrSourceChanged
		}
		return fmt.Errorf("failed to reopen input file: %w", sanitizePathError(err))
	}
	if info.Size() != s.info.Size() || !info.ModTime().Equal(s.info.ModTime()) {
		f.Close()
		return ErrSourceChanged
	}

	s.f = f
	s.next = 0
	return nil
}

// Close releases the file handle. Safe to call multiple times.
func (s *FileSource) Close() error {
	if s.f == nil {
		return nil
	}
	err := s.f.Close()
	s.f = nil
	return err
}

// SliceSource is an in-memory Source. Like FileSource it must be rewound
// before a second pass.
type SliceSource struct {
	lines   []string
	pos     int
	rewinds int
}

// NewSliceSource returns a source over lines.
func NewSliceSource(lines ...string) *SliceSource {
	return &SliceSource{lines: lines}
}

// Lines returns the lines from the current position.
func (s *SliceSource) Lines() iter.Seq2[Line, error] {
	return func(yield func(Line, error) bool) {
		for s.pos < len(s.lines) {
			line := Line{Number: s.pos, Text: s.lines[s.pos]}
			s.pos++
			if !yield(line, nil) {
				return
			}
		}
	}
}

// Rewind resets the source to the first line.
func (s *SliceSource) Rewind() error {
	s.pos = 0
	s.rewinds++
	return nil
}

// Rewinds returns how many times Rewind has been called.
func (s *SliceSource) Rewinds() int {
	return s.rewinds
}

// sanitizePathError removes the path from os.PathError so messages don't
// expose file system paths.
func sanitizePathError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("%s: %w", pathErr.Op, pathErr.Err)
	}
	return err
}

var (
	_ Source = (*FileSource)(nil)
	_ Source = (*SliceSource)(nil)
)
