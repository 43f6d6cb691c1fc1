package pattern

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// sanitizePathError removes the path from os.PathError to prevent information leakage.
// This ensures error messages don't expose file system paths to users.
func sanitizePathError(err error) error {
	var pathErr *os.PathError
	if errors.As(err, &pathErr) {
		return fmt.Errorf("%s: %w", pathErr.Op, pathErr.Err)
	}
	return err
}

const (
	// MaxPatternFileSize is the maximum allowed size for a pattern file (1MB).
	MaxPatternFileSize = 1 * 1024 * 1024 // 1 MB

	// SupportedVersion is the currently supported YAML pattern file format version.
	SupportedVersion = 1
)

// Load parses pattern text according to mode and compiles the result.
//
// In ModeSingle the whole text is one pattern and ErrEmptyPattern is returned
// when it is zero-length. In ModeMulti every line is one candidate pattern,
// empty lines are skipped, and ErrEmptyPatternSet is returned when none remain.
//
// Example:
//
//	set, err := pattern.Load("ERROR\nWARN\n", pattern.ModeMulti)
func Load(text string, mode Mode) (*Set, error) {
	switch mode {
	case ModeSingle:
		if text == "" {
			return nil, ErrEmptyPattern
		}
		return Compile([]Definition{{Regex: text}})
	case ModeMulti:
		defs, err := splitLines(text)
		if err != nil {
			return nil, err
		}
		if len(defs) == 0 {
			return nil, ErrEmptyPatternSet
		}
		return Compile(defs)
	default:
		return nil, fmt.Errorf("unknown pattern mode %d", int(mode))
	}
}

// splitLines returns one definition per non-empty line of text.
func splitLines(text string) ([]Definition, error) {
	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), MaxPatternFileSize)

	var defs []Definition
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		defs = append(defs, Definition{Regex: line})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to split pattern text: %w", err)
	}
	return defs, nil
}

// LoadFile reads a pattern file and loads it with Load, or with LoadYAML when
// the file name ends in .yaml or .yml.
//
// Returns ErrPatternFileMissing if the file does not exist.
//
// Security: the file is opened first and the descriptor is stat-ed (avoiding
// TOCTOU), non-regular files are rejected, and reads are bounded by
// MaxPatternFileSize.
func LoadFile(path string, mode Mode) (*Set, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}

	if isYAML(path) && len(data) > 0 {
		pf, err := LoadYAML(data)
		if err != nil {
			return nil, err
		}
		if mode == ModeSingle && len(pf.Patterns) != 1 {
			return nil, &ValidationError{
				Field:   "patterns",
				Message: fmt.Sprintf("single mode takes exactly one pattern, file has %d", len(pf.Patterns)),
			}
		}
		return Compile(pf.Patterns)
	}

	return Load(string(data), mode)
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func readFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrPatternFileMissing
		}
		return nil, fmt.Errorf("failed to open pattern file: %w", sanitizePathError(err))
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat pattern file: %w", sanitizePathError(err))
	}

	if !info.Mode().IsRegular() {
		return nil, errors.New("pattern file must be a regular file (not FIFO, device, or special file)")
	}

	if info.Size() > MaxPatternFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrPatternFileTooLarge, info.Size(), MaxPatternFileSize)
	}

	// Read one byte past the limit to detect a file that grew after Stat.
	data, err := io.ReadAll(io.LimitReader(f, MaxPatternFileSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read pattern file: %w", sanitizePathError(err))
	}
	if len(data) > MaxPatternFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrPatternFileTooLarge, len(data), MaxPatternFileSize)
	}

	return data, nil
}

// LoadYAML parses a YAML pattern file from a byte slice and validates its
// schema. Regular expressions are not compiled; use Compile on the returned
// Patterns, or LoadFile which does both.
//
// Example:
//
//	pf, err := pattern.LoadYAML([]byte("version: 1\npatterns:\n  - id: err\n    regex: ERROR\n"))
func LoadYAML(data []byte) (*PatternFile, error) {
	if len(data) == 0 {
		return nil, ErrEmptyPatternSet
	}
	if len(data) > MaxPatternFileSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrPatternFileTooLarge, len(data), MaxPatternFileSize)
	}

	var pf PatternFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, &ValidationError{
			Field:   "yaml",
			Message: fmt.Sprintf("failed to parse YAML: %v", err),
		}
	}

	if err := pf.Validate(); err != nil {
		return nil, err
	}

	return &pf, nil
}

// Validate performs schema-level validation on the pattern file.
// It checks for:
//   - Supported version number
//   - At least one pattern
//   - Required fields (id, regex)
//   - Unique pattern IDs
//
// Note: This function does NOT compile regular expressions.
func (pf *PatternFile) Validate() error {
	if pf.Version != SupportedVersion {
		return &ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (only version %d is supported)", pf.Version, SupportedVersion),
		}
	}

	if len(pf.Patterns) == 0 {
		return &ValidationError{
			Field:   "patterns",
			Message: "at least one pattern is required",
			Err:     ErrEmptyPatternSet,
		}
	}

	seenIDs := make(map[string]int, len(pf.Patterns))

	for i, p := range pf.Patterns {
		if p.ID == "" {
			return &PatternError{
				Index:   i,
				Source:  p.Regex,
				Field:   "id",
				Message: "id is required",
			}
		}
		if p.Regex == "" {
			return &PatternError{
				Index:   i,
				ID:      p.ID,
				Field:   "regex",
				Message: "regex is required",
			}
		}

		if prevIndex, exists := seenIDs[p.ID]; exists {
			return &PatternError{
				Index:   i,
				ID:      p.ID,
				Source:  p.Regex,
				Field:   "id",
				Message: fmt.Sprintf("duplicate id (previously defined at pattern[%d])", prevIndex),
			}
		}
		seenIDs[p.ID] = i
	}

	return nil
}
