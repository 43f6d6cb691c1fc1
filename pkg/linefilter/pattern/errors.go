package pattern

import (
	"errors"
	"fmt"
)

// Sentinel errors returned by the loaders. Typed errors below unwrap to one
// of these so callers can classify failures with errors.Is.
var (
	// ErrPatternFileMissing is returned when the pattern file does not exist.
	ErrPatternFileMissing = errors.New("pattern file does not exist")

	// ErrEmptyPattern is returned in single mode when the pattern text is blank.
	ErrEmptyPattern = errors.New("pattern is empty")

	// ErrEmptyPatternSet is returned in multi mode when no candidate pattern remains.
	ErrEmptyPatternSet = errors.New("pattern set is empty")

	// ErrInvalidPattern is returned when a pattern does not compile or a
	// pattern file violates its schema.
	ErrInvalidPattern = errors.New("pattern is not valid")

	// ErrPatternFileTooLarge is returned when the pattern file exceeds MaxPatternFileSize.
	ErrPatternFileTooLarge = errors.New("pattern file too large")
)

// ValidationError represents a schema-level error in a YAML pattern file
// (unsupported version, missing patterns list).
type ValidationError struct {
	Field   string
	Message string
	Err     error // ErrInvalidPattern or ErrEmptyPatternSet
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
}

// Unwrap returns the sentinel describing the failure category.
func (e *ValidationError) Unwrap() error {
	if e.Err == nil {
		return ErrInvalidPattern
	}
	return e.Err
}

// PatternError represents an error specific to an individual pattern.
// Only the first offending pattern of a set is ever reported.
type PatternError struct {
	Index   int    // 0-based index of the pattern in the file
	ID      string // YAML id; empty for plain-text pattern files
	Source  string // pattern text as written in the file
	Field   string
	Message string
	Cause   error // Underlying error (e.g., *syntax.Error from regexp)
}

func (e *PatternError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("pattern %q: %s: %s", e.ID, e.Field, e.Message)
	}
	return fmt.Sprintf("pattern[%d] %q: %s: %s", e.Index, e.Source, e.Field, e.Message)
}

// Unwrap exposes both ErrInvalidPattern and the underlying cause, so that
// errors.Is(err, ErrInvalidPattern) and errors.As(err, **syntax.Error) both work.
func (e *PatternError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrInvalidPattern}
	}
	return []error{ErrInvalidPattern, e.Cause}
}
