package linefilter

import (
	"errors"
	"fmt"

	"github.com/patterntool/patterntool/pkg/linefilter/pattern"
)

// Kind classifies why a run failed. Every failure of RunFiles maps to
// exactly one Kind.
type Kind int

const (
	// KindNone means no error.
	KindNone Kind = iota
	// KindSourceMissing: the input file does not exist.
	KindSourceMissing
	// KindPatternFileMissing: the pattern file does not exist.
	KindPatternFileMissing
	// KindSourceEmpty: the input file has zero bytes.
	KindSourceEmpty
	// KindEmptyPattern: single-pattern text is blank.
	KindEmptyPattern
	// KindEmptyPatternSet: the pattern file holds no pattern.
	KindEmptyPatternSet
	// KindInvalidPattern: a pattern does not compile.
	KindInvalidPattern
	// KindIOFailure: reading, writing or rewinding failed.
	KindIOFailure
)

var kindNames = [...]string{
	KindNone:               "none",
	KindSourceMissing:      "source_missing",
	KindPatternFileMissing: "pattern_file_missing",
	KindSourceEmpty:        "source_empty",
	KindEmptyPattern:       "empty_pattern",
	KindEmptyPatternSet:    "empty_pattern_set",
	KindInvalidPattern:     "invalid_pattern",
	KindIOFailure:          "io_failure",
}

// String returns the snake_case name of the kind.
func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Sentinel errors. The pattern errors are re-exported so callers only need
// this package to classify failures.
var (
	ErrSourceMissing = errors.New("input file does not exist")
	ErrSourceEmpty   = errors.New("input file is empty")

	// ErrSourceChanged is returned by FileSource.Rewind when the input file
	// was modified after it was first opened.
	ErrSourceChanged = errors.New("input file changed between passes")

	// ErrSourceClosed is returned when reading from a closed FileSource.
	ErrSourceClosed = errors.New("source is closed")

	ErrPatternFileMissing = pattern.ErrPatternFileMissing
	ErrEmptyPattern       = pattern.ErrEmptyPattern
	ErrEmptyPatternSet    = pattern.ErrEmptyPatternSet
	ErrInvalidPattern     = pattern.ErrInvalidPattern
)

// Operations reported in RunError.Op.
const (
	OpCheckInput    = "check input"
	OpCheckPatterns = "check pattern file"
	OpOpenOutput    = "open output"
	OpOpenInput     = "open input"
	OpLoadPatterns  = "load patterns"
	OpScan          = "scan"
	OpRewind        = "rewind"
	OpWrite         = "write output"
)

// RunError is returned by Run and RunFiles. It records the failure category,
// the operation in progress and the underlying error.
type RunError struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *RunError) Unwrap() error {
	return e.Err
}

// KindOf classifies err. A *RunError anywhere in the chain wins; otherwise
// the sentinel errors are consulted and anything unrecognised is an I/O
// failure.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}

	var runErr *RunError
	if errors.As(err, &runErr) {
		return runErr.Kind
	}

	switch {
	case errors.Is(err, ErrSourceMissing):
		return KindSourceMissing
	case errors.Is(err, ErrPatternFileMissing):
		return KindPatternFileMissing
	case errors.Is(err, ErrSourceEmpty):
		return KindSourceEmpty
	case errors.Is(err, ErrEmptyPattern):
		return KindEmptyPattern
	case errors.Is(err, ErrEmptyPatternSet):
		return KindEmptyPatternSet
	case errors.Is(err, ErrInvalidPattern):
		return KindInvalidPattern
	default:
		return KindIOFailure
	}
}

func newRunError(op string, err error) *RunError {
	return &RunError{Kind: KindOf(err), Op: op, Err: err}
}

func ioFailure(op string, err error) *RunError {
	return &RunError{Kind: KindIOFailure, Op: op, Err: err}
}
