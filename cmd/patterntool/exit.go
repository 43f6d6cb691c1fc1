package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/patterntool/patterntool/pkg/linefilter"
)

// Exit statuses. Each failure kind has its own status so scripts can tell
// them apart without parsing messages.
const (
	exitOK                 = 0
	exitUsage              = 1
	exitSourceMissing      = 2
	exitPatternFileMissing = 3
	exitSourceEmpty        = 4
	exitEmptyPattern       = 5
	exitEmptyPatternSet    = 6
	exitInvalidPattern     = 7
	exitIOFailure          = 8
)

// exitCode maps a failure kind to its exit status.
func exitCode(kind linefilter.Kind) int {
	switch kind {
	case linefilter.KindNone:
		return exitOK
	case linefilter.KindSourceMissing:
		return exitSourceMissing
	case linefilter.KindPatternFileMissing:
		return exitPatternFileMissing
	case linefilter.KindSourceEmpty:
		return exitSourceEmpty
	case linefilter.KindEmptyPattern:
		return exitEmptyPattern
	case linefilter.KindEmptyPatternSet:
		return exitEmptyPatternSet
	case linefilter.KindInvalidPattern:
		return exitInvalidPattern
	default:
		return exitIOFailure
	}
}

// reportedError is returned by commands that already told the user what went
// wrong; only the exit status is left to apply.
type reportedError struct {
	code int
	err  error
}

func (e *reportedError) Error() string {
	return e.err.Error()
}

func (e *reportedError) Unwrap() error {
	return e.err
}

// exitStatus converts the error returned by Execute into an exit status,
// printing errors that were not reported yet (flag parsing, unknown commands).
func exitStatus(err error, stderr io.Writer) int {
	if err == nil {
		return exitOK
	}

	var reported *reportedError
	if errors.As(err, &reported) {
		return reported.code
	}

	fmt.Fprintf(stderr, "Error: %v\n", err)
	return exitUsage
}
