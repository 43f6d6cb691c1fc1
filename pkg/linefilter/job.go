package linefilter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/patterntool/patterntool/internal/safefile"
	"github.com/patterntool/patterntool/pkg/linefilter/pattern"
)

// Default file names, resolved against a base directory.
const (
	DefaultInputFile   = "input.txt"
	DefaultPatternFile = "pattern.txt"
	DefaultOutputFile  = "output.txt"
)

// Paths names the three files of a run.
type Paths struct {
	Input   string
	Pattern string
	Output  string
}

// DefaultPaths returns the default file names joined to dir.
func DefaultPaths(dir string) Paths {
	return Paths{
		Input:   filepath.Join(dir, DefaultInputFile),
		Pattern: filepath.Join(dir, DefaultPatternFile),
		Output:  filepath.Join(dir, DefaultOutputFile),
	}
}

// RunFiles filters paths.Input into paths.Output using the patterns in
// paths.Pattern.
//
// Checks run in a fixed order and the first failure ends the run:
//  1. the input file exists (KindSourceMissing)
//  2. the pattern file exists (KindPatternFileMissing)
//  3. the output file is created or truncated
//  4. the input file is not empty (KindSourceEmpty)
//  5. the patterns load and compile (KindEmptyPattern, KindEmptyPatternSet, KindInvalidPattern)
//  6. the scan runs (KindIOFailure)
//
// A failure in steps 1 or 2 leaves the output file untouched; later failures
// leave it truncated, or holding the lines written before an I/O failure.
// Running twice on unchanged inputs produces identical output.
//
// Invalid options or strategy are reported as plain errors before any file
// is touched; every other failure is a *RunError.
func RunFiles(ctx context.Context, paths Paths, strategy Strategy, opts ...Option) (sum Summary, err error) {
	cfg := applyOptions(opts)
	if err := cfg.validate(); err != nil {
		return Summary{}, err
	}
	if !strategy.valid() {
		return Summary{}, fmt.Errorf("invalid strategy %d", int(strategy))
	}
	if cfg.runID == "" {
		cfg.runID = uuid.NewString()
		opts = append(opts, WithRunID(cfg.runID))
	}
	log := cfg.logger.With("run_id", cfg.runID)

	if err := checkExists(paths.Input, OpCheckInput, ErrSourceMissing); err != nil {
		return Summary{}, err
	}
	if err := checkExists(paths.Pattern, OpCheckPatterns, ErrPatternFileMissing); err != nil {
		return Summary{}, err
	}

	out, err := safefile.CreateTruncate(paths.Output)
	if err != nil {
		return Summary{}, ioFailure(OpOpenOutput, sanitizePathError(err))
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = ioFailure(OpWrite, sanitizePathError(cerr))
		}
	}()
	log.Debug("output truncated")

	src, err := OpenFile(paths.Input, opts...)
	if err != nil {
		return Summary{}, newRunError(OpOpenInput, err)
	}
	defer src.Close()

	set, err := pattern.LoadFile(paths.Pattern, strategy.PatternMode())
	if err != nil {
		return Summary{}, newRunError(OpLoadPatterns, err)
	}
	log.Debug("patterns loaded", "count", set.Len(), "mode", strategy.PatternMode().String())

	w := bufio.NewWriter(out)
	sum, err = Run(ctx, src, set, strategy, w, opts...)
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ioFailure(OpWrite, sanitizePathError(ferr))
	}
	if err != nil {
		var runErr *RunError
		if !errors.As(err, &runErr) {
			err = ioFailure(OpScan, err)
		}
		return sum, err
	}

	return sum, nil
}

func checkExists(path, op string, missing error) error {
	ok, err := safefile.Exists(path)
	if err != nil {
		return ioFailure(op, fmt.Errorf("stat: %w", sanitizePathError(err)))
	}
	if !ok {
		return newRunError(op, missing)
	}
	return nil
}
