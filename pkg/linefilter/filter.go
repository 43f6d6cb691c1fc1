package linefilter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patterntool/patterntool/pkg/linefilter/pattern"
)

// Summary describes a completed run.
type Summary struct {
	RunID    string   `json:"run_id"`
	Strategy Strategy `json:"strategy"`
	Patterns int      `json:"patterns"`
	Passes   int      `json:"passes"`

	// LinesRead counts lines over all passes.
	LinesRead int `json:"lines_read"`

	// LinesEmitted counts lines written to the sink, duplicates included.
	LinesEmitted int `json:"lines_emitted"`

	// PerPattern[i] counts emissions triggered by pattern i.
	PerPattern []int `json:"per_pattern"`

	Duration time.Duration `json:"duration"`
}

// Run drives src through strategy and writes every emitted line, followed by
// "\n", to sink as soon as it is decided. Nothing is buffered beyond the
// current line.
//
// The first read, rewind or write error aborts the run and is returned as a
// *RunError of KindIOFailure, together with the Summary of the work done so
// far. Lines already written stay written.
//
// The context is checked between lines; the run is otherwise synchronous.
func Run(ctx context.Context, src Source, set *pattern.Set, strategy Strategy, sink io.Writer, opts ...Option) (Summary, error) {
	cfg := applyOptions(opts)
	if err := cfg.validate(); err != nil {
		return Summary{}, err
	}
	if !strategy.valid() {
		return Summary{}, fmt.Errorf("invalid strategy %d", int(strategy))
	}
	if set == nil || set.Len() == 0 {
		return Summary{}, &RunError{Kind: KindEmptyPatternSet, Op: OpScan, Err: ErrEmptyPatternSet}
	}
	if strategy.PatternMode() == pattern.ModeSingle && set.Len() != 1 {
		return Summary{}, fmt.Errorf("strategy %s takes exactly one pattern, got %d", strategy, set.Len())
	}

	runID := cfg.runID
	if runID == "" {
		runID = uuid.NewString()
	}

	s := &scan{
		ctx:  ctx,
		src:  src,
		sink: sink,
		log:  cfg.logger.With("run_id", runID, "strategy", strategy.String()),
		sum: Summary{
			RunID:      runID,
			Strategy:   strategy,
			Patterns:   set.Len(),
			PerPattern: make([]int, set.Len()),
		},
	}

	start := time.Now()
	var err error
	if strategy == PerPatternFullScan {
		err = s.patternMajor(set)
	} else {
		err = s.lineMajor(set, strategy, cfg.quorumPercent)
	}
	s.sum.Duration = time.Since(start)

	if err != nil {
		s.log.Debug("scan aborted", "error", err, "lines_read", s.sum.LinesRead)
		return s.sum, err
	}

	s.log.Debug("scan complete",
		"passes", s.sum.Passes,
		"lines_read", s.sum.LinesRead,
		"lines_emitted", s.sum.LinesEmitted,
	)
	return s.sum, nil
}

// scan holds the state of one Run.
type scan struct {
	ctx  context.Context
	src  Source
	sink io.Writer
	log  *slog.Logger
	sum  Summary
	buf  []byte
}

// lineMajor makes one pass, testing every pattern against each line.
func (s *scan) lineMajor(set *pattern.Set, strategy Strategy, quorumPercent int) error {
	s.sum.Passes = 1
	var decisions []Decision

	for line, err := range s.src.Lines() {
		if err != nil {
			return ioFailure(OpScan, err)
		}
		if err := s.ctx.Err(); err != nil {
			return ioFailure(OpScan, err)
		}
		s.sum.LinesRead++

		decisions = strategy.appendDecisions(decisions[:0], line.Text, set, quorumPercent)
		for _, d := range decisions {
			if err := s.emit(line, d.Pattern); err != nil {
				return err
			}
		}
	}
	return nil
}

// patternMajor makes one full pass per pattern, rewinding between passes.
func (s *scan) patternMajor(set *pattern.Set) error {
	for i, p := range set.Patterns() {
		if i > 0 {
			if err := s.src.Rewind(); err != nil {
				return ioFailure(OpRewind, err)
			}
		}
		s.sum.Passes++
		before := s.sum.LinesEmitted

		for line, err := range s.src.Lines() {
			if err != nil {
				return ioFailure(OpScan, err)
			}
			if err := s.ctx.Err(); err != nil {
				return ioFailure(OpScan, err)
			}
			s.sum.LinesRead++

			if p.Match(line.Text) {
				if err := s.emit(line, i); err != nil {
					return err
				}
			}
		}

		s.log.Debug("pass complete", "pattern", p.Name(), "emitted", s.sum.LinesEmitted-before)
	}
	return nil
}

func (s *scan) emit(line Line, patternIndex int) error {
	s.buf = append(append(s.buf[:0], line.Text...), '\n')
	if _, err := s.sink.Write(s.buf); err != nil {
		return ioFailure(OpWrite, fmt.Errorf("line %d: %w", line.Number, err))
	}
	s.sum.LinesEmitted++
	s.sum.PerPattern[patternIndex]++
	return nil
}

// IsCanceled reports whether err ended a run because its context was done.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
