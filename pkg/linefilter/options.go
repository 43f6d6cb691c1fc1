package linefilter

import (
	"fmt"
	"io"
	"log/slog"
)

const (
	// DefaultQuorumPercent is the share of a line's length, in percent, that
	// the match count must reach under AnyOfQuorum.
	DefaultQuorumPercent = 30

	// DefaultMaxLineBytes is the longest input line a FileSource accepts.
	DefaultMaxLineBytes = 1024 * 1024
)

// Option configures Run, RunFiles and OpenFile using the functional options pattern.
type Option func(*runConfig)

// runConfig holds internal configuration for a run.
type runConfig struct {
	logger        *slog.Logger
	quorumPercent int
	maxLineBytes  int
	runID         string
}

// discardLogger returns a logger that discards all output.
var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func defaultRunConfig() *runConfig {
	return &runConfig{
		logger:        discardLogger,
		quorumPercent: DefaultQuorumPercent,
		maxLineBytes:  DefaultMaxLineBytes,
	}
}

func applyOptions(opts []Option) *runConfig {
	cfg := defaultRunConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(cfg)
		}
	}
	return cfg
}

func (c *runConfig) validate() error {
	if c.quorumPercent < 1 || c.quorumPercent > 100 {
		return fmt.Errorf("quorum percent must be between 1 and 100, got %d", c.quorumPercent)
	}
	if c.maxLineBytes <= 0 {
		return fmt.Errorf("max line bytes must be positive, got %d", c.maxLineBytes)
	}
	return nil
}

// WithLogger sets a logger for debug output.
// If logger is nil, logging is disabled (default behavior).
func WithLogger(logger *slog.Logger) Option {
	return func(c *runConfig) {
		if logger == nil {
			logger = discardLogger
		}
		c.logger = logger
	}
}

// WithQuorumPercent sets the AnyOfQuorum threshold as a percentage of the
// line length. Default: 30. Valid range is 1 to 100.
func WithQuorumPercent(percent int) Option {
	return func(c *runConfig) {
		c.quorumPercent = percent
	}
}

// WithMaxLineBytes sets the longest line a FileSource will read. A longer
// line fails the scan with an I/O failure. Default: 1 MiB.
func WithMaxLineBytes(n int) Option {
	return func(c *runConfig) {
		c.maxLineBytes = n
	}
}

// WithRunID sets the run identifier reported in Summary and logs.
// A random UUID is used when unset.
func WithRunID(id string) Option {
	return func(c *runConfig) {
		c.runID = id
	}
}
