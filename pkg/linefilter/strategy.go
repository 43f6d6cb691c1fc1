package linefilter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/patterntool/patterntool/pkg/linefilter/pattern"
)

// Strategy selects how a pattern set decides which lines are emitted.
// It is chosen once per run from configuration.
type Strategy int

const (
	// SingleExact runs one pattern (the whole pattern file) and emits every
	// line it matches anywhere. One pass.
	SingleExact Strategy = iota

	// AnyOfQuorum tests every pattern against each line, in file order, and
	// emits the line once per pattern whose non-overlapping match count
	// reaches the quorum threshold. One pass; duplicates are kept.
	AnyOfQuorum

	// MultiAny reads the whole pattern file as one pattern, like
	// SingleExact, and emits every line it matches anywhere. It is the
	// variant for pattern files holding a single line. One pass.
	MultiAny

	// PerPatternFullScan makes one full pass per pattern, rewinding the
	// source in between, so output is grouped by pattern. Duplicates are kept.
	PerPatternFullScan

	// AnyMatch tests one pattern per pattern file line and emits each line
	// once if any of them matches. One pass.
	AnyMatch
)

var strategyNames = [...]string{
	SingleExact:        "single",
	AnyOfQuorum:        "quorum",
	MultiAny:           "multi",
	PerPatternFullScan: "per-pattern",
	AnyMatch:           "any",
}

var strategyDescriptions = [...]string{
	SingleExact:        "whole pattern file is one regex; emit lines it matches",
	AnyOfQuorum:        "one regex per line; emit a line once per regex whose match count reaches the quorum",
	MultiAny:           "whole pattern file is one regex (one-line files); emit lines it matches",
	PerPatternFullScan: "one regex per line; a full pass per regex, output grouped by regex",
	AnyMatch:           "one regex per line; emit a line once if any regex matches",
}

// Strategies returns every strategy in declaration order.
func Strategies() []Strategy {
	return []Strategy{SingleExact, AnyOfQuorum, MultiAny, PerPatternFullScan, AnyMatch}
}

// String returns the configuration name of the strategy.
func (s Strategy) String() string {
	if s.valid() {
		return strategyNames[s]
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// Description returns a one-line summary of the strategy.
func (s Strategy) Description() string {
	if s.valid() {
		return strategyDescriptions[s]
	}
	return ""
}

func (s Strategy) valid() bool {
	return s >= SingleExact && s <= AnyMatch
}

// ParseStrategy parses a strategy name. Matching ignores case, and "-" and
// "_" are interchangeable.
func ParseStrategy(name string) (Strategy, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-")
	for _, s := range Strategies() {
		if strategyNames[s] == normalized {
			return s, nil
		}
	}
	return 0, fmt.Errorf("unknown strategy %q (valid: single, quorum, multi, per-pattern, any)", name)
}

// MarshalText implements encoding.TextMarshaler.
func (s Strategy) MarshalText() ([]byte, error) {
	if !s.valid() {
		return nil, fmt.Errorf("invalid strategy %d", int(s))
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Strategy) UnmarshalText(text []byte) error {
	parsed, err := ParseStrategy(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// PatternMode returns how the pattern file must be split for this strategy.
func (s Strategy) PatternMode() pattern.Mode {
	switch s {
	case SingleExact, MultiAny:
		return pattern.ModeSingle
	default:
		return pattern.ModeMulti
	}
}

// Passes returns how many passes over the source the strategy makes for set.
func (s Strategy) Passes(set *pattern.Set) int {
	if s == PerPatternFullScan {
		return set.Len()
	}
	return 1
}

// Decision is the outcome of testing one line: whether to emit it and which
// pattern triggered the emission (-1 when Emit is false).
type Decision struct {
	Emit    bool
	Pattern int
}

// Decide returns the emit decisions for one line, in emission order.
// quorumPercent is only used by AnyOfQuorum (see WithQuorumPercent).
// A line-major strategy emits the line once per returned decision. For
// PerPatternFullScan the decisions list every pattern that matches the line,
// i.e. every segment of the output the line will appear in. A line that is
// not emitted yields a single decision with Emit false.
func (s Strategy) Decide(text string, set *pattern.Set, quorumPercent int) []Decision {
	out := s.appendDecisions(nil, text, set, quorumPercent)
	if len(out) == 0 {
		return []Decision{{Emit: false, Pattern: -1}}
	}
	return out
}

// appendDecisions appends one Decision per emission of text to dst.
func (s Strategy) appendDecisions(dst []Decision, text string, set *pattern.Set, quorumPercent int) []Decision {
	switch s {
	case SingleExact, MultiAny, AnyMatch:
		for i := 0; i < set.Len(); i++ {
			if set.At(i).Match(text) {
				return append(dst, Decision{Emit: true, Pattern: i})
			}
		}
	case AnyOfQuorum:
		n := utf8.RuneCountInString(text)
		if n == 0 {
			// An empty line never reaches a quorum, even though 0 >= 0.
			return dst
		}
		threshold := QuorumThreshold(n, quorumPercent)
		for i := 0; i < set.Len(); i++ {
			// Zero-width matches cover no text and do not count.
			if set.At(i).CountNonEmptyMatches(text) >= threshold {
				dst = append(dst, Decision{Emit: true, Pattern: i})
			}
		}
	case PerPatternFullScan:
		for i := 0; i < set.Len(); i++ {
			if set.At(i).Match(text) {
				dst = append(dst, Decision{Emit: true, Pattern: i})
			}
		}
	}
	return dst
}

// QuorumThreshold returns ceil(percent * length / 100), the match count a
// line of length runes needs under AnyOfQuorum. Integer arithmetic keeps
// lengths such as 10 at a threshold of 3 (0.3*10 is slightly above 3 in
// floating point).
func QuorumThreshold(length, percent int) int {
	return (percent*length + 99) / 100
}
