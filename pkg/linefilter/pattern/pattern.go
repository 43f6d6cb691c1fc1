// Package pattern loads and validates the regular expressions a line filter
// runs with. Patterns come from a plain-text pattern file (the whole file as
// one pattern, or one pattern per line) or from a versioned YAML file.
//
// Every pattern of a set is compiled before a Set is returned, so a Set never
// holds an invalid expression.
package pattern

import (
	"fmt"
	"regexp"
)

// Mode selects how plain-text pattern files are split into patterns.
type Mode int

const (
	// ModeSingle treats the entire file content as one pattern.
	// The content is not trimmed: a trailing newline is part of the pattern.
	ModeSingle Mode = iota

	// ModeMulti treats each non-empty line of the file as one pattern.
	ModeMulti
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeMulti:
		return "multi"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// PatternFile represents the structure of a YAML pattern file.
//
// Example YAML file:
//
//	version: 1
//	patterns:
//	  - id: errors
//	    regex: '\bERROR\b'
//	  - id: timeouts
//	    regex: 'timeout after \d+ms'
type PatternFile struct {
	// Version is the pattern file format version. Currently only version 1 is supported.
	Version int `yaml:"version"`

	// Patterns is the list of pattern definitions, in match order.
	Patterns []Definition `yaml:"patterns"`
}

// Definition is one uncompiled pattern.
type Definition struct {
	// ID names the pattern in error messages and logs. Optional for
	// plain-text files, required and unique in YAML files.
	ID string `yaml:"id"`

	// Regex is the regular expression, in Go RE2 syntax.
	Regex string `yaml:"regex"`
}

// Pattern is an immutable compiled regular expression plus the text it was
// compiled from. Pattern is safe for concurrent use.
type Pattern struct {
	index  int
	id     string
	source string
	re     *regexp.Regexp
}

// Index returns the 0-based position of the pattern in its file.
func (p *Pattern) Index() int { return p.index }

// ID returns the pattern's YAML id, or "" for plain-text pattern files.
func (p *Pattern) ID() string { return p.id }

// Source returns the pattern text exactly as loaded.
func (p *Pattern) Source() string { return p.source }

// Name returns the id when set, otherwise "pattern[N]".
func (p *Pattern) Name() string {
	if p.id != "" {
		return p.id
	}
	return fmt.Sprintf("pattern[%d]", p.index)
}

// Match reports whether the pattern matches anywhere in line.
func (p *Pattern) Match(line string) bool {
	return p.re.MatchString(line)
}

// CountMatches returns the number of successive non-overlapping matches of
// the pattern in line. Empty matches count, as regexp.FindAllStringIndex
// reports them.
func (p *Pattern) CountMatches(line string) int {
	return len(p.re.FindAllStringIndex(line, -1))
}

// CountNonEmptyMatches is like CountMatches but skips zero-width matches,
// so only matches that cover at least one character are counted.
func (p *Pattern) CountNonEmptyMatches(line string) int {
	n := 0
	for _, loc := range p.re.FindAllStringIndex(line, -1) {
		if loc[1] > loc[0] {
			n++
		}
	}
	return n
}

// Set is an ordered, non-empty sequence of compiled patterns. Order is file
// order.
type Set struct {
	patterns []*Pattern
}

// Len returns the number of patterns in the set.
func (s *Set) Len() int { return len(s.patterns) }

// At returns the i-th pattern.
func (s *Set) At(i int) *Pattern { return s.patterns[i] }

// Patterns returns the patterns in file order. The returned slice is a copy.
func (s *Set) Patterns() []*Pattern {
	out := make([]*Pattern, len(s.patterns))
	copy(out, s.patterns)
	return out
}

// Sources returns the pattern texts in file order.
func (s *Set) Sources() []string {
	out := make([]string, len(s.patterns))
	for i, p := range s.patterns {
		out[i] = p.source
	}
	return out
}

// Compile compiles every definition in order and returns the resulting Set.
// Compilation stops at the first invalid expression, which is returned as a
// *PatternError; later definitions are not examined.
func Compile(defs []Definition) (*Set, error) {
	if len(defs) == 0 {
		return nil, ErrEmptyPatternSet
	}

	patterns := make([]*Pattern, 0, len(defs))
	for i, d := range defs {
		re, err := regexp.Compile(d.Regex)
		if err != nil {
			return nil, &PatternError{
				Index:   i,
				ID:      d.ID,
				Source:  d.Regex,
				Field:   "regex",
				Message: fmt.Sprintf("invalid regular expression: %v", err),
				Cause:   err,
			}
		}

		patterns = append(patterns, &Pattern{
			index:  i,
			id:     d.ID,
			source: d.Regex,
			re:     re,
		})
	}

	return &Set{patterns: patterns}, nil
}

// MustCompile is like Compile but panics on error. It simplifies
// initialization of sets from literal patterns.
func MustCompile(regexes ...string) *Set {
	defs := make([]Definition, len(regexes))
	for i, r := range regexes {
		defs[i] = Definition{Regex: r}
	}
	s, err := Compile(defs)
	if err != nil {
		panic(err)
	}
	return s
}
