package pattern_test

import (
	"testing"

	"github.com/patterntool/patterntool/pkg/linefilter/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_Empty(t *testing.T) {
	_, err := pattern.Compile(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, pattern.ErrEmptyPatternSet)
}

func TestPattern_Match(t *testing.T) {
	set := pattern.MustCompile("cat")
	p := set.At(0)

	tests := []struct {
		line string
		want bool
	}{
		{"cat", true},
		{"caterpillar", true},
		{"concatenate", true},
		{"dog", false},
		{"", false},
		{"CAT", false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Match(tt.line))
		})
	}
}

func TestPattern_CountMatches(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		line    string
		want    int
	}{
		{"two_singles", "a", "abcabc", 2},
		{"non_overlapping", "aa", "aaaa", 2},
		{"odd_run", "aa", "aaa", 1},
		{"no_match", "z", "abc", 0},
		{"empty_line", "a", "", 0},
		{"empty_matches", "x*", "ab", 3},
		{"multibyte", "é", "été", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pattern.MustCompile(tt.pattern).At(0)
			assert.Equal(t, tt.want, p.CountMatches(tt.line))
		})
	}
}

func TestPattern_CountNonEmptyMatches(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		line    string
		want    int
	}{
		{"two_singles", "a", "abcabc", 2},
		{"only_empty_matches", "x*", "abc", 0},
		{"covering_run", "x*", "xxa", 1},
		{"empty_then_run", "a*", "baaa", 1},
		{"empty_line", "x*", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := pattern.MustCompile(tt.pattern).At(0)
			assert.Equal(t, tt.want, p.CountNonEmptyMatches(tt.line))
			assert.LessOrEqual(t, p.CountNonEmptyMatches(tt.line), p.CountMatches(tt.line))
		})
	}
}

func TestPattern_Name(t *testing.T) {
	set, err := pattern.Compile([]pattern.Definition{
		{Regex: "a"},
		{ID: "named", Regex: "b"},
	})
	require.NoError(t, err)
	assert.Equal(t, "pattern[0]", set.At(0).Name())
	assert.Equal(t, "named", set.At(1).Name())
}

func TestSet_PatternsIsCopy(t *testing.T) {
	set := pattern.MustCompile("a", "b")
	ps := set.Patterns()
	ps[0] = nil
	assert.NotNil(t, set.At(0))
	assert.Equal(t, 2, set.Len())
}

func TestMustCompile_Panics(t *testing.T) {
	assert.Panics(t, func() { pattern.MustCompile("(") })
}

func TestMode_String(t *testing.T) {
	assert.Equal(t, "single", pattern.ModeSingle.String())
	assert.Equal(t, "multi", pattern.ModeMulti.String())
	assert.Equal(t, "Mode(9)", pattern.Mode(9).String())
}
