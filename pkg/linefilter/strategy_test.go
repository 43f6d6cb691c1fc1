package linefilter_test

import (
	"testing"

	"github.com/patterntool/patterntool/pkg/linefilter"
	"github.com/patterntool/patterntool/pkg/linefilter/pattern"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		name    string
		want    linefilter.Strategy
		wantErr bool
	}{
		{"single", linefilter.SingleExact, false},
		{"quorum", linefilter.AnyOfQuorum, false},
		{"multi", linefilter.MultiAny, false},
		{"per-pattern", linefilter.PerPatternFullScan, false},
		{"any", linefilter.AnyMatch, false},
		{"PER_PATTERN", linefilter.PerPatternFullScan, false},
		{" Quorum ", linefilter.AnyOfQuorum, false},
		{"", 0, true},
		{"all", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := linefilter.ParseStrategy(tt.name)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "unknown strategy")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestStrategy_TextRoundTrip(t *testing.T) {
	for _, s := range linefilter.Strategies() {
		text, err := s.MarshalText()
		require.NoError(t, err)

		var got linefilter.Strategy
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, s, got)
		assert.NotEmpty(t, s.Description())
	}

	_, err := linefilter.Strategy(99).MarshalText()
	assert.Error(t, err)
	assert.Equal(t, "Strategy(99)", linefilter.Strategy(99).String())
}

func TestStrategy_PatternMode(t *testing.T) {
	assert.Equal(t, pattern.ModeSingle, linefilter.SingleExact.PatternMode())
	assert.Equal(t, pattern.ModeMulti, linefilter.AnyOfQuorum.PatternMode())
	assert.Equal(t, pattern.ModeSingle, linefilter.MultiAny.PatternMode())
	assert.Equal(t, pattern.ModeMulti, linefilter.PerPatternFullScan.PatternMode())
	assert.Equal(t, pattern.ModeMulti, linefilter.AnyMatch.PatternMode())
}

func TestStrategy_Passes(t *testing.T) {
	set := pattern.MustCompile("a", "b", "c")
	assert.Equal(t, 1, linefilter.AnyOfQuorum.Passes(set))
	assert.Equal(t, 1, linefilter.AnyMatch.Passes(set))
	assert.Equal(t, 1, linefilter.MultiAny.Passes(pattern.MustCompile("a")))
	assert.Equal(t, 3, linefilter.PerPatternFullScan.Passes(set))
}

func TestQuorumThreshold(t *testing.T) {
	tests := []struct {
		length int
		want   int
	}{
		{0, 0},
		{1, 1},
		{3, 1},
		{4, 2},
		{6, 2},
		{10, 3}, // 0.3*10 in float64 rounds up to 4
		{11, 4},
		{20, 6},
		{100, 30},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, linefilter.QuorumThreshold(tt.length, 30), "length %d", tt.length)
	}
	assert.Equal(t, 10, linefilter.QuorumThreshold(10, 100))
	assert.Equal(t, 1, linefilter.QuorumThreshold(10, 1))
}

func TestDecide_SingleExact(t *testing.T) {
	set := pattern.MustCompile("cat")

	d := linefilter.SingleExact.Decide("caterpillar", set, linefilter.DefaultQuorumPercent)
	assert.Equal(t, []linefilter.Decision{{Emit: true, Pattern: 0}}, d)

	d = linefilter.SingleExact.Decide("dog", set, linefilter.DefaultQuorumPercent)
	assert.Equal(t, []linefilter.Decision{{Emit: false, Pattern: -1}}, d)
}

func TestDecide_AnyOfQuorumBoundary(t *testing.T) {
	set := pattern.MustCompile("a")

	tests := []struct {
		name string
		line string
		emit bool
	}{
		{"example_at_threshold", "abcabc", true}, // L=6, threshold 2, count 2
		{"one_below", "abcxbc", false},           // L=6, threshold 2, count 1
		{"short_at_threshold", "aabb", true},     // L=4, threshold 2, count 2
		{"short_below", "abbb", false},           // L=4, threshold 2, count 1
		{"ten_at_threshold", "aaabbbbbbb", true}, // L=10, threshold 3, count 3
		{"ten_below", "aabbbbbbbb", false},       // L=10, threshold 3, count 2
		{"single_char", "a", true},               // L=1, threshold 1
		{"no_match", "bbbb", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := linefilter.AnyOfQuorum.Decide(tt.line, set, linefilter.DefaultQuorumPercent)
			require.Len(t, d, 1)
			assert.Equal(t, tt.emit, d[0].Emit)
		})
	}
}

func TestDecide_AnyOfQuorumCountsRunes(t *testing.T) {
	// 5 runes (7 bytes): rune threshold 2, byte threshold would be 3.
	set := pattern.MustCompile("é")
	d := linefilter.AnyOfQuorum.Decide("ééaaa", set, linefilter.DefaultQuorumPercent)
	assert.Equal(t, []linefilter.Decision{{Emit: true, Pattern: 0}}, d)
}

func TestDecide_AnyOfQuorumEmptyLine(t *testing.T) {
	// x* matches the empty line once; an empty line is still never emitted.
	set := pattern.MustCompile("x*")
	d := linefilter.AnyOfQuorum.Decide("", set, linefilter.DefaultQuorumPercent)
	assert.Equal(t, []linefilter.Decision{{Emit: false, Pattern: -1}}, d)
}

func TestDecide_AnyOfQuorumIgnoresZeroWidthMatches(t *testing.T) {
	set := pattern.MustCompile("x*")

	tests := []struct {
		name string
		line string
		emit bool
	}{
		{"only_empty_matches", "abc", false}, // 4 empty matches cover nothing
		{"one_covering_match", "xxa", true},  // L=3, threshold 1, "xx" counts
		{"covering_below", "xaaaaa", false},  // L=6, threshold 2, one covering match
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := linefilter.AnyOfQuorum.Decide(tt.line, set, linefilter.DefaultQuorumPercent)
			require.Len(t, d, 1)
			assert.Equal(t, tt.emit, d[0].Emit)
		})
	}
}

func TestDecide_QuorumPercent(t *testing.T) {
	set := pattern.MustCompile("a")

	// L=4 with one match: threshold 2 at 30%, 1 at 25%.
	assert.False(t, linefilter.AnyOfQuorum.Decide("abcd", set, 30)[0].Emit)
	assert.True(t, linefilter.AnyOfQuorum.Decide("abcd", set, 25)[0].Emit)
}

func TestDecide_AnyOfQuorumDuplicates(t *testing.T) {
	set := pattern.MustCompile("a", "z", "b")
	d := linefilter.AnyOfQuorum.Decide("ab", set, linefilter.DefaultQuorumPercent)
	assert.Equal(t, []linefilter.Decision{
		{Emit: true, Pattern: 0},
		{Emit: true, Pattern: 2},
	}, d)
}

func TestDecide_MultiAnyMatchesLikeSingleExact(t *testing.T) {
	for _, text := range []string{"a\nb", "cat", "^d"} {
		set, err := pattern.Load(text, linefilter.MultiAny.PatternMode())
		require.NoError(t, err)
		require.Equal(t, 1, set.Len())

		for _, line := range []string{"a", "b", "ab", "caterpillar", "dog"} {
			assert.Equal(t,
				linefilter.SingleExact.Decide(line, set, linefilter.DefaultQuorumPercent),
				linefilter.MultiAny.Decide(line, set, linefilter.DefaultQuorumPercent),
				"pattern %q line %q", text, line)
		}
	}
}

func TestDecide_AnyMatchFirstMatch(t *testing.T) {
	set := pattern.MustCompile("z", "b", "a")
	d := linefilter.AnyMatch.Decide("ab", set, linefilter.DefaultQuorumPercent)
	assert.Equal(t, []linefilter.Decision{{Emit: true, Pattern: 1}}, d)
}

func TestDecide_PerPatternFullScan(t *testing.T) {
	set := pattern.MustCompile("a", "z", "b")
	d := linefilter.PerPatternFullScan.Decide("ab", set, linefilter.DefaultQuorumPercent)
	assert.Equal(t, []linefilter.Decision{
		{Emit: true, Pattern: 0},
		{Emit: true, Pattern: 2},
	}, d)
}
