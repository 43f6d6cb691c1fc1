// Package linefilter filters the lines of a text input through a set of
// regular expressions and writes the matching lines to an output.
//
// # Strategies
//
// A run uses exactly one [Strategy]:
//
//   - [SingleExact]: the whole pattern file is one expression; a line is
//     emitted when it matches anywhere in the line.
//   - [AnyOfQuorum]: one expression per pattern file line; a line is emitted
//     once for every expression whose non-overlapping, non-empty match count
//     is at least 30% of the line's length in runes.
//   - [MultiAny]: like SingleExact, the whole pattern file is one
//     expression; meant for pattern files holding one line.
//   - [PerPatternFullScan]: one full pass over the input per expression, so
//     the output holds all lines matching the first expression, then all
//     lines matching the second, and so on.
//   - [AnyMatch]: one expression per pattern file line; a line is emitted
//     once when any expression matches.
//
// AnyOfQuorum and PerPatternFullScan emit a line once per qualifying
// expression; duplicates are not removed.
//
// # Basic Usage
//
// To run the file-based job:
//
//	sum, err := linefilter.RunFiles(ctx, linefilter.DefaultPaths("."), linefilter.SingleExact)
//	if err != nil {
//	    switch linefilter.KindOf(err) {
//	    case linefilter.KindSourceMissing:
//	        // ...
//	    }
//	}
//	fmt.Printf("%d lines written\n", sum.LinesEmitted)
//
// To filter an in-memory source:
//
//	set, _ := pattern.Load("cat", pattern.ModeSingle)
//	src := linefilter.NewSliceSource("cat", "dog", "caterpillar")
//	_, err := linefilter.Run(ctx, src, set, linefilter.SingleExact, os.Stdout)
//
// # Errors
//
// Failures are classified by [Kind]; use [KindOf] on any returned error.
// Sentinel errors such as [ErrSourceMissing] also work with errors.Is.
package linefilter
