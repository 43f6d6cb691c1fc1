package pattern_test

import (
	"errors"
	"fmt"
	"log"

	"github.com/patterntool/patterntool/pkg/linefilter/pattern"
)

// Example demonstrates loading a multi-pattern file held in memory.
func Example() {
	set, err := pattern.Load("^ERROR\ntimeout\n", pattern.ModeMulti)
	if err != nil {
		log.Fatal(err)
	}

	for _, p := range set.Patterns() {
		fmt.Printf("%s: %q matches=%v\n", p.Name(), p.Source(), p.Match("ERROR: timeout"))
	}
	// Output:
	// pattern[0]: "^ERROR" matches=true
	// pattern[1]: "timeout" matches=true
}

// ExampleLoadFile demonstrates loading patterns from a YAML file.
func ExampleLoadFile() {
	set, err := pattern.LoadFile("testdata/valid.yaml", pattern.ModeMulti)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Patterns: %d\n", set.Len())
	fmt.Printf("First pattern ID: %s\n", set.At(0).ID())
	// Output:
	// Patterns: 2
	// First pattern ID: errors
}

// ExampleLoad_invalid shows that the first invalid expression aborts the load.
func ExampleLoad_invalid() {
	_, err := pattern.Load("fine\n(broken\n", pattern.ModeMulti)

	var patErr *pattern.PatternError
	if errors.As(err, &patErr) {
		fmt.Printf("invalid: %v, index: %d\n", errors.Is(err, pattern.ErrInvalidPattern), patErr.Index)
	}
	// Output:
	// invalid: true, index: 1
}
