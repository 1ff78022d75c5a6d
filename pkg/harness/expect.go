package harness

import (
	"runtime"

	"github.com/roach88/gasunit/pkg/value"
)

// Expectation wraps the value under test.
// Its methods return nothing; a failed comparison panics with
// *AssertionFailure.
type Expectation struct {
	got      value.Value
	comparer value.Comparer
}

// Expect wraps got for comparison with the default comparer.
func Expect(got any) *Expectation {
	return &Expectation{got: value.Of(got)}
}

// ToEqual checks that the wrapped value structurally equals expected.
func (e *Expectation) ToEqual(expected any) {
	e.check(value.Of(expected))
}

// ToBeNull checks that the wrapped value is null.
func (e *Expectation) ToBeNull() {
	e.check(value.Null{})
}

// ToBeUndefined checks that the wrapped value is undefined.
func (e *Expectation) ToBeUndefined() {
	e.check(value.Undefined{})
}

func (e *Expectation) check(expected value.Value) {
	if e.comparer.Equal(e.got, expected) {
		return
	}

	failure := &AssertionFailure{Got: e.got, Expected: expected}
	// Skip check and the exported method to land on the caller.
	if _, file, line, ok := runtime.Caller(2); ok {
		failure.File = file
		failure.Line = line
	}
	panic(failure)
}
