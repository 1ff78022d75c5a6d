package harness

import (
	"github.com/roach88/gasunit/pkg/value"
)

// failureLabel prefixes AssertionFailure.Error. Rendering strips it.
const failureLabel = "assertion failed:"

// AssertionFailure is raised (panicked) by an expectation that does not hold.
// It is the only panic Test classifies as FAILED; everything else is ERROR.
type AssertionFailure struct {
	Got      value.Value
	Expected value.Value

	// File and Line locate the failing expectation call.
	File string
	Line int
}

// Detail renders the got/expected pair.
func (f *AssertionFailure) Detail() string {
	return "Got:" + value.Literal(f.Got) + "\nExpected:" + value.Literal(f.Expected)
}

// Error implements the error interface.
func (f *AssertionFailure) Error() string {
	return failureLabel + " " + f.Detail()
}

// Must panics with err when it is non-nil. Inside a test body this reports
// the error as ERROR rather than FAILED.
func Must(err error) {
	if err != nil {
		panic(err)
	}
}
