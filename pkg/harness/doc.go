// Package harness is a small embeddable unit-test harness.
//
// It offers three entry points:
//
//   - Describe logs a group label and runs a body that issues tests.
//   - Test runs one named body, classifies how it ended, and sends exactly
//     one message to a sink.
//   - Expect wraps a value and panics with *AssertionFailure when a
//     comparison does not hold. Silence means pass.
//
// Comparisons use the structural equality of package value, so key order in
// mappings never matters while element order in sequences does.
//
// # Usage
//
//	harness.Describe("arithmetic", func() {
//	    harness.Test("adds", func() {
//	        harness.Expect(2 + 2).ToEqual(4)
//	    })
//	    harness.Test("nothing", func() {
//	        harness.Expect(nil).ToBeNull()
//	    })
//	})
//
// # Messages
//
// Each Test call produces one of:
//
//	PASSED\nTest:<name>
//	FAILED\nTest:<name>\nGot:<json>\nExpected:<json>
//	ERROR\n<name>\n<error text>
//
// PASSED goes to the success sink, the other two to the failure sink. The
// default sinks print lines to stdout (log, success) and stderr (failure);
// use the With* options or New to send them elsewhere.
//
// # Boundaries
//
// Test recovers every panic raised by its body, whether an AssertionFailure
// or anything else, so nothing escapes it. Describe recovers nothing: a
// panic raised directly in a group body propagates to its caller.
//
// Everything is synchronous. A body that never returns blocks the caller.
package harness
