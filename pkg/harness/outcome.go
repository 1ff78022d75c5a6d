package harness

import (
	"errors"
	"fmt"
	"strings"
)

// Status is how a test body ended.
type Status int

const (
	// Passed means the body returned without panicking.
	Passed Status = iota
	// Failed means the body panicked with *AssertionFailure.
	Failed
	// Errored means the body panicked with anything else.
	Errored
)

var statusNames = [...]string{
	Passed:  "passed",
	Failed:  "failed",
	Errored: "errored",
}

func (s Status) String() string {
	if s < 0 || int(s) >= len(statusNames) {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusNames[s]
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	parsed, err := ParseStatus(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(s string) (Status, error) {
	for i, name := range statusNames {
		if name == s {
			return Status(i), nil
		}
	}
	return 0, fmt.Errorf("unknown status %q", s)
}

// Outcome is the result of one Test call.
type Outcome struct {
	Status Status `json:"status"`
	Test   string `json:"test"`

	// Detail is the rendered failure (got/expected) or error text.
	// Empty for Passed.
	Detail string `json:"detail,omitempty"`

	// Failure is set for Failed outcomes.
	Failure *AssertionFailure `json:"-"`

	// Err is set for Errored outcomes.
	Err error `json:"-"`
}

// Message renders the outcome as the text sent to a sink.
func (o Outcome) Message() string {
	switch o.Status {
	case Passed:
		return "PASSED\nTest:" + o.Test
	case Failed:
		return "FAILED\nTest:" + o.Test + "\n" + o.Detail
	default:
		return "ERROR\n" + o.Test + "\n" + o.Detail
	}
}

// classify turns whatever a test body panicked with into an outcome.
// A nil recovered value means the body returned normally.
func classify(name string, recovered any) Outcome {
	if recovered == nil {
		return Outcome{Status: Passed, Test: name}
	}

	var failure *AssertionFailure
	switch r := recovered.(type) {
	case *AssertionFailure:
		failure = r
	case error:
		if !errors.As(r, &failure) {
			return Outcome{Status: Errored, Test: name, Detail: r.Error(), Err: r}
		}
	default:
		err := fmt.Errorf("%v", r)
		return Outcome{Status: Errored, Test: name, Detail: err.Error(), Err: err}
	}

	detail := strings.TrimSpace(strings.TrimPrefix(failure.Error(), failureLabel))
	return Outcome{Status: Failed, Test: name, Detail: detail, Failure: failure}
}
