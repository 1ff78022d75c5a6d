package harness

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/roach88/gasunit/pkg/value"
)

// Sink receives one rendered message. Sinks are called synchronously and
// their failures are not caught.
type Sink func(message string)

// WriterSink returns a Sink that writes each message as a line to w.
func WriterSink(w io.Writer) Sink {
	return func(message string) {
		fmt.Fprintln(w, message)
	}
}

// Tee returns a Sink that forwards each message to every sink in order.
func Tee(sinks ...Sink) Sink {
	return func(message string) {
		for _, s := range sinks {
			s(message)
		}
	}
}

// Harness binds sinks, a logger and a comparer for Describe, Test and
// Expect. A Harness holds no state between calls.
type Harness struct {
	logSink     Sink
	successSink Sink
	failureSink Sink
	observers   []func(Outcome)
	logger      *slog.Logger
	comparer    value.Comparer
}

// Option configures a Harness.
type Option func(*Harness)

// WithLogSink sets the sink that receives Describe labels.
func WithLogSink(s Sink) Option {
	return func(h *Harness) { h.logSink = s }
}

// WithSuccessSink sets the sink that receives PASSED messages.
func WithSuccessSink(s Sink) Option {
	return func(h *Harness) { h.successSink = s }
}

// WithFailureSink sets the sink that receives FAILED and ERROR messages.
func WithFailureSink(s Sink) Option {
	return func(h *Harness) { h.failureSink = s }
}

// WithObserver registers a callback that sees every Outcome before its
// message is routed to a sink.
func WithObserver(fn func(Outcome)) Option {
	return func(h *Harness) { h.observers = append(h.observers, fn) }
}

// WithLogger sets the structured logger for diagnostics. Defaults to a
// logger that discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(h *Harness) { h.logger = logger }
}

// WithComparer sets the comparer used by (*Harness).Expect.
func WithComparer(c value.Comparer) Option {
	return func(h *Harness) { h.comparer = c }
}

// New creates a Harness. Without options, labels and PASSED messages go to
// stdout and FAILED/ERROR messages go to stderr.
func New(opts ...Option) *Harness {
	h := &Harness{
		logSink:     WriterSink(os.Stdout),
		successSink: WriterSink(os.Stdout),
		failureSink: WriterSink(os.Stderr),
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Describe logs description, then runs body. Panics raised by body are not
// recovered.
func (h *Harness) Describe(description string, body func()) {
	h.logger.Debug("entering group", "description", description)
	h.logSink(description)
	body()
	h.logger.Debug("leaving group", "description", description)
}

// Test runs body and sends exactly one message: PASSED to the success sink,
// FAILED or ERROR to the failure sink. Nothing body panics with escapes.
func (h *Harness) Test(name string, body func()) {
	outcome := h.Run(name, body)
	for _, observe := range h.observers {
		observe(outcome)
	}

	if outcome.Status == Passed {
		h.successSink(outcome.Message())
		return
	}
	h.failureSink(outcome.Message())
}

// Run executes body and classifies how it ended without sending anything to
// a sink.
func (h *Harness) Run(name string, body func()) Outcome {
	h.logger.Debug("running test", "test", name)
	outcome := Run(name, body)

	switch outcome.Status {
	case Passed:
		h.logger.Debug("test passed", "test", name)
	case Failed:
		h.logger.Info("test failed", "test", name, "file", outcome.Failure.File, "line", outcome.Failure.Line)
	case Errored:
		h.logger.Warn("test errored", "test", name, "error", outcome.Err)
	}
	return outcome
}

// Expect wraps got for comparison with the harness comparer.
func (h *Harness) Expect(got any) *Expectation {
	return &Expectation{got: value.Of(got), comparer: h.comparer}
}

// Run executes body and classifies how it ended.
func Run(name string, body func()) (outcome Outcome) {
	defer func() {
		outcome = classify(name, recover())
	}()

	body()
	return Outcome{}
}

// Describe logs description with a default Harness built from opts, then
// runs body.
func Describe(description string, body func(), opts ...Option) {
	New(opts...).Describe(description, body)
}

// Test runs body with a default Harness built from opts.
func Test(name string, body func(), opts ...Option) {
	New(opts...).Test(name, body)
}
