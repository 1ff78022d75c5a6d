package harness

import "strings"

// Recorder captures what a Harness emits, in emission order.
type Recorder struct {
	// Messages holds every sink message: group labels and test messages.
	Messages []string

	// Outcomes holds every test outcome.
	Outcomes []Outcome
}

// Sink returns a Sink that appends to r.Messages.
func (r *Recorder) Sink() Sink {
	return func(message string) {
		r.Messages = append(r.Messages, message)
	}
}

// Observe appends an outcome. It has the shape WithObserver expects.
func (r *Recorder) Observe(o Outcome) {
	r.Outcomes = append(r.Outcomes, o)
}

// Options routes every sink and outcome of a Harness into r.
func (r *Recorder) Options() []Option {
	sink := r.Sink()
	return []Option{
		WithLogSink(sink),
		WithSuccessSink(sink),
		WithFailureSink(sink),
		WithObserver(r.Observe),
	}
}

// Count returns how many outcomes have the given status.
func (r *Recorder) Count(status Status) int {
	n := 0
	for _, o := range r.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}

// Transcript joins the recorded messages, one per line.
func (r *Recorder) Transcript() string {
	if len(r.Messages) == 0 {
		return ""
	}
	return strings.Join(r.Messages, "\n") + "\n"
}
