package harness

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gasunit/internal/testutil"
	"github.com/roach88/gasunit/pkg/value"
)

// sinks captures the two Test sinks separately.
type sinks struct {
	success []string
	failure []string
}

func (s *sinks) options() []Option {
	return []Option{
		WithSuccessSink(func(m string) { s.success = append(s.success, m) }),
		WithFailureSink(func(m string) { s.failure = append(s.failure, m) }),
	}
}

func TestTest_Passed(t *testing.T) {
	var s sinks
	Test("t1", func() { Expect(2 + 2).ToEqual(4) }, s.options()...)

	assert.Equal(t, []string{"PASSED\nTest:t1"}, s.success)
	assert.Empty(t, s.failure)
}

func TestTest_Failed(t *testing.T) {
	var s sinks
	Test("t2", func() { Expect(2 + 2).ToEqual(5) }, s.options()...)

	require.Len(t, s.failure, 1)
	assert.Empty(t, s.success)
	assert.True(t, strings.HasPrefix(s.failure[0], "FAILED\nTest:t2\nGot:4\nExpected:5"), s.failure[0])
}

func TestTest_Errored(t *testing.T) {
	var s sinks
	Test("t3", func() { panic(errors.New("boom")) }, s.options()...)

	require.Len(t, s.failure, 1)
	assert.Empty(t, s.success)
	assert.True(t, strings.HasPrefix(s.failure[0], "ERROR\nt3\n"), s.failure[0])
	assert.Contains(t, s.failure[0], "boom")
}

func TestTest_ErroredWithNonErrorPanic(t *testing.T) {
	var s sinks
	Test("t4", func() { panic("plain string") }, s.options()...)

	require.Len(t, s.failure, 1)
	assert.Equal(t, "ERROR\nt4\nplain string", s.failure[0])
}

func TestTest_RuntimeErrorIsErrored(t *testing.T) {
	var s sinks
	Test("index", func() {
		var items []int
		_ = items[3]
	}, s.options()...)

	require.Len(t, s.failure, 1)
	assert.True(t, strings.HasPrefix(s.failure[0], "ERROR\nindex\nruntime error: index out of range"), s.failure[0])
}

func TestTest_MustReportsError(t *testing.T) {
	var s sinks
	Test("must", func() {
		Must(nil)
		Must(errors.New("disk full"))
		Expect(1).ToEqual(2)
	}, s.options()...)

	require.Len(t, s.failure, 1)
	assert.Equal(t, "ERROR\nmust\ndisk full", s.failure[0])
}

func TestTest_FirstFailureShortCircuits(t *testing.T) {
	var s sinks
	reached := false
	Test("short", func() {
		Expect("a").ToEqual("b")
		reached = true
		panic("never")
	}, s.options()...)

	assert.False(t, reached)
	require.Len(t, s.failure, 1)
	assert.Equal(t, "FAILED\nTest:short\nGot:\"a\"\nExpected:\"b\"", s.failure[0])
}

func TestTest_ExactlyOneSinkCall(t *testing.T) {
	bodies := map[string]func(){
		"pass":  func() {},
		"fail":  func() { Expect(1).ToBeNull() },
		"error": func() { panic(errors.New("x")) },
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			var s sinks
			Test(name, body, s.options()...)
			assert.Equal(t, 1, len(s.success)+len(s.failure))
		})
	}
}

func TestTest_WrappedAssertionFailureIsFailed(t *testing.T) {
	outcome := Run("wrapped", func() {
		defer func() {
			if r := recover(); r != nil {
				panic(errors.Join(errors.New("context"), r.(error)))
			}
		}()
		Expect(1).ToEqual(2)
	})

	assert.Equal(t, Failed, outcome.Status)
	assert.Equal(t, "Got:1\nExpected:2", outcome.Detail)
}

func TestDescribe_LogsBeforeTests(t *testing.T) {
	rec := &Recorder{}
	h := New(rec.Options()...)

	h.Describe("group", func() {
		h.Test("a", func() {})
		h.Test("b", func() { h.Expect(1).ToEqual(2) })
	})

	require.Len(t, rec.Messages, 3)
	assert.Equal(t, "group", rec.Messages[0])
	assert.Equal(t, "PASSED\nTest:a", rec.Messages[1])
	assert.True(t, strings.HasPrefix(rec.Messages[2], "FAILED\nTest:b"))
	assert.Equal(t, 1, rec.Count(Passed))
	assert.Equal(t, 1, rec.Count(Failed))
}

func TestDescribe_PropagatesPanics(t *testing.T) {
	var logged []string
	assert.PanicsWithValue(t, "setup broke", func() {
		Describe("group", func() {
			panic("setup broke")
		}, WithLogSink(func(m string) { logged = append(logged, m) }))
	})
	assert.Equal(t, []string{"group"}, logged)
}

func TestDescribe_Nested(t *testing.T) {
	rec := &Recorder{}
	h := New(rec.Options()...)

	h.Describe("outer", func() {
		h.Describe("inner", func() {
			h.Test("leaf", func() {})
		})
	})

	assert.Equal(t, []string{"outer", "inner", "PASSED\nTest:leaf"}, rec.Messages)
}

func TestHarness_WithComparer(t *testing.T) {
	strict := New()
	nfc := New(WithComparer(value.NewComparer(value.WithNormalization())))

	body := func(h *Harness) func() {
		return func() { h.Expect("\u00e9").ToEqual("e\u0301") }
	}

	assert.Equal(t, Failed, strict.Run("strict", body(strict)).Status)
	assert.Equal(t, Passed, nfc.Run("nfc", body(nfc)).Status)
}

func TestHarness_WithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	rec := &Recorder{}
	h := New(append(rec.Options(), WithLogger(logger))...)

	h.Describe("logged", func() {
		h.Test("fails", func() { h.Expect(true).ToEqual(false) })
		h.Test("errors", func() { panic(errors.New("kaput")) })
	})

	out := buf.String()
	assert.Contains(t, out, "entering group")
	assert.Contains(t, out, "test failed")
	assert.Contains(t, out, "test errored")
	assert.Contains(t, out, "kaput")
}

func TestTee(t *testing.T) {
	var a, b []string
	sink := Tee(
		func(m string) { a = append(a, m) },
		func(m string) { b = append(b, m) },
	)
	sink("hello")

	assert.Equal(t, []string{"hello"}, a)
	assert.Equal(t, []string{"hello"}, b)
}

func TestWriterSink(t *testing.T) {
	var buf bytes.Buffer
	WriterSink(&buf)("PASSED\nTest:x")

	assert.Equal(t, "PASSED\nTest:x\n", buf.String())
}

func TestTranscriptGolden(t *testing.T) {
	rec := &Recorder{}
	h := New(rec.Options()...)

	h.Describe("arithmetic", func() {
		h.Test("t1", func() { h.Expect(2 + 2).ToEqual(4) })
		h.Test("t2", func() { h.Expect(2 + 2).ToEqual(5) })
		h.Test("t3", func() { panic(errors.New("boom")) })
		h.Test("mapping", func() {
			h.Expect(map[string]any{"b": []int{1, 2}, "a": nil}).
				ToEqual(map[string]any{"a": nil, "b": []int{2, 1}})
		})
		h.Test("undefined", func() { h.Expect(value.Undefined{}).ToBeNull() })
	})

	testutil.AssertGolden(t, "transcript", []byte(rec.Transcript()))
}
