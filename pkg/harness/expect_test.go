package harness

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gasunit/pkg/value"
)

// failureOf runs fn and returns the *AssertionFailure it panicked with, or
// nil when it returned normally.
func failureOf(t *testing.T, fn func()) (failure *AssertionFailure) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		var ok bool
		failure, ok = r.(*AssertionFailure)
		require.True(t, ok, "unexpected panic value %T: %v", r, r)
	}()
	fn()
	return nil
}

func TestExpect_ToEqual(t *testing.T) {
	tests := []struct {
		name     string
		got      any
		expected any
		pass     bool
	}{
		{"equal ints", 4, 4, true},
		{"different ints", 4, 5, false},
		{"int and float", 1, 1.0, true},
		{"string and number", "1", 1, false},
		{"key order ignored", map[string]any{"a": 1, "b": 2}, map[string]any{"b": 2, "a": 1}, true},
		{"sequence order matters", []int{1, 2}, []int{2, 1}, false},
		{"nested", map[string]any{"a": []any{1, map[string]any{"b": "c"}}}, map[string]any{"a": []any{1, map[string]any{"b": "c"}}}, true},
		{"null vs undefined", nil, value.Undefined{}, false},
		{"nan equals nan", math.NaN(), math.NaN(), true},
		{"nan is not null", math.NaN(), nil, false},
		{"nan inside sequence is not null", []any{math.NaN()}, []any{nil}, false},
		{"nan inside sequence matches infinity", []any{math.NaN()}, []any{math.Inf(1)}, true},
		{"empty sequence", []int{}, []string{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			failure := failureOf(t, func() { Expect(tt.got).ToEqual(tt.expected) })
			if tt.pass {
				assert.Nil(t, failure)
				return
			}
			require.NotNil(t, failure)
			assert.True(t, value.Equal(failure.Got, value.Of(tt.got)))
			assert.True(t, value.Equal(failure.Expected, value.Of(tt.expected)))
		})
	}
}

func TestExpect_ToBeNull(t *testing.T) {
	assert.Nil(t, failureOf(t, func() { Expect(nil).ToBeNull() }))

	var p *int
	assert.Nil(t, failureOf(t, func() { Expect(p).ToBeNull() }))

	failure := failureOf(t, func() { Expect(value.Undefined{}).ToBeNull() })
	require.NotNil(t, failure)
	assert.Equal(t, "Got:undefined\nExpected:null", failure.Detail())

	require.NotNil(t, failureOf(t, func() { Expect(0).ToBeNull() }))
	require.NotNil(t, failureOf(t, func() { Expect("").ToBeNull() }))
}

func TestExpect_ToBeUndefined(t *testing.T) {
	assert.Nil(t, failureOf(t, func() { Expect(value.Undefined{}).ToBeUndefined() }))

	failure := failureOf(t, func() { Expect(nil).ToBeUndefined() })
	require.NotNil(t, failure)
	assert.Equal(t, "Got:null\nExpected:undefined", failure.Detail())
}

func TestExpect_RecordsCallSite(t *testing.T) {
	failure := failureOf(t, func() { Expect(1).ToEqual(2) })

	require.NotNil(t, failure)
	assert.Contains(t, failure.File, "expect_test.go")
	assert.Positive(t, failure.Line)
}

func TestAssertionFailure_Error(t *testing.T) {
	failure := &AssertionFailure{Got: value.Of([]int{1}), Expected: value.Of(map[string]int{"a": 1})}

	assert.Equal(t, "assertion failed: Got:[1]\nExpected:{\"a\":1}", failure.Error())

	var target *AssertionFailure
	wrapped := errors.Join(errors.New("outer"), failure)
	assert.ErrorAs(t, wrapped, &target)
}

func TestMust(t *testing.T) {
	assert.NotPanics(t, func() { Must(nil) })

	err := errors.New("bad")
	assert.PanicsWithError(t, "bad", func() { Must(err) })
}
