package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutputFormatter_JSONSuccess(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Success(map[string]string{"canonical": "<[1]>"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Nil(t, resp.Error)
	// HTML characters are not escaped.
	assert.Contains(t, buf.String(), `"<[1]>"`)
}

func TestOutputFormatter_JSONError(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "json", Writer: buf}

	require.NoError(t, formatter.Error("S003", "parse failed", []string{"a.yaml:1:1"}))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "error", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "S003", resp.Error.Code)
	assert.Equal(t, "parse failed", resp.Error.Message)
	assert.NotNil(t, resp.Error.Details)
}

func TestOutputFormatter_TextError(t *testing.T) {
	tests := []struct {
		name        string
		verbose     bool
		wantDetails bool
	}{
		{"quiet", false, false},
		{"verbose", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "text", Writer: buf, Verbose: tt.verbose}

			require.NoError(t, formatter.Error("E002", "not JSON", "line 1"))
			assert.Contains(t, buf.String(), "Error [E002]: not JSON")
			if tt.wantDetails {
				assert.Contains(t, buf.String(), "Details: line 1")
			} else {
				assert.NotContains(t, buf.String(), "Details:")
			}
		})
	}
}

func TestOutputFormatter_Fail(t *testing.T) {
	buf := &bytes.Buffer{}
	formatter := &OutputFormatter{Format: "text", Writer: buf}
	cause := errors.New("disk I/O error")

	exitErr := formatter.Fail(ExitCommandError, ErrCodeDatabase, "failed to open database", cause)

	assert.Equal(t, ExitCommandError, exitErr.Code)
	assert.True(t, exitErr.Reported)
	assert.ErrorIs(t, exitErr, cause)
	assert.Equal(t, "Error [E003]: failed to open database: disk I/O error\n", buf.String())
}

func TestOutputFormatter_VerboseLog(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		wantLog bool
	}{
		{"verbose_enabled", true, true},
		{"verbose_disabled", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			diag := &bytes.Buffer{}
			formatter := &OutputFormatter{Format: "json", Writer: out, ErrWriter: diag, Verbose: tt.verbose}

			formatter.VerboseLog("Validated %s", "a.yaml")

			assert.Empty(t, out.String())
			if tt.wantLog {
				assert.Equal(t, "Validated a.yaml\n", diag.String())
			} else {
				assert.Empty(t, diag.String())
			}
		})
	}
}

func TestOutputFormatter_Logger(t *testing.T) {
	diag := &bytes.Buffer{}

	quiet := &OutputFormatter{Writer: &bytes.Buffer{}, ErrWriter: diag}
	quiet.Logger().Info("hidden")
	assert.Empty(t, diag.String())

	verbose := &OutputFormatter{Writer: &bytes.Buffer{}, ErrWriter: diag, Verbose: true}
	verbose.Logger().Debug("shown", "suite", "basic")
	assert.Contains(t, diag.String(), "msg=shown")
	assert.Contains(t, diag.String(), "suite=basic")
}

func TestGetExitCode(t *testing.T) {
	assert.Equal(t, ExitCommandError, GetExitCode(NewExitError(ExitCommandError, "bad")))
	assert.Equal(t, ExitFailure, GetExitCode(errors.New("plain")))

	wrapped := fmt.Errorf("outer: %w", NewExitError(ExitSuccess, "odd"))
	assert.Equal(t, ExitSuccess, GetExitCode(wrapped))
}

func TestExitError_Error(t *testing.T) {
	assert.Equal(t, "values differ", NewExitError(ExitFailure, "values differ").Error())
	assert.Equal(t, "open: boom", WrapExitError(ExitCommandError, "open", errors.New("boom")).Error())
}
