package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/gasunit/internal/suite"
)

// LoadMode controls how errors are handled during suite loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first path that fails to load.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadSuites loads suite files and directories in argument order.
// Directories are walked recursively; filter applies to files found in
// directories, not to files named explicitly.
func LoadSuites(paths []string, filter string, mode LoadMode) ([]*suite.Suite, []error) {
	var (
		suites []*suite.Suite
		errs   []error
	)

	for _, path := range paths {
		loaded, err := loadPath(path, filter)
		suites = append(suites, loaded...)
		if err == nil {
			continue
		}

		errs = append(errs, flattenErrors(err)...)
		if mode == LoadModeFailFast {
			return suites, errs
		}
	}

	return suites, errs
}

func loadPath(path, filter string) ([]*suite.Suite, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &suite.LoadError{Code: ErrCodeNotFound, Path: path, Message: "path not found"}
	}
	if err != nil {
		return nil, &suite.LoadError{Code: suite.ErrCodeRead, Path: path, Message: err.Error()}
	}

	if info.IsDir() {
		return suite.LoadDir(path, filter)
	}

	s, err := suite.Load(path)
	if err != nil {
		return nil, err
	}
	return []*suite.Suite{s}, nil
}

// flattenErrors unpacks errors.Join results so each load error is reported
// on its own.
func flattenErrors(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flattenErrors(e)...)
		}
		return out
	}
	return []error{err}
}

// errorCode returns the load error code carried by err, or ErrCodeGeneric.
func errorCode(err error) string {
	var loadErr *suite.LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code
	}
	return ErrCodeGeneric
}

// LoadIssue is a load error in JSON output.
type LoadIssue struct {
	Code    string `json:"code"`
	Path    string `json:"path,omitempty"`
	Line    int    `json:"line,omitempty"`
	Column  int    `json:"column,omitempty"`
	Message string `json:"message"`
}

func newLoadIssue(err error) LoadIssue {
	var loadErr *suite.LoadError
	if errors.As(err, &loadErr) {
		return LoadIssue{
			Code:    loadErr.Code,
			Path:    loadErr.Path,
			Line:    loadErr.Line,
			Column:  loadErr.Column,
			Message: loadErr.Message,
		}
	}
	return LoadIssue{Code: ErrCodeGeneric, Message: fmt.Sprint(err)}
}
