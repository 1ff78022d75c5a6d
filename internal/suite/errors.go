package suite

import "fmt"

// Error codes for suite loading failures.
const (
	ErrCodeRead        = "S001" // File could not be read
	ErrCodeFormat      = "S002" // Unsupported file extension
	ErrCodeParse       = "S003" // Malformed YAML, JSON or CUE
	ErrCodeSchema      = "S004" // Document does not match the suite schema
	ErrCodeDecode      = "S005" // Schema-valid document with unusable content
	ErrCodeNoFiles     = "S006" // Directory holds no suite files
	ErrCodeUnsupported = "S007" // Value the harness cannot represent
)

// LoadError reports why a suite file could not be loaded.
type LoadError struct {
	Code    string
	Path    string
	Line    int // 1-based; 0 when unknown
	Column  int
	Message string
}

func (e *LoadError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Path, e.Line, e.Column, e.Code, e.Message)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %s: %s", e.Path, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
