package suite

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/roach88/gasunit/pkg/harness"
	"github.com/roach88/gasunit/pkg/value"
)

// Assert selects which expectation a case runs.
type Assert string

// Assert values. An omitted assert means AssertEqual.
const (
	AssertEqual     Assert = "equal"
	AssertNull      Assert = "null"
	AssertUndefined Assert = "undefined"
)

// Suite is a loaded suite file.
type Suite struct {
	Name        string
	Description string
	Path        string
	Groups      []Group
}

// Group is one describe block.
type Group struct {
	Describe string
	Tests    []Case
}

// Case is one data-driven test.
type Case struct {
	Name string

	// Got and Expected are never nil; an omitted value is value.Undefined.
	Got      value.Value
	Expected value.Value

	Assert Assert

	// Raise, when set, makes the body fail with this error text before any
	// expectation runs.
	Raise string
}

// Len returns the number of cases across all groups.
func (s *Suite) Len() int {
	n := 0
	for _, g := range s.Groups {
		n += len(g.Tests)
	}
	return n
}

// Run executes every group with h.Describe and every case with h.Test, in
// file order.
func (s *Suite) Run(h *harness.Harness) {
	for _, g := range s.Groups {
		h.Describe(g.Describe, func() {
			for _, c := range g.Tests {
				h.Test(c.Name, c.body(h))
			}
		})
	}
}

func (c Case) body(h *harness.Harness) func() {
	return func() {
		if c.Raise != "" {
			panic(errors.New(c.Raise))
		}

		e := h.Expect(c.Got)
		switch c.Assert {
		case AssertNull:
			e.ToBeNull()
		case AssertUndefined:
			e.ToBeUndefined()
		default:
			e.ToEqual(c.Expected)
		}
	}
}

// Extensions lists the file extensions Load understands.
var Extensions = []string{".yaml", ".yml", ".json", ".cue"}

// Supported reports whether path has a suite file extension.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Load reads and decodes the suite file at path. Failures are *LoadError.
func Load(path string) (*Suite, error) {
	if !Supported(path) {
		return nil, &LoadError{Code: ErrCodeFormat, Path: path, Message: fmt.Sprintf("unsupported suite extension %q", filepath.Ext(path))}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeRead, Path: path, Message: err.Error()}
	}
	return Parse(path, data)
}

// Parse decodes suite data. The format is taken from the extension of path,
// which is also used in error messages.
func Parse(path string, data []byte) (*Suite, error) {
	var (
		doc value.Value
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		doc, err = parseYAML(path, data)
	case ".json":
		doc, err = value.ParseJSON(data)
		if err != nil {
			err = &LoadError{Code: ErrCodeParse, Path: path, Message: err.Error()}
		}
	case ".cue":
		doc, err = parseCUE(path, data)
	default:
		err = &LoadError{Code: ErrCodeFormat, Path: path, Message: fmt.Sprintf("unsupported suite extension %q", filepath.Ext(path))}
	}
	if err != nil {
		return nil, err
	}

	if err := validateDocument(path, doc); err != nil {
		return nil, err
	}
	return decodeSuite(path, doc)
}

// LoadDir loads every suite file under dir, walking subdirectories in
// lexical order. A non-empty filter is a filepath.Match pattern applied to
// base names. Suites that load are returned alongside the joined errors of
// those that do not.
func LoadDir(dir, filter string) ([]*Suite, error) {
	if filter != "" {
		if _, err := filepath.Match(filter, ""); err != nil {
			return nil, fmt.Errorf("invalid filter %q: %w", filter, err)
		}
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !Supported(path) {
			return nil
		}
		if filter != "" {
			if ok, _ := filepath.Match(filter, d.Name()); !ok {
				return nil
			}
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, &LoadError{Code: ErrCodeRead, Path: dir, Message: err.Error()}
	}
	if len(paths) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Path: dir, Message: "no suite files found"}
	}

	var (
		suites []*Suite
		errs   []error
	)
	for _, path := range paths {
		s, err := Load(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		suites = append(suites, s)
	}
	return suites, errors.Join(errs...)
}

// decodeSuite maps a schema-valid document onto Suite.
func decodeSuite(path string, doc value.Value) (*Suite, error) {
	root, ok := doc.(*value.Mapping)
	if !ok {
		return nil, decodeErr(path, "suite must be a mapping")
	}

	s := &Suite{
		Name:        stringField(root, "name"),
		Description: stringField(root, "description"),
		Path:        path,
	}

	groups, _ := root.Get("groups")
	for gi, gv := range asSequence(groups) {
		gm, ok := gv.(*value.Mapping)
		if !ok {
			return nil, decodeErr(path, fmt.Sprintf("groups[%d]: must be a mapping", gi))
		}
		g := Group{Describe: stringField(gm, "describe")}

		tests, _ := gm.Get("tests")
		for ti, tv := range asSequence(tests) {
			tm, ok := tv.(*value.Mapping)
			if !ok {
				return nil, decodeErr(path, fmt.Sprintf("groups[%d].tests[%d]: must be a mapping", gi, ti))
			}
			c, err := decodeCase(tm)
			if err != nil {
				return nil, decodeErr(path, fmt.Sprintf("groups[%d].tests[%d]: %v", gi, ti, err))
			}
			g.Tests = append(g.Tests, c)
		}
		s.Groups = append(s.Groups, g)
	}
	return s, nil
}

func decodeCase(m *value.Mapping) (Case, error) {
	c := Case{
		Name:     stringField(m, "name"),
		Got:      field(m, "got"),
		Expected: field(m, "expected"),
		Assert:   Assert(stringField(m, "assert")),
		Raise:    stringField(m, "raise"),
	}
	if c.Assert == "" {
		c.Assert = AssertEqual
	}

	if _, ok := m.Get("expected"); ok && c.Assert != AssertEqual {
		return Case{}, fmt.Errorf("expected is only used with assert %q", AssertEqual)
	}
	return c, nil
}

func decodeErr(path, message string) *LoadError {
	return &LoadError{Code: ErrCodeDecode, Path: path, Message: message}
}

// field returns the value stored under key, or Undefined when absent.
func field(m *value.Mapping, key string) value.Value {
	v, ok := m.Get(key)
	if !ok || v == nil {
		return value.Undefined{}
	}
	return v
}

func stringField(m *value.Mapping, key string) string {
	s, _ := field(m, key).(value.String)
	return string(s)
}

func asSequence(v value.Value) value.Sequence {
	seq, _ := v.(value.Sequence)
	return seq
}
