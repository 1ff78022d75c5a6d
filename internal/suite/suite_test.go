package suite

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/gasunit/internal/testutil"
	"github.com/roach88/gasunit/pkg/harness"
	"github.com/roach88/gasunit/pkg/value"
)

func runSuite(t *testing.T, s *Suite) *harness.Recorder {
	t.Helper()
	rec := &harness.Recorder{}
	s.Run(harness.New(rec.Options()...))
	return rec
}

func TestLoad_Basic(t *testing.T) {
	s, err := Load("testdata/basic.yaml")
	require.NoError(t, err)

	assert.Equal(t, "basic", s.Name)
	assert.Equal(t, "equality and nullish checks", s.Description)
	assert.Equal(t, "testdata/basic.yaml", s.Path)
	require.Len(t, s.Groups, 2)
	assert.Equal(t, "equality", s.Groups[0].Describe)
	assert.Equal(t, 8, s.Len())

	missing := s.Groups[1].Tests[1]
	assert.Equal(t, "missing", missing.Name)
	assert.Equal(t, AssertUndefined, missing.Assert)
	assert.Equal(t, value.KindUndefined, missing.Got.Kind())

	numbers := s.Groups[0].Tests[0]
	assert.Equal(t, AssertEqual, numbers.Assert)
	assert.Equal(t, value.Number(4), numbers.Got)
}

func TestRun_Golden(t *testing.T) {
	for _, name := range []string{"basic.yaml", "basic.json", "basic.cue"} {
		t.Run(name, func(t *testing.T) {
			s, err := Load(filepath.Join("testdata", name))
			require.NoError(t, err)

			rec := runSuite(t, s)
			testutil.AssertGolden(t, "basic", []byte(rec.Transcript()))
			assert.Equal(t, 4, rec.Count(harness.Passed))
			assert.Equal(t, 3, rec.Count(harness.Failed))
			assert.Equal(t, 1, rec.Count(harness.Errored))
		})
	}
}

func TestRun_YAMLTags(t *testing.T) {
	s, err := Load("testdata/tags.yml")
	require.NoError(t, err)

	rec := runSuite(t, s)
	testutil.AssertGolden(t, "tags", []byte(rec.Transcript()))
}

func TestParse_KeepsLiteralKeyOrder(t *testing.T) {
	inputs := map[string]string{
		"s.yaml": "name: x\ngroups:\n  - describe: g\n    tests:\n      - name: t\n        got: {z: 1, a: 2}\n",
		"s.json": `{"name":"x","groups":[{"describe":"g","tests":[{"name":"t","got":{"z":1,"a":2}}]}]}`,
		"s.cue":  "name: \"x\"\ngroups: [{describe: \"g\", tests: [{name: \"t\", got: {z: 1, a: 2}}]}]\n",
	}

	for path, data := range inputs {
		t.Run(path, func(t *testing.T) {
			s, err := Parse(path, []byte(data))
			require.NoError(t, err)
			assert.Equal(t, `{"z":1,"a":2}`, value.Literal(s.Groups[0].Tests[0].Got))
		})
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		path string
		code string
	}{
		{"testdata/invalid/missing_name.yaml", ErrCodeSchema},
		{"testdata/invalid/unknown_field.json", ErrCodeSchema},
		{"testdata/invalid/bad_assert.yaml", ErrCodeSchema},
		{"testdata/invalid/unknown_tag.yaml", ErrCodeUnsupported},
		{"testdata/invalid/expected_with_null.yaml", ErrCodeDecode},
		{"testdata/invalid/broken.cue", ErrCodeParse},
		{"testdata/invalid/malformed.json", ErrCodeParse},
		{"testdata/invalid/absent.yaml", ErrCodeRead},
		{"testdata/golden/basic.golden", ErrCodeFormat},
	}

	for _, tt := range tests {
		t.Run(filepath.Base(tt.path), func(t *testing.T) {
			_, err := Load(tt.path)
			require.Error(t, err)

			var loadErr *LoadError
			require.True(t, errors.As(err, &loadErr), "want *LoadError, got %T: %v", err, err)
			assert.Equal(t, tt.code, loadErr.Code, loadErr.Error())
			assert.Equal(t, tt.path, loadErr.Path)
		})
	}
}

func TestLoad_ErrorPositions(t *testing.T) {
	_, err := Load("testdata/invalid/unknown_tag.yaml")

	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, 6, loadErr.Line)
	assert.Contains(t, loadErr.Error(), "testdata/invalid/unknown_tag.yaml:6:")

	_, err = Load("testdata/invalid/broken.cue")
	require.ErrorAs(t, err, &loadErr)
	assert.Positive(t, loadErr.Line)
}

func TestParse_Empty(t *testing.T) {
	for _, path := range []string{"e.yaml", "e.json", "e.cue"} {
		t.Run(path, func(t *testing.T) {
			_, err := Parse(path, []byte("  \n"))
			require.Error(t, err)
		})
	}
}

func TestLoadDir(t *testing.T) {
	suites, err := LoadDir("testdata", "basic.*")
	require.NoError(t, err)
	require.Len(t, suites, 3)

	var paths []string
	for _, s := range suites {
		paths = append(paths, filepath.Base(s.Path))
	}
	assert.Equal(t, []string{"basic.cue", "basic.json", "basic.yaml"}, paths)
}

func TestLoadDir_CollectsErrors(t *testing.T) {
	suites, err := LoadDir("testdata", "")
	require.Error(t, err)

	// Every valid suite still loads.
	assert.Len(t, suites, 4)

	var loadErr *LoadError
	assert.ErrorAs(t, err, &loadErr)
}

func TestLoadDir_NoFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("hi"), 0o644))

	_, err := LoadDir(dir, "")
	var loadErr *LoadError
	require.ErrorAs(t, err, &loadErr)
	assert.Equal(t, ErrCodeNoFiles, loadErr.Code)
}

func TestLoadDir_InvalidFilter(t *testing.T) {
	_, err := LoadDir("testdata", "[")
	assert.Error(t, err)
}

func TestLoadError_Error(t *testing.T) {
	assert.Equal(t, "a.yaml:3:7: S003: bad", (&LoadError{Code: ErrCodeParse, Path: "a.yaml", Line: 3, Column: 7, Message: "bad"}).Error())
	assert.Equal(t, "a.yaml: S004: bad", (&LoadError{Code: ErrCodeSchema, Path: "a.yaml", Message: "bad"}).Error())
	assert.Equal(t, "S006: bad", (&LoadError{Code: ErrCodeNoFiles, Message: "bad"}).Error())
}
