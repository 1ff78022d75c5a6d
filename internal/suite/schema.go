package suite

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/roach88/gasunit/pkg/value"
)

//go:embed suite.schema.json
var schemaJSON []byte

const schemaURL = "suite.schema.json"

var (
	suiteSchema *jsonschema.Schema
	compileOnce sync.Once
	compileErr  error
)

// compileSchema compiles the embedded suite schema once.
func compileSchema() error {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("unmarshal suite schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add suite schema resource: %w", err)
			return
		}

		suiteSchema, err = compiler.Compile(schemaURL)
		if err != nil {
			compileErr = fmt.Errorf("compile suite schema: %w", err)
			return
		}
	})

	return compileErr
}

// validateDocument checks a decoded suite document against the schema.
// Undefined mapping values are dropped before validation, as they would be
// by a JSON encoder.
func validateDocument(path string, doc value.Value) error {
	if err := compileSchema(); err != nil {
		return err
	}

	if err := suiteSchema.Validate(value.Plain(doc)); err != nil {
		return &LoadError{Code: ErrCodeSchema, Path: path, Message: fmt.Sprintf("suite validation failed: %v", err)}
	}
	return nil
}
