package suite

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/roach88/gasunit/pkg/value"
)

// YAML tags understood on top of the core schema.
const (
	tagUndefined = "!undefined"
	tagMap       = "!map"
)

// parseYAML decodes the first YAML document in data. Node positions are
// reported through *LoadError.
func parseYAML(path string, data []byte) (value.Value, error) {
	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Code: ErrCodeParse, Path: path, Message: "empty document"}
		}
		return nil, &LoadError{Code: ErrCodeParse, Path: path, Message: fmt.Sprintf("parse YAML: %v", err)}
	}

	c := yamlConverter{path: path}
	return c.convert(&doc, 0)
}

type yamlConverter struct {
	path string
}

func (c yamlConverter) errorf(n *yaml.Node, code, format string, args ...any) error {
	return &LoadError{
		Code:    code,
		Path:    c.path,
		Line:    n.Line,
		Column:  n.Column,
		Message: fmt.Sprintf(format, args...),
	}
}

func (c yamlConverter) convert(n *yaml.Node, depth int) (value.Value, error) {
	if depth > value.MaxDepth {
		return nil, c.errorf(n, ErrCodeUnsupported, "nesting exceeds %d levels", value.MaxDepth)
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return value.Undefined{}, nil
		}
		return c.convert(n.Content[0], depth)
	case yaml.AliasNode:
		return c.convert(n.Alias, depth+1)
	case yaml.ScalarNode:
		return c.scalar(n)
	case yaml.SequenceNode:
		switch n.ShortTag() {
		case tagMap:
			return c.associative(n, depth)
		case "!!seq":
		default:
			return nil, c.errorf(n, ErrCodeUnsupported, "unsupported tag %s", n.Tag)
		}
		seq := make(value.Sequence, 0, len(n.Content))
		for _, item := range n.Content {
			elem, err := c.convert(item, depth+1)
			if err != nil {
				return nil, err
			}
			seq = append(seq, elem)
		}
		return seq, nil
	case yaml.MappingNode:
		if n.ShortTag() != "!!map" {
			return nil, c.errorf(n, ErrCodeUnsupported, "unsupported tag %s", n.Tag)
		}
		m := value.NewMapping()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return nil, c.errorf(key, ErrCodeUnsupported, "mapping keys must be scalars")
			}
			if key.ShortTag() == "!!merge" {
				return nil, c.errorf(key, ErrCodeUnsupported, "merge keys are not supported")
			}
			elem, err := c.convert(val, depth+1)
			if err != nil {
				return nil, err
			}
			m.Set(key.Value, elem)
		}
		return m, nil
	}
	return nil, c.errorf(n, ErrCodeUnsupported, "unexpected YAML node kind %d", n.Kind)
}

func (c yamlConverter) scalar(n *yaml.Node) (value.Value, error) {
	switch n.ShortTag() {
	case tagUndefined:
		return value.Undefined{}, nil
	case "!!null":
		return value.Null{}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, c.errorf(n, ErrCodeParse, "%v", err)
		}
		return value.Bool(b), nil
	case "!!int", "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, c.errorf(n, ErrCodeParse, "%v", err)
		}
		return value.Number(f), nil
	case "!!str":
		return value.String(n.Value), nil
	}
	return nil, c.errorf(n, ErrCodeUnsupported, "unsupported tag %s", n.Tag)
}

// associative builds an AssociativeMap from a sequence of [key, value] pairs.
func (c yamlConverter) associative(n *yaml.Node, depth int) (value.Value, error) {
	m := value.NewAssociativeMap()
	for _, pair := range n.Content {
		if pair.Kind != yaml.SequenceNode || len(pair.Content) != 2 {
			return nil, c.errorf(pair, ErrCodeUnsupported, "%s entries must be [key, value] pairs", tagMap)
		}
		key, err := c.convert(pair.Content[0], depth+1)
		if err != nil {
			return nil, err
		}
		val, err := c.convert(pair.Content[1], depth+1)
		if err != nil {
			return nil, err
		}
		m.Set(key, val)
	}
	return m, nil
}
