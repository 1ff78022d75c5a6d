package value

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ParseJSON decodes a single JSON document into a Value. Object key order is
// preserved, so the result's literal encoding round-trips the input layout.
func ParseJSON(data []byte) (Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("parse JSON: empty document")
	}
	dec := json.NewDecoder(bytes.NewReader(data))

	v, err := decodeJSON(dec, 0)
	if err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, fmt.Errorf("parse JSON: %w", err)
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse JSON: unexpected data after top-level value")
	}
	return v, nil
}

func decodeJSON(dec *json.Decoder, depth int) (Value, error) {
	if depth > MaxDepth {
		return nil, fmt.Errorf("nesting exceeds %d levels", MaxDepth)
	}

	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case nil:
		return Null{}, nil
	case bool:
		return Bool(t), nil
	case float64:
		return Number(t), nil
	case string:
		return String(t), nil
	case json.Delim:
		switch t {
		case '[':
			seq := Sequence{}
			for dec.More() {
				elem, err := decodeJSON(dec, depth+1)
				if err != nil {
					return nil, fmt.Errorf("[%d]: %w", len(seq), err)
				}
				seq = append(seq, elem)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return seq, nil
		case '{':
			m := NewMapping()
			for dec.More() {
				keyTok, err := dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("object key is %T, not string", keyTok)
				}
				elem, err := decodeJSON(dec, depth+1)
				if err != nil {
					return nil, fmt.Errorf("[%q]: %w", key, err)
				}
				m.Set(key, elem)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return m, nil
		}
	}
	return nil, fmt.Errorf("unexpected JSON token %v", tok)
}
