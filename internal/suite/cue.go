package suite

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/gasunit/pkg/value"
)

// parseCUE compiles data as a single CUE file and converts its concrete
// value. Regular fields are walked in declaration order; definitions, hidden
// and optional fields are skipped.
func parseCUE(path string, data []byte) (value.Value, error) {
	ctx := cuecontext.New()
	v := ctx.CompileBytes(data, cue.Filename(path))
	if err := v.Err(); err != nil {
		return nil, formatCUEError(path, err)
	}
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(path, err)
	}
	return convertCUE(path, v, 0)
}

func convertCUE(path string, v cue.Value, depth int) (value.Value, error) {
	if depth > value.MaxDepth {
		return nil, cueError(path, ErrCodeUnsupported, v.Pos(), fmt.Sprintf("nesting exceeds %d levels", value.MaxDepth))
	}

	switch v.Kind() {
	case cue.NullKind:
		return value.Null{}, nil
	case cue.BoolKind:
		b, err := v.Bool()
		if err != nil {
			return nil, formatCUEError(path, err)
		}
		return value.Bool(b), nil
	case cue.IntKind, cue.FloatKind:
		f, err := v.Float64()
		if err != nil {
			return nil, formatCUEError(path, err)
		}
		return value.Number(f), nil
	case cue.StringKind:
		s, err := v.String()
		if err != nil {
			return nil, formatCUEError(path, err)
		}
		return value.String(s), nil
	case cue.ListKind:
		iter, err := v.List()
		if err != nil {
			return nil, formatCUEError(path, err)
		}
		seq := value.Sequence{}
		for iter.Next() {
			elem, err := convertCUE(path, iter.Value(), depth+1)
			if err != nil {
				return nil, err
			}
			seq = append(seq, elem)
		}
		return seq, nil
	case cue.StructKind:
		iter, err := v.Fields()
		if err != nil {
			return nil, formatCUEError(path, err)
		}
		m := value.NewMapping()
		for iter.Next() {
			elem, err := convertCUE(path, iter.Value(), depth+1)
			if err != nil {
				return nil, err
			}
			m.Set(iter.Selector().Unquoted(), elem)
		}
		return m, nil
	}
	return nil, cueError(path, ErrCodeUnsupported, v.Pos(), fmt.Sprintf("unsupported CUE kind %s", v.Kind()))
}

func cueError(path, code string, pos token.Pos, message string) *LoadError {
	e := &LoadError{Code: code, Path: path, Message: message}
	if pos.IsValid() {
		e.Line = pos.Line()
		e.Column = pos.Column()
	}
	return e
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(path string, err error) error {
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return &LoadError{Code: ErrCodeParse, Path: path, Message: err.Error()}
	}

	first := errs[0]
	var pos token.Pos
	if positions := errors.Positions(first); len(positions) > 0 {
		pos = positions[0]
	}
	return cueError(path, ErrCodeParse, pos, first.Error())
}
