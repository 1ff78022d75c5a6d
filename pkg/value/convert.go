package value

import (
	"fmt"
	"reflect"
	"slices"
	"strings"
)

// MaxDepth bounds how deeply Of descends into nested Go data.
const MaxDepth = 1000

// DepthError reports Go data nested deeper than MaxDepth, which in practice
// means a cycle.
type DepthError struct {
	Type reflect.Type
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("value nesting exceeds %d levels at %v: cyclic data is not supported", MaxDepth, e.Type)
}

var valueType = reflect.TypeOf((*Value)(nil)).Elem()

// Of converts Go data to a Value.
//
//   - nil and nil pointers, slices, maps and interfaces become Null
//   - bool, every integer and float kind, and string map to their primitives
//   - slices and arrays become Sequence
//   - maps with string keys become *Mapping with keys in UTF-16 order
//   - maps with other keys become *AssociativeMap
//   - structs become *Mapping in field order, honouring json tag names
//   - functions, channels and complex numbers become Undefined
//
// Values are returned unchanged. Of panics with *DepthError when nesting
// exceeds MaxDepth.
func Of(v any) Value {
	if v == nil {
		return Null{}
	}
	if val, ok := v.(Value); ok {
		return val
	}
	return convert(reflect.ValueOf(v), 0)
}

func convert(rv reflect.Value, depth int) Value {
	if !rv.IsValid() {
		return Null{}
	}
	if depth > MaxDepth {
		panic(&DepthError{Type: rv.Type()})
	}

	switch rv.Kind() {
	case reflect.Interface, reflect.Pointer:
		if rv.IsNil() {
			return Null{}
		}
	}
	if rv.Type().Implements(valueType) && rv.CanInterface() {
		return rv.Interface().(Value)
	}

	switch rv.Kind() {
	case reflect.Interface, reflect.Pointer:
		return convert(rv.Elem(), depth+1)
	case reflect.Bool:
		return Bool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Number(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float())
	case reflect.String:
		return String(rv.String())
	case reflect.Slice:
		if rv.IsNil() {
			return Null{}
		}
		return convertList(rv, depth)
	case reflect.Array:
		return convertList(rv, depth)
	case reflect.Map:
		if rv.IsNil() {
			return Null{}
		}
		if rv.Type().Key().Kind() == reflect.String {
			return convertStringMap(rv, depth)
		}
		return convertAnyMap(rv, depth)
	case reflect.Struct:
		return convertStruct(rv, depth)
	default:
		// func, chan, complex, unsafe pointer
		return Undefined{}
	}
}

func convertList(rv reflect.Value, depth int) Sequence {
	seq := make(Sequence, rv.Len())
	for i := range seq {
		seq[i] = convert(rv.Index(i), depth+1)
	}
	return seq
}

func convertStringMap(rv reflect.Value, depth int) *Mapping {
	keys := rv.MapKeys()
	slices.SortFunc(keys, func(a, b reflect.Value) int {
		return compareUTF16(a.String(), b.String())
	})

	m := NewMapping()
	for _, k := range keys {
		m.Set(k.String(), convert(rv.MapIndex(k), depth+1))
	}
	return m
}

func convertAnyMap(rv reflect.Value, depth int) *AssociativeMap {
	entries := make([]Entry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		entries = append(entries, Entry{
			Key:   convert(iter.Key(), depth+1),
			Value: convert(iter.Value(), depth+1),
		})
	}

	// Go map iteration order is random; fix one so conversion is repeatable.
	var enc encoder
	slices.SortFunc(entries, func(a, b Entry) int {
		if c := compareUTF16(enc.keyString(a.Key), enc.keyString(b.Key)); c != 0 {
			return c
		}
		return compareUTF16(enc.sequence([]Value{a.Key, a.Value}), enc.sequence([]Value{b.Key, b.Value}))
	})
	return NewAssociativeMap(entries...)
}

func convertStruct(rv reflect.Value, depth int) *Mapping {
	t := rv.Type()
	m := NewMapping()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		name := sf.Name
		if tag, ok := sf.Tag.Lookup("json"); ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == "-" {
				continue
			}
			if tagName != "" {
				name = tagName
			}
		}
		m.Set(name, convert(rv.Field(i), depth+1))
	}
	return m
}

// Plain converts v back to plain Go data: nil, bool, float64, string,
// []any and map[string]any. Undefined mapping fields are dropped and
// undefined sequence elements become nil. Associative maps become a list of
// [key, value] pairs.
func Plain(v Value) any {
	switch val := v.(type) {
	case nil, Null, Undefined:
		return nil
	case Bool:
		return bool(val)
	case Number:
		return float64(val)
	case String:
		return string(val)
	case Sequence:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = Plain(elem)
		}
		return out
	case *Mapping:
		out := make(map[string]any, val.Len())
		for _, f := range val.Fields() {
			if kindOf(f.Value) == KindUndefined {
				continue
			}
			out[f.Key] = Plain(f.Value)
		}
		return out
	case *AssociativeMap:
		out := make([]any, 0, val.Len())
		for _, e := range val.Entries() {
			out = append(out, []any{Plain(e.Key), Plain(e.Value)})
		}
		return out
	default:
		return nil
	}
}
