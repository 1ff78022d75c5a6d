package value

import (
	"math"
	"slices"
	"unicode/utf16"
)

// Kind discriminates the Value variants.
type Kind int

const (
	KindUndefined Kind = iota
	KindNull
	KindBool
	KindNumber
	KindString
	KindSequence
	KindMapping
	KindAssociative
)

var kindNames = [...]string{
	KindUndefined:   "undefined",
	KindNull:        "null",
	KindBool:        "bool",
	KindNumber:      "number",
	KindString:      "string",
	KindSequence:    "sequence",
	KindMapping:     "mapping",
	KindAssociative: "associative",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// Value is a sealed interface over the comparable variants.
// Only the types in this package implement it.
type Value interface {
	Kind() Kind
	value() // Sealed
}

// Null is the explicit null value.
type Null struct{}

func (Null) Kind() Kind { return KindNull }
func (Null) value()     {}

// Undefined is the absent value.
type Undefined struct{}

func (Undefined) Kind() Kind { return KindUndefined }
func (Undefined) value()     {}

// Bool is a boolean value.
type Bool bool

func (Bool) Kind() Kind { return KindBool }
func (Bool) value()     {}

// Number is a double-precision number. Every Go integer and float kind
// converts to Number, so integers beyond 2^53 lose precision.
type Number float64

func (Number) Kind() Kind { return KindNumber }
func (Number) value()     {}

// String is a string value.
type String string

func (String) Kind() Kind { return KindString }
func (String) value()     {}

// Sequence is an ordered list of values.
type Sequence []Value

func (Sequence) Kind() Kind { return KindSequence }
func (Sequence) value()     {}

// Field is one entry of a Mapping.
type Field struct {
	Key   string
	Value Value
}

// Mapping is a string-keyed collection that remembers insertion order.
// Setting an existing key replaces its value in place.
type Mapping struct {
	fields []Field
	index  map[string]int
}

func (*Mapping) Kind() Kind { return KindMapping }
func (*Mapping) value()     {}

// NewMapping builds a Mapping from fields in order.
func NewMapping(fields ...Field) *Mapping {
	m := &Mapping{index: make(map[string]int, len(fields))}
	for _, f := range fields {
		m.Set(f.Key, f.Value)
	}
	return m
}

// F is shorthand for a Field.
// Example: NewMapping(F("name", String("cart")), F("count", Number(5)))
func F(key string, v Value) Field {
	return Field{Key: key, Value: v}
}

// Set inserts or replaces the value stored under key.
func (m *Mapping) Set(key string, v Value) {
	if m.index == nil {
		m.index = make(map[string]int)
	}
	if v == nil {
		v = Undefined{}
	}
	if i, ok := m.index[key]; ok {
		m.fields[i].Value = v
		return
	}
	m.index[key] = len(m.fields)
	m.fields = append(m.fields, Field{Key: key, Value: v})
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (Value, bool) {
	if m == nil {
		return nil, false
	}
	i, ok := m.index[key]
	if !ok {
		return nil, false
	}
	return m.fields[i].Value, true
}

// Len returns the number of fields.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.fields)
}

// Fields returns the fields in insertion order.
func (m *Mapping) Fields() []Field {
	if m == nil {
		return nil
	}
	return slices.Clone(m.fields)
}

// SortedFields returns the fields ordered by key using UTF-16 code units.
func (m *Mapping) SortedFields() []Field {
	fields := m.Fields()
	slices.SortStableFunc(fields, func(a, b Field) int {
		return compareUTF16(a.Key, b.Key)
	})
	return fields
}

// Entry is one entry of an AssociativeMap.
type Entry struct {
	Key   Value
	Value Value
}

// AssociativeMap is a collection keyed by arbitrary values that remembers
// insertion order. Primitive keys are unique under SameValueZero (NaN equals
// NaN, -0 equals 0); composite keys are never merged.
type AssociativeMap struct {
	entries []Entry
}

func (*AssociativeMap) Kind() Kind { return KindAssociative }
func (*AssociativeMap) value()     {}

// NewAssociativeMap builds an AssociativeMap from entries in order.
func NewAssociativeMap(entries ...Entry) *AssociativeMap {
	m := &AssociativeMap{}
	for _, e := range entries {
		m.Set(e.Key, e.Value)
	}
	return m
}

// E is shorthand for an Entry.
func E(key, v Value) Entry {
	return Entry{Key: key, Value: v}
}

// Set inserts or replaces the value stored under key.
func (m *AssociativeMap) Set(key, v Value) {
	if key == nil {
		key = Undefined{}
	}
	if v == nil {
		v = Undefined{}
	}
	for i := range m.entries {
		if sameValueZero(m.entries[i].Key, key) {
			m.entries[i].Value = v
			return
		}
	}
	m.entries = append(m.entries, Entry{Key: key, Value: v})
}

// Len returns the number of entries.
func (m *AssociativeMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Entries returns the entries in insertion order.
func (m *AssociativeMap) Entries() []Entry {
	if m == nil {
		return nil
	}
	return slices.Clone(m.entries)
}

// sameValueZero reports whether two keys address the same map slot.
func sameValueZero(a, b Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch av := a.(type) {
	case Null, Undefined:
		return true
	case Bool:
		return av == b.(Bool)
	case Number:
		bv := b.(Number)
		if math.IsNaN(float64(av)) && math.IsNaN(float64(bv)) {
			return true
		}
		return av == bv
	case String:
		return av == b.(String)
	default:
		return false
	}
}

// compareUTF16 orders strings by UTF-16 code units, the order used by
// ECMAScript string comparison. Go's native comparison uses UTF-8 bytes,
// which disagrees for characters outside the BMP.
func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	n := min(len(a16), len(b16))
	for i := 0; i < n; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}

	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	}
	return 0
}
