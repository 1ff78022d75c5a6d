package value

import (
	"bytes"
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// encoder produces the literal and canonical encodings of values.
// With normalize set, strings and mapping keys are NFC normalized first.
type encoder struct {
	normalize bool
}

// text applies normalization to user-supplied text.
func (e encoder) text(s string) string {
	if e.normalize {
		return norm.NFC.String(s)
	}
	return s
}

// literal returns the JSON.stringify encoding of v. The boolean is false
// for Undefined, which has no encoding of its own.
func (e encoder) literal(v Value) (string, bool) {
	var buf strings.Builder
	if !e.writeLiteral(&buf, v) {
		return "", false
	}
	return buf.String(), true
}

func (e encoder) writeLiteral(buf *strings.Builder, v Value) bool {
	switch val := v.(type) {
	case nil, Undefined:
		return false
	case Null:
		buf.WriteString("null")
	case Bool:
		if val {
			buf.WriteString("true")
		} else {
			buf.WriteString("false")
		}
	case Number:
		buf.WriteString(formatNumber(float64(val)))
	case String:
		buf.WriteString(quote(e.text(string(val))))
	case Sequence:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if !e.writeLiteral(buf, elem) {
				buf.WriteString("null")
			}
		}
		buf.WriteByte(']')
	case *Mapping:
		buf.WriteByte('{')
		first := true
		for _, f := range val.Fields() {
			if kindOf(f.Value) == KindUndefined {
				continue
			}
			if !first {
				buf.WriteByte(',')
			}
			first = false
			buf.WriteString(quote(e.text(f.Key)))
			buf.WriteByte(':')
			e.writeLiteral(buf, f.Value)
		}
		buf.WriteByte('}')
	case *AssociativeMap:
		// Entries are not own properties, so they never appear.
		buf.WriteString("{}")
	default:
		return false
	}
	return true
}

// element returns the canonical encoding of v as a member of a canonical
// sequence. The boolean is false for Null and Undefined, which encode as a
// bare null in the enclosing array. Only sequences and mappings recurse; a
// nested associative map falls through to its literal {}.
func (e encoder) element(v Value) (string, bool) {
	switch val := v.(type) {
	case nil, Null, Undefined:
		return "", false
	case Sequence:
		return e.sequence(val), true
	case *Mapping:
		return e.mapping(val), true
	default:
		return e.literal(v)
	}
}

func (e encoder) writeElement(buf *strings.Builder, v Value) {
	enc, ok := e.element(v)
	if !ok {
		buf.WriteString("null")
		return
	}
	buf.WriteString(quote(enc))
}

// sequence encodes a canonical sequence: a JSON array of the quoted
// element encodings.
func (e encoder) sequence(items []Value) string {
	var buf strings.Builder
	buf.WriteByte('[')
	for i, item := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		e.writeElement(&buf, item)
	}
	buf.WriteByte(']')
	return buf.String()
}

// mapping encodes a canonical mapping: a JSON array of [key, element]
// pairs sorted by key.
func (e encoder) mapping(m *Mapping) string {
	fields := m.Fields()
	for i := range fields {
		fields[i].Key = e.text(fields[i].Key)
	}
	slices.SortStableFunc(fields, func(a, b Field) int {
		return compareUTF16(a.Key, b.Key)
	})

	var buf strings.Builder
	buf.WriteByte('[')
	for i, f := range fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('[')
		buf.WriteString(quote(f.Key))
		buf.WriteByte(',')
		e.writeElement(&buf, f.Value)
		buf.WriteByte(']')
	}
	buf.WriteByte(']')
	return buf.String()
}

// associative encodes a canonical associative map: the canonical sequence of
// its [key, value] pairs, sorted by key with ties broken by the pair itself.
func (e encoder) associative(m *AssociativeMap) string {
	type pair struct {
		sortKey string
		enc     string
	}

	entries := m.Entries()
	pairs := make([]pair, len(entries))
	for i, entry := range entries {
		pairs[i] = pair{
			sortKey: e.keyString(entry.Key),
			enc:     e.sequence([]Value{entry.Key, entry.Value}),
		}
	}
	slices.SortStableFunc(pairs, func(a, b pair) int {
		if c := compareUTF16(a.sortKey, b.sortKey); c != 0 {
			return c
		}
		return compareUTF16(a.enc, b.enc)
	})

	var buf strings.Builder
	buf.WriteByte('[')
	for i, p := range pairs {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(quote(p.enc))
	}
	buf.WriteByte(']')
	return buf.String()
}

// keyString is the text an associative key sorts by: strings sort by their
// own text, everything else by its encoding.
func (e encoder) keyString(k Value) string {
	switch key := k.(type) {
	case nil, Undefined:
		return "undefined"
	case Null:
		return "null"
	case String:
		return e.text(string(key))
	}
	enc, _ := e.element(k)
	return enc
}

// formatNumber renders a float the way ECMAScript Number::toString does for
// JSON: shortest round-trip digits, exponent form outside [1e-6, 1e21),
// -0 as 0, and null for NaN and the infinities.
func formatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "null"
	}
	if f == 0 {
		return "0"
	}

	abs := math.Abs(f)
	format := byte('f')
	if abs < 1e-6 || abs >= 1e21 {
		format = 'e'
	}
	b := strconv.AppendFloat(nil, f, format, -1, 64)
	if format == 'e' {
		// clean up e-09 to e-9
		n := len(b)
		if n >= 4 && b[n-4] == 'e' && b[n-3] == '-' && b[n-2] == '0' {
			b[n-2] = b[n-1]
			b = b[:n-1]
		}
	}
	return string(b)
}

// quote produces a JSON string literal the way JSON.stringify does:
// no HTML escaping, and U+2028/U+2029 left as literal characters.
func quote(s string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		// Encoding a string cannot fail.
		panic(err)
	}

	// json.Encoder adds a trailing newline
	out := bytes.TrimSuffix(buf.Bytes(), []byte{'\n'})
	return string(unescapeLineSeparators(out))
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes produced by
// encoding/json back into literal characters. Escape pairs are skipped as a
// unit so an escaped backslash followed by "u2028" text is left alone.
func unescapeLineSeparators(data []byte) []byte {
	if !bytes.Contains(data, []byte(`\u202`)) {
		return data
	}

	out := make([]byte, 0, len(data))
	for i := 0; i < len(data); i++ {
		c := data[i]
		if c != '\\' || i+1 >= len(data) {
			out = append(out, c)
			continue
		}
		if i+6 <= len(data) && data[i+1] == 'u' && string(data[i+2:i+5]) == "202" &&
			(data[i+5] == '8' || data[i+5] == '9') {
			if data[i+5] == '8' {
				out = append(out, "\u2028"...)
			} else {
				out = append(out, "\u2029"...)
			}
			i += 5
			continue
		}
		out = append(out, c, data[i+1])
		i++
	}
	return out
}
