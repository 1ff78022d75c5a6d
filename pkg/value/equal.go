package value

// Comparer decides structural equality. The zero Comparer compares encodings
// exactly as JSON.stringify would produce them.
type Comparer struct {
	enc encoder
}

// Option configures a Comparer.
type Option func(*Comparer)

// WithNormalization makes the comparer NFC-normalize strings and mapping keys
// before encoding, so composed and decomposed forms of the same text match.
func WithNormalization() Option {
	return func(c *Comparer) {
		c.enc.normalize = true
	}
}

// NewComparer creates a Comparer with the given options.
func NewComparer(opts ...Option) Comparer {
	var c Comparer
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Equal reports whether x and y are structurally equal.
//
// Precedence: null, then undefined, then sequence/sequence,
// associative/associative and mapping/mapping canonical comparison, and
// finally literal encoding comparison for everything else, including
// mismatched container kinds.
func (c Comparer) Equal(x, y Value) bool {
	kx, ky := kindOf(x), kindOf(y)

	switch {
	case kx == KindNull || ky == KindNull:
		return kx == KindNull && ky == KindNull
	case kx == KindUndefined || ky == KindUndefined:
		return kx == KindUndefined && ky == KindUndefined
	case kx == KindSequence && ky == KindSequence:
		return c.enc.sequence(x.(Sequence)) == c.enc.sequence(y.(Sequence))
	case kx == KindAssociative && ky == KindAssociative:
		return c.enc.associative(x.(*AssociativeMap)) == c.enc.associative(y.(*AssociativeMap))
	case kx == KindMapping && ky == KindMapping:
		return c.enc.mapping(x.(*Mapping)) == c.enc.mapping(y.(*Mapping))
	}

	lx, _ := c.enc.literal(x)
	ly, _ := c.enc.literal(y)
	return lx == ly
}

// Canonical returns the encoding Equal compares for v: the canonical form
// for containers, the literal encoding for primitives and "undefined" for
// Undefined.
func (c Comparer) Canonical(v Value) string {
	switch kindOf(v) {
	case KindUndefined:
		return "undefined"
	case KindAssociative:
		return c.enc.associative(v.(*AssociativeMap))
	case KindSequence, KindMapping:
		enc, _ := c.enc.element(v)
		return enc
	}
	enc, _ := c.enc.literal(v)
	return enc
}

// Literal returns the JSON.stringify encoding of v, or "undefined" when v has
// no encoding.
func (c Comparer) Literal(v Value) string {
	enc, ok := c.enc.literal(v)
	if !ok {
		return "undefined"
	}
	return enc
}

var defaultComparer Comparer

// Equal reports whether x and y are structurally equal using the default
// comparer.
func Equal(x, y Value) bool {
	return defaultComparer.Equal(x, y)
}

// Canonical returns the canonical encoding of v using the default comparer.
func Canonical(v Value) string {
	return defaultComparer.Canonical(v)
}

// Literal returns the JSON.stringify encoding of v, or "undefined".
func Literal(v Value) string {
	return defaultComparer.Literal(v)
}

// kindOf treats a nil interface as Undefined.
func kindOf(v Value) Kind {
	if v == nil {
		return KindUndefined
	}
	return v.Kind()
}
