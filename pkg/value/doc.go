// Package value provides the comparable data model for gasunit and the
// structural equality engine built on it.
//
// A Value is a sealed tagged union: Null, Undefined, Bool, Number, String,
// Sequence, *Mapping and *AssociativeMap. Kind() is the discriminator the
// engine switches on; it never inspects Go types at comparison time.
//
// # Equality
//
// Equal decides equality by comparing encodings, not by walking both trees
// side by side:
//
//   - Null equals only Null, Undefined equals only Undefined.
//   - Two sequences compare their canonical forms (element order matters).
//   - Two mappings compare their canonical forms with entries sorted by key
//     (key order never matters).
//   - Two associative maps compare their canonical forms with [key, value]
//     pairs sorted by key.
//   - Anything else compares literal encodings.
//
// The literal encoding is JSON.stringify-compatible. Its quirks are part of
// the contract and are kept on purpose: NaN, Infinity and null all encode as
// null, and an undefined sequence element encodes the same as a null one.
//
// Cyclic values are not supported. Of bounds conversion depth and panics
// with *DepthError instead of recursing forever.
package value
