// Package suite loads declarative equality suites and runs them through a
// harness.
//
// A suite names groups; each group becomes a Describe call and each case in
// it a Test call:
//
//	name: arithmetic
//	groups:
//	  - describe: addition
//	    tests:
//	      - name: t1
//	        got: 4
//	        expected: 4
//	      - name: nulls
//	        got: null
//	        assert: null
//	      - name: broken
//	        raise: boom
//
// Suites can be written in YAML (.yaml, .yml), JSON (.json) or CUE (.cue).
// Every format keeps mapping keys in file order, so got and expected values
// carry the same literal encoding they were written with. YAML adds two tags:
// !undefined for a value with no encoding, and !map on a sequence of
// [key, value] pairs for an associative map.
//
// Documents are checked against an embedded JSON schema before they are
// decoded.
package suite
