// Package peg is a PEG-style parser combinator engine.
//
// A grammar is assembled from Rules. A Rule takes a State (a cursor into
// the input plus the parse-wide value stack) and reports whether it
// matched, returning the advanced State when it did:
//
//	number := Node(Pattern(`([0-9]+)`), func(values []any, before, after State) any {
//		n, _ := strconv.Atoi(values[0].(string))
//		return n
//	})
//	p := Compile(IgnoreScope(`\s+`, number))
//	v, err := p.Parse(" 42 ") // v == 42
//
// Token matchers (Literal, Pattern, Regexp) consume input, and Pattern
// pushes its capture groups as values. Node
// collapses the values pushed by its inner rule into one value, which is
// how trees are built. Sequence, Choice, OneOrMore, ZeroOrMore and Optional
// compose rules with ordered, first-match PEG semantics; there is no
// longest-match resolution and no left-recursion support.
//
// Whitespace and comments are skipped by IgnoreScope: every token matcher
// inside the scope first consumes input matching the innermost pattern.
//
// Self-referential rules are built with Fix or with a Ref assigned after
// construction.
//
// The value stack and ignore stack are allocated per call to
// (*Parser).Parse, so a compiled Parser can be shared between goroutines.
// A single parse is not safe for concurrent use.
package peg
