package peg

import (
	"fmt"
	"strconv"
)

// maxRemainder bounds how much of the remainder Error quotes.
const maxRemainder = 32

// ParseError reports that the root rule did not match, or did not consume
// the whole input outside of partial mode. Offset is the furthest position
// any token matcher reached.
type ParseError struct {
	Offset    int
	Position  Position
	Remainder string
}

func (e *ParseError) Error() string {
	if e.Remainder == "" {
		return fmt.Sprintf("parse error at %s (offset %d): unexpected end of input", e.Position, e.Offset)
	}
	rem := e.Remainder
	if len(rem) > maxRemainder {
		rem = rem[:maxRemainder] + "..."
	}
	return fmt.Sprintf("parse error at %s (offset %d): unexpected input %s", e.Position, e.Offset, strconv.Quote(rem))
}

// ValueCountError reports that a parse succeeded but the root rule did not
// leave exactly one value. Wrap the root rule in a Node to fix it.
type ValueCountError struct {
	Count int
}

func (e *ValueCountError) Error() string {
	return fmt.Sprintf("root rule left %d values, want exactly 1", e.Count)
}
