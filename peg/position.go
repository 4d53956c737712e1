package peg

import "fmt"

// Position represents a location in the input. Line and Column are
// 1-based; Column counts bytes.
type Position struct {
	Offset int
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}
