// Package parens parses balanced parentheses and reports nesting depth.
package parens

import "github.com/dhamidi/peg/peg"

// Grammar matches one balanced group, "(" { group } ")", reducing it to
// its nesting depth.
var Grammar = peg.Fix(func(group peg.Rule) peg.Rule {
	return peg.Node(peg.Sequence("(", peg.ZeroOrMore(group), ")"), func(values []any, before, after peg.State) any {
		depth := 0
		for _, v := range values {
			depth = max(depth, v.(int))
		}
		return depth + 1
	})
})

var parser = peg.Compile(Grammar)

// Depth returns the nesting depth of a balanced group such as "(()())".
func Depth(text string) (int, error) {
	v, err := parser.Parse(text)
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}
