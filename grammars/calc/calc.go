// Package calc parses and evaluates arithmetic expressions.
//
// The grammar supports + - * /, unary minus, parentheses and decimal
// numbers, with the usual precedence and left associativity:
//
//	sum     = product { ("+" | "-") product }
//	product = factor { ("*" | "/") factor }
//	factor  = "-" factor | number | "(" sum ")"
package calc

import (
	"strconv"

	"github.com/dhamidi/peg/peg"
)

var (
	sum    = peg.NewRef("sum")
	number = peg.Node(peg.Pattern(`([0-9]+(?:\.[0-9]+)?)`), func(values []any, before, after peg.State) any {
		// The pattern only admits valid decimals.
		f, _ := strconv.ParseFloat(values[0].(string), 64)
		return Num{Value: f}
	})
	factor = peg.Fix(func(factor peg.Rule) peg.Rule {
		return peg.Choice(
			peg.Node(peg.Sequence("-", factor), func(values []any, before, after peg.State) any {
				return Neg{X: values[0].(Expr)}
			}),
			number,
			peg.Sequence("(", sum, ")"),
		)
	})
	product = peg.Node(peg.Sequence(factor, peg.ZeroOrMore(peg.Sequence(peg.Pattern(`([*/])`), factor))), foldLeft)
)

func init() {
	sum.Set(peg.Node(peg.Sequence(product, peg.ZeroOrMore(peg.Sequence(peg.Pattern(`([+-])`), product))), foldLeft))
}

// foldLeft turns operand, operator, operand, ... into a left-leaning tree.
func foldLeft(values []any, before, after peg.State) any {
	acc := values[0].(Expr)
	for i := 1; i+1 < len(values); i += 2 {
		acc = Binary{Op: values[i].(string), Left: acc, Right: values[i+1].(Expr)}
	}
	return acc
}

// Grammar matches a whole expression, skipping whitespace between tokens.
var Grammar = peg.IgnoreScope(`\s+`, sum)

var parser = peg.Compile(Grammar)

// Parse returns the expression tree for text.
func Parse(text string) (Expr, error) {
	v, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}
	return v.(Expr), nil
}

// Eval parses and evaluates text.
func Eval(text string) (float64, error) {
	expr, err := Parse(text)
	if err != nil {
		return 0, err
	}
	return expr.Eval()
}
