package calc

import (
	"errors"
	"fmt"
	"strconv"
)

// ErrDivisionByZero is returned by Eval when a divisor evaluates to zero.
var ErrDivisionByZero = errors.New("division by zero")

// Expr is an arithmetic expression tree.
type Expr interface {
	Eval() (float64, error)
	String() string
}

// Num is a numeric literal.
type Num struct {
	Value float64
}

func (n Num) Eval() (float64, error) {
	return n.Value, nil
}

func (n Num) String() string {
	return strconv.FormatFloat(n.Value, 'g', -1, 64)
}

// Neg is unary minus.
type Neg struct {
	X Expr
}

func (n Neg) Eval() (float64, error) {
	x, err := n.X.Eval()
	if err != nil {
		return 0, err
	}
	return -x, nil
}

func (n Neg) String() string {
	return "(-" + n.X.String() + ")"
}

// Binary is a binary operation; Op is one of + - * /.
type Binary struct {
	Op    string
	Left  Expr
	Right Expr
}

func (b Binary) Eval() (float64, error) {
	l, err := b.Left.Eval()
	if err != nil {
		return 0, err
	}
	r, err := b.Right.Eval()
	if err != nil {
		return 0, err
	}
	switch b.Op {
	case "+":
		return l + r, nil
	case "-":
		return l - r, nil
	case "*":
		return l * r, nil
	case "/":
		if r == 0 {
			return 0, fmt.Errorf("%s: %w", b, ErrDivisionByZero)
		}
		return l / r, nil
	default:
		return 0, fmt.Errorf("unknown operator %q", b.Op)
	}
}

func (b Binary) String() string {
	return "(" + b.Left.String() + " " + b.Op + " " + b.Right.String() + ")"
}
