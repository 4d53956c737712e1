// Package ebnfpeg compiles EBNF grammars into peg rules.
//
// Grammars use the notation of golang.org/x/exp/ebnf. Productions whose
// name starts with an upper-case letter are syntactic: ignored input is
// skipped between their tokens and they reduce to non-terminal cst nodes.
// All other productions are lexical: nothing is skipped inside them and
// they reduce to terminal nodes holding the matched text. Tokens written
// directly in a syntactic production become terminals whose kind is the
// quoted token. Alternatives are ordered: the first one that matches wins.
package ebnfpeg

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/dhamidi/peg/cst"
	"github.com/dhamidi/peg/peg"
	"golang.org/x/exp/ebnf"
)

// DefaultSkip is the ignore pattern used when no WithSkip option is given.
const DefaultSkip = `\s+`

type Option func(*compiler)

// WithSkip sets the pattern skipped between tokens of non-lexical
// productions. An empty pattern turns skipping off.
func WithSkip(pattern string) Option {
	return func(c *compiler) {
		c.skip = pattern
	}
}

type compiler struct {
	skip string
	refs map[string]*peg.Ref
}

// LoadGrammar loads an EBNF grammar from a file.
func LoadGrammar(filename string) (ebnf.Grammar, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()

	grammar, err := ebnf.Parse(filename, f)
	if err != nil {
		return nil, fmt.Errorf("parse grammar: %w", err)
	}

	return grammar, nil
}

// Compile returns a rule matching the start production of g. The rule
// reduces to a single *cst.Node.
func Compile(g ebnf.Grammar, start string, opts ...Option) (peg.Rule, error) {
	if err := ebnf.Verify(g, start); err != nil {
		return nil, fmt.Errorf("verify grammar: %w", err)
	}

	c := &compiler{
		skip: DefaultSkip,
		refs: make(map[string]*peg.Ref, len(g)),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.skip != "" {
		if _, err := regexp.Compile(c.skip); err != nil {
			return nil, fmt.Errorf("skip pattern: %w", err)
		}
	}

	for name := range g {
		c.refs[name] = peg.NewRef(name)
	}
	for name, prod := range g {
		rule, err := c.production(name, prod)
		if err != nil {
			return nil, err
		}
		c.refs[name].Set(rule)
	}

	var skip any
	if c.skip != "" {
		skip = c.skip
	}
	return peg.IgnoreScope(skip, peg.Sequence(peg.Literal(""), c.refs[start])), nil
}

// CompileFile loads a grammar file and compiles its start production.
func CompileFile(filename, start string, opts ...Option) (peg.Rule, error) {
	g, err := LoadGrammar(filename)
	if err != nil {
		return nil, err
	}
	return Compile(g, start, opts...)
}

func isLexical(name string) bool {
	r, _ := utf8.DecodeRuneInString(name)
	return !unicode.IsUpper(r)
}

func (c *compiler) production(name string, prod *ebnf.Production) (peg.Rule, error) {
	lexical := isLexical(name)
	// An empty production matches the empty string.
	body := peg.Literal("")
	if prod.Expr != nil {
		var err error
		body, err = c.expression(prod.Expr, lexical)
		if err != nil {
			return nil, fmt.Errorf("production %s: %w", name, err)
		}
	}
	if lexical {
		return c.lexeme(name, peg.IgnoreScope(nil, body)), nil
	}
	return c.reduce(name, body), nil
}

// lexeme skips ignored input, then reduces body to a terminal holding the
// text it matched.
func (c *compiler) lexeme(name string, body peg.Rule) peg.Rule {
	return peg.Sequence(peg.Literal(""), peg.Node(body, func(values []any, before, after peg.State) any {
		return cst.NewTerminal(name, peg.Matched(before, after), cst.Span{
			Start: before.Position(),
			End:   after.Position(),
		})
	}))
}

// reduce collects the nodes pushed by body under a non-terminal.
func (c *compiler) reduce(name string, body peg.Rule) peg.Rule {
	return peg.Node(body, func(values []any, before, after peg.State) any {
		n := cst.NewNonTerminal(name)
		for _, v := range values {
			if child, ok := v.(*cst.Node); ok {
				n.AddChild(child)
			}
		}
		if len(n.Children) == 0 {
			n.Span = cst.Span{Start: after.Position(), End: after.Position()}
		}
		return n
	})
}

func (c *compiler) expression(expr ebnf.Expression, lexical bool) (peg.Rule, error) {
	switch e := expr.(type) {
	case *ebnf.Token:
		if !lexical {
			return c.lexeme(strconv.Quote(e.String), peg.Literal(e.String)), nil
		}
		return peg.Literal(e.String), nil

	case *ebnf.Range:
		r, err := rangeRule(e)
		if err != nil || lexical {
			return r, err
		}
		return c.lexeme(strconv.Quote(e.Begin.String+"…"+e.End.String), r), nil

	case ebnf.Sequence:
		rules, err := c.expressions(e, lexical)
		if err != nil {
			return nil, err
		}
		return peg.Sequence(rules...), nil

	case ebnf.Alternative:
		rules, err := c.expressions(e, lexical)
		if err != nil {
			return nil, err
		}
		return peg.Choice(rules...), nil

	case *ebnf.Repetition:
		body, err := c.expression(e.Body, lexical)
		if err != nil {
			return nil, err
		}
		return peg.ZeroOrMore(body), nil

	case *ebnf.Option:
		body, err := c.expression(e.Body, lexical)
		if err != nil {
			return nil, err
		}
		return peg.Optional(body), nil

	case *ebnf.Group:
		return c.expression(e.Body, lexical)

	case *ebnf.Name:
		ref, ok := c.refs[e.String]
		if !ok {
			return nil, fmt.Errorf("undefined production %s", e.String)
		}
		return ref.Rule(), nil

	default:
		return nil, fmt.Errorf("unsupported expression %T", expr)
	}
}

func (c *compiler) expressions(exprs []ebnf.Expression, lexical bool) ([]any, error) {
	rules := make([]any, len(exprs))
	for i, x := range exprs {
		r, err := c.expression(x, lexical)
		if err != nil {
			return nil, err
		}
		rules[i] = r
	}
	return rules, nil
}

// rangeRule matches a single character in the range of e (e.g., "a" … "z").
func rangeRule(e *ebnf.Range) (peg.Rule, error) {
	lo, hi := []rune(e.Begin.String), []rune(e.End.String)
	if len(lo) != 1 || len(hi) != 1 {
		return nil, fmt.Errorf("range %q … %q: bounds must be single characters", e.Begin.String, e.End.String)
	}
	if lo[0] > hi[0] {
		return nil, fmt.Errorf("range %q … %q: empty range", e.Begin.String, e.End.String)
	}
	return peg.Regexp(regexp.MustCompile(fmt.Sprintf(`[\x{%x}-\x{%x}]`, lo[0], hi[0]))), nil
}
