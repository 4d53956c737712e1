package peg

import (
	"fmt"
	"slices"

	"github.com/tliron/commonlog"
)

type Option func(*Parser)

// WithStart makes parsing begin at offset instead of 0.
func WithStart(offset int) Option {
	return func(p *Parser) {
		p.start = offset
	}
}

// WithPartial accepts a match that leaves input unconsumed.
func WithPartial() Option {
	return func(p *Parser) {
		p.partial = true
	}
}

// WithLogger sets the logger parse outcomes are reported to.
func WithLogger(log commonlog.Logger) Option {
	return func(p *Parser) {
		p.log = log
	}
}

// Parser applies a root rule to whole inputs.
type Parser struct {
	root    Rule
	start   int
	partial bool
	log     commonlog.Logger
}

// Compile returns a Parser for root. root is normalized with Use.
func Compile(root any, opts ...Option) *Parser {
	p := &Parser{
		root: Use(root),
		log:  commonlog.GetLogger("peg"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Match is the outcome of a successful Run.
type Match struct {
	Values   []any // values left on the stack by the root rule
	End      int   // offset the root rule stopped at
	Furthest int   // deepest offset any token matcher reached
}

// Run applies the root rule to text. It returns a *ParseError if the rule
// does not match or, unless the Parser is partial, does not consume all
// of text.
func (p *Parser) Run(text string) (*Match, error) {
	if p.start < 0 || p.start > len(text) {
		return nil, fmt.Errorf("start offset %d out of range [0, %d]", p.start, len(text))
	}

	s := newState(text, p.start)
	next, ok := p.root(s)
	c := s.ctx
	if !ok || (!p.partial && next.pos < len(text)) {
		err := &ParseError{
			Offset:    c.furthest,
			Position:  c.position(c.furthest),
			Remainder: text[c.furthest:],
		}
		p.log.Debugf("parse failed after %d bytes: %s", c.furthest-p.start, err)
		return nil, err
	}

	c.truncate(next.mark)
	p.log.Debugf("parse consumed %d of %d bytes, %d values", next.pos-p.start, len(text)-p.start, len(c.values))
	return &Match{
		Values:   slices.Clone(c.values),
		End:      next.pos,
		Furthest: c.furthest,
	}, nil
}

// Parse applies the root rule to text and returns the single value it
// reduced to. A successful match that leaves zero or several values
// returns a *ValueCountError.
func (p *Parser) Parse(text string) (any, error) {
	m, err := p.Run(text)
	if err != nil {
		return nil, err
	}
	if len(m.Values) != 1 {
		return nil, &ValueCountError{Count: len(m.Values)}
	}
	return m.Values[0], nil
}
