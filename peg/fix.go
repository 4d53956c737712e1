package peg

import "fmt"

// Ref is a rule whose definition is supplied after it is referenced, for
// recursive and mutually recursive grammars.
//
//	expr := NewRef("expr")
//	atom := Choice(Pattern(`([0-9]+)`), Sequence("(", expr, ")"))
//	expr.Set(Sequence(atom, ZeroOrMore(Sequence("+", atom))))
type Ref struct {
	name string
	rule Rule
}

// NewRef returns an unset Ref. The name is used in panics only.
func NewRef(name string) *Ref {
	return &Ref{name: name}
}

// Name returns the name given to NewRef.
func (r *Ref) Name() string {
	return r.name
}

// Set defines the rule r stands for.
func (r *Ref) Set(rule any) {
	r.rule = Use(rule)
}

// Rule returns a Rule that applies r's definition. Applying it before Set
// is called panics.
func (r *Ref) Rule() Rule {
	return func(s State) (State, bool) {
		if r.rule == nil {
			panic(fmt.Sprintf("peg: rule %q applied before it was set", r.name))
		}
		return r.rule(s)
	}
}

// Fix builds a self-referential rule. build receives a Rule standing for
// its own result.
func Fix(build func(self Rule) Rule) Rule {
	ref := NewRef("fix")
	ref.Set(build(ref.Rule()))
	return ref.rule
}
