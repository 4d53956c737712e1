package peg

import (
	"fmt"
	"regexp"
)

// Rule matches input at a State. It returns the advanced State and true on
// a match. On failure it returns false, and the value stack holds no more
// values than it did at the State's mark; the returned State is
// meaningless.
type Rule func(State) (State, bool)

// Use normalizes a rule argument: a string becomes a Literal, a
// *regexp.Regexp becomes a Regexp matcher, and Rules, rule functions and
// Refs are passed through. Any other argument panics.
func Use(rule any) Rule {
	switch r := rule.(type) {
	case Rule:
		if r == nil {
			panic("peg: nil rule")
		}
		return r
	case func(State) (State, bool):
		if r == nil {
			panic("peg: nil rule")
		}
		return r
	case *Ref:
		return r.Rule()
	case string:
		return Literal(r)
	case *regexp.Regexp:
		return Regexp(r)
	default:
		panic(fmt.Sprintf("peg: invalid rule of type %T", rule))
	}
}

func useAll(rules []any) []Rule {
	rs := make([]Rule, len(rules))
	for i, r := range rules {
		rs[i] = Use(r)
	}
	return rs
}
