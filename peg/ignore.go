package peg

import (
	"fmt"
	"regexp"
)

// IgnoreScope runs rule with pattern as the innermost ignore pattern, then
// skips ignored input after the match. Token matchers inside the scope
// skip input matching pattern before they match.
//
// pattern is a regular expression source string, a *regexp.Regexp or nil.
// A nil pattern turns skipping off for rule, which is how lexemes that
// must not contain whitespace are built. Scopes nest; the outer pattern
// applies again once rule returns.
func IgnoreScope(pattern any, rule any) Rule {
	re := ignorePattern(pattern)
	r := Use(rule)
	return func(s State) (State, bool) {
		depth := len(s.ctx.ignore)
		s.ctx.ignore = append(s.ctx.ignore, re)
		defer func() { s.ctx.ignore = s.ctx.ignore[:depth] }()

		next, ok := r(s)
		if !ok {
			s.ctx.truncate(s.mark)
			return s, false
		}
		if re != nil {
			next.pos = next.ctx.scan(re, next.pos)
			next.ctx.reach(next.pos)
		}
		return next, true
	}
}

func ignorePattern(pattern any) *regexp.Regexp {
	switch p := pattern.(type) {
	case nil:
		return nil
	case string:
		return anchor(regexp.MustCompile(p))
	case *regexp.Regexp:
		if p == nil {
			return nil
		}
		return anchor(p)
	default:
		panic(fmt.Sprintf("peg: invalid ignore pattern of type %T", pattern))
	}
}
