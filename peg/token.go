package peg

import (
	"regexp"
	"strings"
)

// Literal matches text exactly, after skipping ignored input. It pushes no
// values. Literal("") only skips ignored input and always matches.
func Literal(text string) Rule {
	return func(s State) (State, bool) {
		s = s.skip()
		if !strings.HasPrefix(s.ctx.text[s.pos:], text) {
			return s, false
		}
		return s.advance(len(text)), true
	}
}

// Pattern compiles expr and returns a Regexp matcher for it. It panics if
// expr is not a valid regular expression.
func Pattern(expr string) Rule {
	return Regexp(regexp.MustCompile(expr))
}

// Regexp matches re anchored at the cursor, after skipping ignored input.
// On a match every capture group is pushed as a string, in order; groups
// that did not participate push "".
func Regexp(re *regexp.Regexp) Rule {
	re = anchor(re)
	return func(s State) (State, bool) {
		s = s.skip()
		m := re.FindStringSubmatch(s.ctx.text[s.pos:])
		if m == nil {
			return s, false
		}
		s.ctx.truncate(s.mark)
		for _, group := range m[1:] {
			s.ctx.push(group)
		}
		s = s.advance(len(m[0]))
		s.mark = len(s.ctx.values)
		return s, true
	}
}

// anchor forces re to match only at the start of its input.
func anchor(re *regexp.Regexp) *regexp.Regexp {
	return regexp.MustCompile(`^(?:` + re.String() + `)`)
}
