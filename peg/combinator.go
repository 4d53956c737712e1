package peg

// Sequence matches rules one after another. If any of them fails the
// whole sequence fails and the values pushed by the matched prefix are
// dropped.
func Sequence(rules ...any) Rule {
	rs := useAll(rules)
	return func(s State) (State, bool) {
		cur := s
		for _, r := range rs {
			next, ok := r(cur)
			if !ok {
				s.ctx.truncate(s.mark)
				return s, false
			}
			cur = next
		}
		return cur, true
	}
}

// Choice tries rules in order and returns the first match.
func Choice(rules ...any) Rule {
	rs := useAll(rules)
	return func(s State) (State, bool) {
		for _, r := range rs {
			if next, ok := r(s); ok {
				return next, true
			}
			s.ctx.truncate(s.mark)
		}
		return s, false
	}
}

// OneOrMore matches rule as many times as it keeps matching and advancing.
// A match that does not advance the cursor is accepted and ends the
// repetition. It fails if rule does not match at least once.
func OneOrMore(rule any) Rule {
	r := Use(rule)
	return func(s State) (State, bool) {
		cur, ok := r(s)
		if !ok {
			s.ctx.truncate(s.mark)
			return s, false
		}
		for prev := s; cur.pos != prev.pos; {
			next, ok := r(cur)
			if !ok {
				cur.ctx.truncate(cur.mark)
				break
			}
			prev, cur = cur, next
		}
		return cur, true
	}
}

// ZeroOrMore is Optional(OneOrMore(rule)).
func ZeroOrMore(rule any) Rule {
	return Optional(OneOrMore(rule))
}

// Optional matches rule if it can and always succeeds.
func Optional(rule any) Rule {
	r := Use(rule)
	return func(s State) (State, bool) {
		if next, ok := r(s); ok {
			return next, true
		}
		s.ctx.truncate(s.mark)
		return s, true
	}
}
