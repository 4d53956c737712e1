package peg

import "slices"

// Reducer turns the values a rule pushed into a single value. before and
// after are the states the rule started and ended at. values is owned by
// the reducer.
type Reducer func(values []any, before, after State) any

// Node runs rule and replaces the values it pushed with the single value
// returned by reduce. Values committed by enclosing rules are never passed
// to reduce.
func Node(rule any, reduce Reducer) Rule {
	r := Use(rule)
	return func(s State) (State, bool) {
		next, ok := r(s)
		if !ok {
			s.ctx.truncate(s.mark)
			return s, false
		}
		c := s.ctx
		c.truncate(next.mark)
		values := slices.Clone(c.values[s.mark:])
		c.truncate(s.mark)
		next.mark = c.push(reduce(values, s, next))
		return next, true
	}
}
