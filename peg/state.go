package peg

import (
	"regexp"
	"sort"
)

// scanKey memoizes ignore scans by pattern and offset.
type scanKey struct {
	pattern *regexp.Regexp
	offset  int
}

// session is shared by every State derived during one parse.
type session struct {
	text     string
	values   []any
	ignore   []*regexp.Regexp
	furthest int
	scanned  map[scanKey]int
	lines    []int // offsets of line starts, built on first use
}

// State is a snapshot of a parse: a cursor position and a frame mark over
// the shared value stack. States are small values; the text, value stack
// and ignore stack behind them belong to the parse invocation.
type State struct {
	ctx  *session
	pos  int
	mark int
}

func newState(text string, start int) State {
	return State{
		ctx: &session{
			text:     text,
			furthest: start,
			scanned:  make(map[scanKey]int),
		},
		pos: start,
	}
}

// Pos returns the cursor offset into the input.
func (s State) Pos() int {
	return s.pos
}

// Mark returns the index into the value stack where the values of the
// rule currently being assembled begin.
func (s State) Mark() int {
	return s.mark
}

// Text returns the full input.
func (s State) Text() string {
	return s.ctx.text
}

// Rest returns the input from the cursor onward.
func (s State) Rest() string {
	return s.ctx.text[s.pos:]
}

// Furthest returns the deepest offset any token matcher has reached so far
// in this parse. It never decreases, even across backtracking.
func (s State) Furthest() int {
	return s.ctx.furthest
}

// Position returns the line and column of the cursor.
func (s State) Position() Position {
	return s.ctx.position(s.pos)
}

// Matched returns the input consumed between two states of the same parse.
func Matched(before, after State) string {
	if after.pos < before.pos {
		return ""
	}
	return before.ctx.text[before.pos:after.pos]
}

func (s State) advance(n int) State {
	s.pos += n
	s.ctx.reach(s.pos)
	return s
}

// skip moves the cursor past input matching the innermost ignore pattern.
func (s State) skip() State {
	if n := len(s.ctx.ignore); n > 0 && s.ctx.ignore[n-1] != nil {
		s.pos = s.ctx.scan(s.ctx.ignore[n-1], s.pos)
	}
	s.ctx.reach(s.pos)
	return s
}

func (c *session) reach(pos int) {
	if pos > c.furthest {
		c.furthest = pos
	}
}

// truncate drops every value at or above n.
func (c *session) truncate(n int) {
	if n < len(c.values) {
		clear(c.values[n:])
		c.values = c.values[:n]
	}
}

func (c *session) push(values ...any) int {
	c.values = append(c.values, values...)
	return len(c.values)
}

// scan consumes consecutive non-empty matches of an anchored pattern.
func (c *session) scan(pattern *regexp.Regexp, offset int) int {
	key := scanKey{pattern: pattern, offset: offset}
	if end, ok := c.scanned[key]; ok {
		return end
	}
	end := offset
	for {
		loc := pattern.FindStringIndex(c.text[end:])
		if loc == nil || loc[1] == 0 {
			break
		}
		end += loc[1]
	}
	c.scanned[key] = end
	return end
}

func (c *session) position(offset int) Position {
	if c.lines == nil {
		c.lines = append(c.lines, 0)
		for i := 0; i < len(c.text); i++ {
			if c.text[i] == '\n' {
				c.lines = append(c.lines, i+1)
			}
		}
	}
	line := sort.Search(len(c.lines), func(i int) bool { return c.lines[i] > offset }) - 1
	return Position{
		Offset: offset,
		Line:   line + 1,
		Column: offset - c.lines[line] + 1,
	}
}
