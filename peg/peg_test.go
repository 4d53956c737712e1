package peg

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func apply(rule Rule, text string, start int) (State, bool, State) {
	s := newState(text, start)
	next, ok := rule(s)
	return next, ok, s
}

func join(values []any, before, after State) any {
	var b strings.Builder
	for _, v := range values {
		fmt.Fprint(&b, v)
	}
	return b.String()
}

func depth(values []any, before, after State) any {
	d := 0
	for _, v := range values {
		if n := v.(int); n > d {
			d = n
		}
	}
	return d + 1
}

func parens() Rule {
	return Fix(func(self Rule) Rule {
		return Node(Sequence("(", ZeroOrMore(self), ")"), depth)
	})
}

func TestLiteral(t *testing.T) {
	tests := []struct {
		input   string
		start   int
		ok      bool
		wantPos int
	}{
		{"foo", 0, true, 3},
		{"foobar", 0, true, 3},
		{"xfoo", 1, true, 4},
		{"fo", 0, false, 0},
		{"bar", 0, false, 0},
		{"", 0, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			next, ok, s := apply(Literal("foo"), tt.input, tt.start)
			if ok != tt.ok {
				t.Fatalf("got ok=%v, want %v", ok, tt.ok)
			}
			if ok && next.Pos() != tt.wantPos {
				t.Errorf("got pos %d, want %d", next.Pos(), tt.wantPos)
			}
			if len(s.ctx.values) != 0 {
				t.Errorf("literal pushed values: %v", s.ctx.values)
			}
		})
	}
}

func TestEmptyLiteral(t *testing.T) {
	rule := IgnoreScope(`\s+`, Literal(""))
	next, ok, _ := apply(rule, "   x", 0)
	if !ok {
		t.Fatal("empty literal did not match")
	}
	if next.Pos() != 3 {
		t.Errorf("got pos %d, want 3", next.Pos())
	}
}

func TestPatternPushesCaptures(t *testing.T) {
	rule := Pattern(`([a-z]+)=([0-9]+)?`)

	next, ok, s := apply(rule, "key=42;", 0)
	if !ok {
		t.Fatal("pattern did not match")
	}
	if next.Pos() != 6 {
		t.Errorf("got pos %d, want 6", next.Pos())
	}
	if next.Mark() != 2 {
		t.Errorf("got mark %d, want 2", next.Mark())
	}
	if diff := cmp.Diff([]any{"key", "42"}, s.ctx.values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}

	_, ok, s = apply(rule, "key=;", 0)
	if !ok {
		t.Fatal("pattern did not match without optional group")
	}
	if diff := cmp.Diff([]any{"key", ""}, s.ctx.values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestPatternIsAnchored(t *testing.T) {
	_, ok, _ := apply(Pattern(`[0-9]+`), "ab12", 0)
	if ok {
		t.Error("pattern matched past the cursor")
	}
	next, ok, _ := apply(Pattern(`[0-9]+`), "ab12", 2)
	if !ok || next.Pos() != 4 {
		t.Errorf("got ok=%v pos=%d, want match to 4", ok, next.Pos())
	}
}

func TestOneOrMore(t *testing.T) {
	tests := []struct {
		input   string
		ok      bool
		wantPos int
	}{
		{"", false, 0},
		{"b", false, 0},
		{"ab", true, 2},
		{"ababab", true, 6},
		{"ababa", true, 4},
		{"abxab", true, 2},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			next, ok, _ := apply(OneOrMore("ab"), tt.input, 0)
			if ok != tt.ok {
				t.Fatalf("got ok=%v, want %v", ok, tt.ok)
			}
			if ok && next.Pos() != tt.wantPos {
				t.Errorf("got pos %d, want %d", next.Pos(), tt.wantPos)
			}
		})
	}
}

func TestOneOrMoreStopsWithoutProgress(t *testing.T) {
	next, ok, _ := apply(OneOrMore(Optional("a")), "aab", 0)
	if !ok {
		t.Fatal("repetition failed")
	}
	if next.Pos() != 2 {
		t.Errorf("got pos %d, want 2", next.Pos())
	}

	next, ok, _ = apply(ZeroOrMore(Optional("a")), "b", 0)
	if !ok || next.Pos() != 0 {
		t.Errorf("got ok=%v pos=%d, want match at 0", ok, next.Pos())
	}
}

func TestZeroOrMore(t *testing.T) {
	next, ok, _ := apply(Sequence("x", ZeroOrMore("y"), "z"), "xz", 0)
	if !ok || next.Pos() != 2 {
		t.Errorf("got ok=%v pos=%d, want match to 2", ok, next.Pos())
	}
	next, ok, _ = apply(Sequence("x", ZeroOrMore("y"), "z"), "xyyyz", 0)
	if !ok || next.Pos() != 5 {
		t.Errorf("got ok=%v pos=%d, want match to 5", ok, next.Pos())
	}
}

func TestSequenceIsAtomic(t *testing.T) {
	c := Pattern(`([a-z])`)
	rule := Sequence(c, c, Literal("!"))

	s := newState("ab?", 0)
	s.ctx.push("outer")
	s.mark = 1

	if _, ok := rule(s); ok {
		t.Fatal("sequence matched")
	}
	if diff := cmp.Diff([]any{"outer"}, s.ctx.values); diff != "" {
		t.Errorf("values leaked from failed sequence (-want +got):\n%s", diff)
	}
}

func TestChoiceIsOrdered(t *testing.T) {
	tests := []struct {
		name    string
		rule    Rule
		input   string
		ok      bool
		wantPos int
	}{
		{"first fails", Choice("x", "ab"), "abc", true, 2},
		{"first wins", Choice("a", "ab"), "abc", true, 1},
		{"longer first", Choice("ab", "a"), "abc", true, 2},
		{"all fail", Choice("x", "y"), "abc", false, 0},
		{"no backtrack into choice", Sequence(Choice("a", "ab"), "c"), "abc", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, ok, _ := apply(tt.rule, tt.input, 0)
			if ok != tt.ok {
				t.Fatalf("got ok=%v, want %v", ok, tt.ok)
			}
			if ok && next.Pos() != tt.wantPos {
				t.Errorf("got pos %d, want %d", next.Pos(), tt.wantPos)
			}
		})
	}
}

func TestChoiceDropsFailedAlternativeValues(t *testing.T) {
	c := Pattern(`([a-z])`)
	rule := Choice(Sequence(c, "!"), Sequence(c, c))

	_, ok, s := apply(rule, "ab", 0)
	if !ok {
		t.Fatal("choice failed")
	}
	if diff := cmp.Diff([]any{"a", "b"}, s.ctx.values); diff != "" {
		t.Errorf("values mismatch (-want +got):\n%s", diff)
	}
}

func TestOptional(t *testing.T) {
	rule := Sequence("a", Optional("b"), "c")
	for _, input := range []string{"abc", "ac"} {
		next, ok, _ := apply(rule, input, 0)
		if !ok || next.Pos() != len(input) {
			t.Errorf("%q: got ok=%v pos=%d", input, ok, next.Pos())
		}
	}
}

func TestNodeReducesToOneValue(t *testing.T) {
	digit := Pattern(`([0-9])`)
	rule := Node(Sequence(digit, digit), join)

	v, err := Compile(rule).Parse("12")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if v != "12" {
		t.Errorf("got %v, want 12", v)
	}

	_, ok, s := apply(rule, "12", 0)
	if !ok {
		t.Fatal("node failed")
	}
	if len(s.ctx.values) != 1 {
		t.Errorf("got %d values on the stack, want 1", len(s.ctx.values))
	}
}

func TestNodeSeesOnlyItsOwnValues(t *testing.T) {
	word := Pattern(`([a-z]+)`)
	var seen [][]any
	inner := Node(word, func(values []any, before, after State) any {
		seen = append(seen, values)
		return strings.ToUpper(values[0].(string))
	})
	rule := Node(Sequence(word, " ", inner), join)

	v, err := Compile(rule).Parse("ab cd")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if v != "abCD" {
		t.Errorf("got %v, want abCD", v)
	}
	if diff := cmp.Diff([][]any{{"cd"}}, seen); diff != "" {
		t.Errorf("inner reducer values (-want +got):\n%s", diff)
	}
}

func TestNodeStates(t *testing.T) {
	rule := IgnoreScope(`\s+`, Node(Sequence("a", "b"), func(values []any, before, after State) any {
		return Matched(before, after)
	}))
	v, err := Compile(rule).Parse("a  b  ")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if v != "a  b" {
		t.Errorf("got %q, want %q", v, "a  b")
	}
}

func TestParens(t *testing.T) {
	p := Compile(parens())

	tests := []struct {
		input string
		depth int
	}{
		{"()", 1},
		{"(())", 2},
		{"((()))", 3},
		{"(()(()))", 3},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			v, err := p.Parse(tt.input)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if v != tt.depth {
				t.Errorf("got depth %v, want %d", v, tt.depth)
			}
		})
	}

	_, err := p.Parse("(()")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("got %v, want *ParseError", err)
	}
	if perr.Offset != 3 {
		t.Errorf("got offset %d, want 3", perr.Offset)
	}
	if perr.Remainder != "" {
		t.Errorf("got remainder %q, want empty", perr.Remainder)
	}
}

func TestIgnoreScope(t *testing.T) {
	rule := IgnoreScope(`\s+`, Sequence("a", "b"))
	for _, input := range []string{"a   b", "ab", "a\n\tb  "} {
		m, err := Compile(rule).Run(input)
		if err != nil {
			t.Errorf("%q: %v", input, err)
			continue
		}
		if m.End != len(input) {
			t.Errorf("%q: got end %d, want %d", input, m.End, len(input))
		}
	}
}

func TestNestedIgnoreScopes(t *testing.T) {
	word := Sequence(Literal(""), Node(IgnoreScope(nil, OneOrMore(Pattern(`[a-z]`))), func(values []any, before, after State) any {
		return Matched(before, after)
	}))
	comment := `(?:\s|#[^\n]*)+`
	rule := Node(IgnoreScope(comment, OneOrMore(word)), func(values []any, before, after State) any {
		return values
	})

	v, err := Compile(rule).Parse("  ab # note\n cd\tef # end")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if diff := cmp.Diff([]any{"ab", "cd", "ef"}, v); diff != "" {
		t.Errorf("words mismatch (-want +got):\n%s", diff)
	}

	inner := IgnoreScope(`\s+`, Sequence("a", IgnoreScope(`-+`, Sequence("b", "c")), "d"))
	for input, ok := range map[string]bool{
		"ab--c d":  true,
		"a b--c d": false,
		"ab c d":   false,
	} {
		_, err := Compile(inner, WithPartial()).Run(input)
		if (err == nil) != ok {
			t.Errorf("%q: got err=%v, want ok=%v", input, err, ok)
		}
	}
}

func TestIgnoreScopeRestoresStack(t *testing.T) {
	rule := IgnoreScope(`\s+`, Sequence("a", IgnoreScope(`x+`, "b"), "c"))
	_, ok, s := apply(rule, "abxx c", 0)
	if !ok {
		t.Fatal("rule failed")
	}
	if len(s.ctx.ignore) != 0 {
		t.Errorf("ignore stack not restored: %d entries", len(s.ctx.ignore))
	}

	_, ok, s = apply(rule, "a q", 0)
	if ok {
		t.Fatal("rule matched")
	}
	if len(s.ctx.ignore) != 0 {
		t.Errorf("ignore stack not restored after failure: %d entries", len(s.ctx.ignore))
	}
}

func TestFurthestIsMonotonic(t *testing.T) {
	rule := Choice(Sequence("a", "b", "c", "d"), Sequence("a", "x"))
	_, ok, s := apply(rule, "abcx", 0)
	if ok {
		t.Fatal("rule matched")
	}
	if s.Furthest() != 3 {
		t.Errorf("got furthest %d, want 3", s.Furthest())
	}
}

func TestPartial(t *testing.T) {
	rule := Node(OneOrMore("ab"), join)

	_, err := Compile(rule).Parse("ababx")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("got %v, want *ParseError", err)
	}
	if perr.Remainder != "x" {
		t.Errorf("got remainder %q, want x", perr.Remainder)
	}

	m, err := Compile(rule, WithPartial()).Run("ababx")
	if err != nil {
		t.Fatalf("partial parse: %v", err)
	}
	if m.End != 4 {
		t.Errorf("got end %d, want 4", m.End)
	}
}

func TestStartOffset(t *testing.T) {
	rule := Node(Pattern(`([0-9]+)`), join)

	v, err := Compile(rule, WithStart(3)).Parse("abc 123")
	if err == nil {
		t.Fatalf("got %v, want error for the space at offset 3", v)
	}
	v, err = Compile(rule, WithStart(4)).Parse("abcd123")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if v != "123" {
		t.Errorf("got %v, want 123", v)
	}

	if _, err := Compile(rule, WithStart(10)).Parse("abc"); err == nil {
		t.Error("expected error for start offset past the input")
	}
}

func TestValueCount(t *testing.T) {
	tests := []struct {
		name  string
		rule  Rule
		count int
	}{
		{"none", Sequence("a", "b"), 0},
		{"two", Pattern(`(a)(b)`), 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.rule).Parse("ab")
			var verr *ValueCountError
			if !errors.As(err, &verr) {
				t.Fatalf("got %v, want *ValueCountError", err)
			}
			if verr.Count != tt.count {
				t.Errorf("got count %d, want %d", verr.Count, tt.count)
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	rule := IgnoreScope(`\s+`, Node(Sequence("let", "x", "=", Pattern(`([0-9]+)`)), join))
	_, err := Compile(rule).Parse("let\n  x = y")
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("got %v, want *ParseError", err)
	}
	want := Position{Offset: 10, Line: 2, Column: 7}
	if diff := cmp.Diff(want, perr.Position); diff != "" {
		t.Errorf("position mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(err.Error(), `"y"`) {
		t.Errorf("error %q does not quote the remainder", err)
	}
}

func TestRef(t *testing.T) {
	list := NewRef("list")
	item := Choice(Pattern(`([a-z])`), list)
	list.Set(Node(Sequence("[", ZeroOrMore(item), "]"), func(values []any, before, after State) any {
		return values
	}))

	v, err := Compile(list).Parse("[a[b[]]c]")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	want := []any{"a", []any{"b", []any{}}, "c"}
	if diff := cmp.Diff(want, v, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestUnsetRefPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	Compile(NewRef("missing")).Parse("x")
}

func TestUse(t *testing.T) {
	custom := func(s State) (State, bool) { return s, true }
	for _, r := range []any{"a", Pattern(`a`), Rule(custom), custom, NewRef("r")} {
		if Use(r) == nil {
			t.Errorf("Use(%T) returned nil", r)
		}
	}

	defer func() {
		if recover() == nil {
			t.Error("expected panic for an int rule")
		}
	}()
	Use(42)
}

func TestConcurrentParses(t *testing.T) {
	p := Compile(IgnoreScope(`\s+`, parens()))

	var wg sync.WaitGroup
	errs := make(chan error, 32)
	for i := 1; i <= 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			input := strings.Repeat("( ", n) + strings.Repeat(") ", n)
			v, err := p.Parse(input)
			if err != nil {
				errs <- err
				return
			}
			if v != n {
				errs <- fmt.Errorf("depth %d: got %v", n, v)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
