// Package json parses JSON text into Go values.
//
// Objects become map[string]any, arrays []any, strings string, numbers
// float64, true and false bool, and null nil, the same mapping
// encoding/json uses when decoding into an interface value.
package json

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/dhamidi/peg/peg"
)

const whitespace = `[ \t\n\r]+`

var (
	value = peg.NewRef("value")

	str = peg.Node(peg.Pattern(`"((?:[^"\\\x00-\x1f]|\\["\\/bfnrt]|\\u[0-9a-fA-F]{4})*)"`), func(values []any, before, after peg.State) any {
		return unescape(values[0].(string))
	})

	number = peg.Node(peg.Pattern(`(-?(?:0|[1-9][0-9]*)(?:\.[0-9]+)?(?:[eE][+-]?[0-9]+)?)`), func(values []any, before, after peg.State) any {
		// Out of range numbers become ±Inf.
		f, _ := strconv.ParseFloat(values[0].(string), 64)
		return f
	})

	array = peg.Node(peg.Sequence("[", peg.Optional(peg.Sequence(value, peg.ZeroOrMore(peg.Sequence(",", value)))), "]"), func(values []any, before, after peg.State) any {
		return append(make([]any, 0, len(values)), values...)
	})

	member = peg.Sequence(str, ":", value)

	object = peg.Node(peg.Sequence("{", peg.Optional(peg.Sequence(member, peg.ZeroOrMore(peg.Sequence(",", member)))), "}"), func(values []any, before, after peg.State) any {
		obj := make(map[string]any, len(values)/2)
		for i := 0; i+1 < len(values); i += 2 {
			obj[values[i].(string)] = values[i+1]
		}
		return obj
	})
)

func constant(text string, v any) peg.Rule {
	return peg.Node(peg.Literal(text), func(values []any, before, after peg.State) any {
		return v
	})
}

func init() {
	value.Set(peg.Choice(object, array, str, number, constant("true", true), constant("false", false), constant("null", nil)))
}

// Grammar matches a single JSON value surrounded by optional whitespace.
var Grammar = peg.IgnoreScope(whitespace, peg.Sequence(peg.Literal(""), value))

var parser = peg.Compile(Grammar)

// Parse parses a JSON document.
func Parse(text string) (any, error) {
	v, err := parser.Parse(text)
	if err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	return v, nil
}

// unescape decodes the escapes of a string body the pattern accepted.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			b.WriteByte(c)
			continue
		}
		i++
		switch s[i] {
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'u':
			r := hex4(s[i+1 : i+5])
			i += 4
			if utf16.IsSurrogate(r) && i+6 < len(s) && s[i+1] == '\\' && s[i+2] == 'u' {
				if pair := utf16.DecodeRune(r, hex4(s[i+3:i+7])); pair != unicode.ReplacementChar {
					r = pair
					i += 6
				}
			}
			b.WriteRune(r)
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func hex4(s string) rune {
	n, _ := strconv.ParseUint(s, 16, 32)
	return rune(n)
}
