package parser

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/directord/a2dd/internal/document"
)

// RawParamsKey collects free-form words that are not key=value pairs.
const RawParamsKey = "_raw_params"

var kvKeyRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// SplitArgs splits a module argument string on whitespace. Quoted sections
// and Jinja2 expressions ({{ }}, {% %}, {# #}) are kept whole.
func SplitArgs(s string) []string {
	var (
		tokens []string
		cur    strings.Builder
		quote  rune
		depth  int
	)
	runes := []rune(s)

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		var next rune
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch {
		case quote != 0:
			cur.WriteRune(r)
			if r == '\\' && next != 0 {
				cur.WriteRune(next)
				i++
				continue
			}
			if r == quote {
				quote = 0
			}
		case r == '"' || r == '\'':
			quote = r
			cur.WriteRune(r)
		case r == '{' && (next == '{' || next == '%' || next == '#'):
			depth++
			cur.WriteRune(r)
			cur.WriteRune(next)
			i++
		case depth > 0 && (r == '}' || r == '%' || r == '#') && next == '}':
			depth--
			cur.WriteRune(r)
			cur.WriteRune(next)
			i++
		case unicode.IsSpace(r) && depth == 0:
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()

	return tokens
}

// ParseKV parses "key=value key2='quoted value'" into a mapping. Words that
// are not key=value pairs are joined under RawParamsKey. Values stay
// strings.
func ParseKV(s string) *document.Map {
	m := document.NewMap()
	var raw []string

	for _, token := range SplitArgs(s) {
		idx := strings.IndexRune(token, '=')
		if idx <= 0 || !kvKeyRe.MatchString(token[:idx]) {
			raw = append(raw, token)
			continue
		}
		m.Set(token[:idx], unquote(token[idx+1:]))
	}

	if len(raw) > 0 {
		m.Set(RawParamsKey, strings.Join(raw, " "))
	}
	return m
}

func unquote(v string) string {
	if len(v) < 2 {
		return v
	}
	first, last := v[0], v[len(v)-1]
	if first != last || (first != '"' && first != '\'') {
		return v
	}
	inner := v[1 : len(v)-1]
	if first == '"' {
		inner = strings.ReplaceAll(inner, `\"`, `"`)
	} else {
		inner = strings.ReplaceAll(inner, `\'`, `'`)
	}
	return inner
}
