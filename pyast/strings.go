package pyast

import (
	"strconv"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// str splits a string literal into its prefix and the text between quotes.
func (c converter) str(n *sitter.Node) Expr {
	span := c.span(n)
	text := span.Text

	i := strings.IndexAny(text, `'"`)
	if i < 0 {
		return &Unsupported{Span: span, Type: n.Type()}
	}
	prefix, body := text[:i], text[i:]
	quote := body[:1]
	if strings.HasPrefix(body, strings.Repeat(quote, 3)) && len(body) >= 6 {
		quote = strings.Repeat(quote, 3)
	}
	body = strings.TrimPrefix(body, quote)
	body = strings.TrimSuffix(body, quote)

	lower := strings.ToLower(prefix)
	if strings.ContainsAny(lower, "bf") {
		// Byte strings and f-strings are not plain text constants.
		kind := "bytes"
		if strings.Contains(lower, "f") {
			kind = "f-string"
		}
		return &Unsupported{Span: span, Type: kind}
	}
	if !strings.Contains(lower, "r") {
		body = unescape(body)
	}
	return &Str{Span: span, Prefix: prefix, Value: body}
}

// unescape decodes the backslash escapes of a non-raw string literal.
// Unrecognized escapes are kept as written, like Python does.
func unescape(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for {
		i := strings.IndexByte(s, '\\')
		if i < 0 || i == len(s)-1 {
			b.WriteString(s)
			return b.String()
		}
		b.WriteString(s[:i])
		s = s[i:]

		switch c := s[1]; {
		case c == '\n':
			// Line continuation.
			s = s[2:]
		case c == '\r':
			s = strings.TrimPrefix(s[2:], "\n")
		case c == '\'' || c == '"':
			b.WriteByte(c)
			s = s[2:]
		case c >= '0' && c <= '7':
			n, v := 1, rune(c-'0')
			for n < 3 && n+1 < len(s) && s[n+1] >= '0' && s[n+1] <= '7' {
				v = v*8 + rune(s[n+1]-'0')
				n++
			}
			b.WriteRune(v)
			s = s[n+1:]
		default:
			r, _, tail, err := strconv.UnquoteChar(s, 0)
			if err != nil {
				b.WriteByte('\\')
				s = s[1:]
				continue
			}
			b.WriteRune(r)
			s = tail
		}
	}
}

// docstring returns the cleaned docstring of a function body, if its first
// statement is a plain string literal.
func (c converter) docstring(body *sitter.Node) (string, bool) {
	children := Children(body)
	if len(children) == 0 || children[0].Type() != "expression_statement" {
		return "", false
	}
	exprs := Children(children[0])
	if len(exprs) != 1 || exprs[0].Type() != "string" {
		return "", false
	}
	s, ok := c.str(exprs[0]).(*Str)
	if !ok {
		return "", false
	}
	return CleanDoc(s.Value), true
}

// CleanDoc normalizes docstring indentation: tabs are expanded, the first
// line loses its leading whitespace, the common indentation of the remaining
// lines is removed and leading and trailing blank lines are dropped.
func CleanDoc(doc string) string {
	lines := strings.Split(expandTabs(doc), "\n")

	margin := -1
	for _, line := range lines[1:] {
		content := strings.TrimLeft(line, " ")
		if content == "" {
			continue
		}
		indent := len(line) - len(content)
		if margin < 0 || indent < margin {
			margin = indent
		}
	}

	lines[0] = strings.TrimLeft(lines[0], " ")
	if margin > 0 {
		for i := 1; i < len(lines); i++ {
			if len(lines[i]) >= margin {
				lines[i] = lines[i][margin:]
			} else {
				lines[i] = strings.TrimLeft(lines[i], " ")
			}
		}
	}

	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	return strings.Join(lines, "\n")
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		switch r {
		case '\t':
			n := 8 - col%8
			b.WriteString(strings.Repeat(" ", n))
			col += n
		case '\n':
			b.WriteRune(r)
			col = 0
		default:
			b.WriteRune(r)
			col++
		}
	}
	return b.String()
}
