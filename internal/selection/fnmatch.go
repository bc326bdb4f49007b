package selection

import "strings"

// translate rewrites a shell (fnmatch) pattern into path.Match syntax.
// In fnmatch "[!...]" negates a class, '^' and '\' are literal, and an
// unclosed '[' matches itself.
func translate(pattern string) string {
	var b strings.Builder
	n := len(pattern)
	for i := 0; i < n; i++ {
		c := pattern[i]
		switch c {
		case '*', '?':
			b.WriteByte(c)
		case '\\', ']':
			b.WriteByte('\\')
			b.WriteByte(c)
		case '[':
			j := i + 1
			if j < n && pattern[j] == '!' {
				j++
			}
			if j < n && pattern[j] == ']' {
				j++
			}
			for j < n && pattern[j] != ']' {
				j++
			}
			if j >= n {
				b.WriteString(`\[`)
				continue
			}
			b.WriteString(translateClass(pattern[i+1 : j]))
			i = j
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// translateClass converts the body of a bracket expression.
func translateClass(body string) string {
	var b strings.Builder
	b.WriteByte('[')
	if strings.HasPrefix(body, "!") {
		b.WriteByte('^')
		body = body[1:]
	}
	last := len(body) - 1
	for k := 0; k < len(body); k++ {
		c := body[k]
		switch {
		case c == '\\' || c == ']' || c == '^':
			b.WriteByte('\\')
		case c == '-' && (k == 0 || k == last):
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte(']')
	return b.String()
}
