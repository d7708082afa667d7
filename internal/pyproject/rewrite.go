package pyproject

import (
	"regexp"
	"strings"
)

// clausePattern matches one specifier clause, e.g. ">= 2.28.0".
const clausePattern = `[<>=!~]=?=?\s*[^\s"'#,;\])]+`

// clausesPattern matches a clause list, bare or in parentheses as in
// "pydantic (>=2.0)".
const clausesPattern = `(?:\s*\(\s*` + clausePattern + `(?:\s*,\s*` + clausePattern + `)*\s*\)` +
	`|\s*` + clausePattern + `(?:\s*,\s*` + clausePattern + `)*)`

// RewriteSpecifier replaces the version specifier of every quoted
// declaration of pkg in text with spec. The package name is matched
// case-insensitively and kept as written, along with any [extras]; a
// declaration without a specifier gains one, and a parenthesised clause
// list is replaced as a whole. Direct references ("pkg @ https://...")
// are not touched. Everything else in text is left byte-for-byte intact.
// Applying it twice with the same spec is the same as applying it once.
func RewriteSpecifier(text, pkg, spec string) string {
	re := regexp.MustCompile(`(?i)(["'])(` + regexp.QuoteMeta(pkg) + `)(\[[^\]"']*\])?(` + clausesPattern + `)?`)

	var b strings.Builder
	last := 0
	for _, m := range re.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[0], m[1]
		// "requests" must not match "requests-oauthlib".
		if end < len(text) && isNameChar(text[end]) {
			continue
		}
		// Leave `name = "requests"` alone; dependencies live in arrays.
		if isAssignedValue(text, start) {
			continue
		}
		if strings.HasPrefix(strings.TrimLeft(text[end:], " \t"), "@") {
			continue
		}
		keep := m[5] // end of name
		if m[7] >= 0 {
			keep = m[7] // end of extras
		}
		b.WriteString(text[last:keep])
		b.WriteString(spec)
		last = end
	}
	if last == 0 {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

func isNameChar(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '-' || c == '_' || c == '.'
}

// isAssignedValue reports whether the string literal opening at quote is
// the right-hand side of a key assignment.
func isAssignedValue(text string, quote int) bool {
	prev := strings.TrimRight(text[:quote], " \t\r\n")
	return strings.HasSuffix(prev, "=")
}
