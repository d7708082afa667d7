package extract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bazelbuild/buildtools/build"
)

type tokenKind int

const (
	tokIdent tokenKind = iota
	tokString
	tokPunct
	tokOther
)

// token is a lexical unit of Python source. Comments and whitespace are
// not tokens.
type token struct {
	kind   tokenKind
	text   string
	prefix string // string literal prefix, lowercased
	start  int
	end    int
	line   int
	eol    bool // a logical line ends after this token
}

var errUnterminated = errors.New("unterminated string literal")

var stringPrefixes = map[string]bool{
	"r": true, "u": true, "b": true, "f": true,
	"br": true, "rb": true, "fr": true, "rf": true,
}

// operators lists the multi-character operators, longest first.
var operators = []string{
	"**=", "//=", ">>=", "<<=", "...",
	"**", "//", "==", "!=", "<=", ">=", ":=", "->", "<<", ">>",
	"+=", "-=", "*=", "/=", "%=", "@=", "&=", "|=", "^=",
}

// tokenize splits Python source into tokens. It understands just enough
// of the language to tell code from string literals and comments, to
// check that brackets balance and to know where logical lines end.
func tokenize(src string) ([]token, error) {
	var toks []token
	var stack []byte
	line := 1
	for i := 0; i < len(src); {
		c := src[i]
		switch {
		case c == '\n':
			if len(stack) == 0 && len(toks) > 0 {
				toks[len(toks)-1].eol = true
			}
			line++
			i++
		case c == '\\' && strings.HasPrefix(strings.TrimPrefix(src[i+1:], "\r"), "\n"):
			line++
			i = strings.IndexByte(src[i:], '\n') + i + 1
		case c == ' ' || c == '\t' || c == '\r' || c == '\f' || c == '\\':
			i++
		case c == '#':
			for i < len(src) && src[i] != '\n' {
				i++
			}
		case c == '"' || c == '\'':
			end, err := stringEnd(src, i)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			toks = append(toks, token{kind: tokString, text: src[i:end], start: i, end: end, line: line})
			line += strings.Count(src[i:end], "\n")
			i = end
		case isIdentStart(c):
			j := i
			for j < len(src) && isIdentChar(src[j]) {
				j++
			}
			word := src[i:j]
			if j < len(src) && (src[j] == '"' || src[j] == '\'') && stringPrefixes[strings.ToLower(word)] {
				end, err := stringEnd(src, j)
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				toks = append(toks, token{kind: tokString, text: src[i:end], prefix: strings.ToLower(word), start: i, end: end, line: line})
				line += strings.Count(src[j:end], "\n")
				i = end
				continue
			}
			toks = append(toks, token{kind: tokIdent, text: word, start: i, end: j, line: line})
			i = j
		case c >= '0' && c <= '9':
			j := i
			for j < len(src) && (isIdentChar(src[j]) || src[j] == '.') {
				j++
			}
			toks = append(toks, token{kind: tokOther, text: src[i:j], start: i, end: j, line: line})
			i = j
		default:
			n := 1
			switch c {
			case '(', '[', '{':
				stack = append(stack, c)
			case ')', ']', '}':
				if len(stack) == 0 || stack[len(stack)-1] != opening(c) {
					return nil, fmt.Errorf("line %d: unmatched %q", line, c)
				}
				stack = stack[:len(stack)-1]
			default:
				for _, op := range operators {
					if strings.HasPrefix(src[i:], op) {
						n = len(op)
						break
					}
				}
			}
			toks = append(toks, token{kind: tokPunct, text: src[i : i+n], start: i, end: i + n, line: line})
			i += n
		}
	}
	if len(stack) > 0 {
		return nil, fmt.Errorf("line %d: unclosed %q", line, stack[len(stack)-1])
	}
	if len(toks) > 0 {
		toks[len(toks)-1].eol = true
	}
	return toks, nil
}

// needsOperand holds the operators that must be followed by an operand.
var needsOperand = map[string]bool{
	"=": true, "==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true,
	":=": true, "->": true, "+": true, "-": true, "//": true, "%": true,
	"+=": true, "-=": true, "*=": true, "/=": true, "//=": true, "%=": true,
	"**=": true, "@=": true, "&=": true, "|=": true, "^=": true, ">>=": true, "<<=": true,
}

// notOperand holds the tokens that can neither start an operand nor a
// statement.
var notOperand = map[string]bool{
	"=": true, "==": true, "!=": true, "<=": true, ">=": true, ":=": true, "->": true,
	"+=": true, "-=": true, "*=": true, "/=": true, "//=": true, "%=": true,
	"**=": true, "@=": true, "&=": true, "|=": true, "^=": true, ">>=": true, "<<=": true,
	")": true, "]": true, "}": true, ",": true, ";": true,
}

// checkSyntax rejects operator sequences no Python statement can contain,
// such as "x = = 1" or an assignment with nothing on its right. It is not
// a full grammar check.
func checkSyntax(toks []token) error {
	for i, t := range toks {
		if t.kind != tokPunct {
			continue
		}
		lineStart := i == 0 || toks[i-1].eol || toks[i-1].text == ";"
		if lineStart && notOperand[t.text] {
			return fmt.Errorf("line %d: invalid syntax near %q", t.line, t.text)
		}
		if !needsOperand[t.text] {
			continue
		}
		if t.eol || i+1 == len(toks) {
			return fmt.Errorf("line %d: invalid syntax near %q", t.line, t.text)
		}
		if next := toks[i+1]; next.kind == tokPunct && notOperand[next.text] {
			return fmt.Errorf("line %d: invalid syntax near %q", next.line, next.text)
		}
	}
	return nil
}

// stringEnd returns the offset just past the literal whose opening quote
// is at i.
func stringEnd(src string, i int) (int, error) {
	q := src[i]
	if delim := strings.Repeat(string(q), 3); strings.HasPrefix(src[i:], delim) {
		for j := i + 3; j < len(src); j++ {
			if src[j] == '\\' {
				j++
				continue
			}
			if strings.HasPrefix(src[j:], delim) {
				return j + 3, nil
			}
		}
		return 0, errUnterminated
	}
	for j := i + 1; j < len(src); j++ {
		switch src[j] {
		case '\\':
			j++
		case q:
			return j + 1, nil
		case '\n':
			return 0, errUnterminated
		}
	}
	return 0, errUnterminated
}

func opening(c byte) byte {
	switch c {
	case ')':
		return '('
	case ']':
		return '['
	}
	return '{'
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= 0x80
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

// findCall locates the first call to name, either bare or as an attribute
// of a plain identifier, and returns the token range from the callee to
// the closing parenthesis. Definitions (def name(...)) are not calls.
func findCall(toks []token, name string) (from, to int, ok bool) {
	for i, t := range toks {
		if t.kind != tokIdent || t.text != name {
			continue
		}
		if i+1 >= len(toks) || toks[i+1].text != "(" {
			continue
		}
		from = i
		if i > 0 {
			prev := toks[i-1]
			switch {
			case prev.kind == tokIdent && prev.text == "def":
				continue
			case prev.kind == tokPunct && prev.text == ".":
				if i < 2 || toks[i-2].kind != tokIdent {
					continue
				}
				from = i - 2
			}
		}
		depth := 0
		for j := i + 1; j < len(toks); j++ {
			if toks[j].kind != tokPunct {
				continue
			}
			switch toks[j].text {
			case "(", "[", "{":
				depth++
			case ")", "]", "}":
				depth--
				if depth == 0 {
					return from, j, true
				}
			}
		}
	}
	return 0, 0, false
}

// dynamicPlaceholder stands in for literals whose value is only known at
// run time.
const dynamicPlaceholder = "__dynamic__"

// exprSource renders toks back into source text that the build parser
// accepts. Unicode prefixes are dropped, adjacent literals are joined
// into one, and f-strings and byte strings become an identifier so they
// read as dynamic values.
func exprSource(src string, toks []token) string {
	if len(toks) == 0 {
		return ""
	}
	var b strings.Builder
	last := toks[0].start
	for i := 0; i < len(toks); i++ {
		t := toks[i]
		if t.kind != tokString {
			continue
		}
		j := i + 1
		for j < len(toks) && toks[j].kind == tokString {
			j++
		}
		run := toks[i:j]
		if len(run) == 1 && t.prefix == "" {
			continue
		}
		b.WriteString(src[last:t.start])
		b.WriteString(literalSource(run))
		last = run[len(run)-1].end
		i = j - 1
	}
	b.WriteString(src[last:toks[len(toks)-1].end])
	return b.String()
}

// literalSource renders a run of adjacent string literals as one literal.
func literalSource(run []token) string {
	var value strings.Builder
	for _, t := range run {
		if strings.ContainsAny(t.prefix, "fb") {
			return dynamicPlaceholder
		}
		quoted := t.text[len(t.prefix):]
		if strings.Contains(t.prefix, "r") {
			quoted = "r" + quoted
		}
		if len(run) == 1 {
			return quoted
		}
		s, _, err := build.Unquote(quoted)
		if err != nil {
			return dynamicPlaceholder
		}
		value.WriteString(s)
	}
	return build.FormatString(&build.StringExpr{Value: value.String()})
}

// callArg is one argument of a call, split at top-level commas.
type callArg struct {
	keyword string // empty for positional, *args and **kwargs arguments
	value   []token
}

// callArgs splits the arguments of the call spanning toks[from..to].
func callArgs(toks []token, from, to int) []callArg {
	open := from
	for toks[open].text != "(" {
		open++
	}
	var args []callArg
	depth := 0
	begin := open + 1
	flush := func(end int) {
		seg := toks[begin:end]
		begin = end + 1
		if len(seg) == 0 {
			return
		}
		if len(seg) >= 2 && seg[0].kind == tokIdent && seg[1].kind == tokPunct && seg[1].text == "=" {
			args = append(args, callArg{keyword: seg[0].text, value: seg[2:]})
			return
		}
		args = append(args, callArg{value: seg})
	}
	for j := open + 1; j < to; j++ {
		t := toks[j]
		if t.kind != tokPunct {
			continue
		}
		switch t.text {
		case "(", "[", "{":
			depth++
		case ")", "]", "}":
			depth--
		case ",":
			if depth == 0 {
				flush(j)
			}
		}
	}
	flush(to)
	return args
}
