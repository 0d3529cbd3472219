package mdx

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ErrSyntax is returned for ESM source the literal parser cannot read.
var ErrSyntax = errors.New("mdx: syntax error")

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokPunct
	tokString
	tokNumber
	tokIdent
)

type token struct {
	kind  tokenKind
	text  string
	value any
	start int
	end   int
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

func syntaxErr(pos int, format string, args ...any) error {
	return fmt.Errorf("%w at offset %d: %s", ErrSyntax, pos, fmt.Sprintf(format, args...))
}

// tokenize splits ESM source into tokens, skipping whitespace and comments.
func tokenize(src string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			i++
		case strings.HasPrefix(src[i:], "//"):
			nl := strings.IndexByte(src[i:], '\n')
			if nl < 0 {
				i = len(src)
			} else {
				i += nl
			}
		case strings.HasPrefix(src[i:], "/*"):
			end := strings.Index(src[i+2:], "*/")
			if end < 0 {
				return nil, syntaxErr(i, "unterminated comment")
			}
			i += end + 4
		case c == '"' || c == '\'' || c == '`':
			s, n, err := scanString(src, i)
			if err != nil {
				return nil, err
			}
			toks = append(toks, token{kind: tokString, text: src[i : i+n], value: s, start: i, end: i + n})
			i += n
		case isDigit(c) || (c == '.' && i+1 < len(src) && isDigit(src[i+1])) ||
			(c == '-' && i+1 < len(src) && (isDigit(src[i+1]) || src[i+1] == '.')):
			n := scanNumber(src, i)
			text := src[i : i+n]
			f, err := parseNumber(text)
			if err != nil {
				return nil, syntaxErr(i, "bad number %q", text)
			}
			toks = append(toks, token{kind: tokNumber, text: text, value: f, start: i, end: i + n})
			i += n
		case isIdentStart(rune(c)) || c >= utf8.RuneSelf:
			j := i
			for j < len(src) {
				r, size := utf8.DecodeRuneInString(src[j:])
				if !isIdentPart(r) {
					break
				}
				j += size
			}
			if j == i {
				return nil, syntaxErr(i, "unexpected character %q", src[i])
			}
			toks = append(toks, token{kind: tokIdent, text: src[i:j], start: i, end: j})
			i = j
		default:
			toks = append(toks, token{kind: tokPunct, text: src[i : i+1], start: i, end: i + 1})
			i++
		}
	}
	toks = append(toks, token{kind: tokEOF, start: len(src), end: len(src)})
	return toks, nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func scanNumber(src string, i int) int {
	j := i
	if src[j] == '-' {
		j++
	}
	for j < len(src) {
		c := src[j]
		if isDigit(c) || c == '.' || c == '_' || c == 'x' || c == 'X' ||
			(c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') {
			j++
			continue
		}
		if (c == '+' || c == '-') && (src[j-1] == 'e' || src[j-1] == 'E') {
			j++
			continue
		}
		break
	}
	return j - i
}

func parseNumber(text string) (float64, error) {
	clean := strings.ReplaceAll(text, "_", "")
	neg := strings.HasPrefix(clean, "-")
	body := strings.TrimPrefix(clean, "-")
	if strings.HasPrefix(body, "0x") || strings.HasPrefix(body, "0X") {
		n, err := strconv.ParseInt(body[2:], 16, 64)
		if err != nil {
			return 0, err
		}
		if neg {
			n = -n
		}
		return float64(n), nil
	}
	return strconv.ParseFloat(clean, 64)
}

// scanString reads a quoted string starting at src[i] and returns its
// decoded value and source length. Template literals with substitutions
// are rejected.
func scanString(src string, i int) (string, int, error) {
	quote := src[i]
	var b strings.Builder
	j := i + 1
	for j < len(src) {
		c := src[j]
		switch {
		case c == quote:
			return b.String(), j + 1 - i, nil
		case c == '\\':
			if j+1 >= len(src) {
				return "", 0, syntaxErr(j, "unterminated escape")
			}
			esc := src[j+1]
			j += 2
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case '0':
				b.WriteByte(0)
			case 'u':
				if j+4 > len(src) {
					return "", 0, syntaxErr(j, "short unicode escape")
				}
				n, err := strconv.ParseUint(src[j:j+4], 16, 32)
				if err != nil {
					return "", 0, syntaxErr(j, "bad unicode escape")
				}
				b.WriteRune(rune(n))
				j += 4
			case '\n':
			default:
				b.WriteByte(esc)
			}
		case quote == '`' && c == '$' && j+1 < len(src) && src[j+1] == '{':
			return "", 0, syntaxErr(j, "template substitution not supported")
		case c == '\n' && quote != '`':
			return "", 0, syntaxErr(j, "newline in string")
		default:
			b.WriteByte(c)
			j++
		}
	}
	return "", 0, syntaxErr(i, "unterminated string")
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) advance() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) expect(text string) error {
	t := p.advance()
	if !t.is(tokPunct, text) {
		return syntaxErr(t.start, "expected %q, found %q", text, t.text)
	}
	return nil
}

// ParseExpression parses a single object, array or primitive literal.
func ParseExpression(src string) (Expression, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	e, err := p.expression()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, syntaxErr(t.start, "unexpected %q after expression", t.text)
	}
	return e, nil
}

func (p *parser) expression() (Expression, error) {
	t := p.advance()
	switch t.kind {
	case tokString, tokNumber:
		return &Literal{Value: t.value}, nil
	case tokIdent:
		switch t.text {
		case "true":
			return &Literal{Value: true}, nil
		case "false":
			return &Literal{Value: false}, nil
		case "null", "undefined":
			return &Literal{Value: nil}, nil
		}
		if next := p.peek(); next.is(tokPunct, "(") || next.is(tokPunct, ".") {
			return nil, syntaxErr(next.start, "only literal initializers are supported")
		}
		return &Identifier{Name: t.text}, nil
	case tokPunct:
		switch t.text {
		case "{":
			return p.object()
		case "[":
			return p.array()
		}
	}
	return nil, syntaxErr(t.start, "unexpected %q", t.text)
}

func (p *parser) object() (Expression, error) {
	obj := &ObjectExpression{}
	for {
		t := p.advance()
		if t.is(tokPunct, "}") {
			return obj, nil
		}
		var key Expression
		switch t.kind {
		case tokIdent:
			key = &Identifier{Name: t.text}
		case tokString, tokNumber:
			key = &Literal{Value: t.value}
		default:
			return nil, syntaxErr(t.start, "unexpected %q in object", t.text)
		}

		prop := &Property{Key: key, Kind: "init"}
		if next := p.peek(); t.kind == tokIdent && (next.is(tokPunct, ",") || next.is(tokPunct, "}")) {
			prop.Shorthand = true
			prop.Value = &Identifier{Name: t.text}
		} else {
			if err := p.expect(":"); err != nil {
				return nil, err
			}
			v, err := p.expression()
			if err != nil {
				return nil, err
			}
			prop.Value = v
		}
		obj.Properties = append(obj.Properties, prop)

		sep := p.advance()
		switch {
		case sep.is(tokPunct, ","):
		case sep.is(tokPunct, "}"):
			return obj, nil
		default:
			return nil, syntaxErr(sep.start, "expected \",\" or \"}\", found %q", sep.text)
		}
	}
}

func (p *parser) array() (Expression, error) {
	arr := &ArrayExpression{}
	for {
		if p.peek().is(tokPunct, "]") {
			p.advance()
			return arr, nil
		}
		el, err := p.expression()
		if err != nil {
			return nil, err
		}
		arr.Elements = append(arr.Elements, el)
		sep := p.advance()
		switch {
		case sep.is(tokPunct, ","):
		case sep.is(tokPunct, "]"):
			return arr, nil
		default:
			return nil, syntaxErr(sep.start, "expected \",\" or \"]\", found %q", sep.text)
		}
	}
}

// exportDeclaration parses `export const a = …, b = …;` from the current
// position to the end of the token stream.
func (p *parser) exportDeclaration() (*ExportNamedDeclaration, error) {
	if t := p.advance(); !t.is(tokIdent, "export") {
		return nil, syntaxErr(t.start, "expected export")
	}
	kw := p.advance()
	if kw.kind != tokIdent || (kw.text != "const" && kw.text != "let" && kw.text != "var") {
		return nil, syntaxErr(kw.start, "expected variable declaration")
	}
	decl := &VariableDeclaration{Kind: kw.text}
	for {
		id := p.advance()
		if id.kind != tokIdent {
			return nil, syntaxErr(id.start, "expected identifier")
		}
		d := &VariableDeclarator{ID: &Identifier{Name: id.text}}
		if p.peek().is(tokPunct, "=") {
			p.advance()
			init, err := p.expression()
			if err != nil {
				return nil, err
			}
			d.Init = init
		}
		decl.Declarations = append(decl.Declarations, d)
		if !p.peek().is(tokPunct, ",") {
			break
		}
		p.advance()
	}
	if p.peek().is(tokPunct, ";") {
		p.advance()
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, syntaxErr(t.start, "unexpected %q after declaration", t.text)
	}
	return &ExportNamedDeclaration{Declaration: decl}, nil
}

// ParseProgram splits an ESM block into statements. Export declarations
// with literal initializers are modelled; everything else is kept as a
// RawStatement. Source the tokenizer cannot read becomes a single raw
// statement, never an error.
func ParseProgram(src string) *Program {
	toks, err := tokenize(src)
	if err != nil {
		return &Program{Body: []Statement{&RawStatement{Source: strings.TrimSpace(src)}}}
	}

	prog := &Program{}
	for _, span := range splitStatements(src, toks) {
		stmtToks := append(append([]token(nil), span...), token{kind: tokEOF})
		text := strings.TrimSpace(src[span[0].start:span[len(span)-1].end])
		if span[0].is(tokIdent, "export") && len(span) > 1 && span[1].kind == tokIdent &&
			(span[1].text == "const" || span[1].text == "let" || span[1].text == "var") {
			p := &parser{toks: stmtToks}
			if decl, err := p.exportDeclaration(); err == nil {
				prog.Body = append(prog.Body, decl)
				continue
			}
		}
		prog.Body = append(prog.Body, &RawStatement{Source: text})
	}
	return prog
}

// splitStatements groups tokens into statements. A statement ends at a
// top-level semicolon, or before an import/export keyword that starts a new
// line at depth zero.
func splitStatements(src string, toks []token) [][]token {
	var (
		out   [][]token
		cur   []token
		depth int
	)
	flush := func() {
		if len(cur) > 0 {
			out = append(out, cur)
			cur = nil
		}
	}
	for i, t := range toks {
		if t.kind == tokEOF {
			break
		}
		if depth == 0 && len(cur) > 0 && t.kind == tokIdent && (t.text == "import" || t.text == "export") {
			prevEnd := toks[i-1].end
			if strings.Contains(src[prevEnd:t.start], "\n") {
				flush()
			}
		}
		cur = append(cur, t)
		if t.kind == tokPunct {
			switch t.text {
			case "{", "[", "(":
				depth++
			case "}", "]", ")":
				if depth > 0 {
					depth--
				}
			case ";":
				if depth == 0 {
					flush()
				}
			}
		}
	}
	flush()
	return out
}
