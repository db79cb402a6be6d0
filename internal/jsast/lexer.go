package jsast

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf16"
	"unicode/utf8"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokPunct
	tokIdent
	tokString
	tokNumber
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokPunct:
		return "punctuation"
	case tokIdent:
		return "identifier"
	case tokString:
		return "string"
	case tokNumber:
		return "number"
	}
	return "token"
}

type token struct {
	kind tokenKind
	text string // raw text; decoded value for strings
	// raw is the quoted source of a string whose value cannot hold it
	// exactly (an unpaired surrogate escape).
	raw string
	pos Pos
}

func (t token) describe() string {
	switch t.kind {
	case tokEOF:
		return "end of input"
	case tokString:
		return fmt.Sprintf("string %q", t.text)
	default:
		return fmt.Sprintf("%q", t.text)
	}
}

// SyntaxError reports malformed input with its position.
type SyntaxError struct {
	Pos Pos
	Msg string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at %s: %s", e.Pos, e.Msg)
}

type lexer struct {
	src  string
	off  int
	line int
	col  int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1, col: 1}
}

func (l *lexer) errorf(p Pos, format string, args ...any) *SyntaxError {
	return &SyntaxError{Pos: p, Msg: fmt.Sprintf(format, args...)}
}

func (l *lexer) pos() Pos { return Pos{Line: l.line, Column: l.col} }

func (l *lexer) peekByte(ahead int) byte {
	if l.off+ahead < len(l.src) {
		return l.src[l.off+ahead]
	}
	return 0
}

// advance consumes one rune and keeps line/column in sync.
func (l *lexer) advance() rune {
	r, size := utf8.DecodeRuneInString(l.src[l.off:])
	l.off += size
	if r == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return r
}

func (l *lexer) skipSpaceAndComments() error {
	for l.off < len(l.src) {
		c := l.src[l.off]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			l.advance()
		case c == '/' && l.peekByte(1) == '/':
			for l.off < len(l.src) && l.src[l.off] != '\n' {
				l.advance()
			}
		case c == '/' && l.peekByte(1) == '*':
			start := l.pos()
			l.advance()
			l.advance()
			closed := false
			for l.off < len(l.src) {
				if l.src[l.off] == '*' && l.peekByte(1) == '/' {
					l.advance()
					l.advance()
					closed = true
					break
				}
				l.advance()
			}
			if !closed {
				return l.errorf(start, "unterminated block comment")
			}
		default:
			r, _ := utf8.DecodeRuneInString(l.src[l.off:])
			if r == 0xFEFF || r == '\u00a0' || r == '\u2028' || r == '\u2029' {
				l.advance()
				continue
			}
			return nil
		}
	}
	return nil
}

func (l *lexer) next() (token, error) {
	if err := l.skipSpaceAndComments(); err != nil {
		return token{}, err
	}
	start := l.pos()
	if l.off >= len(l.src) {
		return token{kind: tokEOF, pos: start}, nil
	}
	c := l.src[l.off]
	switch {
	case strings.IndexByte("{}[]:,;=()", c) >= 0:
		l.advance()
		return token{kind: tokPunct, text: string(c), pos: start}, nil
	case c == '-' || c == '+':
		l.advance()
		return token{kind: tokPunct, text: string(c), pos: start}, nil
	case c == '\'' || c == '"' || c == '`':
		from := l.off
		s, lossy, err := l.lexString(start, c)
		if err != nil {
			return token{}, err
		}
		t := token{kind: tokString, text: s, pos: start}
		if lossy {
			t.raw = l.src[from:l.off]
		}
		return t, nil
	case isDigit(c) || (c == '.' && isDigit(l.peekByte(1))):
		return l.lexNumber(start)
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.off:])
	if isIdentStart(r) {
		begin := l.off
		for l.off < len(l.src) {
			r, _ := utf8.DecodeRuneInString(l.src[l.off:])
			if !isIdentPart(r) {
				break
			}
			l.advance()
		}
		return token{kind: tokIdent, text: l.src[begin:l.off], pos: start}, nil
	}
	return token{}, l.errorf(start, "unexpected character %q", r)
}

func (l *lexer) lexNumber(start Pos) (token, error) {
	begin := l.off
	if l.src[l.off] == '0' && (l.peekByte(1) == 'x' || l.peekByte(1) == 'X' ||
		l.peekByte(1) == 'o' || l.peekByte(1) == 'O' || l.peekByte(1) == 'b' || l.peekByte(1) == 'B') {
		l.advance()
		l.advance()
		for l.off < len(l.src) && (isHexDigit(l.src[l.off]) || l.src[l.off] == '_') {
			l.advance()
		}
	} else {
		for l.off < len(l.src) && (isDigit(l.src[l.off]) || l.src[l.off] == '_') {
			l.advance()
		}
		if l.off < len(l.src) && l.src[l.off] == '.' {
			l.advance()
			for l.off < len(l.src) && (isDigit(l.src[l.off]) || l.src[l.off] == '_') {
				l.advance()
			}
		}
		if l.off < len(l.src) && (l.src[l.off] == 'e' || l.src[l.off] == 'E') {
			l.advance()
			if l.off < len(l.src) && (l.src[l.off] == '+' || l.src[l.off] == '-') {
				l.advance()
			}
			if l.off >= len(l.src) || !isDigit(l.src[l.off]) {
				return token{}, l.errorf(start, "malformed exponent")
			}
			for l.off < len(l.src) && isDigit(l.src[l.off]) {
				l.advance()
			}
		}
	}
	raw := l.src[begin:l.off]
	if l.off < len(l.src) {
		r, _ := utf8.DecodeRuneInString(l.src[l.off:])
		if isIdentStart(r) {
			return token{}, l.errorf(start, "identifier directly after number %q", raw)
		}
	}
	if _, err := parseNumber(raw); err != nil {
		return token{}, l.errorf(start, "malformed number %q", raw)
	}
	return token{kind: tokNumber, text: raw, pos: start}, nil
}

// parseNumber converts a JS numeric literal spelling to float64.
func parseNumber(raw string) (float64, error) {
	clean := strings.ReplaceAll(raw, "_", "")
	if len(clean) > 2 && clean[0] == '0' {
		base := 0
		switch clean[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			n, err := strconv.ParseUint(clean[2:], base, 64)
			return float64(n), err
		}
	}
	return strconv.ParseFloat(clean, 64)
}

func (l *lexer) lexString(start Pos, quote byte) (value string, lossy bool, err error) {
	l.advance()
	var b strings.Builder
	for {
		if l.off >= len(l.src) {
			return "", false, l.errorf(start, "unterminated string")
		}
		c := l.src[l.off]
		if c == quote {
			l.advance()
			return b.String(), lossy, nil
		}
		if c == '\n' && quote != '`' {
			return "", false, l.errorf(start, "unterminated string")
		}
		if quote == '`' && c == '$' && l.peekByte(1) == '{' {
			return "", false, l.errorf(l.pos(), "template substitutions are not supported")
		}
		if c != '\\' {
			r := l.advance()
			if quote == '`' && r == '\r' {
				// template literals normalize CRLF to LF
				if l.peekByte(0) == '\n' {
					continue
				}
				r = '\n'
			}
			b.WriteRune(r)
			continue
		}
		escPos := l.pos()
		l.advance()
		if l.off >= len(l.src) {
			return "", false, l.errorf(start, "unterminated string")
		}
		e := l.advance()
		switch e {
		case 'n':
			b.WriteByte('\n')
		case 'r':
			b.WriteByte('\r')
		case 't':
			b.WriteByte('\t')
		case 'b':
			b.WriteByte('\b')
		case 'f':
			b.WriteByte('\f')
		case 'v':
			b.WriteByte('\v')
		case '0':
			if isDigit(l.peekByte(0)) {
				return "", false, l.errorf(escPos, "octal escapes are not supported")
			}
			b.WriteByte(0)
		case '\r':
			if l.peekByte(0) == '\n' {
				l.advance()
			}
		case '\n', '\u2028', '\u2029':
			// line continuation
		case 'x':
			r, err := l.hexEscape(escPos, 2)
			if err != nil {
				return "", false, err
			}
			b.WriteRune(r)
		case 'u':
			r, err := l.unicodeEscape(escPos)
			if err != nil {
				return "", false, err
			}
			if utf16.IsSurrogate(r) {
				lossy = true
			}
			b.WriteRune(r)
		default:
			b.WriteRune(e)
		}
	}
}

func (l *lexer) hexEscape(p Pos, n int) (rune, error) {
	if l.off+n > len(l.src) {
		return 0, l.errorf(p, "malformed escape sequence")
	}
	v, err := strconv.ParseUint(l.src[l.off:l.off+n], 16, 32)
	if err != nil {
		return 0, l.errorf(p, "malformed escape sequence")
	}
	for i := 0; i < n; i++ {
		l.advance()
	}
	return rune(v), nil
}

func (l *lexer) unicodeEscape(p Pos) (rune, error) {
	if l.peekByte(0) != '{' {
		r, err := l.hexEscape(p, 4)
		if err != nil {
			return 0, err
		}
		// surrogate pair, e.g. \uD83D\uDE00
		if r >= 0xD800 && r <= 0xDBFF && l.peekByte(0) == '\\' && l.peekByte(1) == 'u' {
			save := *l
			l.advance()
			l.advance()
			lo, err := l.hexEscape(p, 4)
			if err == nil && lo >= 0xDC00 && lo <= 0xDFFF {
				return (r-0xD800)<<10 + (lo - 0xDC00) + 0x10000, nil
			}
			*l = save
		}
		return r, nil
	}
	l.advance()
	end := strings.IndexByte(l.src[l.off:], '}')
	if end <= 0 {
		return 0, l.errorf(p, "malformed escape sequence")
	}
	v, err := strconv.ParseUint(l.src[l.off:l.off+end], 16, 32)
	if err != nil || v > unicode.MaxRune {
		return 0, l.errorf(p, "malformed escape sequence")
	}
	for i := 0; i <= end; i++ {
		l.advance()
	}
	return rune(v), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHexDigit(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func isIdentStart(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r) || r == '\u200c' || r == '\u200d'
}

// IsIdentifier reports whether s can be written as a bare property key.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if i == 0 && !isIdentStart(r) {
			return false
		}
		if !isIdentPart(r) {
			return false
		}
	}
	return true
}
