package jsast

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Style controls Format output.
type Style struct {
	IndentWidth   int
	PrintWidth    int
	SingleQuote   bool
	Semicolons    bool
	TrailingComma bool
}

// DefaultStyle matches the web project's prettier settings:
// 2 spaces, single quotes, no semicolons, no trailing commas, 80 columns.
func DefaultStyle() Style {
	return Style{IndentWidth: 2, PrintWidth: 80, SingleQuote: true}
}

// Serialize renders n as compact single-line code in stored order.
func Serialize(n Node) string {
	pr := &printer{style: DefaultStyle()}
	return pr.flat(n)
}

// Format parses src as a program and pretty-prints it. The result has no
// trailing newline. Format(Format(x)) == Format(x).
func Format(src string, style Style) (string, error) {
	prog, err := ParseProgram(src)
	if err != nil {
		return "", err
	}
	return FormatProgram(prog, style), nil
}

// FormatProgram pretty-prints prog.
func FormatProgram(prog *Program, style Style) string {
	pr := &printer{style: normalize(style)}
	parts := make([]string, len(prog.Decls))
	for i, d := range prog.Decls {
		parts[i] = pr.decl(d)
	}
	return strings.Join(parts, "\n\n")
}

// FormatNode pretty-prints a single value starting at column col.
func FormatNode(n Node, style Style, col int) string {
	pr := &printer{style: normalize(style)}
	return pr.render(n, 0, col, 0)
}

func normalize(s Style) Style {
	if s.IndentWidth <= 0 {
		s.IndentWidth = 2
	}
	if s.PrintWidth <= 0 {
		s.PrintWidth = 80
	}
	return s
}

type printer struct {
	style Style
}

func (pr *printer) declPrefix(d *Declaration) string {
	prefix := d.Keyword + " " + d.Name + " = "
	if d.Exported {
		prefix = "export " + prefix
	}
	return prefix
}

func (pr *printer) decl(d *Declaration) string {
	prefix := pr.declPrefix(d)
	tail := 0
	semi := ""
	if pr.style.Semicolons {
		tail, semi = 1, ";"
	}
	return prefix + pr.render(d.Init, 0, width(prefix), tail) + semi
}

// render prints n whose first character lands at column col on a line
// indented by indent spaces; tail is the width of what follows n on its
// last line (a comma, a semicolon).
func (pr *printer) render(n Node, indent, col, tail int) string {
	switch v := n.(type) {
	case *Object:
		if len(v.Props) == 0 {
			return "{}"
		}
		if f := pr.flat(v); col+width(f)+tail <= pr.style.PrintWidth && !strings.Contains(f, "\n") {
			return f
		}
		inner := indent + pr.style.IndentWidth
		pad := strings.Repeat(" ", inner)
		var b strings.Builder
		b.WriteString("{\n")
		for i, p := range v.Props {
			key := pr.key(p)
			sep, sepw := pr.separator(i, len(v.Props))
			b.WriteString(pad)
			b.WriteString(key)
			b.WriteString(": ")
			b.WriteString(pr.render(p.Value, inner, inner+width(key)+2, sepw))
			b.WriteString(sep)
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat(" ", indent))
		b.WriteByte('}')
		return b.String()
	case *Array:
		if len(v.Elems) == 0 {
			return "[]"
		}
		if f := pr.flat(v); !mustBreak(v) && col+width(f)+tail <= pr.style.PrintWidth && !strings.Contains(f, "\n") {
			return f
		}
		inner := indent + pr.style.IndentWidth
		pad := strings.Repeat(" ", inner)
		var b strings.Builder
		b.WriteString("[\n")
		for i, e := range v.Elems {
			sep, sepw := pr.separator(i, len(v.Elems))
			b.WriteString(pad)
			b.WriteString(pr.render(e, inner, inner, sepw))
			b.WriteString(sep)
			b.WriteByte('\n')
		}
		b.WriteString(strings.Repeat(" ", indent))
		b.WriteByte(']')
		return b.String()
	default:
		return pr.flat(n)
	}
}

func (pr *printer) separator(i, n int) (string, int) {
	if i < n-1 || pr.style.TrailingComma {
		return ",", 1
	}
	return "", 0
}

// mustBreak mirrors prettier: an array of several objects (or arrays) with
// more than one entry each is always printed one element per line.
func mustBreak(a *Array) bool {
	if len(a.Elems) < 2 {
		return false
	}
	switch a.Elems[0].(type) {
	case *Object:
		for _, e := range a.Elems {
			o, ok := e.(*Object)
			if !ok || len(o.Props) < 2 {
				return false
			}
		}
		return true
	case *Array:
		for _, e := range a.Elems {
			o, ok := e.(*Array)
			if !ok || len(o.Elems) < 2 {
				return false
			}
		}
		return true
	}
	return false
}

func (pr *printer) flat(n Node) string {
	switch v := n.(type) {
	case *Object:
		if len(v.Props) == 0 {
			return "{}"
		}
		parts := make([]string, len(v.Props))
		for i, p := range v.Props {
			parts[i] = pr.key(p) + ": " + pr.flat(p.Value)
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case *Array:
		parts := make([]string, len(v.Elems))
		for i, e := range v.Elems {
			parts[i] = pr.flat(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *String:
		if v.Raw != "" {
			return v.Raw
		}
		return pr.quote(v.Value)
	case *Number:
		if v.Raw != "" {
			return v.Raw
		}
		return strconv.FormatFloat(v.Value, 'f', -1, 64)
	case *Bool:
		return strconv.FormatBool(v.Value)
	case *Null:
		return "null"
	case *Identifier:
		return v.Name
	default:
		panic(fmt.Sprintf("jsast: cannot print %T", n))
	}
}

func (pr *printer) key(p *Property) string {
	switch {
	case p.KeyKind == KeyNumber:
		return p.Key
	case IsIdentifier(p.Key):
		return p.Key
	default:
		return pr.quote(p.Key)
	}
}

// quote picks the preferred quote unless the other one needs fewer escapes.
func (pr *printer) quote(s string) string {
	preferred, alternate := byte('"'), byte('\'')
	if pr.style.SingleQuote {
		preferred, alternate = '\'', '"'
	}
	q := preferred
	if strings.Count(s, string(preferred)) > strings.Count(s, string(alternate)) {
		q = alternate
	}

	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte(q)
	for i, r := range s {
		switch r {
		case rune(q):
			b.WriteByte('\\')
			b.WriteByte(q)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		case '\v':
			b.WriteString(`\v`)
		case '\u2028':
			b.WriteString(`\u2028`)
		case '\u2029':
			b.WriteString(`\u2029`)
		case 0:
			if i+1 < len(s) && isDigit(s[i+1]) {
				b.WriteString(`\x00`)
			} else {
				b.WriteString(`\0`)
			}
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\x%02x`, r)
			} else {
				b.WriteRune(r)
			}
		}
	}
	b.WriteByte(q)
	return b.String()
}

func width(s string) int { return utf8.RuneCountInString(s) }
