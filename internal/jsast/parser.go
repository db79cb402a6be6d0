package jsast

import "fmt"

// maxDepth bounds literal nesting so hostile input cannot exhaust the stack.
const maxDepth = 512

type parser struct {
	lex   *lexer
	tok   token
	depth int
}

func newParser(src string) (*parser, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) isPunct(s string) bool {
	return p.tok.kind == tokPunct && p.tok.text == s
}

func (p *parser) isKeyword(s string) bool {
	return p.tok.kind == tokIdent && p.tok.text == s
}

func (p *parser) expectPunct(s string) error {
	if !p.isPunct(s) {
		return p.lex.errorf(p.tok.pos, "expected %q, found %s", s, p.tok.describe())
	}
	return p.advance()
}

// ParseProgram parses a sequence of variable declarations:
//
//	[export] const|let|var <name> = <expr> [;]
func ParseProgram(src string) (*Program, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	prog := &Program{}
	for p.tok.kind != tokEOF {
		if p.isPunct(";") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		d, err := p.parseDeclaration()
		if err != nil {
			return nil, err
		}
		prog.Decls = append(prog.Decls, d)
	}
	return prog, nil
}

// ParseExpression parses a single literal expression and requires the
// input to end after it.
func ParseExpression(src string) (Node, error) {
	p, err := newParser(src)
	if err != nil {
		return nil, err
	}
	n, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	if p.isPunct(";") {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if p.tok.kind != tokEOF {
		return nil, p.lex.errorf(p.tok.pos, "unexpected %s after expression", p.tok.describe())
	}
	return n, nil
}

func (p *parser) parseDeclaration() (*Declaration, error) {
	d := &Declaration{Pos: p.tok.pos}
	if p.isKeyword("export") {
		d.Exported = true
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	if !p.isKeyword("const") && !p.isKeyword("let") && !p.isKeyword("var") {
		return nil, p.lex.errorf(p.tok.pos, "expected declaration, found %s", p.tok.describe())
	}
	d.Keyword = p.tok.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if p.tok.kind != tokIdent || isReserved(p.tok.text) {
		return nil, p.lex.errorf(p.tok.pos, "expected declaration name, found %s", p.tok.describe())
	}
	d.Name = p.tok.text
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.expectPunct("="); err != nil {
		return nil, err
	}
	init, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	d.Init = init
	if p.isPunct(",") {
		return nil, p.lex.errorf(p.tok.pos, "multiple declarators are not supported")
	}
	if p.isPunct(";") {
		if err := p.advance(); err != nil {
			return nil, err
		}
	}
	return d, nil
}

func (p *parser) parseValue() (Node, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return nil, p.lex.errorf(p.tok.pos, "literal nested deeper than %d levels", maxDepth)
	}

	t := p.tok
	switch t.kind {
	case tokString:
		if err := p.advance(); err != nil {
			return nil, err
		}
		return &String{Value: t.text, Raw: t.raw, Pos: t.pos}, nil
	case tokNumber:
		return p.parseNumber(t.pos, "")
	case tokIdent:
		if err := p.advance(); err != nil {
			return nil, err
		}
		switch t.text {
		case "true", "false":
			return &Bool{Value: t.text == "true", Pos: t.pos}, nil
		case "null":
			return &Null{Pos: t.pos}, nil
		}
		if isReserved(t.text) {
			return nil, p.lex.errorf(t.pos, "unsupported expression starting with %q", t.text)
		}
		if p.isPunct("(") {
			return nil, p.lex.errorf(p.tok.pos, "function calls are not supported")
		}
		return &Identifier{Name: t.text, Pos: t.pos}, nil
	case tokPunct:
		switch t.text {
		case "{":
			return p.parseObject()
		case "[":
			return p.parseArray()
		case "-", "+":
			if err := p.advance(); err != nil {
				return nil, err
			}
			if p.tok.kind != tokNumber {
				return nil, p.lex.errorf(p.tok.pos, "expected number after %q", t.text)
			}
			sign := ""
			if t.text == "-" {
				sign = "-"
			}
			return p.parseNumber(t.pos, sign)
		}
	}
	return nil, p.lex.errorf(t.pos, "unexpected %s", t.describe())
}

func (p *parser) parseNumber(pos Pos, sign string) (Node, error) {
	raw := p.tok.text
	v, err := parseNumber(raw)
	if err != nil {
		return nil, p.lex.errorf(p.tok.pos, "malformed number %q", raw)
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if sign == "-" {
		v = -v
	}
	return &Number{Value: v, Raw: sign + raw, Pos: pos}, nil
}

func (p *parser) parseObject() (Node, error) {
	obj := &Object{Pos: p.tok.pos}
	if err := p.advance(); err != nil {
		return nil, err
	}
	for !p.isPunct("}") {
		prop, err := p.parseProperty()
		if err != nil {
			return nil, err
		}
		obj.Props = append(obj.Props, prop)
		if p.isPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		if !p.isPunct("}") {
			return nil, p.lex.errorf(p.tok.pos, "expected \",\" or \"}\" in object, found %s", p.tok.describe())
		}
	}
	return obj, p.advance()
}

func (p *parser) parseProperty() (*Property, error) {
	t := p.tok
	prop := &Property{Pos: t.pos}
	switch t.kind {
	case tokIdent:
		prop.Key, prop.KeyKind = t.text, KeyIdent
	case tokString:
		prop.Key, prop.KeyKind = t.text, KeyString
	case tokNumber:
		prop.Key, prop.KeyKind = t.text, KeyNumber
	default:
		if t.kind == tokPunct && t.text == "[" {
			return nil, p.lex.errorf(t.pos, "computed keys are not supported")
		}
		return nil, p.lex.errorf(t.pos, "expected property key, found %s", t.describe())
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if !p.isPunct(":") {
		if t.kind == tokIdent && (p.isPunct(",") || p.isPunct("}")) {
			return nil, p.lex.errorf(t.pos, "shorthand property %q is not supported", t.text)
		}
		return nil, p.lex.errorf(p.tok.pos, "expected \":\" after key %q, found %s", t.text, p.tok.describe())
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	v, err := p.parseValue()
	if err != nil {
		return nil, err
	}
	prop.Value = v
	return prop, nil
}

func (p *parser) parseArray() (Node, error) {
	arr := &Array{Pos: p.tok.pos}
	if err := p.advance(); err != nil {
		return nil, err
	}
	for !p.isPunct("]") {
		if p.isPunct(",") {
			return nil, p.lex.errorf(p.tok.pos, "array holes are not supported")
		}
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		arr.Elems = append(arr.Elems, v)
		if p.isPunct(",") {
			if err := p.advance(); err != nil {
				return nil, err
			}
			continue
		}
		if !p.isPunct("]") {
			return nil, p.lex.errorf(p.tok.pos, "expected \",\" or \"]\" in array, found %s", p.tok.describe())
		}
	}
	return arr, p.advance()
}

var reserved = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true, "do": true,
	"else": true, "export": true, "extends": true, "finally": true, "for": true,
	"function": true, "if": true, "import": true, "in": true, "instanceof": true,
	"new": true, "return": true, "super": true, "switch": true, "this": true,
	"throw": true, "try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true, "yield": true, "let": true, "await": true,
	"async": true,
}

func isReserved(name string) bool { return reserved[name] }

// MustParseExpression is ParseExpression for fixtures; it panics on error.
func MustParseExpression(src string) Node {
	n, err := ParseExpression(src)
	if err != nil {
		panic(fmt.Sprintf("jsast: %v", err))
	}
	return n
}
