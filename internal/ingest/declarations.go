package ingest

import (
	"context"
	"sort"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
)

// declarationQuery matches variable declarations that are direct children
// of the program, exported or not.
const declarationQuery = `
(program (lexical_declaration (variable_declarator name: (identifier) @name value: (_) @value)) @decl)
(program (variable_declaration (variable_declarator name: (identifier) @name value: (_) @value)) @decl)
(program (export_statement declaration: (lexical_declaration (variable_declarator name: (identifier) @name value: (_) @value))) @decl)
`

// Declaration is a top-level variable declaration found in a script.
// Offsets are byte offsets into the searched source.
type Declaration struct {
	Name     string
	Keyword  string
	Exported bool
	// Start/End span the whole statement, export keyword and semicolon included.
	Start int
	End   int
	// ValueStart/ValueEnd span the initializer expression.
	ValueStart int
	ValueEnd   int
	// Line is the 0-based row of Start.
	Line int
	// Indent is the whitespace between the start of the line and Start;
	// empty when the statement does not begin its line.
	Indent string
	// Declarators counts the declarators of the statement (`const a = 1, b = 2` has two).
	Declarators int
}

// FindDeclarations lists the top-level variable declarations of src in
// source order. The parse is error tolerant: declarations are found even
// when unrelated parts of the script do not parse.
func FindDeclarations(ctx context.Context, src []byte, lang *sitter.Language) ([]Declaration, error) {
	root, err := ParseRoot(ctx, src, lang)
	if err != nil {
		return nil, err
	}
	matches, err := NewSitterWalker().Query(root, declarationQuery)
	if err != nil {
		return nil, err
	}

	perStatement := make(map[uint32]int)
	var out []Declaration
	for _, m := range matches {
		sm := m.(*SitterMatch)
		decl, _ := sm.Span("decl")
		value, _ := sm.Span("value")
		perStatement[decl.Start]++

		text := sm.values["decl"]
		exported := strings.HasPrefix(text, "export")
		if exported {
			text = strings.TrimSpace(strings.TrimPrefix(text, "export"))
		}
		keyword := text
		if i := strings.IndexAny(text, " \t\r\n"); i >= 0 {
			keyword = text[:i]
		}

		out = append(out, Declaration{
			Name:       sm.values["name"],
			Keyword:    keyword,
			Exported:   exported,
			Start:      int(decl.Start),
			End:        int(decl.End),
			ValueStart: int(value.Start),
			ValueEnd:   int(value.End),
			Line:       int(decl.Row),
			Indent:     indentAt(src, int(decl.Start)),
		})
	}
	for i := range out {
		out[i].Declarators = perStatement[uint32(out[i].Start)]
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Start != out[j].Start {
			return out[i].Start < out[j].Start
		}
		return out[i].ValueStart < out[j].ValueStart
	})
	return out, nil
}

func indentAt(src []byte, pos int) string {
	lineStart := pos
	for lineStart > 0 && src[lineStart-1] != '\n' {
		lineStart--
	}
	prefix := string(src[lineStart:pos])
	if strings.TrimLeft(prefix, " \t") != "" {
		return ""
	}
	return prefix
}

// Named returns the declarations bound to name.
func Named(decls []Declaration, name string) []Declaration {
	var out []Declaration
	for _, d := range decls {
		if d.Name == name {
			out = append(out, d)
		}
	}
	return out
}
