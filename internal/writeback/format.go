package writeback

import (
	"context"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/agentic-research/scribe/internal/ingest"
	"github.com/agentic-research/scribe/internal/jsast"
)

// StyleFor returns the print style of the web project for path: 80
// columns inside Vue components, 120 in plain script files.
func StyleFor(path string) jsast.Style {
	style := jsast.DefaultStyle()
	if strings.ToLower(filepath.Ext(path)) != ".vue" {
		style.PrintWidth = 120
	}
	return style
}

// FormatBuffer reformats the initializer of every top-level declaration
// in content using StyleFor(filePath). For a .vue file only the
// <script setup> block is touched. Initializers outside the literal
// grammar (calls, functions) are left as they are. Returns the original
// buffer unchanged if the file type is unknown or no region is found.
func FormatBuffer(content []byte, filePath string) []byte {
	text := string(content)
	style := StyleFor(filePath)

	if strings.EqualFold(filepath.Ext(filePath), ".vue") {
		region, err := ExtractRegion(text, ScriptSetup)
		if err != nil {
			return content
		}
		lang, ok := ingest.LanguageByName(region.Lang())
		if !ok {
			return content
		}
		body, ok := formatDeclarations(region.Body, lang, style)
		if !ok {
			return content
		}
		return []byte(region.Splice(body))
	}

	_, lang, ok := ingest.DetectLanguageFromPath(filePath)
	if !ok {
		return content
	}
	out, ok := formatDeclarations(text, lang, style)
	if !ok {
		return content
	}
	return []byte(out)
}

func formatDeclarations(src string, lang *sitter.Language, style jsast.Style) (string, bool) {
	decls, err := ingest.FindDeclarations(context.Background(), []byte(src), lang)
	if err != nil {
		return "", false
	}
	// back to front so earlier offsets stay valid
	for i := len(decls) - 1; i >= 0; i-- {
		a, err := assignment(src, decls[i])
		if err != nil {
			continue
		}
		node, err := jsast.ParseExpression(a.Expr)
		if err != nil {
			continue
		}
		src, err = a.ReplaceValue(src, jsast.FormatNode(node, style, a.Column))
		if err != nil {
			return "", false
		}
	}
	return src, true
}
