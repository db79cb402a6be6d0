package writeback

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/agentic-research/scribe/internal/ingest"
)

// ValidationError contains structured information about a syntax error.
type ValidationError struct {
	FilePath string
	Line     uint32 // 0-indexed
	Column   uint32 // 0-indexed
	Message  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.FilePath, e.Line+1, e.Column+1, e.Message)
}

// Validate parses content with tree-sitter and returns an error if the AST
// contains syntax errors. For a .vue file the <script setup> block is
// checked and positions are reported relative to the whole file. Files
// with no known tree-sitter language pass through without validation.
func Validate(content []byte, filePath string) error {
	src, lang, lineOffset, ok := scriptOf(content, filePath)
	if !ok {
		return nil // unknown language, pass through
	}
	err := ValidateScript(src, lang, filePath)
	if ve, ok := err.(*ValidationError); ok {
		ve.Line += lineOffset
	}
	return err
}

// ValidateScript is Validate for source already isolated from its file.
func ValidateScript(src []byte, lang *sitter.Language, name string) error {
	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return fmt.Errorf("tree-sitter parse failed for %s: %w", name, err)
	}

	root := tree.RootNode()
	if root == nil {
		return fmt.Errorf("tree-sitter returned nil root for %s", name)
	}

	if !root.HasError() {
		return nil
	}

	// Walk tree to find first ERROR node for a useful error message
	errNode := findFirstError(root)
	if errNode != nil {
		return &ValidationError{
			FilePath: name,
			Line:     errNode.StartPoint().Row,
			Column:   errNode.StartPoint().Column,
			Message:  "syntax error in AST",
		}
	}

	return &ValidationError{
		FilePath: name,
		Message:  "AST contains errors",
	}
}

// ASTErrors returns all ERROR node locations in the content for diagnostic reporting.
// Returns nil if no errors or unknown language.
func ASTErrors(content []byte, filePath string) []ValidationError {
	src, lang, lineOffset, ok := scriptOf(content, filePath)
	if !ok {
		return nil
	}

	parser := sitter.NewParser()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return nil
	}

	root := tree.RootNode()
	if root == nil || !root.HasError() {
		return nil
	}

	var errs []ValidationError
	collectErrors(root, filePath, &errs)
	for i := range errs {
		errs[i].Line += lineOffset
	}
	return errs
}

// scriptOf returns the part of content to parse and its grammar.
func scriptOf(content []byte, filePath string) ([]byte, *sitter.Language, uint32, bool) {
	if strings.EqualFold(filepath.Ext(filePath), ".vue") {
		region, err := ExtractRegion(string(content), ScriptSetup)
		if err != nil {
			return nil, nil, 0, false
		}
		lang, ok := ingest.LanguageByName(region.Lang())
		if !ok {
			return nil, nil, 0, false
		}
		return []byte(region.Body), lang, uint32(region.Line()), true
	}
	_, lang, ok := ingest.DetectLanguageFromPath(filePath)
	return content, lang, 0, ok
}

// findFirstError does a depth-first search for the first ERROR node.
func findFirstError(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.HasError() || child.IsError() || child.IsMissing() {
			found := findFirstError(child)
			if found != nil {
				return found
			}
		}
	}
	return nil
}

// collectErrors gathers all ERROR/MISSING nodes in the tree.
func collectErrors(node *sitter.Node, filePath string, errs *[]ValidationError) {
	if node.IsError() || node.IsMissing() {
		*errs = append(*errs, ValidationError{
			FilePath: filePath,
			Line:     node.StartPoint().Row,
			Column:   node.StartPoint().Column,
			Message:  "syntax error in AST",
		})
		return // don't recurse into error children
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.HasError() || child.IsError() || child.IsMissing() {
			collectErrors(child, filePath, errs)
		}
	}
}
