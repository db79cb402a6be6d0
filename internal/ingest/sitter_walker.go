package ingest

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// SitterWalker implements Walker for Tree-sitter parsed code.
type SitterWalker struct{}

func NewSitterWalker() *SitterWalker {
	return &SitterWalker{}
}

// SitterRoot encapsulates the necessary context for querying a Tree-sitter tree.
// It includes the root node, the source code (for extracting content), and the language (for compiling the query).
type SitterRoot struct {
	Node   *sitter.Node
	Source []byte
	Lang   *sitter.Language
}

// ParseRoot parses src with lang and returns a queryable root.
func ParseRoot(ctx context.Context, src []byte, lang *sitter.Language) (SitterRoot, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(lang)
	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return SitterRoot{}, fmt.Errorf("tree-sitter parse: %w", err)
	}
	return SitterRoot{Node: tree.RootNode(), Source: src, Lang: lang}, nil
}

// Span is the byte range and start point of a captured node.
type Span struct {
	Start  uint32
	End    uint32
	Row    uint32
	Column uint32
}

// Query implements Walker.
func (w *SitterWalker) Query(root any, selector string) ([]Match, error) {
	sr, ok := root.(SitterRoot)
	if !ok {
		if ptr, ok := root.(*SitterRoot); ok {
			sr = *ptr
		} else {
			return nil, fmt.Errorf("root must be SitterRoot, got %T", root)
		}
	}

	// "$" is a passthrough selector and returns the root itself.
	if selector == "$" {
		return []Match{&SitterMatch{
			values: make(map[string]string),
			spans:  make(map[string]Span),
			scope:  sr.Node,
			root:   sr,
		}}, nil
	}

	q, err := sitter.NewQuery([]byte(selector), sr.Lang)
	if err != nil {
		return nil, fmt.Errorf("invalid query '%s': %w", selector, err)
	}
	defer q.Close()

	qc := sitter.NewQueryCursor()
	defer qc.Close()

	qc.Exec(q, sr.Node)

	var matches []Match
	for {
		m, ok := qc.NextMatch()
		if !ok {
			break
		}

		vals := make(map[string]string)
		spans := make(map[string]Span)
		var scope *sitter.Node

		for _, c := range m.Captures {
			name := q.CaptureNameForId(c.Index)
			if name == "scope" {
				scope = c.Node
			}

			start := c.Node.StartByte()
			end := c.Node.EndByte()
			if start < uint32(len(sr.Source)) && end <= uint32(len(sr.Source)) {
				vals[name] = string(sr.Source[start:end])
			} else {
				vals[name] = ""
			}
			spans[name] = Span{
				Start:  start,
				End:    end,
				Row:    c.Node.StartPoint().Row,
				Column: c.Node.StartPoint().Column,
			}
		}
		matches = append(matches, &SitterMatch{
			values: vals,
			spans:  spans,
			scope:  scope,
			root:   sr,
		})
	}

	return matches, nil
}

// SitterMatch is a Tree-sitter query match.
type SitterMatch struct {
	values map[string]string
	spans  map[string]Span
	scope  *sitter.Node
	root   SitterRoot
}

// Values implements Match.
func (m *SitterMatch) Values() map[string]any {
	result := make(map[string]any, len(m.values))
	for k, v := range m.values {
		result[k] = v
	}
	return result
}

// Span returns the byte range of the named capture.
func (m *SitterMatch) Span(name string) (Span, bool) {
	s, ok := m.spans[name]
	return s, ok
}

// Context implements Match.
func (m *SitterMatch) Context() any {
	if m.scope != nil {
		return SitterRoot{
			Node:   m.scope,
			Source: m.root.Source,
			Lang:   m.root.Lang,
		}
	}
	return nil
}
