package writeback

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/agentic-research/scribe/internal/editerr"
	"github.com/agentic-research/scribe/internal/ingest"
)

// Assignment is a located top-level `<keyword> <name> = <expr>` statement.
type Assignment struct {
	ingest.Declaration
	// Expr is the source text of the initializer.
	Expr string
	// Column is the 0-based column at which Expr starts.
	Column int
}

// ReplaceValue returns src with the initializer replaced by value. Lines
// after the first are indented like the statement and end with CRLF when
// src does.
func (a Assignment) ReplaceValue(src, value string) (string, error) {
	v := Reindent(value, a.Indent)
	if strings.Contains(src, "\r\n") {
		v = strings.ReplaceAll(v, "\n", "\r\n")
	}
	out, err := Splice([]byte(src), a.ValueStart, a.ValueEnd, []byte(v))
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// LocateDeclaration finds the top-level declaration of name in src.
// A missing declaration is DeclarationNotFound; a name declared twice, or
// sharing its statement with other declarators, cannot be edited safely.
func LocateDeclaration(ctx context.Context, src string, lang *sitter.Language, name string) (Assignment, error) {
	decls, err := ingest.FindDeclarations(ctx, []byte(src), lang)
	if err != nil {
		return Assignment{}, editerr.Wrap(editerr.ParseFailure, err, "locate declarations")
	}
	named := ingest.Named(decls, name)
	switch len(named) {
	case 0:
		return Assignment{}, notFound(src, lang, editerr.DeclarationNotFound,
			fmt.Sprintf("declaration %q not found", name))
	case 1:
	default:
		return Assignment{}, editerr.Errorf(editerr.StructuralAmbiguity, "%q is declared %d times", name, len(named))
	}
	return assignment(src, named[0])
}

// ExtractAssignment finds `export const <exportName> = <expr>` at the top
// level of a JavaScript file. It fails with RegionNotFound unless exactly
// one such export exists.
func ExtractAssignment(ctx context.Context, text, exportName string) (Assignment, error) {
	decls, err := ingest.FindDeclarations(ctx, []byte(text), javascript.GetLanguage())
	if err != nil {
		return Assignment{}, editerr.Wrap(editerr.ParseFailure, err, "locate declarations")
	}
	var found []ingest.Declaration
	for _, d := range ingest.Named(decls, exportName) {
		if d.Exported && d.Keyword == "const" {
			found = append(found, d)
		}
	}
	if len(found) != 1 {
		msg := fmt.Sprintf("expected one `export const %s = ...`, found %d", exportName, len(found))
		if len(found) == 0 {
			return Assignment{}, notFound(text, javascript.GetLanguage(), editerr.RegionNotFound, msg)
		}
		return Assignment{}, editerr.Errorf(editerr.RegionNotFound, "%s", msg)
	}
	return assignment(text, found[0])
}

// notFound reports a missing declaration as kind, or as ParseFailure at
// the first syntax error when src does not parse: an unclosed literal
// swallows the statement that declares it.
func notFound(src string, lang *sitter.Language, kind editerr.Kind, msg string) error {
	var ve *ValidationError
	if err := ValidateScript([]byte(src), lang, "script"); errors.As(err, &ve) {
		return editerr.Wrap(editerr.ParseFailure, ve, msg)
	}
	return editerr.Errorf(kind, "%s", msg)
}

func assignment(src string, d ingest.Declaration) (Assignment, error) {
	if d.Declarators > 1 {
		return Assignment{}, editerr.Errorf(editerr.ParseFailure,
			"declaration %q shares its statement with %d other declarators", d.Name, d.Declarators-1)
	}
	lineStart := strings.LastIndexByte(src[:d.ValueStart], '\n') + 1
	return Assignment{
		Declaration: d,
		Expr:        src[d.ValueStart:d.ValueEnd],
		Column:      len([]rune(src[lineStart:d.ValueStart])),
	}, nil
}
