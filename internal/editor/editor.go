// Package editor exposes the text-to-text operations on the two source
// files of the web project: the resource list embedded in a Vue component
// and the translation table module. Every operation parses the relevant
// region, mutates the tree, then formats and splices it back; any failure
// leaves the input untouched and returns an error.
package editor

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"

	"github.com/agentic-research/scribe/api"
	"github.com/agentic-research/scribe/internal/editerr"
	"github.com/agentic-research/scribe/internal/ingest"
	"github.com/agentic-research/scribe/internal/jsast"
	"github.com/agentic-research/scribe/internal/repair"
	"github.com/agentic-research/scribe/internal/resources"
	"github.com/agentic-research/scribe/internal/translations"
	"github.com/agentic-research/scribe/internal/writeback"
)

// Default file locations inside the web project.
const (
	DefaultResourceListPath = "src/App.vue"
	DefaultTranslationsPath = "src/i18n/translations.js"
)

// Options configures an Editor. Zero values select the defaults.
type Options struct {
	ArrayName         string
	ExportName        string
	Languages         []string
	AllowDuplicateIDs bool

	// Paths only select the print style; the editor does no I/O.
	ResourceListPath string
	TranslationsPath string

	// Markers delimit the script region of the resource list file.
	Markers writeback.Markers
}

// Editor runs edit operations for one set of Options. It holds no state
// between calls.
type Editor struct {
	opts Options
}

// New returns an editor, filling unset options with their defaults.
func New(opts Options) *Editor {
	if opts.ArrayName == "" {
		opts.ArrayName = resources.DefaultArrayName
	}
	if opts.ExportName == "" {
		opts.ExportName = translations.DefaultExportName
	}
	if len(opts.Languages) == 0 {
		opts.Languages = api.DefaultLanguages
	}
	if opts.ResourceListPath == "" {
		opts.ResourceListPath = DefaultResourceListPath
	}
	if opts.TranslationsPath == "" {
		opts.TranslationsPath = DefaultTranslationsPath
	}
	if opts.Markers.Open == nil || opts.Markers.Close == nil {
		opts.Markers = writeback.ScriptSetup
	}
	return &Editor{opts: opts}
}

// Options returns the effective options.
func (e *Editor) Options() Options {
	return e.opts
}

func (e *Editor) resourceEditor() *resources.Editor {
	return &resources.Editor{ArrayName: e.opts.ArrayName, AllowDuplicateIDs: e.opts.AllowDuplicateIDs}
}

// resourceDoc is a resource list file split around its array declaration.
type resourceDoc struct {
	region writeback.Region
	assign writeback.Assignment
	lang   *sitter.Language
	prog   *jsast.Program
}

func (e *Editor) parseResources(ctx context.Context, text string) (*resourceDoc, error) {
	region, err := writeback.ExtractRegion(text, e.opts.Markers)
	if err != nil {
		return nil, err
	}
	lang, ok := ingest.LanguageByName(region.Lang())
	if !ok {
		return nil, editerr.Errorf(editerr.RegionNotFound, "unsupported script language %q", region.Lang())
	}
	assign, err := writeback.LocateDeclaration(ctx, region.Body, lang, e.opts.ArrayName)
	if err != nil {
		return nil, err
	}
	init, err := jsast.ParseExpression(assign.Expr)
	if err != nil {
		return nil, editerr.Wrap(editerr.ParseFailure, err, fmt.Sprintf("parse declaration %q", e.opts.ArrayName))
	}
	prog := &jsast.Program{Decls: []*jsast.Declaration{{
		Keyword:  assign.Keyword,
		Name:     assign.Name,
		Exported: assign.Exported,
		Init:     init,
	}}}
	return &resourceDoc{region: region, assign: assign, lang: lang, prog: prog}, nil
}

func (e *Editor) emitResources(doc *resourceDoc) (string, error) {
	value := jsast.FormatNode(doc.prog.Decls[0].Init, writeback.StyleFor(e.opts.ResourceListPath), doc.assign.Column)
	body, err := doc.assign.ReplaceValue(doc.region.Body, value)
	if err != nil {
		return "", err
	}
	if err := writeback.ValidateScript([]byte(body), doc.lang, e.opts.ResourceListPath); err != nil {
		return "", editerr.Wrap(editerr.ParseFailure, err, "emitted script does not parse")
	}
	return doc.region.Splice(body), nil
}

// AddResourceEntry appends r to the resource array.
func (e *Editor) AddResourceEntry(ctx context.Context, text string, r api.Resource) (string, error) {
	doc, err := e.parseResources(ctx, text)
	if err != nil {
		return "", err
	}
	if err := e.resourceEditor().Add(doc.prog, r); err != nil {
		return "", err
	}
	return e.emitResources(doc)
}

// UpdateResourceEntry replaces the resource whose id is id with r.
func (e *Editor) UpdateResourceEntry(ctx context.Context, text, id string, r api.Resource) (string, error) {
	doc, err := e.parseResources(ctx, text)
	if err != nil {
		return "", err
	}
	if err := e.resourceEditor().Update(doc.prog, id, r); err != nil {
		return "", err
	}
	return e.emitResources(doc)
}

// RemoveResourceEntry drops the resource id. Removing an absent id
// returns text unchanged.
func (e *Editor) RemoveResourceEntry(ctx context.Context, text, id string) (string, error) {
	doc, err := e.parseResources(ctx, text)
	if err != nil {
		return "", err
	}
	n, err := e.resourceEditor().Remove(doc.prog, id)
	if err != nil {
		return "", err
	}
	if n == 0 {
		return text, nil
	}
	return e.emitResources(doc)
}

// ListResources reads every resource of the array in order.
func (e *Editor) ListResources(ctx context.Context, text string) ([]api.Resource, error) {
	doc, err := e.parseResources(ctx, text)
	if err != nil {
		return nil, err
	}
	return e.resourceEditor().List(doc.prog)
}

// FindResource reads one resource by id.
func (e *Editor) FindResource(ctx context.Context, text, id string) (api.Resource, bool, error) {
	doc, err := e.parseResources(ctx, text)
	if err != nil {
		return api.Resource{}, false, err
	}
	return e.resourceEditor().Find(doc.prog, id)
}

// translationsDoc is a translations file split around its export.
type translationsDoc struct {
	text   string
	assign writeback.Assignment
	table  *translations.Table
}

func (e *Editor) parseTranslations(ctx context.Context, text string) (*translationsDoc, error) {
	assign, err := writeback.ExtractAssignment(ctx, text, e.opts.ExportName)
	if err != nil {
		return nil, err
	}
	init, err := jsast.ParseExpression(assign.Expr)
	if err != nil {
		return nil, editerr.Wrap(editerr.ParseFailure, err, fmt.Sprintf("parse export %q", e.opts.ExportName))
	}
	prog := &jsast.Program{Decls: []*jsast.Declaration{{
		Keyword:  assign.Keyword,
		Name:     assign.Name,
		Exported: assign.Exported,
		Init:     init,
	}}}
	table, err := translations.FromProgram(prog, e.opts.ExportName, e.opts.Languages)
	if err != nil {
		return nil, err
	}
	return &translationsDoc{text: text, assign: assign, table: table}, nil
}

func (e *Editor) emitTranslations(doc *translationsDoc) (string, error) {
	value := jsast.FormatNode(doc.table.Root, writeback.StyleFor(e.opts.TranslationsPath), doc.assign.Column)
	out, err := doc.assign.ReplaceValue(doc.text, value)
	if err != nil {
		return "", err
	}
	if err := writeback.ValidateScript([]byte(out), javascript.GetLanguage(), e.opts.TranslationsPath); err != nil {
		return "", editerr.Wrap(editerr.ParseFailure, err, "emitted translations do not parse")
	}
	return out, nil
}

// Translations parses the translation table of text. The returned table
// is detached from text; mutating it has no effect on later calls.
func (e *Editor) Translations(ctx context.Context, text string) (*translations.Table, error) {
	doc, err := e.parseTranslations(ctx, text)
	if err != nil {
		return nil, err
	}
	return doc.table, nil
}

// AddTranslations writes the entry of every configured language for the
// resource id of subject.
func (e *Editor) AddTranslations(ctx context.Context, text, subject, id string, set api.TranslationSet) (string, error) {
	doc, err := e.parseTranslations(ctx, text)
	if err != nil {
		return "", err
	}
	if err := doc.table.AddForResource(subject, id, set); err != nil {
		return "", err
	}
	return e.emitTranslations(doc)
}

// UpdateTranslations is an upsert like AddTranslations.
func (e *Editor) UpdateTranslations(ctx context.Context, text, subject, id string, set api.TranslationSet) (string, error) {
	doc, err := e.parseTranslations(ctx, text)
	if err != nil {
		return "", err
	}
	if err := doc.table.UpdateForResource(subject, id, set); err != nil {
		return "", err
	}
	return e.emitTranslations(doc)
}

// RemoveTranslations deletes the entries of every configured language.
// Text is returned unchanged when no entry existed and nothing was
// repaired on the way.
func (e *Editor) RemoveTranslations(ctx context.Context, text, subject, id string) (string, error) {
	doc, err := e.parseTranslations(ctx, text)
	if err != nil {
		return "", err
	}
	before := jsast.Serialize(doc.table.Root)
	if err := doc.table.RemoveForResource(subject, id); err != nil {
		return "", err
	}
	if jsast.Serialize(doc.table.Root) == before {
		return text, nil
	}
	return e.emitTranslations(doc)
}

// RepairTranslations runs the repair pass over the whole table. The text
// is returned unchanged when nothing needed repair.
func (e *Editor) RepairTranslations(ctx context.Context, text string) (string, repair.Report, error) {
	doc, err := e.parseTranslations(ctx, text)
	if err != nil {
		return "", repair.Report{}, err
	}
	report, err := doc.table.Repair()
	if err != nil {
		return "", repair.Report{}, err
	}
	if !report.Changed() {
		return text, report, nil
	}
	out, err := e.emitTranslations(doc)
	if err != nil {
		return "", repair.Report{}, err
	}
	return out, report, nil
}
