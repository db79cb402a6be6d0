// Package linter reports problems in the web project's resource list and
// translation table that do not stop editing but deserve attention.
package linter

import (
	"context"
	"fmt"
	"sort"

	"github.com/agentic-research/scribe/api"
	"github.com/agentic-research/scribe/internal/editor"
	"github.com/agentic-research/scribe/internal/ingest"
	"github.com/agentic-research/scribe/internal/jsast"
	"github.com/agentic-research/scribe/internal/repair"
	"github.com/agentic-research/scribe/internal/resources"
	"github.com/agentic-research/scribe/internal/writeback"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rule names.
const (
	RuleSyntax             = "syntax"
	RuleParse              = "parse"
	RuleDuplicateID        = "duplicate-id"
	RuleInvalidResource    = "invalid-resource"
	RuleMissingTranslation = "missing-translation"
	RuleOrphanTranslation  = "orphan-translation"
	RuleNeedsRepair        = "needs-repair"
)

type Diagnostic struct {
	File     string   `json:"file"`
	Line     uint32   `json:"line"` // 0-indexed; 0 also when unknown
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d: %s [%s] %s", d.File, d.Line+1, d.Severity, d.Rule, d.Message)
}

// Input is the content of both files.
type Input struct {
	ResourceListPath string
	ResourceList     string
	TranslationsPath string
	Translations     string
}

// HasErrors reports whether any diagnostic is an error.
func HasErrors(diags []Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

type linter struct {
	ctx   context.Context
	ed    *editor.Editor
	in    Input
	diags []Diagnostic
}

func (l *linter) add(file string, line uint32, rule string, sev Severity, format string, args ...any) {
	l.diags = append(l.diags, Diagnostic{File: file, Line: line, Rule: rule, Severity: sev, Message: fmt.Sprintf(format, args...)})
}

// Lint checks both files. Failures to parse a file are reported as
// diagnostics and skip the rules that need it.
func Lint(ctx context.Context, ed *editor.Editor, in Input) []Diagnostic {
	l := &linter{ctx: ctx, ed: ed, in: in}

	for _, f := range []struct{ path, text string }{
		{in.ResourceListPath, in.ResourceList},
		{in.TranslationsPath, in.Translations},
	} {
		for _, ve := range writeback.ASTErrors([]byte(f.text), f.path) {
			l.add(f.path, ve.Line, RuleSyntax, SeverityError, "%s", ve.Message)
		}
	}

	list, err := ed.ListResources(ctx, in.ResourceList)
	if err != nil {
		l.add(in.ResourceListPath, 0, RuleParse, SeverityError, "%v", err)
	} else {
		l.checkResources(list)
	}

	data, err := ed.TranslationData(ctx, in.Translations)
	if err != nil {
		l.add(in.TranslationsPath, 0, RuleParse, SeverityError, "%v", err)
	} else {
		l.checkRepair()
		if list != nil {
			l.checkTranslations(list, data)
		}
	}

	sort.SliceStable(l.diags, func(i, j int) bool {
		a, b := l.diags[i], l.diags[j]
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Line < b.Line
	})
	return l.diags
}

// idLines maps each resource id to the lines of the file declaring it.
func (l *linter) idLines() map[string][]uint32 {
	region, err := writeback.ExtractRegion(l.in.ResourceList, l.ed.Options().Markers)
	if err != nil {
		return nil
	}
	lang, ok := ingest.LanguageByName(region.Lang())
	if !ok {
		return nil
	}
	root, err := ingest.ParseRoot(l.ctx, []byte(region.Body), lang)
	if err != nil {
		return nil
	}
	matches, err := ingest.NewSitterWalker().Query(root,
		`(pair key: (property_identifier) @key value: (string (string_fragment) @value))`)
	if err != nil {
		return nil
	}
	lines := make(map[string][]uint32)
	offset := uint32(region.Line())
	for _, m := range matches {
		sm := m.(*ingest.SitterMatch)
		if sm.Values()["key"] != "id" {
			continue
		}
		span, _ := sm.Span("value")
		id := sm.Values()["value"].(string)
		lines[id] = append(lines[id], span.Row+offset)
	}
	return lines
}

func (l *linter) checkResources(list []api.Resource) {
	path := l.in.ResourceListPath
	lines := l.idLines()
	lineOf := func(id string, n int) uint32 {
		if ls := lines[id]; n < len(ls) {
			return ls[n]
		}
		return 0
	}

	for _, id := range resources.DuplicateIDs(list) {
		for i, line := range lines[id] {
			if i == 0 {
				continue
			}
			l.add(path, line, RuleDuplicateID, SeverityError, "id %q is used by more than one resource", id)
		}
		if len(lines[id]) < 2 {
			l.add(path, 0, RuleDuplicateID, SeverityError, "id %q is used by more than one resource", id)
		}
	}

	seen := make(map[string]int)
	for _, r := range list {
		n := seen[r.ID]
		seen[r.ID]++
		if err := r.Validate(); err != nil {
			l.add(path, lineOf(r.ID, n), RuleInvalidResource, SeverityError, "resource %q: %v", r.ID, err)
		}
	}
}

func (l *linter) checkTranslations(list []api.Resource, data any) {
	path := l.in.TranslationsPath
	w := ingest.NewJsonWalker()
	langs := l.ed.Options().Languages

	known := make(map[string]bool, len(list))
	for _, r := range list {
		known[r.Subject+"/"+r.ID] = true
		for _, lang := range langs {
			matches, err := w.Query(data, ingest.TranslationEntryPath(lang, r.Subject, r.ID))
			if err != nil {
				continue
			}
			if len(matches) == 0 {
				l.add(path, 0, RuleMissingTranslation, SeverityWarning, "%s: no translation for %s/%s", lang, r.Subject, r.ID)
				continue
			}
			if title, _ := matches[0].Values()["title"].(string); title == "" {
				l.add(path, 0, RuleMissingTranslation, SeverityWarning, "%s: empty title for %s/%s", lang, r.Subject, r.ID)
			}
		}
	}

	for _, lang := range langs {
		matches, err := w.Query(data, ingest.ExercisesPath(lang))
		if err != nil || len(matches) == 0 {
			continue
		}
		subjects, ok := matches[0].Context().(map[string]any)
		if !ok {
			continue
		}
		for _, subject := range sortedKeys(subjects) {
			entries, ok := subjects[subject].(map[string]any)
			if !ok {
				continue
			}
			for _, id := range sortedKeys(entries) {
				if !known[subject+"/"+id] {
					l.add(path, 0, RuleOrphanTranslation, SeverityWarning, "%s: %s/%s has no matching resource", lang, subject, id)
				}
			}
		}
	}
}

func (l *linter) checkRepair() {
	tbl, err := l.ed.Translations(l.ctx, l.in.Translations)
	if err != nil {
		return
	}
	for _, lang := range tbl.Languages {
		exercises, ok := objectAt(tbl.Root, lang, "resources", "exercises")
		if !ok {
			continue
		}
		for _, p := range exercises.Props {
			subject, ok := p.Value.(*jsast.Object)
			if ok && repair.NeedsRepair(subject) {
				l.add(l.in.TranslationsPath, 0, RuleNeedsRepair, SeverityWarning,
					"%s.%s holds nested entries; run `scribe translations repair`", lang, p.Key)
			}
		}
	}
}

func objectAt(obj *jsast.Object, keys ...string) (*jsast.Object, bool) {
	for _, k := range keys {
		next, ok := jsast.PropertyValue(obj, k).(*jsast.Object)
		if !ok {
			return nil, false
		}
		obj = next
	}
	return obj, true
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
