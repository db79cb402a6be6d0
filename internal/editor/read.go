package editor

import (
	"context"
	"strconv"

	"github.com/agentic-research/scribe/api"
	"github.com/agentic-research/scribe/internal/ingest"
	"github.com/agentic-research/scribe/internal/jsast"
	"github.com/agentic-research/scribe/internal/repair"
)

// ReadTranslations returns the entries stored for resource id of subject,
// one per configured language that has one. Corrupted subjects are read
// as if repaired; text is never modified.
func (e *Editor) ReadTranslations(ctx context.Context, text, subject, id string) (api.TranslationSet, error) {
	data, err := e.TranslationData(ctx, text)
	if err != nil {
		return nil, err
	}
	w := ingest.NewJsonWalker()
	set := make(api.TranslationSet, len(e.opts.Languages))
	for _, lang := range e.opts.Languages {
		matches, err := w.Query(data, ingest.TranslationEntryPath(lang, subject, id))
		if err != nil {
			return nil, err
		}
		if len(matches) == 0 {
			continue
		}
		fields, ok := matches[0].Context().(map[string]any)
		if !ok {
			continue
		}
		set[lang] = entryFromValue(fields)
	}
	return set, nil
}

// TranslationData returns the repaired translation table as plain Go
// values (maps, slices, strings, numbers) for JSONPath queries.
func (e *Editor) TranslationData(ctx context.Context, text string) (any, error) {
	doc, err := e.parseTranslations(ctx, text)
	if err != nil {
		return nil, err
	}
	root := jsast.Clone(doc.table.Root).(*jsast.Object)
	if _, err := repair.Table(root, e.opts.Languages); err != nil {
		return nil, err
	}
	return jsast.NodeToValue(root), nil
}

func entryFromValue(fields map[string]any) api.TranslationEntry {
	text := func(key string) string {
		switch v := fields[key].(type) {
		case string:
			return v
		case float64:
			return strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			return strconv.FormatBool(v)
		}
		return ""
	}
	return api.TranslationEntry{
		Title:           text("title"),
		Description:     text("description"),
		FullDescription: text("fullDescription"),
		Notes:           text("notes"),
	}
}
