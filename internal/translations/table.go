// Package translations edits the exported translation table:
//
//	translations[lang].resources.exercises[subject][resourceId] = { title, description, fullDescription, notes }
//
// Every write creates missing intermediate objects and repairs the subject
// object before touching it. A failed operation may leave the tree partly
// mutated; callers discard the tree and start again from the source text.
package translations

import (
	"github.com/agentic-research/scribe/api"
	"github.com/agentic-research/scribe/internal/editerr"
	"github.com/agentic-research/scribe/internal/jsast"
	"github.com/agentic-research/scribe/internal/repair"
)

// DefaultExportName is the exported declaration holding the table.
const DefaultExportName = "translations"

// Table wraps the root object of the translation table.
type Table struct {
	Root      *jsast.Object
	Languages []string

	// Repaired accumulates what the repair pass changed during this
	// table's lifetime, keyed "<lang>.<subject>.<entry>".
	Repaired repair.Report
}

// New returns a table over root for langs (api.DefaultLanguages when empty).
func New(root *jsast.Object, langs []string) *Table {
	if len(langs) == 0 {
		langs = api.DefaultLanguages
	}
	return &Table{Root: root, Languages: langs}
}

// FromProgram returns the table bound to name in prog.
func FromProgram(prog *jsast.Program, name string, langs []string) (*Table, error) {
	d := prog.Lookup(name)
	if d == nil {
		return nil, editerr.Errorf(editerr.DeclarationNotFound, "declaration %q not found", name)
	}
	root, ok := d.Init.(*jsast.Object)
	if !ok {
		return nil, editerr.Errorf(editerr.DeclarationNotFound, "declaration %q is not an object", name)
	}
	return New(root, langs), nil
}

func pathOf(lang, subject string) []string {
	return []string{lang, "resources", "exercises", subject}
}

// EnsurePath walks root[lang].resources.exercises[subject], creating any
// missing level as an empty object, then repairs the subject object.
func (t *Table) EnsurePath(lang, subject string) (*jsast.Object, repair.Report, error) {
	node := t.Root
	walked := "translations"
	for _, key := range pathOf(lang, subject) {
		walked += "." + key
		p := jsast.FindProperty(node, key)
		if p == nil {
			child := jsast.NewObject()
			node.Props = append(node.Props, jsast.NewProperty(key, child))
			node = child
			continue
		}
		child, ok := p.Value.(*jsast.Object)
		if !ok {
			return nil, repair.Report{}, editerr.Errorf(editerr.StructuralAmbiguity, "%s is not an object", walked)
		}
		node = child
	}
	report, err := repair.Subject(node)
	if err != nil {
		return nil, repair.Report{}, err
	}
	t.Repaired.Merge(lang+"."+subject+".", report)
	return node, report, nil
}

// locate walks the same path without creating anything. A nil object and
// nil error mean some level is absent.
func (t *Table) locate(lang, subject string) (*jsast.Object, error) {
	node := t.Root
	walked := "translations"
	for _, key := range pathOf(lang, subject) {
		walked += "." + key
		v := jsast.PropertyValue(node, key)
		if v == nil {
			return nil, nil
		}
		child, ok := v.(*jsast.Object)
		if !ok {
			return nil, editerr.Errorf(editerr.StructuralAmbiguity, "%s is not an object", walked)
		}
		node = child
	}
	return node, nil
}

// UpsertEntry writes e under id, replacing an existing entry in place.
func (t *Table) UpsertEntry(lang, subject, id string, e api.TranslationEntry) error {
	node, _, err := t.EnsurePath(lang, subject)
	if err != nil {
		return err
	}
	jsast.UpsertProperty(node, id, EntryToNode(e))
	return nil
}

// RemoveEntry deletes id. An absent path or id is a no-op.
func (t *Table) RemoveEntry(lang, subject, id string) (bool, error) {
	node, err := t.locate(lang, subject)
	if err != nil || node == nil {
		return false, err
	}
	report, err := repair.Subject(node)
	if err != nil {
		return false, err
	}
	t.Repaired.Merge(lang+"."+subject+".", report)
	return jsast.RemoveProperty(node, id) > 0, nil
}

// Lookup reads an entry without modifying the tree. Entries hidden by a
// corrupted write are found as if the subject had been repaired.
func (t *Table) Lookup(lang, subject, id string) (api.TranslationEntry, bool, error) {
	node, err := t.locate(lang, subject)
	if err != nil || node == nil {
		return api.TranslationEntry{}, false, err
	}
	if repair.NeedsRepair(node) {
		node = jsast.Clone(node).(*jsast.Object)
		if _, err := repair.Subject(node); err != nil {
			return api.TranslationEntry{}, false, err
		}
	}
	obj, ok := jsast.PropertyValue(node, id).(*jsast.Object)
	if !ok {
		return api.TranslationEntry{}, false, nil
	}
	return EntryFromNode(obj), true, nil
}

// AddForResource upserts the entry of every configured language. A
// language missing from set gets an empty entry.
func (t *Table) AddForResource(subject, id string, set api.TranslationSet) error {
	for _, lang := range t.Languages {
		if err := t.UpsertEntry(lang, subject, id, set[lang]); err != nil {
			return err
		}
	}
	return nil
}

// UpdateForResource is AddForResource: an update of a resource whose
// translations were never written creates them.
func (t *Table) UpdateForResource(subject, id string, set api.TranslationSet) error {
	return t.AddForResource(subject, id, set)
}

// RemoveForResource removes the entry of every configured language.
func (t *Table) RemoveForResource(subject, id string) error {
	for _, lang := range t.Languages {
		if _, err := t.RemoveEntry(lang, subject, id); err != nil {
			return err
		}
	}
	return nil
}

// Repair runs the repair pass over every subject of every language.
func (t *Table) Repair() (repair.Report, error) {
	report, err := repair.Table(t.Root, t.Languages)
	if err != nil {
		return repair.Report{}, err
	}
	t.Repaired.Merge("", report)
	return report, nil
}

// EntryToNode builds the entry object. All four fields are always written.
func EntryToNode(e api.TranslationEntry) *jsast.Object {
	return jsast.ValueToNode(jsast.Fields{
		{Key: "title", Value: e.Title, Keep: true},
		{Key: "description", Value: e.Description, Keep: true},
		{Key: "fullDescription", Value: e.FullDescription, Keep: true},
		{Key: "notes", Value: e.Notes, Keep: true},
	}).(*jsast.Object)
}

// EntryFromNode reads the canonical fields of an entry, coercing literals
// to strings. Absent or non-scalar fields read as "".
func EntryFromNode(obj *jsast.Object) api.TranslationEntry {
	text := func(key string) string {
		switch v := jsast.PropertyValue(obj, key).(type) {
		case *jsast.String:
			return v.Value
		case *jsast.Number:
			return v.Raw
		case *jsast.Bool:
			if v.Value {
				return "true"
			}
			return "false"
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
