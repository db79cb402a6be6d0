// Package repair flattens translation entries that were written one level
// too deep.
//
// A healthy subject object maps resource ids to entries holding only the
// canonical fields:
//
//	maths: { r1: { title: 'A' }, r2: { title: 'B' } }
//
// A corrupted write can leave r2 inside r1:
//
//	maths: { r1: { title: 'A', r2: { title: 'B' } } }
//
// Subject splits such entries back into siblings. Running it on a healthy
// subject changes nothing, and running it twice equals running it once.
package repair

import (
	"fmt"
	"strings"

	"github.com/agentic-research/scribe/api"
	"github.com/agentic-research/scribe/internal/editerr"
	"github.com/agentic-research/scribe/internal/jsast"
)

// Report describes what a pass changed. Keys are entry names; Table
// prefixes them with "<lang>.<subject>.".
type Report struct {
	Split   []string
	Hoisted []string
	Dropped []string
}

// Changed reports whether the pass rewrote anything.
func (r Report) Changed() bool {
	return len(r.Split)+len(r.Hoisted)+len(r.Dropped) > 0
}

// Merge appends o to r, prefixing every key.
func (r *Report) Merge(prefix string, o Report) {
	for _, k := range o.Split {
		r.Split = append(r.Split, prefix+k)
	}
	for _, k := range o.Hoisted {
		r.Hoisted = append(r.Hoisted, prefix+k)
	}
	for _, k := range o.Dropped {
		r.Dropped = append(r.Dropped, prefix+k)
	}
}

// NeedsRepair reports whether any entry of subject holds a nested object.
func NeedsRepair(subject *jsast.Object) bool {
	for _, p := range subject.Props {
		if obj, ok := p.Value.(*jsast.Object); ok && hasNested(obj) {
			return true
		}
	}
	return false
}

func hasNested(entry *jsast.Object) bool {
	for _, p := range entry.Props {
		if _, ok := p.Value.(*jsast.Object); ok {
			return true
		}
	}
	return false
}

// Subject repairs a subject object in place. Entries holding nested
// objects are replaced by a copy with only the canonical fields, followed
// by each nested object hoisted to a sibling under its own key. Hoisted
// entries are examined again, so deeper nesting is flattened too.
//
// The subject is left untouched and a StructuralAmbiguity error returned
// when a canonical field holds an object, when an entry mixes nested
// objects with a non-canonical scalar, or when a hoisted entry collides
// with a different sibling of the same key. Identical collisions are
// dropped.
func Subject(subject *jsast.Object) (Report, error) {
	var report Report
	if !NeedsRepair(subject) {
		return report, nil
	}

	work := append([]*jsast.Property(nil), subject.Props...)
	hoisted := make(map[*jsast.Property]bool)
	out := make([]*jsast.Property, 0, len(work))

	for i := 0; i < len(work); i++ {
		p := work[i]
		entry, ok := p.Value.(*jsast.Object)
		if !ok || !hasNested(entry) {
			out = append(out, p)
			continue
		}

		var canonical, nested []*jsast.Property
		for _, ip := range entry.Props {
			_, isObj := ip.Value.(*jsast.Object)
			switch {
			case api.IsCanonicalField(ip.Key) && isObj:
				return Report{}, editerr.Errorf(editerr.StructuralAmbiguity,
					"entry %q: field %q holds an object", p.Key, ip.Key)
			case api.IsCanonicalField(ip.Key):
				canonical = append(canonical, ip)
			case isObj:
				nested = append(nested, ip)
			default:
				return Report{}, editerr.Errorf(editerr.StructuralAmbiguity,
					"entry %q mixes nested entries with field %q", p.Key, ip.Key)
			}
		}

		cleaned := &jsast.Property{
			Key:     p.Key,
			KeyKind: p.KeyKind,
			Value:   &jsast.Object{Props: canonical, Pos: entry.Pos},
			Pos:     p.Pos,
		}
		if hoisted[p] {
			hoisted[cleaned] = true
		}
		out = append(out, cleaned)
		report.Split = append(report.Split, p.Key)

		rest := append(nested, work[i+1:]...)
		work = append(work[:i+1], rest...)
		for _, n := range nested {
			hoisted[n] = true
			report.Hoisted = append(report.Hoisted, n.Key)
		}
	}

	deduped, dropped, err := dedupe(out, hoisted)
	if err != nil {
		return Report{}, err
	}
	report.Dropped = dropped
	subject.Props = deduped
	return report, nil
}

// dedupe resolves key collisions that involve a hoisted entry. Collisions
// between entries that were already siblings are left alone.
func dedupe(props []*jsast.Property, hoisted map[*jsast.Property]bool) ([]*jsast.Property, []string, error) {
	first := make(map[string]*jsast.Property, len(props))
	out := make([]*jsast.Property, 0, len(props))
	var dropped []string
	for _, p := range props {
		prev, seen := first[p.Key]
		if !seen {
			first[p.Key] = p
			out = append(out, p)
			continue
		}
		if !hoisted[p] && !hoisted[prev] {
			out = append(out, p)
			continue
		}
		if !jsast.Equal(prev.Value, p.Value) {
			return nil, nil, editerr.Errorf(editerr.StructuralAmbiguity,
				"hoisted entry %q collides with a different sibling", p.Key)
		}
		dropped = append(dropped, p.Key)
	}
	return out, dropped, nil
}

// Table runs Subject over every subject of every language in langs, under
// root[lang].resources.exercises. Missing levels are skipped; a level that
// exists but is not an object is a StructuralAmbiguity. All subjects are
// checked before any is modified.
func Table(root *jsast.Object, langs []string) (Report, error) {
	var subjects []*jsast.Property
	var prefixes []string
	for _, lang := range langs {
		exercises, err := exercisesOf(root, lang)
		if err != nil {
			return Report{}, err
		}
		if exercises == nil {
			continue
		}
		for _, sp := range exercises.Props {
			if _, ok := sp.Value.(*jsast.Object); !ok {
				return Report{}, editerr.Errorf(editerr.StructuralAmbiguity,
					"%s.resources.exercises.%s is not an object", lang, sp.Key)
			}
			subjects = append(subjects, sp)
			prefixes = append(prefixes, lang+"."+sp.Key+".")
		}
	}

	// dry run on copies so a failure leaves root untouched
	for i, sp := range subjects {
		if _, err := Subject(jsast.Clone(sp.Value).(*jsast.Object)); err != nil {
			return Report{}, fmt.Errorf("repair %s: %w", strings.TrimSuffix(prefixes[i], "."), err)
		}
	}

	var report Report
	for i, sp := range subjects {
		r, err := Subject(sp.Value.(*jsast.Object))
		if err != nil {
			return Report{}, err
		}
		report.Merge(prefixes[i], r)
	}
	return report, nil
}

func exercisesOf(root *jsast.Object, lang string) (*jsast.Object, error) {
	node := root
	walked := ""
	for _, key := range []string{lang, "resources", "exercises"} {
		if walked != "" {
			walked += "."
		}
		walked += key
		v := jsast.PropertyValue(node, key)
		if v == nil {
			return nil, nil
		}
		obj, ok := v.(*jsast.Object)
		if !ok {
			return nil, editerr.Errorf(editerr.StructuralAmbiguity, "%s is not an object", walked)
		}
		node = obj
	}
	return node, nil
}
