// Package resources edits the resource array declared in the web
// component's script block. It works on a parsed program and does no I/O.
package resources

import (
	"github.com/agentic-research/scribe/api"
	"github.com/agentic-research/scribe/internal/editerr"
	"github.com/agentic-research/scribe/internal/jsast"
)

// DefaultArrayName is the declaration holding the resource list.
const DefaultArrayName = "resources"

// Editor mutates the array bound to ArrayName.
//
// Duplicate ids are corruption. By default Update and Remove refuse to
// touch an id held by more than one element. With AllowDuplicateIDs,
// Update replaces the first match and Remove drops every match.
type Editor struct {
	ArrayName         string
	AllowDuplicateIDs bool
}

// New returns an editor for the default array name.
func New() *Editor {
	return &Editor{ArrayName: DefaultArrayName}
}

func (e *Editor) name() string {
	if e.ArrayName == "" {
		return DefaultArrayName
	}
	return e.ArrayName
}

// Array returns the resource array of prog.
func (e *Editor) Array(prog *jsast.Program) (*jsast.Array, error) {
	d := prog.Lookup(e.name())
	if d == nil {
		return nil, editerr.Errorf(editerr.DeclarationNotFound, "declaration %q not found", e.name())
	}
	arr, ok := d.Init.(*jsast.Array)
	if !ok {
		return nil, editerr.Errorf(editerr.DeclarationNotFound, "declaration %q is not an array", e.name())
	}
	return arr, nil
}

// Add appends r. The id must not be present yet.
func (e *Editor) Add(prog *jsast.Program, r api.Resource) error {
	arr, err := e.Array(prog)
	if err != nil {
		return err
	}
	if jsast.FindArrayElement(arr, byID(r.ID)) >= 0 {
		return editerr.Errorf(editerr.EntryExists, "resource %q already exists", r.ID)
	}
	arr.Elems = append(arr.Elems, ToNode(r))
	return nil
}

// Update replaces the element with the given id wholesale. r.ID may
// differ from id (a rename) as long as it does not collide.
func (e *Editor) Update(prog *jsast.Program, id string, r api.Resource) error {
	arr, err := e.Array(prog)
	if err != nil {
		return err
	}
	idx, err := e.matches(arr, id)
	if err != nil {
		return err
	}
	if len(idx) == 0 {
		return editerr.Errorf(editerr.EntryNotFound, "resource %q not found", id)
	}
	if r.ID != id && jsast.FindArrayElement(arr, byID(r.ID)) >= 0 {
		return editerr.Errorf(editerr.EntryExists, "resource %q already exists", r.ID)
	}
	arr.Elems[idx[0]] = ToNode(r)
	return nil
}

// Remove drops the element with the given id and returns how many
// elements were removed. An absent id is a no-op.
func (e *Editor) Remove(prog *jsast.Program, id string) (int, error) {
	arr, err := e.Array(prog)
	if err != nil {
		return 0, err
	}
	idx, err := e.matches(arr, id)
	if err != nil {
		return 0, err
	}
	jsast.RemoveElements(arr, idx)
	return len(idx), nil
}

func (e *Editor) matches(arr *jsast.Array, id string) ([]int, error) {
	idx := jsast.IndexByString(arr, "id", id)
	if len(idx) > 1 && !e.AllowDuplicateIDs {
		return nil, editerr.Errorf(editerr.StructuralAmbiguity,
			"resource id %q is used by %d entries", id, len(idx))
	}
	return idx, nil
}

// List decodes every element of the array, in order.
func (e *Editor) List(prog *jsast.Program) ([]api.Resource, error) {
	arr, err := e.Array(prog)
	if err != nil {
		return nil, err
	}
	out := make([]api.Resource, 0, len(arr.Elems))
	for i, el := range arr.Elems {
		obj, ok := el.(*jsast.Object)
		if !ok {
			return nil, editerr.Errorf(editerr.StructuralAmbiguity,
				"%s[%d] is not an object", e.name(), i)
		}
		out = append(out, FromNode(obj))
	}
	return out, nil
}

// Find returns the first element with the given id.
func (e *Editor) Find(prog *jsast.Program, id string) (api.Resource, bool, error) {
	arr, err := e.Array(prog)
	if err != nil {
		return api.Resource{}, false, err
	}
	i := jsast.FindArrayElement(arr, byID(id))
	if i < 0 {
		return api.Resource{}, false, nil
	}
	return FromNode(arr.Elems[i].(*jsast.Object)), true, nil
}

func byID(id string) func(jsast.Node) bool {
	return jsast.WithStringProperty("id", id)
}

// Fields lists r in source order. Empty strings are omitted when written;
// hasVideo is always written.
func Fields(r api.Resource) jsast.Fields {
	return jsast.Fields{
		{Key: "id", Value: r.ID},
		{Key: "subject", Value: r.Subject},
		{Key: "levelKey", Value: r.LevelKey},
		{Key: "typeKey", Value: r.TypeKey},
		{Key: "duration", Value: r.Duration},
		{Key: "hasVideo", Value: r.HasVideo},
		{Key: "videoUrl", Value: r.VideoURL},
		{Key: "pdfStatement", Value: r.PDFStatement},
		{Key: "pdfSolution", Value: r.PDFSolution},
	}
}

// ToNode builds the object literal for r.
func ToNode(r api.Resource) *jsast.Object {
	return jsast.ValueToNode(Fields(r)).(*jsast.Object)
}

// FromNode decodes a resource object. Unknown keys are ignored and
// numeric durations are kept in their source spelling.
func FromNode(obj *jsast.Object) api.Resource {
	var r api.Resource
	text := func(key string) string {
		switch v := jsast.PropertyValue(obj, key).(type) {
		case *jsast.String:
			return v.Value
		case *jsast.Number:
			return v.Raw
		}
		return ""
	}
	r.ID = text("id")
	r.Subject = text("subject")
	r.LevelKey = text("levelKey")
	r.TypeKey = text("typeKey")
	r.Duration = text("duration")
	if b, ok := jsast.PropertyValue(obj, "hasVideo").(*jsast.Bool); ok {
		r.HasVideo = b.Value
	}
	r.VideoURL = text("videoUrl")
	r.PDFStatement = text("pdfStatement")
	r.PDFSolution = text("pdfSolution")
	return r
}
