// Package jsast is a small structural editor for JavaScript data literals.
//
// It understands just enough of the language to read, mutate and re-emit
// variable declarations whose initializers are object/array literals:
//
//	export const translations = { fr: { resources: { ... } } }
//	const resources = [{ id: 'a', subject: 'maths' }]
//
// Source text is never evaluated.
package jsast

import "fmt"

// Pos is a 1-based line/column position in the parsed source.
type Pos struct {
	Line   int
	Column int
}

func (p Pos) String() string { return fmt.Sprintf("%d:%d", p.Line, p.Column) }

// Node is one value in the tree.
type Node interface {
	Position() Pos
	node()
}

// KeyKind records how a property key was spelled in the source.
type KeyKind int

const (
	KeyIdent KeyKind = iota
	KeyString
	KeyNumber
)

// Property is a key/value pair of an Object.
type Property struct {
	Key     string
	KeyKind KeyKind
	Value   Node
	Pos     Pos
}

// Object is an ordered list of properties. Duplicate keys are kept;
// lookups take the first match.
type Object struct {
	Props []*Property
	Pos   Pos
}

// Array is an ordered list of elements.
type Array struct {
	Elems []Node
	Pos   Pos
}

// String is a string literal holding its decoded value. Raw is set only
// when Value cannot represent the literal exactly (an unpaired surrogate
// escape such as '\uD800'); the printer then writes Raw as is.
type String struct {
	Value string
	Raw   string
	Pos   Pos
}

// Number is a numeric literal. Raw keeps the source spelling so
// re-emitting does not change it.
type Number struct {
	Value float64
	Raw   string
	Pos   Pos
}

type Bool struct {
	Value bool
	Pos   Pos
}

type Null struct {
	Pos Pos
}

// Identifier is a bare name used as a value (e.g. undefined, a reference).
type Identifier struct {
	Name string
	Pos  Pos
}

func (n *Object) Position() Pos     { return n.Pos }
func (n *Array) Position() Pos      { return n.Pos }
func (n *String) Position() Pos     { return n.Pos }
func (n *Number) Position() Pos     { return n.Pos }
func (n *Bool) Position() Pos       { return n.Pos }
func (n *Null) Position() Pos       { return n.Pos }
func (n *Identifier) Position() Pos { return n.Pos }

func (*Object) node()     {}
func (*Array) node()      {}
func (*String) node()     {}
func (*Number) node()     {}
func (*Bool) node()       {}
func (*Null) node()       {}
func (*Identifier) node() {}

// Declaration is `[export] const|let|var <Name> = <Init>`.
type Declaration struct {
	Keyword  string
	Name     string
	Exported bool
	Init     Node
	Pos      Pos
}

// Program is an ordered list of declarations.
type Program struct {
	Decls []*Declaration
}

// Lookup returns the first declaration bound to name, or nil.
func (p *Program) Lookup(name string) *Declaration {
	for _, d := range p.Decls {
		if d.Name == name {
			return d
		}
	}
	return nil
}

// NewObject builds an object from properties.
func NewObject(props ...*Property) *Object {
	return &Object{Props: props}
}

// NewProperty builds a property with an identifier-style key.
func NewProperty(key string, value Node) *Property {
	kind := KeyIdent
	if !IsIdentifier(key) {
		kind = KeyString
	}
	return &Property{Key: key, KeyKind: kind, Value: value}
}

// NewString builds a string literal.
func NewString(s string) *String { return &String{Value: s} }

// Clone returns a deep copy of n.
func Clone(n Node) Node {
	switch v := n.(type) {
	case *Object:
		out := &Object{Pos: v.Pos, Props: make([]*Property, len(v.Props))}
		for i, p := range v.Props {
			cp := *p
			cp.Value = Clone(p.Value)
			out.Props[i] = &cp
		}
		return out
	case *Array:
		out := &Array{Pos: v.Pos, Elems: make([]Node, len(v.Elems))}
		for i, e := range v.Elems {
			out.Elems[i] = Clone(e)
		}
		return out
	case *String:
		cp := *v
		return &cp
	case *Number:
		cp := *v
		return &cp
	case *Bool:
		cp := *v
		return &cp
	case *Null:
		cp := *v
		return &cp
	case *Identifier:
		cp := *v
		return &cp
	default:
		return nil
	}
}

// Equal reports whether a and b have the same shape and values.
// Positions and key spelling are ignored.
func Equal(a, b Node) bool {
	switch x := a.(type) {
	case *Object:
		y, ok := b.(*Object)
		if !ok || len(x.Props) != len(y.Props) {
			return false
		}
		for i := range x.Props {
			if x.Props[i].Key != y.Props[i].Key || !Equal(x.Props[i].Value, y.Props[i].Value) {
				return false
			}
		}
		return true
	case *Array:
		y, ok := b.(*Array)
		if !ok || len(x.Elems) != len(y.Elems) {
			return false
		}
		for i := range x.Elems {
			if !Equal(x.Elems[i], y.Elems[i]) {
				return false
			}
		}
		return true
	case *String:
		y, ok := b.(*String)
		return ok && x.Value == y.Value
	case *Number:
		y, ok := b.(*Number)
		return ok && x.Value == y.Value
	case *Bool:
		y, ok := b.(*Bool)
		return ok && x.Value == y.Value
	case *Null:
		_, ok := b.(*Null)
		return ok
	case *Identifier:
		y, ok := b.(*Identifier)
		return ok && x.Name == y.Name
	default:
		return a == nil && b == nil
	}
}
