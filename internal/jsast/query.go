package jsast

// FindProperty returns the first property of obj named key, or nil.
func FindProperty(obj *Object, key string) *Property {
	if obj == nil {
		return nil
	}
	for _, p := range obj.Props {
		if p.Key == key {
			return p
		}
	}
	return nil
}

// PropertyValue returns the value of the first property named key, or nil.
func PropertyValue(obj *Object, key string) Node {
	if p := FindProperty(obj, key); p != nil {
		return p.Value
	}
	return nil
}

// StringProperty returns the string value of key. ok is false when the key
// is absent or holds something other than a string literal.
func StringProperty(obj *Object, key string) (string, bool) {
	s, ok := PropertyValue(obj, key).(*String)
	if !ok {
		return "", false
	}
	return s.Value, true
}

// HasStringProperty reports whether obj has key set to the string value.
func HasStringProperty(obj *Object, key, value string) bool {
	s, ok := StringProperty(obj, key)
	return ok && s == value
}

// IndexByString returns the indices of the object elements of arr whose
// key property is the string value, in array order.
func IndexByString(arr *Array, key, value string) []int {
	var out []int
	for i, e := range arr.Elems {
		if obj, ok := e.(*Object); ok && HasStringProperty(obj, key, value) {
			out = append(out, i)
		}
	}
	return out
}

// UpsertProperty sets key on obj. The first existing property keeps its
// position; otherwise the property is appended.
func UpsertProperty(obj *Object, key string, value Node) {
	if p := FindProperty(obj, key); p != nil {
		p.Value = value
		return
	}
	obj.Props = append(obj.Props, NewProperty(key, value))
}

// RemoveProperty deletes every property named key and returns how many
// were removed.
func RemoveProperty(obj *Object, key string) int {
	kept := obj.Props[:0]
	removed := 0
	for _, p := range obj.Props {
		if p.Key == key {
			removed++
			continue
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < len(obj.Props); i++ {
		obj.Props[i] = nil
	}
	obj.Props = kept
	return removed
}

// RemoveElements deletes the elements at the given ascending indices.
func RemoveElements(arr *Array, indices []int) {
	if len(indices) == 0 {
		return
	}
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		drop[i] = true
	}
	kept := make([]Node, 0, len(arr.Elems)-len(drop))
	for i, e := range arr.Elems {
		if !drop[i] {
			kept = append(kept, e)
		}
	}
	arr.Elems = kept
}

// FindArrayElement returns the index of the first element matching pred,
// or -1.
func FindArrayElement(arr *Array, pred func(Node) bool) int {
	for i, e := range arr.Elems {
		if pred(e) {
			return i
		}
	}
	return -1
}

// WithStringProperty builds a predicate matching object elements whose key
// property is the string value.
func WithStringProperty(key, value string) func(Node) bool {
	return func(n Node) bool {
		obj, ok := n.(*Object)
		return ok && HasStringProperty(obj, key, value)
	}
}
