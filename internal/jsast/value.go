package jsast

import (
	"encoding/json"
	"reflect"
	"sort"
	"strconv"
)

// Field is one entry of an ordered object built by ValueToNode. Nil and
// empty-string values are dropped unless Keep is set.
type Field struct {
	Key   string
	Value any
	Keep  bool
}

// Fields is an object literal with a fixed key order.
type Fields []Field

// ValueToNode converts a Go value into a literal tree: nil, strings,
// bools, every integer and float kind, json.Number, slices and arrays,
// Fields, maps with string keys (keys sorted), pointers to any of these
// and Node itself. Anything else (funcs, channels, structs) becomes null.
func ValueToNode(v any) Node {
	switch x := v.(type) {
	case nil:
		return &Null{}
	case Node:
		return x
	case string:
		return NewString(x)
	case bool:
		return &Bool{Value: x}
	case int:
		return intNode(int64(x))
	case float64:
		return floatNode(x)
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return &Null{}
		}
		return &Number{Value: f, Raw: x.String()}
	case []string:
		arr := &Array{Elems: make([]Node, len(x))}
		for i, s := range x {
			arr.Elems[i] = NewString(s)
		}
		return arr
	case []any:
		arr := &Array{Elems: make([]Node, len(x))}
		for i, e := range x {
			arr.Elems[i] = ValueToNode(e)
		}
		return arr
	case Fields:
		obj := &Object{}
		for _, f := range x {
			if !f.Keep && isBlank(f.Value) {
				continue
			}
			obj.Props = append(obj.Props, NewProperty(f.Key, ValueToNode(f.Value)))
		}
		return obj
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := &Object{Props: make([]*Property, 0, len(keys))}
		for _, k := range keys {
			if isBlank(x[k]) {
				continue
			}
			obj.Props = append(obj.Props, NewProperty(k, ValueToNode(x[k])))
		}
		return obj
	default:
		return reflectToNode(reflect.ValueOf(v))
	}
}

func reflectToNode(rv reflect.Value) Node {
	switch rv.Kind() {
	case reflect.String:
		return NewString(rv.String())
	case reflect.Bool:
		return &Bool{Value: rv.Bool()}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intNode(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uintNode(rv.Uint())
	case reflect.Float32:
		// through the shortest float32 spelling so 0.1 stays 0.1
		f, _ := strconv.ParseFloat(strconv.FormatFloat(rv.Float(), 'f', -1, 32), 64)
		return floatNode(f)
	case reflect.Float64:
		return floatNode(rv.Float())
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return &Null{}
		}
		arr := &Array{Elems: make([]Node, rv.Len())}
		for i := range arr.Elems {
			arr.Elems[i] = ValueToNode(rv.Index(i).Interface())
		}
		return arr
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return &Null{}
		}
		keys := make([]string, 0, rv.Len())
		values := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k := iter.Key().String()
			keys = append(keys, k)
			values[k] = iter.Value().Interface()
		}
		sort.Strings(keys)
		obj := &Object{Props: make([]*Property, 0, len(keys))}
		for _, k := range keys {
			if isBlank(values[k]) {
				continue
			}
			obj.Props = append(obj.Props, NewProperty(k, ValueToNode(values[k])))
		}
		return obj
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return &Null{}
		}
		return ValueToNode(rv.Elem().Interface())
	default:
		return &Null{}
	}
}

func isBlank(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	}
	return false
}

func intNode(v int64) *Number {
	return &Number{Value: float64(v), Raw: strconv.FormatInt(v, 10)}
}

// uintNode keeps values above math.MaxInt64 exact in Raw.
func uintNode(v uint64) *Number {
	return &Number{Value: float64(v), Raw: strconv.FormatUint(v, 10)}
}

func floatNode(v float64) *Number {
	return &Number{Value: v, Raw: strconv.FormatFloat(v, 'f', -1, 64)}
}

// NodeToValue converts a literal tree to plain Go values: map[string]any,
// []any, string, float64, bool and nil. Identifiers become their name,
// undefined becomes nil.
// Duplicate keys keep the first value.
func NodeToValue(n Node) any {
	switch v := n.(type) {
	case *Object:
		m := make(map[string]any, len(v.Props))
		for _, p := range v.Props {
			if _, seen := m[p.Key]; !seen {
				m[p.Key] = NodeToValue(p.Value)
			}
		}
		return m
	case *Array:
		out := make([]any, len(v.Elems))
		for i, e := range v.Elems {
			out[i] = NodeToValue(e)
		}
		return out
	case *String:
		return v.Value
	case *Number:
		return v.Value
	case *Bool:
		return v.Value
	case *Identifier:
		if v.Name == "undefined" {
			return nil
		}
		return v.Name
	default:
		return nil
	}
}
