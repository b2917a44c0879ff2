// Package deepcopy copies parameter values so that two holders of a value
// never observe each other's mutations.
package deepcopy

import "reflect"

// Cloner is implemented by values that know how to copy themselves. Copy
// prefers it over reflection.
type Cloner interface {
	Clone() any
}

// Copy returns a deep copy of v.
//
// Maps, slices, arrays and the exported fields of structs are copied
// recursively. Anything else is copied by assignment: scalars, strings and
// unexported struct fields are values already, and pointers to live handles
// keep their identity.
func Copy(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case Cloner:
		return t.Clone()
	case []any:
		if t == nil {
			return t
		}
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = Copy(e)
		}
		return out
	case map[string]any:
		if t == nil {
			return t
		}
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = Copy(e)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.Struct:
		return copyValue(rv).Interface()
	default:
		return v
	}
}

func copyValue(rv reflect.Value) reflect.Value {
	switch rv.Kind() {
	case reflect.Slice:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := range rv.Len() {
			out.Index(i).Set(copyValue(rv.Index(i)))
		}
		return out
	case reflect.Array:
		out := reflect.New(rv.Type()).Elem()
		for i := range rv.Len() {
			out.Index(i).Set(copyValue(rv.Index(i)))
		}
		return out
	case reflect.Map:
		if rv.IsNil() {
			return rv
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			out.SetMapIndex(iter.Key(), copyValue(iter.Value()))
		}
		return out
	case reflect.Struct:
		out := reflect.New(rv.Type()).Elem()
		out.Set(rv)
		for i := range rv.NumField() {
			if f := out.Field(i); f.CanSet() {
				f.Set(copyValue(rv.Field(i)))
			}
		}
		return out
	case reflect.Interface:
		if rv.IsNil() {
			return rv
		}
		out := reflect.New(rv.Type()).Elem()
		if c := Copy(rv.Elem().Interface()); c != nil {
			out.Set(reflect.ValueOf(c))
		}
		return out
	default:
		return rv
	}
}
