// Package deepclone provides deep copying for bson document trees, so that
// built documents never alias builder state or each other.
//
// Common bson container types take a fast path; any other map, slice or
// array kind falls back to reflection.
package deepclone

import (
	"github.com/goccy/go-reflect"
	"go.mongodb.org/mongo-driver/bson"
)

// Value returns a deep copy of v. Maps, slices and arrays are copied
// recursively; every other value is assumed immutable and returned
// unchanged.
func Value(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case bson.M:
		return bson.M(cloneMap(t))
	case map[string]any:
		return cloneMap(t)
	case bson.D:
		return cloneD(t)
	case bson.A:
		return bson.A(cloneSlice(t))
	case []any:
		return cloneSlice(t)
	case []bson.D:
		out := make([]bson.D, len(t))
		for i, d := range t {
			out[i] = cloneD(d)
		}
		return out
	case []bson.M:
		out := make([]bson.M, len(t))
		for i, m := range t {
			out[i] = bson.M(cloneMap(m))
		}
		return out
	case []string:
		return cloneFlat(t)
	case []int:
		return cloneFlat(t)
	case []int64:
		return cloneFlat(t)
	case []float64:
		return cloneFlat(t)
	case []byte:
		return cloneFlat(t)
	}
	return cloneReflect(v)
}

// M returns a deep copy of a document, keeping the bson.M type.
func M(doc bson.M) bson.M {
	if doc == nil {
		return nil
	}
	return bson.M(cloneMap(doc))
}

// D returns a deep copy of an ordered document, keeping the bson.D type.
func D(doc bson.D) bson.D {
	return cloneD(doc)
}

func cloneMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = Value(v)
	}
	return out
}

func cloneD(d bson.D) bson.D {
	if d == nil {
		return nil
	}
	out := make(bson.D, len(d))
	for i, e := range d {
		out[i] = bson.E{Key: e.Key, Value: Value(e.Value)}
	}
	return out
}

func cloneSlice(s []any) []any {
	if s == nil {
		return nil
	}
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = Value(v)
	}
	return out
}

func cloneFlat[T any, S ~[]T](s S) S {
	if s == nil {
		return nil
	}
	out := make(S, len(s))
	copy(out, s)
	return out
}

func cloneReflect(v any) any {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Map:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeMapWithSize(rv.Type(), rv.Len())
		for _, key := range rv.MapKeys() {
			out.SetMapIndex(key, cloneReflectValue(rv.Type().Elem(), rv.MapIndex(key)))
		}
		return out.Interface()
	case reflect.Slice:
		if rv.IsNil() {
			return v
		}
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out.Index(i).Set(cloneReflectValue(rv.Type().Elem(), rv.Index(i)))
		}
		return out.Interface()
	case reflect.Array:
		// Arrays are value types, already copied when boxed into v.
		return v
	default:
		return v
	}
}

func cloneReflectValue(want reflect.Type, rv reflect.Value) reflect.Value {
	cloned := Value(rv.Interface())
	if cloned == nil {
		return reflect.Zero(want)
	}
	return reflect.ValueOf(cloned)
}
