// Package deepclone copies arbitrary value graphs so that the copy shares no
// mutable memory with the original.
//
// Acyclic plain data (maps, slices, pointers, exported struct fields,
// scalars) is handed to github.com/brunoga/deep. Anything else, or any
// panic raised by the library, goes through a reflect-based walker that
// tracks visited references, so self-referencing graphs terminate and keep
// their shape.
//
// Funcs, channels and unsafe pointers are never copied; the clone refers
// to the same value as the original.
package deepclone

import (
	"net/url"
	"reflect"
	"regexp"
	"time"

	deep "github.com/brunoga/deep/v5"

	"github.com/bethropolis/pagehist/internal/logger"
)

var (
	timeType   = reflect.TypeOf(time.Time{})
	regexpType = reflect.TypeOf((*regexp.Regexp)(nil))
	urlType    = reflect.TypeOf((*url.URL)(nil))
)

// Clone returns a deep copy of v.
func Clone[T any](v T) T {
	rv := reflect.ValueOf(&v).Elem()
	if isPlain(rv) {
		if out, ok := structural(v); ok {
			return out
		}
	}
	return Fallback(v)
}

// CloneSlice clones every element of items into a fresh slice. A nil input
// stays nil.
func CloneSlice[T any](items []T) []T {
	if items == nil {
		return nil
	}
	out := make([]T, len(items))
	for i := range items {
		out[i] = Clone(items[i])
	}
	return out
}

// structural runs the library copier. deep.Clone reports failure as a
// zero result, so a zero copy of a non-zero value also means ok=false.
func structural[T any](v T) (out T, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.DebugTagf("clone", "structural copy of %T failed, falling back: %v", v, r)
			ok = false
		}
	}()
	out = deep.Clone(v)
	if reflect.ValueOf(&out).Elem().IsZero() && !reflect.ValueOf(&v).Elem().IsZero() {
		logger.DebugTagf("clone", "structural copy of %T came back empty, falling back", v)
		return out, false
	}
	return out, true
}

// Fallback clones v with the reference-tracking walker only.
func Fallback[T any](v T) T {
	c := &cloner{seen: make(map[refKey]reflect.Value)}
	in := reflect.ValueOf(&v).Elem()
	out := reflect.New(in.Type()).Elem()
	out.Set(c.clone(in))
	if res, ok := out.Interface().(T); ok {
		return res
	}
	var zero T // nil interface
	return zero
}

// refKey identifies a reference-typed value. Type and length are part of
// the key so that a struct and its first field, or two slices sharing a
// backing array, are not confused.
type refKey struct {
	ptr uintptr
	typ reflect.Type
	n   int
}

type cloner struct {
	seen map[refKey]reflect.Value
}

func (c *cloner) clone(v reflect.Value) reflect.Value {
	switch v.Kind() {
	case reflect.Invalid:
		return v

	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return v

	case reflect.Pointer:
		if v.IsNil() {
			return v
		}
		switch v.Type() {
		case regexpType:
			// Copy keeps leftmost-longest matching, which recompiling would lose.
			re := v.Interface().(*regexp.Regexp)
			return reflect.ValueOf(re.Copy())
		case urlType:
			u := *v.Interface().(*url.URL)
			return reflect.ValueOf(&u)
		}
		key := refKey{ptr: v.Pointer(), typ: v.Type()}
		if out, ok := c.seen[key]; ok {
			return out
		}
		out := reflect.New(v.Type().Elem())
		c.seen[key] = out
		out.Elem().Set(c.clone(v.Elem()))
		return out

	case reflect.Interface:
		if v.IsNil() {
			return v
		}
		out := reflect.New(v.Type()).Elem()
		out.Set(c.clone(v.Elem()))
		return out

	case reflect.Map:
		if v.IsNil() {
			return v
		}
		key := refKey{ptr: v.Pointer(), typ: v.Type()}
		if out, ok := c.seen[key]; ok {
			return out
		}
		out := reflect.MakeMapWithSize(v.Type(), v.Len())
		c.seen[key] = out
		iter := v.MapRange()
		for iter.Next() {
			out.SetMapIndex(c.clone(iter.Key()), c.clone(iter.Value()))
		}
		return out

	case reflect.Slice:
		if v.IsNil() {
			return v
		}
		key := refKey{ptr: v.Pointer(), typ: v.Type(), n: v.Len()}
		if out, ok := c.seen[key]; ok {
			return out
		}
		out := reflect.MakeSlice(v.Type(), v.Len(), v.Len())
		c.seen[key] = out
		if v.Type().Elem().Kind() == reflect.Uint8 {
			reflect.Copy(out, v)
			return out
		}
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(c.clone(v.Index(i)))
		}
		return out

	case reflect.Array:
		out := reflect.New(v.Type()).Elem()
		for i := 0; i < v.Len(); i++ {
			out.Index(i).Set(c.clone(v.Index(i)))
		}
		return out

	case reflect.Struct:
		out := reflect.New(v.Type()).Elem()
		out.Set(v)
		if v.Type() == timeType {
			return out
		}
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() {
				continue // copied by value above
			}
			out.Field(i).Set(c.clone(v.Field(i)))
		}
		return out
	}

	// Scalars and strings are immutable values.
	return v
}

// isPlain reports whether v is acyclic and made only of scalars, strings,
// maps, slices, arrays, pointers, interfaces and structs whose fields are
// all exported.
func isPlain(v reflect.Value) bool {
	s := &plainScan{onPath: map[refKey]bool{}, done: map[refKey]bool{}}
	return s.walk(v)
}

type plainScan struct {
	onPath map[refKey]bool
	done   map[refKey]bool
}

func (s *plainScan) walk(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return false

	case reflect.Interface:
		return v.IsNil() || s.walk(v.Elem())

	case reflect.Pointer, reflect.Map, reflect.Slice:
		if v.IsNil() {
			return true
		}
		if v.Kind() == reflect.Slice && v.Len() == 0 {
			return true
		}
		key := refKey{ptr: v.Pointer(), typ: v.Type()}
		if s.onPath[key] {
			return false
		}
		if s.done[key] {
			return true
		}
		s.onPath[key] = true
		ok := s.children(v)
		delete(s.onPath, key)
		s.done[key] = true
		return ok

	case reflect.Array:
		return s.children(v)

	case reflect.Struct:
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			if !t.Field(i).IsExported() {
				return false
			}
		}
		return s.children(v)
	}
	return true
}

func (s *plainScan) children(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Pointer:
		return s.walk(v.Elem())
	case reflect.Map:
		iter := v.MapRange()
		for iter.Next() {
			if !s.walk(iter.Key()) || !s.walk(iter.Value()) {
				return false
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if !s.walk(v.Index(i)) {
				return false
			}
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			if !s.walk(v.Field(i)) {
				return false
			}
		}
	}
	return true
}
