package internal

import (
	"reflect"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// PathSeparator splits dotted identifiers into lookup segments.
const PathSeparator = "."

// Scope is the variable binding a render executes against. It is owned by a
// single render and is not safe for concurrent use.
type Scope struct {
	vars map[string]any
}

// NewScope creates a scope holding a shallow copy of data so bindings made
// during a render never leak into the caller's map.
func NewScope(data map[string]any) *Scope {
	vars := make(map[string]any, len(data))
	for k, v := range data {
		vars[k] = v
	}
	return &Scope{vars: vars}
}

// Set binds name to value.
func (s *Scope) Set(name string, value any) {
	s.vars[name] = value
}

// Has reports whether the top-level name is bound.
func (s *Scope) Has(name string) bool {
	_, ok := s.vars[name]
	return ok
}

// Get resolves name, walking dot paths through maps, struct fields and list
// indexes. A name bound verbatim (dots included) wins over path walking.
func (s *Scope) Get(name string) (any, bool) {
	if v, ok := s.vars[name]; ok {
		return v, true
	}
	if !strings.Contains(name, PathSeparator) {
		return nil, false
	}

	segments := strings.Split(name, PathSeparator)
	current, ok := s.vars[segments[0]]
	if !ok {
		return nil, false
	}
	for _, seg := range segments[1:] {
		current, ok = lookupMember(current, seg)
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// Vars returns the live binding map.
func (s *Scope) Vars() map[string]any {
	return s.vars
}

// lookupMember returns container[key] for maps, lists and structs.
func lookupMember(container any, key string) (any, bool) {
	switch c := container.(type) {
	case nil:
		return nil, false
	case map[string]any:
		v, ok := c[key]
		return v, ok
	case []any:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= len(c) {
			return nil, false
		}
		return c[i], true
	}

	rv := reflect.ValueOf(container)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}

	switch rv.Kind() {
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := rv.MapIndex(reflect.ValueOf(key).Convert(rv.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Slice, reflect.Array:
		i, err := strconv.Atoi(key)
		if err != nil || i < 0 || i >= rv.Len() {
			return nil, false
		}
		return rv.Index(i).Interface(), true
	case reflect.Struct:
		f := rv.FieldByName(key)
		if !f.IsValid() {
			f = rv.FieldByName(exportedName(key))
		}
		if !f.IsValid() || !f.CanInterface() {
			return nil, false
		}
		return f.Interface(), true
	default:
		return nil, false
	}
}

func exportedName(name string) string {
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError {
		return name
	}
	return string(unicode.ToUpper(r)) + name[size:]
}
