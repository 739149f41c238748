package listing

import (
	"reflect"
	"strings"
)

// FieldProvider is implemented by entities that expose their sortable and
// filterable fields by name. Implementations must return nil for unknown
// names, never panic.
type FieldProvider interface {
	Field(name string) any
}

// Accessor extracts a single field value from an item. Accessors must be
// total functions: any field name resolves to a value, with nil standing
// in for absent or unknown fields.
type Accessor[T any] func(item T, field string) any

// DefaultAccessor resolves fields by direct property lookup. It prefers
// the FieldProvider contract, falls back to map lookup and finally to
// reflection over exported struct fields (matching json tag or field
// name, case-insensitively). Unknown fields yield nil.
func DefaultAccessor[T any](item T, field string) any {
	switch v := any(item).(type) {
	case FieldProvider:
		return v.Field(field)
	case map[string]any:
		return v[field]
	}
	return reflectField(any(item), field)
}

func reflectField(item any, field string) any {
	rv := reflect.ValueOf(item)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return nil
	}
	rt := rv.Type()
	for i := range rt.NumField() {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		match := strings.EqualFold(f.Name, field)
		if tag, ok := f.Tag.Lookup("json"); ok && !match {
			if tagName, _, _ := strings.Cut(tag, ","); tagName != "" && tagName != "-" {
				match = strings.EqualFold(tagName, field)
			}
		}
		if !match {
			continue
		}
		val := rv.Field(i)
		if val.Kind() == reflect.Pointer {
			if val.IsNil() {
				return nil
			}
			val = val.Elem()
		}
		return val.Interface()
	}
	return nil
}
