// Package reconcile holds the optimistic-update merge logic as explicit,
// independently testable functions instead of inline object patching.
package reconcile

import (
	"reflect"
	"strings"
)

// Apply overlays the set fields of a partial change onto original and
// returns the result. Fields match by json tag name; nil pointers and
// zero values in the partial are treated as absent. Pointer fields in the
// partial assign into value fields of the entity by dereference.
func Apply[T, P any](original T, intended P) T {
	out := original
	dst := reflect.ValueOf(&out).Elem()
	applyPartial(dst, reflect.ValueOf(intended))
	return out
}

// Merge reconciles an optimistic update once the server has answered.
// Precedence is original < intended < server, with one exception: a field
// named in protected whose server value came back empty/null keeps the
// previously known value instead of being clobbered. This covers backends
// whose update endpoints echo partial representations.
func Merge[T, P any](original T, intended P, server T, protected []string) T {
	out := Apply(original, intended)

	guard := make(map[string]struct{}, len(protected))
	for _, name := range protected {
		guard[name] = struct{}{}
	}

	dst := reflect.ValueOf(&out).Elem()
	src := reflect.ValueOf(server)
	for i := 0; i < src.NumField(); i++ {
		field := src.Type().Field(i)
		if !field.IsExported() {
			continue
		}
		value := src.Field(i)
		if value.IsZero() {
			if _, ok := guard[fieldName(field)]; ok {
				continue
			}
		}
		dst.Field(i).Set(value)
	}
	return out
}

func applyPartial(dst, src reflect.Value) {
	byName := make(map[string]reflect.Value, dst.NumField())
	for i := 0; i < dst.NumField(); i++ {
		field := dst.Type().Field(i)
		if field.IsExported() {
			byName[fieldName(field)] = dst.Field(i)
		}
	}

	for i := 0; i < src.NumField(); i++ {
		field := src.Type().Field(i)
		if !field.IsExported() {
			continue
		}
		value := src.Field(i)
		if value.IsZero() {
			continue
		}
		target, ok := byName[fieldName(field)]
		if !ok {
			continue
		}
		switch {
		case value.Type() == target.Type():
			target.Set(value)
		case value.Kind() == reflect.Pointer && value.Type().Elem() == target.Type():
			target.Set(value.Elem())
		}
	}
}

func fieldName(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if tag == "" || tag == "-" {
		return field.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "" {
		return field.Name
	}
	return name
}
