package scaffold

import (
	"reflect"

	"github.com/grimwm/stencil/internal/config"
)

// ShouldRender reports whether a template gated by when renders for ctx.
// An empty predicate always renders; otherwise every named key must be
// truthy. Unknown names are falsy.
func ShouldRender(when config.When, ctx *RenderContext) bool {
	if len(when) == 0 {
		return true
	}
	return Evaluate(when, ctx.Vars())
}

// Evaluate applies a predicate to an already projected namespace.
func Evaluate(when config.When, vars map[string]any) bool {
	for _, name := range when {
		if !Truthy(vars[name]) {
			return false
		}
	}
	return true
}

// Falsy returns the names in when that are not truthy, in order.
func Falsy(when config.When, vars map[string]any) []string {
	var out []string
	for _, name := range when {
		if !Truthy(vars[name]) {
			out = append(out, name)
		}
	}
	return out
}

// Truthy reports whether v counts as true: nil, false, empty strings,
// empty collections and zero numbers are false.
func Truthy(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool()
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() > 0
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return false
		}
		return Truthy(rv.Elem().Interface())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64:
		return !rv.IsZero()
	default:
		return true
	}
}
