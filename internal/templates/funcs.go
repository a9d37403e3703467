package templates

import (
	"encoding/json"
	"fmt"
	"path"
	"reflect"
	"strings"
	"text/template"
	"unicode"

	"gopkg.in/yaml.v3"
)

// FuncMap returns the functions available to every template. include is
// added per render by the Renderer.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"lower":      strings.ToLower,
		"upper":      strings.ToUpper,
		"title":      title,
		"trim":       strings.TrimSpace,
		"trimPrefix": trimPrefix,
		"trimSuffix": trimSuffix,
		"replace":    replace,
		"split":      split,
		"join":       join,
		"contains":   contains,
		"hasPrefix":  hasPrefix,
		"hasSuffix":  hasSuffix,
		"repeat":     repeat,
		"snake":      toSnakeCase,
		"kebab":      toKebabCase,

		"indent":  indentLines,
		"nindent": nindentLines,
		"quote":   quote,
		"squote":  singleQuote,

		"default":  defaultValue,
		"coalesce": coalesce,
		"ternary":  ternary,
		"empty":    isEmpty,
		"first":    first,
		"last":     last,

		"pathBase": path.Base,
		"pathDir":  path.Dir,
		"pathExt":  path.Ext,
		"pathJoin": path.Join,
		"stem":     stem,

		"dict":   dict,
		"list":   list,
		"toYaml": toYAML,
		"toJson": toJSON,
	}
}

// Argument order follows pipelines: the piped value comes last.

func trimPrefix(prefix, s string) string { return strings.TrimPrefix(s, prefix) }
func trimSuffix(suffix, s string) string { return strings.TrimSuffix(s, suffix) }
func replace(old, repl, s string) string { return strings.ReplaceAll(s, old, repl) }
func split(sep, s string) []string       { return strings.Split(s, sep) }
func contains(sub, s string) bool        { return strings.Contains(s, sub) }
func hasPrefix(prefix, s string) bool    { return strings.HasPrefix(s, prefix) }
func hasSuffix(suffix, s string) bool    { return strings.HasSuffix(s, suffix) }
func repeat(n int, s string) string      { return strings.Repeat(s, n) }

func join(sep string, v any) string {
	switch list := v.(type) {
	case []string:
		return strings.Join(list, sep)
	case nil:
		return ""
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return toString(v)
	}
	parts := make([]string, rv.Len())
	for i := range parts {
		parts[i] = toString(rv.Index(i).Interface())
	}
	return strings.Join(parts, sep)
}

func title(s string) string {
	var b strings.Builder
	upperNext := true
	for _, r := range s {
		if upperNext && unicode.IsLetter(r) {
			b.WriteRune(unicode.ToUpper(r))
			upperNext = false
			continue
		}
		if unicode.IsSpace(r) || r == '-' || r == '_' {
			upperNext = true
		}
		b.WriteRune(r)
	}
	return b.String()
}

func toSnakeCase(s string) string {
	return delimit(s, '_')
}

func toKebabCase(s string) string {
	return delimit(s, '-')
}

func delimit(s string, sep rune) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == ' ' || r == '-' || r == '_' || r == '.':
			if b.Len() > 0 && !strings.HasSuffix(b.String(), string(sep)) {
				b.WriteRune(sep)
			}
		case unicode.IsUpper(r):
			if i > 0 && b.Len() > 0 && !strings.HasSuffix(b.String(), string(sep)) &&
				(unicode.IsLower(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteRune(sep)
			}
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSuffix(b.String(), string(sep))
}

func indentLines(spaces int, s string) string {
	pad := strings.Repeat(" ", spaces)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = pad + line
		}
	}
	return strings.Join(lines, "\n")
}

func nindentLines(spaces int, s string) string {
	return "\n" + indentLines(spaces, s)
}

func quote(v any) string {
	return `"` + strings.ReplaceAll(toString(v), `"`, `\"`) + `"`
}

func singleQuote(v any) string {
	return "'" + strings.ReplaceAll(toString(v), "'", `'\''`) + "'"
}

func defaultValue(def any, given any) any {
	if isEmpty(given) {
		return def
	}
	return given
}

func coalesce(values ...any) any {
	for _, v := range values {
		if !isEmpty(v) {
			return v
		}
	}
	return nil
}

func ternary(trueVal, falseVal any, condition bool) any {
	if condition {
		return trueVal
	}
	return falseVal
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String, reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	default:
		return rv.IsZero()
	}
}

func first(v any) any {
	rv := reflect.ValueOf(v)
	if (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) || rv.Len() == 0 {
		return nil
	}
	return rv.Index(0).Interface()
}

func last(v any) any {
	rv := reflect.ValueOf(v)
	if (rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array) || rv.Len() == 0 {
		return nil
	}
	return rv.Index(rv.Len() - 1).Interface()
}

// dict builds a map from alternating keys and values, for passing
// several values to include.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict: odd number of arguments")
	}
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict: key %v is not a string", pairs[i])
		}
		m[key] = pairs[i+1]
	}
	return m, nil
}

func list(items ...any) []any {
	return items
}

// stem returns the base name without its extension.
func stem(p string) string {
	base := path.Base(p)
	return strings.TrimSuffix(base, path.Ext(base))
}

func toYAML(v any) (string, error) {
	out, err := yaml.Marshal(v)
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(string(out), "\n"), nil
}

func toJSON(v any) (string, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func toString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case nil:
		return ""
	}
	return fmt.Sprint(v)
}
