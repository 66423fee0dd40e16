// Package substitute fills {{name}} placeholders in template assets.
package substitute

import (
	"regexp"
	"strconv"
)

// placeholder matches a {{...}} token. The name is everything up to the
// first closing brace, matched literally.
var placeholder = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// Vars maps placeholder names to scalar values. Nil values count as absent.
type Vars map[string]any

// Apply replaces every {{key}} in tmpl with the string form of vars[key].
// Tokens with no usable value are replaced by the empty string.
//
// Replacement is a single pass over tmpl: placeholder syntax appearing in a
// substituted value is emitted verbatim and never expanded.
func Apply(tmpl string, vars Vars) string {
	if tmpl == "" {
		return ""
	}
	return placeholder.ReplaceAllStringFunc(tmpl, func(token string) string {
		name := token[2 : len(token)-2]
		s, _ := Stringify(vars[name])
		return s
	})
}

// Stringify converts a scalar to its natural string form. Integral numbers
// print without a fraction. Nil, maps and slices are not scalars and report
// false.
func Stringify(v any) (string, bool) {
	switch t := v.(type) {
	case nil:
		return "", false
	case string:
		return t, true
	case bool:
		return strconv.FormatBool(t), true
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(t), 'f', -1, 32), true
	case int:
		return strconv.Itoa(t), true
	case int64:
		return strconv.FormatInt(t, 10), true
	case int32:
		return strconv.FormatInt(int64(t), 10), true
	case uint:
		return strconv.FormatUint(uint64(t), 10), true
	case uint64:
		return strconv.FormatUint(t, 10), true
	case interface{ String() string }:
		return t.String(), true
	default:
		return "", false
	}
}
