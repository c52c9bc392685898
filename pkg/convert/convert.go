package convert

import (
	"fmt"
	"strings"
	"unicode"
)

var errNotMap = fmt.Errorf("input data is not a map")
var errNotStringValue = fmt.Errorf("map value is not a string")

// ToStringMap converts map[string]any or map[string]string to map[string]string.
// Returns an error if input is not a map or if map[string]any contains non-string values.
// Returns nil map if input is nil.
func ToStringMap(data any) (map[string]string, error) {
	if data == nil {
		return nil, nil
	}
	if m, ok := data.(map[string]string); ok {
		return m, nil
	}
	if mAny, ok := data.(map[string]any); ok {
		result := make(map[string]string, len(mAny))
		for k, v := range mAny {
			if vStr, okStr := v.(string); okStr {
				result[k] = vStr
			} else {
				return nil, fmt.Errorf("key '%s': %w (type %T)", k, errNotStringValue, v)
			}
		}
		return result, nil
	}
	return nil, fmt.Errorf("%w: input type %T", errNotMap, data)
}

// SnakeCaseKeys returns a copy of the map with every key converted from
// CamelCase to snake_case, recursing into nested maps and slices of maps.
// Values are not modified. Used to normalize service responses, which use
// CamelCase keys, into the snake_case shape of the reported result.
func SnakeCaseKeys(data map[string]any) map[string]any {
	if data == nil {
		return nil
	}
	result := make(map[string]any, len(data))
	for k, v := range data {
		result[CamelToSnake(k)] = snakeCaseValue(v)
	}
	return result
}

func snakeCaseValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return SnakeCaseKeys(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = snakeCaseValue(item)
		}
		return out
	default:
		return v
	}
}

// CamelToSnake converts CamelCase or mixedCase identifiers to snake_case.
// Runs of upper-case letters are treated as a single word, so "DashARN"
// becomes "dash_arn" rather than "dash_a_r_n".
func CamelToSnake(s string) string {
	if s == "" {
		return s
	}

	var b strings.Builder
	b.Grow(len(s) + 4)

	runes := []rune(s)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			prevLower := i > 0 && unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if i > 0 && (prevLower || (nextLower && runes[i-1] != '_')) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
