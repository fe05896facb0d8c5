package normalize

import (
	"fmt"
	"strconv"
	"strings"
)

// lookup walks a dotted path into a JSON-like value. Numeric segments index
// into arrays ("media.images.0.url").
func lookup(raw map[string]any, path string) any {
	var current any = raw

	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			current = node[segment]
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil
			}
			current = node[idx]
		default:
			return nil
		}
	}

	return current
}

// firstPresent returns the first non-nil value among the candidate paths.
func firstPresent(raw map[string]any, paths []string) any {
	for _, path := range paths {
		if v := lookup(raw, path); v != nil {
			return v
		}
	}
	return nil
}

// firstString probes candidate paths and returns the first non-empty value
// rendered as a string. Numeric identifiers (SKUs often arrive as numbers)
// are stringified.
func firstString(raw map[string]any, paths []string) string {
	for _, path := range paths {
		if s := asString(lookup(raw, path)); s != "" {
			return s
		}
	}
	return ""
}

// firstNumber probes candidate paths and returns the first parseable,
// non-zero number. Zero is skipped on purpose: a zero price in one shape
// usually means "unset", with the real value living under another path.
func firstNumber(raw map[string]any, paths []string) (float64, bool) {
	for _, path := range paths {
		if f, ok := toFloat(lookup(raw, path)); ok && f != 0 {
			return f, true
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case string:
		cleaned := nonNumeric.ReplaceAllString(n, "")
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func asString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		// SKUs and IDs arrive as JSON numbers in some shapes.
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return ""
	default:
		return fmt.Sprint(s)
	}
}

func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

func asSlice(v any) []any {
	s, _ := v.([]any)
	return s
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	default:
		return true
	}
}
