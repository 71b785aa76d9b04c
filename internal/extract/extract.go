// Package extract implements the four field extractors (product info,
// variants, reviews, questions) and the statistics aggregator. Each
// extractor follows the same two-tier strategy: consume the located
// JSON-LD product block when present, otherwise fall back to heuristic
// DOM scanning over marker attributes. Extractors degrade to empty
// results instead of returning errors; one extractor failing never
// affects its siblings.
package extract

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// stringValue renders a loosely-typed JSON-LD scalar as a string. JSON
// numbers arrive as float64 and are printed without a trailing ".0" when
// integral.
func stringValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return fmt.Sprintf("%d", int64(t))
		}
		return fmt.Sprintf("%v", t)
	case bool:
		return fmt.Sprintf("%t", t)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", t)
	}
}

// nestedName handles the string-or-object-with-name shape used by JSON-LD
// brand and author fields.
func nestedName(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case map[string]interface{}:
		return stringValue(t["name"])
	default:
		return ""
	}
}

// floatValue extracts a float from a JSON-LD scalar that may be a number
// or numeric string. ok is false when no numeric value is present.
func floatValue(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case string:
		var f float64
		if _, err := fmt.Sscanf(t, "%f", &f); err == nil {
			return f, true
		}
	}
	return 0, false
}

// asList normalizes a JSON-LD field that may hold a single object or a
// list of objects into a slice of objects.
func asList(v interface{}) []map[string]interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		return []map[string]interface{}{t}
	case []interface{}:
		out := make([]map[string]interface{}, 0, len(t))
		for _, item := range t {
			if obj, ok := item.(map[string]interface{}); ok {
				out = append(out, obj)
			}
		}
		return out
	default:
		return nil
	}
}

// markerText returns the cleaned text of the first element carrying the
// given data-at marker value, with ok reporting whether one exists.
func markerText(s *goquery.Selection, marker string) (string, bool) {
	el := s.Find(`[data-at="` + marker + `"]`).First()
	if el.Length() == 0 {
		return "", false
	}
	return el.Text(), true
}
