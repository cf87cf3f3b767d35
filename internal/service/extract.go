package service

import (
	"encoding/json"
	"regexp"
)

var (
	fencedJSONRe = regexp.MustCompile("(?s)```(?:json)?\\s*(\\{.*?\\})\\s*```")
	bareJSONRe   = regexp.MustCompile(`\{[^{}]*(?:\{[^{}]*\}[^{}]*)*\}`)
)

// extractJSON pulls a JSON object out of reasoning output that may be
// wrapped in markdown code fences or surrounding prose. Returns the parsed
// object, or false when no object can be recovered.
func extractJSON(text string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(text), &obj); err == nil {
		return obj, true
	}

	for _, m := range fencedJSONRe.FindAllStringSubmatch(text, -1) {
		if err := json.Unmarshal([]byte(m[1]), &obj); err == nil {
			return obj, true
		}
	}

	for _, m := range bareJSONRe.FindAllString(text, -1) {
		if err := json.Unmarshal([]byte(m), &obj); err == nil {
			return obj, true
		}
	}
	return nil, false
}
