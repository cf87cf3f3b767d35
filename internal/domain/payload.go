package domain

import (
	"encoding/json"
	"fmt"
	"reflect"
)

// NormalizePayload converts an arbitrary agent work product into its stored
// text encoding and output type. Structured values (maps, slices, structs)
// are serialized and forced to json. Strings and byte payloads stay as-is:
// they are stored as json only when the hint says json and the content
// actually parses, so a payload that merely looks like it should be JSON
// degrades to text instead of corrupting later reads.
func NormalizePayload(data any, hint OutputType) (string, OutputType) {
	switch v := data.(type) {
	case nil:
		return "", OutputTypeText
	case string:
		return normalizeText(v, hint)
	case []byte:
		return normalizeText(string(v), hint)
	case json.RawMessage:
		return normalizeText(string(v), hint)
	}

	switch reflect.ValueOf(data).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		if b, err := json.Marshal(data); err == nil {
			return string(b), OutputTypeJSON
		}
	}
	return fmt.Sprintf("%v", data), OutputTypeText
}

func normalizeText(s string, hint OutputType) (string, OutputType) {
	if hint == OutputTypeJSON && json.Valid([]byte(s)) {
		return s, OutputTypeJSON
	}
	return s, OutputTypeText
}

// ParsePayload recovers the structured form of a stored payload. For json
// rows it returns the decoded value; decoding failure falls back to the raw
// string rather than erroring. Text rows are returned verbatim.
func ParsePayload(raw string, typ OutputType) any {
	if typ == OutputTypeJSON {
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err == nil {
			return v
		}
	}
	return raw
}

// DecodedPayload is the structured view of one stored agent output, decoded
// into the closed set of shapes context extraction understands. Payloads
// that are not JSON mappings decode to the opaque form (Mapping == false)
// and are skipped by extraction.
type DecodedPayload struct {
	Mapping  bool
	Language *LanguageOutput
	Results  *SearchResultOutput
}

// LanguageOutput is the language-detection facet of a mapping payload.
type LanguageOutput struct {
	DetectedLanguage string
	LanguageName     string
	Entities         map[string]any
	IsComplete       *bool
}

// SearchResultOutput is the first recognized result collection in a
// mapping payload.
type SearchResultOutput struct {
	Service ServiceType
	Results []any
}

// DecodePayload decodes a stored agent output into its variant form. Only
// rows stored as json are inspected; anything else, including valid JSON
// that is not an object, is opaque.
func DecodePayload(raw string, typ OutputType) DecodedPayload {
	if typ != OutputTypeJSON {
		return DecodedPayload{}
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return DecodedPayload{}
	}

	d := DecodedPayload{Mapping: true, Language: &LanguageOutput{}}
	if b, ok := fields["detected_language"]; ok {
		_ = json.Unmarshal(b, &d.Language.DetectedLanguage)
	}
	if b, ok := fields["language_name"]; ok {
		_ = json.Unmarshal(b, &d.Language.LanguageName)
	}
	if b, ok := fields["entities"]; ok {
		var ents map[string]any
		if err := json.Unmarshal(b, &ents); err == nil {
			d.Language.Entities = ents
		}
	}
	if b, ok := fields["is_complete"]; ok {
		var complete bool
		if err := json.Unmarshal(b, &complete); err == nil {
			d.Language.IsComplete = &complete
		}
	}

	for _, rc := range ResultCollections {
		b, ok := fields[rc.Key]
		if !ok {
			continue
		}
		var results []any
		if err := json.Unmarshal(b, &results); err != nil || len(results) == 0 {
			continue
		}
		d.Results = &SearchResultOutput{Service: rc.Service, Results: results}
		break
	}
	return d
}
