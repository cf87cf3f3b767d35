package service

import "testing"

func TestExtractJSONDirect(t *testing.T) {
	obj, ok := extractJSON(`{"service_type":"flight","is_complete":true}`)
	if !ok {
		t.Fatal("expected a parse")
	}
	if obj["service_type"] != "flight" {
		t.Fatalf("unexpected object: %v", obj)
	}
}

func TestExtractJSONFenced(t *testing.T) {
	text := "Here is the analysis:\n```json\n{\"detected_language\": \"hi\"}\n```\nDone."
	obj, ok := extractJSON(text)
	if !ok || obj["detected_language"] != "hi" {
		t.Fatalf("fenced JSON not recovered: %v %v", obj, ok)
	}
}

func TestExtractJSONFencedWithoutLanguageTag(t *testing.T) {
	text := "```\n{\"a\": 1}\n```"
	obj, ok := extractJSON(text)
	if !ok || obj["a"] != float64(1) {
		t.Fatalf("plain fence not recovered: %v %v", obj, ok)
	}
}

func TestExtractJSONEmbeddedInProse(t *testing.T) {
	text := `Sure! The result is {"entities": {"destination": "Goa"}} as requested.`
	obj, ok := extractJSON(text)
	if !ok {
		t.Fatal("embedded JSON not recovered")
	}
	entities, _ := obj["entities"].(map[string]any)
	if entities["destination"] != "Goa" {
		t.Fatalf("unexpected object: %v", obj)
	}
}

func TestExtractJSONNoObject(t *testing.T) {
	if _, ok := extractJSON("I am sorry, I cannot help with that."); ok {
		t.Fatal("prose must not parse")
	}
	if _, ok := extractJSON(""); ok {
		t.Fatal("empty string must not parse")
	}
}
