package domain

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestNormalizePayloadStructuredForcesJSON(t *testing.T) {
	raw, typ := NormalizePayload(map[string]any{"destination": "Goa"}, OutputTypeText)
	if typ != OutputTypeJSON {
		t.Fatalf("expected json type for map payload, got %s", typ)
	}
	var decoded map[string]any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		t.Fatalf("stored payload is not valid JSON: %v", err)
	}
	if decoded["destination"] != "Goa" {
		t.Fatalf("unexpected payload: %v", decoded)
	}
}

func TestNormalizePayloadSliceForcesJSON(t *testing.T) {
	raw, typ := NormalizePayload([]any{"a", "b"}, OutputTypeText)
	if typ != OutputTypeJSON || raw != `["a","b"]` {
		t.Fatalf("unexpected encoding: %q %s", raw, typ)
	}
}

func TestNormalizePayloadStringWithTextHint(t *testing.T) {
	raw, typ := NormalizePayload(`{"valid":"json"}`, OutputTypeText)
	if typ != OutputTypeText {
		t.Fatalf("string with text hint must stay text, got %s", typ)
	}
	if raw != `{"valid":"json"}` {
		t.Fatalf("payload altered: %q", raw)
	}
}

func TestNormalizePayloadStringWithJSONHint(t *testing.T) {
	raw, typ := NormalizePayload(`{"valid":"json"}`, OutputTypeJSON)
	if typ != OutputTypeJSON || raw != `{"valid":"json"}` {
		t.Fatalf("unexpected encoding: %q %s", raw, typ)
	}
}

func TestNormalizePayloadInvalidJSONDegradesToText(t *testing.T) {
	raw, typ := NormalizePayload(`{not valid json`, OutputTypeJSON)
	if typ != OutputTypeText {
		t.Fatalf("invalid JSON with json hint must degrade to text, got %s", typ)
	}
	if raw != `{not valid json` {
		t.Fatalf("payload altered: %q", raw)
	}
}

func TestNormalizePayloadNil(t *testing.T) {
	raw, typ := NormalizePayload(nil, OutputTypeJSON)
	if raw != "" || typ != OutputTypeText {
		t.Fatalf("unexpected encoding for nil: %q %s", raw, typ)
	}
}

func TestNormalizePayloadScalarFallback(t *testing.T) {
	raw, typ := NormalizePayload(42, OutputTypeJSON)
	if raw != "42" || typ != OutputTypeText {
		t.Fatalf("unexpected encoding for int: %q %s", raw, typ)
	}
}

func TestParsePayloadJSONRoundtrip(t *testing.T) {
	v := ParsePayload(`{"a":1}`, OutputTypeJSON)
	m, ok := v.(map[string]any)
	if !ok {
		t.Fatalf("expected map, got %T", v)
	}
	if m["a"] != float64(1) {
		t.Fatalf("unexpected value: %v", m)
	}
}

func TestParsePayloadCorruptJSONFallsBackToRaw(t *testing.T) {
	v := ParsePayload(`{broken`, OutputTypeJSON)
	if v != `{broken` {
		t.Fatalf("expected raw fallback, got %v", v)
	}
}

func TestParsePayloadText(t *testing.T) {
	v := ParsePayload(`{"a":1}`, OutputTypeText)
	if v != `{"a":1}` {
		t.Fatalf("text rows must be returned verbatim, got %v", v)
	}
}

func TestDecodePayloadLanguageFields(t *testing.T) {
	raw := `{"detected_language":"hi","language_name":"Hindi","entities":{"destination":"Mumbai"},"is_complete":true}`
	d := DecodePayload(raw, OutputTypeJSON)
	if !d.Mapping {
		t.Fatal("expected mapping payload")
	}
	if d.Language.DetectedLanguage != "hi" || d.Language.LanguageName != "Hindi" {
		t.Fatalf("unexpected language: %+v", d.Language)
	}
	if d.Language.Entities["destination"] != "Mumbai" {
		t.Fatalf("unexpected entities: %v", d.Language.Entities)
	}
	if d.Language.IsComplete == nil || !*d.Language.IsComplete {
		t.Fatalf("unexpected is_complete: %v", d.Language.IsComplete)
	}
}

func TestDecodePayloadResultPriority(t *testing.T) {
	// flights outranks hotels even when hotels appears first in the text.
	raw := `{"hotels":[{"name":"Taj"}],"flights":[{"airline":"AI"}]}`
	d := DecodePayload(raw, OutputTypeJSON)
	if d.Results == nil {
		t.Fatal("expected a result collection")
	}
	if d.Results.Service != ServiceTypeFlight {
		t.Fatalf("expected flight to win, got %s", d.Results.Service)
	}
}

func TestDecodePayloadSkipsEmptyCollections(t *testing.T) {
	raw := `{"flights":[],"hotels":[{"name":"Taj"}]}`
	d := DecodePayload(raw, OutputTypeJSON)
	if d.Results == nil || d.Results.Service != ServiceTypeHotel {
		t.Fatalf("empty flights must be skipped in favor of hotels: %+v", d.Results)
	}
}

func TestDecodePayloadTrainsAndBusesShareTransport(t *testing.T) {
	for _, raw := range []string{`{"trains":[{"n":1}]}`, `{"buses":[{"n":1}]}`} {
		d := DecodePayload(raw, OutputTypeJSON)
		if d.Results == nil || d.Results.Service != ServiceTypeTransport {
			t.Fatalf("expected transport for %s, got %+v", raw, d.Results)
		}
	}
}

func TestDecodePayloadNonMapping(t *testing.T) {
	if d := DecodePayload(`[1,2,3]`, OutputTypeJSON); d.Mapping {
		t.Fatal("JSON array must be opaque")
	}
	if d := DecodePayload(`plain text`, OutputTypeText); d.Mapping {
		t.Fatal("text row must be opaque")
	}
}

func TestParseServiceType(t *testing.T) {
	cases := map[string]ServiceType{
		"flight": ServiceTypeFlight, "flights": ServiceTypeFlight,
		"hotel": ServiceTypeHotel,
		"train": ServiceTypeTransport, "bus": ServiceTypeTransport,
		"attractions": ServiceTypeAttractions,
	}
	for in, want := range cases {
		got, ok := ParseServiceType(in)
		if !ok || got != want {
			t.Fatalf("ParseServiceType(%q) = %v, %v", in, got, ok)
		}
	}
	if _, ok := ParseServiceType("submarine"); ok {
		t.Fatal("unknown service must not parse")
	}
}

func TestResultCollectionOrderIsStable(t *testing.T) {
	want := []string{"flights", "hotels", "trains", "buses", "attractions"}
	var got []string
	for _, rc := range ResultCollections {
		got = append(got, rc.Key)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("priority order changed: %v", got)
	}
}
