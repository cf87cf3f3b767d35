package memory

import (
	"reflect"
	"testing"
	"time"

	"github.com/safar-ai/safar/internal/domain"
)

func jsonOutput(agent, task, raw string, ts time.Time) domain.AgentOutput {
	return domain.AgentOutput{
		AgentName:  agent,
		TaskName:   task,
		OutputType: domain.OutputTypeJSON,
		Data:       domain.ParsePayload(raw, domain.OutputTypeJSON),
		Raw:        raw,
		Timestamp:  ts,
	}
}

func textOutput(agent, task, raw string, ts time.Time) domain.AgentOutput {
	return domain.AgentOutput{
		AgentName:  agent,
		TaskName:   task,
		OutputType: domain.OutputTypeText,
		Data:       raw,
		Raw:        raw,
		Timestamp:  ts,
	}
}

func TestExtractContextEmpty(t *testing.T) {
	ctx := extractContext("s1", nil, nil)
	if ctx.SessionID != "s1" {
		t.Fatalf("unexpected session id: %s", ctx.SessionID)
	}
	if ctx.Language != nil {
		t.Fatal("language must be nil with no outputs")
	}
	if ctx.Entities == nil || len(ctx.Entities) != 0 {
		t.Fatalf("entities must be an empty map, got %v", ctx.Entities)
	}
	if ctx.SearchResults == nil || len(ctx.SearchResults) != 0 {
		t.Fatalf("search results must be an empty slice, got %v", ctx.SearchResults)
	}
	if ctx.ConversationHistory == nil || ctx.AgentOutputs == nil {
		t.Fatal("history and outputs must never be nil")
	}
}

func TestExtractContextLanguageDetection(t *testing.T) {
	now := time.Now().UTC()
	outputs := []domain.AgentOutput{
		jsonOutput("language_detection_agent", "task_detect",
			`{"detected_language":"hi","language_name":"Hindi","entities":{"destination":"Goa","origin":"Delhi"}}`, now),
	}

	ctx := extractContext("s1", outputs, nil)
	if ctx.Language == nil || ctx.Language.DetectedLanguage != "hi" || ctx.Language.LanguageName != "Hindi" {
		t.Fatalf("unexpected language: %+v", ctx.Language)
	}
	if ctx.Entities["destination"] != "Goa" || ctx.Entities["origin"] != "Delhi" {
		t.Fatalf("unexpected entities: %v", ctx.Entities)
	}
}

func TestExtractContextSearchResults(t *testing.T) {
	now := time.Now().UTC()
	outputs := []domain.AgentOutput{
		jsonOutput("flight_specialist", "task_flight_search",
			`{"flights":[{"airline":"AI","price":"4500"}]}`, now),
	}

	ctx := extractContext("s1", outputs, nil)
	if len(ctx.SearchResults) != 1 {
		t.Fatalf("expected 1 result set, got %d", len(ctx.SearchResults))
	}
	set := ctx.SearchResults[0]
	if set.ServiceType != domain.ServiceTypeFlight || len(set.Results) != 1 {
		t.Fatalf("unexpected result set: %+v", set)
	}
	if !set.Timestamp.Equal(now) {
		t.Fatalf("result set must carry the output timestamp")
	}
}

func TestExtractContextLanguageLastWriteWins(t *testing.T) {
	base := time.Now().UTC()
	outputs := []domain.AgentOutput{
		jsonOutput("language_detection_agent", "task_detect",
			`{"detected_language":"hi","language_name":"Hindi","entities":{"destination":"Goa"}}`, base),
		jsonOutput("flight_specialist", "task_flight_search",
			`{"flights":[{"airline":"AI"}]}`, base.Add(time.Second)),
		jsonOutput("language_detection_agent", "task_detect",
			`{"detected_language":"en","language_name":"English","entities":{"destination":"Paris"}}`, base.Add(2*time.Second)),
	}

	ctx := extractContext("s1", outputs, nil)
	if ctx.Language.DetectedLanguage != "en" {
		t.Fatalf("expected last language to win, got %s", ctx.Language.DetectedLanguage)
	}
	if ctx.Entities["destination"] != "Paris" {
		t.Fatalf("expected last entities to win, got %v", ctx.Entities)
	}
	// Earlier search results survive the language overwrite.
	if len(ctx.SearchResults) != 1 || ctx.SearchResults[0].ServiceType != domain.ServiceTypeFlight {
		t.Fatalf("search results damaged: %+v", ctx.SearchResults)
	}
}

func TestExtractContextSearchResultsAccumulate(t *testing.T) {
	base := time.Now().UTC()
	outputs := []domain.AgentOutput{
		jsonOutput("flight_specialist", "task_flight_search", `{"flights":[{"n":1}]}`, base),
		jsonOutput("hotel_specialist", "task_hotel_search", `{"hotels":[{"n":2}]}`, base.Add(time.Second)),
		jsonOutput("transport_specialist", "task_train_search", `{"trains":[{"n":3}]}`, base.Add(2*time.Second)),
	}

	ctx := extractContext("s1", outputs, nil)
	var got []domain.ServiceType
	for _, set := range ctx.SearchResults {
		got = append(got, set.ServiceType)
	}
	want := []domain.ServiceType{domain.ServiceTypeFlight, domain.ServiceTypeHotel, domain.ServiceTypeTransport}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("result sets wrong: %v", got)
	}
}

func TestExtractContextIgnoresOpaqueOutputs(t *testing.T) {
	now := time.Now().UTC()
	outputs := []domain.AgentOutput{
		textOutput("language_detection_agent", "task_detect", "could not parse the request", now),
		jsonOutput("response_agent", "task_final_response", `[1,2,3]`, now.Add(time.Second)),
	}

	ctx := extractContext("s1", outputs, nil)
	if ctx.Language != nil {
		t.Fatalf("text payload must not set language: %+v", ctx.Language)
	}
	if len(ctx.SearchResults) != 0 {
		t.Fatalf("opaque payloads must not add result sets: %+v", ctx.SearchResults)
	}
	// Raw outputs stay visible even when they contribute no views.
	if len(ctx.AgentOutputs) != 2 {
		t.Fatalf("expected 2 outputs, got %d", len(ctx.AgentOutputs))
	}
}

func TestExtractContextNonLanguageAgentNeverSetsLanguage(t *testing.T) {
	now := time.Now().UTC()
	outputs := []domain.AgentOutput{
		jsonOutput("flight_specialist", "task_flight_search",
			`{"detected_language":"fr","flights":[{"n":1}]}`, now),
	}

	ctx := extractContext("s1", outputs, nil)
	if ctx.Language != nil {
		t.Fatalf("specialist output must not set language: %+v", ctx.Language)
	}
	if len(ctx.SearchResults) != 1 {
		t.Fatal("specialist result set must still be recorded")
	}
}

func TestExtractContextDeterministic(t *testing.T) {
	base := time.Now().UTC()
	outputs := []domain.AgentOutput{
		jsonOutput("language_detection_agent", "task_detect",
			`{"detected_language":"hi","language_name":"Hindi","entities":{"destination":"Goa"}}`, base),
		jsonOutput("hotel_specialist", "task_hotel_search", `{"hotels":[{"name":"Taj"}]}`, base.Add(time.Second)),
	}
	history := []domain.Message{{Role: domain.RoleUser, Content: "hello", Timestamp: base}}

	first := extractContext("s1", outputs, history)
	second := extractContext("s1", outputs, history)
	if !reflect.DeepEqual(first, second) {
		t.Fatal("extraction must be deterministic over the same rows")
	}
}

func TestIsLanguageAgent(t *testing.T) {
	for _, name := range []string{"language_detection_agent", "Language Specialist", "intent_detection"} {
		if !isLanguageAgent(name) {
			t.Fatalf("%q should match", name)
		}
	}
	for _, name := range []string{"flight_specialist", "booking_agent"} {
		if isLanguageAgent(name) {
			t.Fatalf("%q should not match", name)
		}
	}
}
