package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/safar-ai/safar/internal/domain"
	"github.com/safar-ai/safar/internal/prompts"
)

const languageAgentName = "language_detection_agent"

// languageDetection is the structured reply expected from the
// language-detection step.
type languageDetection struct {
	DetectedLanguage   string         `json:"detected_language"`
	LanguageName       string         `json:"language_name"`
	EnglishTranslation string         `json:"english_translation"`
	IsTravelRelated    *bool          `json:"is_travel_related"`
	ServiceType        string         `json:"service_type"`
	Entities           map[string]any `json:"entities"`
	IsComplete         *bool          `json:"is_complete"`
	MissingInfo        []string       `json:"missing_info"`
	FollowupQuestion   string         `json:"followup_question"`
}

// specialistSpec binds one raw service name to a specialist step.
type specialistSpec struct {
	AgentName string
	TaskName  string
	ResultKey string
	Service   domain.ServiceType
}

// specialistTable is the closed dispatch table from service type to
// specialist. Routing is deterministic: exactly one specialist runs per
// complete request.
var specialistTable = map[string]specialistSpec{
	"flight":      {AgentName: "flight_specialist", TaskName: "task_flight_search", ResultKey: "flights", Service: domain.ServiceTypeFlight},
	"hotel":       {AgentName: "hotel_specialist", TaskName: "task_hotel_search", ResultKey: "hotels", Service: domain.ServiceTypeHotel},
	"train":       {AgentName: "transport_specialist", TaskName: "task_transport_search", ResultKey: "trains", Service: domain.ServiceTypeTransport},
	"bus":         {AgentName: "transport_specialist", TaskName: "task_transport_search", ResultKey: "buses", Service: domain.ServiceTypeTransport},
	"attractions": {AgentName: "attractions_specialist", TaskName: "task_attractions_search", ResultKey: "attractions", Service: domain.ServiceTypeAttractions},
}

func lookupSpecialist(rawService string) (specialistSpec, bool) {
	var key string
	switch strings.ToLower(strings.TrimSpace(rawService)) {
	case "flight", "flights":
		key = "flight"
	case "hotel", "hotels":
		key = "hotel"
	case "train", "trains":
		key = "train"
	case "bus", "buses":
		key = "bus"
	case "attraction", "attractions":
		key = "attractions"
	default:
		return specialistSpec{}, false
	}
	return specialistTable[key], true
}

// runInitialFlow handles a fresh travel request: language detection,
// deterministic dispatch to one specialist, final localized response.
func (s *Service) runInitialFlow(ctx context.Context, sessionID, message string) (*turnResult, error) {
	enhanced := s.mergeEntitiesFromContext(ctx, sessionID, message)

	det, err := s.detectLanguage(ctx, sessionID, enhanced)
	if err != nil {
		return nil, err
	}
	result := &turnResult{
		detectedLanguage: det.DetectedLanguage,
		isComplete:       true,
		agentsCalled:     []string{languageAgentName},
	}

	if det.IsComplete != nil && !*det.IsComplete {
		result.isComplete = false
		result.response = det.FollowupQuestion
		if result.response == "" {
			result.response = prompts.IncompleteFallback
		}
		return result, nil
	}

	spec, ok := lookupSpecialist(det.ServiceType)
	if !ok {
		// No recognizable service: ask rather than guess a specialist.
		result.isComplete = false
		result.response = prompts.IncompleteFallback
		if det.FollowupQuestion != "" {
			result.response = det.FollowupQuestion
		}
		return result, nil
	}

	options, err := s.runSpecialist(ctx, sessionID, spec, det)
	if err != nil {
		return nil, err
	}
	result.agentsCalled = append(result.agentsCalled, spec.AgentName)

	response, err := s.composeResponse(ctx, sessionID, det, options)
	if err != nil {
		return nil, err
	}
	result.agentsCalled = append(result.agentsCalled, "response_agent")
	result.response = response
	return result, nil
}

// detectLanguage runs the language-detection step and records its output.
// A reply that cannot be parsed as JSON is stored verbatim as text and
// treated as an incomplete detection.
func (s *Service) detectLanguage(ctx context.Context, sessionID, message string) (*languageDetection, error) {
	raw, err := s.llm.Complete(ctx, s.config.GeminiModel, "", prompts.LanguageDetection+"\n\nUser input: "+message)
	if err != nil {
		return nil, fmt.Errorf("language detection failed: %w", err)
	}

	parsed, ok := extractJSON(raw)
	if !ok {
		s.memory.StoreAgentOutput(ctx, sessionID, languageAgentName, "task_language_detection", raw, domain.OutputTypeText)
		incomplete := false
		return &languageDetection{IsComplete: &incomplete, FollowupQuestion: strings.TrimSpace(raw)}, nil
	}
	s.memory.StoreAgentOutput(ctx, sessionID, languageAgentName, "task_language_detection", parsed, domain.OutputTypeJSON)

	var det languageDetection
	b, _ := json.Marshal(parsed)
	if err := json.Unmarshal(b, &det); err != nil {
		return nil, fmt.Errorf("language detection returned an unusable shape: %w", err)
	}
	return &det, nil
}

// runSpecialist searches the web for the request and has the reasoning
// service distill the findings into a ranked result collection, which is
// recorded under the specialist's name.
func (s *Service) runSpecialist(ctx context.Context, sessionID string, spec specialistSpec, det *languageDetection) (map[string]any, error) {
	query := buildSearchQuery(spec, det)
	findings, err := s.search.Search(ctx, query, 5)
	if err != nil {
		// Searching is best-effort: the specialist still answers from the
		// prompt alone, it just has nothing to cite.
		s.logger.Warn("web search failed", "session_id", sessionID, "query", query, "error", err)
	}

	entitiesJSON, _ := json.Marshal(det.Entities)
	findingsJSON, _ := json.Marshal(findings)
	prompt := prompts.Fill(prompts.Specialist, map[string]string{
		"service":  string(spec.Service),
		"key":      spec.ResultKey,
		"entities": string(entitiesJSON),
		"findings": string(findingsJSON),
		"query":    query,
	})

	raw, err := s.llm.Complete(ctx, s.config.GeminiModel, "", prompt)
	if err != nil {
		return nil, fmt.Errorf("%s failed: %w", spec.AgentName, err)
	}

	parsed, ok := extractJSON(raw)
	if !ok {
		s.memory.StoreAgentOutput(ctx, sessionID, spec.AgentName, spec.TaskName, raw, domain.OutputTypeText)
		return nil, nil
	}
	s.memory.StoreAgentOutput(ctx, sessionID, spec.AgentName, spec.TaskName, parsed, domain.OutputTypeJSON)
	return parsed, nil
}

// composeResponse runs the final localization step and records its output.
func (s *Service) composeResponse(ctx context.Context, sessionID string, det *languageDetection, options map[string]any) (string, error) {
	lang, langName := det.DetectedLanguage, det.LanguageName
	if lang == "" {
		lang, langName = "en", "English"
	}

	optionsJSON, _ := json.Marshal(options)
	prompt := prompts.Fill(prompts.FinalResponse, map[string]string{
		"language":      lang,
		"language_name": langName,
		"results":       string(optionsJSON),
	})

	response, err := s.llm.Complete(ctx, s.config.GeminiModel, "", prompt)
	if err != nil {
		return "", fmt.Errorf("response composition failed: %w", err)
	}
	s.memory.StoreAgentOutput(ctx, sessionID, "response_agent", "task_final_response", response, domain.OutputTypeText)
	return response, nil
}

func buildSearchQuery(spec specialistSpec, det *languageDetection) string {
	if det.EnglishTranslation != "" {
		return fmt.Sprintf("%s options: %s", spec.Service, det.EnglishTranslation)
	}
	parts := []string{string(spec.Service)}
	for _, k := range []string{"origin", "destination", "date"} {
		if v, ok := det.Entities[k].(string); ok && v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

// mergeEntitiesFromContext prefixes the message with previously extracted
// entities when the last assistant turn asked for missing details, so the
// user's short answer still carries the full request.
func (s *Service) mergeEntitiesFromContext(ctx context.Context, sessionID, message string) string {
	full := s.memory.GetFullContext(ctx, sessionID)
	if len(full.ConversationHistory) == 0 || len(full.Entities) == 0 {
		return message
	}

	history := full.ConversationHistory
	start := len(history) - 2
	if start < 0 {
		start = 0
	}
	incomplete := false
	for i := len(history) - 1; i >= start; i-- {
		msg := history[i]
		if msg.Role != domain.RoleAssistant {
			continue
		}
		if done, ok := msg.Metadata["is_complete"].(bool); ok && !done {
			incomplete = true
		}
		break
	}
	if !incomplete {
		return message
	}

	var parts []string
	for _, field := range []struct{ key, label string }{
		{"origin", "Origin"},
		{"destination", "Destination"},
		{"date", "Date"},
		{"service_type", "Service"},
	} {
		if v, ok := full.Entities[field.key].(string); ok && v != "" {
			parts = append(parts, field.label+": "+v)
		}
	}
	if len(parts) == 0 {
		return message
	}

	enhanced := fmt.Sprintf("[Previous context: %s] %s", strings.Join(parts, " | "), message)
	s.logger.Info("merged previous entities into message", "session_id", sessionID)
	return enhanced
}
