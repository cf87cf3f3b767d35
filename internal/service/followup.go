package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode"

	"github.com/safar-ai/safar/internal/domain"
	"github.com/safar-ai/safar/internal/prompts"
)

const followupAgentName = "followup_handler"

// runFollowupFlow answers a clarifying question or a mock booking request
// against the reconstructed session context.
func (s *Service) runFollowupFlow(ctx context.Context, sessionID, message string) (*turnResult, error) {
	full := s.memory.GetFullContext(ctx, sessionID)

	lang, langName := "en", "English"
	if full.Language != nil && full.Language.DetectedLanguage != "" {
		lang, langName = full.Language.DetectedLanguage, full.Language.LanguageName
	}
	result := &turnResult{
		detectedLanguage: lang,
		isComplete:       true,
	}

	if isBookingIntent(message) {
		response, err := s.handleBooking(ctx, sessionID, message, full)
		if err != nil {
			return nil, err
		}
		result.response = response
		result.agentsCalled = []string{bookingAgentName}
		return result, nil
	}

	entitiesJSON, _ := json.Marshal(full.Entities)
	resultsJSON, _ := json.Marshal(full.SearchResults)
	historyJSON, _ := json.Marshal(tailMessages(full.ConversationHistory, 5))
	prompt := prompts.Fill(prompts.Followup, map[string]string{
		"language":       lang,
		"language_name":  langName,
		"followup":       message,
		"entities":       string(entitiesJSON),
		"search_results": string(resultsJSON),
		"history":        string(historyJSON),
	})

	response, err := s.llm.Complete(ctx, s.config.GeminiModel, "", prompt)
	if err != nil {
		return nil, fmt.Errorf("follow-up handling failed: %w", err)
	}
	s.memory.StoreAgentOutput(ctx, sessionID, followupAgentName, "task_followup_response", response, domain.OutputTypeText)

	result.response = response
	result.agentsCalled = []string{followupAgentName}
	return result, nil
}

// bookingWords are the whole tokens that route a follow-up into the booking
// path. Matching whole words keeps messages like "which guidebook should I
// buy?" on the ordinary follow-up path.
var bookingWords = map[string]bool{
	"book":        true,
	"booking":     true,
	"reserve":     true,
	"reservation": true,
}

func isBookingIntent(message string) bool {
	tokens := strings.FieldsFunc(strings.ToLower(message), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	for _, tok := range tokens {
		if bookingWords[tok] {
			return true
		}
	}
	return false
}

func tailMessages(messages []domain.Message, n int) []domain.Message {
	if len(messages) <= n {
		return messages
	}
	return messages[len(messages)-n:]
}
