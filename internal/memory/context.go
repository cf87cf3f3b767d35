package memory

import (
	"strings"

	"github.com/safar-ai/safar/internal/domain"
)

// extractContext derives the structured session views from the stored agent
// outputs. It is a pure function of its inputs: recomputing over the same
// rows always yields the same views, so context reconstruction needs no
// cache and survives crashes.
func extractContext(sessionID string, outputs []domain.AgentOutput, history []domain.Message) *domain.Context {
	ctx := &domain.Context{
		SessionID:           sessionID,
		Entities:            map[string]any{},
		SearchResults:       []domain.SearchResultSet{},
		ConversationHistory: history,
		AgentOutputs:        outputs,
	}
	if ctx.ConversationHistory == nil {
		ctx.ConversationHistory = []domain.Message{}
	}
	if ctx.AgentOutputs == nil {
		ctx.AgentOutputs = []domain.AgentOutput{}
	}

	for _, out := range outputs {
		decoded := domain.DecodePayload(out.Raw, out.OutputType)
		if !decoded.Mapping {
			continue
		}

		// Language and entities follow last-write-wins: a session's
		// language can change turn over turn.
		if isLanguageAgent(out.AgentName) {
			ctx.Language = &domain.LanguageInfo{
				DetectedLanguage: decoded.Language.DetectedLanguage,
				LanguageName:     decoded.Language.LanguageName,
			}
			if decoded.Language.Entities != nil {
				ctx.Entities = decoded.Language.Entities
			}
		}

		// Search results accumulate: one record per output that carries a
		// recognized, non-empty result collection.
		if decoded.Results != nil {
			ctx.SearchResults = append(ctx.SearchResults, domain.SearchResultSet{
				ServiceType: decoded.Results.Service,
				Results:     decoded.Results.Results,
				Timestamp:   out.Timestamp,
			})
		}
	}
	return ctx
}

func isLanguageAgent(agentName string) bool {
	name := strings.ToLower(agentName)
	return strings.Contains(name, "language") || strings.Contains(name, "detection")
}
