package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/safar-ai/safar/internal/domain"
)

// turnResult is the outcome of one flow (initial or follow-up).
type turnResult struct {
	response         string
	detectedLanguage string
	isComplete       bool
	agentsCalled     []string
}

// Chat processes one conversational turn: it records the user message,
// runs the appropriate flow, records every agent output plus the assistant
// reply, and returns the localized response.
func (s *Service) Chat(ctx context.Context, req domain.ChatRequest) (*domain.ChatResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, fmt.Errorf("message is required")
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	s.logger.Info("chat turn", "session_id", sessionID, "is_followup", req.IsFollowup)

	s.memory.CreateSession(ctx, sessionID, nil)
	s.memory.AddMessage(ctx, sessionID, domain.RoleUser, req.Message, map[string]any{
		"is_followup": req.IsFollowup,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	})

	var (
		result *turnResult
		err    error
	)
	if req.IsFollowup {
		result, err = s.runFollowupFlow(ctx, sessionID, req.Message)
	} else {
		result, err = s.runInitialFlow(ctx, sessionID, req.Message)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to process turn: %w", err)
	}

	s.memory.AddMessage(ctx, sessionID, domain.RoleAssistant, result.response, map[string]any{
		"detected_language": result.detectedLanguage,
		"is_followup":       req.IsFollowup,
		"is_complete":       result.isComplete,
		"agents_called":     result.agentsCalled,
	})

	return &domain.ChatResponse{
		SessionID:        sessionID,
		Response:         result.response,
		DetectedLanguage: result.detectedLanguage,
		IsFollowup:       req.IsFollowup,
		IsComplete:       result.isComplete,
		AgentsCalled:     result.agentsCalled,
		Status:           "success",
	}, nil
}
