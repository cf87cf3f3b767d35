package service

import (
	"context"

	"github.com/safar-ai/safar/internal/domain"
)

// SessionSnapshot returns the full stored view of one session: its derived
// context plus row counts and lifecycle timestamps. The memory layer reports
// absence as empty views, so an empty conversation history is what "session
// not found" looks like from here.
func (s *Service) SessionSnapshot(ctx context.Context, sessionID string) (*domain.SessionSnapshot, error) {
	full := s.memory.GetFullContext(ctx, sessionID)
	if len(full.ConversationHistory) == 0 {
		return nil, ErrSessionNotFound
	}

	stats := s.memory.GetSessionStats(ctx, sessionID)
	return &domain.SessionSnapshot{
		SessionID:           sessionID,
		Language:            full.Language,
		Entities:            full.Entities,
		ConversationHistory: full.ConversationHistory,
		SearchResults:       full.SearchResults,
		AgentOutputs:        full.AgentOutputs,
		Stats:               stats,
	}, nil
}

// SessionStatistics returns row counts and lifecycle timestamps for one
// session.
func (s *Service) SessionStatistics(ctx context.Context, sessionID string) (domain.SessionStats, error) {
	stats := s.memory.GetSessionStats(ctx, sessionID)
	if stats.CreatedAt == nil {
		return stats, ErrSessionNotFound
	}
	return stats, nil
}

// DeleteSession removes a session and all of its rows. Returns false when
// the session did not exist.
func (s *Service) DeleteSession(ctx context.Context, sessionID string) bool {
	return s.memory.ClearSession(ctx, sessionID)
}
