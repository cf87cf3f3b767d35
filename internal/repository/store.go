package repository

import (
	"context"

	"github.com/safar-ai/safar/internal/domain"
)

// Store is the persistence contract for sessions, messages and agent
// outputs. Implementations must keep the append-message/bump-activity pair
// atomic and preserve insertion order on retrieval.
type Store interface {
	// CreateSession inserts a session row if absent. Duplicate creation is
	// a successful no-op; created reports whether the row was new.
	CreateSession(ctx context.Context, sessionID string, metadata map[string]any) (created bool, err error)

	// AppendMessage inserts a message and bumps the session's last-activity
	// timestamp in the same transaction.
	AppendMessage(ctx context.Context, sessionID string, role domain.Role, content string, metadata map[string]any) error

	// AppendAgentOutput normalizes the payload per domain.NormalizePayload
	// and inserts an output row.
	AppendAgentOutput(ctx context.Context, sessionID, agentName, taskName string, payload any, hint domain.OutputType) error

	// ListAgentOutputs returns all outputs for a session ascending by
	// insertion time, optionally filtered to one agent name.
	ListAgentOutputs(ctx context.Context, sessionID, agentName string) ([]domain.AgentOutput, error)

	// LatestAgentOutput returns the newest output for one agent, or nil.
	LatestAgentOutput(ctx context.Context, sessionID, agentName string) (*domain.AgentOutput, error)

	// ListMessages returns the most recent limit messages in chronological
	// (ascending) order.
	ListMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error)

	// DeleteSession removes the session row and everything it owns.
	// existed reports whether a session row was actually deleted.
	DeleteSession(ctx context.Context, sessionID string) (existed bool, err error)

	// SessionStats returns row counts and lifecycle timestamps.
	SessionStats(ctx context.Context, sessionID string) (domain.SessionStats, error)

	// PurgeOlderThan cascade-deletes every session whose last activity
	// predates now minus the given number of days.
	PurgeOlderThan(ctx context.Context, days int) (int, error)

	Close() error
}
