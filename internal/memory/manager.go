// Package memory provides the session memory layer: durable recording of
// conversation turns and agent outputs, and on-demand reconstruction of the
// derived session context.
package memory

import (
	"context"
	"log/slog"
	"sync"

	"github.com/safar-ai/safar/internal/domain"
	"github.com/safar-ai/safar/internal/repository"
)

// DefaultHistoryLimit is the rolling conversation window used by
// GetFullContext when no explicit limit is configured.
const DefaultHistoryLimit = 10

// Manager is the single entry point for session memory. It is constructed
// once per process and shared by all requests.
//
// Every operation traps storage faults, logs them, and reports failure
// through its return value (false, empty, zero) instead of an error.
// Conversational logging is best-effort by design; callers that need a
// correctness guarantee must check the return value.
type Manager struct {
	store        repository.Store
	historyLimit int
	logger       *slog.Logger

	closeOnce sync.Once
	closeErr  error
}

// NewManager creates a Manager over the given store. historyLimit bounds
// the conversation window returned by GetFullContext; values <= 0 fall back
// to DefaultHistoryLimit.
func NewManager(store repository.Store, historyLimit int, logger *slog.Logger) *Manager {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{store: store, historyLimit: historyLimit, logger: logger}
}

// CreateSession ensures a session row exists. Calling it again for the same
// identifier is a successful no-op.
func (m *Manager) CreateSession(ctx context.Context, sessionID string, metadata map[string]any) bool {
	created, err := m.store.CreateSession(ctx, sessionID, metadata)
	if err != nil {
		m.logger.Error("memory: create session", "session_id", sessionID, "error", err)
		return false
	}
	if created {
		m.logger.Info("memory: session created", "session_id", sessionID)
	}
	return true
}

// AddMessage appends one conversation turn and bumps the session's
// last-activity timestamp.
func (m *Manager) AddMessage(ctx context.Context, sessionID string, role domain.Role, content string, metadata map[string]any) bool {
	if err := m.store.AppendMessage(ctx, sessionID, role, content, metadata); err != nil {
		m.logger.Error("memory: add message", "session_id", sessionID, "role", role, "error", err)
		return false
	}
	return true
}

// StoreAgentOutput records one reasoning step's work product.
func (m *Manager) StoreAgentOutput(ctx context.Context, sessionID, agentName, taskName string, payload any, hint domain.OutputType) bool {
	if err := m.store.AppendAgentOutput(ctx, sessionID, agentName, taskName, payload, hint); err != nil {
		m.logger.Error("memory: store agent output", "session_id", sessionID, "agent", agentName, "error", err)
		return false
	}
	return true
}

// GetAgentOutputs returns all outputs for a session in insertion order,
// optionally filtered to one agent. Faults surface as an empty slice.
func (m *Manager) GetAgentOutputs(ctx context.Context, sessionID, agentName string) []domain.AgentOutput {
	outputs, err := m.store.ListAgentOutputs(ctx, sessionID, agentName)
	if err != nil {
		m.logger.Error("memory: list agent outputs", "session_id", sessionID, "error", err)
		return nil
	}
	return outputs
}

// GetLatestAgentOutput returns the newest output from one agent, or nil.
func (m *Manager) GetLatestAgentOutput(ctx context.Context, sessionID, agentName string) *domain.AgentOutput {
	out, err := m.store.LatestAgentOutput(ctx, sessionID, agentName)
	if err != nil {
		m.logger.Error("memory: latest agent output", "session_id", sessionID, "agent", agentName, "error", err)
		return nil
	}
	return out
}

// GetConversationHistory returns the most recent limit messages in
// chronological order.
func (m *Manager) GetConversationHistory(ctx context.Context, sessionID string, limit int) []domain.Message {
	if limit <= 0 {
		limit = m.historyLimit
	}
	messages, err := m.store.ListMessages(ctx, sessionID, limit)
	if err != nil {
		m.logger.Error("memory: list messages", "session_id", sessionID, "error", err)
		return nil
	}
	return messages
}

// GetFullContext reconstructs the session's world state from the stored
// rows. It never returns nil: an unknown session yields a context with all
// views at their empty defaults. Safe to call concurrently with writes.
func (m *Manager) GetFullContext(ctx context.Context, sessionID string) *domain.Context {
	outputs := m.GetAgentOutputs(ctx, sessionID, "")
	history := m.GetConversationHistory(ctx, sessionID, m.historyLimit)

	full := extractContext(sessionID, outputs, history)
	m.logger.Info("memory: full context",
		"session_id", sessionID,
		"agent_outputs", len(full.AgentOutputs),
		"messages", len(full.ConversationHistory),
		"search_result_sets", len(full.SearchResults))
	return full
}

// GetSessionStats returns row counts and lifecycle timestamps. Faults
// surface as a zero-valued stats struct.
func (m *Manager) GetSessionStats(ctx context.Context, sessionID string) domain.SessionStats {
	stats, err := m.store.SessionStats(ctx, sessionID)
	if err != nil {
		m.logger.Error("memory: session stats", "session_id", sessionID, "error", err)
		return domain.SessionStats{SessionID: sessionID}
	}
	return stats
}

// ClearSession removes the session and everything it owns. Returns false
// both on fault and when the session never existed.
func (m *Manager) ClearSession(ctx context.Context, sessionID string) bool {
	existed, err := m.store.DeleteSession(ctx, sessionID)
	if err != nil {
		m.logger.Error("memory: clear session", "session_id", sessionID, "error", err)
		return false
	}
	if existed {
		m.logger.Info("memory: session cleared", "session_id", sessionID)
	}
	return existed
}

// CleanupOldSessions purges sessions idle for more than the given number of
// days and returns how many were removed.
func (m *Manager) CleanupOldSessions(ctx context.Context, days int) int {
	purged, err := m.store.PurgeOlderThan(ctx, days)
	if err != nil {
		m.logger.Error("memory: cleanup old sessions", "days", days, "error", err)
	}
	if purged > 0 {
		m.logger.Info("memory: purged old sessions", "count", purged, "days", days)
	}
	return purged
}

// Close releases the underlying storage handle. Idempotent.
func (m *Manager) Close() error {
	m.closeOnce.Do(func() {
		m.closeErr = m.store.Close()
		if m.closeErr != nil {
			m.logger.Error("memory: close store", "error", m.closeErr)
		} else {
			m.logger.Info("memory: store closed")
		}
	})
	return m.closeErr
}
