package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/safar-ai/safar/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at dsn and runs migrations.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			session_id TEXT PRIMARY KEY,
			created_at DATETIME NOT NULL,
			last_activity DATETIME NOT NULL,
			metadata TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			metadata TEXT,
			timestamp DATETIME NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_session ON messages(session_id, timestamp)`,
		`CREATE TABLE IF NOT EXISTS agent_outputs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			session_id TEXT NOT NULL,
			agent_name TEXT NOT NULL,
			task_name TEXT NOT NULL,
			output_type TEXT NOT NULL,
			output_data TEXT NOT NULL,
			timestamp DATETIME NOT NULL,
			FOREIGN KEY (session_id) REFERENCES sessions(session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_agent_outputs_session ON agent_outputs(session_id, timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_agent_outputs_agent ON agent_outputs(session_id, agent_name)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection. Safe to call more than once.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateSession inserts a session row if absent (idempotent).
func (s *SQLiteStore) CreateSession(ctx context.Context, sessionID string, metadata map[string]any) (bool, error) {
	meta, err := marshalMetadata(metadata)
	if err != nil {
		return false, fmt.Errorf("failed to encode metadata: %w", err)
	}
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO sessions (session_id, created_at, last_activity, metadata) VALUES (?, ?, ?, ?)`,
		sessionID, now, now, meta)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

// AppendMessage inserts a message row and bumps the session's last-activity
// timestamp. Both happen in one transaction so a reader never observes the
// message without the bump.
func (s *SQLiteStore) AppendMessage(ctx context.Context, sessionID string, role domain.Role, content string, metadata map[string]any) error {
	meta, err := marshalMetadata(metadata)
	if err != nil {
		return fmt.Errorf("failed to encode metadata: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO messages (session_id, role, content, metadata, timestamp) VALUES (?, ?, ?, ?, ?)`,
		sessionID, role, content, meta, now); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE sessions SET last_activity = ? WHERE session_id = ?`,
		now, sessionID); err != nil {
		return err
	}
	return tx.Commit()
}

// AppendAgentOutput inserts an output row with the payload normalized to
// its stored encoding.
func (s *SQLiteStore) AppendAgentOutput(ctx context.Context, sessionID, agentName, taskName string, payload any, hint domain.OutputType) error {
	data, typ := domain.NormalizePayload(payload, hint)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO agent_outputs (session_id, agent_name, task_name, output_type, output_data, timestamp) VALUES (?, ?, ?, ?, ?, ?)`,
		sessionID, agentName, taskName, typ, data, time.Now().UTC())
	return err
}

// ListAgentOutputs returns all outputs for a session ascending by insertion
// time, optionally filtered to one agent name.
func (s *SQLiteStore) ListAgentOutputs(ctx context.Context, sessionID, agentName string) ([]domain.AgentOutput, error) {
	query := `SELECT agent_name, task_name, output_type, output_data, timestamp FROM agent_outputs WHERE session_id = ?`
	args := []any{sessionID}
	if agentName != "" {
		query += ` AND agent_name = ?`
		args = append(args, agentName)
	}
	query += ` ORDER BY timestamp ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var outputs []domain.AgentOutput
	for rows.Next() {
		out, err := scanAgentOutput(rows)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, out)
	}
	return outputs, rows.Err()
}

// LatestAgentOutput returns the newest output for one agent, or nil when
// the agent has produced nothing in this session.
func (s *SQLiteStore) LatestAgentOutput(ctx context.Context, sessionID, agentName string) (*domain.AgentOutput, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT agent_name, task_name, output_type, output_data, timestamp
		 FROM agent_outputs
		 WHERE session_id = ? AND agent_name = ?
		 ORDER BY timestamp DESC, id DESC
		 LIMIT 1`,
		sessionID, agentName)
	out, err := scanAgentOutput(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAgentOutput(r rowScanner) (domain.AgentOutput, error) {
	var out domain.AgentOutput
	if err := r.Scan(&out.AgentName, &out.TaskName, &out.OutputType, &out.Raw, &out.Timestamp); err != nil {
		return domain.AgentOutput{}, err
	}
	out.Data = domain.ParsePayload(out.Raw, out.OutputType)
	return out, nil
}

// ListMessages returns the most recent limit messages in chronological
// order: the newest rows are fetched descending and re-sorted ascending.
func (s *SQLiteStore) ListMessages(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT role, content, metadata, timestamp
		 FROM messages
		 WHERE session_id = ?
		 ORDER BY timestamp DESC, id DESC
		 LIMIT ?`,
		sessionID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var meta sql.NullString
		if err := rows.Scan(&msg.Role, &msg.Content, &meta, &msg.Timestamp); err != nil {
			return nil, err
		}
		msg.Metadata = map[string]any{}
		if meta.Valid {
			// Malformed metadata degrades to an empty map.
			var m map[string]any
			if err := json.Unmarshal([]byte(meta.String), &m); err == nil && m != nil {
				msg.Metadata = m
			}
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Reverse into chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

// DeleteSession removes all messages, all agent outputs and the session row.
func (s *SQLiteStore) DeleteSession(ctx context.Context, sessionID string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE session_id = ?`, sessionID); err != nil {
		return false, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM agent_outputs WHERE session_id = ?`, sessionID); err != nil {
		return false, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM sessions WHERE session_id = ?`, sessionID)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return affected > 0, nil
}

// SessionStats returns row counts and lifecycle timestamps for a session.
// Timestamps are nil when the session row does not exist.
func (s *SQLiteStore) SessionStats(ctx context.Context, sessionID string) (domain.SessionStats, error) {
	stats := domain.SessionStats{SessionID: sessionID}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE session_id = ?`, sessionID).Scan(&stats.MessageCount); err != nil {
		return domain.SessionStats{}, err
	}
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM agent_outputs WHERE session_id = ?`, sessionID).Scan(&stats.AgentOutputCount); err != nil {
		return domain.SessionStats{}, err
	}

	var createdAt, lastActivity time.Time
	err := s.db.QueryRowContext(ctx,
		`SELECT created_at, last_activity FROM sessions WHERE session_id = ?`,
		sessionID).Scan(&createdAt, &lastActivity)
	if err == sql.ErrNoRows {
		return stats, nil
	}
	if err != nil {
		return domain.SessionStats{}, err
	}
	stats.CreatedAt = &createdAt
	stats.LastActivity = &lastActivity
	return stats, nil
}

// PurgeOlderThan cascade-deletes every session whose last activity predates
// now minus the given number of days and returns how many were removed.
func (s *SQLiteStore) PurgeOlderThan(ctx context.Context, days int) (int, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -days)
	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id FROM sessions WHERE last_activity < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	var stale []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		stale = append(stale, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return 0, err
	}

	purged := 0
	for _, id := range stale {
		existed, err := s.DeleteSession(ctx, id)
		if err != nil {
			return purged, err
		}
		if existed {
			purged++
		}
	}
	return purged, nil
}

func marshalMetadata(metadata map[string]any) (sql.NullString, error) {
	if metadata == nil {
		return sql.NullString{}, nil
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(b), Valid: true}, nil
}
