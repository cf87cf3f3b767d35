// Package domain defines the core domain models for the assistant.
package domain

import "time"

// Session represents one conversation.
type Session struct {
	SessionID    string         `json:"session_id"`
	CreatedAt    time.Time      `json:"created_at"`
	LastActivity time.Time      `json:"last_activity"`
	Metadata     map[string]any `json:"metadata,omitempty"`
}

// Message represents a single turn in a session.
type Message struct {
	Role      Role           `json:"role"`
	Content   string         `json:"content"`
	Metadata  map[string]any `json:"metadata"`
	Timestamp time.Time      `json:"timestamp"`
}

// AgentOutput represents one unit of work product from one reasoning step.
// Data holds the parsed form for json payloads (falling back to the raw
// string when parsing fails) and the raw string for text payloads. Raw is
// always the stored text encoding.
type AgentOutput struct {
	AgentName  string     `json:"agent_name"`
	TaskName   string     `json:"task_name"`
	OutputType OutputType `json:"output_type"`
	Data       any        `json:"output_data"`
	Raw        string     `json:"-"`
	Timestamp  time.Time  `json:"timestamp"`
}

// LanguageInfo is the last-seen detected language for a session.
type LanguageInfo struct {
	DetectedLanguage string `json:"detected_language"`
	LanguageName     string `json:"language_name"`
}

// SearchResultSet is one recognized result collection from one agent output.
type SearchResultSet struct {
	ServiceType ServiceType `json:"service_type"`
	Results     []any       `json:"results"`
	Timestamp   time.Time   `json:"timestamp"`
}

// Context is the derived world state for a session, recomputed on every
// read from the stored agent outputs and messages.
type Context struct {
	SessionID           string            `json:"session_id"`
	Language            *LanguageInfo     `json:"language"`
	Entities            map[string]any    `json:"entities"`
	SearchResults       []SearchResultSet `json:"search_results"`
	ConversationHistory []Message         `json:"conversation_history"`
	AgentOutputs        []AgentOutput     `json:"agent_outputs"`
}

// SessionStats summarizes a session's stored rows. CreatedAt and
// LastActivity are nil when the session row does not exist.
type SessionStats struct {
	SessionID        string     `json:"session_id"`
	MessageCount     int        `json:"message_count"`
	AgentOutputCount int        `json:"agent_output_count"`
	CreatedAt        *time.Time `json:"created_at"`
	LastActivity     *time.Time `json:"last_activity"`
}
