package domain

// ChatRequest is the inbound chat turn.
type ChatRequest struct {
	SessionID  string `json:"session_id,omitempty"`
	Message    string `json:"message"`
	IsFollowup bool   `json:"is_followup"`
}

// ChatResponse is the outbound chat turn.
type ChatResponse struct {
	SessionID        string   `json:"session_id"`
	Response         string   `json:"response"`
	DetectedLanguage string   `json:"detected_language,omitempty"`
	IsFollowup       bool     `json:"is_followup"`
	IsComplete       bool     `json:"is_complete"`
	AgentsCalled     []string `json:"agents_called,omitempty"`
	Status           string   `json:"status"`
}

// SessionSnapshot is the full session view returned by the session API.
type SessionSnapshot struct {
	SessionID           string            `json:"session_id"`
	Language            *LanguageInfo     `json:"language"`
	Entities            map[string]any    `json:"entities"`
	ConversationHistory []Message         `json:"conversation_history"`
	SearchResults       []SearchResultSet `json:"search_results"`
	AgentOutputs        []AgentOutput     `json:"agent_outputs"`
	Stats               SessionStats      `json:"stats"`
}

// BookingDecision is the policy verdict for a mock booking attempt.
type BookingDecision string

const (
	BookingAllowed             BookingDecision = "allow"
	BookingRequireConfirmation BookingDecision = "require_confirmation"
	BookingBlocked             BookingDecision = "block"
)
