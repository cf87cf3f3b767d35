package llm

import "context"

// ReasoningClient defines the interface for the external reasoning service.
type ReasoningClient interface {
	// CreateChatCompletion sends a chat completion request.
	CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error)

	// Complete sends one system + one user message and returns the
	// assistant's text.
	Complete(ctx context.Context, model, system, user string) (string, error)
}

// Ensure Client implements ReasoningClient.
var _ ReasoningClient = (*Client)(nil)
