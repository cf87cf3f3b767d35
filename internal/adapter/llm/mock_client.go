package llm

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MockClient is a mock implementation of ReasoningClient for testing and
// offline development. Responses can be scripted with Enqueue; when the
// queue is empty a canned reply is returned.
type MockClient struct {
	mu    sync.Mutex
	queue []string
}

// NewMockClient creates a new mock reasoning client.
func NewMockClient() *MockClient {
	return &MockClient{}
}

var _ ReasoningClient = (*MockClient)(nil)

// Enqueue scripts the next responses, returned in order.
func (m *MockClient) Enqueue(responses ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, responses...)
}

// CreateChatCompletion returns the next scripted response.
func (m *MockClient) CreateChatCompletion(ctx context.Context, req *ChatCompletionRequest) (*ChatCompletionResponse, error) {
	content := m.next()
	return &ChatCompletionResponse{
		ID:      fmt.Sprintf("mock-chatcmpl-%d", time.Now().UnixNano()),
		Object:  "chat.completion",
		Created: time.Now().Unix(),
		Model:   req.Model,
		Choices: []Choice{
			{
				Index:        0,
				Message:      &ChatMessage{Role: "assistant", Content: content},
				FinishReason: "stop",
			},
		},
		Usage: &Usage{PromptTokens: 1, CompletionTokens: len(content) / 4, TotalTokens: 1 + len(content)/4},
	}, nil
}

// Complete returns the next scripted response.
func (m *MockClient) Complete(ctx context.Context, model, system, user string) (string, error) {
	return m.next(), nil
}

func (m *MockClient) next() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.queue) > 0 {
		resp := m.queue[0]
		m.queue = m.queue[1:]
		return resp
	}
	return "This is a mock response."
}
