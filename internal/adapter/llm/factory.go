package llm

import (
	"log/slog"
	"os"
	"time"
)

const (
	// EnvSafarMode is the environment variable name for mode selection.
	EnvSafarMode = "SAFAR_MODE"
	// ModeMock indicates mock mode should be used.
	ModeMock = "MOCK"
)

// NewReasoningClient creates a reasoning client based on the SAFAR_MODE
// environment variable. If SAFAR_MODE=MOCK, returns a MockClient; otherwise
// returns a real Client.
func NewReasoningClient(baseURL, apiKey string, timeout time.Duration) ReasoningClient {
	if os.Getenv(EnvSafarMode) == ModeMock {
		slog.Info("SAFAR_MODE=MOCK detected, using mock reasoning client")
		return NewMockClient()
	}
	return NewClient(baseURL, apiKey, timeout)
}
