package search

import (
	"log/slog"
	"os"
	"time"
)

// NewSearcher creates a web search client based on the SAFAR_MODE
// environment variable. If SAFAR_MODE=MOCK, returns a MockClient; otherwise
// returns a real Client.
func NewSearcher(baseURL, apiKey string, timeout time.Duration) Searcher {
	if os.Getenv("SAFAR_MODE") == "MOCK" {
		slog.Info("SAFAR_MODE=MOCK detected, using mock search client")
		return NewMockClient()
	}
	return NewClient(baseURL, apiKey, timeout)
}
