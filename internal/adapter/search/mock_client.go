package search

import (
	"context"
	"sync"
)

// MockClient is a scriptable Searcher for testing.
type MockClient struct {
	mu      sync.Mutex
	results []Result
	queries []string
}

var _ Searcher = (*MockClient)(nil)

// NewMockClient creates a mock that answers every query with results.
func NewMockClient(results ...Result) *MockClient {
	return &MockClient{results: results}
}

// Search records the query and returns the scripted results.
func (m *MockClient) Search(ctx context.Context, query string, numResults int) ([]Result, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, query)
	return m.results, nil
}

// Queries returns the queries seen so far.
func (m *MockClient) Queries() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.queries...)
}
