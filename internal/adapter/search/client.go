// Package search provides the client for the external web-search service
// used by the specialist pipeline steps.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Searcher defines the interface for the web-search service: a query in, a
// ranked list of documents with summaries out.
type Searcher interface {
	Search(ctx context.Context, query string, numResults int) ([]Result, error)
}

// Result is one ranked search hit.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Summary string `json:"summary,omitempty"`
}

// Client is the Exa-style HTTP search client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ Searcher = (*Client)(nil)

// NewClient creates a new search client.
func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type searchRequest struct {
	Query      string         `json:"query"`
	NumResults int            `json:"numResults,omitempty"`
	Type       string         `json:"type,omitempty"`
	Contents   searchContents `json:"contents"`
}

type searchContents struct {
	Summary bool `json:"summary"`
	Text    bool `json:"text"`
}

type searchResponse struct {
	Results []Result `json:"results"`
}

// Search runs one query and returns the ranked results.
func (c *Client) Search(ctx context.Context, query string, numResults int) ([]Result, error) {
	body, err := json.Marshal(searchRequest{
		Query:      query,
		NumResults: numResults,
		Type:       "auto",
		Contents:   searchContents{Summary: true, Text: true},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("search API error [%d]: %s", resp.StatusCode, string(respBody))
	}

	var result searchResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return result.Results, nil
}
