package predictor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const searchMaxResults = 3

// SearchClient queries a Tavily-style web-search API for a short
// market-context snippet. Strictly best effort: the LLM predictor works
// without it.
type SearchClient struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewSearchClient creates a web-search client.
func NewSearchClient(baseURL, apiKey string) *SearchClient {
	return &SearchClient{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Search returns a compact snippet for the query: the API's direct
// answer when present, otherwise the first result's title and content.
func (c *SearchClient) Search(ctx context.Context, query string) (string, error) {
	payload, err := json.Marshal(map[string]any{
		"api_key":      c.APIKey,
		"query":        query,
		"search_depth": "basic",
		"max_results":  searchMaxResults,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("search: status %d", resp.StatusCode)
	}

	var body struct {
		Answer  string `json:"answer"`
		Results []struct {
			Title   string `json:"title"`
			Content string `json:"content"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("search decode: %w", err)
	}

	if body.Answer != "" {
		return body.Answer, nil
	}
	if len(body.Results) > 0 {
		return body.Results[0].Title + ": " + body.Results[0].Content, nil
	}
	return "", fmt.Errorf("search: empty response")
}
