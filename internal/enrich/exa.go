package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/teachstack/edudir/internal/utils"
)

// ExaClient calls the Exa contents API to retrieve page text and
// search context for a URL.
type ExaClient struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

func NewExaClient(client *http.Client, baseURL, apiKey string) *ExaClient {
	return &ExaClient{
		client:  client,
		baseURL: baseURL,
		apiKey:  apiKey,
	}
}

type exaContentsRequest struct {
	URLs       []string `json:"urls"`
	Text       bool     `json:"text"`
	Livecrawl  string   `json:"livecrawl,omitempty"`
	NumResults int      `json:"num_results,omitempty"`
}

// Contents fetches full-text content for url with live-crawl fallback.
// The raw JSON payload is returned verbatim; it is stored alongside the
// bookmark and fed to the overview generator as context.
func (c *ExaClient) Contents(ctx context.Context, url string) (string, error) {
	body, err := json.Marshal(exaContentsRequest{
		URLs:       []string{url},
		Text:       true,
		Livecrawl:  "fallback",
		NumResults: 5,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal exa request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/contents", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build exa request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("exa request failed: %w", err)
	}
	defer utils.Close(resp.Body)

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read exa response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("exa returned status %d: %s", resp.StatusCode, truncate(payload, 200))
	}

	return string(payload), nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
