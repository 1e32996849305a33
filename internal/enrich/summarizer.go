package enrich

import (
	"context"
	"encoding/json"
	"fmt"
)

// overviewPrompt is the fixed template sent to the text generator.
// Changes here directly change every overview on the site.
const overviewPrompt = `You are a helpful assistant that writes clear, concise summaries of web content.
Based on the search results and content from %s, write a brief but comprehensive overview.

Focus on:
- The main purpose or value proposition
- Key features or main points
- Target audience or use cases
- What makes it unique or noteworthy

Format the response in markdown and keep it under 200 words. Make it engaging and informative.

Context from the webpage:
%s`

// Result is the outcome of a successful summarization.
type Result struct {
	Overview      string
	SearchResults string
}

// Summarizer produces a generated overview for a URL from external
// search context. Both stages are all-or-nothing: there is no internal
// degradation path, and it is the caller's responsibility to catch
// failures and substitute empty strings.
type Summarizer struct {
	search    *ExaClient
	generator *GeminiClient
}

func NewSummarizer(search *ExaClient, generator *GeminiClient) *Summarizer {
	return &Summarizer{
		search:    search,
		generator: generator,
	}
}

// Summarize retrieves search context for url and asks the generator for
// a short overview.
func (s *Summarizer) Summarize(ctx context.Context, url string) (Result, error) {
	searchResults, err := s.search.Contents(ctx, url)
	if err != nil {
		return Result{}, fmt.Errorf("search context retrieval failed: %w", err)
	}

	overview, err := s.Overview(ctx, url, searchResults)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Overview:      overview,
		SearchResults: searchResults,
	}, nil
}

// Overview generates an overview from pre-fetched search results.
// Used directly by the overview-generation endpoint, which receives the
// search payload from the caller.
func (s *Summarizer) Overview(ctx context.Context, url, searchResults string) (string, error) {
	// Re-indent the payload when it parses as JSON so the model sees
	// readable context; pass it through untouched otherwise.
	pretty := searchResults
	var decoded any
	if err := json.Unmarshal([]byte(searchResults), &decoded); err == nil {
		if b, err := json.MarshalIndent(decoded, "", "  "); err == nil {
			pretty = string(b)
		}
	}

	prompt := fmt.Sprintf(overviewPrompt, url, pretty)
	overview, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("overview generation failed: %w", err)
	}
	return overview, nil
}
