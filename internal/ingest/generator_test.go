package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/teachstack/edudir/internal/domain"
	"github.com/teachstack/edudir/internal/enrich"
	"github.com/teachstack/edudir/internal/logger"
)

type stubFetcher struct {
	md  domain.PageMetadata
	err error
}

func (s *stubFetcher) Fetch(_ context.Context, _ string) (domain.PageMetadata, error) {
	return s.md, s.err
}

type stubSummarizer struct {
	res enrich.Result
	err error
}

func (s *stubSummarizer) Summarize(_ context.Context, _ string) (enrich.Result, error) {
	return s.res, s.err
}

func testLogger() logger.Logger { return logger.New("error", false) }

func TestGenerate_FullSuccess(t *testing.T) {
	fetcher := &stubFetcher{md: domain.PageMetadata{
		Title:       "Khanmigo: AI for Education",
		Description: "An AI-powered tutor",
		URL:         "https://khanmigo.ai",
		Favicon:     "https://khanmigo.ai/favicon.ico",
		OGImage:     "https://khanmigo.ai/og.png",
	}}
	summarizer := &stubSummarizer{res: enrich.Result{
		Overview:      "A tutor for students.",
		SearchResults: `{"results":[]}`,
	}}

	draft := NewGenerator(fetcher, summarizer, testLogger()).Generate(context.Background(), "khanmigo.ai")

	if draft.Err != "" {
		t.Errorf("Err = %q, want empty", draft.Err)
	}
	if draft.Title != "Khanmigo: AI for Education" {
		t.Errorf("Title = %q", draft.Title)
	}
	if draft.Slug != "khanmigo-ai-for-education" {
		t.Errorf("Slug = %q", draft.Slug)
	}
	if draft.Overview != "A tutor for students." {
		t.Errorf("Overview = %q", draft.Overview)
	}
	if draft.SearchResults == "" {
		t.Errorf("SearchResults empty on full success")
	}
}

func TestGenerate_SummarizerFailureKeepsPartialDraft(t *testing.T) {
	fetcher := &stubFetcher{md: domain.PageMetadata{
		Title:       "Diffit",
		Description: "Leveled resources",
		URL:         "https://diffit.me",
	}}
	summarizer := &stubSummarizer{err: errors.New("exa returned status 502")}

	draft := NewGenerator(fetcher, summarizer, testLogger()).Generate(context.Background(), "https://diffit.me")

	if !draft.Usable() {
		t.Fatalf("partial draft with a title should stay usable")
	}
	if draft.Err == "" {
		t.Errorf("Err should record the summarizer failure")
	}
	if draft.Overview != "" || draft.SearchResults != "" {
		t.Errorf("enrichment fields should be empty on partial draft, got %q / %q",
			draft.Overview, draft.SearchResults)
	}
	if draft.Title != "Diffit" || draft.Description != "Leveled resources" {
		t.Errorf("metadata fields must be preserved: %+v", draft)
	}
}

func TestGenerate_FetcherErrorYieldsEmptyDraft(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New(`invalid URL format: "::"`)}

	draft := NewGenerator(fetcher, &stubSummarizer{}, testLogger()).Generate(context.Background(), "https://www.broken.example/x")

	if draft.Usable() {
		t.Fatalf("draft without metadata must not be usable")
	}
	if draft.Err == "" {
		t.Errorf("Err should carry the fetch failure")
	}
	if draft.Slug == "" {
		t.Errorf("fallback slug expected even for failed drafts")
	}
	if draft.Slug != "broken-example-x" {
		t.Errorf("Slug = %q, want host-derived broken-example-x", draft.Slug)
	}
}

func TestGenerate_NoSummarizerConfigured(t *testing.T) {
	fetcher := &stubFetcher{md: domain.PageMetadata{Title: "Quizlet", URL: "https://quizlet.com"}}

	draft := NewGenerator(fetcher, nil, testLogger()).Generate(context.Background(), "quizlet.com")

	if draft.Err != "" {
		t.Errorf("no-summarizer runs should not set Err, got %q", draft.Err)
	}
	if draft.Overview != "" {
		t.Errorf("Overview should stay empty without a summarizer")
	}
	if !draft.Usable() {
		t.Errorf("draft should be usable")
	}
}
