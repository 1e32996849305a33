package ingest

import (
	"context"

	"github.com/teachstack/edudir/internal/domain"
	"github.com/teachstack/edudir/internal/enrich"
	"github.com/teachstack/edudir/internal/logger"
)

// MetadataFetcher retrieves page metadata for a URL.
type MetadataFetcher interface {
	Fetch(ctx context.Context, rawURL string) (domain.PageMetadata, error)
}

// Summarizer produces a generated overview plus the search payload it
// was derived from. Implementations fail whole: no partial results.
type Summarizer interface {
	Summarize(ctx context.Context, url string) (enrich.Result, error)
}

// Generator assembles one BookmarkDraft per URL from metadata plus
// optional enrichment.
//
// Generate never returns an error: failure modes are encoded in the
// draft's Err field. Metadata failure is fatal for the draft (empty
// fields, slug from the URL host); summarization failure is not, since
// the metadata already supplies a minimum viable bookmark.
type Generator struct {
	fetcher    MetadataFetcher
	summarizer Summarizer // nil when enrichment is not configured
	logger     logger.Logger
}

func NewGenerator(fetcher MetadataFetcher, summarizer Summarizer, log logger.Logger) *Generator {
	return &Generator{
		fetcher:    fetcher,
		summarizer: summarizer,
		logger:     log,
	}
}

// Generate builds a draft for rawURL.
func (g *Generator) Generate(ctx context.Context, rawURL string) domain.BookmarkDraft {
	url := domain.NormalizeURL(rawURL)

	md, err := g.fetcher.Fetch(ctx, url)
	if err != nil {
		// Unusable URL: nothing to display, slug derived from whatever
		// host-ish text the input carries.
		return domain.BookmarkDraft{
			URL:  url,
			Slug: domain.Slugify(domain.StripScheme(url)),
			Err:  err.Error(),
		}
	}

	title := md.Title
	if title == "" {
		title = url
	}

	draft := domain.BookmarkDraft{
		URL:         md.URL,
		Title:       title,
		Description: md.Description,
		Favicon:     md.Favicon,
		OGImage:     md.OGImage,
		Slug:        domain.Slugify(title),
	}
	if draft.URL == "" {
		draft.URL = url
	}

	if g.summarizer == nil {
		return draft
	}

	res, err := g.summarizer.Summarize(ctx, url)
	if err != nil {
		// Partial draft: keep the metadata, drop the enrichment, and
		// surface the reason for visibility.
		g.logger.Warn("summarization failed, keeping partial draft",
			logger.String("url", url),
			logger.Error(err))
		draft.Err = err.Error()
		return draft
	}

	draft.Overview = res.Overview
	draft.SearchResults = res.SearchResults
	return draft
}
