package metadata

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/teachstack/edudir/internal/domain"
	"github.com/teachstack/edudir/internal/logger"
	"github.com/teachstack/edudir/internal/utils"
)

// maxBodyBytes caps how much HTML we read per page.
const maxBodyBytes = 2 << 20

// Cache is an optional read-through cache for fetched metadata.
type Cache interface {
	Get(ctx context.Context, url string) (*domain.PageMetadata, bool)
	Set(ctx context.Context, url string, md domain.PageMetadata)
}

// Fetcher retrieves page HTML and extracts display metadata.
//
// Fetch degrades instead of failing: any network or HTTP error yields
// synthetic metadata derived from the URL, so callers always get a usable
// title. Only an unparseable URL is reported as an error.
type Fetcher struct {
	client    *http.Client
	userAgent string
	cache     Cache
	logger    logger.Logger
}

func NewFetcher(client *http.Client, userAgent string, cache Cache, log logger.Logger) *Fetcher {
	return &Fetcher{
		client:    client,
		userAgent: userAgent,
		cache:     cache,
		logger:    log,
	}
}

// Fetch returns metadata for rawURL. The error is non-nil only when the
// URL cannot be parsed at all; every other failure mode returns degraded
// metadata with IsBasic set.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (domain.PageMetadata, error) {
	normalized := domain.NormalizeURL(rawURL)

	target, err := url.Parse(normalized)
	if err != nil || target.Hostname() == "" {
		return domain.PageMetadata{}, fmt.Errorf("invalid URL format: %q", rawURL)
	}

	if f.cache != nil {
		if md, ok := f.cache.Get(ctx, target.String()); ok {
			f.logger.Debug("metadata cache hit", logger.String("url", target.String()))
			return *md, nil
		}
	}

	md := f.scrape(ctx, target)

	if f.cache != nil && !md.IsBasic {
		f.cache.Set(ctx, target.String(), md)
	}

	return md, nil
}

func (f *Fetcher) scrape(ctx context.Context, target *url.URL) domain.PageMetadata {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return f.basicMetadata(target)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Debug("page fetch failed, degrading to basic metadata",
			logger.String("url", target.String()),
			logger.Error(err))
		return f.basicMetadata(target)
	}
	defer utils.Close(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		f.logger.Debug("page fetch returned non-2xx, degrading to basic metadata",
			logger.String("url", target.String()),
			logger.Int("status", resp.StatusCode))
		return f.basicMetadata(target)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return f.basicMetadata(target)
	}

	md, err := parseHTML(body, resp.Header.Get("Content-Type"), target)
	if err != nil {
		f.logger.Debug("html parse failed, degrading to basic metadata",
			logger.String("url", target.String()),
			logger.Error(err))
		return f.basicMetadata(target)
	}
	return md
}

// basicMetadata synthesizes metadata from the URL alone.
// Titles gate downstream "processed successfully" decisions, so even a
// dead page yields a hostname title rather than an error.
func (f *Fetcher) basicMetadata(target *url.URL) domain.PageMetadata {
	return domain.PageMetadata{
		Favicon:     "/favicon.ico",
		OGImage:     "",
		Title:       target.Hostname(),
		Description: fmt.Sprintf("Content from %s", target.Hostname()),
		URL:         target.String(),
		IsBasic:     true,
	}
}

func parseHTML(body []byte, contentType string, target *url.URL) (domain.PageMetadata, error) {
	// Decode to UTF-8 if needed
	enc, _, _ := charset.DetermineEncoding(body, contentType)
	utf8data, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		// fallback: if already utf-8, continue
		if !utf8.Valid(body) {
			return domain.PageMetadata{}, err
		}
		utf8data = body
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
	if err != nil {
		return domain.PageMetadata{}, err
	}

	title := strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if title == "" {
		title = target.Hostname()
	}

	description := strings.TrimSpace(doc.Find(`meta[property="og:description"]`).AttrOr("content", ""))
	if description == "" {
		description = strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", ""))
	}

	favicon := doc.Find(`link[rel="icon"]`).AttrOr("href", "")
	if favicon == "" {
		favicon = doc.Find(`link[rel="shortcut icon"]`).AttrOr("href", "")
	}
	if favicon == "" {
		favicon = doc.Find(`link[rel="apple-touch-icon"]`).AttrOr("href", "")
	}
	if favicon == "" {
		favicon = "/favicon.ico"
	}
	favicon = resolveAgainst(target, favicon, "/favicon.ico")

	ogImage := doc.Find(`meta[property="og:image"]`).AttrOr("content", "")
	if ogImage == "" {
		ogImage = doc.Find(`meta[name="twitter:image"]`).AttrOr("content", "")
	}
	if ogImage != "" {
		ogImage = resolveAgainst(target, ogImage, "")
	}

	return domain.PageMetadata{
		Favicon:     favicon,
		OGImage:     ogImage,
		Title:       title,
		Description: description,
		URL:         target.String(),
	}, nil
}

// resolveAgainst makes ref absolute relative to the page origin.
// Resolution failures fall back rather than propagate.
func resolveAgainst(base *url.URL, ref, fallback string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	parsed, err := url.Parse(ref)
	if err != nil {
		return fallback
	}
	return base.ResolveReference(parsed).String()
}
