package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teachstack/edudir/internal/domain"
	"github.com/teachstack/edudir/internal/logger"
)

// Store is the persistence surface the pipeline needs.
type Store interface {
	// InsertMany inserts bookmarks in a single transaction and returns
	// the number inserted. All-or-nothing: a constraint violation
	// (duplicate url/slug) fails the whole batch.
	InsertMany(ctx context.Context, bookmarks []domain.Bookmark) (int, error)
}

// ContentGenerator produces a draft per URL without ever failing.
type ContentGenerator interface {
	Generate(ctx context.Context, rawURL string) domain.BookmarkDraft
}

// Options tune the pipeline's pacing.
type Options struct {
	// URLTimeout bounds how long one URL may spend in generation.
	URLTimeout time.Duration
	// URLDelay is the pause between URLs. This is deliberate
	// backpressure for the downstream search/LLM rate limits, not an
	// oversight; keep it when tuning.
	URLDelay time.Duration
}

// Report is the aggregate outcome of one bulk ingestion run.
type Report struct {
	Success  bool       `json:"success"`
	Message  string     `json:"message"`
	Data     ReportData `json:"data"`
	Progress Progress   `json:"progress"`
}

type ReportData struct {
	TotalURLs             int      `json:"totalUrls"`
	ProcessedSuccessfully int      `json:"processedSuccessfully"`
	SuccessfulInsertions  int      `json:"successfulInsertions"`
	Errors                []string `json:"errors,omitempty"`
	// DatabaseError is reported separately from per-URL errors: it
	// describes the batch insert, not any single URL.
	DatabaseError string `json:"databaseError,omitempty"`
}

type Progress struct {
	Current   int    `json:"current"`
	Total     int    `json:"total"`
	LastAdded string `json:"lastAdded"`
}

// Pipeline ingests a newline-delimited URL list: one URL at a time,
// bounded per-URL timeout, collect-then-insert persistence.
type Pipeline struct {
	generator ContentGenerator
	store     Store
	opts      Options
	logger    logger.Logger
	now       func() time.Time
}

func NewPipeline(generator ContentGenerator, store Store, opts Options, log logger.Logger) *Pipeline {
	if opts.URLTimeout <= 0 {
		opts.URLTimeout = 30 * time.Second
	}
	return &Pipeline{
		generator: generator,
		store:     store,
		opts:      opts,
		logger:    log,
		now:       time.Now,
	}
}

// ParseURLList splits raw input on newlines, trims each line, and drops
// blanks and bare header tokens ("url", as found in CSV exports).
// Order is preserved.
func ParseURLList(raw string) []string {
	lines := strings.Split(raw, "\n")
	urls := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" || strings.EqualFold(line, "url") {
			continue
		}
		urls = append(urls, line)
	}
	return urls
}

// Run processes rawText and persists what succeeded.
//
// Every URL in the parsed list lands in exactly one of results or
// errors. URLs are processed strictly sequentially; the batch-level
// context cancels between URLs, and a cancelled batch accounts for the
// remaining URLs as errors rather than dropping them silently.
func (p *Pipeline) Run(ctx context.Context, rawText, categoryID string) Report {
	urls := ParseURLList(rawText)
	total := len(urls)

	p.logger.Info("bulk ingestion started",
		logger.Int("urls", total),
		logger.String("category", categoryID))

	drafts := make([]domain.BookmarkDraft, 0, total)
	errs := make([]string, 0)
	lastAdded := ""

	for i, url := range urls {
		if err := ctx.Err(); err != nil {
			for _, remaining := range urls[i:] {
				errs = append(errs, fmt.Sprintf("%s: batch cancelled before processing", remaining))
			}
			break
		}

		p.logger.Info("processing url",
			logger.Int("index", i+1),
			logger.Int("total", total),
			logger.String("url", url))

		draft, timedOut := p.processOne(ctx, url)
		switch {
		case timedOut:
			errs = append(errs, fmt.Sprintf("%s: Processing timed out after %d seconds",
				url, int(p.opts.URLTimeout.Seconds())))
		case draft.Usable():
			if draft.Err != "" {
				p.logger.Warn("keeping degraded draft",
					logger.String("url", url),
					logger.String("reason", draft.Err))
			}
			drafts = append(drafts, draft)
			lastAdded = draft.Title
		case draft.Err != "":
			errs = append(errs, fmt.Sprintf("%s: %s", url, draft.Err))
		default:
			errs = append(errs, fmt.Sprintf("%s: Failed to extract content (no title found)", url))
		}

		if i < total-1 {
			if !p.pause(ctx) {
				continue // cancelled; next loop iteration accounts for the rest
			}
		}
	}

	inserted := 0
	dbErr := ""
	if len(drafts) > 0 {
		now := p.now()
		bookmarks := make([]domain.Bookmark, 0, len(drafts))
		for _, d := range drafts {
			bookmarks = append(bookmarks, d.Bookmark(categoryID, now))
		}

		n, err := p.store.InsertMany(ctx, bookmarks)
		if err != nil {
			dbErr = err.Error()
			p.logger.Error("batch insert failed", logger.Error(err))
		} else {
			inserted = n
		}
	}

	message := fmt.Sprintf("Successfully imported %d bookmarks.", inserted)
	if len(errs) > 0 {
		message += fmt.Sprintf(" Failed to import %d URLs.", len(errs))
	}
	if dbErr != "" {
		message += " Database error during insert."
	}

	p.logger.Info("bulk ingestion completed",
		logger.Int("processed", len(drafts)),
		logger.Int("inserted", inserted),
		logger.Int("errors", len(errs)))

	return Report{
		Success: inserted > 0,
		Message: message,
		Data: ReportData{
			TotalURLs:             total,
			ProcessedSuccessfully: len(drafts),
			SuccessfulInsertions:  inserted,
			Errors:                errs,
			DatabaseError:         dbErr,
		},
		Progress: Progress{
			Current:   total,
			Total:     total,
			LastAdded: lastAdded,
		},
	}
}

// processOne races generation against the per-URL timeout. The timeout
// context propagates into the generator's HTTP calls, so the losing
// branch is cancelled rather than left running.
func (p *Pipeline) processOne(ctx context.Context, url string) (domain.BookmarkDraft, bool) {
	tctx, cancel := context.WithTimeout(ctx, p.opts.URLTimeout)
	defer cancel()

	done := make(chan domain.BookmarkDraft, 1)
	go func() {
		done <- p.generator.Generate(tctx, domain.NormalizeURL(url))
	}()

	select {
	case draft := <-done:
		return draft, false
	case <-tctx.Done():
		if errors.Is(tctx.Err(), context.DeadlineExceeded) {
			p.logger.Warn("url processing timed out",
				logger.String("url", url),
				logger.Duration("timeout", p.opts.URLTimeout))
			return domain.BookmarkDraft{}, true
		}
		// Batch cancelled mid-URL: report as timeout-free failure so the
		// caller sees the cancellation reason.
		return domain.BookmarkDraft{Err: "batch cancelled"}, false
	}
}

// pause waits the inter-URL delay, returning false when the batch
// context is cancelled first.
func (p *Pipeline) pause(ctx context.Context) bool {
	if p.opts.URLDelay <= 0 {
		return true
	}
	t := time.NewTimer(p.opts.URLDelay)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}
