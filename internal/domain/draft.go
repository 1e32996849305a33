package domain

import "time"

// PageMetadata is what the metadata fetcher extracts from a live page.
// When the fetch fails the fetcher synthesizes values from the URL itself
// and marks the result with IsBasic so callers can tell scraped from
// synthetic metadata.
type PageMetadata struct {
	Favicon     string `json:"favicon"`
	OGImage     string `json:"ogImage"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	IsBasic     bool   `json:"isBasicMetadata,omitempty"`
}

// BookmarkDraft is the transient record the content generator produces
// per URL during bulk ingestion. It is built once and never mutated;
// the pipeline folds it into a persisted Bookmark or an error entry.
//
// Err carries any stage failure instead of an error return: a draft with
// Err set and a non-empty Title is degraded but still usable.
type BookmarkDraft struct {
	URL           string
	Title         string
	Description   string
	Overview      string
	SearchResults string
	Favicon       string
	OGImage       string
	Slug          string
	Err           string
}

// Usable reports whether the draft carries the minimum viable bookmark.
// A title is the floor: without one there is nothing to display.
func (d BookmarkDraft) Usable() bool {
	return d.Title != ""
}

// Bookmark converts the draft into a persistable row.
func (d BookmarkDraft) Bookmark(categoryID string, now time.Time) Bookmark {
	return Bookmark{
		URL:           d.URL,
		Title:         d.Title,
		Slug:          d.Slug,
		Description:   d.Description,
		Overview:      d.Overview,
		SearchResults: d.SearchResults,
		Favicon:       d.Favicon,
		OGImage:       d.OGImage,
		CategoryID:    categoryID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
