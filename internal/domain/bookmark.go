package domain

import "time"

// Bookmark represents one directory entry: an external tool's URL
// plus the display metadata shown on the public site.
type Bookmark struct {
	// ─────────────────────────────
	// Identity
	// ─────────────────────────────

	// ID is the database-assigned identifier.
	ID int64

	// URL is the canonical external URL. Unique across the store.
	URL string

	// Slug is the URL-safe identifier derived from Title.
	// Unique across the store; used for public detail pages.
	Slug string

	// ─────────────────────────────
	// Display metadata
	// ─────────────────────────────

	Title       string
	Description string

	// Favicon and OGImage are absolute URLs scraped from the page.
	// Either may be empty when the page exposed nothing usable.
	Favicon string
	OGImage string

	// Overview is the generated markdown summary of the tool.
	// Empty when enrichment was skipped or degraded.
	Overview string

	// SearchResults is the serialized external search payload the
	// overview was generated from. Kept for regeneration and audit.
	SearchResults string

	// ─────────────────────────────
	// Organization
	// ─────────────────────────────

	// CategoryID references a Category; empty means uncategorized.
	CategoryID string

	// Tags is a comma-separated tag list.
	Tags string

	IsFavorite bool
	IsArchived bool

	// ─────────────────────────────
	// Timestamps
	// ─────────────────────────────

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Category groups bookmarks for browsing and filtering.
type Category struct {
	// ID doubles as the category slug (unique).
	ID          string
	Name        string
	Description string
	Slug        string

	// Color and Icon drive UI presentation only.
	Color string
	Icon  string

	CreatedAt time.Time
	UpdatedAt time.Time
}
