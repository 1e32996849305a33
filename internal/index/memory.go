package index

import (
	"sync"
	"time"

	"github.com/teachstack/edudir/internal/domain"
)

// MemoryIndex is the in-memory read model for public directory queries.
// It is rebuilt from the database by the refresher and serves listings
// and search without touching SQLite on the hot path.
type MemoryIndex struct {
	mu         sync.RWMutex
	bookmarks  map[int64]*domain.Bookmark  // ID -> Bookmark
	bySlug     map[string]*domain.Bookmark // slug -> Bookmark
	categories map[string]*domain.Category // ID -> Category
	ordered    []*domain.Bookmark          // insertion order from the last rebuild (newest first)
	lastReload time.Time
}

// NewMemoryIndex creates an empty index.
func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{
		bookmarks:  make(map[int64]*domain.Bookmark),
		bySlug:     make(map[string]*domain.Bookmark),
		categories: make(map[string]*domain.Category),
	}
}

// UpdateBookmarks replaces all bookmarks in the index, preserving the
// given order for listings.
func (idx *MemoryIndex) UpdateBookmarks(bookmarks []*domain.Bookmark) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.bookmarks = make(map[int64]*domain.Bookmark, len(bookmarks))
	idx.bySlug = make(map[string]*domain.Bookmark, len(bookmarks))
	idx.ordered = make([]*domain.Bookmark, 0, len(bookmarks))
	for _, b := range bookmarks {
		idx.bookmarks[b.ID] = b
		idx.bySlug[b.Slug] = b
		idx.ordered = append(idx.ordered, b)
	}
	idx.lastReload = time.Now()
}

// UpdateCategories replaces all categories in the index.
func (idx *MemoryIndex) UpdateCategories(categories []*domain.Category) {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.categories = make(map[string]*domain.Category, len(categories))
	for _, c := range categories {
		idx.categories[c.ID] = c
	}
}

// GetBySlug retrieves a bookmark by slug.
func (idx *MemoryIndex) GetBySlug(slug string) (*domain.Bookmark, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	b, ok := idx.bySlug[slug]
	return b, ok
}

// List returns bookmarks in rebuild order, optionally filtered by
// category. Archived bookmarks are excluded.
func (idx *MemoryIndex) List(categoryID string) []*domain.Bookmark {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]*domain.Bookmark, 0, len(idx.ordered))
	for _, b := range idx.ordered {
		if b.IsArchived {
			continue
		}
		if categoryID != "" && b.CategoryID != categoryID {
			continue
		}
		out = append(out, b)
	}
	return out
}

// Search ranks non-archived bookmarks against the query, optionally
// restricted to one category.
func (idx *MemoryIndex) Search(query, categoryID string) []*domain.SearchCandidate {
	idx.mu.RLock()
	pool := make([]*domain.Bookmark, 0, len(idx.ordered))
	for _, b := range idx.ordered {
		if categoryID != "" && b.CategoryID != categoryID {
			continue
		}
		pool = append(pool, b)
	}
	idx.mu.RUnlock()

	return domain.RankBookmarks(query, pool)
}

// Categories returns all categories in the index.
func (idx *MemoryIndex) Categories() []*domain.Category {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	out := make([]*domain.Category, 0, len(idx.categories))
	for _, c := range idx.categories {
		out = append(out, c)
	}
	return out
}

// GetCategory retrieves a category by ID.
func (idx *MemoryIndex) GetCategory(id string) (*domain.Category, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	c, ok := idx.categories[id]
	return c, ok
}

// Count returns the number of indexed bookmarks.
func (idx *MemoryIndex) Count() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return len(idx.bookmarks)
}

// LastReload returns the timestamp of the last bookmark rebuild.
// Zero until the first rebuild completes.
func (idx *MemoryIndex) LastReload() time.Time {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	return idx.lastReload
}
