package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/teachstack/edudir/internal/httpserver/deps"
)

// ListBookmarks returns the directory, newest first, optionally
// filtered to one category. Served from the memory index.
func ListBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categoryID := strings.TrimSpace(r.URL.Query().Get("category"))

		bookmarks := d.MemoryIndex.List(categoryID)
		views := make([]bookmarkView, 0, len(bookmarks))
		for _, b := range bookmarks {
			c, _ := d.MemoryIndex.GetCategory(b.CategoryID)
			views = append(views, newBookmarkView(b, c))
		}

		writeJSON(w, http.StatusOK, views)
	}
}

// GetBookmark returns one directory entry by slug.
func GetBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := chi.URLParam(r, "slug")

		b, ok := d.MemoryIndex.GetBySlug(slug)
		if !ok || b.IsArchived {
			writeError(w, http.StatusNotFound, "Bookmark not found")
			return
		}

		c, _ := d.MemoryIndex.GetCategory(b.CategoryID)
		writeJSON(w, http.StatusOK, newBookmarkView(b, c))
	}
}

type searchResult struct {
	bookmarkView
	Score float64 `json:"score"`
}

// SearchBookmarks ranks directory entries against a free-text query.
func SearchBookmarks(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			writeError(w, http.StatusBadRequest, "Query is required")
			return
		}
		categoryID := strings.TrimSpace(r.URL.Query().Get("category"))

		candidates := d.MemoryIndex.Search(query, categoryID)
		results := make([]searchResult, 0, len(candidates))
		for _, cand := range candidates {
			c, _ := d.MemoryIndex.GetCategory(cand.Bookmark.CategoryID)
			results = append(results, searchResult{
				bookmarkView: newBookmarkView(cand.Bookmark, c),
				Score:        cand.Score,
			})
		}

		writeJSON(w, http.StatusOK, results)
	}
}
