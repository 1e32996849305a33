package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/teachstack/edudir/internal/domain"
	"github.com/teachstack/edudir/internal/httpserver/deps"
	"github.com/teachstack/edudir/internal/logger"
	"github.com/teachstack/edudir/internal/store/sqlite"
)

type categoryRequest struct {
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
}

// ListCategories returns all categories sorted by name, from the
// memory index.
func ListCategories(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories := d.MemoryIndex.Categories()
		sort.Slice(categories, func(i, j int) bool {
			return categories[i].Name < categories[j].Name
		})

		views := make([]categoryView, 0, len(categories))
		for _, c := range categories {
			views = append(views, *newCategoryView(c))
		}
		writeJSON(w, http.StatusOK, views)
	}
}

// CreateCategory adds a category. The slug doubles as the ID and is
// derived from the name when absent.
func CreateCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "Name is required")
			return
		}

		slug := req.Slug
		if slug == "" {
			slug = domain.Slugify(req.Name)
		}
		now := time.Now().UTC()
		c := domain.Category{
			ID:          slug,
			Name:        req.Name,
			Description: req.Description,
			Slug:        slug,
			Color:       req.Color,
			Icon:        req.Icon,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := d.Store.CreateCategory(r.Context(), c); err != nil {
			d.Logger.Error("failed to create category",
				logger.String("slug", slug),
				logger.Error(err))
			writeError(w, http.StatusConflict, "Failed to create category")
			return
		}
		d.RequestReload()

		writeJSON(w, http.StatusCreated, *newCategoryView(&c))
	}
}

// UpdateCategory rewrites a category's fields. The ID is immutable.
func UpdateCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		var req categoryRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
			return
		}
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "Name is required")
			return
		}

		existing, err := d.Store.GetCategory(r.Context(), id)
		if errors.Is(err, sqlite.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Category not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load category")
			return
		}

		slug := req.Slug
		if slug == "" {
			slug = existing.Slug
		}
		c := domain.Category{
			ID:          id,
			Name:        req.Name,
			Description: req.Description,
			Slug:        slug,
			Color:       req.Color,
			Icon:        req.Icon,
			CreatedAt:   existing.CreatedAt,
			UpdatedAt:   time.Now().UTC(),
		}

		if err := d.Store.UpdateCategory(r.Context(), c); err != nil {
			d.Logger.Error("failed to update category",
				logger.String("id", id),
				logger.Error(err))
			writeError(w, http.StatusConflict, "Failed to update category")
			return
		}
		d.RequestReload()

		writeJSON(w, http.StatusOK, *newCategoryView(&c))
	}
}

// DeleteCategory removes a category. Its bookmarks become
// uncategorized rather than disappearing.
func DeleteCategory(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		err := d.Store.DeleteCategory(r.Context(), id)
		if errors.Is(err, sqlite.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Category not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to delete category")
			return
		}
		d.RequestReload()

		w.WriteHeader(http.StatusNoContent)
	}
}
