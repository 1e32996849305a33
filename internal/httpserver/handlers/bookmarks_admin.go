package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/teachstack/edudir/internal/domain"
	"github.com/teachstack/edudir/internal/httpserver/deps"
	"github.com/teachstack/edudir/internal/logger"
	"github.com/teachstack/edudir/internal/store/sqlite"
	"github.com/teachstack/edudir/internal/utils"
)

const maxBulkUploadBytes = 1 << 20

type bookmarkRequest struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Slug        string   `json:"slug"`
	Description string   `json:"description"`
	CategoryID  string   `json:"categoryId"`
	Tags        []string `json:"tags"`
	Favicon     string   `json:"favicon"`
	OGImage     string   `json:"ogImage"`
	Overview    string   `json:"overview"`
	IsFavorite  bool     `json:"isFavorite"`
	IsArchived  bool     `json:"isArchived"`
}

func (req bookmarkRequest) toBookmark(now time.Time) domain.Bookmark {
	slug := req.Slug
	if slug == "" {
		slug = domain.Slugify(req.Title)
	}
	return domain.Bookmark{
		URL:         domain.NormalizeURL(req.URL),
		Title:       req.Title,
		Slug:        slug,
		Description: req.Description,
		CategoryID:  req.CategoryID,
		Tags:        strings.Join(req.Tags, ","),
		Favicon:     req.Favicon,
		OGImage:     req.OGImage,
		Overview:    req.Overview,
		IsFavorite:  req.IsFavorite,
		IsArchived:  req.IsArchived,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// CreateBookmark adds one directory entry.
func CreateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req bookmarkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
			return
		}
		if req.URL == "" || req.Title == "" {
			writeError(w, http.StatusBadRequest, "URL and title are required")
			return
		}

		b := req.toBookmark(time.Now().UTC())
		id, err := d.Store.Insert(r.Context(), b)
		if err != nil {
			d.Logger.Error("failed to create bookmark",
				logger.String("url", b.URL),
				logger.Error(err))
			writeError(w, http.StatusConflict, "Failed to create bookmark")
			return
		}
		d.RequestReload()

		created, err := d.Store.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to read created bookmark")
			return
		}
		writeJSON(w, http.StatusCreated, newBookmarkView(&created.Bookmark, created.Category))
	}
}

// UpdateBookmark replaces a directory entry's fields.
func UpdateBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid bookmark id")
			return
		}

		var req bookmarkRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
			return
		}
		if req.URL == "" || req.Title == "" {
			writeError(w, http.StatusBadRequest, "URL and title are required")
			return
		}

		existing, err := d.Store.GetByID(r.Context(), id)
		if errors.Is(err, sqlite.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Bookmark not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to load bookmark")
			return
		}

		b := req.toBookmark(time.Now().UTC())
		b.ID = id
		b.CreatedAt = existing.CreatedAt
		if err := d.Store.Update(r.Context(), b); err != nil {
			d.Logger.Error("failed to update bookmark",
				logger.Int("id", int(id)),
				logger.Error(err))
			writeError(w, http.StatusConflict, "Failed to update bookmark")
			return
		}
		d.RequestReload()

		updated, err := d.Store.GetByID(r.Context(), id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to read updated bookmark")
			return
		}
		writeJSON(w, http.StatusOK, newBookmarkView(&updated.Bookmark, updated.Category))
	}
}

// DeleteBookmark removes a directory entry.
func DeleteBookmark(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid bookmark id")
			return
		}

		err = d.Store.DeleteByID(r.Context(), id)
		if errors.Is(err, sqlite.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Bookmark not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to delete bookmark")
			return
		}
		d.RequestReload()

		w.WriteHeader(http.StatusNoContent)
	}
}

type bulkRequest struct {
	URLs       string `json:"urls"`
	CategoryID string `json:"categoryId"`
}

// BulkUpload imports a batch of URLs, either as a JSON body with a
// newline-separated list or as an uploaded CSV file with one URL per
// line (optional "url" header). The batch runs synchronously; the
// response is a full per-URL report.
func BulkUpload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawText, categoryID, err := readBulkPayload(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		report := d.Pipeline.Run(r.Context(), rawText, categoryID)
		if report.Data.SuccessfulInsertions > 0 {
			d.RequestReload()
		}

		writeJSON(w, http.StatusOK, report)
	}
}

func readBulkPayload(r *http.Request) (rawText, categoryID string, err error) {
	contentType := r.Header.Get("Content-Type")

	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxBulkUploadBytes); err != nil {
			return "", "", errors.New("Invalid multipart form")
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return "", "", errors.New("No file uploaded")
		}
		defer utils.Close(file)

		data, err := io.ReadAll(io.LimitReader(file, maxBulkUploadBytes))
		if err != nil {
			return "", "", errors.New("Failed to read uploaded file")
		}
		return string(data), r.FormValue("categoryId"), nil
	}

	var req bulkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return "", "", errors.New("Invalid JSON in request body")
	}
	if strings.TrimSpace(req.URLs) == "" {
		return "", "", errors.New("No URLs provided")
	}
	return req.URLs, req.CategoryID, nil
}
