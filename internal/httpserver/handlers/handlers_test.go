package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/teachstack/edudir/internal/domain"
	"github.com/teachstack/edudir/internal/httpserver/deps"
	"github.com/teachstack/edudir/internal/index"
	"github.com/teachstack/edudir/internal/ingest"
	"github.com/teachstack/edudir/internal/logger"
	"github.com/teachstack/edudir/internal/metadata"
	"github.com/teachstack/edudir/internal/newsletter"
	"github.com/teachstack/edudir/internal/store/sqlite"
)

type fixedGenerator struct {
	drafts map[string]domain.BookmarkDraft
}

func (f *fixedGenerator) Generate(_ context.Context, rawURL string) domain.BookmarkDraft {
	if d, ok := f.drafts[rawURL]; ok {
		return d
	}
	return domain.BookmarkDraft{URL: rawURL, Err: "unreachable"}
}

func testDeps(t *testing.T) deps.Deps {
	t.Helper()
	log := logger.New("error", false)

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	gen := &fixedGenerator{drafts: map[string]domain.BookmarkDraft{
		"https://khanmigo.ai": {
			URL:   "https://khanmigo.ai",
			Title: "Khanmigo",
			Slug:  "khanmigo",
		},
	}}

	return deps.Deps{
		Logger:        log,
		StartTime:     time.Now(),
		AdminToken:    "test-token",
		Store:         store,
		MemoryIndex:   index.NewMemoryIndex(),
		Fetcher:       metadata.NewFetcher(&http.Client{Timeout: time.Second}, "test-agent", nil, log),
		Pipeline:      ingest.NewPipeline(gen, store, ingest.Options{URLTimeout: time.Second}, log),
		Subscribers:   newsletter.NewStore(filepath.Join(t.TempDir(), "subs.json"), log),
		ReloadTrigger: make(chan struct{}, 1),
	}
}

func testRouter(d deps.Deps) chi.Router {
	r := chi.NewRouter()
	r.Get("/api/metadata", Metadata(d))
	r.Post("/api/generate", Generate(d))
	r.Get("/api/bookmarks", ListBookmarks(d))
	r.Get("/api/bookmarks/{slug}", GetBookmark(d))
	r.Get("/api/search", SearchBookmarks(d))
	r.Post("/api/bookmarks", CreateBookmark(d))
	r.Put("/api/bookmarks/{id:[0-9]+}", UpdateBookmark(d))
	r.Delete("/api/bookmarks/{id:[0-9]+}", DeleteBookmark(d))
	r.Post("/api/bookmarks/bulk", BulkUpload(d))
	r.Get("/api/categories", ListCategories(d))
	r.Post("/api/categories", CreateCategory(d))
	r.Post("/api/subscribe", Subscribe(d))
	r.Get("/api/subscribe/verify", VerifySubscription(d))
	r.Get("/readyz", Readyz(d))
	return r
}

func doJSON(t *testing.T, router chi.Router, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestMetadataRequiresURL(t *testing.T) {
	router := testRouter(testDeps(t))

	rec := doJSON(t, router, http.MethodGet, "/api/metadata", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing url: status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/metadata?url=%3A%2F%2Fnot%20a%20url", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("invalid url: status = %d, want 400", rec.Code)
	}
}

func TestGenerateWithoutSummarizer(t *testing.T) {
	router := testRouter(testDeps(t))

	rec := doJSON(t, router, http.MethodPost, "/api/generate",
		map[string]string{"url": "https://a.com", "searchResults": "{}"})
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503 when no summarizer is configured", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/generate", map[string]string{"url": "https://a.com"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 when searchResults missing", rec.Code)
	}
}

func TestBookmarkCRUDAndIndexReads(t *testing.T) {
	d := testDeps(t)
	router := testRouter(d)

	rec := doJSON(t, router, http.MethodPost, "/api/bookmarks", map[string]any{
		"url":   "khanmigo.ai",
		"title": "Khanmigo",
		"tags":  []string{"tutoring", "math"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: status = %d, body %s", rec.Code, rec.Body.String())
	}

	var created bookmarkView
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatal(err)
	}
	if created.URL != "https://khanmigo.ai" {
		t.Errorf("URL should be normalized, got %q", created.URL)
	}
	if created.Slug != "khanmigo" {
		t.Errorf("slug should derive from title, got %q", created.Slug)
	}
	if len(created.Tags) != 2 {
		t.Errorf("tags round-trip failed: %v", created.Tags)
	}

	// The write goes to the database; reads come from the index, which
	// lags until a refresh runs. Simulate the refresher here.
	rec = doJSON(t, router, http.MethodGet, "/api/bookmarks/khanmigo", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("before refresh: status = %d, want 404", rec.Code)
	}
	d.MemoryIndex.UpdateBookmarks([]*domain.Bookmark{{
		ID: created.ID, Slug: created.Slug, Title: created.Title, URL: created.URL,
	}})
	rec = doJSON(t, router, http.MethodGet, "/api/bookmarks/khanmigo", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("after refresh: status = %d, want 200", rec.Code)
	}

	// Duplicate URL rejected by the unique constraint.
	rec = doJSON(t, router, http.MethodPost, "/api/bookmarks", map[string]any{
		"url":   "khanmigo.ai",
		"title": "Khanmigo Again",
	})
	if rec.Code != http.StatusConflict {
		t.Errorf("duplicate: status = %d, want 409", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPut, "/api/bookmarks/999", map[string]any{
		"url":   "https://missing.example",
		"title": "Missing",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("update missing: status = %d, want 404", rec.Code)
	}

	rec = doJSON(t, router, http.MethodDelete, "/api/bookmarks/999", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("delete missing: status = %d, want 404", rec.Code)
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	router := testRouter(testDeps(t))

	rec := doJSON(t, router, http.MethodGet, "/api/search", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400 for empty query", rec.Code)
	}
}

func TestBulkUploadJSON(t *testing.T) {
	d := testDeps(t)
	router := testRouter(d)

	rec := doJSON(t, router, http.MethodPost, "/api/bookmarks/bulk", map[string]string{
		"urls": "https://khanmigo.ai\nhttps://down.example",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var report ingest.Report
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatal(err)
	}
	if !report.Success || report.Data.SuccessfulInsertions != 1 {
		t.Errorf("report = %+v, want one successful insertion", report.Data)
	}
	if len(report.Data.Errors) != 1 || !strings.Contains(report.Data.Errors[0], "https://down.example") {
		t.Errorf("unreachable URL should be reported: %v", report.Data.Errors)
	}

	// A successful import queues an index refresh.
	select {
	case <-d.ReloadTrigger:
	default:
		t.Errorf("bulk import should request an index refresh")
	}

	rec = doJSON(t, router, http.MethodPost, "/api/bookmarks/bulk", map[string]string{"urls": "  "})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty list: status = %d, want 400", rec.Code)
	}
}

func TestCategoriesSortedByName(t *testing.T) {
	d := testDeps(t)
	router := testRouter(d)

	d.MemoryIndex.UpdateCategories([]*domain.Category{
		{ID: "writing", Name: "Writing"},
		{ID: "assessment", Name: "Assessment"},
	})

	rec := doJSON(t, router, http.MethodGet, "/api/categories", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var cats []categoryView
	if err := json.Unmarshal(rec.Body.Bytes(), &cats); err != nil {
		t.Fatal(err)
	}
	if len(cats) != 2 || cats[0].Name != "Assessment" {
		t.Errorf("categories must be sorted by name, got %v", cats)
	}
}

func TestSubscribeLifecycle(t *testing.T) {
	router := testRouter(testDeps(t))

	rec := doJSON(t, router, http.MethodPost, "/api/subscribe",
		map[string]string{"email": "teacher@example.org"})
	if rec.Code != http.StatusCreated {
		t.Fatalf("first subscribe: status = %d, want 201", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/subscribe",
		map[string]string{"email": "teacher@example.org"})
	if rec.Code != http.StatusOK {
		t.Errorf("repeat subscribe: status = %d, want 200", rec.Code)
	}

	rec = doJSON(t, router, http.MethodPost, "/api/subscribe", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("missing email: status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/subscribe/verify?token=nope", nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown token: status = %d, want 404", rec.Code)
	}
}

func TestReadyzFollowsIndexState(t *testing.T) {
	d := testDeps(t)
	router := testRouter(d)

	rec := doJSON(t, router, http.MethodGet, "/readyz", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("before first index build: status = %d, want 503", rec.Code)
	}

	d.MemoryIndex.UpdateBookmarks(nil)
	rec = doJSON(t, router, http.MethodGet, "/readyz", nil)
	if rec.Code != http.StatusOK {
		t.Errorf("after index build: status = %d, want 200", rec.Code)
	}
}
