package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/teachstack/edudir/internal/domain"
	"github.com/teachstack/edudir/internal/index"
	"github.com/teachstack/edudir/internal/logger"
	"github.com/teachstack/edudir/internal/store/sqlite"
)

type fakeCatalog struct {
	rows []sqlite.BookmarkWithCategory
	cats []domain.Category
	err  error
}

func (f *fakeCatalog) ListWithCategory(context.Context) ([]sqlite.BookmarkWithCategory, error) {
	return f.rows, f.err
}

func (f *fakeCatalog) ListCategories(context.Context) ([]domain.Category, error) {
	return f.cats, f.err
}

func testLogger() logger.Logger { return logger.New("error", false) }

func TestRefreshPopulatesIndex(t *testing.T) {
	catalog := &fakeCatalog{
		rows: []sqlite.BookmarkWithCategory{
			{Bookmark: domain.Bookmark{ID: 1, Slug: "khanmigo", Title: "Khanmigo"}},
			{Bookmark: domain.Bookmark{ID: 2, Slug: "diffit", Title: "Diffit"}},
		},
		cats: []domain.Category{{ID: "writing", Name: "Writing"}},
	}
	idx := index.NewMemoryIndex()

	r := NewIndexRefresher(catalog, idx, testLogger(), time.Hour, make(chan struct{}))
	if err := r.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	if idx.Count() != 2 {
		t.Errorf("index holds %d bookmarks, want 2", idx.Count())
	}
	if _, ok := idx.GetBySlug("khanmigo"); !ok {
		t.Errorf("refreshed index should resolve slugs")
	}
	if len(idx.Categories()) != 1 {
		t.Errorf("categories not refreshed")
	}
}

func TestStartFailsWhenInitialBuildFails(t *testing.T) {
	catalog := &fakeCatalog{err: errors.New("database locked")}
	r := NewIndexRefresher(catalog, index.NewMemoryIndex(), testLogger(), time.Hour, make(chan struct{}))

	if err := r.Start(context.Background()); err == nil {
		t.Fatalf("Start() must fail when the initial build fails")
	}
}

func TestManualTriggerRefreshes(t *testing.T) {
	catalog := &fakeCatalog{}
	idx := index.NewMemoryIndex()
	trigger := make(chan struct{})

	r := NewIndexRefresher(catalog, idx, testLogger(), time.Hour, trigger)
	if err := r.Start(context.Background()); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer r.Stop()

	first := idx.LastReload()

	catalog.rows = []sqlite.BookmarkWithCategory{
		{Bookmark: domain.Bookmark{ID: 1, Slug: "new", Title: "New"}},
	}
	trigger <- struct{}{}

	deadline := time.After(2 * time.Second)
	for idx.Count() != 1 {
		select {
		case <-deadline:
			t.Fatalf("manual trigger did not refresh the index")
		case <-time.After(10 * time.Millisecond):
		}
	}
	if !idx.LastReload().After(first) && idx.LastReload() != first {
		t.Errorf("LastReload() should advance after a triggered refresh")
	}
}
