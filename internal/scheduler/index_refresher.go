package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/teachstack/edudir/internal/domain"
	"github.com/teachstack/edudir/internal/index"
	"github.com/teachstack/edudir/internal/logger"
	"github.com/teachstack/edudir/internal/store/sqlite"
)

// Catalog is the slice of the database the refresher reads.
type Catalog interface {
	ListWithCategory(ctx context.Context) ([]sqlite.BookmarkWithCategory, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// IndexRefresher rebuilds the memory index from the database, both on
// a timer and on demand (after writes).
type IndexRefresher struct {
	catalog       Catalog
	index         *index.MemoryIndex
	logger        logger.Logger
	interval      time.Duration
	stopCh        chan struct{}
	manualTrigger chan struct{}
}

// NewIndexRefresher creates a refresher. manualTrigger is shared with
// the write handlers so a create/update/delete can request a rebuild.
func NewIndexRefresher(
	catalog Catalog,
	idx *index.MemoryIndex,
	log logger.Logger,
	interval time.Duration,
	manualTrigger chan struct{},
) *IndexRefresher {
	return &IndexRefresher{
		catalog:       catalog,
		index:         idx,
		logger:        log,
		interval:      interval,
		stopCh:        make(chan struct{}),
		manualTrigger: manualTrigger,
	}
}

// Start performs an initial rebuild, then refreshes periodically until
// Stop is called or the context is cancelled.
func (r *IndexRefresher) Start(ctx context.Context) error {
	if err := r.Refresh(ctx); err != nil {
		return fmt.Errorf("initial index build failed: %w", err)
	}

	ticker := time.NewTicker(r.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if err := r.Refresh(ctx); err != nil {
					r.logger.Error("failed to refresh index", logger.Error(err))
				}
			case <-r.manualTrigger:
				r.logger.Info("manual index refresh triggered")
				if err := r.Refresh(ctx); err != nil {
					r.logger.Error("failed to refresh index", logger.Error(err))
				}
			case <-r.stopCh:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return nil
}

// Stop stops the refresher.
func (r *IndexRefresher) Stop() {
	close(r.stopCh)
}

// Refresh rebuilds the bookmark and category views from the database.
func (r *IndexRefresher) Refresh(ctx context.Context) error {
	rows, err := r.catalog.ListWithCategory(ctx)
	if err != nil {
		return fmt.Errorf("failed to load bookmarks: %w", err)
	}

	bookmarks := make([]*domain.Bookmark, 0, len(rows))
	for i := range rows {
		bookmarks = append(bookmarks, &rows[i].Bookmark)
	}
	r.index.UpdateBookmarks(bookmarks)

	cats, err := r.catalog.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("failed to load categories: %w", err)
	}
	categories := make([]*domain.Category, 0, len(cats))
	for i := range cats {
		categories = append(categories, &cats[i])
	}
	r.index.UpdateCategories(categories)

	r.logger.Info("index refreshed",
		logger.Int("bookmarks", len(bookmarks)),
		logger.Int("categories", len(categories)))
	return nil
}
