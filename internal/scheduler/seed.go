package scheduler

import (
	"context"
	"fmt"
	"os"

	"github.com/teachstack/edudir/internal/domain"
	"github.com/teachstack/edudir/internal/logger"
	"github.com/teachstack/edudir/internal/sources/seedfile"
)

// CategoryWriter is the slice of the database the seeder writes.
type CategoryWriter interface {
	UpsertCategory(ctx context.Context, c domain.Category) error
}

// SeedCategories loads the optional categories seed file and upserts
// its entries. A missing file is not an error, so fresh deployments
// without a seed just start empty.
func SeedCategories(ctx context.Context, path string, store CategoryWriter, log logger.Logger) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		log.Info("no category seed file, skipping", logger.String("path", path))
		return nil
	}

	config, err := seedfile.NewLoader(path).Load()
	if err != nil {
		return fmt.Errorf("failed to load category seed: %w", err)
	}
	categories, err := seedfile.NewMapper().MapCategories(config)
	if err != nil {
		return fmt.Errorf("failed to map category seed: %w", err)
	}

	for _, c := range categories {
		if err := store.UpsertCategory(ctx, c); err != nil {
			return fmt.Errorf("failed to seed category %q: %w", c.ID, err)
		}
	}

	log.Info("seeded categories",
		logger.String("path", path),
		logger.Int("count", len(categories)))
	return nil
}
