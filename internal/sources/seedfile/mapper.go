package seedfile

import (
	"fmt"
	"time"

	"github.com/teachstack/edudir/internal/domain"
)

// Mapper converts seed file entries to domain categories.
type Mapper struct{}

// NewMapper creates a category mapper.
func NewMapper() *Mapper {
	return &Mapper{}
}

// MapCategories converts a Config to domain.Category values. The slug
// doubles as the category ID; entries without a slug derive one from
// the name, and entries without a name are rejected.
func (m *Mapper) MapCategories(config Config) ([]domain.Category, error) {
	categories := make([]domain.Category, 0, len(config.Categories))
	now := time.Now().UTC()

	seen := make(map[string]bool, len(config.Categories))
	for i, entry := range config.Categories {
		if entry.Name == "" {
			return nil, fmt.Errorf("category %d has no name", i)
		}

		slug := entry.Slug
		if slug == "" {
			slug = domain.Slugify(entry.Name)
		}
		if seen[slug] {
			return nil, fmt.Errorf("duplicate category slug %q", slug)
		}
		seen[slug] = true

		categories = append(categories, domain.Category{
			ID:          slug,
			Name:        entry.Name,
			Description: entry.Description,
			Slug:        slug,
			Color:       entry.Color,
			Icon:        entry.Icon,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if len(categories) == 0 {
		return nil, fmt.Errorf("no categories found in seed file")
	}

	return categories, nil
}
