package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/teachstack/edudir/internal/domain"
	"github.com/teachstack/edudir/internal/utils"
)

// CreateCategory inserts a category. The slug doubles as the ID.
func (s *Store) CreateCategory(ctx context.Context, c domain.Category) error {
	if c.ID == "" {
		c.ID = c.Slug
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, description, slug, color, icon, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, c.ID, c.Name, c.Description, c.Slug, c.Color, c.Icon, c.CreatedAt.Unix(), c.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to create category: %w", err)
	}
	return nil
}

// UpsertCategory inserts the category or updates it in place when the
// ID already exists. Used by the seed loader so reseeding is idempotent.
func (s *Store) UpsertCategory(ctx context.Context, c domain.Category) error {
	if c.ID == "" {
		c.ID = c.Slug
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO categories (id, name, description, slug, color, icon, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			slug = excluded.slug,
			color = excluded.color,
			icon = excluded.icon,
			updated_at = excluded.updated_at
	`, c.ID, c.Name, c.Description, c.Slug, c.Color, c.Icon, c.CreatedAt.Unix(), c.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to upsert category: %w", err)
	}
	return nil
}

// UpdateCategory rewrites a category's mutable fields.
func (s *Store) UpdateCategory(ctx context.Context, c domain.Category) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories
		SET name = ?, description = ?, slug = ?, color = ?, icon = ?, updated_at = ?
		WHERE id = ?
	`, c.Name, c.Description, c.Slug, c.Color, c.Icon, c.UpdatedAt.Unix(), c.ID)
	if err != nil {
		return fmt.Errorf("failed to update category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category. Bookmarks referencing it fall back
// to uncategorized via ON DELETE SET NULL.
func (s *Store) DeleteCategory(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// GetCategory returns one category by ID.
func (s *Store) GetCategory(ctx context.Context, id string) (*domain.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, description, slug, color, icon, created_at, updated_at
		FROM categories WHERE id = ?
	`, id)

	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return c, nil
}

// ListCategories returns all categories sorted by name.
func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, slug, color, icon, created_at, updated_at
		FROM categories ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer utils.Close(rows)

	var out []domain.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func scanCategory(row scanner) (*domain.Category, error) {
	var (
		c                  domain.Category
		createdAt, updated int64
	)
	if err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Slug, &c.Color, &c.Icon, &createdAt, &updated); err != nil {
		return nil, err
	}
	c.CreatedAt = time.Unix(createdAt, 0).UTC()
	c.UpdatedAt = time.Unix(updated, 0).UTC()
	return &c, nil
}
