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

// BookmarkWithCategory is a bookmark joined with its category (nil when
// uncategorized).
type BookmarkWithCategory struct {
	domain.Bookmark
	Category *domain.Category
}

const bookmarkColumns = `b.id, b.url, b.title, b.slug, b.description, b.category_id, b.tags,
	b.favicon, b.og_image, b.overview, b.search_results, b.is_favorite, b.is_archived,
	b.created_at, b.updated_at`

const categoryColumns = `c.id, c.name, c.description, c.slug, c.color, c.icon, c.created_at, c.updated_at`

// InsertMany inserts bookmarks in a single transaction.
// All-or-nothing: the first constraint violation rolls back the batch
// and surfaces as a single database error.
func (s *Store) InsertMany(ctx context.Context, bookmarks []domain.Bookmark) (int, error) {
	if len(bookmarks) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO bookmarks (url, title, slug, description, category_id, tags,
			favicon, og_image, overview, search_results, is_favorite, is_archived,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer utils.Close(stmt)

	for _, b := range bookmarks {
		if _, err := stmt.ExecContext(ctx,
			b.URL, b.Title, b.Slug, b.Description, nullable(b.CategoryID), b.Tags,
			b.Favicon, b.OGImage, b.Overview, b.SearchResults, b.IsFavorite, b.IsArchived,
			b.CreatedAt.Unix(), b.UpdatedAt.Unix(),
		); err != nil {
			return 0, fmt.Errorf("failed to insert bookmark %q: %w", b.URL, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit batch: %w", err)
	}
	return len(bookmarks), nil
}

// Insert inserts one bookmark and returns its assigned ID.
func (s *Store) Insert(ctx context.Context, b domain.Bookmark) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO bookmarks (url, title, slug, description, category_id, tags,
			favicon, og_image, overview, search_results, is_favorite, is_archived,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		b.URL, b.Title, b.Slug, b.Description, nullable(b.CategoryID), b.Tags,
		b.Favicon, b.OGImage, b.Overview, b.SearchResults, b.IsFavorite, b.IsArchived,
		b.CreatedAt.Unix(), b.UpdatedAt.Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert bookmark: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}
	return id, nil
}

// Update rewrites all mutable fields of a bookmark.
func (s *Store) Update(ctx context.Context, b domain.Bookmark) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE bookmarks
		SET url = ?, title = ?, slug = ?, description = ?, category_id = ?, tags = ?,
			favicon = ?, og_image = ?, overview = ?, search_results = ?,
			is_favorite = ?, is_archived = ?, updated_at = ?
		WHERE id = ?
	`,
		b.URL, b.Title, b.Slug, b.Description, nullable(b.CategoryID), b.Tags,
		b.Favicon, b.OGImage, b.Overview, b.SearchResults,
		b.IsFavorite, b.IsArchived, b.UpdatedAt.Unix(),
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update bookmark: %w", err)
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

// DeleteByID removes a bookmark.
func (s *Store) DeleteByID(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
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

// GetByID returns one bookmark with its category.
func (s *Store) GetByID(ctx context.Context, id int64) (*BookmarkWithCategory, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+bookmarkColumns+`, `+categoryColumns+`
		FROM bookmarks AS b
		LEFT JOIN categories AS c ON c.id = b.category_id
		WHERE b.id = ?
	`, id)
	return scanJoined(row)
}

// GetBySlug returns one bookmark with its category.
func (s *Store) GetBySlug(ctx context.Context, slug string) (*BookmarkWithCategory, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+bookmarkColumns+`, `+categoryColumns+`
		FROM bookmarks AS b
		LEFT JOIN categories AS c ON c.id = b.category_id
		WHERE b.slug = ?
	`, slug)
	return scanJoined(row)
}

// ListWithCategory returns all bookmarks joined with their category,
// newest first.
func (s *Store) ListWithCategory(ctx context.Context) ([]BookmarkWithCategory, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+bookmarkColumns+`, `+categoryColumns+`
		FROM bookmarks AS b
		LEFT JOIN categories AS c ON c.id = b.category_id
		ORDER BY b.created_at DESC, b.id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	defer utils.Close(rows)

	var out []BookmarkWithCategory
	for rows.Next() {
		bc, err := scanJoined(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *bc)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanJoined(row scanner) (*BookmarkWithCategory, error) {
	var (
		b                  domain.Bookmark
		categoryID         sql.NullString
		createdAt, updated int64
		isFav, isArch      int

		cID, cName, cDesc, cSlug, cColor, cIcon sql.NullString
		cCreated, cUpdated                      sql.NullInt64
	)

	err := row.Scan(
		&b.ID, &b.URL, &b.Title, &b.Slug, &b.Description, &categoryID, &b.Tags,
		&b.Favicon, &b.OGImage, &b.Overview, &b.SearchResults, &isFav, &isArch,
		&createdAt, &updated,
		&cID, &cName, &cDesc, &cSlug, &cColor, &cIcon, &cCreated, &cUpdated,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan bookmark: %w", err)
	}

	b.CategoryID = categoryID.String
	b.IsFavorite = isFav != 0
	b.IsArchived = isArch != 0
	b.CreatedAt = time.Unix(createdAt, 0).UTC()
	b.UpdatedAt = time.Unix(updated, 0).UTC()

	bc := &BookmarkWithCategory{Bookmark: b}
	if cID.Valid {
		bc.Category = &domain.Category{
			ID:          cID.String,
			Name:        cName.String,
			Description: cDesc.String,
			Slug:        cSlug.String,
			Color:       cColor.String,
			Icon:        cIcon.String,
			CreatedAt:   time.Unix(cCreated.Int64, 0).UTC(),
			UpdatedAt:   time.Unix(cUpdated.Int64, 0).UTC(),
		}
	}
	return bc, nil
}

// nullable maps "" to NULL for optional foreign keys.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
