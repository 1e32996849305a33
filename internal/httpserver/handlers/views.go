package handlers

import (
	"time"

	"github.com/teachstack/edudir/internal/domain"
	"github.com/teachstack/edudir/internal/utils"
)

type categoryView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Slug        string `json:"slug"`
	Color       string `json:"color,omitempty"`
	Icon        string `json:"icon,omitempty"`
}

type bookmarkView struct {
	ID          int64         `json:"id"`
	URL         string        `json:"url"`
	Title       string        `json:"title"`
	Slug        string        `json:"slug"`
	Description string        `json:"description,omitempty"`
	CategoryID  string        `json:"categoryId,omitempty"`
	Tags        []string      `json:"tags,omitempty"`
	Favicon     string        `json:"favicon,omitempty"`
	OGImage     string        `json:"ogImage,omitempty"`
	Overview    string        `json:"overview,omitempty"`
	IsFavorite  bool          `json:"isFavorite"`
	IsArchived  bool          `json:"isArchived"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	Category    *categoryView `json:"category,omitempty"`
}

func newCategoryView(c *domain.Category) *categoryView {
	if c == nil {
		return nil
	}
	return &categoryView{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		Slug:        c.Slug,
		Color:       c.Color,
		Icon:        c.Icon,
	}
}

func newBookmarkView(b *domain.Bookmark, c *domain.Category) bookmarkView {
	return bookmarkView{
		ID:          b.ID,
		URL:         b.URL,
		Title:       b.Title,
		Slug:        b.Slug,
		Description: b.Description,
		CategoryID:  b.CategoryID,
		Tags:        utils.SplitAndTrim(b.Tags),
		Favicon:     b.Favicon,
		OGImage:     b.OGImage,
		Overview:    b.Overview,
		IsFavorite:  b.IsFavorite,
		IsArchived:  b.IsArchived,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
		Category:    newCategoryView(c),
	}
}
