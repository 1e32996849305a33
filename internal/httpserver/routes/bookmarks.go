package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/teachstack/edudir/internal/httpserver/deps"
	"github.com/teachstack/edudir/internal/httpserver/handlers"
	"github.com/teachstack/edudir/internal/httpserver/mw"
)

func init() { Register(registerBookmarks) }

func registerBookmarks(r chi.Router, d deps.Deps) {
	// Public reads
	r.Get("/api/bookmarks", handlers.ListBookmarks(d))
	r.Get("/api/bookmarks/{slug}", handlers.GetBookmark(d))
	r.Get("/api/search", handlers.SearchBookmarks(d))

	// Admin writes
	admin := r.With(mw.RequireAdmin(d.AdminToken, d.TrustProxy, d.Logger))
	admin.Post("/api/bookmarks", handlers.CreateBookmark(d))
	admin.Put("/api/bookmarks/{id:[0-9]+}", handlers.UpdateBookmark(d))
	admin.Delete("/api/bookmarks/{id:[0-9]+}", handlers.DeleteBookmark(d))
	admin.Post("/api/bookmarks/bulk", handlers.BulkUpload(d))
}
