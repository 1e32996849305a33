package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/teachstack/edudir/internal/httpserver/deps"
	"github.com/teachstack/edudir/internal/httpserver/handlers"
	"github.com/teachstack/edudir/internal/httpserver/mw"
)

func init() { Register(registerCategories) }

func registerCategories(r chi.Router, d deps.Deps) {
	r.Get("/api/categories", handlers.ListCategories(d))

	admin := r.With(mw.RequireAdmin(d.AdminToken, d.TrustProxy, d.Logger))
	admin.Post("/api/categories", handlers.CreateCategory(d))
	admin.Put("/api/categories/{id}", handlers.UpdateCategory(d))
	admin.Delete("/api/categories/{id}", handlers.DeleteCategory(d))
}
