package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/teachstack/edudir/internal/httpserver/deps"
	"github.com/teachstack/edudir/internal/httpserver/handlers"
	"github.com/teachstack/edudir/internal/httpserver/mw"
)

func init() { Register(registerReload) }

func registerReload(r chi.Router, d deps.Deps) {
	r.With(mw.RequireAdmin(d.AdminToken, d.TrustProxy, d.Logger)).Post("/api/admin/reload", handlers.Reload(d))
}
