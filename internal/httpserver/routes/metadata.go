package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/teachstack/edudir/internal/httpserver/deps"
	"github.com/teachstack/edudir/internal/httpserver/handlers"
)

func init() { Register(registerMetadata) }

func registerMetadata(r chi.Router, d deps.Deps) {
	r.With(d.RateLimiter).Get("/api/metadata", handlers.Metadata(d))
}
