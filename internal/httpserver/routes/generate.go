package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/teachstack/edudir/internal/httpserver/deps"
	"github.com/teachstack/edudir/internal/httpserver/handlers"
)

func init() { Register(registerGenerate) }

func registerGenerate(r chi.Router, d deps.Deps) {
	r.With(d.RateLimiter).Post("/api/generate", handlers.Generate(d))
}
