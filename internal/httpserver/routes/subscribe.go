package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/teachstack/edudir/internal/httpserver/deps"
	"github.com/teachstack/edudir/internal/httpserver/handlers"
	"github.com/teachstack/edudir/internal/httpserver/mw"
)

func init() { Register(registerSubscribe) }

func registerSubscribe(r chi.Router, d deps.Deps) {
	r.Post("/api/subscribe", handlers.Subscribe(d))
	r.Get("/api/subscribe/verify", handlers.VerifySubscription(d))

	admin := r.With(mw.RequireAdmin(d.AdminToken, d.TrustProxy, d.Logger))
	admin.Get("/api/admin/subscribers", handlers.ListSubscribers(d))
	admin.Delete("/api/admin/subscribers/{id}", handlers.DeleteSubscriber(d))
}
