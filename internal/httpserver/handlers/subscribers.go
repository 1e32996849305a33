package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/teachstack/edudir/internal/httpserver/deps"
)

// ListSubscribers returns all newsletter subscribers, tokens included.
// Admin only.
func ListSubscribers(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, d.Subscribers.List())
	}
}

// DeleteSubscriber removes one subscriber by ID. Admin only.
func DeleteSubscriber(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")

		ok, err := d.Subscribers.Remove(id)
		if err != nil {
			writeError(w, http.StatusInternalServerError, "Failed to remove subscriber")
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, "Subscriber not found")
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
