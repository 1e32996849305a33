package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/teachstack/edudir/internal/httpserver/deps"
	"github.com/teachstack/edudir/internal/logger"
)

type subscribeRequest struct {
	Email     string `json:"email"`
	Source    string `json:"source"`
	UserGroup string `json:"userGroup"`
}

type subscribeResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id"`
	Message string `json:"message"`
}

// Subscribe registers a newsletter signup. Repeat signups with the
// same email are acknowledged, not duplicated.
func Subscribe(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req subscribeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
			return
		}
		req.Email = strings.TrimSpace(req.Email)
		if req.Email == "" {
			writeError(w, http.StatusBadRequest, "Email is required")
			return
		}

		sub, created, err := d.Subscribers.Add(req.Email, req.Source, req.UserGroup)
		if err != nil {
			d.Logger.Error("failed to add subscriber", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}

		if !created {
			writeJSON(w, http.StatusOK, subscribeResponse{
				Success: true,
				ID:      sub.ID,
				Message: "Already subscribed",
			})
			return
		}

		d.Logger.Info("new subscriber added",
			logger.String("email", sub.Email),
			logger.String("source", sub.Source))
		writeJSON(w, http.StatusCreated, subscribeResponse{
			Success: true,
			ID:      sub.ID,
			Message: "Subscription successful! Please check your email to verify your subscription.",
		})
	}
}

type verifyResponse struct {
	Success bool `json:"success"`
}

// VerifySubscription confirms a signup from the emailed token.
func VerifySubscription(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := strings.TrimSpace(r.URL.Query().Get("token"))
		if token == "" {
			writeError(w, http.StatusBadRequest, "Token is required")
			return
		}

		ok, err := d.Subscribers.Verify(token)
		if err != nil {
			d.Logger.Error("failed to verify subscriber", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "Internal Server Error")
			return
		}
		if !ok {
			writeError(w, http.StatusNotFound, "Unknown or expired token")
			return
		}

		writeJSON(w, http.StatusOK, verifyResponse{Success: true})
	}
}
