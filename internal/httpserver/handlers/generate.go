package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/teachstack/edudir/internal/httpserver/deps"
	"github.com/teachstack/edudir/internal/logger"
)

type generateRequest struct {
	URL           string `json:"url"`
	SearchResults string `json:"searchResults"`
}

type generateResponse struct {
	Overview string `json:"overview"`
}

// Generate produces a markdown overview from pre-fetched search
// context. Unlike metadata, LLM failures surface as errors so the
// client can fall back to the plain description.
func Generate(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid JSON in request body")
			return
		}
		if req.URL == "" || req.SearchResults == "" {
			writeError(w, http.StatusBadRequest, "URL and search results are required")
			return
		}

		if d.Summarizer == nil {
			writeError(w, http.StatusServiceUnavailable, "Overview generation is not configured")
			return
		}

		overview, err := d.Summarizer.Overview(r.Context(), req.URL, req.SearchResults)
		if err != nil {
			d.Logger.Error("overview generation failed",
				logger.String("url", req.URL),
				logger.Error(err))
			writeError(w, http.StatusBadGateway, "Failed to generate overview")
			return
		}

		writeJSON(w, http.StatusOK, generateResponse{Overview: overview})
	}
}
