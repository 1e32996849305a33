package handlers

import (
	"net/http"
	"strings"

	"github.com/teachstack/edudir/internal/httpserver/deps"
	"github.com/teachstack/edudir/internal/logger"
)

// Metadata serves page metadata for a URL. The only failure mode is a
// missing or unparseable URL; fetch and parse problems come back as a
// 200 with degraded metadata so client previews never break.
func Metadata(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rawURL := strings.TrimSpace(r.URL.Query().Get("url"))
		if rawURL == "" {
			writeError(w, http.StatusBadRequest, "URL is required")
			return
		}

		md, err := d.Fetcher.Fetch(r.Context(), rawURL)
		if err != nil {
			d.Logger.Warn("metadata request rejected",
				logger.String("url", rawURL),
				logger.Error(err))
			writeError(w, http.StatusBadRequest, "Invalid URL format")
			return
		}

		writeJSON(w, http.StatusOK, md)
	}
}
