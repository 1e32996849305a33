package handlers

import (
	"net/http"

	"github.com/teachstack/edudir/internal/httpserver/deps"
	"github.com/teachstack/edudir/internal/logger"
)

type reloadResponse struct {
	Triggered bool   `json:"triggered"`
	Message   string `json:"message"`
}

// Reload triggers a manual index refresh.
func Reload(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if d.RequestReload() {
			d.Logger.Info("manual index refresh triggered via endpoint",
				logger.String("remote_ip", r.RemoteAddr))
			writeJSON(w, http.StatusAccepted, reloadResponse{
				Triggered: true,
				Message:   "Index refresh triggered",
			})
			return
		}

		d.Logger.Warn("index refresh already in progress",
			logger.String("remote_ip", r.RemoteAddr))
		writeJSON(w, http.StatusTooManyRequests, reloadResponse{
			Triggered: false,
			Message:   "Refresh already in progress, please wait",
		})
	}
}
