package handlers

import (
	"net/http"

	"github.com/teachstack/edudir/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready          bool `json:"ready"`
	IndexedEntries int  `json:"indexed_entries"`
}

// Readyz reports readiness: the service is ready once the memory index
// has been built at least once.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ready := !d.MemoryIndex.LastReload().IsZero()
		status := http.StatusOK
		if !ready {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, readyzResponse{
			Ready:          ready,
			IndexedEntries: d.MemoryIndex.Count(),
		})
	}
}
