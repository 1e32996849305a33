package mw

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/teachstack/edudir/internal/logger"
	"github.com/teachstack/edudir/internal/utils"
)

// RequireAdmin gates a route behind the admin bearer token.
// Failures are opaque: same status and body whether the token is
// missing, malformed, or wrong.
func RequireAdmin(token string, trustProxy bool, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth := r.Header.Get("Authorization")
			presented, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
				log.Warn("rejected admin request",
					logger.String("path", r.URL.Path),
					logger.String("remote_ip", utils.ClientIP(r, trustProxy)))
				w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
				http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
