package server

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vikas-kashyap97/Jarvis-AI/internal/logging"
)

// Paths that stay open when bearer auth is enabled, so liveness and
// readiness probes keep working without credentials.
var unauthenticatedPaths = map[string]bool{
	"/healthz":          true,
	"/readyz":           true,
	"/healthz/detailed": true,
}

// BearerAuthMiddleware requires a static bearer token on every request
// except the health endpoints. An empty token disables authentication and
// returns the handler unchanged. Rejected requests are logged with the
// presented token reduced to its length.
func BearerAuthMiddleware(token string, logger *slog.Logger, next http.Handler) http.Handler {
	if token == "" {
		return next
	}
	if logger == nil {
		logger = slog.Default()
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if unauthenticatedPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		presented, ok := bearerToken(r)
		if !ok || subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			logger.Warn("rejected request with invalid bearer token",
				"path", r.URL.Path,
				"token", logging.SanitizeToken(presented),
			)
			w.Header().Set("WWW-Authenticate", `Bearer realm="jarvis"`)
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the token from an "Authorization: Bearer x" header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return header[len(prefix):], true
}
