package middleware

import (
	"net/http"

	"github.com/carepulse/intake-platform/internal/admin"
	"github.com/carepulse/intake-platform/pkg/logging"
)

// AdminSession rejects requests that do not carry a live admin session token.
func AdminSession(gate *admin.Gate, logger *logging.Logger) func(http.Handler) http.Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := admin.BearerToken(r)
			if token == "" {
				http.Error(w, "admin session required", http.StatusUnauthorized)
				return
			}
			if _, err := gate.Check(r.Context(), token); err != nil {
				logger.Warn("admin session rejected", "error", err, "path", r.URL.Path)
				http.Error(w, "admin session required", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
