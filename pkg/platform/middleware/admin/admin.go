// Package admin guards the read-only operator routes.
package admin

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	dErrors "skyparty/pkg/domain-errors"
	"skyparty/pkg/platform/httputil"
	"skyparty/pkg/requestcontext"
)

// TokenHeader carries the static operator token.
const TokenHeader = "X-Admin-Token"

var errTokenRequired = dErrors.New(dErrors.CodeUnauthorized, "admin token required")

// RequireAdminToken rejects requests whose TokenHeader does not match
// expectedToken. An empty expectedToken rejects everything.
func RequireAdminToken(expectedToken string, logger *slog.Logger) func(http.Handler) http.Handler {
	expected := []byte(expectedToken)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !tokenMatches(expected, r.Header.Get(TokenHeader)) {
				ctx := r.Context()
				logger.WarnContext(ctx, "admin request rejected",
					"request_id", requestcontext.RequestID(ctx),
					"client_ip", requestcontext.ClientIP(ctx),
					"path", r.URL.Path,
				)
				httputil.WriteError(w, errTokenRequired)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// tokenMatches compares in constant time.
func tokenMatches(expected []byte, got string) bool {
	if len(expected) == 0 {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), expected) == 1
}
