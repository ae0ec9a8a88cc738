package admin

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skyparty/pkg/platform/httputil"
)

func TestRequireAdminToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	tests := []struct {
		name     string
		expected string
		header   string
		status   int
	}{
		{"matching token passes", "s3cret", "s3cret", http.StatusNoContent},
		{"wrong token rejected", "s3cret", "guess", http.StatusUnauthorized},
		{"prefix of token rejected", "s3cret", "s3c", http.StatusUnauthorized},
		{"missing token rejected", "s3cret", "", http.StatusUnauthorized},
		{"unconfigured token disables routes", "", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin/lockouts", nil)
			if tt.header != "" {
				req.Header.Set(TokenHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			RequireAdminToken(tt.expected, logger)(ok).ServeHTTP(rec, req)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	t.Run("rejection uses the error envelope", func(t *testing.T) {
		rec := httptest.NewRecorder()
		RequireAdminToken("s3cret", logger)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/invites", nil))

		var body httputil.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "unauthorized", body.Error)
		assert.Equal(t, "admin token required", body.ErrorDescription)
	})
}
