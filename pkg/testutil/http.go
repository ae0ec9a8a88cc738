// Package testutil provides request builders and response assertions shared by
// handler, router and wiring tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skyparty/internal/invite/models"
	adminmw "skyparty/pkg/platform/middleware/admin"
)

// AdminTokenHeader carries the static admin token.
const AdminTokenHeader = adminmw.TokenHeader

// NewJSONRequest marshals body and sets the JSON content type.
func NewJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewRawRequest sends body verbatim, for malformed payloads.
func NewRawRequest(t *testing.T, method, path, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// NewInviteRequest builds POST /api/requestInvite.
func NewInviteRequest(t *testing.T, email, question, answer string) *http.Request {
	t.Helper()
	return NewJSONRequest(t, http.MethodPost, "/api/requestInvite", models.RequestInviteRequest{
		Email:    email,
		Question: question,
		Answer:   answer,
	})
}

// NewAdminRequest builds an authenticated admin GET.
func NewAdminRequest(t *testing.T, path, token string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set(AdminTokenHeader, token)
	return req
}

// DoRequest serves req and returns the recorder.
func DoRequest(handler http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

// DecodeJSON unmarshals the recorded body into T.
func DecodeJSON[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out), "failed to unmarshal response: %s", rr.Body.String())
	return out
}

// AssertStatus asserts the response status code.
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	assert.Equal(t, expected, rr.Code, "unexpected status code, body: %s", rr.Body.String())
}

// AssertInviteResponse checks status code and message of a requestInvite
// response and returns the decoded body for further checks.
func AssertInviteResponse(t *testing.T, rr *httptest.ResponseRecorder, status int, message string) models.InviteResponse {
	t.Helper()
	AssertStatus(t, rr, status)
	resp := DecodeJSON[models.InviteResponse](t, rr)
	assert.Equal(t, message, resp.Message)
	return resp
}

// AssertErrorCode checks the "error" field of an httputil error body.
func AssertErrorCode(t *testing.T, rr *httptest.ResponseRecorder, status int, code string) {
	t.Helper()
	AssertStatus(t, rr, status)
	body := DecodeJSON[map[string]string](t, rr)
	assert.Equal(t, code, body["error"], "unexpected error code")
}
