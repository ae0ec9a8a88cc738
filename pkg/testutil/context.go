package testutil

import (
	"net/http"
	"time"

	"skyparty/pkg/requestcontext"
)

// WithRequestTime pins the request-scoped clock, as requesttime.Middleware
// would. Only meaningful when the handler under test is served without that
// middleware in front of it.
func WithRequestTime(req *http.Request, at time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), at.UTC()))
}

// WithRequestID sets the correlation ID carried into audit events and mail.
func WithRequestID(req *http.Request, id string) *http.Request {
	return req.WithContext(requestcontext.WithRequestID(req.Context(), id))
}

// WithClient sets client IP and user agent the way metadata.ClientMetadata does.
func WithClient(req *http.Request, ip, userAgent string) *http.Request {
	req.Header.Set("User-Agent", userAgent)
	return req.WithContext(requestcontext.WithClientMetadata(req.Context(), ip, userAgent))
}
