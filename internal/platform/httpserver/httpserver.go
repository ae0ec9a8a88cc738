// Package httpserver builds the listening server around the router.
package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"skyparty/internal/platform/config"
)

const (
	readHeaderTimeout = 5 * time.Second
	readTimeout       = 15 * time.Second
	idleTimeout       = 60 * time.Second
	writeGrace        = 5 * time.Second
)

// New builds the server. WriteTimeout trails the per-request deadline by a
// grace period so a timed-out handler can still write its response.
func New(cfg config.Server, handler http.Handler, logger *slog.Logger) *http.Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
		ReadTimeout:       readTimeout,
		WriteTimeout:      cfg.RequestTimeout + writeGrace,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    1 << 16,
		ErrorLog:          slog.NewLogLogger(logger.Handler(), slog.LevelWarn),
	}
}
