package httptransport

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"skyparty/internal/platform/metrics"
	"skyparty/pkg/requestcontext"
)

type probeRoutes struct {
	seen context.Context
}

func (p *probeRoutes) Register(r chi.Router) {
	r.Get("/probe", func(w http.ResponseWriter, r *http.Request) {
		p.seen = r.Context()
		w.WriteHeader(http.StatusNoContent)
	})
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHealthz(t *testing.T) {
	t.Run("all checks pass", func(t *testing.T) {
		router := NewRouter(Deps{Logger: discard(), HealthChecks: map[string]HealthCheck{
			"store": func(context.Context) error { return nil },
		}})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"status":"ok","checks":{"store":"ok"}}`, w.Body.String())
	})

	t.Run("failing dependency", func(t *testing.T) {
		router := NewRouter(Deps{Logger: discard(), HealthChecks: map[string]HealthCheck{
			"store": func(context.Context) error { return nil },
			"redis": func(context.Context) error { return errors.New("dial tcp: connection refused") },
		}})
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.JSONEq(t, `{"status":"degraded","checks":{"store":"ok","redis":"unavailable"}}`, w.Body.String())
		assert.NotContains(t, w.Body.String(), "refused")
	})
}

func TestMetricsEndpoint(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.IncrementInvitesIssued("Lagos Elite")

	router := NewRouter(Deps{Logger: discard(), Gatherer: reg})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `skyparty_invites_issued_total{club="Lagos Elite"} 1`))
}

func TestRequestContextIsPopulated(t *testing.T) {
	probe := &probeRoutes{}
	router := NewRouter(Deps{Logger: discard(), RequestTimeout: time.Second, Routes: []Registrar{probe}})

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNoContent, w.Code)
	require.NotNil(t, probe.seen)
	assert.Equal(t, "203.0.113.7", requestcontext.ClientIP(probe.seen))
	assert.NotEmpty(t, requestcontext.Device(probe.seen))
	_, hasDeadline := probe.seen.Deadline()
	assert.True(t, hasDeadline)
}
